package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/modelbrowser/pkg/debug"
	"github.com/vanderheijden86/modelbrowser/pkg/metrics"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

var (
	ErrMissingID    = errors.New("element without id")
	ErrUnknownKind  = errors.New("unknown element kind")
	ErrDanglingRef  = errors.New("reference to unknown element")
	ErrDuplicatedID = errors.New("duplicate element id")
)

// Validate checks files as one model: every element has an ID that is unique
// across all files and a known kind, every reference resolves, and no element
// (transitively) owns itself. It returns the IDs in an order in which every
// element comes after its owner and relationship ends.
func Validate(files []*File) ([]string, error) {
	specs := make(map[string]*ElementSpec)
	var ids []string
	for _, f := range files {
		for i := range f.Elements {
			spec := &f.Elements[i]
			if spec.ID == "" {
				return nil, fmt.Errorf("%s: element %d: %w", f.Path, i, ErrMissingID)
			}
			if _, dup := specs[spec.ID]; dup {
				return nil, fmt.Errorf("%s: %w: %s", f.Path, ErrDuplicatedID, spec.ID)
			}
			if !model.Kind(spec.Kind).IsValid() {
				return nil, fmt.Errorf("%s: %s: %w %q", f.Path, spec.ID, ErrUnknownKind, spec.Kind)
			}
			specs[spec.ID] = spec
			ids = append(ids, spec.ID)
		}
	}

	dg := simple.NewDirectedGraph()
	nodes := make(map[string]int64, len(ids))
	byNode := make(map[int64]string, len(ids))
	for _, id := range ids {
		n := dg.NewNode()
		dg.AddNode(n)
		nodes[id] = n.ID()
		byNode[n.ID()] = id
	}

	for _, id := range ids {
		spec := specs[id]
		for _, ref := range []string{spec.Owner, spec.Source, spec.Target} {
			if ref == "" {
				continue
			}
			if _, ok := specs[ref]; !ok {
				return nil, fmt.Errorf("%s: %w %q", id, ErrDanglingRef, ref)
			}
			if ref == id {
				return nil, fmt.Errorf("%w: %s references itself", model.ErrOwnershipCycle, id)
			}
			// ref must exist before id
			dg.SetEdge(dg.NewEdge(dg.Node(nodes[ref]), dg.Node(nodes[id])))
		}
	}

	if _, err := topo.Sort(dg); err != nil {
		var cyclic []string
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) && len(unorderable) > 0 {
			for _, n := range unorderable[0] {
				cyclic = append(cyclic, byNode[n.ID()])
			}
			sort.Strings(cyclic)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrOwnershipCycle, cyclic)
	}

	return stableOrder(ids, specs), nil
}

// stableOrder lists ids in file order, moving each element's owner and ends
// in front of it. The input is known to be acyclic.
func stableOrder(ids []string, specs map[string]*ElementSpec) []string {
	done := make(map[string]bool, len(ids))
	order := make([]string, 0, len(ids))
	var visit func(id string)
	visit = func(id string) {
		if id == "" || done[id] {
			return
		}
		done[id] = true
		spec := specs[id]
		visit(spec.Owner)
		visit(spec.Source)
		visit(spec.Target)
		order = append(order, id)
	}
	for _, id := range ids {
		visit(id)
	}
	return order
}

// LoadInto replaces the contents of g with files. g is flushed, filled in
// one transaction and announced ready. When the files do not form a valid
// model, g is left untouched.
func LoadInto(g *model.Graph, files []*File) error {
	defer debug.LogEnterExit("loader.LoadInto")()

	order, err := Validate(files)
	if err != nil {
		return err
	}
	specs := make(map[string]*ElementSpec, len(order))
	for _, f := range files {
		for i := range f.Elements {
			specs[f.Elements[i].ID] = &f.Elements[i]
		}
	}

	g.Flush()
	_ = g.Transaction(func() error {
		for _, id := range order {
			g.Create(model.Kind(specs[id].Kind), elementOptions(g, specs[id])...)
		}
		return nil
	})
	g.Ready()
	debug.Log("loader: loaded %d elements from %d files", len(order), len(files))
	return nil
}

func elementOptions(g *model.Graph, spec *ElementSpec) []model.Option {
	lookup := func(id string) *model.Element {
		if id == "" {
			return nil
		}
		e, _ := g.Lookup(id)
		return e
	}

	opts := []model.Option{model.WithID(spec.ID), model.WithName(spec.Name)}
	if owner := lookup(spec.Owner); owner != nil {
		opts = append(opts, model.WithOwner(owner))
	}
	if spec.Abstract {
		opts = append(opts, model.Abstract())
	}
	if spec.DiagramType != "" {
		opts = append(opts, model.WithDiagramType(spec.DiagramType))
	}
	if spec.Source != "" || spec.Target != "" {
		opts = append(opts, model.WithEnds(lookup(spec.Source), lookup(spec.Target)))
	}
	if len(spec.Stereotypes) > 0 {
		opts = append(opts, model.WithStereotypes(spec.Stereotypes...))
	}
	for k, v := range spec.Attrs {
		opts = append(opts, model.WithAttr(k, v))
	}
	if spec.Width != 0 || spec.Height != 0 {
		opts = append(opts, model.WithSize(spec.Width, spec.Height))
	}
	return opts
}

// Load reads paths and builds a new graph from them.
func Load(ctx context.Context, paths []string) (*model.Graph, error) {
	defer metrics.Timer(metrics.ModelLoad)()
	files, err := LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	g := model.NewGraph()
	if err := LoadInto(g, files); err != nil {
		return nil, err
	}
	return g, nil
}

// Reload parses paths again and replaces the contents of g. On error g keeps
// its previous contents.
func Reload(ctx context.Context, g *model.Graph, paths []string) error {
	defer metrics.Timer(metrics.ModelReload)()
	files, err := LoadFiles(ctx, paths)
	if err != nil {
		return err
	}
	return LoadInto(g, files)
}
