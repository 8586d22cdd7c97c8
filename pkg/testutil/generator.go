// Package testutil builds model fixtures for tests and benchmarks. All
// generators are deterministic for a given seed.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/modelbrowser/pkg/loader"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed     int64        // Random seed (0 = 42)
	IDPrefix string       // Prefix for element IDs (default: "el")
	LeafMix  []model.Kind // Kinds picked for leaves (nil = classes only)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "el",
		LeafMix:  []model.Kind{model.KindClass},
	}
}

// Generator creates element specs in various shapes.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "el"
	}
	if len(cfg.LeafMix) == 0 {
		cfg.LeafMix = []model.Kind{model.KindClass}
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) id() string {
	id := fmt.Sprintf("%s-%04d", g.cfg.IDPrefix, g.next)
	g.next++
	return id
}

func (g *Generator) leafKind() model.Kind {
	return g.cfg.LeafMix[g.rng.Intn(len(g.cfg.LeafMix))]
}

// Tree creates a package hierarchy of the given depth. Every package holds
// breadth children: packages above the last level, leaves picked from
// LeafMix at the last level. Depth 0 yields breadth root leaves.
func (g *Generator) Tree(depth, breadth int) []loader.ElementSpec {
	if breadth < 1 {
		breadth = 1
	}
	var specs []loader.ElementSpec
	var grow func(owner string, level int)
	grow = func(owner string, level int) {
		for b := 0; b < breadth; b++ {
			spec := loader.ElementSpec{ID: g.id(), Owner: owner}
			if level < depth {
				spec.Kind = string(model.KindPackage)
				spec.Name = fmt.Sprintf("pkg %d.%d", level, b)
				specs = append(specs, spec)
				grow(spec.ID, level+1)
				continue
			}
			spec.Kind = string(g.leafKind())
			spec.Name = fmt.Sprintf("%s %d", spec.Kind, g.rng.Intn(10000))
			specs = append(specs, spec)
		}
	}
	grow("", 0)
	return specs
}

// Flat creates size root elements picked from LeafMix.
func (g *Generator) Flat(size int) []loader.ElementSpec {
	specs := make([]loader.ElementSpec, 0, size)
	for i := 0; i < size; i++ {
		kind := g.leafKind()
		specs = append(specs, loader.ElementSpec{
			ID:   g.id(),
			Kind: string(kind),
			Name: fmt.Sprintf("%s %d", kind, i),
		})
	}
	return specs
}

// Generalizations adds n generalizations between random classifiers of
// specs, owned by their source. Specs without two classifiers are returned
// unchanged.
func (g *Generator) Generalizations(specs []loader.ElementSpec, n int) []loader.ElementSpec {
	var classifiers []loader.ElementSpec
	for _, s := range specs {
		if model.Kind(s.Kind).Is(model.TraitClassifier) {
			classifiers = append(classifiers, s)
		}
	}
	if len(classifiers) < 2 {
		return specs
	}
	for i := 0; i < n; i++ {
		src := classifiers[g.rng.Intn(len(classifiers))]
		dst := classifiers[g.rng.Intn(len(classifiers))]
		if src.ID == dst.ID {
			continue
		}
		specs = append(specs, loader.ElementSpec{
			ID:     g.id(),
			Kind:   string(model.KindGeneralization),
			Owner:  src.ID,
			Source: src.ID,
			Target: dst.ID,
		})
	}
	return specs
}

// Build loads specs into a new graph.
func Build(specs []loader.ElementSpec) (*model.Graph, error) {
	g := model.NewGraph()
	file := &loader.File{Version: loader.CurrentVersion, Elements: specs}
	if err := loader.LoadInto(g, []*loader.File{file}); err != nil {
		return nil, err
	}
	return g, nil
}

// MustBuild is Build for tests.
func MustBuild(t testing.TB, specs []loader.ElementSpec) *model.Graph {
	t.Helper()
	g, err := Build(specs)
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return g
}

// WriteModelFile writes specs as a model file named name in dir and returns
// its path.
func WriteModelFile(t testing.TB, dir, name string, specs []loader.ElementSpec) string {
	t.Helper()
	data, err := yaml.Marshal(loader.File{Version: loader.CurrentVersion, Elements: specs})
	if err != nil {
		t.Fatalf("marshal model file: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}
	return path
}
