package model

import (
	"errors"
	"testing"
)

func recordEvents(g *Graph) *[]Event {
	var events []Event
	g.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{"Package", KindPackage, true},
		{"Diagram", KindDiagram, true},
		{"TopEvent", KindTopEvent, true},
		{"Unknown", "widget", false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.want {
				t.Errorf("Kind.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_Nameable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindClass, true},
		{KindDiagram, true},
		{KindGeneralization, false},
		{KindComment, false},
		{KindSlot, false},
		{KindInstanceSpecification, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Nameable(); got != tt.want {
				t.Errorf("Nameable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_IsRequiresAllTraits(t *testing.T) {
	if !KindAssociation.Is(TraitRelationship | TraitClassifier) {
		t.Error("association should be both relationship and classifier")
	}
	if KindDependency.Is(TraitRelationship | TraitClassifier) {
		t.Error("dependency is not a classifier")
	}
	if KindClass.Is(0) {
		t.Error("empty trait set should never match")
	}
}

func TestKinds_Sorted(t *testing.T) {
	kinds := Kinds()
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] >= kinds[i] {
			t.Fatalf("kinds not sorted at %d: %s >= %s", i, kinds[i-1], kinds[i])
		}
	}
}

func TestGraph_CreateAttachesOwner(t *testing.T) {
	g := NewGraph()
	events := recordEvents(g)

	pkg := g.Create(KindPackage, WithName("root"))
	cls := g.Create(KindClass, WithName("Car"), WithOwner(pkg))

	if cls.Owner() != pkg {
		t.Fatalf("expected owner %v, got %v", pkg, cls.Owner())
	}
	owned := pkg.OwnedElements()
	if len(owned) != 1 || owned[0] != cls {
		t.Fatalf("expected pkg to own cls, got %v", owned)
	}
	if len(*events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(*events))
	}
	if ev, ok := (*events)[1].(ElementCreated); !ok || ev.Element != cls {
		t.Errorf("expected ElementCreated for cls, got %#v", (*events)[1])
	}
	if cls.ID() == "" || cls.ID() == pkg.ID() {
		t.Errorf("expected unique generated IDs, got %q and %q", cls.ID(), pkg.ID())
	}
}

func TestGraph_WithNameIgnoredForUnnamedKinds(t *testing.T) {
	g := NewGraph()
	c := g.Create(KindComment, WithName("ignored"))
	if c.Name() != "" {
		t.Errorf("expected comment to have no name, got %q", c.Name())
	}
	if err := g.SetName(c, "x"); !errors.Is(err, ErrNotNameable) {
		t.Errorf("expected ErrNotNameable, got %v", err)
	}
}

func TestGraph_CreateDuplicateIDPanics(t *testing.T) {
	g := NewGraph()
	g.Create(KindClass, WithID("a"))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate id")
		}
	}()
	g.Create(KindClass, WithID("a"))
}

func TestGraph_SetOwnerMovesAndReportsFormerOwner(t *testing.T) {
	g := NewGraph()
	a := g.Create(KindPackage, WithName("a"))
	b := g.Create(KindPackage, WithName("b"))
	c := g.Create(KindClass, WithName("c"), WithOwner(a))
	events := recordEvents(g)

	if err := g.SetOwner(c, b); err != nil {
		t.Fatalf("SetOwner: %v", err)
	}
	if len(a.OwnedElements()) != 0 {
		t.Errorf("expected a to own nothing, got %v", a.OwnedElements())
	}
	if c.Owner() != b {
		t.Errorf("expected c owned by b")
	}
	ev, ok := (*events)[0].(OwnerChanged)
	if !ok || ev.FormerOwner != a || ev.Element != c {
		t.Errorf("unexpected event %#v", (*events)[0])
	}
}

func TestGraph_SetOwnerRejectsCycles(t *testing.T) {
	g := NewGraph()
	a := g.Create(KindPackage)
	b := g.Create(KindPackage, WithOwner(a))
	c := g.Create(KindPackage, WithOwner(b))

	if err := g.SetOwner(a, c); !errors.Is(err, ErrOwnershipCycle) {
		t.Errorf("expected ErrOwnershipCycle, got %v", err)
	}
	if err := g.SetOwner(a, a); !errors.Is(err, ErrOwnershipCycle) {
		t.Errorf("expected ErrOwnershipCycle for self ownership, got %v", err)
	}
}

func TestGraph_DeleteKeepsSubtreeForCascade(t *testing.T) {
	g := NewGraph()
	root := g.Create(KindPackage)
	pkg := g.Create(KindPackage, WithOwner(root))
	cls := g.Create(KindClass, WithOwner(pkg))
	events := recordEvents(g)

	if err := g.Delete(pkg); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if g.Contains(pkg) || g.Contains(cls) {
		t.Error("expected subtree removed from graph")
	}
	if cls.Owner() != pkg || len(pkg.OwnedElements()) != 1 {
		t.Error("expected subtree to stay intact below the deleted element")
	}
	if pkg.Owner() != nil {
		t.Error("expected deleted element to be detached")
	}
	ev, ok := (*events)[0].(ElementDeleted)
	if !ok || ev.FormerOwner != root {
		t.Errorf("expected ElementDeleted with former owner, got %#v", (*events)[0])
	}
	if err := g.Delete(pkg); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("expected ErrUnknownElement on second delete, got %v", err)
	}
}

func TestGraph_TransactionDefersEvents(t *testing.T) {
	g := NewGraph()
	cls := g.Create(KindClass)
	events := recordEvents(g)

	err := g.Transaction(func() error {
		if err := g.SetName(cls, "A"); err != nil {
			return err
		}
		if len(*events) != 0 {
			t.Error("expected events to be deferred inside a transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if len(*events) != 1 {
		t.Fatalf("expected 1 event after commit, got %d", len(*events))
	}

	boom := errors.New("boom")
	err = g.Transaction(func() error {
		_ = g.SetAbstract(cls, true)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(*events) != 2 {
		t.Fatalf("expected failed transaction to deliver its events, got %d", len(*events))
	}
	if !cls.IsAbstract() {
		t.Error("expected change made before the failure to stay")
	}
}

func TestGraph_SubscribeUnsubscribe(t *testing.T) {
	g := NewGraph()
	count := 0
	unsubscribe := g.Subscribe(func(Event) { count++ })
	g.Create(KindClass)
	unsubscribe()
	g.Create(KindClass)
	if count != 1 {
		t.Errorf("expected 1 delivered event, got %d", count)
	}
}

func TestGraph_RootsInCreationOrder(t *testing.T) {
	g := NewGraph()
	a := g.Create(KindPackage, WithName("a"))
	b := g.Create(KindPackage, WithName("b"))
	g.Create(KindClass, WithOwner(a))
	c := g.Create(KindPackage, WithName("c"))

	roots := g.Roots()
	if len(roots) != 3 || roots[0] != a || roots[1] != b || roots[2] != c {
		t.Errorf("unexpected roots %v", roots)
	}
}

func TestGraph_SetAttrEmptyRemoves(t *testing.T) {
	g := NewGraph()
	e := g.Create(KindMetadata, WithAttr("license", "MIT"))
	if v, ok := e.Attr("license"); !ok || v != "MIT" {
		t.Fatalf("expected license MIT, got %q", v)
	}
	if err := g.SetAttr(e, "license", ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Attr("license"); ok {
		t.Error("expected attribute removed")
	}
}

func TestGraph_FlushEmitsModelFlushed(t *testing.T) {
	g := NewGraph()
	g.Create(KindClass)
	events := recordEvents(g)
	g.Flush()
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d", g.Len())
	}
	if _, ok := (*events)[0].(ModelFlushed); !ok {
		t.Errorf("expected ModelFlushed, got %#v", (*events)[0])
	}
}
