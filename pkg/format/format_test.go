package format

import (
	"testing"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

func TestFormat(t *testing.T) {
	g := model.NewGraph()
	cls := g.Create(model.KindClass, model.WithName("Car"))
	prop := g.Create(model.KindProperty, model.WithName("wheels"),
		model.WithAttr(model.AttrType, "int"), model.WithOwner(cls))
	op := g.Create(model.KindOperation, model.WithName("drive"),
		model.WithAttr(model.AttrReturn, "bool"), model.WithOwner(cls))
	g.Create(model.KindParameter, model.WithName("speed"),
		model.WithAttr(model.AttrType, "float"), model.WithOwner(op))
	vehicle := g.Create(model.KindClass, model.WithName("Vehicle"))
	gen := g.Create(model.KindGeneralization, model.WithEnds(cls, vehicle), model.WithOwner(cls))
	anonGen := g.Create(model.KindGeneralization)
	comment := g.Create(model.KindComment, model.WithAttr(model.AttrDocumentation, "first\nsecond"))

	tests := []struct {
		name string
		e    *model.Element
		want string
	}{
		{"class", cls, "Car"},
		{"property", prop, "+ wheels: int"},
		{"operation", op, "+ drive(speed: float): bool"},
		{"generalization", gen, "general: Vehicle"},
		{"unnamed generalization", anonGen, ""},
		{"comment", comment, "first"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.e); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToKebabCase(t *testing.T) {
	tests := map[string]string{
		"createdBy":                        "created-by",
		"top_event":                        "top-event",
		"updatedOn":                        "updated-on",
		"package":                          "package",
		"message_occurrence_specification": "message-occurrence-specification",
		"":                                 "",
	}
	for in, want := range tests {
		if got := ToKebabCase(in); got != want {
			t.Errorf("ToKebabCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIconVisible(t *testing.T) {
	g := model.NewGraph()
	if !IconVisible(g.Create(model.KindClass)) {
		t.Error("expected class icon visible")
	}
	for _, k := range []model.Kind{model.KindProperty, model.KindOperation, model.KindParameter} {
		if IconVisible(g.Create(k)) {
			t.Errorf("expected %s icon hidden", k)
		}
	}
	if got := IconName(g.Create(model.KindTopEvent)); got != "top-event" {
		t.Errorf("IconName = %q", got)
	}
}

func TestStyleOf(t *testing.T) {
	g := model.NewGraph()
	tests := []struct {
		name string
		e    *model.Element
		want Attributes
	}{
		{"diagram", g.Create(model.KindDiagram), Attributes{Bold: true}},
		{"abstract class", g.Create(model.KindClass, model.Abstract()), Attributes{Italic: true}},
		{"abstract operation", g.Create(model.KindOperation, model.Abstract()), Attributes{Italic: true}},
		{"concrete class", g.Create(model.KindClass), Attributes{}},
		{"abstract package", g.Create(model.KindPackage, model.Abstract()), Attributes{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StyleOf(tt.e); got != tt.want {
				t.Errorf("StyleOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
