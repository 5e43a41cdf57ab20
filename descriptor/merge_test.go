package descriptor

import (
	"reflect"
	"testing"

	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/value"
)

func newTestRegistry(t *testing.T, ds ...*Descriptor) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.RegisterAll(ds...); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	return r
}

func TestMerge_NoParentEqualsDescriptor(t *testing.T) {
	d := &Descriptor{
		Name:        "svc",
		Scope:       Prototype,
		TargetType:  "Service",
		Properties:  []Property{Prop("a", value.Of(1)), Prop("b", value.Ref("dep"))},
		InitHook:    "start",
		DestroyHook: "stop",
	}
	r := newTestRegistry(t, d)

	m, err := Merge(r, "svc", 0)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if m.Name != d.Name || m.Scope != d.Scope || m.TargetType != d.TargetType ||
		m.InitHook != d.InitHook || m.DestroyHook != d.DestroyHook {
		t.Errorf("Merge() = %+v, want fields of %+v", m, d)
	}
	if !reflect.DeepEqual(m.Properties, d.Properties) {
		t.Errorf("Properties = %v, want %v", m.Properties, d.Properties)
	}
	if !reflect.DeepEqual(m.Chain, []string{"svc"}) {
		t.Errorf("Chain = %v", m.Chain)
	}
}

func TestMerge_DefaultScopeIsSingleton(t *testing.T) {
	r := newTestRegistry(t, &Descriptor{Name: "a", TargetType: "A"})
	m, err := Merge(r, "a", 0)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if m.Scope != Singleton || !m.IsSingleton() {
		t.Errorf("Scope = %v, want singleton", m.Scope)
	}
}

func TestMerge_OverrideAndInherit(t *testing.T) {
	r := newTestRegistry(t,
		&Descriptor{
			Name:       "P",
			TargetType: "Base",
			Scope:      Prototype,
			InitHook:   "init",
			Properties: []Property{Prop("a", value.Of(1)), Prop("b", value.Of(2))},
		},
		&Descriptor{
			Name:        "C",
			Parent:      "P",
			DestroyHook: "close",
			Properties:  []Property{Prop("b", value.Of(3)), Prop("c", value.Of(4))},
		},
	)

	m, err := Merge(r, "C", 0)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	want := []Property{Prop("a", value.Of(1)), Prop("b", value.Of(3)), Prop("c", value.Of(4))}
	if !reflect.DeepEqual(m.Properties, want) {
		t.Errorf("Properties = %v, want %v", m.Properties, want)
	}
	if m.Name != "C" || m.TargetType != "Base" || m.Scope != Prototype {
		t.Errorf("inherited fields wrong: %+v", m)
	}
	if m.InitHook != "init" || m.DestroyHook != "close" {
		t.Errorf("hooks = %q/%q", m.InitHook, m.DestroyHook)
	}
	if !reflect.DeepEqual(m.Chain, []string{"C", "P"}) {
		t.Errorf("Chain = %v", m.Chain)
	}
}

func TestMerge_GrandparentChain(t *testing.T) {
	r := newTestRegistry(t,
		&Descriptor{Name: "G", TargetType: "T", Properties: []Property{Prop("x", value.Of("g")), Prop("y", value.Of("g"))}},
		&Descriptor{Name: "P", Parent: "G", Scope: Prototype, Properties: []Property{Prop("y", value.Of("p"))}},
		&Descriptor{Name: "C", Parent: "P", Scope: Singleton, Properties: []Property{Prop("x", value.Of("c"))}},
	)
	m, err := Merge(r, "C", 0)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	want := []Property{Prop("x", value.Of("c")), Prop("y", value.Of("p"))}
	if !reflect.DeepEqual(m.Properties, want) {
		t.Errorf("Properties = %v, want %v", m.Properties, want)
	}
	if m.Scope != Singleton {
		t.Errorf("Scope = %v, want child override", m.Scope)
	}
}

func TestMerge_DoesNotAliasRegistry(t *testing.T) {
	r := newTestRegistry(t,
		&Descriptor{Name: "P", TargetType: "T", Properties: []Property{Prop("l", value.ListOf(value.Of(1)))}},
		&Descriptor{Name: "C", Parent: "P"},
	)
	m, _ := Merge(r, "C", 0)
	m.Properties[0].Value.(value.List).Items[0] = value.Of(99)

	again, _ := Merge(r, "P", 0)
	if got := again.Properties[0].Value.(value.List).Items[0]; !reflect.DeepEqual(got, value.Of(1)) {
		t.Errorf("parent list mutated via merged child: %v", got)
	}
}

func TestMerge_CyclicParentChain(t *testing.T) {
	r := newTestRegistry(t,
		&Descriptor{Name: "A", Parent: "B"},
		&Descriptor{Name: "B", Parent: "A"},
	)
	_, err := Merge(r, "A", 5)
	if !errors.IsCyclicParentChain(err) {
		t.Fatalf("Merge() error = %v, want CYCLIC_PARENT_CHAIN", err)
	}
	appErr, _ := errors.AsAppError(err)
	chain, _ := appErr.Details["chain"].([]string)
	if len(chain) != 6 || chain[0] != "A" || chain[1] != "B" {
		t.Errorf("chain detail = %v", appErr.Details["chain"])
	}
}

func TestMerge_MissingParent(t *testing.T) {
	r := newTestRegistry(t, &Descriptor{Name: "C", Parent: "ghost"})
	_, err := Merge(r, "C", 0)
	if !errors.IsNotFound(err) {
		t.Fatalf("Merge() error = %v, want NOT_FOUND", err)
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", ScopeDefault, false},
		{"singleton", Singleton, false},
		{"prototype", Prototype, false},
		{"request", ScopeDefault, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseScope(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}
