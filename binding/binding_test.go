package binding

import (
	stderrors "errors"
	"reflect"
	"testing"
	"time"

	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/value"
)

type server struct {
	Host     string
	Port     int
	Timeout  time.Duration
	Tags     []string
	Limits   map[string]int
	Started  bool
	Upstream *server
}

func serverType() *Type[server] {
	return NewType("Server", func() *server { return &server{} }).
		Property("host", Field(func(s *server, v string) { s.Host = v })).
		Property("port", Field(func(s *server, v int) { s.Port = v })).
		Property("timeout", Field(func(s *server, v time.Duration) { s.Timeout = v })).
		Property("tags", SliceField(func(s *server, v []string) { s.Tags = v })).
		Property("limits", MapField(func(s *server, v map[string]int) { s.Limits = v })).
		Property("upstream", Field(func(s *server, v *server) { s.Upstream = v })).
		Hook("start", func(s *server) error { s.Started = true; return nil }).
		Hook("fail", func(*server) error { return stderrors.New("boom") })
}

func TestType_SetCoercesValues(t *testing.T) {
	b := serverType()
	inst := b.New()
	s, ok := inst.(*server)
	if !ok {
		t.Fatalf("New() = %T, want *server", inst)
	}

	limits := value.NewOrderedMap(2)
	limits.Set("rps", "100")
	limits.Set("burst", 20)

	upstream := &server{Host: "up"}
	assignments := []struct {
		prop string
		v    any
	}{
		{"host", "localhost"},
		{"port", "8080"},
		{"timeout", "5s"},
		{"tags", []any{"a", "b"}},
		{"limits", limits},
		{"upstream", upstream},
	}
	for _, a := range assignments {
		if err := b.Set(inst, a.prop, a.v); err != nil {
			t.Fatalf("Set(%s) error = %v", a.prop, err)
		}
	}

	want := &server{
		Host:     "localhost",
		Port:     8080,
		Timeout:  5 * time.Second,
		Tags:     []string{"a", "b"},
		Limits:   map[string]int{"rps": 100, "burst": 20},
		Upstream: upstream,
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("instance = %+v, want %+v", s, want)
	}
}

func TestType_SetErrors(t *testing.T) {
	b := serverType()
	tests := []struct {
		name     string
		inst     any
		prop     string
		v        any
		wantCode errors.ErrorCode
	}{
		{"unknown property", b.New(), "missing", 1, errors.ErrCodePropertyResolution},
		{"bad conversion", b.New(), "port", "eighty", errors.ErrCodePropertyResolution},
		{"wrong reference type", b.New(), "upstream", "not a server", errors.ErrCodePropertyResolution},
		{"wrong instance", &struct{}{}, "host", "x", errors.ErrCodeTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Set(tt.inst, tt.prop, tt.v)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("Set() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestType_Invoke(t *testing.T) {
	b := serverType()
	inst := b.New()
	if err := b.Invoke(inst, "start"); err != nil {
		t.Fatalf("Invoke(start) error = %v", err)
	}
	if !inst.(*server).Started {
		t.Error("start hook did not run")
	}
	if err := b.Invoke(inst, "fail"); !errors.IsHook(err) {
		t.Errorf("Invoke(fail) error = %v, want HOOK_FAILED", err)
	}
	if err := b.Invoke(inst, "missing"); !errors.IsHook(err) {
		t.Errorf("Invoke(missing) error = %v, want HOOK_FAILED", err)
	}
}

func TestType_Properties(t *testing.T) {
	got := serverType().Properties()
	want := []string{"host", "limits", "port", "tags", "timeout", "upstream"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Properties() = %v, want %v", got, want)
	}
}

func TestType_NilConstructorUsesNew(t *testing.T) {
	b := NewType[server]("Plain", nil)
	if _, ok := b.New().(*server); !ok {
		t.Errorf("New() = %T", b.New())
	}
}

func TestCoerce(t *testing.T) {
	if v, err := Coerce[int]("42"); err != nil || v != 42 {
		t.Errorf("Coerce[int](\"42\") = %v, %v", v, err)
	}
	if v, err := Coerce[bool]("true"); err != nil || !v {
		t.Errorf("Coerce[bool] = %v, %v", v, err)
	}
	if v, err := Coerce[float64](3); err != nil || v != 3 {
		t.Errorf("Coerce[float64] = %v, %v", v, err)
	}
	if v, err := Coerce[[]string]([]any{"x", "y"}); err != nil || !reflect.DeepEqual(v, []string{"x", "y"}) {
		t.Errorf("Coerce[[]string] = %v, %v", v, err)
	}
	if v, err := Coerce[string](nil); err != nil || v != "" {
		t.Errorf("Coerce[string](nil) = %q, %v", v, err)
	}
	if _, err := Coerce[*server]("nope"); err == nil {
		t.Error("Coerce[*server] of string succeeded")
	}
	if _, err := Coerce[int]("nope"); err == nil {
		t.Error("Coerce[int](\"nope\") succeeded")
	}
}

func TestSliceField_ConvertsElements(t *testing.T) {
	type holder struct{ Items []*server }
	a, b := &server{Host: "a"}, &server{Host: "b"}
	set := SliceField(func(h *holder, v []*server) { h.Items = v })

	h := &holder{}
	if err := set(h, []any{a, b}); err != nil {
		t.Fatalf("set() error = %v", err)
	}
	if len(h.Items) != 2 || h.Items[0] != a || h.Items[1] != b {
		t.Errorf("Items = %v", h.Items)
	}
	if err := set(h, []any{a, "x"}); err == nil {
		t.Error("set() with mixed element types succeeded")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	st := serverType()
	if err := r.Register(st); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(serverType()); err == nil {
		t.Error("duplicate Register() succeeded")
	}

	got, err := r.Lookup("Server")
	if err != nil || got != Binder(st) {
		t.Errorf("Lookup() = %v, %v", got, err)
	}
	if _, err := r.Lookup("Ghost"); !errors.IsNotFound(err) {
		t.Errorf("Lookup(Ghost) error = %v, want NOT_FOUND", err)
	}

	byInst, err := r.ForInstance(&server{})
	if err != nil || byInst != Binder(st) {
		t.Errorf("ForInstance() = %v, %v", byInst, err)
	}
	if _, err := r.ForInstance(42); !errors.IsNotFound(err) {
		t.Errorf("ForInstance(42) error = %v, want NOT_FOUND", err)
	}
	if names := r.TypeNames(); !reflect.DeepEqual(names, []string{"Server"}) {
		t.Errorf("TypeNames() = %v", names)
	}
}
