package value

import "fmt"

// Kind discriminates the Spec variants.
type Kind int

const (
	KindLiteral Kind = iota
	KindReference
	KindList
	KindMap
	KindProperties
)

var kindNames = map[Kind]string{
	KindLiteral:    "literal",
	KindReference:  "reference",
	KindList:       "list",
	KindMap:        "map",
	KindProperties: "properties",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Spec describes a property value. The set of implementations is closed.
type Spec interface {
	Kind() Kind
	// Clone returns a deep copy that shares no mutable state with the receiver.
	Clone() Spec
	isSpec()
}

// Literal is used as-is; coercion to the destination type happens at assignment.
type Literal struct {
	Value any
}

// Reference names another component, possibly through an alias or with the
// factory dereference prefix.
type Reference struct {
	Target string
}

// List is an ordered sequence of specs.
type List struct {
	Items []Spec
}

// MapEntry is one key of a Map.
type MapEntry struct {
	Key   string
	Value Spec
}

// Map is an ordered mapping of keys to specs.
type Map struct {
	Entries []MapEntry
}

// Properties is a literal string-to-string block. It never contains references.
type Properties struct {
	Values map[string]string
}

func (Literal) Kind() Kind    { return KindLiteral }
func (Reference) Kind() Kind  { return KindReference }
func (List) Kind() Kind       { return KindList }
func (Map) Kind() Kind        { return KindMap }
func (Properties) Kind() Kind { return KindProperties }

func (Literal) isSpec()    {}
func (Reference) isSpec()  {}
func (List) isSpec()       {}
func (Map) isSpec()        {}
func (Properties) isSpec() {}

// Clone copies the literal. Slices and maps held in Value are copied one
// level deep; other values are assumed immutable.
func (l Literal) Clone() Spec {
	switch v := l.Value.(type) {
	case []any:
		return Literal{Value: append([]any(nil), v...)}
	case []string:
		return Literal{Value: append([]string(nil), v...)}
	case map[string]string:
		cp := make(map[string]string, len(v))
		for k, s := range v {
			cp[k] = s
		}
		return Literal{Value: cp}
	case map[string]any:
		cp := make(map[string]any, len(v))
		for k, s := range v {
			cp[k] = s
		}
		return Literal{Value: cp}
	}
	return l
}

func (r Reference) Clone() Spec { return r }

func (l List) Clone() Spec {
	items := make([]Spec, len(l.Items))
	for i, item := range l.Items {
		items[i] = cloneSpec(item)
	}
	return List{Items: items}
}

func (m Map) Clone() Spec {
	entries := make([]MapEntry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = MapEntry{Key: e.Key, Value: cloneSpec(e.Value)}
	}
	return Map{Entries: entries}
}

func (p Properties) Clone() Spec {
	values := make(map[string]string, len(p.Values))
	for k, v := range p.Values {
		values[k] = v
	}
	return Properties{Values: values}
}

func cloneSpec(s Spec) Spec {
	if s == nil {
		return nil
	}
	return s.Clone()
}

// Of wraps a literal value.
func Of(v any) Spec { return Literal{Value: v} }

// Ref references another component by name.
func Ref(target string) Spec { return Reference{Target: target} }

// ListOf builds an ordered list spec.
func ListOf(items ...Spec) Spec { return List{Items: items} }

// Entry builds one map entry.
func Entry(key string, v Spec) MapEntry { return MapEntry{Key: key, Value: v} }

// MapOf builds an ordered map spec. A repeated key keeps its first position
// and takes the last value.
func MapOf(entries ...MapEntry) Spec {
	out := make([]MapEntry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return Map{Entries: out}
}

// Props builds a properties block from a copy of values.
func Props(values map[string]string) Spec {
	return Properties{Values: values}.Clone()
}

// References returns every component name referenced by s, depth first in
// declaration order.
func References(s Spec) []string {
	var out []string
	var walk func(Spec)
	walk = func(s Spec) {
		switch v := s.(type) {
		case Reference:
			out = append(out, v.Target)
		case List:
			for _, item := range v.Items {
				walk(item)
			}
		case Map:
			for _, e := range v.Entries {
				walk(e.Value)
			}
		}
	}
	walk(s)
	return out
}
