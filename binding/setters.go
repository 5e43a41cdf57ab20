package binding

import (
	"fmt"

	"github.com/kbukum/beankit/value"
)

// Field builds a setter that coerces the resolved value to V.
func Field[T, V any](set func(*T, V)) Setter[T] {
	return func(target *T, v any) error {
		out, err := Coerce[V](v)
		if err != nil {
			return err
		}
		set(target, out)
		return nil
	}
}

// SliceField builds a setter for slice-typed fields. A resolved list arrives
// as []any and is converted element-wise to []E.
func SliceField[T, E any](set func(*T, []E)) Setter[T] {
	return func(target *T, v any) error {
		out, err := toSlice[E](v)
		if err != nil {
			return err
		}
		set(target, out)
		return nil
	}
}

// MapField builds a setter for map-typed fields. A resolved map arrives as
// *value.OrderedMap and is converted value-wise to map[string]E.
func MapField[T, E any](set func(*T, map[string]E)) Setter[T] {
	return func(target *T, v any) error {
		out, err := toMap[E](v)
		if err != nil {
			return err
		}
		set(target, out)
		return nil
	}
}

func toSlice[E any](v any) ([]E, error) {
	switch items := v.(type) {
	case nil:
		return nil, nil
	case []E:
		return items, nil
	case []any:
		out := make([]E, len(items))
		for i, item := range items {
			e, err := Coerce[E](item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = e
		}
		return out, nil
	}
	var zero E
	return nil, fmt.Errorf("cannot convert %T to []%T", v, zero)
}

func toMap[E any](v any) (map[string]E, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case map[string]E:
		return m, nil
	case *value.OrderedMap:
		out := make(map[string]E, m.Len())
		var err error
		m.Range(func(key string, item any) bool {
			var e E
			if e, err = Coerce[E](item); err != nil {
				err = fmt.Errorf("key %q: %w", key, err)
				return false
			}
			out[key] = e
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case map[string]string:
		out := make(map[string]E, len(m))
		for key, item := range m {
			e, err := Coerce[E](item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = e
		}
		return out, nil
	case map[string]any:
		out := make(map[string]E, len(m))
		for key, item := range m {
			e, err := Coerce[E](item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = e
		}
		return out, nil
	}
	var zero E
	return nil, fmt.Errorf("cannot convert %T to map[string]%T", v, zero)
}
