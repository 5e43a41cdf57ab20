package binding

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/kbukum/beankit/value"
)

// Coerce converts a resolved value to V. Values already of type V are
// returned as-is; scalar literals are converted with spf13/cast. A nil value
// yields the zero V.
func Coerce[V any](v any) (V, error) {
	var zero V
	if v == nil {
		return zero, nil
	}
	if out, ok := v.(V); ok {
		return out, nil
	}
	if om, ok := v.(*value.OrderedMap); ok {
		v = om.ToMap()
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(v)
	case int:
		out, err = cast.ToIntE(v)
	case int64:
		out, err = cast.ToInt64E(v)
	case int32:
		out, err = cast.ToInt32E(v)
	case uint:
		out, err = cast.ToUintE(v)
	case float64:
		out, err = cast.ToFloat64E(v)
	case float32:
		out, err = cast.ToFloat32E(v)
	case bool:
		out, err = cast.ToBoolE(v)
	case time.Duration:
		out, err = cast.ToDurationE(v)
	case []string:
		out, err = cast.ToStringSliceE(v)
	case map[string]string:
		out, err = cast.ToStringMapStringE(v)
	default:
		return zero, fmt.Errorf("cannot convert %T to %T", v, zero)
	}
	if err != nil {
		return zero, err
	}
	return out.(V), nil
}
