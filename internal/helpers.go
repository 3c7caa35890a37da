package internal

import (
	"reflect"
	"strconv"
)

// Scalar is the set of types path and query parameters convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ParamAs returns path parameter name converted to T,
// or the zero value if absent or not convertible.
func ParamAs[T Scalar](c *Context, name string) T {
	v, _ := convert[T](c.Param(name))
	return v
}

// QueryAs returns query parameter name converted to T,
// or defaultValue if absent or not convertible.
func QueryAs[T Scalar](r *Request, name string, defaultValue T) T {
	raw := r.Query.Get(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convert[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// convert switches on the underlying kind so named types such as
// `type UserID string` convert like their base type.
func convert[T Scalar](raw string) (T, bool) {
	var out T
	v := reflect.ValueOf(&out).Elem()

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, false
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		v.SetBool(b)
	default:
		return out, false
	}

	return out, true
}
