package shelf

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	jsonNumberType      = reflect.TypeFor[json.Number]()
)

// assign stores decoded data into dst, converting between the loosely
// typed shapes produced by JSON/YAML decoders and dst's Go type.
func assign(dst reflect.Value, src any, p pointer) error {
	if src == nil {
		dst.SetZero()
		return nil
	}
	return assignValue(dst, reflect.ValueOf(src), p)
}

func assignValue(dst, sv reflect.Value, p pointer) error {
	for sv.Kind() == reflect.Interface {
		if sv.IsNil() {
			dst.SetZero()
			return nil
		}
		sv = sv.Elem()
	}
	dt := dst.Type()
	if sv.Type().AssignableTo(dt) {
		dst.Set(sv)
		return nil
	}
	switch sv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if sv.IsNil() {
			dst.SetZero()
			return nil
		}
	}
	if sv.Kind() == reflect.Pointer && sv.Elem().Type().AssignableTo(dt) {
		dst.Set(sv.Elem())
		return nil
	}
	if dt.Kind() == reflect.Pointer {
		n := reflect.New(dt.Elem())
		if err := assignValue(n.Elem(), sv, p); err != nil {
			return err
		}
		dst.Set(n)
		return nil
	}
	if sv.Kind() == reflect.String && reflect.PointerTo(dt).Implements(textUnmarshalerType) && dst.CanAddr() {
		if err := dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(sv.String())); err != nil {
			return mismatch(dst, sv, p, err)
		}
		return nil
	}
	if sv.Type() == jsonNumberType {
		return assignNumber(dst, sv.Interface().(json.Number), p)
	}

	switch dt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if x, ok := toInt(sv); ok && !dst.OverflowInt(x) {
			dst.SetInt(x)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if x, ok := toInt(sv); ok && x >= 0 && !dst.OverflowUint(uint64(x)) {
			dst.SetUint(uint64(x))
			return nil
		}
		if isUint(sv.Kind()) && !dst.OverflowUint(sv.Uint()) {
			dst.SetUint(sv.Uint())
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := toFloat(sv); ok && !dst.OverflowFloat(f) {
			dst.SetFloat(f)
			return nil
		}
	case reflect.String:
		if sv.Kind() == reflect.String {
			dst.SetString(sv.String())
			return nil
		}
	case reflect.Bool:
		if sv.Kind() == reflect.Bool {
			dst.SetBool(sv.Bool())
			return nil
		}
	case reflect.Slice:
		if sv.Kind() == reflect.Slice || sv.Kind() == reflect.Array {
			out := reflect.MakeSlice(dt, sv.Len(), sv.Len())
			for i := 0; i < sv.Len(); i++ {
				if err := assignValue(out.Index(i), sv.Index(i), p.Index(i)); err != nil {
					return err
				}
			}
			dst.Set(out)
			return nil
		}
	case reflect.Array:
		if sv.Kind() == reflect.Slice || sv.Kind() == reflect.Array {
			out := reflect.New(dt).Elem()
			for i := 0; i < min(sv.Len(), dt.Len()); i++ {
				if err := assignValue(out.Index(i), sv.Index(i), p.Index(i)); err != nil {
					return err
				}
			}
			dst.Set(out)
			return nil
		}
	case reflect.Map:
		if sv.Kind() == reflect.Map && sv.Type().Key().Kind() == reflect.String && dt.Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(dt, sv.Len())
			iter := sv.MapRange()
			for iter.Next() {
				k := iter.Key().String()
				elem := reflect.New(dt.Elem()).Elem()
				if err := assignValue(elem, iter.Value(), p.Field(k)); err != nil {
					return err
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(dt.Key()), elem)
			}
			dst.Set(out)
			return nil
		}
	case reflect.Struct:
		if sv.Kind() == reflect.Map && sv.Type().Key().Kind() == reflect.String {
			out := reflect.New(dt).Elem()
			iter := sv.MapRange()
			for iter.Next() {
				k := iter.Key().String()
				fv, ok := settable(out, k)
				if !ok {
					continue
				}
				if err := assignValue(fv, iter.Value(), p.Field(k)); err != nil {
					return err
				}
			}
			dst.Set(out)
			return nil
		}
	}
	return mismatch(dst, sv, p, nil)
}

func assignNumber(dst reflect.Value, n json.Number, p pointer) error {
	if dst.Kind() == reflect.String {
		dst.SetString(n.String())
		return nil
	}
	if i, err := n.Int64(); err == nil {
		return assignValue(dst, reflect.ValueOf(i), p)
	}
	f, err := n.Float64()
	if err != nil {
		return mismatch(dst, reflect.ValueOf(n), p, err)
	}
	return assignValue(dst, reflect.ValueOf(f), p)
}

func toInt(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return 0, false
		}
		return int64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func toFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	}
	return 0, false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func mismatch(dst, sv reflect.Value, p pointer, cause error) error {
	if cause == nil {
		cause = fmt.Errorf("cannot assign %s to %s", sv.Type(), dst.Type())
	}
	return Issues{newIssue(p, CodeInvalidType, cause, map[string]string{"type": dst.Type().String()})}
}
