package shelf

import (
	"errors"
	"reflect"
	"strings"
	"sync"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key used in records.
// Priority: shelf:"name" > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if st := sf.Tag.Get("shelf"); st != "" {
		if i := strings.IndexByte(st, ','); i >= 0 {
			st = st[:i]
		}
		if st != "" {
			return st
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt
		}
	}
	return sf.Name
}

type structField struct {
	key   string
	index []int
}

// structFields indexes the exported, visible fields of a struct type by
// external key. Promoted fields of embedded structs are included; the
// shallowest wins.
type structFields struct {
	byKey map[string]structField
}

var fieldCache sync.Map // reflect.Type -> *structFields

func fieldsOf(rt reflect.Type) *structFields {
	if c, ok := fieldCache.Load(rt); ok {
		return c.(*structFields)
	}
	sf := &structFields{byKey: map[string]structField{}}
	for _, f := range reflect.VisibleFields(rt) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				continue
			}
		}
		key := ResolveStructKey(f)
		if key == "-" {
			continue
		}
		if prev, ok := sf.byKey[key]; ok && len(prev.index) <= len(f.Index) {
			continue
		}
		sf.byKey[key] = structField{key: key, index: f.Index}
	}
	c, _ := fieldCache.LoadOrStore(rt, sf)
	return c.(*structFields)
}

var errNilEmbedded = errors.New("shelf: nil embedded pointer")

// fieldByIndex walks index from struct value v. With alloc, nil embedded
// pointers are allocated so the field can be set.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, errNilEmbedded
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}

// lookupKey returns the value stored under key on a struct or a
// string-keyed map.
func lookupKey(v reflect.Value, key string) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Struct:
		f, ok := fieldsOf(v.Type()).byKey[key]
		if !ok {
			return reflect.Value{}, false
		}
		fv, err := fieldByIndex(v, f.index, false)
		if err != nil {
			return reflect.Value{}, false
		}
		return fv, true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String || v.IsNil() {
			return reflect.Value{}, false
		}
		mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return reflect.Value{}, false
		}
		return mv, true
	}
	return reflect.Value{}, false
}

// settable returns the addressable field stored under key on struct value v.
func settable(v reflect.Value, key string) (reflect.Value, bool) {
	f, ok := fieldsOf(v.Type()).byKey[key]
	if !ok {
		return reflect.Value{}, false
	}
	fv, err := fieldByIndex(v, f.index, true)
	if err != nil || !fv.CanSet() {
		return reflect.Value{}, false
	}
	return fv, true
}

// defined reports whether v carries a value worth persisting: invalid
// values and nil pointers, interfaces, slices and maps are undefined, and
// func, chan and unsafe pointers are never persisted.
func defined(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return false
		}
		if v.Kind() == reflect.Interface {
			return defined(v.Elem())
		}
	}
	return true
}
