package shelf

import (
	"context"
	"encoding"
	"fmt"
	"reflect"
)

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// Manifest encodes v into plain JSON-compatible data. Instances of
// registered types become records tagged with their schema version; other
// composites are snapshotted field by field without a tag; primitives are
// returned unchanged. Nil pointers, interfaces, slices and maps are
// undefined, and funcs and chans are never persisted: both are omitted from
// records rather than written as null. Empty non-nil slices and maps are
// kept.
func (r *Registry) Manifest(ctx context.Context, v any) (any, error) {
	return r.encode(reflect.ValueOf(v))
}

// Serialize is an alias of Manifest.
func (r *Registry) Serialize(ctx context.Context, v any) (any, error) { return r.Manifest(ctx, v) }

// ManifestAs encodes v through the schema of t regardless of v's Go type.
// v may be a struct, a pointer to one, or a string-keyed map.
func (r *Registry) ManifestAs(ctx context.Context, t *Type, v any) (any, error) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return r.encodeSeq(rv)
	}
	if _, ok := r.Lookup(t); !ok {
		return r.encode(rv)
	}
	return r.encodeLevel(t, rv)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func (r *Registry) encode(v reflect.Value) (any, error) {
	if !defined(v) {
		return nil, nil
	}
	if st := indirect(v); st.Kind() == reflect.Struct {
		if t, _, ok := r.typeOf(st.Type()); ok {
			return r.encodeLevel(t, st)
		}
	}
	if v.Type().Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return r.encode(v.Elem())
	case reflect.Struct:
		return r.snapshotStruct(v)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface(), nil
		}
		return r.encodeSeq(v)
	case reflect.Array:
		return r.encodeSeq(v)
	case reflect.Map:
		return r.snapshotMap(v)
	}
	return v.Interface(), nil
}

func (r *Registry) encodeSeq(v reflect.Value) (any, error) {
	out := make([]any, v.Len())
	for i := range out {
		e, err := r.encode(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (r *Registry) snapshotStruct(v reflect.Value) (any, error) {
	out := Record{}
	for key, f := range fieldsOf(v.Type()).byKey {
		fv, err := fieldByIndex(v, f.index, false)
		if err != nil || !defined(fv) {
			continue
		}
		e, err := r.encode(fv)
		if err != nil {
			return nil, err
		}
		out[key] = e
	}
	return out, nil
}

func (r *Registry) snapshotMap(v reflect.Value) (any, error) {
	out := make(Record, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		mv := iter.Value()
		if !defined(mv) {
			continue
		}
		e, err := r.encode(mv)
		if err != nil {
			return nil, err
		}
		out[mapKey(iter.Key())] = e
	}
	return out, nil
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if b, err := tm.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(k.Interface())
}

// encodeLevel builds the record for one schema level of v: the parent's
// contribution first, then the declared fields of t with its version tag
// merged over it.
func (r *Registry) encodeLevel(t *Type, v reflect.Value) (Record, error) {
	s, ok := r.Lookup(t)
	if !ok {
		return Record{}, nil
	}
	out := Record{}
	if s.parent != nil {
		base, err := r.parentLevel(s.parent, v)
		if err != nil {
			return nil, err
		}
		out = base
	}
	out[VersionKey] = s.version.String()
	for _, name := range s.fieldNames() {
		fv, ok := lookupKey(v, name)
		if !ok || !defined(fv) {
			continue
		}
		e, err := r.encode(fv)
		if err != nil {
			return nil, err
		}
		out[name] = e
	}
	return out, nil
}

// parentLevel encodes v as its parent type. An unregistered parent has no
// declared fields, so the whole instance is snapshotted as the base.
func (r *Registry) parentLevel(parent *Type, v reflect.Value) (Record, error) {
	if _, ok := r.Lookup(parent); ok {
		return r.encodeLevel(parent, v)
	}
	var (
		snap any
		err  error
	)
	switch v.Kind() {
	case reflect.Struct:
		snap, err = r.snapshotStruct(v)
	case reflect.Map:
		snap, err = r.snapshotMap(v)
	}
	if err != nil {
		return nil, err
	}
	if rec, ok := snap.(Record); ok {
		return rec, nil
	}
	return Record{}, nil
}
