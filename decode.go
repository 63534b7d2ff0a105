package shelf

import (
	"context"
	"fmt"
	"maps"
	"reflect"

	"go.uber.org/zap"
)

// Construct rebuilds an instance of t from data, migrating data saved under
// an older schema version through the registered upgrade chain. The result
// is a *T for struct data, a []any for sequences, and data itself when it
// is a primitive or t is nil.
//
// Stages, per schema level:
//
//	Instantiate -> Inherit parent -> Upgrade -> Populate
func (r *Registry) Construct(ctx context.Context, t *Type, data any) (any, error) {
	d := &decoder{r: r}
	return d.decode(ctx, t, data, nil, pointer{})
}

// Deserialize is an alias of Construct.
func (r *Registry) Deserialize(ctx context.Context, t *Type, data any) (any, error) {
	return r.Construct(ctx, t, data)
}

// ConstructWithMeta decodes like Construct and reports how every instance in
// the graph was built.
func (r *Registry) ConstructWithMeta(ctx context.Context, t *Type, data any) (Constructed, error) {
	d := &decoder{r: r, builds: BuildMap{}}
	v, err := d.decode(ctx, t, data, nil, pointer{})
	return Constructed{Value: v, Builds: d.builds}, err
}

// ConstructAs decodes data as t and returns it as *T.
func ConstructAs[T any](ctx context.Context, r *Registry, t *Type, data any) (*T, error) {
	v, err := r.Construct(ctx, t, data)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *T:
		return x, nil
	case nil:
		return nil, nil
	}
	want := reflect.TypeFor[*T]()
	return nil, Issues{newIssue(pointer{}, CodeInvalidType,
		fmt.Errorf("decoded %T, want %s", v, want), map[string]string{"type": want.String()})}
}

type deferSet map[*Type]struct{}

// with returns the union of d and the deferred types of s.
func (d deferSet) with(s *Schema) deferSet {
	if len(s.deferred) == 0 {
		return d
	}
	out := make(deferSet, len(d)+len(s.deferred))
	maps.Copy(out, d)
	maps.Copy(out, s.deferred)
	return out
}

type decoder struct {
	r      *Registry
	builds BuildMap // nil unless collecting
}

func (d *decoder) mark(p pointer, m BuildMode) {
	if d.builds != nil {
		d.builds[p.String()] = m
	}
}

func (d *decoder) decode(ctx context.Context, t *Type, data any, inherited deferSet, p pointer) (any, error) {
	if t == nil || data == nil {
		return data, nil
	}
	dv := reflect.ValueOf(data)
	if inst, ok := t.instanceOf(dv); ok {
		d.mark(p, BuildReused)
		return inst.Interface(), nil
	}
	if seq := indirect(dv); isSeq(seq) {
		out := make([]any, seq.Len())
		for i := range out {
			e, err := d.decode(ctx, t, seq.Index(i).Interface(), inherited, p.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	rec, ok := asRecord(dv)
	if !ok {
		return data, nil
	}

	s, registered := d.r.Lookup(t)
	deferred := inherited
	if registered {
		deferred = inherited.with(s)
	}

	var inst reflect.Value
	if _, skip := deferred[t]; skip {
		inst = t.bare()
		copyOpaque(inst.Elem(), rec)
		d.mark(p, BuildDeferred)
		d.r.log.Debug("shelf: deferred build", zap.String("type", t.name), zap.String("path", p.String()))
	} else {
		inst = t.construct()
		d.mark(p, BuildConstructed)
	}
	if !registered {
		return inst.Interface(), nil
	}
	if _, err := d.decodeLevel(ctx, s, inst.Elem(), rec, deferred, p); err != nil {
		return nil, err
	}
	return inst.Interface(), nil
}

// decodeLevel migrates rec through s (and its ancestors, first) and
// populates s's declared fields on inst. It returns the upgraded raw data.
func (d *decoder) decodeLevel(ctx context.Context, s *Schema, inst reflect.Value, rec Record, deferred deferSet, p pointer) (Record, error) {
	raw := rec
	if s.parent != nil {
		if ps, ok := d.r.Lookup(s.parent); ok {
			base, err := d.decodeLevel(ctx, ps, inst, rec, deferred.with(ps), p)
			if err != nil {
				return nil, err
			}
			raw = maps.Clone(base)
			maps.Copy(raw, rec)
		}
	}
	raw, err := d.r.applyUpgrades(ctx, s, raw, p)
	if err != nil {
		return nil, err
	}
	if err := d.populate(ctx, s, inst, raw, deferred, p); err != nil {
		return nil, err
	}
	return raw, nil
}

func (d *decoder) populate(ctx context.Context, s *Schema, inst reflect.Value, raw Record, deferred deferSet, p pointer) error {
	var iss Issues
	for _, name := range s.fieldNames() {
		val, ok := raw[name]
		if !ok {
			continue
		}
		fp := p.Field(name)
		if nested, ok := s.fields[name].(*Type); ok {
			dv, err := d.decode(ctx, nested, val, deferred, fp)
			if err != nil {
				iss = collect(iss, err, fp)
				continue
			}
			val = dv
		}
		dst, ok := settable(inst, name)
		if !ok {
			continue
		}
		if err := assign(dst, val, fp); err != nil {
			iss = collect(iss, err, fp)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func collect(iss Issues, err error, p pointer) Issues {
	if more, ok := AsIssues(err); ok {
		return AppendIssues(iss, more...)
	}
	return AppendIssues(iss, newIssue(p, CodeInvalidType, err, nil))
}

func isSeq(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// asRecord views v as raw record data: string-keyed maps are copied as is,
// structs of other types contribute their fields by external key.
func asRecord(v reflect.Value) (Record, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return nil, false
	}
	if rec, ok := v.Interface().(Record); ok {
		return rec, true
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(Record, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	case reflect.Struct:
		out := Record{}
		for key, f := range fieldsOf(v.Type()).byKey {
			fv, err := fieldByIndex(v, f.index, false)
			if err != nil || !defined(fv) {
				continue
			}
			out[key] = fv.Interface()
		}
		return out, true
	}
	return nil, false
}

// copyOpaque attaches rec's values to the matching fields of struct value v
// without recursing into nested schemas. Values that do not fit are skipped.
func copyOpaque(v reflect.Value, rec Record) {
	for key, val := range rec {
		fv, ok := settable(v, key)
		if !ok {
			continue
		}
		_ = assign(fv, val, pointer{})
	}
}
