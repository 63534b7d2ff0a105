package shelf

import (
	"fmt"
	"reflect"
)

// FieldType declares how a persisted field is typed. It is either
// Primitive, a *Type naming a nested schema, or nil for an untyped field
// that is copied opaquely.
type FieldType interface {
	fieldType()
}

type primitive struct{}

func (primitive) fieldType()     {}
func (primitive) String() string { return "primitive" }

// Primitive marks a field holding a plain value with no nested schema.
var Primitive FieldType = primitive{}

// Fields maps external field names to their declared FieldType.
type Fields map[string]FieldType

// Type is the identity token that associates a Go struct type with its
// Schema. Tokens are compared by pointer; build each one once with Define.
type Type struct {
	name  string
	rtype reflect.Type
	ctor  func() reflect.Value
}

func (*Type) fieldType() {}

// Define declares the identity token for struct type T. ctor is the normal
// zero-argument construction path; when nil a zeroed *T is used.
func Define[T any](name string, ctor func() *T) *Type {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("shelf: Define %q: %s is not a struct type", name, rt))
	}
	t := &Type{name: name, rtype: rt}
	if ctor != nil {
		t.ctor = func() reflect.Value { return reflect.ValueOf(ctor()) }
	}
	return t
}

// Name returns the stable name given to Define.
func (t *Type) Name() string { return t.name }

// GoType returns the struct type the token stands for.
func (t *Type) GoType() reflect.Type { return t.rtype }

func (t *Type) String() string { return t.name }

// construct runs the normal construction path and returns a *T value.
func (t *Type) construct() reflect.Value {
	if t.ctor != nil {
		if v := t.ctor(); v.IsValid() && !v.IsNil() {
			return v
		}
	}
	return reflect.New(t.rtype)
}

// bare allocates a zeroed *T without running the constructor.
func (t *Type) bare() reflect.Value { return reflect.New(t.rtype) }

// instanceOf returns the *T addressed by v when v already holds a T or *T.
func (t *Type) instanceOf(v reflect.Value) (reflect.Value, bool) {
	switch {
	case v.Kind() == reflect.Pointer && v.Type().Elem() == t.rtype:
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v, true
	case v.Type() == t.rtype:
		p := reflect.New(t.rtype)
		p.Elem().Set(v)
		return p, true
	}
	return reflect.Value{}, false
}
