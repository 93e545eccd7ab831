// Package value defines the runtime datum and the type vocabulary shared by
// every other part of the engine.
//
// Values flowing along graph edges are cty.Value and declared port types are
// cty.Type, with cty.DynamicPseudoType standing in for "any". Two variants
// that cty does not provide natively, raw byte payloads and opaque entity
// references, are modelled as capsule types registered here.
package value

import (
	"bytes"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Ref is an opaque reference to an entity owned by an external app adapter,
// for example an object spawned inside a 3D engine. It flows along edges
// like any other value.
type Ref struct {
	App string
	ID  string
}

// Bytes is the capsule type for raw byte payloads.
var Bytes = cty.CapsuleWithOps("bytes", reflect.TypeOf([]byte(nil)), &cty.CapsuleOps{
	RawEquals: func(a, b interface{}) bool {
		return bytes.Equal(*(a.(*[]byte)), *(b.(*[]byte)))
	},
})

// Reference is the capsule type for Ref values.
var Reference = cty.CapsuleWithOps("ref", reflect.TypeOf(Ref{}), &cty.CapsuleOps{
	RawEquals: func(a, b interface{}) bool {
		return *(a.(*Ref)) == *(b.(*Ref))
	},
})

// Any is the declared port type that matches every actual type.
var Any = cty.DynamicPseudoType

// BytesVal wraps a byte slice as a runtime value. The slice is copied so the
// value stays immutable even if the caller keeps writing to its buffer.
func BytesVal(b []byte) cty.Value {
	cp := append([]byte(nil), b...)
	return cty.CapsuleVal(Bytes, &cp)
}

// AsBytes unwraps a bytes value. The second return is false when the value
// is not of the Bytes type.
func AsBytes(v cty.Value) ([]byte, bool) {
	if !v.Type().Equals(Bytes) {
		return nil, false
	}
	return *(v.EncapsulatedValue().(*[]byte)), true
}

// RefVal wraps a Ref as a runtime value.
func RefVal(r Ref) cty.Value {
	return cty.CapsuleVal(Reference, &r)
}

// AsRef unwraps a reference value.
func AsRef(v cty.Value) (Ref, bool) {
	if !v.Type().Equals(Reference) {
		return Ref{}, false
	}
	return *(v.EncapsulatedValue().(*Ref)), true
}

// TypeOf returns the type tag of a runtime value.
func TypeOf(v cty.Value) cty.Type {
	return v.Type()
}

// Equal reports structural equality between two values. Lists and maps
// compare element-wise; bytes and references compare by content.
func Equal(a, b cty.Value) bool {
	return a.RawEquals(b)
}

// Float unwraps a number value as a float64.
func Float(v cty.Value) float64 {
	f, _ := v.AsBigFloat().Float64()
	return f
}
