package value

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Compatible reports whether a value of the actual type may bind to a port
// declaring the declared type. "any" on either side matches everything;
// lists and maps match when their element types are compatible. Tuple and
// object values, which is what literal construction produces, bind to list
// and map ports when every element is compatible.
func Compatible(declared, actual cty.Type) bool {
	if declared == cty.NilType || actual == cty.NilType {
		return false
	}
	if declared.Equals(cty.DynamicPseudoType) || actual.Equals(cty.DynamicPseudoType) {
		return true
	}
	switch {
	case declared.IsListType() && actual.IsListType(),
		declared.IsMapType() && actual.IsMapType():
		return Compatible(declared.ElementType(), actual.ElementType())
	case declared.IsListType() && actual.IsTupleType():
		for _, et := range actual.TupleElementTypes() {
			if !Compatible(declared.ElementType(), et) {
				return false
			}
		}
		return true
	case declared.IsMapType() && actual.IsObjectType():
		for _, at := range actual.AttributeTypes() {
			if !Compatible(declared.ElementType(), at) {
				return false
			}
		}
		return true
	}
	return declared.Equals(actual)
}

// ParseType converts a type name from a block manifest into its cty.Type
// equivalent. Recognized names are number, string, bool, bytes, ref, any,
// and the constructors list(T) and map(T).
func ParseType(name string) (cty.Type, error) {
	s := strings.TrimSpace(name)
	switch s {
	case "number":
		return cty.Number, nil
	case "string":
		return cty.String, nil
	case "bool":
		return cty.Bool, nil
	case "bytes":
		return Bytes, nil
	case "ref":
		return Reference, nil
	case "any":
		return cty.DynamicPseudoType, nil
	}
	for _, ctor := range []string{"list", "map"} {
		prefix := ctor + "("
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
			elem, err := ParseType(s[len(prefix) : len(s)-1])
			if err != nil {
				return cty.NilType, err
			}
			if ctor == "list" {
				return cty.List(elem), nil
			}
			return cty.Map(elem), nil
		}
	}
	return cty.NilType, fmt.Errorf("unknown type %q", name)
}

// TypeName renders a type using the same vocabulary ParseType accepts.
func TypeName(t cty.Type) string {
	switch {
	case t == cty.NilType:
		return "nil"
	case t.Equals(cty.DynamicPseudoType):
		return "any"
	case t.Equals(cty.Number):
		return "number"
	case t.Equals(cty.String):
		return "string"
	case t.Equals(cty.Bool):
		return "bool"
	case t.Equals(Bytes):
		return "bytes"
	case t.Equals(Reference):
		return "ref"
	case t.IsListType():
		return "list(" + TypeName(t.ElementType()) + ")"
	case t.IsMapType():
		return "map(" + TypeName(t.ElementType()) + ")"
	}
	return t.FriendlyName()
}
