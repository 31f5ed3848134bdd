package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// nameToTypeRef converts a display name into the AST-shaped type the
// annotation grammar can express. Unions have no annotation form and
// yield nil; callable shapes collapse to the plain Callable head.
func nameToTypeRef(name string) *gdast.TypeReference {
	if name == "" {
		return nil
	}
	return typeToRef(typesystem.ParseName(name))
}

func typeToRef(t typesystem.Type) *gdast.TypeReference {
	switch typ := t.(type) {
	case typesystem.TConcrete:
		return &gdast.TypeReference{Name: typ.TypeName}
	case typesystem.TVariant:
		return &gdast.TypeReference{Name: "Variant"}
	case typesystem.TNull:
		return nil
	case typesystem.TUnion:
		return nil
	case typesystem.TArray:
		ref := &gdast.TypeReference{Name: "Array"}
		if typ.Elem != nil {
			elem := typeToRef(typ.Elem)
			if elem == nil {
				return ref
			}
			ref.Args = []*gdast.TypeReference{elem}
		}
		return ref
	case typesystem.TDictionary:
		ref := &gdast.TypeReference{Name: "Dictionary"}
		if typ.Key != nil && typ.Value != nil {
			key := typeToRef(typ.Key)
			value := typeToRef(typ.Value)
			if key != nil && value != nil {
				ref.Args = []*gdast.TypeReference{key, value}
			}
		}
		return ref
	case typesystem.TCallable:
		return &gdast.TypeReference{Name: "Callable"}
	}
	return nil
}
