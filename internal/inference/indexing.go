package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// inferIndex types `target[index]` by the target's container shape.
func (e *Engine) inferIndex(idx *gdast.IndexExpression) string {
	targetType := e.InferType(idx.Target)

	switch typesystem.RawGeneric(targetType) {
	case "String", "StringName":
		return "String"
	case "Array":
		if elem := typesystem.ElementName(targetType); elem != "" {
			return elem
		}
		return e.untypedContainerElement(idx.Target)
	case "Dictionary":
		if value := typesystem.ValueName(targetType); value != "" {
			return value
		}
		// A literal string key can still answer from the initializer.
		if key, ok := idx.Index.(*gdast.StringLiteral); ok {
			if dict := e.dictionaryInitializerOf(idx.Target); dict != nil {
				for _, pair := range dict.Pairs {
					if k, ok := pair.Key.(*gdast.StringLiteral); ok && k.Value == key.Value {
						return e.InferType(pair.Value)
					}
				}
			}
		}
		return e.untypedContainerElement(idx.Target)
	}

	if elem, ok := typesystem.PackedElement(targetType); ok {
		return elem
	}

	if targetType == "" || typesystem.IsVariantName(targetType) {
		if typ := e.untypedContainerElement(idx.Target); typ != "" {
			return typ
		}
		return "Variant"
	}
	return "Variant"
}

// untypedContainerElement consults the external container oracle for
// usage-inferred element types.
func (e *Engine) untypedContainerElement(target gdast.Expression) string {
	if e.containerTypes == nil {
		return ""
	}
	return e.containerTypes.ElementTypeFor(target)
}
