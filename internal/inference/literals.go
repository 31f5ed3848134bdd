package inference

import (
	"strings"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// inferLiteral types the literal expression forms.
func (e *Engine) inferLiteral(expr gdast.Expression) string {
	switch n := expr.(type) {
	case *gdast.NumberLiteral:
		return numberLiteralType(n.Lexeme)
	case *gdast.StringLiteral:
		switch {
		case n.IsStringName:
			return "StringName"
		case n.IsNodePath:
			return "NodePath"
		}
		return "String"
	case *gdast.BoolLiteral:
		return "bool"
	case *gdast.NullLiteral:
		return "null"
	case *gdast.ArrayLiteral:
		return e.inferArrayLiteral(n)
	case *gdast.DictionaryLiteral:
		return e.inferDictionaryLiteral(n)
	}
	return ""
}

// numberLiteralType follows the lexeme: a dot or exponent marker means
// float, everything else is int. Hex and binary lexemes contain
// letters but never '.', 'e' or 'E' outside the 0x prefix digits, so
// they are special-cased.
func numberLiteralType(lexeme string) string {
	lower := strings.ToLower(lexeme)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		return "int"
	}
	if strings.ContainsAny(lexeme, ".eE") {
		return "float"
	}
	return "int"
}

// inferArrayLiteral propagates the element union: [1, 2] is
// Array[int], mixed elements produce Array[A | B], and empty or
// Variant-element literals stay raw Array.
func (e *Engine) inferArrayLiteral(n *gdast.ArrayLiteral) string {
	if len(n.Elements) == 0 {
		return "Array"
	}
	var names []string
	for _, el := range n.Elements {
		names = append(names, e.InferType(el))
	}
	elem := typesystem.CommonName(names)
	if typesystem.IsVariantName(elem) {
		return "Array"
	}
	return "Array[" + elem + "]"
}

// inferDictionaryLiteral reports a shaped Dictionary[K, V] only when
// both key and value types are uniform; mixed dictionaries stay raw,
// with the value union available to display layers through the
// initializer lookup path.
func (e *Engine) inferDictionaryLiteral(n *gdast.DictionaryLiteral) string {
	if len(n.Pairs) == 0 {
		return "Dictionary"
	}
	var keyNames, valueNames []string
	for _, pair := range n.Pairs {
		keyNames = append(keyNames, e.InferType(pair.Key))
		valueNames = append(valueNames, e.InferType(pair.Value))
	}
	key := typesystem.CommonName(keyNames)
	value := typesystem.CommonName(valueNames)
	if typesystem.IsVariantName(key) || strings.Contains(key, "|") {
		return "Dictionary"
	}
	if typesystem.IsVariantName(value) || strings.Contains(value, "|") {
		return "Dictionary"
	}
	return "Dictionary[" + key + ", " + value + "]"
}
