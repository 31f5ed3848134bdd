package typesystem

import "strings"

// ParseName parses a canonical display name back into a Type. It
// understands "Array[T]", "Dictionary[K, V]", "Callable[[P…], R]" and
// pipe unions. Unknown shapes come back as TConcrete; malformed
// generic suffixes fall back to the raw head type rather than failing,
// per the never-raise rule for type-name construction.
func ParseName(name string) Type {
	name = strings.TrimSpace(name)
	if name == "" || name == "Variant" {
		return TVariant{}
	}
	if name == "null" {
		return TNull{}
	}
	if parts := splitUnion(name); len(parts) > 1 {
		members := make([]Type, 0, len(parts))
		for _, p := range parts {
			members = append(members, ParseName(p))
		}
		return Union(members...)
	}
	switch {
	case name == "Array":
		return TArray{}
	case name == "Dictionary":
		return TDictionary{}
	case name == "Callable":
		return TCallable{}
	case strings.HasPrefix(name, "Array[") && strings.HasSuffix(name, "]"):
		return TArray{Elem: ParseName(name[len("Array[") : len(name)-1])}
	case strings.HasPrefix(name, "Dictionary[") && strings.HasSuffix(name, "]"):
		inner := name[len("Dictionary[") : len(name)-1]
		kv := splitTopLevel(inner, ',')
		if len(kv) != 2 {
			return TDictionary{}
		}
		return TDictionary{Key: ParseName(kv[0]), Value: ParseName(kv[1])}
	case strings.HasPrefix(name, "Callable[[") && strings.HasSuffix(name, "]"):
		inner := name[len("Callable[") : len(name)-1]
		// inner is "[P1, …], R"
		if !strings.HasPrefix(inner, "[") {
			return TCallable{}
		}
		depth := 0
		closing := -1
		for i, r := range inner {
			switch r {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					closing = i
				}
			}
			if closing >= 0 {
				break
			}
		}
		if closing < 0 {
			return TCallable{}
		}
		paramPart := inner[1:closing]
		rest := strings.TrimPrefix(strings.TrimSpace(inner[closing+1:]), ",")
		var params []Type
		if strings.TrimSpace(paramPart) != "" {
			for _, p := range splitTopLevel(paramPart, ',') {
				params = append(params, ParseName(p))
			}
		}
		var ret Type
		if r := strings.TrimSpace(rest); r != "" && r != "void" {
			ret = ParseName(r)
		}
		return TCallable{Params: params, Return: ret}
	}
	return TConcrete{TypeName: name}
}

// splitUnion splits on top-level " | " separators.
func splitUnion(name string) []string {
	parts := splitTopLevel(name, '|')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitTopLevel splits on sep occurrences not nested inside brackets.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		default:
			if r == sep && depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + len(string(r))
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}

// ElementName returns T for "Array[T]" and the packed-array element
// for packed types; empty otherwise.
func ElementName(containerName string) string {
	if t, ok := ParseName(containerName).(TArray); ok && t.Elem != nil {
		return t.Elem.Name()
	}
	if elem, ok := packedElements[containerName]; ok {
		return elem
	}
	return ""
}

// KeyName returns K for "Dictionary[K, V]"; empty otherwise.
func KeyName(containerName string) string {
	if t, ok := ParseName(containerName).(TDictionary); ok && t.Key != nil {
		return t.Key.Name()
	}
	return ""
}

// ValueName returns V for "Dictionary[K, V]"; empty otherwise.
func ValueName(containerName string) string {
	if t, ok := ParseName(containerName).(TDictionary); ok && t.Value != nil {
		return t.Value.Name()
	}
	return ""
}

// RawGeneric strips generic arguments: "Array[int]" → "Array".
func RawGeneric(name string) string {
	if i := strings.IndexByte(name, '['); i > 0 {
		return name[:i]
	}
	return name
}

var packedElements = map[string]string{
	"PackedByteArray":    "int",
	"PackedInt32Array":   "int",
	"PackedInt64Array":   "int",
	"PackedFloat32Array": "float",
	"PackedFloat64Array": "float",
	"PackedStringArray":  "String",
	"PackedVector2Array": "Vector2",
	"PackedVector3Array": "Vector3",
	"PackedVector4Array": "Vector4",
	"PackedColorArray":   "Color",
}

// PackedElement returns the element type of a packed array type name.
func PackedElement(name string) (string, bool) {
	elem, ok := packedElements[name]
	return elem, ok
}

// IsPackedArray reports whether the name is one of the packed arrays.
func IsPackedArray(name string) bool {
	_, ok := packedElements[name]
	return ok
}

// IsNumeric reports whether the name is int or float.
func IsNumeric(name string) bool {
	return name == "int" || name == "float"
}

// PromoteNumeric applies the arithmetic promotion rule: float wins
// over int when both operands are numeric.
func PromoteNumeric(a, b string) string {
	if !IsNumeric(a) || !IsNumeric(b) {
		return ""
	}
	if a == "float" || b == "float" {
		return "float"
	}
	return "int"
}
