package providers

import "github.com/elamaunt/gdshrapt-go/internal/typesystem"

// FallbackProvider owns the primitive value types and the members of
// the untyped containers. It sits last in the composite so richer
// sources win, and it is the place where container methods carry their
// return-type roles.
type FallbackProvider struct {
	types map[string]*TypeInfo
}

// NewFallbackProvider builds the builtin table.
func NewFallbackProvider() *FallbackProvider {
	f := &FallbackProvider{types: map[string]*TypeInfo{}}
	f.register(builtinTypes()...)
	return f
}

func (f *FallbackProvider) register(infos ...TypeInfo) {
	for i := range infos {
		info := infos[i]
		f.types[info.Name] = &info
	}
}

func (f *FallbackProvider) IsKnownType(name string) bool {
	_, ok := f.types[lookupName(name)]
	return ok
}

func (f *FallbackProvider) GetTypeInfo(name string) *TypeInfo {
	return f.types[lookupName(name)]
}

func (f *FallbackProvider) GetMember(typeName, member string) *MemberInfo {
	return f.types[lookupName(typeName)].FindMember(member)
}

func (f *FallbackProvider) GetBaseType(name string) string {
	if info := f.types[lookupName(name)]; info != nil {
		return info.BaseType
	}
	return ""
}

// IsAssignableTo covers the conversions the builtin layer owns:
// numeric promotion, String/StringName exchange, null and Variant, and
// generic-to-raw container widening.
func (f *FallbackProvider) IsAssignableTo(source, target string) bool {
	if source == "" || target == "" {
		return false
	}
	if source == target {
		return true
	}
	if source == "null" || typesystem.IsVariantName(source) || typesystem.IsVariantName(target) {
		return true
	}
	if source == "int" && target == "float" {
		return true
	}
	if (source == "String" && target == "StringName") || (source == "StringName" && target == "String") {
		return true
	}
	if typesystem.RawGeneric(source) == target {
		return true
	}
	return false
}

func (f *FallbackProvider) GetGlobalFunction(name string) *MemberInfo { return nil }
func (f *FallbackProvider) GetGlobalClass(name string) *TypeInfo      { return nil }

func (f *FallbackProvider) IsBuiltIn(name string) bool {
	return f.IsKnownType(name)
}

func (f *FallbackProvider) GetAllTypes() []string {
	set := map[string]struct{}{}
	for name := range f.types {
		set[name] = struct{}{}
	}
	return typesystem.SortedNames(set)
}

func (f *FallbackProvider) FindTypesWithMethod(method string) []string {
	set := map[string]struct{}{}
	for name, info := range f.types {
		for i := range info.Members {
			if info.Members[i].Kind == KindMethod && info.Members[i].Name == method {
				set[name] = struct{}{}
			}
		}
	}
	return typesystem.SortedNames(set)
}

func (f *FallbackProvider) IsBuiltinValueType(name string) bool {
	if info := f.types[lookupName(name)]; info != nil {
		return info.IsBuiltinValue
	}
	return false
}

var _ TypeProvider = (*FallbackProvider)(nil)

// lookupName collapses generic container names onto their raw owners
// so Array[int] answers with Array's member table.
func lookupName(name string) string {
	return typesystem.RawGeneric(name)
}

func builtinTypes() []TypeInfo {
	intP := func(name string) ParameterInfo { return ParameterInfo{Name: name, TypeName: "int"} }
	variantP := func(name string) ParameterInfo { return ParameterInfo{Name: name, TypeName: "Variant"} }

	arrayMethods := []MemberInfo{
		Method("size", "int"),
		Method("is_empty", "bool"),
		Method("clear", "void"),
		Method("push_back", "void", variantP("value")),
		Method("push_front", "void", variantP("value")),
		Method("append", "void", variantP("value")),
		Method("append_array", "void", ParameterInfo{Name: "array", TypeName: "Array"}),
		Method("insert", "int", intP("position"), variantP("value")),
		Method("remove_at", "void", intP("position")),
		Method("erase", "void", variantP("value")),
		Method("has", "bool", variantP("value")),
		Method("count", "int", variantP("value")),
		Method("find", "int", variantP("what"), ParameterInfo{Name: "from", TypeName: "int", HasDefault: true}),
		Method("rfind", "int", variantP("what"), ParameterInfo{Name: "from", TypeName: "int", HasDefault: true}),
		Method("sort", "void"),
		Method("sort_custom", "void", ParameterInfo{Name: "func", TypeName: "Callable", CallableParamCount: 2, CallableReturns: "bool"}),
		Method("reverse", "void"),
		Method("shuffle", "void"),
		Method("hash", "int"),
		withRole(Method("front", "Variant"), RoleElement),
		withRole(Method("back", "Variant"), RoleElement),
		withRole(Method("pop_back", "Variant"), RoleElement),
		withRole(Method("pop_front", "Variant"), RoleElement),
		withRole(Method("pop_at", "Variant", intP("position")), RoleElement),
		withRole(Method("pick_random", "Variant"), RoleElement),
		withRole(Method("min", "Variant"), RoleElement),
		withRole(Method("max", "Variant"), RoleElement),
		withRole(Method("duplicate", "Array", ParameterInfo{Name: "deep", TypeName: "bool", HasDefault: true}), RoleSelf),
		withRole(Method("slice", "Array", intP("begin"), ParameterInfo{Name: "end", TypeName: "int", HasDefault: true}), RoleSelf),
		withRole(Method("filter", "Array", ParameterInfo{Name: "method", TypeName: "Callable", CallableParamCount: 1, CallableReturns: "bool"}), RoleSelf),
		withRole(Method("map", "Array", ParameterInfo{Name: "method", TypeName: "Callable", CallableParamCount: 1}), RoleCallableReturnArray),
		Method("reduce", "Variant", ParameterInfo{Name: "method", TypeName: "Callable", CallableParamCount: 2}, ParameterInfo{Name: "accum", TypeName: "Variant", HasDefault: true}),
		Method("any", "bool", ParameterInfo{Name: "method", TypeName: "Callable", CallableParamCount: 1, CallableReturns: "bool"}),
		Method("all", "bool", ParameterInfo{Name: "method", TypeName: "Callable", CallableParamCount: 1, CallableReturns: "bool"}),
	}

	dictMethods := []MemberInfo{
		Method("size", "int"),
		Method("is_empty", "bool"),
		Method("clear", "void"),
		Method("has", "bool", variantP("key")),
		Method("has_all", "bool", ParameterInfo{Name: "keys", TypeName: "Array"}),
		Method("erase", "bool", variantP("key")),
		Method("hash", "int"),
		Method("merge", "void", ParameterInfo{Name: "dictionary", TypeName: "Dictionary"}, ParameterInfo{Name: "overwrite", TypeName: "bool", HasDefault: true}),
		withRole(Method("get", "Variant", variantP("key"), ParameterInfo{Name: "default", TypeName: "Variant", HasDefault: true}), RoleValue),
		withRole(Method("get_or_add", "Variant", variantP("key"), ParameterInfo{Name: "default", TypeName: "Variant", HasDefault: true}), RoleValue),
		withRole(Method("keys", "Array"), RoleKeysArray),
		withRole(Method("values", "Array"), RoleValuesArray),
		withRole(Method("duplicate", "Dictionary", ParameterInfo{Name: "deep", TypeName: "bool", HasDefault: true}), RoleSelf),
		withRole(Method("merged", "Dictionary", ParameterInfo{Name: "dictionary", TypeName: "Dictionary"}, ParameterInfo{Name: "overwrite", TypeName: "bool", HasDefault: true}), RoleSelf),
		withRole(Method("find_key", "Variant", variantP("value")), RoleKey),
	}

	stringMethods := []MemberInfo{
		Method("length", "int"),
		Method("is_empty", "bool"),
		Method("substr", "String", intP("from"), ParameterInfo{Name: "len", TypeName: "int", HasDefault: true}),
		Method("split", "PackedStringArray", ParameterInfo{Name: "delimiter", TypeName: "String"}, ParameterInfo{Name: "allow_empty", TypeName: "bool", HasDefault: true}),
		Method("begins_with", "bool", ParameterInfo{Name: "text", TypeName: "String"}),
		Method("ends_with", "bool", ParameterInfo{Name: "text", TypeName: "String"}),
		Method("contains", "bool", ParameterInfo{Name: "what", TypeName: "String"}),
		Method("find", "int", ParameterInfo{Name: "what", TypeName: "String"}, ParameterInfo{Name: "from", TypeName: "int", HasDefault: true}),
		Method("replace", "String", ParameterInfo{Name: "what", TypeName: "String"}, ParameterInfo{Name: "forwhat", TypeName: "String"}),
		Method("strip_edges", "String", ParameterInfo{Name: "left", TypeName: "bool", HasDefault: true}, ParameterInfo{Name: "right", TypeName: "bool", HasDefault: true}),
		Method("to_lower", "String"),
		Method("to_upper", "String"),
		Method("to_int", "int"),
		Method("to_float", "float"),
		Method("capitalize", "String"),
		Method("format", "String", variantP("values"), ParameterInfo{Name: "placeholder", TypeName: "String", HasDefault: true}),
		Method("json_escape", "String"),
		Method("get_extension", "String"),
		Method("get_basename", "String"),
		Method("get_file", "String"),
		Method("path_join", "String", ParameterInfo{Name: "file", TypeName: "String"}),
		Method("hash", "int"),
	}

	callableMethods := []MemberInfo{
		Method("call", "Variant", ParameterInfo{Name: "args", TypeName: "Variant", IsParams: true}),
		Method("callv", "Variant", ParameterInfo{Name: "arguments", TypeName: "Array"}),
		Method("call_deferred", "void", ParameterInfo{Name: "args", TypeName: "Variant", IsParams: true}),
		withRole(Method("bind", "Callable", ParameterInfo{Name: "args", TypeName: "Variant", IsParams: true}), RoleSelf),
		withRole(Method("unbind", "Callable", intP("argcount")), RoleSelf),
		Method("is_valid", "bool"),
		Method("is_null", "bool"),
		Method("get_method", "StringName"),
		Method("get_object", "Object"),
	}

	signalMethods := []MemberInfo{
		Method("emit", "void", ParameterInfo{Name: "args", TypeName: "Variant", IsParams: true}),
		Method("connect", "int", ParameterInfo{Name: "callable", TypeName: "Callable"}, ParameterInfo{Name: "flags", TypeName: "int", HasDefault: true}),
		Method("disconnect", "void", ParameterInfo{Name: "callable", TypeName: "Callable"}),
		Method("is_connected", "bool", ParameterInfo{Name: "callable", TypeName: "Callable"}),
		Method("get_name", "StringName"),
	}

	vector2Members := []MemberInfo{
		Property("x", "float"),
		Property("y", "float"),
		Method("length", "float"),
		Method("length_squared", "float"),
		Method("normalized", "Vector2"),
		Method("distance_to", "float", ParameterInfo{Name: "to", TypeName: "Vector2"}),
		Method("dot", "float", ParameterInfo{Name: "with", TypeName: "Vector2"}),
		Method("angle", "float"),
		Method("lerp", "Vector2", ParameterInfo{Name: "to", TypeName: "Vector2"}, ParameterInfo{Name: "weight", TypeName: "float"}),
	}

	vector3Members := []MemberInfo{
		Property("x", "float"),
		Property("y", "float"),
		Property("z", "float"),
		Method("length", "float"),
		Method("normalized", "Vector3"),
		Method("distance_to", "float", ParameterInfo{Name: "to", TypeName: "Vector3"}),
		Method("dot", "float", ParameterInfo{Name: "with", TypeName: "Vector3"}),
		Method("cross", "Vector3", ParameterInfo{Name: "with", TypeName: "Vector3"}),
	}

	colorMembers := []MemberInfo{
		Property("r", "float"),
		Property("g", "float"),
		Property("b", "float"),
		Property("a", "float"),
		Method("lerp", "Color", ParameterInfo{Name: "to", TypeName: "Color"}, ParameterInfo{Name: "weight", TypeName: "float"}),
		Method("darkened", "Color", ParameterInfo{Name: "amount", TypeName: "float"}),
		Method("lightened", "Color", ParameterInfo{Name: "amount", TypeName: "float"}),
	}

	value := func(name string, members ...MemberInfo) TypeInfo {
		return TypeInfo{Name: name, IsBuiltinValue: true, Members: members}
	}

	infos := []TypeInfo{
		value("int"),
		value("float"),
		value("bool"),
		value("String", stringMethods...),
		value("StringName", stringMethods...),
		value("NodePath"),
		value("Vector2", vector2Members...),
		value("Vector2i", vector2Members...),
		value("Vector3", vector3Members...),
		value("Vector3i", vector3Members...),
		value("Vector4"),
		value("Rect2"),
		value("Transform2D"),
		value("Transform3D"),
		value("Basis"),
		value("Quaternion"),
		value("Color", colorMembers...),
		value("RID"),
		{Name: "Array", Members: arrayMethods},
		{Name: "Dictionary", Members: dictMethods},
		{Name: "Callable", Members: callableMethods},
		{Name: "Signal", Members: signalMethods},
		{Name: "Variant"},
	}

	for packed, elem := range map[string]string{
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
	} {
		infos = append(infos, TypeInfo{Name: packed, Members: []MemberInfo{
			Method("size", "int"),
			Method("is_empty", "bool"),
			Method("has", "bool", ParameterInfo{Name: "value", TypeName: elem}),
			Method("to_byte_array", "PackedByteArray"),
			withRole(Method("duplicate", packed), RoleSelf),
		}})
	}

	return infos
}

func withRole(m MemberInfo, role ReturnTypeRole) MemberInfo {
	m.ReturnRole = role
	return m
}
