package hostdb

import "github.com/elamaunt/gdshrapt-go/internal/providers"

// AddGlobalFunction registers a descriptor-sourced global function,
// merging overloads if the name was already present. Entries from the
// special table win: the descriptor cannot express their variadic
// shapes or return-type roles.
func (p *Provider) AddGlobalFunction(name string, overloads []MethodData) {
	if _, special := specialGlobals[name]; special {
		return
	}
	p.globals[name] = mergeOverloads(name, overloads)
}

// specialGlobals carries signatures the serialized descriptor cannot
// state cleanly: variadic numeric helpers whose return follows their
// arguments, and the assertion/printing family.
var specialGlobals = map[string]func() providers.MemberInfo{
	"min": func() providers.MemberInfo {
		m := providers.Method("min", "Variant", variadic("args"))
		m.ReturnRole = providers.RoleCommonArg
		return m
	},
	"max": func() providers.MemberInfo {
		m := providers.Method("max", "Variant", variadic("args"))
		m.ReturnRole = providers.RoleCommonArg
		return m
	},
	"abs": func() providers.MemberInfo {
		m := providers.Method("abs", "Variant", param("x", "Variant"))
		m.ReturnRole = providers.RoleFirstArg
		return m
	},
	"clamp": func() providers.MemberInfo {
		m := providers.Method("clamp", "Variant", param("value", "Variant"), param("min", "Variant"), param("max", "Variant"))
		m.ReturnRole = providers.RoleCommonArg
		return m
	},
	"lerp": func() providers.MemberInfo {
		m := providers.Method("lerp", "Variant", param("from", "Variant"), param("to", "Variant"), param("weight", "float"))
		m.ReturnRole = providers.RoleCommonTwo
		return m
	},
	"str": func() providers.MemberInfo {
		return providers.Method("str", "String", variadic("args"))
	},
	"print": func() providers.MemberInfo {
		return providers.Method("print", "void", variadic("args"))
	},
	"prints": func() providers.MemberInfo {
		return providers.Method("prints", "void", variadic("args"))
	},
	"printt": func() providers.MemberInfo {
		return providers.Method("printt", "void", variadic("args"))
	},
	"printerr": func() providers.MemberInfo {
		return providers.Method("printerr", "void", variadic("args"))
	},
	"print_rich": func() providers.MemberInfo {
		return providers.Method("print_rich", "void", variadic("args"))
	},
	"push_error": func() providers.MemberInfo {
		return providers.Method("push_error", "void", variadic("args"))
	},
	"push_warning": func() providers.MemberInfo {
		return providers.Method("push_warning", "void", variadic("args"))
	},
	"assert": func() providers.MemberInfo {
		return providers.Method("assert", "void", param("condition", "bool"), paramDefault("message", "String"))
	},
	"typeof": func() providers.MemberInfo {
		return providers.Method("typeof", "int", param("what", "Variant"))
	},
	"range": func() providers.MemberInfo {
		return providers.Method("range", "Array[int]", variadic("args"))
	},
	"is_instance_valid": func() providers.MemberInfo {
		return providers.Method("is_instance_valid", "bool", param("instance", "Variant"))
	},
	"is_instance_of": func() providers.MemberInfo {
		return providers.Method("is_instance_of", "bool", param("value", "Variant"), param("type", "Variant"))
	},
	"randi": func() providers.MemberInfo {
		return providers.Method("randi", "int")
	},
	"randf": func() providers.MemberInfo {
		return providers.Method("randf", "float")
	},
	"randf_range": func() providers.MemberInfo {
		return providers.Method("randf_range", "float", param("from", "float"), param("to", "float"))
	},
	"randi_range": func() providers.MemberInfo {
		return providers.Method("randi_range", "int", param("from", "int"), param("to", "int"))
	},
	"var_to_str": func() providers.MemberInfo {
		return providers.Method("var_to_str", "String", param("variable", "Variant"))
	},
	"str_to_var": func() providers.MemberInfo {
		return providers.Method("str_to_var", "Variant", param("string", "String"))
	},
}

func (p *Provider) installSpecialGlobals() {
	for name, build := range specialGlobals {
		m := build()
		p.globals[name] = &m
	}
}

func param(name, typeName string) providers.ParameterInfo {
	return providers.ParameterInfo{Name: name, TypeName: typeName}
}

func paramDefault(name, typeName string) providers.ParameterInfo {
	return providers.ParameterInfo{Name: name, TypeName: typeName, HasDefault: true}
}

func variadic(name string) providers.ParameterInfo {
	return providers.ParameterInfo{Name: name, TypeName: "Variant", IsParams: true}
}
