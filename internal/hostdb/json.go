package hostdb

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/elamaunt/gdshrapt-go/internal/providers"
)

// LoadJSON reads a JSON descriptor dump. Layout:
//
//	{
//	  "version": "4.2",
//	  "classes": [{"name", "base", "is_builtin_value", "is_singleton",
//	               "is_abstract", "methods": [...], "properties": [...],
//	               "signals": [...], "constants": [...], "enums": [...]}],
//	  "global_functions": [{"name", "overloads": [...]}]
//	}
//
// Method/overload objects carry "name", "return_type", "is_static",
// "is_vararg", "return_role" and "params" with "name"/"type"/
// "has_default". Return types may arrive in raw generic notation and
// are rewritten on the way in.
func LoadJSON(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostdb: reading descriptor: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON builds a provider from descriptor bytes.
func ParseJSON(data []byte) (*Provider, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("hostdb: descriptor is not a JSON object")
	}
	p := New()
	p.version = root.Get("version").String()

	root.Get("classes").ForEach(func(_, class gjson.Result) bool {
		td := &TypeData{
			Name:           class.Get("name").String(),
			Base:           class.Get("base").String(),
			IsBuiltinValue: class.Get("is_builtin_value").Bool(),
			IsSingleton:    class.Get("is_singleton").Bool(),
			IsAbstract:     class.Get("is_abstract").Bool(),
			Methods:        map[string][]MethodData{},
			Properties:     map[string]string{},
			Signals:        map[string][]string{},
			Constants:      map[string]string{},
			Enums:          map[string][]string{},
		}
		if td.Name == "" {
			return true
		}
		class.Get("methods").ForEach(func(_, m gjson.Result) bool {
			md := parseMethod(m)
			td.Methods[md.Name] = append(td.Methods[md.Name], md)
			return true
		})
		class.Get("properties").ForEach(func(_, prop gjson.Result) bool {
			td.Properties[prop.Get("name").String()] = RewriteGenericNotation(prop.Get("type").String())
			return true
		})
		class.Get("signals").ForEach(func(_, sig gjson.Result) bool {
			var params []string
			sig.Get("params").ForEach(func(_, sp gjson.Result) bool {
				params = append(params, sp.Get("type").String())
				return true
			})
			td.Signals[sig.Get("name").String()] = params
			return true
		})
		class.Get("constants").ForEach(func(_, c gjson.Result) bool {
			typ := c.Get("type").String()
			if typ == "" {
				typ = "int"
			}
			td.Constants[c.Get("name").String()] = typ
			return true
		})
		class.Get("enums").ForEach(func(_, e gjson.Result) bool {
			var values []string
			e.Get("values").ForEach(func(_, v gjson.Result) bool {
				values = append(values, v.String())
				return true
			})
			td.Enums[e.Get("name").String()] = values
			return true
		})
		p.AddType(td)
		return true
	})

	root.Get("global_functions").ForEach(func(_, fn gjson.Result) bool {
		name := fn.Get("name").String()
		var overloads []MethodData
		fn.Get("overloads").ForEach(func(_, o gjson.Result) bool {
			md := parseMethod(o)
			md.Name = name
			overloads = append(overloads, md)
			return true
		})
		if len(overloads) > 0 {
			p.AddGlobalFunction(name, overloads)
		}
		return true
	})

	return p, nil
}

func parseMethod(m gjson.Result) MethodData {
	md := MethodData{
		Name:       m.Get("name").String(),
		ReturnType: RewriteGenericNotation(m.Get("return_type").String()),
		IsStatic:   m.Get("is_static").Bool(),
		IsVararg:   m.Get("is_vararg").Bool(),
		ReturnRole: parseRole(m.Get("return_role").String()),
	}
	m.Get("params").ForEach(func(_, pr gjson.Result) bool {
		md.Params = append(md.Params, providers.ParameterInfo{
			Name:       pr.Get("name").String(),
			TypeName:   RewriteGenericNotation(pr.Get("type").String()),
			HasDefault: pr.Get("has_default").Bool(),
			IsParams:   pr.Get("is_params").Bool(),
		})
		return true
	})
	return md
}

func parseRole(role string) providers.ReturnTypeRole {
	switch role {
	case "element":
		return providers.RoleElement
	case "key":
		return providers.RoleKey
	case "value":
		return providers.RoleValue
	case "self":
		return providers.RoleSelf
	case "keys_array":
		return providers.RoleKeysArray
	case "values_array":
		return providers.RoleValuesArray
	case "callable_return_array":
		return providers.RoleCallableReturnArray
	case "first_arg":
		return providers.RoleFirstArg
	case "common_arg":
		return providers.RoleCommonArg
	case "common_two":
		return providers.RoleCommonTwo
	}
	return providers.RoleNone
}
