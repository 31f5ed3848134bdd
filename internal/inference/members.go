package inference

import (
	"strings"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// FindMemberWithInheritance resolves a member by walking the type's
// base chain through the composite. Providers only answer for members
// they declare directly, so the walk is what gives cross-provider
// inheritance. Returns the member and the type that declared it.
func (e *Engine) FindMemberWithInheritance(typeName, member string) (*providers.MemberInfo, string) {
	if typeName == "" || member == "" {
		return nil, ""
	}
	visited := map[string]bool{}
	current := typeName
	for current != "" && !visited[current] {
		visited[current] = true
		if m := e.providers.GetMember(current, member); m != nil {
			return m, current
		}
		current = e.providers.GetBaseType(current)
	}
	return nil, ""
}

// inferMemberAccess types `target.member`.
func (e *Engine) inferMemberAccess(access *gdast.MemberAccess) string {
	// Qualified inner classes and enums resolve as one name:
	// Outer.Inner is registered under its qualified key.
	if qualified := e.qualifiedTypeName(access); qualified != "" {
		return qualified
	}

	targetType := e.InferType(access.Target)
	if targetType == "" {
		return e.duckTypedProperty(access.Member)
	}

	member, declaring := e.FindMemberWithInheritance(targetType, access.Member)
	if member == nil {
		if typesystem.IsVariantName(targetType) {
			return e.duckTypedProperty(access.Member)
		}
		return ""
	}
	return e.memberValueType(member, declaring)
}

// qualifiedTypeName recognizes Type.Member chains that name a type
// (inner class, enum) rather than an instance member.
func (e *Engine) qualifiedTypeName(access *gdast.MemberAccess) string {
	ident, ok := access.Target.(*gdast.Identifier)
	if !ok {
		return ""
	}
	qualified := ident.Name + "." + access.Member
	if e.providers.IsKnownType(qualified) {
		if info := e.providers.GetTypeInfo(qualified); info != nil {
			// Keep the qualified spelling: the short name may be
			// ambiguous across scripts.
			return qualified
		}
	}
	return ""
}

// memberValueType maps a resolved member to the type of the value a
// member-access expression produces.
func (e *Engine) memberValueType(member *providers.MemberInfo, declaringType string) string {
	switch member.Kind {
	case providers.KindMethod:
		// A method accessed without a call is a bound Callable; shape
		// it when the signature is known.
		return callableShape(member)
	case providers.KindSignal:
		return "Signal"
	default:
		return member.TypeName
	}
}

// callableShape renders a method reference as Callable[[P…], R].
func callableShape(member *providers.MemberInfo) string {
	if len(member.Parameters) == 0 && (member.TypeName == "" || member.TypeName == "void") {
		return "Callable"
	}
	params := make([]typesystem.Type, 0, len(member.Parameters))
	for _, p := range member.Parameters {
		params = append(params, typesystem.Concrete(p.TypeName))
	}
	var ret typesystem.Type
	if member.TypeName != "" && member.TypeName != "void" {
		ret = typesystem.Concrete(member.TypeName)
	}
	return typesystem.TCallable{Params: params, Return: ret}.Name()
}

// duckTypedProperty answers a property access on an unknown receiver:
// when every project class declaring the property agrees on its type,
// that type wins.
func (e *Engine) duckTypedProperty(property string) string {
	var unified string
	for _, child := range e.providers.Children() {
		finder, ok := child.(interface{ FindTypesWithProperty(string) []string })
		if !ok {
			continue
		}
		for _, owner := range finder.FindTypesWithProperty(property) {
			member := e.providers.GetMember(owner, property)
			if member == nil || member.TypeName == "" {
				continue
			}
			if unified == "" {
				unified = member.TypeName
			} else if unified != member.TypeName {
				return ""
			}
		}
	}
	return unified
}

// iterationElementOf maps an iterable's type to its element type for
// for-loop variables.
func iterationElementOf(iterableType string) string {
	switch {
	case iterableType == "":
		return ""
	case iterableType == "String":
		return "String"
	case iterableType == "int" || iterableType == "float":
		return iterableType
	}
	if elem := typesystem.ElementName(iterableType); elem != "" {
		return elem
	}
	if key := typesystem.KeyName(iterableType); key != "" {
		// Iterating a dictionary yields its keys.
		return key
	}
	if strings.HasPrefix(iterableType, "Array") {
		return ""
	}
	return ""
}
