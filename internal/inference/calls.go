package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// inferCall types a call expression. The injector answers first (node
// lookups, resource loads, instantiation); then constructors, global
// functions, user methods and container methods with return-type
// roles; duck typing is the last resort for unknown receivers.
func (e *Engine) inferCall(call *gdast.CallExpression) string {
	if e.injector != nil {
		if typ := e.injector.InjectCall(call, e.file); typ != "" {
			return typ
		}
	}

	switch callee := call.Callee.(type) {
	case *gdast.Identifier:
		return e.inferIdentifierCall(call, callee)
	case *gdast.MemberAccess:
		return e.inferMethodCall(call, callee)
	case *gdast.LambdaExpression:
		// Immediately-invoked lambda: its return type.
		return e.lambdaReturnType(callee)
	}

	// Calling an arbitrary expression: a shaped callable knows its
	// return.
	if ret := callableReturnOf(e.InferType(call.Callee)); ret != "" {
		return ret
	}
	return ""
}

// inferIdentifierCall handles plain `name(args)` calls: constructors,
// global functions, then methods of the enclosing class.
func (e *Engine) inferIdentifierCall(call *gdast.CallExpression, callee *gdast.Identifier) string {
	// Constructor: a known type name used as a call site.
	if e.providers.IsKnownType(callee.Name) {
		if info := e.providers.GetTypeInfo(callee.Name); info != nil {
			return info.Name
		}
		return callee.Name
	}

	if fn := e.providers.GetGlobalFunction(callee.Name); fn != nil {
		if fn.ReturnRole != providers.RoleNone {
			if typ := e.applyReturnRole(fn.ReturnRole, "", call); typ != "" {
				return typ
			}
		}
		return fn.TypeName
	}

	// Method of the enclosing class (implicit self).
	selfName := e.selfTypeName()
	if selfName != "" {
		if member, _ := e.FindMemberWithInheritance(selfName, callee.Name); member != nil && member.Kind == providers.KindMethod {
			if member.TypeName != "" {
				return member.TypeName
			}
		}
	}

	// Anonymous local class: resolve against the AST directly.
	if class := e.scopes.CurrentClass(); class != nil {
		if method := class.FindMethod(callee.Name); method != nil {
			return e.methodReturnType(class, method)
		}
	}

	// A lambda stored in a local: call through its shape.
	if sym := e.scopes.Lookup(callee.Name); sym != nil {
		if ret := callableReturnOf(e.typeOfSymbol(sym)); ret != "" {
			return ret
		}
	}
	return ""
}

// inferMethodCall handles `target.method(args)`.
func (e *Engine) inferMethodCall(call *gdast.CallExpression, callee *gdast.MemberAccess) string {
	// T.new() constructs T; the canonical name wins over aliases.
	if callee.Member == "new" {
		if ident, ok := callee.Target.(*gdast.Identifier); ok && e.providers.IsKnownType(ident.Name) {
			if info := e.providers.GetTypeInfo(ident.Name); info != nil {
				return info.Name
			}
			return ident.Name
		}
	}

	callerType := e.InferType(callee.Target)

	// Literal-key lookups run before member resolution so untyped
	// dictionaries still answer precisely.
	if callee.Member == "get" && len(call.Arguments) >= 1 {
		if typ := e.literalGetLookup(callee.Target, callerType, call.Arguments[0]); typ != "" {
			return typ
		}
	}

	// Calling a shaped callable value.
	if callee.Member == "call" || callee.Member == "callv" {
		if ret := callableReturnOf(callerType); ret != "" {
			return ret
		}
	}

	if callerType == "" || typesystem.IsVariantName(callerType) {
		return e.duckTypedMethod(callee.Member)
	}

	member, _ := e.FindMemberWithInheritance(callerType, callee.Member)
	if member == nil {
		return ""
	}
	if member.Kind != providers.KindMethod {
		// Calling a callable-typed property.
		return callableReturnOf(member.TypeName)
	}
	if member.ReturnRole != providers.RoleNone {
		if typ := e.applyReturnRole(member.ReturnRole, callerType, call); typ != "" {
			return typ
		}
	}
	return member.TypeName
}

// methodReturnType resolves a method's return from its annotation or
// by body analysis, guarded per Class.method so mutual recursion
// terminates.
func (e *Engine) methodReturnType(class *gdast.ClassDeclaration, method *gdast.MethodDeclaration) string {
	if method.ReturnType != nil {
		return method.ReturnType.FullName()
	}
	key := classKey(class) + "." + method.Name
	if e.methodsBeingInferred[key] {
		return ""
	}
	e.methodsBeingInferred[key] = true
	defer delete(e.methodsBeingInferred, key)
	return e.CollectReturnTypes(method)
}

func classKey(class *gdast.ClassDeclaration) string {
	if class.Name != "" {
		return class.Name
	}
	if class.File != nil {
		return class.File.ResourcePath
	}
	return "<anonymous>"
}

// applyReturnRole derives a call's type from the caller's container
// parameters or from the arguments instead of the declared return.
func (e *Engine) applyReturnRole(role providers.ReturnTypeRole, callerType string, call *gdast.CallExpression) string {
	switch role {
	case providers.RoleElement:
		return typesystem.ElementName(callerType)
	case providers.RoleKey:
		return typesystem.KeyName(callerType)
	case providers.RoleValue:
		return typesystem.ValueName(callerType)
	case providers.RoleSelf:
		return callerType
	case providers.RoleKeysArray:
		if key := typesystem.KeyName(callerType); key != "" {
			return "Array[" + key + "]"
		}
		return "Array"
	case providers.RoleValuesArray:
		if value := typesystem.ValueName(callerType); value != "" {
			return "Array[" + value + "]"
		}
		return "Array"
	case providers.RoleCallableReturnArray:
		if len(call.Arguments) > 0 {
			if lambda, ok := call.Arguments[0].(*gdast.LambdaExpression); ok {
				if ret := e.lambdaReturnType(lambda); ret != "" && ret != "void" {
					return "Array[" + ret + "]"
				}
			}
			if ret := callableReturnOf(e.InferType(call.Arguments[0])); ret != "" {
				return "Array[" + ret + "]"
			}
		}
		return "Array"
	case providers.RoleFirstArg:
		if len(call.Arguments) > 0 {
			return e.InferType(call.Arguments[0])
		}
	case providers.RoleCommonArg:
		return e.promoteArguments(call.Arguments)
	case providers.RoleCommonTwo:
		if len(call.Arguments) >= 2 {
			return e.promoteArguments(call.Arguments[:2])
		}
		return e.promoteArguments(call.Arguments)
	}
	return ""
}

// promoteArguments folds numeric promotion over argument types: all
// int stays int, any float makes float; disagreeing non-numerics give
// nothing.
func (e *Engine) promoteArguments(args []gdast.Expression) string {
	var acc string
	for _, arg := range args {
		typ := e.InferType(arg)
		if acc == "" {
			acc = typ
			continue
		}
		if typ == acc {
			continue
		}
		if promoted := typesystem.PromoteNumeric(acc, typ); promoted != "" {
			acc = promoted
			continue
		}
		return ""
	}
	return acc
}

// literalGetLookup answers x.get("key") against a dictionary literal
// initializer, and obj.get("prop") against the receiver's property
// table.
func (e *Engine) literalGetLookup(target gdast.Expression, callerType string, keyArg gdast.Expression) string {
	lit, ok := keyArg.(*gdast.StringLiteral)
	if !ok {
		return ""
	}
	if typesystem.RawGeneric(callerType) == "Dictionary" || callerType == "" {
		if dict := e.dictionaryInitializerOf(target); dict != nil {
			for _, pair := range dict.Pairs {
				if key, ok := pair.Key.(*gdast.StringLiteral); ok && key.Value == lit.Value {
					return e.InferType(pair.Value)
				}
			}
		}
		if value := typesystem.ValueName(callerType); value != "" {
			return value
		}
		return ""
	}
	// Object.get("name"): a reflective property read.
	if member, _ := e.FindMemberWithInheritance(callerType, lit.Value); member != nil && member.Kind == providers.KindProperty {
		return member.TypeName
	}
	return ""
}

// dictionaryInitializerOf finds the dictionary literal a receiver was
// statically initialized with.
func (e *Engine) dictionaryInitializerOf(target gdast.Expression) *gdast.DictionaryLiteral {
	switch t := target.(type) {
	case *gdast.DictionaryLiteral:
		return t
	case *gdast.Identifier:
		if sym := e.scopes.Lookup(t.Name); sym != nil {
			if vd, ok := sym.Decl.(*gdast.VariableDeclaration); ok {
				if dict, ok := vd.Initializer.(*gdast.DictionaryLiteral); ok {
					return dict
				}
			}
		}
	case *gdast.MemberAccess:
		if member, _ := e.FindMemberWithInheritance(e.InferType(t.Target), t.Member); member != nil {
			if vd, ok := member.Decl.(*gdast.VariableDeclaration); ok {
				if dict, ok := vd.Initializer.(*gdast.DictionaryLiteral); ok {
					return dict
				}
			}
		}
	}
	return nil
}

// duckTypedMethod resolves a method on an unknown receiver across the
// whole federation: a single agreeing return type wins, an all-numeric
// spread promotes, anything else stays unknown.
func (e *Engine) duckTypedMethod(method string) string {
	owners := e.providers.FindTypesWithMethod(method)
	if len(owners) == 0 {
		return ""
	}
	var unified string
	allNumeric := true
	for _, owner := range owners {
		member := e.providers.GetMember(owner, method)
		if member == nil || member.TypeName == "" {
			continue
		}
		if !typesystem.IsNumeric(member.TypeName) {
			allNumeric = false
		}
		if unified == "" {
			unified = member.TypeName
		} else if unified != member.TypeName {
			if allNumeric {
				unified = typesystem.PromoteNumeric(unified, member.TypeName)
				if unified == "" {
					return ""
				}
				continue
			}
			return ""
		}
	}
	return unified
}

// callableReturnOf extracts R from a Callable[[…], R] name.
func callableReturnOf(typeName string) string {
	callable, ok := typesystem.ParseName(typeName).(typesystem.TCallable)
	if !ok || callable.Return == nil {
		return ""
	}
	return callable.Return.Name()
}
