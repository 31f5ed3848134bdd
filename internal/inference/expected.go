package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// ExpectedType answers reverse inference for completion: what type
// does the context want at this position? Assignment right sides
// match their left, initializers match annotations, arguments match
// parameters by index, return expressions match the method's declared
// return, and array elements match the array's element type.
func (e *Engine) ExpectedType(position gdast.Node) string {
	if position == nil || e.file == nil {
		return ""
	}
	chain := ancestors(e.file, position)
	if chain == nil {
		return ""
	}
	current := position
	for i := len(chain) - 1; i >= 0; i-- {
		parent := chain[i]
		if typ := e.expectedFromParent(parent, current); typ != "" {
			return typ
		}
		switch parent.(type) {
		case *gdast.ParenExpression, *gdast.TernaryExpression:
			// Transparent wrappers: keep climbing.
			current = parent.(gdast.Expression)
			continue
		}
		return ""
	}
	return ""
}

func (e *Engine) expectedFromParent(parent, child gdast.Node) string {
	switch p := parent.(type) {
	case *gdast.AssignStatement:
		if p.Value == child {
			return e.InferType(p.Target)
		}
	case *gdast.VariableDeclaration:
		if p.Initializer == child && p.Type != nil {
			return p.Type.FullName()
		}
	case *gdast.ReturnStatement:
		if p.Value == child {
			if method := e.scopes.CurrentMethod(); method != nil && method.ReturnType != nil {
				return method.ReturnType.FullName()
			}
			if method := e.enclosingMethodOf(parent); method != nil && method.ReturnType != nil {
				return method.ReturnType.FullName()
			}
		}
	case *gdast.CallExpression:
		for i, arg := range p.Arguments {
			if arg == child {
				return e.expectedArgumentType(p, i)
			}
		}
	case *gdast.ArrayLiteral:
		for _, el := range p.Elements {
			if el == child {
				if expected := e.ExpectedType(p); expected != "" {
					return typesystem.ElementName(expected)
				}
				return ""
			}
		}
	}
	return ""
}

// expectedArgumentType resolves the declared type of the parameter a
// call argument lands in.
func (e *Engine) expectedArgumentType(call *gdast.CallExpression, index int) string {
	var member *providers.MemberInfo
	switch callee := call.Callee.(type) {
	case *gdast.Identifier:
		if fn := e.providers.GetGlobalFunction(callee.Name); fn != nil {
			member = fn
		} else if selfName := e.selfTypeName(); selfName != "" {
			member, _ = e.FindMemberWithInheritance(selfName, callee.Name)
		}
	case *gdast.MemberAccess:
		member, _ = e.FindMemberWithInheritance(e.InferType(callee.Target), callee.Member)
	}
	if member == nil || member.Kind != providers.KindMethod {
		return ""
	}
	if index < len(member.Parameters) {
		return member.Parameters[index].TypeName
	}
	if member.IsVarargs && len(member.Parameters) > 0 {
		return member.Parameters[len(member.Parameters)-1].TypeName
	}
	return ""
}

// enclosingMethodOf finds the method declaration containing a node by
// an ancestor scan.
func (e *Engine) enclosingMethodOf(node gdast.Node) *gdast.MethodDeclaration {
	chain := ancestors(e.file, node)
	for i := len(chain) - 1; i >= 0; i-- {
		if method, ok := chain[i].(*gdast.MethodDeclaration); ok {
			return method
		}
	}
	return nil
}
