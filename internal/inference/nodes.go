package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
)

// TypeOfNode extends expression inference to declarations and
// statements: parameters, variable declarations, methods, signals,
// enums and enum values, inner classes, and return expressions. An
// explicit annotation always wins — inference never overrides it.
func (e *Engine) TypeOfNode(node gdast.Node) string {
	switch n := node.(type) {
	case nil:
		return ""
	case *gdast.ParameterDeclaration:
		if n.Type != nil {
			return n.Type.FullName()
		}
		if n.Default != nil {
			return e.InferType(n.Default)
		}
		return "Variant"
	case *gdast.VariableDeclaration:
		if n.Type != nil {
			return n.Type.FullName()
		}
		if n.Initializer != nil {
			return e.InferType(n.Initializer)
		}
		return "Variant"
	case *gdast.MethodDeclaration:
		if n.ReturnType != nil {
			return n.ReturnType.FullName()
		}
		if class := n.Class; class != nil {
			return e.methodReturnType(class, n)
		}
		return e.CollectReturnTypes(n)
	case *gdast.SignalDeclaration:
		return "Signal"
	case *gdast.EnumDeclaration:
		if n.Name == "" {
			return "int"
		}
		if class := e.scopes.CurrentClass(); class != nil && class.Name != "" {
			return class.Name + "." + n.Name
		}
		return n.Name
	case *gdast.EnumValue:
		return "int"
	case *gdast.ClassDeclaration:
		if n.Name != "" {
			return n.Name
		}
		return n.Extends
	case *gdast.ReturnStatement:
		if n.Value == nil {
			return "void"
		}
		return e.InferType(n.Value)
	case *gdast.ForStatement:
		if n.VarType != nil {
			return n.VarType.FullName()
		}
		return e.iterationElementType(n.Iterable)
	case gdast.Expression:
		return e.InferType(n)
	}
	return ""
}
