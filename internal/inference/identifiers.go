package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/symbols"
)

// inferIdentifier resolves a bare name. Resolution order: keyword
// constants, flow narrowing, lexical scope, enclosing class members
// (implicit self through the base chain), type names used as values,
// global classes, the configured fallback, and finally a raw AST scan
// for a preceding local declaration.
func (e *Engine) inferIdentifier(ident *gdast.Identifier) string {
	switch ident.Name {
	case "true", "false":
		return "bool"
	case "null":
		return "null"
	case "PI", "TAU", "INF", "NAN":
		return "float"
	case "self":
		return e.selfTypeName()
	case "super":
		return e.superTypeName()
	}

	if e.narrowing != nil {
		if narrowed := e.narrowing.NarrowedType(ident.Name, ident); narrowed != "" {
			return narrowed
		}
	}

	if sym := e.scopes.Lookup(ident.Name); sym != nil {
		if typ := e.typeOfSymbol(sym); typ != "" {
			return typ
		}
	}

	if typ := e.classMemberType(ident.Name); typ != "" {
		return typ
	}

	// A known type name used as a value (constructor reference,
	// reflective use) evaluates to the type itself.
	if e.providers.IsKnownType(ident.Name) {
		if info := e.providers.GetTypeInfo(ident.Name); info != nil {
			return info.Name
		}
		return ident.Name
	}

	if info := e.providers.GetGlobalClass(ident.Name); info != nil {
		return info.Name
	}

	if e.symbolFallback != nil {
		if typ := e.symbolFallback(ident.Name); typ != "" {
			return typ
		}
	}

	return e.localDeclFallback(ident)
}

// typeOfSymbol prefers the parsed annotation, then the stored name,
// then infers from the declaration site.
func (e *Engine) typeOfSymbol(sym *symbols.Symbol) string {
	if sym.Kind == symbols.SymbolMethod {
		// A method named without a call is a bound Callable; its
		// stored type is the return type, not the value type.
		return "Callable"
	}
	if sym.TypeNode != nil {
		return sym.TypeNode.FullName()
	}
	if sym.TypeName != "" {
		return sym.TypeName
	}
	switch decl := sym.Decl.(type) {
	case *gdast.VariableDeclaration:
		if decl.Initializer != nil {
			return e.InferType(decl.Initializer)
		}
	case *gdast.ParameterDeclaration:
		if decl.Default != nil {
			return e.InferType(decl.Default)
		}
	case *gdast.MethodDeclaration:
		// A method referenced without a call is a bound Callable.
		return "Callable"
	case *gdast.ForStatement:
		if decl.Iterable != nil {
			return e.iterationElementType(decl.Iterable)
		}
	case *gdast.SignalDeclaration:
		return "Signal"
	case *gdast.EnumDeclaration:
		return "int"
	case *gdast.ClassDeclaration:
		return decl.Name
	}
	return ""
}

// classMemberType scans the enclosing class and its base chain for a
// member with the given name — the implicit-self path.
func (e *Engine) classMemberType(name string) string {
	class := e.scopes.CurrentClass()
	if class == nil {
		return ""
	}
	selfName := class.Name
	if selfName == "" {
		selfName = class.Extends
	}
	if selfName == "" {
		return ""
	}
	member, _ := e.FindMemberWithInheritance(selfName, name)
	if member == nil {
		return ""
	}
	return e.memberValueType(member, selfName)
}

// iterationElementType types a for-loop variable from its iterable.
func (e *Engine) iterationElementType(iterable gdast.Expression) string {
	return iterationElementOf(e.InferType(iterable))
}

// localDeclFallback walks upward from the identifier to the nearest
// enclosing suite and types a preceding `var name = init`. This is the
// last resort when no scope stack covers the node.
func (e *Engine) localDeclFallback(ident *gdast.Identifier) string {
	root := gdast.Node(e.file)
	if e.file == nil {
		root = ident.Parent
	}
	if root == nil {
		return ""
	}
	chain := ancestors(root, ident)
	for i := len(chain) - 1; i >= 0; i-- {
		block, ok := chain[i].(*gdast.BlockStatement)
		if !ok {
			continue
		}
		for _, stmt := range block.Statements {
			vd, ok := stmt.(*gdast.VariableDeclaration)
			if !ok || vd.Name != ident.Name {
				continue
			}
			if vd.Type != nil {
				return vd.Type.FullName()
			}
			if vd.Initializer != nil {
				return e.InferType(vd.Initializer)
			}
		}
	}
	return ""
}

// ancestors returns the path of nodes from root down to target,
// excluding target itself. Nil when target is unreachable.
func ancestors(root, target gdast.Node) []gdast.Node {
	var path []gdast.Node
	var dfs func(n gdast.Node) bool
	dfs = func(n gdast.Node) bool {
		if n == target {
			return true
		}
		children := directChildren(n)
		path = append(path, n)
		for _, c := range children {
			if dfs(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if dfs(root) {
		return path
	}
	return nil
}

// directChildren lists a node's immediate children via a depth-one
// walk.
func directChildren(n gdast.Node) []gdast.Node {
	var out []gdast.Node
	gdast.Walk(n, func(c gdast.Node) bool {
		if c == n {
			return true
		}
		out = append(out, c)
		return false
	})
	return out
}
