package symbols

import "github.com/elamaunt/gdshrapt-go/internal/gdast"

// BuildForNode walks the script and returns a scope stack positioned
// at the given node: class members of every enclosing class, then the
// enclosing method's parameters and the locals declared before the
// node. A nil target yields the file's class scope.
func BuildForNode(file *gdast.ScriptFile, target gdast.Node) *ScopeStack {
	ss := NewScopeStack()
	if file == nil || file.Class == nil {
		return ss
	}
	buildClass(ss, file.Class, target)
	return ss
}

func buildClass(ss *ScopeStack, class *gdast.ClassDeclaration, target gdast.Node) {
	ss.Push(ScopeClass, class)
	declareClassMembers(ss, class)

	if target == nil {
		return
	}
	// Descend into whichever member contains the target.
	for _, member := range class.Members {
		if !contains(member, target) {
			continue
		}
		switch m := member.(type) {
		case *gdast.ClassDeclaration:
			buildClass(ss, m, target)
		case *gdast.MethodDeclaration:
			buildMethod(ss, m, target)
		}
		return
	}
}

func declareClassMembers(ss *ScopeStack, class *gdast.ClassDeclaration) {
	for _, member := range class.Members {
		switch m := member.(type) {
		case *gdast.VariableDeclaration:
			kind := SymbolVariable
			if m.IsConst {
				kind = SymbolConstant
			}
			ss.TryDeclare(&Symbol{
				Name:     m.Name,
				Kind:     kind,
				Decl:     m,
				TypeName: m.Type.FullName(),
				TypeNode: m.Type,
				IsStatic: m.IsStatic,
			})
		case *gdast.MethodDeclaration:
			ss.TryDeclare(&Symbol{
				Name:     m.Name,
				Kind:     SymbolMethod,
				Decl:     m,
				TypeName: m.ReturnType.FullName(),
				TypeNode: m.ReturnType,
				IsStatic: m.IsStatic,
			})
		case *gdast.SignalDeclaration:
			ss.TryDeclare(&Symbol{Name: m.Name, Kind: SymbolSignal, Decl: m, TypeName: "Signal"})
		case *gdast.EnumDeclaration:
			if m.Name != "" {
				ss.TryDeclare(&Symbol{Name: m.Name, Kind: SymbolEnum, Decl: m, TypeName: "int"})
			} else {
				// Anonymous enums spill their values into the class.
				for _, v := range m.Values {
					ss.TryDeclare(&Symbol{Name: v.Name, Kind: SymbolConstant, Decl: v, TypeName: "int"})
				}
			}
		case *gdast.ClassDeclaration:
			if m.Name != "" {
				ss.TryDeclare(&Symbol{Name: m.Name, Kind: SymbolClass, Decl: m, TypeName: m.Name})
			}
		}
	}
}

func buildMethod(ss *ScopeStack, method *gdast.MethodDeclaration, target gdast.Node) {
	ss.Push(ScopeMethod, method)
	for _, p := range method.Parameters {
		ss.TryDeclare(&Symbol{
			Name:     p.Name,
			Kind:     SymbolParameter,
			Decl:     p,
			TypeName: p.Type.FullName(),
			TypeNode: p.Type,
		})
	}
	if method.Body != nil {
		buildBlock(ss, method.Body, target)
	}
}

// buildBlock declares locals lexically preceding the target, opening
// block scopes on the way down.
func buildBlock(ss *ScopeStack, block *gdast.BlockStatement, target gdast.Node) {
	for _, stmt := range block.Statements {
		if vd, ok := stmt.(*gdast.VariableDeclaration); ok {
			kind := SymbolVariable
			if vd.IsConst {
				kind = SymbolConstant
			}
			ss.TryDeclare(&Symbol{
				Name:     vd.Name,
				Kind:     kind,
				Decl:     vd,
				TypeName: vd.Type.FullName(),
				TypeNode: vd.Type,
			})
		}
		if !contains(stmt, target) {
			continue
		}
		switch s := stmt.(type) {
		case *gdast.IfStatement:
			for _, b := range s.Branches {
				if contains(b.Body, target) {
					ss.Push(ScopeBlock, nil)
					buildBlock(ss, b.Body, target)
					return
				}
			}
			if s.Else != nil && contains(s.Else, target) {
				ss.Push(ScopeBlock, nil)
				buildBlock(ss, s.Else, target)
			}
			return
		case *gdast.ForStatement:
			ss.Push(ScopeBlock, nil)
			ss.TryDeclare(&Symbol{
				Name:     s.Variable,
				Kind:     SymbolVariable,
				Decl:     s,
				TypeName: s.VarType.FullName(),
				TypeNode: s.VarType,
			})
			if s.Body != nil && contains(s.Body, target) {
				buildBlock(ss, s.Body, target)
			}
			return
		case *gdast.WhileStatement:
			if s.Body != nil && contains(s.Body, target) {
				ss.Push(ScopeBlock, nil)
				buildBlock(ss, s.Body, target)
			}
			return
		case *gdast.MatchStatement:
			for _, c := range s.Cases {
				if c.Body != nil && contains(c.Body, target) {
					ss.Push(ScopeBlock, nil)
					for _, name := range c.Bindings {
						ss.TryDeclare(&Symbol{Name: name, Kind: SymbolVariable, Decl: s})
					}
					buildBlock(ss, c.Body, target)
					return
				}
			}
			return
		default:
			// The target sits in this statement itself; declarations
			// after it stay out of scope.
			return
		}
	}
}

// contains reports whether target appears in the subtree rooted at
// node. Identity comparison only: AST nodes are shared, not cloned.
func contains(node gdast.Node, target gdast.Node) bool {
	if node == nil || target == nil {
		return false
	}
	found := false
	gdast.Walk(node, func(n gdast.Node) bool {
		if n == target {
			found = true
		}
		return !found
	})
	return found
}
