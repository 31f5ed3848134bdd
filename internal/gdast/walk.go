package gdast

// Walk visits node and its children in preorder. The visit function
// returns false to skip the node's children. Nil children are skipped
// so partially-built trees walk safely.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *ScriptFile:
		walkIf(n.Class, visit)
	case *ClassDeclaration:
		for _, m := range n.Members {
			walkIf(m, visit)
		}
	case *MethodDeclaration:
		for _, p := range n.Parameters {
			walkIf(p, visit)
		}
		walkIf(n.Body, visit)
	case *ParameterDeclaration:
		walkExpr(n.Default, visit)
	case *VariableDeclaration:
		walkExpr(n.Initializer, visit)
	case *SignalDeclaration:
		for _, p := range n.Parameters {
			walkIf(p, visit)
		}
	case *EnumDeclaration:
		for _, v := range n.Values {
			walkIf(v, visit)
			if v != nil {
				walkExpr(v.Value, visit)
			}
		}
	case *BlockStatement:
		for _, s := range n.Statements {
			walkIf(s, visit)
		}
	case *ExpressionStatement:
		walkExpr(n.Expression, visit)
	case *ReturnStatement:
		walkExpr(n.Value, visit)
	case *IfStatement:
		for _, b := range n.Branches {
			walkExpr(b.Condition, visit)
			walkIf(b.Body, visit)
		}
		walkIf(n.Else, visit)
	case *ForStatement:
		walkExpr(n.Iterable, visit)
		walkIf(n.Body, visit)
	case *WhileStatement:
		walkExpr(n.Condition, visit)
		walkIf(n.Body, visit)
	case *MatchStatement:
		walkExpr(n.Subject, visit)
		for _, c := range n.Cases {
			walkExpr(c.Pattern, visit)
			walkExpr(c.Guard, visit)
			walkIf(c.Body, visit)
		}
	case *AssignStatement:
		walkExpr(n.Target, visit)
		walkExpr(n.Value, visit)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			walkExpr(e, visit)
		}
	case *DictionaryLiteral:
		for _, p := range n.Pairs {
			walkExpr(p.Key, visit)
			walkExpr(p.Value, visit)
		}
	case *MemberAccess:
		walkExpr(n.Target, visit)
	case *CallExpression:
		walkExpr(n.Callee, visit)
		for _, a := range n.Arguments {
			walkExpr(a, visit)
		}
	case *IndexExpression:
		walkExpr(n.Target, visit)
		walkExpr(n.Index, visit)
	case *BinaryExpression:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *UnaryExpression:
		walkExpr(n.Operand, visit)
	case *TernaryExpression:
		walkExpr(n.Condition, visit)
		walkExpr(n.Then, visit)
		walkExpr(n.Otherwise, visit)
	case *ParenExpression:
		walkExpr(n.Inner, visit)
	case *CastExpression:
		walkExpr(n.Value, visit)
	case *AwaitExpression:
		walkExpr(n.Operand, visit)
	case *LambdaExpression:
		for _, p := range n.Parameters {
			walkIf(p, visit)
		}
		walkIf(n.Body, visit)
		walkExpr(n.ExprBody, visit)
	}
}

func walkIf(n Node, visit func(Node) bool) {
	// Typed nils arrive here as non-nil interfaces; Walk's switch
	// dereferences them, so filter the common cases explicitly.
	switch v := n.(type) {
	case *ClassDeclaration:
		if v == nil {
			return
		}
	case *BlockStatement:
		if v == nil {
			return
		}
	case nil:
		return
	}
	Walk(n, visit)
}

func walkExpr(e Expression, visit func(Node) bool) {
	if e == nil {
		return
	}
	Walk(e, visit)
}
