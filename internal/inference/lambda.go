package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/symbols"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// InferLambdaSemanticType synthesizes the fully-shaped callable name
// for a lambda: Callable[[P1, …, Pn], R]. Parameter types come from
// annotations, default values, call-site observations and duck-typed
// body usage, in that order of preference; the return type from the
// annotation or body analysis. A lambda with no typed parameters and
// void return stays the plain Callable.
func (e *Engine) InferLambdaSemanticType(lambda *gdast.LambdaExpression) string {
	// Parameter types resolve first so the body analysis sees them:
	// a call-site-typed parameter flows into the return inference.
	paramNames := make([]string, len(lambda.Parameters))
	for i, p := range lambda.Parameters {
		paramNames[i] = e.lambdaParameterType(lambda, p, i)
	}

	scope := e.scopes.Push(symbols.ScopeMethod, nil)
	for i, p := range lambda.Parameters {
		scope.TryDeclare(&symbols.Symbol{
			Name:     p.Name,
			Kind:     symbols.SymbolParameter,
			Decl:     p,
			TypeName: paramNames[i],
			TypeNode: p.Type,
		})
	}
	defer e.scopes.Pop()

	params := make([]typesystem.Type, 0, len(lambda.Parameters))
	anyTyped := false
	for _, name := range paramNames {
		if !typesystem.IsVariantName(name) {
			anyTyped = true
		}
		params = append(params, typesystem.Concrete(name))
	}

	ret := e.lambdaReturnType(lambda)
	if !anyTyped && (ret == "" || ret == "void") {
		return "Callable"
	}
	var retType typesystem.Type
	if ret != "" && ret != "void" {
		retType = typesystem.Concrete(ret)
	}
	return typesystem.TCallable{Params: params, Return: retType}.Name()
}

// lambdaParameterType resolves one parameter: declared type, default
// value, then the merge of call-site evidence and duck-typed body
// usage — the more specific non-Variant name wins, call-site value
// takes ties.
func (e *Engine) lambdaParameterType(lambda *gdast.LambdaExpression, p *gdast.ParameterDeclaration, index int) string {
	if p.Type != nil {
		return p.Type.FullName()
	}
	if p.Default != nil {
		if typ := e.InferType(p.Default); !typesystem.IsVariantName(typ) {
			return typ
		}
	}
	var fromCallSites string
	if e.callSites != nil {
		fromCallSites = e.callSites.ParameterTypeAt(lambda, index)
	}
	fromUsage := e.duckTypedParameterUsage(lambda, p.Name)
	return mergeParameterEvidence(fromCallSites, fromUsage)
}

// mergeParameterEvidence picks the more specific of two observations.
func mergeParameterEvidence(callSite, usage string) string {
	callSiteKnown := !typesystem.IsVariantName(callSite)
	usageKnown := !typesystem.IsVariantName(usage)
	switch {
	case callSiteKnown:
		// Call-site evidence wins ties and conflicts: it reflects a
		// value actually passed.
		return callSite
	case usageKnown:
		return usage
	}
	return ""
}

// duckTypedParameterUsage analyzes how a parameter is used inside the
// lambda body: methods called on it, arithmetic, indexing.
func (e *Engine) duckTypedParameterUsage(lambda *gdast.LambdaExpression, param string) string {
	var body gdast.Node
	if lambda.Body != nil {
		body = lambda.Body
	} else if lambda.ExprBody != nil {
		body = lambda.ExprBody
	} else {
		return ""
	}

	var inferred string
	observe := func(typ string) {
		if typ == "" || typesystem.IsVariantName(typ) {
			return
		}
		if inferred == "" {
			inferred = typ
		} else if inferred != typ {
			if promoted := typesystem.PromoteNumeric(inferred, typ); promoted != "" {
				inferred = promoted
			}
		}
	}

	gdast.Walk(body, func(n gdast.Node) bool {
		switch expr := n.(type) {
		case *gdast.CallExpression:
			access, ok := expr.Callee.(*gdast.MemberAccess)
			if !ok {
				return true
			}
			if ident, ok := access.Target.(*gdast.Identifier); ok && ident.Name == param {
				observe(e.soleOwnerOfMethod(access.Member))
			}
		case *gdast.BinaryExpression:
			other, ok := binaryPartner(expr, param)
			if !ok {
				return true
			}
			switch expr.Op {
			case gdast.OpAdd, gdast.OpSub, gdast.OpMul, gdast.OpDiv, gdast.OpMod, gdast.OpPow,
				gdast.OpLess, gdast.OpLessEq, gdast.OpGreater, gdast.OpGreaterEq:
				observe(e.InferType(other))
			}
		case *gdast.IndexExpression:
			if ident, ok := expr.Target.(*gdast.Identifier); ok && ident.Name == param {
				observe("Array")
			}
		}
		return true
	})
	return inferred
}

// binaryPartner returns the non-parameter operand of a binary
// expression mentioning the parameter.
func binaryPartner(bin *gdast.BinaryExpression, param string) (gdast.Expression, bool) {
	if ident, ok := bin.Left.(*gdast.Identifier); ok && ident.Name == param {
		return bin.Right, true
	}
	if ident, ok := bin.Right.(*gdast.Identifier); ok && ident.Name == param {
		return bin.Left, true
	}
	return nil, false
}

// soleOwnerOfMethod answers duck typing for parameter usage: when
// exactly one known type declares the method, that type is the
// evidence; when several agree on a common receiver, nothing is
// concluded.
func (e *Engine) soleOwnerOfMethod(method string) string {
	owners := e.providers.FindTypesWithMethod(method)
	if len(owners) == 1 {
		return owners[0]
	}
	return ""
}

// lambdaReturnType resolves the lambda's return: the annotation, the
// expression body's type, or the unification of its return
// statements. No returns means void.
func (e *Engine) lambdaReturnType(lambda *gdast.LambdaExpression) string {
	if lambda.ReturnType != nil {
		return lambda.ReturnType.FullName()
	}
	if lambda.ExprBody != nil {
		typ := e.InferType(lambda.ExprBody)
		if typ == "" {
			return "void"
		}
		return typ
	}
	if lambda.Body == nil {
		return "void"
	}
	names := e.collectReturnNames(lambda.Body)
	if len(names) == 0 {
		return "void"
	}
	return typesystem.CommonName(names)
}
