package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/project"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/symbols"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// CollectReturnTypes analyzes a method body and unifies the types of
// every return statement: one type wins outright, null drops against
// a non-null partner, the rest renders as an or-of-types display
// string. A body with no returns is void.
func (e *Engine) CollectReturnTypes(method *gdast.MethodDeclaration) string {
	if method == nil || method.Body == nil {
		return ""
	}
	file := e.file
	if method.Class != nil && method.Class.File != nil {
		file = method.Class.File
	}

	var names []string
	for _, ret := range collectReturnStatements(method.Body) {
		if ret.stmt.Value == nil {
			names = append(names, "void")
			continue
		}
		sub := NewEngine(e.providers, symbols.BuildForNode(file, ret.stmt), e.injector, e.log)
		sub.file = file
		sub.methodsBeingInferred = e.methodsBeingInferred
		sub.callSites = e.callSites
		sub.containerTypes = e.containerTypes
		if len(ret.narrowed) > 0 {
			sub.narrowing = &mapNarrowing{types: ret.narrowed, next: e.narrowing}
		} else {
			sub.narrowing = e.narrowing
		}
		names = append(names, sub.InferType(ret.stmt.Value))
	}
	if len(names) == 0 {
		return "void"
	}
	return typesystem.CommonName(names)
}

// collectReturnNames gathers return types inside an already-scoped
// body (lambda bodies), using this engine's scope stack as-is.
func (e *Engine) collectReturnNames(body gdast.Node) []string {
	var names []string
	for _, ret := range collectReturnStatements(body) {
		if ret.stmt.Value == nil {
			names = append(names, "void")
			continue
		}
		prev := e.narrowing
		if len(ret.narrowed) > 0 {
			e.narrowing = &mapNarrowing{types: ret.narrowed, next: prev}
		}
		names = append(names, e.InferType(ret.stmt.Value))
		e.narrowing = prev
	}
	return names
}

type foundReturn struct {
	stmt *gdast.ReturnStatement
	// narrowed carries match-pattern bindings refined by `is T`
	// guards along the path to the return.
	narrowed map[string]string
}

// collectReturnStatements walks a body for return statements without
// descending into nested lambdas, tracking match-case guard
// narrowings on the way down.
func collectReturnStatements(body gdast.Node) []foundReturn {
	var out []foundReturn
	var walk func(n gdast.Node, narrowed map[string]string)
	walk = func(n gdast.Node, narrowed map[string]string) {
		switch node := n.(type) {
		case nil:
			return
		case *gdast.ReturnStatement:
			out = append(out, foundReturn{stmt: node, narrowed: narrowed})
			return
		case *gdast.LambdaExpression:
			// A nested lambda's returns belong to the lambda.
			return
		case *gdast.MatchStatement:
			for _, c := range node.Cases {
				caseNarrowed := narrowed
				if extra := guardNarrowings(c); len(extra) > 0 {
					caseNarrowed = map[string]string{}
					for k, v := range narrowed {
						caseNarrowed[k] = v
					}
					for k, v := range extra {
						caseNarrowed[k] = v
					}
				}
				if c.Body != nil {
					walk(c.Body, caseNarrowed)
				}
			}
			return
		}
		for _, child := range directChildren(n) {
			walk(child, narrowed)
		}
	}
	walk(body, nil)
	return out
}

// guardNarrowings extracts `name is Type` facts from a match-case
// guard, narrowing pattern-bound names inside that arm.
func guardNarrowings(c *gdast.MatchCase) map[string]string {
	bin, ok := c.Guard.(*gdast.BinaryExpression)
	if !ok || bin.Op != gdast.OpIs {
		return nil
	}
	ident, ok := bin.Left.(*gdast.Identifier)
	if !ok {
		return nil
	}
	var typeName string
	switch rhs := bin.Right.(type) {
	case *gdast.TypeReference:
		typeName = rhs.FullName()
	case *gdast.Identifier:
		typeName = rhs.Name
	}
	if typeName == "" {
		return nil
	}
	return map[string]string{ident.Name: typeName}
}

// mapNarrowing layers a fixed name→type map over another narrowing
// provider.
type mapNarrowing struct {
	types map[string]string
	next  NarrowingProvider
}

func (m *mapNarrowing) NarrowedType(name string, at gdast.Node) string {
	if typ, ok := m.types[name]; ok {
		return typ
	}
	if m.next != nil {
		return m.next.NarrowedType(name, at)
	}
	return ""
}

// NewReturnInferrer wires the engine's body analysis into the project
// provider's lazy return-type path. Each invocation runs on a fresh
// engine over the same provider snapshot.
func NewReturnInferrer(composite *providers.Composite, injector Injector, log logging.Logger) project.ReturnInferrer {
	return func(owner *project.ProjectTypeInfo, method *project.MethodInfo) string {
		if method.Decl == nil {
			return ""
		}
		engine := NewEngine(composite, symbols.BuildForNode(owner.File, method.Decl), injector, log)
		engine.SetSourceFile(owner.File)
		return engine.CollectReturnTypes(method.Decl)
	}
}

// NewInitializerInferrer wires property initializer typing: literal
// forms, container kinds and constructor calls all flow through the
// expression engine.
func NewInitializerInferrer(composite *providers.Composite, injector Injector, log logging.Logger) project.InitializerInferrer {
	return func(owner *project.ProjectTypeInfo, init gdast.Expression) string {
		engine := NewEngine(composite, symbols.BuildForNode(owner.File, init), injector, log)
		engine.SetSourceFile(owner.File)
		return engine.InferType(init)
	}
}
