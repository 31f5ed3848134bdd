// Package inference maps AST expressions and declarations to types.
// An Engine is built per query session over a consistent provider
// snapshot; it is single-goroutine by contract and keeps write-once
// caches plus recursion guards so any finite AST infers in finite
// time.
package inference

import (
	"github.com/google/uuid"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/symbols"
)

// MaxInferenceDepth bounds nested expression inference; exceeding it
// short-circuits to unknown.
const MaxInferenceDepth = 50

// Injector contributes types the static provider graph cannot know:
// node paths against the scene graph, resource loads, instantiation.
type Injector interface {
	// InjectCall answers preload/load/get_node-family calls; "" when
	// the call is not injectable.
	InjectCall(call *gdast.CallExpression, file *gdast.ScriptFile) string
	// InjectNodePath answers $Path and %Unique expressions. The
	// ambiguous flag is true when attached scenes disagree on the
	// type; callers must not substitute a fallback then.
	InjectNodePath(expr *gdast.NodePathExpression, file *gdast.ScriptFile) (typ string, ambiguous bool)
	// SignalParameterTypes resolves a signal's emission shape when the
	// provider graph has no answer.
	SignalParameterTypes(signal, emitterType string) []string
}

// NarrowingProvider supplies flow-narrowed types for a name at a
// specific use site (e.g. inside an `if x is T` branch).
type NarrowingProvider interface {
	NarrowedType(name string, at gdast.Node) string
}

// ContainerTypeProvider is an external usage-inference oracle for
// untyped containers.
type ContainerTypeProvider interface {
	ElementTypeFor(expr gdast.Expression) string
}

// CallSiteRegistry answers inter-procedural lambda parameter queries
// by lambda identity and parameter index.
type CallSiteRegistry interface {
	ParameterTypeAt(lambda *gdast.LambdaExpression, index int) string
}

// Engine is the per-session inference state.
type Engine struct {
	providers *providers.Composite
	scopes    *symbols.ScopeStack
	injector  Injector
	log       logging.Logger
	sessionID string

	file *gdast.ScriptFile

	// Write-once per node within the engine lifetime; cleared
	// atomically by ClearCache.
	typeCache map[gdast.Node]string
	nodeCache map[gdast.Node]*gdast.TypeReference

	// expressionsBeingInferred guards reentrant expression inference.
	expressionsBeingInferred map[gdast.Node]bool
	depth                    int

	// methodsBeingInferred guards reentrant return-type analysis by
	// "Class.method" key.
	methodsBeingInferred map[string]bool

	containerTypes NarrowableContainer
	narrowing      NarrowingProvider
	symbolFallback func(name string) string
	callSites      CallSiteRegistry
}

// NarrowableContainer aliases the container oracle hook type.
type NarrowableContainer = ContainerTypeProvider

// NewEngine builds an engine over a composite, a scope stack
// positioned at the node of interest, and an optional injector.
func NewEngine(composite *providers.Composite, scopes *symbols.ScopeStack, injector Injector, log logging.Logger) *Engine {
	if scopes == nil {
		scopes = symbols.NewScopeStack()
	}
	if log == nil {
		log = logging.Nop
	}
	return &Engine{
		providers:                composite,
		scopes:                   scopes,
		injector:                 injector,
		log:                      log,
		sessionID:                uuid.NewString(),
		typeCache:                map[gdast.Node]string{},
		nodeCache:                map[gdast.Node]*gdast.TypeReference{},
		expressionsBeingInferred: map[gdast.Node]bool{},
		methodsBeingInferred:     map[string]bool{},
	}
}

// SessionID identifies this engine instance in reports.
func (e *Engine) SessionID() string { return e.sessionID }

// Providers exposes the composite for collaborating layers.
func (e *Engine) Providers() *providers.Composite { return e.providers }

// Scopes exposes the scope stack.
func (e *Engine) Scopes() *symbols.ScopeStack { return e.scopes }

// SetSourceFile binds the script the queried nodes belong to; node
// path and preload injection need it.
func (e *Engine) SetSourceFile(file *gdast.ScriptFile) { e.file = file }

// SetContainerTypeProvider wires the untyped-container oracle.
func (e *Engine) SetContainerTypeProvider(p ContainerTypeProvider) { e.containerTypes = p }

// SetNarrowingTypeProvider wires the flow-narrowing map.
func (e *Engine) SetNarrowingTypeProvider(p NarrowingProvider) { e.narrowing = p }

// SetSymbolLookupFallback wires a last-resort identifier resolver.
func (e *Engine) SetSymbolLookupFallback(fn func(name string) string) { e.symbolFallback = fn }

// SetCallSiteRegistry wires the inter-procedural lambda oracle.
func (e *Engine) SetCallSiteRegistry(r CallSiteRegistry) { e.callSites = r }

// ClearCache drops both caches atomically. Guards are per-call and
// stay untouched.
func (e *Engine) ClearCache() {
	e.typeCache = map[gdast.Node]string{}
	e.nodeCache = map[gdast.Node]*gdast.TypeReference{}
}

// InferType returns the full type name of an expression, "" when
// unknown. Names may carry shapes the annotation grammar cannot state
// (unions, callable signatures).
func (e *Engine) InferType(expr gdast.Expression) string {
	if expr == nil {
		return ""
	}
	if cached, ok := e.typeCache[expr]; ok {
		return cached
	}
	if e.expressionsBeingInferred[expr] || e.depth >= MaxInferenceDepth {
		return ""
	}
	e.expressionsBeingInferred[expr] = true
	e.depth++
	name := e.inferExpression(expr)
	e.depth--
	delete(e.expressionsBeingInferred, expr)
	e.typeCache[expr] = name
	return name
}

// InferTypeNode returns the AST-shaped type of an expression. Union
// results return nil: the annotation grammar cannot express them.
func (e *Engine) InferTypeNode(expr gdast.Expression) *gdast.TypeReference {
	if expr == nil {
		return nil
	}
	if cached, ok := e.nodeCache[expr]; ok {
		return cached
	}
	ref := nameToTypeRef(e.InferType(expr))
	e.nodeCache[expr] = ref
	return ref
}

// inferExpression dispatches on the expression kind.
func (e *Engine) inferExpression(expr gdast.Expression) string {
	switch n := expr.(type) {
	case *gdast.NumberLiteral, *gdast.StringLiteral, *gdast.BoolLiteral,
		*gdast.NullLiteral, *gdast.ArrayLiteral, *gdast.DictionaryLiteral:
		return e.inferLiteral(expr)
	case *gdast.Identifier:
		return e.inferIdentifier(n)
	case *gdast.SelfExpression:
		return e.selfTypeName()
	case *gdast.MemberAccess:
		return e.inferMemberAccess(n)
	case *gdast.CallExpression:
		return e.inferCall(n)
	case *gdast.IndexExpression:
		return e.inferIndex(n)
	case *gdast.BinaryExpression:
		return e.inferBinary(n)
	case *gdast.UnaryExpression:
		return e.inferUnary(n)
	case *gdast.TernaryExpression:
		return e.inferTernary(n)
	case *gdast.ParenExpression:
		return e.InferType(n.Inner)
	case *gdast.CastExpression:
		return n.Type.FullName()
	case *gdast.AwaitExpression:
		return e.inferAwait(n)
	case *gdast.LambdaExpression:
		return e.InferLambdaSemanticType(n)
	case *gdast.NodePathExpression:
		return e.inferNodePath(n)
	case *gdast.TypeReference:
		return n.FullName()
	}
	return ""
}

// selfTypeName resolves the enclosing class: its name when declared,
// else its base type.
func (e *Engine) selfTypeName() string {
	class := e.scopes.CurrentClass()
	if class == nil {
		return ""
	}
	if class.Name != "" {
		return class.Name
	}
	return class.Extends
}

// superTypeName resolves the enclosing class's base.
func (e *Engine) superTypeName() string {
	class := e.scopes.CurrentClass()
	if class == nil {
		return ""
	}
	if class.Extends != "" {
		return class.Extends
	}
	if class.Name != "" {
		return e.providers.GetBaseType(class.Name)
	}
	return ""
}

func (e *Engine) inferNodePath(n *gdast.NodePathExpression) string {
	if e.injector != nil {
		typ, ambiguous := e.injector.InjectNodePath(n, e.file)
		if typ != "" {
			return typ
		}
		if ambiguous {
			return ""
		}
	}
	// The scene graph could not answer; a node path still yields a
	// node.
	return "Node"
}
