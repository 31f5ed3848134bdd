// Package providers defines the federated type-information sources the
// inference engine queries. Each provider owns a slice of the type
// universe (host engine classes, project scripts, autoload singletons,
// scene nodes) and answers empty for everything else; the Composite
// stitches them together in a fixed order.
package providers

import "github.com/elamaunt/gdshrapt-go/internal/gdast"

// TypeProvider is the capability set every source implements.
type TypeProvider interface {
	// IsKnownType reports whether the provider owns a type by name.
	IsKnownType(name string) bool
	// GetTypeInfo returns the descriptor for an owned type, or nil.
	GetTypeInfo(name string) *TypeInfo
	// GetMember returns a directly-declared member, or nil. Walking
	// the inheritance chain is the caller's job.
	GetMember(typeName, member string) *MemberInfo
	// GetBaseType returns the base type name, or "" when unknown or
	// at the root.
	GetBaseType(name string) string
	// IsAssignableTo applies the provider's own conversion rules.
	IsAssignableTo(source, target string) bool
	// GetGlobalFunction returns a global/builtin function, or nil.
	GetGlobalFunction(name string) *MemberInfo
	// GetGlobalClass returns a globally-registered class, or nil.
	GetGlobalClass(name string) *TypeInfo
	// IsBuiltIn reports whether the name is an engine builtin.
	IsBuiltIn(name string) bool
	// GetAllTypes lists every type the provider owns.
	GetAllTypes() []string
	// FindTypesWithMethod lists owned types that directly declare the
	// method, for duck-typed fallback.
	FindTypesWithMethod(method string) []string
	// IsBuiltinValueType reports value semantics (int, Vector2, …).
	IsBuiltinValueType(name string) bool
}

// MemberKind tags the variant of a MemberInfo.
type MemberKind int

const (
	KindMethod MemberKind = iota
	KindProperty
	KindConstant
	KindSignal
)

// ReturnTypeRole redirects return-type computation away from the
// declared return: toward the caller's container parameters, toward an
// argument, or toward the caller itself.
type ReturnTypeRole int

const (
	RoleNone ReturnTypeRole = iota
	// RoleElement returns the element type of the caller container.
	RoleElement
	// RoleKey returns the key type of the caller dictionary.
	RoleKey
	// RoleValue returns the value type of the caller dictionary.
	RoleValue
	// RoleSelf returns the caller's own type.
	RoleSelf
	// RoleKeysArray returns Array[K] of the caller dictionary.
	RoleKeysArray
	// RoleValuesArray returns Array[V] of the caller dictionary.
	RoleValuesArray
	// RoleCallableReturnArray returns an array of the first callable
	// argument's return type (map-like methods).
	RoleCallableReturnArray
	// RoleFirstArg returns the type of argument 0.
	RoleFirstArg
	// RoleCommonArg returns the promoted common type of all arguments.
	RoleCommonArg
	// RoleCommonTwo returns the promoted common type of the first two
	// arguments.
	RoleCommonTwo
)

// ParameterInfo describes one formal parameter. Callable metadata
// shapes higher-order parameters like filter's predicate.
type ParameterInfo struct {
	Name               string
	TypeName           string
	HasDefault         bool
	IsParams           bool
	CallableReceives   []string
	CallableReturns    string
	CallableParamCount int
}

// MemberInfo is the tagged member variant. For methods, TypeName holds
// the return type; for properties and constants, the value type; for
// signals SignalParamTypes carries the emission shape and TypeName is
// empty, except from the project provider's GetMember, which sets it
// to "Signal".
//
// The argument-count discipline is uniform: MinArgs counts parameters
// without defaults, MaxArgs counts all parameters, and varargs force
// MaxArgs to -1.
type MemberInfo struct {
	Kind             MemberKind
	Name             string
	TypeName         string
	MinArgs          int
	MaxArgs          int
	IsVarargs        bool
	IsStatic         bool
	IsAbstract       bool
	Parameters       []ParameterInfo
	ReturnRole       ReturnTypeRole
	SignalParamTypes []string
	// Decl points back at the declaring AST node when the member comes
	// from project sources; nil for host/builtin members.
	Decl gdast.Node
}

// Method builds a method MemberInfo applying the MinArgs discipline.
func Method(name, returnType string, params ...ParameterInfo) MemberInfo {
	min := 0
	for _, p := range params {
		if !p.HasDefault && !p.IsParams {
			min++
		}
	}
	max := len(params)
	varargs := false
	for _, p := range params {
		if p.IsParams {
			varargs = true
			max = -1
		}
	}
	return MemberInfo{
		Kind:       KindMethod,
		Name:       name,
		TypeName:   returnType,
		MinArgs:    min,
		MaxArgs:    max,
		IsVarargs:  varargs,
		Parameters: params,
	}
}

// Property builds a property MemberInfo.
func Property(name, typeName string) MemberInfo {
	return MemberInfo{Kind: KindProperty, Name: name, TypeName: typeName}
}

// Constant builds a constant MemberInfo.
func Constant(name, typeName string) MemberInfo {
	return MemberInfo{Kind: KindConstant, Name: name, TypeName: typeName}
}

// Signal builds a signal MemberInfo.
func Signal(name string, paramTypes ...string) MemberInfo {
	return MemberInfo{Kind: KindSignal, Name: name, SignalParamTypes: paramTypes}
}

// TypeInfo describes one type. Member order depends on the provider
// and is not guaranteed (host members come from map iteration); Name
// is unique within the owning provider only.
type TypeInfo struct {
	Name           string
	BaseType       string
	IsBuiltinValue bool
	IsSingleton    bool
	IsAbstract     bool
	Members        []MemberInfo
}

// FindMember returns the first directly-declared member with the given
// name, or nil.
func (t *TypeInfo) FindMember(name string) *MemberInfo {
	if t == nil {
		return nil
	}
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i]
		}
	}
	return nil
}
