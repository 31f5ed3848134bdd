// Package hostdb serves type information for the host engine's class
// hierarchy from a pre-built descriptor. The descriptor is loaded once
// at construction (JSON or SQLite form) and queried read-only after
// that, so no locking is needed on the hot path.
package hostdb

import (
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// MethodData is one overload of a host method.
type MethodData struct {
	Name       string
	ReturnType string
	IsStatic   bool
	IsVararg   bool
	Params     []providers.ParameterInfo
	ReturnRole providers.ReturnTypeRole
}

// TypeData is the in-memory view of one host class.
type TypeData struct {
	Name           string
	Base           string
	IsBuiltinValue bool
	IsSingleton    bool
	IsAbstract     bool
	// Methods keeps every overload; member queries surface a merged
	// view, global-function style.
	Methods    map[string][]MethodData
	Properties map[string]string // name → type
	Signals    map[string][]string
	Constants  map[string]string // name → type
	Enums      map[string][]string
}

// Provider answers type queries for the host engine classes.
type Provider struct {
	version string
	types   map[string]*TypeData
	globals map[string]*providers.MemberInfo
}

// New builds an empty provider; use LoadJSON or LoadSQLite instead
// unless assembling a descriptor programmatically.
func New() *Provider {
	p := &Provider{
		types:   map[string]*TypeData{},
		globals: map[string]*providers.MemberInfo{},
	}
	p.installSpecialGlobals()
	return p
}

// Version reports the descriptor version string.
func (p *Provider) Version() string { return p.version }

// AddType registers a class descriptor.
func (p *Provider) AddType(td *TypeData) {
	p.types[td.Name] = td
}

func (p *Provider) IsKnownType(name string) bool {
	_, ok := p.types[typesystem.RawGeneric(name)]
	return ok
}

func (p *Provider) GetTypeInfo(name string) *providers.TypeInfo {
	td, ok := p.types[typesystem.RawGeneric(name)]
	if !ok {
		return nil
	}
	info := &providers.TypeInfo{
		Name:           td.Name,
		BaseType:       p.GetBaseType(td.Name),
		IsBuiltinValue: td.IsBuiltinValue,
		IsSingleton:    td.IsSingleton,
		IsAbstract:     td.IsAbstract,
	}
	for name, overloads := range td.Methods {
		info.Members = append(info.Members, *mergeOverloads(name, overloads))
	}
	for name, typ := range td.Properties {
		info.Members = append(info.Members, providers.Property(name, typ))
	}
	for name, typ := range td.Constants {
		info.Members = append(info.Members, providers.Constant(name, typ))
	}
	for name, params := range td.Signals {
		info.Members = append(info.Members, providers.Signal(name, params...))
	}
	return info
}

func (p *Provider) GetMember(typeName, member string) *providers.MemberInfo {
	td, ok := p.types[typesystem.RawGeneric(typeName)]
	if !ok {
		return nil
	}
	if overloads, ok := td.Methods[member]; ok {
		return mergeOverloads(member, overloads)
	}
	if typ, ok := td.Properties[member]; ok {
		m := providers.Property(member, typ)
		return &m
	}
	if typ, ok := td.Constants[member]; ok {
		m := providers.Constant(member, typ)
		return &m
	}
	if params, ok := td.Signals[member]; ok {
		m := providers.Signal(member, params...)
		return &m
	}
	if values, ok := td.Enums[member]; ok {
		// Enum referenced as a member: surfaces as an int-backed
		// constant holder.
		m := providers.Constant(member, td.Name+"."+member)
		_ = values
		return &m
	}
	return nil
}

// GetBaseType guards the hierarchy root: a class whose declared base
// is itself reports no base at all.
func (p *Provider) GetBaseType(name string) string {
	td, ok := p.types[typesystem.RawGeneric(name)]
	if !ok {
		return ""
	}
	if td.Base == td.Name {
		return ""
	}
	return td.Base
}

// IsAssignableTo owns the host-level conversions: null to anything,
// numeric promotion, String/StringName exchange, Variant in both
// directions, generic-to-raw, and the local base chain.
func (p *Provider) IsAssignableTo(source, target string) bool {
	if source == "" || target == "" {
		return false
	}
	if source == target {
		return true
	}
	if source == "null" {
		return true
	}
	if typesystem.IsVariantName(source) || typesystem.IsVariantName(target) {
		return true
	}
	if source == "int" && target == "float" {
		return true
	}
	if (source == "String" && target == "StringName") || (source == "StringName" && target == "String") {
		return true
	}
	if typesystem.RawGeneric(source) == target {
		return true
	}
	visited := map[string]bool{source: true}
	current := source
	for {
		base := p.GetBaseType(current)
		if base == "" || visited[base] {
			return false
		}
		if base == target {
			return true
		}
		visited[base] = true
		current = base
	}
}

func (p *Provider) GetGlobalFunction(name string) *providers.MemberInfo {
	return p.globals[name]
}

func (p *Provider) GetGlobalClass(name string) *providers.TypeInfo {
	// Host classes are globally visible by construction.
	return p.GetTypeInfo(name)
}

func (p *Provider) IsBuiltIn(name string) bool {
	return p.IsKnownType(name)
}

func (p *Provider) GetAllTypes() []string {
	set := map[string]struct{}{}
	for name := range p.types {
		set[name] = struct{}{}
	}
	return typesystem.SortedNames(set)
}

func (p *Provider) FindTypesWithMethod(method string) []string {
	set := map[string]struct{}{}
	for name, td := range p.types {
		if _, ok := td.Methods[method]; ok {
			set[name] = struct{}{}
		}
	}
	return typesystem.SortedNames(set)
}

func (p *Provider) IsBuiltinValueType(name string) bool {
	td, ok := p.types[typesystem.RawGeneric(name)]
	return ok && td.IsBuiltinValue
}

var _ providers.TypeProvider = (*Provider)(nil)

// mergeOverloads folds a method's overload list into one MemberInfo:
// min over the minimums, max over the maximums, varargs if any
// overload is variadic. The first overload's return type and
// parameters shape the merged view.
func mergeOverloads(name string, overloads []MethodData) *providers.MemberInfo {
	if len(overloads) == 0 {
		return nil
	}
	first := overloads[0]
	m := providers.Method(name, first.ReturnType, first.Params...)
	m.IsStatic = first.IsStatic
	m.ReturnRole = first.ReturnRole
	minArgs := m.MinArgs
	maxArgs := m.MaxArgs
	varargs := first.IsVararg
	for _, o := range overloads[1:] {
		om := providers.Method(name, o.ReturnType, o.Params...)
		if om.MinArgs < minArgs {
			minArgs = om.MinArgs
		}
		if maxArgs != -1 && (om.MaxArgs == -1 || om.MaxArgs > maxArgs) {
			maxArgs = om.MaxArgs
		}
		if o.IsVararg {
			varargs = true
		}
	}
	if varargs {
		maxArgs = -1
	}
	m.MinArgs = minArgs
	m.MaxArgs = maxArgs
	m.IsVarargs = varargs
	return &m
}
