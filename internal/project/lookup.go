package project

import (
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// MemberLookup is a member hit annotated with the canonical class that
// declares it, so IDE consumers can jump to source.
type MemberLookup struct {
	Member            *providers.MemberInfo
	DeclaringTypeName string
	DeclaringType     *ProjectTypeInfo
}

// GetMemberWithDeclaringType resolves the type (name, alias, path or
// qualified form all accepted) and climbs its base chain until the
// member is found. A visited set breaks inheritance cycles.
func (p *Provider) GetMemberWithDeclaringType(typeName, member string) *MemberLookup {
	info := p.resolve(typeName)
	visited := map[string]bool{}
	for info != nil {
		if visited[info.QualifiedName] {
			return nil
		}
		visited[info.QualifiedName] = true
		if m := p.memberOf(info, member); m != nil {
			return &MemberLookup{Member: m, DeclaringTypeName: info.Name, DeclaringType: info}
		}
		next := info.BaseTypeName
		if next == "" {
			next = info.BasePath
		}
		if next == "" {
			return nil
		}
		info = p.resolve(next)
	}
	return nil
}

// memberOf surfaces one directly-declared member, running lazy
// inference when the stored type is still unresolved.
func (p *Provider) memberOf(info *ProjectTypeInfo, member string) *providers.MemberInfo {
	if m := info.FindMethod(member); m != nil {
		ret := m.ReturnTypeName()
		if ret == "" && !m.ReturnTypeInferred() {
			ret = p.inferReturnType(info, m)
		}
		out := providers.Method(m.Name, ret, m.Parameters...)
		out.IsStatic = m.IsStatic
		out.IsAbstract = m.IsAbstract
		out.Decl = m.Decl
		return &out
	}
	if prop := info.FindProperty(member); prop != nil {
		typ := prop.TypeName()
		if typ == "" && !prop.TypeInferred() {
			typ = p.inferPropertyType(info, prop)
		}
		kind := providers.KindProperty
		if prop.IsConst {
			kind = providers.KindConstant
		}
		out := providers.MemberInfo{
			Kind:     kind,
			Name:     prop.Name,
			TypeName: typ,
			IsStatic: prop.IsStatic,
			Decl:     prop.Decl,
		}
		return &out
	}
	if sig := info.FindSignal(member); sig != nil {
		out := providers.Signal(sig.Name, sig.ParamTypes...)
		out.TypeName = "Signal"
		out.Decl = sig.Decl
		return &out
	}
	for _, e := range info.Enums {
		if e.Name == member {
			out := providers.Constant(e.Name, info.QualifiedName+"."+e.Name)
			out.Decl = e.Decl
			return &out
		}
	}
	for _, inner := range info.InnerClasses {
		if inner == member {
			out := providers.Constant(inner, info.QualifiedName+"."+inner)
			return &out
		}
	}
	return nil
}

// inferReturnType runs the body analysis exactly once per method.
// The inflight set stops reentrancy (mutually recursive methods get
// the current stored name, Variant-equivalent, instead of looping);
// the second latch check after entry avoids redundant work; the
// inflight key is removed on every exit path.
func (p *Provider) inferReturnType(owner *ProjectTypeInfo, m *MethodInfo) string {
	if p.returnInferrer == nil || m.Decl == nil {
		return ""
	}
	key := owner.QualifiedName + "." + m.Name
	if _, loaded := p.methodsBeingInferred.LoadOrStore(key, struct{}{}); loaded {
		return m.ReturnTypeName()
	}
	defer p.methodsBeingInferred.Delete(key)
	if m.ReturnTypeInferred() {
		return m.ReturnTypeName()
	}
	name := p.returnInferrer(owner, m)
	m.setInferredReturn(name)
	return m.ReturnTypeName()
}

// inferPropertyType types an unannotated property from its
// initializer.
func (p *Provider) inferPropertyType(owner *ProjectTypeInfo, prop *PropertyInfo) string {
	if p.initInferrer == nil || prop.Initializer == nil {
		prop.setInferredType("")
		return ""
	}
	name := p.initInferrer(owner, prop.Initializer)
	prop.setInferredType(name)
	return prop.TypeName()
}

// --- providers.TypeProvider ---

func (p *Provider) IsKnownType(name string) bool {
	return p.resolve(typesystem.RawGeneric(name)) != nil
}

func (p *Provider) GetTypeInfo(name string) *providers.TypeInfo {
	info := p.resolve(typesystem.RawGeneric(name))
	if info == nil {
		return nil
	}
	out := &providers.TypeInfo{
		Name:       info.Name,
		BaseType:   p.GetBaseType(name),
		IsAbstract: info.IsAbstract,
	}
	for _, m := range info.Methods {
		member := providers.Method(m.Name, m.ReturnTypeName(), m.Parameters...)
		member.IsStatic = m.IsStatic
		member.IsAbstract = m.IsAbstract
		member.Decl = m.Decl
		out.Members = append(out.Members, member)
	}
	for _, prop := range info.Properties {
		kind := providers.KindProperty
		if prop.IsConst {
			kind = providers.KindConstant
		}
		out.Members = append(out.Members, providers.MemberInfo{
			Kind:     kind,
			Name:     prop.Name,
			TypeName: prop.TypeName(),
			IsStatic: prop.IsStatic,
			Decl:     prop.Decl,
		})
	}
	for _, sig := range info.Signals {
		out.Members = append(out.Members, providers.Signal(sig.Name, sig.ParamTypes...))
	}
	return out
}

func (p *Provider) GetMember(typeName, member string) *providers.MemberInfo {
	info := p.resolve(typesystem.RawGeneric(typeName))
	if info == nil {
		return nil
	}
	return p.memberOf(info, member)
}

func (p *Provider) GetBaseType(name string) string {
	info := p.resolve(typesystem.RawGeneric(name))
	if info == nil {
		return ""
	}
	if info.BaseTypeName != "" {
		if info.BaseTypeName == info.Name {
			return ""
		}
		return info.BaseTypeName
	}
	if info.BasePath != "" {
		if base := p.resolve(info.BasePath); base != nil {
			return base.Name
		}
	}
	return ""
}

// IsAssignableTo walks the project-local base chain only; the
// composite handles cross-provider chains.
func (p *Provider) IsAssignableTo(source, target string) bool {
	if source == "" || target == "" {
		return false
	}
	if source == target {
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

func (p *Provider) GetGlobalFunction(name string) *providers.MemberInfo { return nil }

func (p *Provider) GetGlobalClass(name string) *providers.TypeInfo {
	// Named project classes are global in GS.
	p.mu.RLock()
	_, ok := p.byClassName[name]
	p.mu.RUnlock()
	if !ok {
		return nil
	}
	return p.GetTypeInfo(name)
}

func (p *Provider) IsBuiltIn(name string) bool { return false }

func (p *Provider) GetAllTypes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set := map[string]struct{}{}
	for name := range p.byClassName {
		set[name] = struct{}{}
	}
	for name := range p.byQualified {
		set[name] = struct{}{}
	}
	return typesystem.SortedNames(set)
}

// FindTypesWithMethod lists classes that declare the method directly —
// inherited members do not count, matching duck-typed usage.
func (p *Provider) FindTypesWithMethod(method string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set := map[string]struct{}{}
	for name, info := range p.byClassName {
		if info.FindMethod(method) != nil {
			set[name] = struct{}{}
		}
	}
	return typesystem.SortedNames(set)
}

// FindTypesWithProperty is the property-side duck-typing index.
func (p *Provider) FindTypesWithProperty(property string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set := map[string]struct{}{}
	for name, info := range p.byClassName {
		if info.FindProperty(property) != nil {
			set[name] = struct{}{}
		}
	}
	return typesystem.SortedNames(set)
}

func (p *Provider) IsBuiltinValueType(name string) bool { return false }

// ResolveAlias returns the class behind a preload-constant alias.
func (p *Provider) ResolveAlias(alias string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	class, ok := p.byPreloadAlias[alias]
	return class, ok
}

// ClassAtPath returns the class registered for a script path.
func (p *Provider) ClassAtPath(path string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	class, ok := p.byPath[normalizePath(path)]
	return class, ok
}

// Lookup exposes the resolved descriptor for report builders.
func (p *Provider) Lookup(name string) *ProjectTypeInfo {
	return p.resolve(name)
}

var _ providers.TypeProvider = (*Provider)(nil)
