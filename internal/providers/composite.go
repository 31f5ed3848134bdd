package providers

import "github.com/elamaunt/gdshrapt-go/internal/typesystem"

// Composite federates providers in construction order and answers
// every query with the first non-empty child result. The canonical
// ordering is host, project, autoloads, scene, fallback.
type Composite struct {
	children []TypeProvider
}

// NewComposite builds a composite over the given children. Order is
// significant and preserved.
func NewComposite(children ...TypeProvider) *Composite {
	return &Composite{children: children}
}

// Children exposes the federation for consumers that need direct
// access to a specific source.
func (c *Composite) Children() []TypeProvider { return c.children }

func (c *Composite) IsKnownType(name string) bool {
	if name == "" {
		return false
	}
	for _, p := range c.children {
		if p.IsKnownType(name) {
			return true
		}
	}
	return false
}

func (c *Composite) GetTypeInfo(name string) *TypeInfo {
	for _, p := range c.children {
		if info := p.GetTypeInfo(name); info != nil {
			return info
		}
	}
	return nil
}

func (c *Composite) GetMember(typeName, member string) *MemberInfo {
	for _, p := range c.children {
		if m := p.GetMember(typeName, member); m != nil {
			return m
		}
	}
	return nil
}

// GetBaseType returns the first child's base, guarding against a
// child that reports a type as its own base: that answer is the root
// marker, never a link.
func (c *Composite) GetBaseType(name string) string {
	for _, p := range c.children {
		if base := p.GetBaseType(name); base != "" && base != name {
			return base
		}
	}
	return ""
}

// IsAssignableTo answers subtyping across the federation. Child
// providers get first say so their conversion rules (numeric
// promotion, Variant, String/StringName) apply; when all decline, the
// source's base chain is walked across every provider with a visited
// set, so inheritance spanning providers still resolves.
func (c *Composite) IsAssignableTo(source, target string) bool {
	if source == "" || target == "" {
		return false
	}
	if source == target {
		return true
	}
	for _, p := range c.children {
		if p.IsAssignableTo(source, target) {
			return true
		}
	}
	visited := map[string]bool{source: true}
	current := source
	for {
		base := c.GetBaseType(current)
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

func (c *Composite) GetGlobalFunction(name string) *MemberInfo {
	for _, p := range c.children {
		if fn := p.GetGlobalFunction(name); fn != nil {
			return fn
		}
	}
	return nil
}

func (c *Composite) GetGlobalClass(name string) *TypeInfo {
	for _, p := range c.children {
		if info := p.GetGlobalClass(name); info != nil {
			return info
		}
	}
	return nil
}

func (c *Composite) IsBuiltIn(name string) bool {
	for _, p := range c.children {
		if p.IsBuiltIn(name) {
			return true
		}
	}
	return false
}

func (c *Composite) GetAllTypes() []string {
	set := map[string]struct{}{}
	for _, p := range c.children {
		for _, name := range p.GetAllTypes() {
			set[name] = struct{}{}
		}
	}
	return typesystem.SortedNames(set)
}

func (c *Composite) FindTypesWithMethod(method string) []string {
	set := map[string]struct{}{}
	for _, p := range c.children {
		for _, name := range p.FindTypesWithMethod(method) {
			set[name] = struct{}{}
		}
	}
	return typesystem.SortedNames(set)
}

func (c *Composite) IsBuiltinValueType(name string) bool {
	for _, p := range c.children {
		if p.IsBuiltinValueType(name) {
			return true
		}
	}
	return false
}

var _ TypeProvider = (*Composite)(nil)
