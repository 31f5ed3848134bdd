package autoload

import (
	"strings"
	"sync"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/scene"
)

// Provider synthesizes a TypeInfo per enabled autoload name: script
// autoloads reflect the script's class AST, scene autoloads resolve
// through the scene root. Results are cached after the first build.
type Provider struct {
	entries map[string]Entry
	scripts map[string]*gdast.ScriptFile // normalized path → script
	scenes  *scene.Provider

	mu    sync.Mutex
	cache map[string]*providers.TypeInfo
}

// NewProvider builds the provider over the enabled entries. scripts
// holds every parsed project source (autoload scripts often have no
// class_name, so path lookup cannot go through the class cache).
// scenes may be nil when no scene autoloads exist.
func NewProvider(entries []Entry, scripts []*gdast.ScriptFile, scenes *scene.Provider) *Provider {
	p := &Provider{
		entries: map[string]Entry{},
		scripts: map[string]*gdast.ScriptFile{},
		scenes:  scenes,
		cache:   map[string]*providers.TypeInfo{},
	}
	for _, e := range entries {
		if e.Enabled {
			p.entries[e.Name] = e
		}
	}
	for _, s := range scripts {
		if s == nil {
			continue
		}
		if s.Path != "" {
			p.scripts[normalize(s.Path)] = s
		}
		if s.ResourcePath != "" {
			p.scripts[normalize(s.ResourcePath)] = s
		}
	}
	return p
}

func normalize(path string) string { return strings.ToLower(path) }

// build synthesizes the TypeInfo for one entry.
func (p *Provider) build(e Entry) *providers.TypeInfo {
	if e.IsScript() {
		if script, ok := p.scripts[normalize(e.Path)]; ok && script.Class != nil {
			return typeInfoFromClass(e.Name, script.Class)
		}
		return &providers.TypeInfo{Name: e.Name, BaseType: "Node", IsSingleton: true}
	}
	// Scene autoload: the root's script class when available, else the
	// root node type, else Node.
	if p.scenes != nil {
		if info := p.scenes.Scene(e.Path); info != nil && info.Root() != nil {
			root := info.Root()
			if root.ScriptPath != "" {
				if script, ok := p.scripts[normalize(root.ScriptPath)]; ok && script.Class != nil {
					return typeInfoFromClass(e.Name, script.Class)
				}
			}
			if root.NodeType != "" {
				return &providers.TypeInfo{Name: e.Name, BaseType: root.NodeType, IsSingleton: true}
			}
		}
	}
	return &providers.TypeInfo{Name: e.Name, BaseType: "Node", IsSingleton: true}
}

// typeInfoFromClass extracts members from the class AST: methods with
// argument counts, properties and constants split on the const
// keyword, and signals.
func typeInfoFromClass(name string, class *gdast.ClassDeclaration) *providers.TypeInfo {
	base := class.Extends
	if base == "" {
		base = "Node"
	}
	info := &providers.TypeInfo{Name: name, BaseType: base, IsSingleton: true}
	for _, m := range class.Methods() {
		var params []providers.ParameterInfo
		for _, param := range m.Parameters {
			params = append(params, providers.ParameterInfo{
				Name:       param.Name,
				TypeName:   param.Type.FullName(),
				HasDefault: param.Default != nil,
				IsParams:   param.IsVararg,
			})
		}
		member := providers.Method(m.Name, m.ReturnType.FullName(), params...)
		member.IsStatic = m.IsStatic
		member.Decl = m
		info.Members = append(info.Members, member)
	}
	for _, v := range class.Variables() {
		kind := providers.KindProperty
		if v.IsConst {
			kind = providers.KindConstant
		}
		info.Members = append(info.Members, providers.MemberInfo{
			Kind:     kind,
			Name:     v.Name,
			TypeName: v.Type.FullName(),
			IsStatic: v.IsStatic,
			Decl:     v,
		})
	}
	for _, s := range class.Signals() {
		var types []string
		for _, param := range s.Parameters {
			types = append(types, param.Type.FullName())
		}
		member := providers.Signal(s.Name, types...)
		member.Decl = s
		info.Members = append(info.Members, member)
	}
	return info
}

func (p *Provider) lookup(name string) *providers.TypeInfo {
	e, ok := p.entries[name]
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if info, ok := p.cache[name]; ok {
		return info
	}
	info := p.build(e)
	p.cache[name] = info
	return info
}

// --- providers.TypeProvider ---

func (p *Provider) IsKnownType(name string) bool {
	_, ok := p.entries[name]
	return ok
}

func (p *Provider) GetTypeInfo(name string) *providers.TypeInfo {
	return p.lookup(name)
}

func (p *Provider) GetMember(typeName, member string) *providers.MemberInfo {
	return p.lookup(typeName).FindMember(member)
}

func (p *Provider) GetBaseType(name string) string {
	if info := p.lookup(name); info != nil {
		return info.BaseType
	}
	return ""
}

func (p *Provider) IsAssignableTo(source, target string) bool { return false }

func (p *Provider) GetGlobalFunction(name string) *providers.MemberInfo { return nil }

// GetGlobalClass answers for autoload names: the singleton is globally
// visible exactly like a class-name global.
func (p *Provider) GetGlobalClass(name string) *providers.TypeInfo {
	return p.lookup(name)
}

func (p *Provider) IsBuiltIn(name string) bool { return false }

// GetAllTypes is empty on purpose: autoloads are instances, not types.
func (p *Provider) GetAllTypes() []string { return nil }

func (p *Provider) FindTypesWithMethod(method string) []string { return nil }

func (p *Provider) IsBuiltinValueType(name string) bool { return false }

var _ providers.TypeProvider = (*Provider)(nil)
