package project

import (
	"strings"
	"sync"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
)

// ReturnInferrer analyzes a method body and returns the unified return
// type name. Wired in by the inference package; the indirection keeps
// this package free of a dependency on the engine.
type ReturnInferrer func(owner *ProjectTypeInfo, method *MethodInfo) string

// InitializerInferrer types a property initializer expression.
type InitializerInferrer func(owner *ProjectTypeInfo, init gdast.Expression) string

// Provider is the project-wide class cache.
//
// Queries are safe for concurrent use; RebuildCache is not safe
// concurrent with readers and callers must quiesce first.
type Provider struct {
	mu             sync.RWMutex
	byClassName    map[string]*ProjectTypeInfo
	byQualified    map[string]*ProjectTypeInfo
	byPath         map[string]string // normalized path → class name
	byPreloadAlias map[string]string // alias → class name
	scripts        []*gdast.ScriptFile

	// methodsBeingInferred guards reentrant lazy return inference by
	// "Class.method" key.
	methodsBeingInferred sync.Map

	returnInferrer ReturnInferrer
	initInferrer   InitializerInferrer
	log            logging.Logger
}

// NewProvider builds an empty cache.
func NewProvider(log logging.Logger) *Provider {
	if log == nil {
		log = logging.Nop
	}
	return &Provider{
		byClassName:    map[string]*ProjectTypeInfo{},
		byQualified:    map[string]*ProjectTypeInfo{},
		byPath:         map[string]string{},
		byPreloadAlias: map[string]string{},
		log:            log,
	}
}

// SetReturnInferrer wires the lazy return-type analysis.
func (p *Provider) SetReturnInferrer(fn ReturnInferrer) { p.returnInferrer = fn }

// SetInitializerInferrer wires the property initializer analysis.
func (p *Provider) SetInitializerInferrer(fn InitializerInferrer) { p.initInferrer = fn }

// Scripts returns the sources behind the current cache.
func (p *Provider) Scripts() []*gdast.ScriptFile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scripts
}

// RebuildCache drops every index and rebuilds from the given sources.
// Idempotent for an unchanged source set.
func (p *Provider) RebuildCache(scripts []*gdast.ScriptFile) {
	byClassName := map[string]*ProjectTypeInfo{}
	byQualified := map[string]*ProjectTypeInfo{}
	byPath := map[string]string{}

	// Pass 1: classes, inner classes, enums, path index.
	for _, script := range scripts {
		if script == nil || script.Class == nil || script.Class.Name == "" {
			continue
		}
		info := buildTypeInfo(script.Class, script, "")
		registerClass(byClassName, byQualified, info)
		for _, key := range pathKeys(script) {
			byPath[key] = info.Name
		}
		registerInner(byClassName, byQualified, script.Class, script, info.Name)
		registerEnums(byQualified, info)
	}

	// Pass 2: preload-constant aliases. An alias colliding with a real
	// class name is skipped — the class wins.
	byPreloadAlias := map[string]string{}
	for _, script := range scripts {
		if script == nil || script.Class == nil {
			continue
		}
		for _, v := range script.Class.Variables() {
			if !v.IsConst || v.Initializer == nil {
				continue
			}
			path, ok := preloadArgument(v.Initializer)
			if !ok {
				continue
			}
			class, ok := byPath[normalizePath(path)]
			if !ok {
				continue
			}
			if _, collides := byClassName[v.Name]; collides {
				continue
			}
			byPreloadAlias[v.Name] = class
		}
	}

	p.mu.Lock()
	p.byClassName = byClassName
	p.byQualified = byQualified
	p.byPath = byPath
	p.byPreloadAlias = byPreloadAlias
	p.scripts = scripts
	p.mu.Unlock()
	p.methodsBeingInferred.Range(func(key, _ any) bool {
		p.methodsBeingInferred.Delete(key)
		return true
	})
}

func registerClass(byClassName, byQualified map[string]*ProjectTypeInfo, info *ProjectTypeInfo) {
	// Qualified is authoritative; the short name stays for back-compat
	// and only when it does not clobber an existing class.
	byQualified[info.QualifiedName] = info
	if _, exists := byClassName[info.Name]; !exists {
		byClassName[info.Name] = info
	}
}

func registerInner(byClassName, byQualified map[string]*ProjectTypeInfo, class *gdast.ClassDeclaration, script *gdast.ScriptFile, outerQualified string) {
	for _, inner := range class.InnerClasses() {
		if inner.Name == "" {
			continue
		}
		info := buildTypeInfo(inner, script, outerQualified)
		registerClass(byClassName, byQualified, info)
		registerEnums(byQualified, info)
		registerInner(byClassName, byQualified, inner, script, info.QualifiedName)
	}
}

// registerEnums surfaces each named enum as a qualified-only pseudo
// class with base int whose properties are the value constants.
func registerEnums(byQualified map[string]*ProjectTypeInfo, owner *ProjectTypeInfo) {
	for _, e := range owner.Enums {
		enumInfo := &ProjectTypeInfo{
			Name:          e.Name,
			QualifiedName: owner.QualifiedName + "." + e.Name,
			ScriptPath:    owner.ScriptPath,
			ResourcePath:  owner.ResourcePath,
			BaseTypeName:  "int",
			IsEnum:        true,
			File:          owner.File,
		}
		for _, value := range e.Values {
			prop := &PropertyInfo{Name: value, IsConst: true, IsStatic: true, declaredType: "int"}
			enumInfo.Properties = append(enumInfo.Properties, prop)
		}
		byQualified[enumInfo.QualifiedName] = enumInfo
	}
}

func buildTypeInfo(class *gdast.ClassDeclaration, script *gdast.ScriptFile, outerQualified string) *ProjectTypeInfo {
	qualified := class.Name
	if outerQualified != "" {
		qualified = outerQualified + "." + class.Name
	}
	info := &ProjectTypeInfo{
		Name:          class.Name,
		QualifiedName: qualified,
		ScriptPath:    script.Path,
		ResourcePath:  script.ResourcePath,
		BaseTypeName:  class.Extends,
		BasePath:      class.ExtendsPath,
		IsAbstract:    class.IsAbstract,
		Decl:          class,
		File:          script,
	}
	for _, m := range class.Methods() {
		mi := &MethodInfo{
			Name:           m.Name,
			IsStatic:       m.IsStatic,
			IsAbstract:     m.IsAbstract,
			Decl:           m,
			declaredReturn: m.ReturnType.FullName(),
		}
		for _, param := range m.Parameters {
			mi.Parameters = append(mi.Parameters, providers.ParameterInfo{
				Name:       param.Name,
				TypeName:   param.Type.FullName(),
				HasDefault: param.Default != nil,
				IsParams:   param.IsVararg,
			})
		}
		if mi.declaredReturn != "" {
			// Annotated methods never run body analysis.
			mi.inferred.Store(true)
		}
		info.Methods = append(info.Methods, mi)
	}
	for _, v := range class.Variables() {
		pi := &PropertyInfo{
			Name:         v.Name,
			IsConst:      v.IsConst,
			IsStatic:     v.IsStatic,
			Decl:         v,
			Initializer:  v.Initializer,
			declaredType: v.Type.FullName(),
		}
		if pi.declaredType != "" {
			pi.inferred.Store(true)
		}
		info.Properties = append(info.Properties, pi)
	}
	for _, s := range class.Signals() {
		si := &SignalInfo{Name: s.Name, Decl: s}
		for _, param := range s.Parameters {
			si.ParamTypes = append(si.ParamTypes, param.Type.FullName())
		}
		info.Signals = append(info.Signals, si)
	}
	for _, e := range class.Enums() {
		if e.Name == "" {
			// Anonymous enum values surface as int constants.
			for _, value := range e.Values {
				info.Properties = append(info.Properties, &PropertyInfo{
					Name: value.Name, IsConst: true, IsStatic: true, declaredType: "int",
				})
			}
			continue
		}
		ei := &EnumInfo{Name: e.Name, Decl: e}
		for _, value := range e.Values {
			ei.Values = append(ei.Values, value.Name)
		}
		info.Enums = append(info.Enums, ei)
	}
	for _, inner := range class.InnerClasses() {
		if inner.Name != "" {
			info.InnerClasses = append(info.InnerClasses, inner.Name)
		}
	}
	return info
}

// pathKeys yields the index keys for a script: full filesystem path,
// resource path, and the quoted resource path, all case-folded.
func pathKeys(script *gdast.ScriptFile) []string {
	var keys []string
	if script.Path != "" {
		keys = append(keys, normalizePath(script.Path))
	}
	if script.ResourcePath != "" {
		keys = append(keys, normalizePath(script.ResourcePath))
		keys = append(keys, normalizePath(`"`+script.ResourcePath+`"`))
	}
	return keys
}

func normalizePath(path string) string {
	return strings.ToLower(strings.TrimSpace(path))
}

// preloadArgument extracts the literal path from `preload("res://…")`.
func preloadArgument(expr gdast.Expression) (string, bool) {
	call, ok := expr.(*gdast.CallExpression)
	if !ok || len(call.Arguments) != 1 {
		return "", false
	}
	ident, ok := call.Callee.(*gdast.Identifier)
	if !ok || ident.Name != "preload" {
		return "", false
	}
	lit, ok := call.Arguments[0].(*gdast.StringLiteral)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// resolve maps any accepted spelling (class name, qualified name,
// alias, path) onto the cached type. Callers hold no lock.
func (p *Provider) resolve(name string) *ProjectTypeInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolveLocked(name)
}

func (p *Provider) resolveLocked(name string) *ProjectTypeInfo {
	if name == "" {
		return nil
	}
	if info, ok := p.byQualified[name]; ok {
		return info
	}
	if info, ok := p.byClassName[name]; ok {
		return info
	}
	if class, ok := p.byPreloadAlias[name]; ok {
		return p.byClassName[class]
	}
	if class, ok := p.byPath[normalizePath(name)]; ok {
		return p.byClassName[class]
	}
	return nil
}
