package report

import (
	"strings"

	"github.com/google/uuid"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/project"
)

// TypeResolver supplies the per-method inference the builder reports
// on; the engine layer provides it, keeping this package free of a
// dependency on inference internals.
type TypeResolver interface {
	MethodReturnType(owner *project.ProjectTypeInfo, method *project.MethodInfo) string
}

// Builder assembles project-wide inference reports from the class
// cache.
type Builder struct {
	project  *project.Provider
	resolver TypeResolver
}

// NewBuilder creates a report builder over a cache snapshot.
func NewBuilder(proj *project.Provider, resolver TypeResolver) *Builder {
	return &Builder{project: proj, resolver: resolver}
}

// BuildProject reports every class method in the cache and attaches
// the dependency graph.
func (b *Builder) BuildProject() *ProjectInferenceReport {
	out := &ProjectInferenceReport{ReportID: uuid.NewString()}
	deps := map[string][]string{}

	for _, script := range b.project.Scripts() {
		if script == nil || script.Class == nil || script.Class.Name == "" {
			continue
		}
		info := b.project.Lookup(script.Class.Name)
		if info == nil {
			continue
		}
		for _, method := range info.Methods {
			key := info.Name + "." + method.Name
			mr := b.buildMethod(info, method)
			deps[key] = mr.Dependencies
			out.Methods = append(out.Methods, mr)
		}
	}

	graph := BuildDependencyGraph(deps, classOfKey, methodOfKey)
	out.Graph = graph

	cyclic := map[string]bool{}
	for _, node := range graph.Nodes {
		if node.HasCyclicDependency {
			cyclic[node.MethodKey] = true
		}
	}
	for _, mr := range out.Methods {
		mr.HasCyclicDependency = cyclic[mr.ClassName+"."+mr.MethodName]
	}
	return out
}

// buildMethod reports one method: parameters, return, dependencies.
func (b *Builder) buildMethod(owner *project.ProjectTypeInfo, method *project.MethodInfo) *MethodInferenceReport {
	mr := &MethodInferenceReport{
		ClassName:  owner.Name,
		MethodName: method.Name,
		FilePath:   owner.ScriptPath,
	}
	if method.Decl != nil {
		mr.Line = method.Decl.Position.Line
	}

	for _, param := range method.Parameters {
		pr := &ParameterInferenceReport{}
		if param.TypeName != "" {
			pr.ExplicitType = param.TypeName
			pr.Confidence = Certain
		} else {
			pr.Confidence = Unknown
		}
		if mr.Parameters == nil {
			mr.Parameters = map[string]*ParameterInferenceReport{}
		}
		mr.Parameters[param.Name] = pr
	}

	mr.ReturnType = b.buildReturn(owner, method)
	if method.Decl != nil {
		mr.Dependencies = b.collectDependencies(owner, method.Decl)
	}
	return mr
}

func (b *Builder) buildReturn(owner *project.ProjectTypeInfo, method *project.MethodInfo) *ReturnInferenceReport {
	if method.HasDeclaredReturn() {
		return &ReturnInferenceReport{ExplicitType: method.ReturnTypeName(), Confidence: Certain}
	}
	var inferred string
	if b.resolver != nil {
		inferred = b.resolver.MethodReturnType(owner, method)
	} else {
		inferred = method.ReturnTypeName()
	}
	if inferred == "" {
		return &ReturnInferenceReport{Confidence: Unknown}
	}
	rr := &ReturnInferenceReport{Confidence: High}
	if parts := splitUnionName(inferred); len(parts) > 1 {
		rr.InferredUnionType = &UnionTypeReport{Types: parts, EffectiveType: inferred}
		rr.Confidence = Medium
	} else {
		rr.InferredUnionType = &UnionTypeReport{Types: []string{inferred}, EffectiveType: inferred}
	}
	return rr
}

// collectDependencies gathers Class.Method keys this method's body
// calls: plain calls resolve against the owning class, member calls
// against the duck-typed project index when the receiver names a
// known class.
func (b *Builder) collectDependencies(owner *project.ProjectTypeInfo, decl *gdast.MethodDeclaration) []string {
	if decl.Body == nil {
		return nil
	}
	seen := map[string]bool{}
	var deps []string
	add := func(class, method string) {
		key := class + "." + method
		if !seen[key] {
			seen[key] = true
			deps = append(deps, key)
		}
	}
	gdast.Walk(decl.Body, func(n gdast.Node) bool {
		call, ok := n.(*gdast.CallExpression)
		if !ok {
			return true
		}
		switch callee := call.Callee.(type) {
		case *gdast.Identifier:
			if owner.FindMethod(callee.Name) != nil {
				add(owner.Name, callee.Name)
			}
		case *gdast.MemberAccess:
			if ident, ok := callee.Target.(*gdast.Identifier); ok {
				if target := b.project.Lookup(ident.Name); target != nil && target.FindMethod(callee.Member) != nil {
					add(target.Name, callee.Member)
				}
			}
		}
		return true
	})
	return deps
}

func classOfKey(key string) string {
	if i := strings.LastIndexByte(key, '.'); i > 0 {
		return key[:i]
	}
	return key
}

func methodOfKey(key string) string {
	if i := strings.LastIndexByte(key, '.'); i > 0 {
		return key[i+1:]
	}
	return key
}

func splitUnionName(name string) []string {
	if !strings.Contains(name, " | ") {
		return []string{name}
	}
	parts := strings.Split(name, " | ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
