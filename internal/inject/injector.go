// Package inject contributes types the static provider graph cannot
// know: node-path expressions resolved against the scene graph,
// resource loads resolved by script class or file category, scene
// instantiation, and signal parameter shapes.
package inject

import (
	"strings"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/project"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/scene"
)

// Injector resolves runtime-shaped queries through the scene and
// project providers. It satisfies the engine's injection seam.
type Injector struct {
	composite *providers.Composite
	scenes    *scene.Provider
	project   *project.Provider
	log       logging.Logger
}

// New builds an injector bound to a provider federation.
func New(composite *providers.Composite, scenes *scene.Provider, proj *project.Provider, log logging.Logger) *Injector {
	if log == nil {
		log = logging.Nop
	}
	return &Injector{composite: composite, scenes: scenes, project: proj, log: log}
}

// InjectNodePath resolves $Path and %Unique against every scene the
// current script is attached to. Agreement across scenes yields the
// type; disagreement reports ambiguity and logs it.
func (inj *Injector) InjectNodePath(expr *gdast.NodePathExpression, file *gdast.ScriptFile) (string, bool) {
	if expr == nil {
		return "", false
	}
	if expr.IsUnique {
		return inj.resolveAcrossScenes(file, func(att scene.ScriptAttachment) string {
			return inj.scenes.GetUniqueNodeType(att.ScenePath, expr.Path)
		}, "%"+expr.Path)
	}
	return inj.resolveNodePath(file, expr.Path)
}

func (inj *Injector) resolveNodePath(file *gdast.ScriptFile, path string) (string, bool) {
	return inj.resolveAcrossScenes(file, func(att scene.ScriptAttachment) string {
		return inj.scenes.GetNodeType(att.ScenePath, joinNodePath(att.NodePath, path))
	}, "$"+path)
}

// resolveAcrossScenes applies a per-attachment query and demands a
// unique answer; the second result flags cross-scene disagreement.
func (inj *Injector) resolveAcrossScenes(file *gdast.ScriptFile, query func(scene.ScriptAttachment) string, display string) (string, bool) {
	if inj.scenes == nil || file == nil {
		return "", false
	}
	attachments := inj.attachmentsOf(file)
	var resolved string
	for _, att := range attachments {
		typ := query(att)
		if typ == "" {
			continue
		}
		if resolved == "" {
			resolved = typ
			continue
		}
		if resolved != typ {
			inj.log.Debugf("inject: %s is ambiguous across scenes (%s vs %s)", display, resolved, typ)
			return "", true
		}
	}
	return resolved, false
}

func (inj *Injector) attachmentsOf(file *gdast.ScriptFile) []scene.ScriptAttachment {
	var out []scene.ScriptAttachment
	if file.ResourcePath != "" {
		out = append(out, inj.scenes.GetScenesForScript(file.ResourcePath)...)
	}
	if file.Path != "" && !strings.EqualFold(file.Path, file.ResourcePath) {
		out = append(out, inj.scenes.GetScenesForScript(file.Path)...)
	}
	return out
}

// joinNodePath resolves a path relative to the node the script is
// attached to.
func joinNodePath(base, rel string) string {
	if base == "" || base == "." {
		return rel
	}
	return base + "/" + rel
}

// InjectCall answers the injectable call family; "" for everything
// else.
func (inj *Injector) InjectCall(call *gdast.CallExpression, file *gdast.ScriptFile) string {
	switch call.CalleeName() {
	case "preload", "load":
		if path, ok := inj.staticStringArgument(call, 0, file); ok {
			return inj.loadedResourceType(path)
		}
	case "get_node", "get_node_or_null", "find_node":
		if path, ok := inj.staticStringArgument(call, 0, file); ok {
			typ, _ := inj.resolveNodePath(file, path)
			return typ
		}
	case "instantiate":
		if access, ok := call.Callee.(*gdast.MemberAccess); ok {
			if scenePath, ok := inj.staticScenePath(access.Target, file); ok {
				return inj.rootTypeOf(scenePath)
			}
		}
	case "get_child", "get_child_or_null":
		access, ok := call.Callee.(*gdast.MemberAccess)
		if !ok || len(call.Arguments) == 0 {
			return ""
		}
		index, ok := literalInt(call.Arguments[0])
		if !ok {
			return ""
		}
		if scenePath, ok := inj.instanceScenePath(access.Target, file); ok {
			return inj.childTypeAt(scenePath, index)
		}
	}
	return ""
}

// staticStringArgument accepts a string literal or a variable whose
// static initializer is one.
func (inj *Injector) staticStringArgument(call *gdast.CallExpression, index int, file *gdast.ScriptFile) (string, bool) {
	if index >= len(call.Arguments) {
		return "", false
	}
	return staticString(call.Arguments[index], file)
}

func staticString(expr gdast.Expression, file *gdast.ScriptFile) (string, bool) {
	switch arg := expr.(type) {
	case *gdast.StringLiteral:
		return arg.Value, true
	case *gdast.Identifier:
		if file == nil || file.Class == nil {
			return "", false
		}
		if v := file.Class.FindVariable(arg.Name); v != nil {
			if lit, ok := v.Initializer.(*gdast.StringLiteral); ok {
				return lit.Value, true
			}
		}
	}
	return "", false
}

// staticScenePath extracts the scene path behind preload("x.tscn") or
// a preload-bound constant alias.
func (inj *Injector) staticScenePath(target gdast.Expression, file *gdast.ScriptFile) (string, bool) {
	switch t := target.(type) {
	case *gdast.CallExpression:
		name := t.CalleeName()
		if name != "preload" && name != "load" {
			return "", false
		}
		if path, ok := inj.staticStringArgument(t, 0, file); ok && isScenePath(path) {
			return path, true
		}
	case *gdast.Identifier:
		if file == nil || file.Class == nil {
			return "", false
		}
		if v := file.Class.FindVariable(t.Name); v != nil && v.IsConst {
			if call, ok := v.Initializer.(*gdast.CallExpression); ok {
				return inj.staticScenePath(call, file)
			}
		}
	}
	return "", false
}

// instanceScenePath traces a scene-instance value back to its source
// scene: a variable initialized from preload("x.tscn").instantiate().
func (inj *Injector) instanceScenePath(target gdast.Expression, file *gdast.ScriptFile) (string, bool) {
	ident, ok := target.(*gdast.Identifier)
	if !ok || file == nil || file.Class == nil {
		return "", false
	}
	v := file.Class.FindVariable(ident.Name)
	if v == nil {
		return "", false
	}
	call, ok := v.Initializer.(*gdast.CallExpression)
	if !ok || call.CalleeName() != "instantiate" {
		return "", false
	}
	access, ok := call.Callee.(*gdast.MemberAccess)
	if !ok {
		return "", false
	}
	return inj.staticScenePath(access.Target, file)
}

// rootTypeOf loads the scene on demand and types its root.
func (inj *Injector) rootTypeOf(scenePath string) string {
	if inj.scenes == nil {
		return ""
	}
	if typ := inj.scenes.GetRootNodeType(scenePath); typ != "" {
		return typ
	}
	if info := inj.scenes.LoadScene(scenePath); info != nil {
		return inj.scenes.GetRootNodeType(scenePath)
	}
	return ""
}

func (inj *Injector) childTypeAt(scenePath string, index int) string {
	if inj.scenes == nil {
		return ""
	}
	children := inj.scenes.GetDirectChildren(scenePath, ".")
	if children == nil {
		if inj.scenes.LoadScene(scenePath) != nil {
			children = inj.scenes.GetDirectChildren(scenePath, ".")
		}
	}
	if index < 0 || index >= len(children) {
		return ""
	}
	child := children[index]
	if child.ScriptPath != "" {
		if inj.project != nil {
			if class, ok := inj.project.ClassAtPath(child.ScriptPath); ok {
				return class
			}
		}
	}
	return child.NodeType
}

// SignalParameterTypes answers a signal's emission shape from the
// provider graph first, then from the declaring script's AST.
func (inj *Injector) SignalParameterTypes(signal, emitterType string) []string {
	if signal == "" {
		return nil
	}
	if inj.composite != nil && emitterType != "" {
		visited := map[string]bool{}
		current := emitterType
		for current != "" && !visited[current] {
			visited[current] = true
			if m := inj.composite.GetMember(current, signal); m != nil && m.Kind == providers.KindSignal {
				return m.SignalParamTypes
			}
			current = inj.composite.GetBaseType(current)
		}
	}
	if inj.project != nil && emitterType != "" {
		if info := inj.project.Lookup(emitterType); info != nil {
			if sig := info.FindSignal(signal); sig != nil {
				return sig.ParamTypes
			}
		}
	}
	return nil
}

func literalInt(expr gdast.Expression) (int, bool) {
	lit, ok := expr.(*gdast.NumberLiteral)
	if !ok {
		return 0, false
	}
	n := 0
	for _, r := range lit.Lexeme {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func isScenePath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".tscn") || strings.HasSuffix(lower, ".scn")
}
