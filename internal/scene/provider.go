package scene

import (
	"strings"
	"sync"

	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
)

// ScriptResolver maps a script path onto its declared class name.
// The project provider satisfies this.
type ScriptResolver interface {
	ClassAtPath(path string) (string, bool)
}

// Provider caches parsed scenes and answers node typing queries.
// Reads take a snapshot under an RWMutex, so queries are safe
// concurrent with watcher-driven reloads.
type Provider struct {
	providers.NopProvider

	mu       sync.RWMutex
	scenes   map[string]*SceneInfo // scene path → info
	resolver ScriptResolver
	log      logging.Logger
}

// NewProvider builds an empty cache. resolver may be nil when script
// class resolution is not needed.
func NewProvider(resolver ScriptResolver, log logging.Logger) *Provider {
	if log == nil {
		log = logging.Nop
	}
	return &Provider{
		scenes:   map[string]*SceneInfo{},
		resolver: resolver,
		log:      log,
	}
}

// LoadScene parses (or re-parses) a scene into the cache. Parse
// failures are logged and leave the scene absent, never propagated.
func (p *Provider) LoadScene(path string) *SceneInfo {
	info, err := ParseFile(path)
	if err != nil {
		p.log.Warnf("scene: %v", err)
		p.mu.Lock()
		delete(p.scenes, path)
		p.mu.Unlock()
		return nil
	}
	p.mu.Lock()
	p.scenes[path] = info
	p.mu.Unlock()
	return info
}

// AddScene installs an already-parsed scene (tests, embedded data).
func (p *Provider) AddScene(info *SceneInfo) {
	p.mu.Lock()
	p.scenes[info.ScenePath] = info
	p.mu.Unlock()
}

// RemoveScene drops a scene from the cache.
func (p *Provider) RemoveScene(path string) {
	p.mu.Lock()
	delete(p.scenes, path)
	p.mu.Unlock()
}

// Scene returns the cached scene, or nil.
func (p *Provider) Scene(path string) *SceneInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scenes[path]
}

// ScenePaths lists the cached scene paths.
func (p *Provider) ScenePaths() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.scenes))
	for path := range p.scenes {
		out = append(out, path)
	}
	return out
}

// typeOf resolves a node to its attached script class when one is
// known, else the raw node type.
func (p *Provider) typeOf(node *NodeInfo) string {
	if node == nil {
		return ""
	}
	if node.ScriptTypeName != "" {
		return node.ScriptTypeName
	}
	if node.ScriptPath != "" && p.resolver != nil {
		if class, ok := p.resolver.ClassAtPath(node.ScriptPath); ok {
			return class
		}
	}
	return node.NodeType
}

// GetNodeType answers (scene, node-path) with the attached script
// type when present, else the node type.
func (p *Provider) GetNodeType(scenePath, nodePath string) string {
	p.mu.RLock()
	info := p.scenes[scenePath]
	p.mu.RUnlock()
	if info == nil {
		return ""
	}
	return p.typeOf(info.NodeAt(nodePath))
}

// GetUniqueNodeType answers %Name lookups within a scene.
func (p *Provider) GetUniqueNodeType(scenePath, name string) string {
	p.mu.RLock()
	info := p.scenes[scenePath]
	p.mu.RUnlock()
	if info == nil {
		return ""
	}
	return p.typeOf(info.UniqueNode(name))
}

// ScriptAttachment is one (scene, node path) site a script is attached
// to.
type ScriptAttachment struct {
	ScenePath string
	NodePath  string
}

// GetScenesForScript lists every attachment site of the given script
// across the cached scenes.
func (p *Provider) GetScenesForScript(scriptPath string) []ScriptAttachment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []ScriptAttachment
	for path, info := range p.scenes {
		for _, node := range info.Nodes {
			if pathsEqual(node.ScriptPath, scriptPath) {
				out = append(out, ScriptAttachment{ScenePath: path, NodePath: node.Path})
			}
		}
	}
	return out
}

// GetRootNodeType returns the typed root of a scene.
func (p *Provider) GetRootNodeType(scenePath string) string {
	p.mu.RLock()
	info := p.scenes[scenePath]
	p.mu.RUnlock()
	if info == nil {
		return ""
	}
	return p.typeOf(info.Root())
}

// GetDirectChildren lists the direct children of a parent path.
func (p *Provider) GetDirectChildren(scenePath, parentPath string) []*NodeInfo {
	p.mu.RLock()
	info := p.scenes[scenePath]
	p.mu.RUnlock()
	if info == nil {
		return nil
	}
	return info.DirectChildren(parentPath)
}

func pathsEqual(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
