// Package scene parses declarative scene files and answers
// (scene, node-path) type queries. Scenes are cached; an optional
// watcher refreshes the cache on file changes with debouncing and
// own-write suppression.
package scene

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// NodeInfo is one node of a scene tree. The root has path "." and an
// empty parent; descendant paths concatenate names with "/".
type NodeInfo struct {
	Name           string
	Path           string
	NodeType       string
	ScriptPath     string
	ScriptTypeName string
	ParentPath     string
	Line           int
	IsUnique       bool
}

// ConnectionInfo is one [connection] block.
type ConnectionInfo struct {
	Signal string
	From   string
	To     string
	Method string
	Line   int
}

// SceneInfo is the parsed view of one scene file.
type SceneInfo struct {
	ScenePath   string
	Nodes       []*NodeInfo
	Connections []ConnectionInfo
	// uniqueNodes indexes nodes flagged unique_name_in_owner by name.
	uniqueNodes map[string]*NodeInfo
	byPath      map[string]*NodeInfo
}

// Root returns the root node, or nil for an empty scene.
func (s *SceneInfo) Root() *NodeInfo {
	return s.NodeAt(".")
}

// NodeAt returns the node at the given path, or nil. Literal
// SceneInfo values (tests, embedded fixtures) have no index and fall
// back to a scan.
func (s *SceneInfo) NodeAt(path string) *NodeInfo {
	if s.byPath != nil {
		return s.byPath[path]
	}
	for _, n := range s.Nodes {
		if n.Path == path {
			return n
		}
	}
	return nil
}

// UniqueNode returns the unique-marked node with the given name.
func (s *SceneInfo) UniqueNode(name string) *NodeInfo {
	if s.uniqueNodes != nil {
		return s.uniqueNodes[name]
	}
	for _, n := range s.Nodes {
		if n.IsUnique && n.Name == name {
			return n
		}
	}
	return nil
}

// DirectChildren lists nodes whose parent is the given path, in file
// order.
func (s *SceneInfo) DirectChildren(parentPath string) []*NodeInfo {
	var out []*NodeInfo
	for _, n := range s.Nodes {
		if n.ParentPath == parentPath && n.Path != "." {
			out = append(out, n)
		}
	}
	return out
}

// ParseFile loads and parses a scene file.
func ParseFile(path string) (*SceneInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: opening %s: %w", path, err)
	}
	defer f.Close()

	info := &SceneInfo{
		ScenePath:   path,
		uniqueNodes: map[string]*NodeInfo{},
		byPath:      map[string]*NodeInfo{},
	}
	extResources := map[string]string{} // id → script path
	var current *NodeInfo
	inEmbeddedScript := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(text, "[ext_resource"):
			attrs := parseBlockAttrs(text)
			if id, ok := attrs["id"]; ok {
				if p, ok := attrs["path"]; ok {
					extResources[id] = p
				}
			}
			inEmbeddedScript = false
		case strings.HasPrefix(text, "[sub_resource"):
			attrs := parseBlockAttrs(text)
			inEmbeddedScript = attrs["type"] == "Script" || attrs["type"] == "GDScript"
		case strings.HasPrefix(text, "[node"):
			attrs := parseBlockAttrs(text)
			node := &NodeInfo{
				Name:       attrs["name"],
				NodeType:   attrs["type"],
				ParentPath: attrs["parent"],
				Line:       line,
			}
			node.Path = nodePath(node.Name, node.ParentPath, attrs)
			info.Nodes = append(info.Nodes, node)
			info.byPath[node.Path] = node
			current = node
			inEmbeddedScript = false
		case strings.HasPrefix(text, "[connection"):
			attrs := parseBlockAttrs(text)
			info.Connections = append(info.Connections, ConnectionInfo{
				Signal: attrs["signal"],
				From:   attrs["from"],
				To:     attrs["to"],
				Method: attrs["method"],
				Line:   line,
			})
			current = nil
			inEmbeddedScript = false
		case strings.HasPrefix(text, "script = ExtResource("):
			if current != nil && !inEmbeddedScript {
				id := strings.TrimSuffix(strings.TrimPrefix(text, "script = ExtResource("), ")")
				id = strings.Trim(id, `"`)
				current.ScriptPath = extResources[id]
			}
		case text == "unique_name_in_owner = true":
			if current != nil {
				current.IsUnique = true
				info.uniqueNodes[current.Name] = current
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scene: reading %s: %w", path, err)
	}
	return info, nil
}

// nodePath builds the tree path from the parent attribute: "." parents
// yield the bare name, deeper parents concatenate with "/".
func nodePath(name, parent string, attrs map[string]string) string {
	if _, ok := attrs["parent"]; !ok {
		return "."
	}
	if parent == "." {
		return name
	}
	return parent + "/" + name
}

// parseBlockAttrs reads `key=value` pairs from a bracketed block line.
// Values may be quoted or bare; ExtResource("id") values keep the
// inner id.
func parseBlockAttrs(text string) map[string]string {
	attrs := map[string]string{}
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	// Drop the block keyword.
	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[i+1:]
	} else {
		return attrs
	}
	for len(text) > 0 {
		text = strings.TrimLeft(text, " ")
		eq := strings.IndexByte(text, '=')
		if eq < 0 {
			break
		}
		key := text[:eq]
		text = text[eq+1:]
		var value string
		if strings.HasPrefix(text, `"`) {
			end := strings.IndexByte(text[1:], '"')
			if end < 0 {
				break
			}
			value = text[1 : 1+end]
			text = text[end+2:]
		} else {
			end := strings.IndexByte(text, ' ')
			if end < 0 {
				value = text
				text = ""
			} else {
				value = text[:end]
				text = text[end+1:]
			}
		}
		attrs[key] = value
	}
	return attrs
}
