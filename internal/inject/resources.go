package inject

import (
	"bufio"
	"os"
	"path"
	"strings"
)

// loadedResourceType categorizes a preload/load path: scripts resolve
// to their declared class when the cache knows it, scenes to
// PackedScene, and other resources by file extension.
func (inj *Injector) loadedResourceType(resourcePath string) string {
	ext := strings.ToLower(path.Ext(resourcePath))
	switch ext {
	case ".gd":
		if inj.project != nil {
			if class, ok := inj.project.ClassAtPath(resourcePath); ok {
				return class
			}
		}
		return "GDScript"
	case ".tscn", ".scn":
		return "PackedScene"
	case ".tres", ".res":
		return inj.savedResourceType(resourcePath)
	case ".png", ".jpg", ".jpeg", ".webp", ".svg", ".bmp", ".tga", ".exr", ".hdr":
		return "Texture2D"
	case ".wav", ".ogg", ".mp3":
		return "AudioStream"
	case ".ttf", ".otf", ".woff", ".woff2", ".fnt":
		return "Font"
	case ".json":
		return "JSON"
	case ".glb", ".gltf", ".obj", ".fbx", ".dae", ".blend":
		return "PackedScene"
	case ".gdshader", ".shader":
		return "Shader"
	}
	if ext == "" {
		return ""
	}
	return "Resource"
}

// savedResourceType sniffs the serialized resource header for its
// declared type: `[gd_resource type="X" …]`. Unreadable or headerless
// files fall back to the generic Resource.
func (inj *Injector) savedResourceType(resourcePath string) string {
	f, err := os.Open(resourcePath)
	if err != nil {
		return "Resource"
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "[gd_resource") {
			if i := strings.Index(line, `type="`); i >= 0 {
				rest := line[i+len(`type="`):]
				if end := strings.IndexByte(rest, '"'); end > 0 {
					return rest[:end]
				}
			}
		}
	}
	return "Resource"
}
