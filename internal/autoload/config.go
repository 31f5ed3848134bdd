// Package autoload reflects the project's configured singleton
// bindings as a type provider. Autoloads are instances, not types, so
// they answer name lookups but stay out of GetAllTypes.
package autoload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EntryKind distinguishes script and scene autoloads.
type EntryKind string

const (
	KindScript EntryKind = "script"
	KindScene  EntryKind = "scene"
)

// Entry is one configured autoload binding.
type Entry struct {
	Name    string    `yaml:"name"`
	Path    string    `yaml:"path"`
	Enabled bool      `yaml:"enabled"`
	Kind    EntryKind `yaml:"kind"`
}

// IsScript reports whether the entry binds a script.
func (e Entry) IsScript() bool { return e.Kind == KindScript }

// IsScene reports whether the entry binds a scene.
func (e Entry) IsScene() bool { return e.Kind == KindScene }

// ProjectConfig is the engine-facing project configuration document.
type ProjectConfig struct {
	// HostDescriptor locates the serialized host type database.
	HostDescriptor string `yaml:"host_descriptor"`
	// SourceDirs are the roots scanned for scripts and scenes.
	SourceDirs []string `yaml:"source_dirs"`
	Autoload   []Entry  `yaml:"autoload"`
}

// LoadConfig reads and validates the project configuration.
func LoadConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("autoload: reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses configuration bytes.
func ParseConfig(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("autoload: parsing config: %w", err)
	}
	for i, e := range cfg.Autoload {
		if e.Name == "" {
			return nil, fmt.Errorf("autoload: entry %d has no name", i)
		}
		if e.Path == "" {
			return nil, fmt.Errorf("autoload: entry %q has no path", e.Name)
		}
		switch e.Kind {
		case KindScript, KindScene:
		case "":
			return nil, fmt.Errorf("autoload: entry %q has no kind", e.Name)
		default:
			return nil, fmt.Errorf("autoload: entry %q has unknown kind %q", e.Name, e.Kind)
		}
	}
	return &cfg, nil
}
