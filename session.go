// Package gdtypes assembles the provider federation and hands out
// inference engines over a consistent snapshot. Consumers hold one
// Session per project; engines are cheap and per-query.
package gdtypes

import (
	"fmt"
	"strings"

	"github.com/elamaunt/gdshrapt-go/internal/autoload"
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/hostdb"
	"github.com/elamaunt/gdshrapt-go/internal/inference"
	"github.com/elamaunt/gdshrapt-go/internal/inject"
	"github.com/elamaunt/gdshrapt-go/internal/logging"
	"github.com/elamaunt/gdshrapt-go/internal/project"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/report"
	"github.com/elamaunt/gdshrapt-go/internal/scene"
	"github.com/elamaunt/gdshrapt-go/internal/symbols"
)

// Session owns the provider graph for one project snapshot.
type Session struct {
	Host      *hostdb.Provider
	Project   *project.Provider
	Autoloads *autoload.Provider
	Scenes    *scene.Provider
	Fallback  *providers.FallbackProvider
	Composite *providers.Composite
	Injector  *inject.Injector

	log logging.Logger
}

// Options configures session construction.
type Options struct {
	// HostDescriptorPath locates the serialized host type database;
	// ".db"/".sqlite" suffixes select the database loader, everything
	// else parses as JSON.
	HostDescriptorPath string
	// Host overrides descriptor loading with a pre-built provider.
	Host *hostdb.Provider
	// Scripts are the parsed project sources.
	Scripts []*gdast.ScriptFile
	// Autoloads come from the project configuration.
	Autoloads []autoload.Entry
	// ScenePaths are scene files to pre-load into the cache.
	ScenePaths []string
	Logger     logging.Logger
}

// NewSession builds the canonical federation ordered host, project,
// autoloads, scene, fallback, wires the injector and the lazy
// inference hooks, and rebuilds the project cache.
func NewSession(opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop
	}

	host := opts.Host
	if host == nil {
		switch {
		case opts.HostDescriptorPath == "":
			host = hostdb.New()
		case strings.HasSuffix(opts.HostDescriptorPath, ".db"),
			strings.HasSuffix(opts.HostDescriptorPath, ".sqlite"):
			var err error
			host, err = hostdb.LoadSQLite(opts.HostDescriptorPath)
			if err != nil {
				return nil, fmt.Errorf("gdtypes: %w", err)
			}
		default:
			var err error
			host, err = hostdb.LoadJSON(opts.HostDescriptorPath)
			if err != nil {
				return nil, fmt.Errorf("gdtypes: %w", err)
			}
		}
	}

	proj := project.NewProvider(log)
	proj.RebuildCache(opts.Scripts)

	scenes := scene.NewProvider(proj, log)
	for _, path := range opts.ScenePaths {
		scenes.LoadScene(path)
	}

	autoloads := autoload.NewProvider(opts.Autoloads, opts.Scripts, scenes)
	fallback := providers.NewFallbackProvider()
	composite := providers.NewComposite(host, proj, autoloads, scenes, fallback)
	injector := inject.New(composite, scenes, proj, log)

	proj.SetReturnInferrer(inference.NewReturnInferrer(composite, injector, log))
	proj.SetInitializerInferrer(inference.NewInitializerInferrer(composite, injector, log))

	return &Session{
		Host:      host,
		Project:   proj,
		Autoloads: autoloads,
		Scenes:    scenes,
		Fallback:  fallback,
		Composite: composite,
		Injector:  injector,
		log:       log,
	}, nil
}

// RebuildCache refreshes the project cache after AST mutations.
// Callers must quiesce engines first and drop any engine created
// before the rebuild.
func (s *Session) RebuildCache(scripts []*gdast.ScriptFile) {
	s.Project.RebuildCache(scripts)
}

// NewEngine creates an engine positioned at the given node of the
// given file.
func (s *Session) NewEngine(file *gdast.ScriptFile, at gdast.Node) *inference.Engine {
	engine := inference.NewEngine(s.Composite, symbols.BuildForNode(file, at), s.Injector, s.log)
	engine.SetSourceFile(file)
	return engine
}

// TypeOf answers one expression with a confidence-qualified result.
func (s *Session) TypeOf(file *gdast.ScriptFile, expr gdast.Expression) report.InferredType {
	engine := s.NewEngine(file, expr)
	name := engine.InferType(expr)
	return qualify(name, expr)
}

// NewReportBuilder creates a project report builder bound to this
// session's inference.
func (s *Session) NewReportBuilder() *report.Builder {
	return report.NewBuilder(s.Project, sessionResolver{s})
}

type sessionResolver struct{ s *Session }

func (r sessionResolver) MethodReturnType(owner *project.ProjectTypeInfo, method *project.MethodInfo) string {
	if name := method.ReturnTypeName(); name != "" {
		return name
	}
	if method.Decl == nil {
		return ""
	}
	engine := r.s.NewEngine(owner.File, method.Decl)
	return engine.CollectReturnTypes(method.Decl)
}

// qualify maps a raw inference result onto the confidence ladder:
// literals are certain, single concrete names high, unions medium,
// Variant low, and nothing unknown.
func qualify(name string, expr gdast.Expression) report.InferredType {
	switch {
	case name == "":
		return report.InferredType{Confidence: report.Unknown, Reason: "no provider could type the expression"}
	case isLiteral(expr):
		return report.InferredType{TypeName: name, Confidence: report.Certain, Reason: "literal"}
	case strings.Contains(name, " | "):
		return report.InferredType{TypeName: name, Confidence: report.Medium, Reason: "union of observed types"}
	case name == "Variant":
		return report.InferredType{TypeName: name, Confidence: report.Low, Reason: "variant fallback"}
	}
	return report.InferredType{TypeName: name, Confidence: report.High, Reason: "provider lookup"}
}

func isLiteral(expr gdast.Expression) bool {
	switch expr.(type) {
	case *gdast.NumberLiteral, *gdast.StringLiteral, *gdast.BoolLiteral, *gdast.NullLiteral:
		return true
	}
	return false
}
