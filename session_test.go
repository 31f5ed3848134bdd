package gdtypes

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/elamaunt/gdshrapt-go/internal/autoload"
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/report"
)

// projectFixture lays out the on-disk half of a project (descriptor,
// config, scenes) as a txtar archive.
const projectFixture = `
-- types.json --
{
  "version": "4.2",
  "classes": [
    {"name": "Object", "base": "Object"},
    {"name": "Node", "base": "Object",
     "properties": [{"name": "position", "type": "Vector2"}]},
    {"name": "Node2D", "base": "Node"},
    {"name": "ProgressBar", "base": "Node"}
  ]
}
-- project.types.yaml --
host_descriptor: types.json
autoload:
  - name: GameState
    path: res://game_state.gd
    enabled: true
    kind: script
-- main.tscn --
[gd_scene format=3]

[ext_resource type="Script" path="res://player.gd" id="1_p"]

[node name="Root" type="Node2D"]
script = ExtResource("1_p")

[node name="Bar" type="ProgressBar" parent="."]
unique_name_in_owner = true
`

func extractFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	archive := txtar.Parse([]byte(projectFixture))
	for _, f := range archive.Files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatalf("extract %s: %v", f.Name, err)
		}
	}
	return dir
}

func playerScript(scenePath string) *gdast.ScriptFile {
	file := &gdast.ScriptFile{Path: scenePath, ResourcePath: "res://player.gd"}
	file.Class = &gdast.ClassDeclaration{
		Name:    "Player",
		Extends: "Node2D",
		Members: []gdast.Statement{
			&gdast.MethodDeclaration{Name: "run", Body: &gdast.BlockStatement{}},
		},
		File: file,
	}
	file.Class.Methods()[0].Class = file.Class
	return file
}

func gameStateScript() *gdast.ScriptFile {
	file := &gdast.ScriptFile{ResourcePath: "res://game_state.gd"}
	file.Class = &gdast.ClassDeclaration{
		Extends: "Node",
		Members: []gdast.Statement{
			&gdast.VariableDeclaration{Name: "score", Type: &gdast.TypeReference{Name: "int"}},
		},
		File: file,
	}
	return file
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	dir := extractFixture(t)
	cfg, err := autoload.LoadConfig(filepath.Join(dir, "project.types.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	session, err := NewSession(Options{
		HostDescriptorPath: filepath.Join(dir, cfg.HostDescriptor),
		Scripts:            []*gdast.ScriptFile{playerScript(filepath.Join(dir, "player.gd")), gameStateScript()},
		Autoloads:          cfg.Autoload,
		ScenePaths:         []string{filepath.Join(dir, "main.tscn")},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestSessionFederationOrder(t *testing.T) {
	s := newTestSession(t)

	// Host types, project classes and builtins all answer through the
	// one composite.
	for _, name := range []string{"Node", "Player", "Vector2", "Array"} {
		if !s.Composite.IsKnownType(name) {
			t.Errorf("composite should know %q", name)
		}
	}
	// The autoload singleton answers by name but stays out of the
	// type listing.
	if s.Composite.GetGlobalClass("GameState") == nil {
		t.Errorf("GameState autoload not visible")
	}
	for _, name := range s.Composite.GetAllTypes() {
		if name == "GameState" {
			t.Errorf("autoloads must not appear in GetAllTypes")
		}
	}
	// Cross-provider inheritance: Player extends the host's Node2D.
	if !s.Composite.IsAssignableTo("Player", "Object") {
		t.Errorf("Player should be assignable to Object")
	}
}

func TestSessionTypeOfQualifiesConfidence(t *testing.T) {
	s := newTestSession(t)
	file := s.Project.Scripts()[0]

	lit := &gdast.NumberLiteral{Lexeme: "4"}
	res := s.TypeOf(file, lit)
	if res.TypeName != "int" || res.Confidence != report.Certain {
		t.Errorf("literal = %+v, want certain int", res)
	}

	unknown := s.TypeOf(file, &gdast.Identifier{Name: "nothing_here"})
	if unknown.Confidence != report.Unknown {
		t.Errorf("unknown = %+v", unknown)
	}
}

func TestSessionSceneInjection(t *testing.T) {
	s := newTestSession(t)
	player := s.Project.Scripts()[0]

	engine := s.NewEngine(player, nil)
	// The parsed scene attaches player.gd at the root; %Bar resolves
	// through the unique-node index.
	if got := engine.InferType(&gdast.NodePathExpression{Path: "Bar", IsUnique: true}); got != "ProgressBar" {
		t.Errorf("%%Bar = %q, want ProgressBar", got)
	}
	if got := engine.InferType(&gdast.NodePathExpression{Path: "Bar"}); got != "ProgressBar" {
		t.Errorf("$Bar = %q, want ProgressBar", got)
	}
}

func TestSessionRebuildInvalidates(t *testing.T) {
	s := newTestSession(t)
	if !s.Composite.IsKnownType("Player") {
		t.Fatal("Player missing before rebuild")
	}
	s.RebuildCache(nil)
	if s.Composite.IsKnownType("Player") {
		t.Errorf("Player should be gone after rebuilding with no scripts")
	}
	s.RebuildCache([]*gdast.ScriptFile{playerScript("/p/player.gd")})
	if !s.Composite.IsKnownType("Player") {
		t.Errorf("Player should be back after the second rebuild")
	}
}

func TestSessionReportBuilder(t *testing.T) {
	s := newTestSession(t)
	out := s.NewReportBuilder().BuildProject()
	if len(out.Methods) == 0 {
		t.Fatal("no method reports built")
	}
	found := false
	for _, m := range out.Methods {
		if m.ClassName == "Player" && m.MethodName == "run" {
			found = true
		}
	}
	if !found {
		t.Errorf("Player.run missing from the report")
	}
}
