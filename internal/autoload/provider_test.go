package autoload

import (
	"testing"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
	"github.com/elamaunt/gdshrapt-go/internal/scene"
)

const configFixture = `
host_descriptor: res://types.json
source_dirs:
  - res://src
autoload:
  - name: GameState
    path: res://game_state.gd
    enabled: true
    kind: script
  - name: Music
    path: res://music.tscn
    enabled: true
    kind: scene
  - name: Disabled
    path: res://off.gd
    enabled: false
    kind: script
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(configFixture))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HostDescriptor != "res://types.json" {
		t.Errorf("host descriptor = %q", cfg.HostDescriptor)
	}
	if len(cfg.Autoload) != 3 {
		t.Fatalf("entries = %d, want 3", len(cfg.Autoload))
	}
	if !cfg.Autoload[0].IsScript() || !cfg.Autoload[1].IsScene() {
		t.Errorf("kinds parsed wrong: %+v", cfg.Autoload)
	}
}

func TestParseConfigRejectsBadEntries(t *testing.T) {
	bad := []string{
		"autoload:\n  - path: res://x.gd\n    kind: script\n",
		"autoload:\n  - name: X\n    kind: script\n",
		"autoload:\n  - name: X\n    path: res://x.gd\n    kind: plugin\n",
	}
	for _, doc := range bad {
		if _, err := ParseConfig([]byte(doc)); err == nil {
			t.Errorf("config %q should be rejected", doc)
		}
	}
}

func gameStateScript() *gdast.ScriptFile {
	file := &gdast.ScriptFile{ResourcePath: "res://game_state.gd"}
	file.Class = &gdast.ClassDeclaration{
		Extends: "Node",
		Members: []gdast.Statement{
			&gdast.VariableDeclaration{Name: "score", Type: &gdast.TypeReference{Name: "int"}},
			&gdast.VariableDeclaration{Name: "VERSION", IsConst: true, Type: &gdast.TypeReference{Name: "String"}},
			&gdast.SignalDeclaration{Name: "score_changed", Parameters: []*gdast.ParameterDeclaration{
				{Name: "value", Type: &gdast.TypeReference{Name: "int"}},
			}},
			&gdast.MethodDeclaration{
				Name: "add_score",
				Parameters: []*gdast.ParameterDeclaration{
					{Name: "amount", Type: &gdast.TypeReference{Name: "int"}},
					{Name: "silent", Type: &gdast.TypeReference{Name: "bool"}, Default: &gdast.BoolLiteral{Value: false}},
				},
				ReturnType: &gdast.TypeReference{Name: "void"},
			},
		},
		File: file,
	}
	return file
}

func TestScriptAutoloadSynthesis(t *testing.T) {
	entries := []Entry{
		{Name: "GameState", Path: "res://game_state.gd", Enabled: true, Kind: KindScript},
		{Name: "Disabled", Path: "res://off.gd", Enabled: false, Kind: KindScript},
	}
	p := NewProvider(entries, []*gdast.ScriptFile{gameStateScript()}, nil)

	if !p.IsKnownType("GameState") {
		t.Fatal("enabled autoload unknown")
	}
	if p.IsKnownType("Disabled") {
		t.Errorf("disabled autoload must stay unknown")
	}

	info := p.GetTypeInfo("GameState")
	if info == nil || !info.IsSingleton || info.BaseType != "Node" {
		t.Fatalf("info = %+v", info)
	}

	method := p.GetMember("GameState", "add_score")
	if method == nil || method.Kind != providers.KindMethod {
		t.Fatalf("add_score = %+v", method)
	}
	// One parameter carries a default: min 1, max 2.
	if method.MinArgs != 1 || method.MaxArgs != 2 {
		t.Errorf("add_score args = %d/%d, want 1/2", method.MinArgs, method.MaxArgs)
	}

	constant := p.GetMember("GameState", "VERSION")
	if constant == nil || constant.Kind != providers.KindConstant {
		t.Errorf("VERSION = %+v, want a constant", constant)
	}
	prop := p.GetMember("GameState", "score")
	if prop == nil || prop.Kind != providers.KindProperty {
		t.Errorf("score = %+v, want a property", prop)
	}
	sig := p.GetMember("GameState", "score_changed")
	if sig == nil || sig.Kind != providers.KindSignal || len(sig.SignalParamTypes) != 1 {
		t.Errorf("score_changed = %+v", sig)
	}
}

func TestSceneAutoloadFallsBackToRootType(t *testing.T) {
	scenes := scene.NewProvider(nil, nil)
	scenes.AddScene(&scene.SceneInfo{
		ScenePath: "res://music.tscn",
		Nodes:     []*scene.NodeInfo{{Name: "Music", Path: ".", NodeType: "AudioStreamPlayer"}},
	})
	p := NewProvider([]Entry{
		{Name: "Music", Path: "res://music.tscn", Enabled: true, Kind: KindScene},
	}, nil, scenes)

	info := p.GetTypeInfo("Music")
	if info == nil || info.BaseType != "AudioStreamPlayer" {
		t.Fatalf("scene autoload = %+v, want AudioStreamPlayer base", info)
	}
}

func TestAutoloadsStayOutOfGetAllTypes(t *testing.T) {
	p := NewProvider([]Entry{
		{Name: "GameState", Path: "res://game_state.gd", Enabled: true, Kind: KindScript},
	}, []*gdast.ScriptFile{gameStateScript()}, nil)
	if types := p.GetAllTypes(); len(types) != 0 {
		t.Errorf("GetAllTypes = %v, want empty (autoloads are instances)", types)
	}
}
