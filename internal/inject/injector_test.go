package inject

import (
	"testing"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/project"
	"github.com/elamaunt/gdshrapt-go/internal/scene"
)

func TestLoadedResourceCategories(t *testing.T) {
	inj := New(nil, nil, nil, nil)
	tests := []struct {
		path string
		want string
	}{
		{"res://enemy.tscn", "PackedScene"},
		{"res://enemy.scn", "PackedScene"},
		{"res://icon.png", "Texture2D"},
		{"res://icon.svg", "Texture2D"},
		{"res://theme.wav", "AudioStream"},
		{"res://font.ttf", "Font"},
		{"res://data.json", "JSON"},
		{"res://model.glb", "PackedScene"},
		{"res://mat.tres", "Resource"},
		{"res://unknown.bin", "Resource"},
		{"res://script.gd", "GDScript"},
	}
	for _, tt := range tests {
		if got := inj.loadedResourceType(tt.path); got != tt.want {
			t.Errorf("loadedResourceType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadedScriptResolvesClass(t *testing.T) {
	file := &gdast.ScriptFile{Path: "/p/foo.gd", ResourcePath: "res://foo.gd"}
	file.Class = &gdast.ClassDeclaration{Name: "FooClass", Extends: "Node", File: file}
	proj := project.NewProvider(nil)
	proj.RebuildCache([]*gdast.ScriptFile{file})

	inj := New(nil, nil, proj, nil)
	if got := inj.loadedResourceType("res://foo.gd"); got != "FooClass" {
		t.Errorf("known script = %q, want FooClass", got)
	}
	if got := inj.loadedResourceType("res://other.gd"); got != "GDScript" {
		t.Errorf("unknown script = %q, want GDScript", got)
	}
}

func TestInstantiateResolvesSceneRoot(t *testing.T) {
	scenes := scene.NewProvider(nil, nil)
	scenes.AddScene(&scene.SceneInfo{
		ScenePath: "res://enemy.tscn",
		Nodes: []*scene.NodeInfo{
			{Name: "Enemy", Path: ".", NodeType: "CharacterBody2D"},
			{Name: "Sprite", Path: "Sprite", ParentPath: ".", NodeType: "Sprite2D"},
			{Name: "Gun", Path: "Gun", ParentPath: ".", NodeType: "Node2D"},
		},
	})
	inj := New(nil, scenes, nil, nil)

	file := &gdast.ScriptFile{ResourcePath: "res://spawner.gd"}
	file.Class = &gdast.ClassDeclaration{
		Name: "Spawner",
		Members: []gdast.Statement{
			&gdast.VariableDeclaration{
				Name:    "EnemyScene",
				IsConst: true,
				Initializer: &gdast.CallExpression{
					Callee:    &gdast.Identifier{Name: "preload"},
					Arguments: []gdast.Expression{&gdast.StringLiteral{Value: "res://enemy.tscn"}},
				},
			},
			&gdast.VariableDeclaration{
				Name: "instance",
				Initializer: &gdast.CallExpression{
					Callee: &gdast.MemberAccess{
						Target: &gdast.CallExpression{
							Callee:    &gdast.Identifier{Name: "preload"},
							Arguments: []gdast.Expression{&gdast.StringLiteral{Value: "res://enemy.tscn"}},
						},
						Member: "instantiate",
					},
				},
			},
		},
		File: file,
	}

	// preload("res://enemy.tscn").instantiate()
	direct := &gdast.CallExpression{
		Callee: &gdast.MemberAccess{
			Target: &gdast.CallExpression{
				Callee:    &gdast.Identifier{Name: "preload"},
				Arguments: []gdast.Expression{&gdast.StringLiteral{Value: "res://enemy.tscn"}},
			},
			Member: "instantiate",
		},
	}
	if got := inj.InjectCall(direct, file); got != "CharacterBody2D" {
		t.Errorf("preload().instantiate() = %q, want CharacterBody2D", got)
	}

	// EnemyScene.instantiate() via the preload-bound constant.
	aliased := &gdast.CallExpression{
		Callee: &gdast.MemberAccess{Target: &gdast.Identifier{Name: "EnemyScene"}, Member: "instantiate"},
	}
	if got := inj.InjectCall(aliased, file); got != "CharacterBody2D" {
		t.Errorf("EnemyScene.instantiate() = %q, want CharacterBody2D", got)
	}

	// instance.get_child(1) resolves the source scene's children.
	getChild := &gdast.CallExpression{
		Callee:    &gdast.MemberAccess{Target: &gdast.Identifier{Name: "instance"}, Member: "get_child"},
		Arguments: []gdast.Expression{&gdast.NumberLiteral{Lexeme: "1"}},
	}
	if got := inj.InjectCall(getChild, file); got != "Node2D" {
		t.Errorf("instance.get_child(1) = %q, want Node2D", got)
	}
	outOfRange := &gdast.CallExpression{
		Callee:    &gdast.MemberAccess{Target: &gdast.Identifier{Name: "instance"}, Member: "get_child"},
		Arguments: []gdast.Expression{&gdast.NumberLiteral{Lexeme: "7"}},
	}
	if got := inj.InjectCall(outOfRange, file); got != "" {
		t.Errorf("out-of-range get_child = %q, want empty", got)
	}
}

func TestGetNodeWithStaticStringVariable(t *testing.T) {
	scenes := scene.NewProvider(nil, nil)
	scenes.AddScene(&scene.SceneInfo{
		ScenePath: "res://main.tscn",
		Nodes: []*scene.NodeInfo{
			{Name: "Root", Path: ".", NodeType: "Node2D", ScriptPath: "res://ctrl.gd"},
			{Name: "Door", Path: "Door", ParentPath: ".", NodeType: "Area2D"},
		},
	})
	inj := New(nil, scenes, nil, nil)

	file := &gdast.ScriptFile{ResourcePath: "res://ctrl.gd"}
	file.Class = &gdast.ClassDeclaration{
		Name: "Ctrl",
		Members: []gdast.Statement{
			&gdast.VariableDeclaration{
				Name:        "DOOR_PATH",
				IsConst:     true,
				Initializer: &gdast.StringLiteral{Value: "Door"},
			},
		},
		File: file,
	}

	viaVar := &gdast.CallExpression{
		Callee:    &gdast.MemberAccess{Target: &gdast.SelfExpression{}, Member: "get_node"},
		Arguments: []gdast.Expression{&gdast.Identifier{Name: "DOOR_PATH"}},
	}
	if got := inj.InjectCall(viaVar, file); got != "Area2D" {
		t.Errorf("get_node(DOOR_PATH) = %q, want Area2D", got)
	}
}

func TestSignalParameterTypesFromScriptAST(t *testing.T) {
	file := &gdast.ScriptFile{Path: "/p/e.gd", ResourcePath: "res://e.gd"}
	file.Class = &gdast.ClassDeclaration{
		Name:    "Emitter",
		Extends: "Node",
		Members: []gdast.Statement{
			&gdast.SignalDeclaration{Name: "hit", Parameters: []*gdast.ParameterDeclaration{
				{Name: "damage", Type: &gdast.TypeReference{Name: "int"}},
			}},
		},
		File: file,
	}
	proj := project.NewProvider(nil)
	proj.RebuildCache([]*gdast.ScriptFile{file})
	inj := New(nil, nil, proj, nil)

	params := inj.SignalParameterTypes("hit", "Emitter")
	if len(params) != 1 || params[0] != "int" {
		t.Errorf("hit params = %v, want [int]", params)
	}
	if inj.SignalParameterTypes("missing", "Emitter") != nil {
		t.Errorf("unknown signal must yield nil")
	}
}
