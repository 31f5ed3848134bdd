package scene

import (
	"os"
	"path/filepath"
	"testing"
)

const sceneFixture = `[gd_scene load_steps=3 format=3 uid="uid://c1"]

[ext_resource type="Script" path="res://player.gd" id="1_p"]
[ext_resource type="Script" path="res://hud.gd" id="2_h"]

[node name="Root" type="Node2D"]
script = ExtResource("1_p")

[node name="Enemy" type="CharacterBody2D" parent="."]

[node name="Weapon" type="Sprite2D" parent="Enemy"]

[node name="HUD" type="CanvasLayer" parent="."]
script = ExtResource("2_h")
unique_name_in_owner = true

[connection signal="pressed" from="HUD" to="." method="_on_pressed"]
`

func writeScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	path := writeScene(t, "main.tscn", sceneFixture)
	info, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(info.Nodes) != 4 {
		t.Fatalf("parsed %d nodes, want 4", len(info.Nodes))
	}

	root := info.Root()
	if root == nil || root.Name != "Root" || root.Path != "." {
		t.Fatalf("root = %+v", root)
	}
	if root.ScriptPath != "res://player.gd" {
		t.Errorf("root script = %q", root.ScriptPath)
	}

	enemy := info.NodeAt("Enemy")
	if enemy == nil || enemy.NodeType != "CharacterBody2D" {
		t.Fatalf("Enemy = %+v", enemy)
	}
	weapon := info.NodeAt("Enemy/Weapon")
	if weapon == nil || weapon.ParentPath != "Enemy" {
		t.Fatalf("Enemy/Weapon = %+v", weapon)
	}

	hud := info.UniqueNode("HUD")
	if hud == nil || !hud.IsUnique {
		t.Fatalf("HUD unique marker missing: %+v", hud)
	}
	if hud.ScriptPath != "res://hud.gd" {
		t.Errorf("HUD script = %q", hud.ScriptPath)
	}

	if len(info.Connections) != 1 || info.Connections[0].Signal != "pressed" {
		t.Errorf("connections = %+v", info.Connections)
	}
	if enemy.Line == 0 || weapon.Line <= enemy.Line {
		t.Errorf("line numbers not tracked: enemy=%d weapon=%d", enemy.Line, weapon.Line)
	}
}

type stubResolver map[string]string

func (s stubResolver) ClassAtPath(path string) (string, bool) {
	class, ok := s[path]
	return class, ok
}

func TestProviderQueries(t *testing.T) {
	path := writeScene(t, "main.tscn", sceneFixture)
	p := NewProvider(stubResolver{"res://player.gd": "Player"}, nil)
	if p.LoadScene(path) == nil {
		t.Fatal("LoadScene failed")
	}

	// Script class wins over the node type.
	if typ := p.GetNodeType(path, "."); typ != "Player" {
		t.Errorf("root type = %q, want Player", typ)
	}
	// Unresolvable script falls back to the node type.
	if typ := p.GetNodeType(path, "HUD"); typ != "CanvasLayer" {
		t.Errorf("HUD type = %q, want CanvasLayer", typ)
	}
	if typ := p.GetNodeType(path, "Enemy"); typ != "CharacterBody2D" {
		t.Errorf("Enemy type = %q", typ)
	}
	if typ := p.GetUniqueNodeType(path, "HUD"); typ != "CanvasLayer" {
		t.Errorf("unique HUD = %q", typ)
	}
	if typ := p.GetRootNodeType(path); typ != "Player" {
		t.Errorf("root node type = %q", typ)
	}

	attachments := p.GetScenesForScript("res://player.gd")
	if len(attachments) != 1 || attachments[0].NodePath != "." {
		t.Errorf("attachments = %+v", attachments)
	}

	children := p.GetDirectChildren(path, ".")
	if len(children) != 2 {
		t.Fatalf("root children = %d, want 2", len(children))
	}
	if children[0].Name != "Enemy" || children[1].Name != "HUD" {
		t.Errorf("children order = %s, %s", children[0].Name, children[1].Name)
	}
}

func TestLoadSceneParseFailureStaysAbsent(t *testing.T) {
	p := NewProvider(nil, nil)
	if p.LoadScene("/does/not/exist.tscn") != nil {
		t.Fatal("missing scene should not load")
	}
	if p.Scene("/does/not/exist.tscn") != nil {
		t.Errorf("failed scene must stay out of the cache")
	}
}

func TestComputeRenameDelta(t *testing.T) {
	before := &SceneInfo{Nodes: []*NodeInfo{
		{Name: "Root", Path: ".", Line: 5},
		{Name: "Enemy", Path: "Enemy", Line: 8},
		{Name: "HUD", Path: "HUD", Line: 11},
	}}
	after := &SceneInfo{Nodes: []*NodeInfo{
		{Name: "Root", Path: ".", Line: 5},
		{Name: "Boss", Path: "Boss", Line: 8},
		{Name: "HUD", Path: "HUD", Line: 11},
	}}
	delta := ComputeRenameDelta(before, after)
	if len(delta) != 1 || delta["Enemy"] != "Boss" {
		t.Errorf("delta = %v, want Enemy→Boss", delta)
	}
	if ComputeRenameDelta(nil, after) != nil {
		t.Errorf("nil snapshots yield no delta")
	}
}

func TestEmbeddedScriptNotAttached(t *testing.T) {
	const embedded = `[gd_scene format=3]

[ext_resource type="Script" path="res://real.gd" id="1_s"]

[node name="Root" type="Node"]

[sub_resource type="GDScript" id="g1"]
script = ExtResource("1_s")
`
	path := writeScene(t, "e.tscn", embedded)
	info, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	// The script line sits inside the sub_resource block that follows
	// the node, so no attachment happens even though the id resolves.
	if info.Root() == nil {
		t.Fatal("root missing")
	}
	if info.Root().ScriptPath != "" {
		t.Errorf("embedded script must not attach: %q", info.Root().ScriptPath)
	}
}
