package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/project"
)

func TestMethodReportJSONLayout(t *testing.T) {
	mr := &MethodInferenceReport{
		ClassName:  "Player",
		MethodName: "jump",
		FilePath:   "res://player.gd",
		Line:       12,
		Parameters: map[string]*ParameterInferenceReport{
			"height": {ExplicitType: "float", Confidence: Certain},
			"silent": {
				InferredUnionType: &UnionTypeReport{
					Types:         []string{"bool"},
					EffectiveType: "bool",
				},
				CallSites:  []string{"Player.run:3"},
				Confidence: High,
			},
		},
		ReturnType:   &ReturnInferenceReport{ExplicitType: "void", Confidence: Certain},
		Dependencies: []string{"Player.land"},
	}

	var buf bytes.Buffer
	require.NoError(t, mr.Export(&buf))

	// camelCase names and skip-null serialization are normative.
	require.JSONEq(t, `{
	  "className": "Player",
	  "methodName": "jump",
	  "filePath": "res://player.gd",
	  "line": 12,
	  "parameters": {
	    "height": {"explicitType": "float", "confidence": "Certain"},
	    "silent": {
	      "inferredUnionType": {"types": ["bool"], "effectiveType": "bool"},
	      "callSites": ["Player.run:3"],
	      "confidence": "High"
	    }
	  },
	  "returnType": {"explicitType": "void", "confidence": "Certain"},
	  "dependencies": ["Player.land"]
	}`, buf.String())
	assert.NotContains(t, buf.String(), "hasCyclicDependency",
		"false flags are skipped")
	assert.NotContains(t, buf.String(), "commonBaseType",
		"absent fields are skipped")
}

func TestDependencyGraphDegreesAndCycles(t *testing.T) {
	deps := map[string][]string{
		"A.run":  {"A.step"},
		"A.step": {"A.run", "B.helper"},
		"B.helper": {},
		"C.solo":   {},
	}
	graph := BuildDependencyGraph(deps, classOfKey, methodOfKey)

	require.Len(t, graph.Nodes, 4)
	nodes := map[string]*GraphNode{}
	for _, n := range graph.Nodes {
		nodes[n.MethodKey] = n
	}

	assert.True(t, nodes["A.run"].HasCyclicDependency, "A.run sits on a cycle")
	assert.True(t, nodes["A.step"].HasCyclicDependency, "A.step sits on a cycle")
	assert.False(t, nodes["B.helper"].HasCyclicDependency)
	assert.False(t, nodes["C.solo"].HasCyclicDependency)

	assert.Equal(t, 1, nodes["A.run"].OutDegree)
	assert.Equal(t, 2, nodes["A.step"].OutDegree)
	assert.Equal(t, 1, nodes["B.helper"].InDegree)
	assert.Equal(t, "A", nodes["A.run"].ClassName)
	assert.Equal(t, "run", nodes["A.run"].MethodName)

	var cycleEdges int
	for _, edge := range graph.Edges {
		assert.Equal(t, "call", edge.Kind)
		if edge.IsPartOfCycle {
			cycleEdges++
		}
	}
	assert.Equal(t, 2, cycleEdges, "A.run→A.step and A.step→A.run")
}

func TestSelfLoopIsCyclic(t *testing.T) {
	deps := map[string][]string{"A.rec": {"A.rec"}}
	graph := BuildDependencyGraph(deps, classOfKey, methodOfKey)
	require.Len(t, graph.Nodes, 1)
	assert.True(t, graph.Nodes[0].HasCyclicDependency)
}

func TestProjectReportFromCache(t *testing.T) {
	run := &gdast.MethodDeclaration{
		Name:     "run",
		Position: gdast.Position{Line: 3},
		Body: &gdast.BlockStatement{Statements: []gdast.Statement{
			&gdast.ExpressionStatement{Expression: &gdast.CallExpression{
				Callee: &gdast.Identifier{Name: "step"},
			}},
		}},
	}
	step := &gdast.MethodDeclaration{
		Name:       "step",
		Position:   gdast.Position{Line: 9},
		ReturnType: &gdast.TypeReference{Name: "void"},
		Parameters: []*gdast.ParameterDeclaration{
			{Name: "delta", Type: &gdast.TypeReference{Name: "float"}},
		},
		Body: &gdast.BlockStatement{},
	}
	file := &gdast.ScriptFile{Path: "/p/walker.gd", ResourcePath: "res://walker.gd"}
	class := &gdast.ClassDeclaration{Name: "Walker", Extends: "Node", Members: []gdast.Statement{run, step}, File: file}
	run.Class = class
	step.Class = class
	file.Class = class

	proj := project.NewProvider(nil)
	proj.RebuildCache([]*gdast.ScriptFile{file})

	out := NewBuilder(proj, nil).BuildProject()
	require.NotEmpty(t, out.ReportID)
	require.Len(t, out.Methods, 2)

	byName := map[string]*MethodInferenceReport{}
	for _, m := range out.Methods {
		byName[m.MethodName] = m
	}
	require.Contains(t, byName, "run")
	require.Contains(t, byName, "step")

	assert.Equal(t, []string{"Walker.step"}, byName["run"].Dependencies)
	assert.Equal(t, "void", byName["step"].ReturnType.ExplicitType)
	assert.Equal(t, Certain, byName["step"].ReturnType.Confidence)
	assert.Equal(t, "float", byName["step"].Parameters["delta"].ExplicitType)
	assert.Equal(t, 3, byName["run"].Line)

	require.NotNil(t, out.Graph)
	assert.Len(t, out.Graph.Edges, 1)
	assert.False(t, byName["run"].HasCyclicDependency)
}
