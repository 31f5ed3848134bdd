package inference

import (
	"testing"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
)

func binary(op gdast.BinaryOp, left, right gdast.Expression) *gdast.BinaryExpression {
	return &gdast.BinaryExpression{Op: op, Left: left, Right: right}
}

func TestOperatorTyping(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	tests := []struct {
		name string
		expr gdast.Expression
		want string
	}{
		{"is", binary(gdast.OpIs, ident("x"), ident("Node")), "bool"},
		{"in", binary(gdast.OpIn, num("1"), ident("xs")), "bool"},
		{"less", binary(gdast.OpLess, num("1"), num("2")), "bool"},
		{"eq", binary(gdast.OpEq, str("a"), str("b")), "bool"},
		{"int plus int", binary(gdast.OpAdd, num("1"), num("2")), "int"},
		{"int plus float", binary(gdast.OpAdd, num("1"), num("2.0")), "float"},
		{"float times int", binary(gdast.OpMul, num("1.5"), num("2")), "float"},
		{"string concat", binary(gdast.OpAdd, str("a"), str("b")), "String"},
		{"bit and", binary(gdast.OpBitAnd, num("6"), num("3")), "int"},
		{"not", &gdast.UnaryExpression{Op: gdast.OpNot, Operand: ident("x")}, "bool"},
		{"neg int", &gdast.UnaryExpression{Op: gdast.OpNeg, Operand: num("4")}, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.InferType(tt.expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArrayConcatMergesElements(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	concat := binary(gdast.OpAdd,
		&gdast.ArrayLiteral{Elements: []gdast.Expression{num("1")}},
		&gdast.ArrayLiteral{Elements: []gdast.Expression{str("x")}},
	)
	if got := e.InferType(concat); got != "Array[int | String]" {
		t.Errorf("array concat = %q, want Array[int | String]", got)
	}
}

func TestCastTypesToTarget(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	cast := &gdast.CastExpression{
		Value: ident("anything"),
		Type:  &gdast.TypeReference{Name: "Node2D"},
	}
	if got := e.InferType(cast); got != "Node2D" {
		t.Errorf("as Node2D = %q", got)
	}
}

func TestTernaryForwardsBranches(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	same := &gdast.TernaryExpression{Condition: ident("c"), Then: num("1"), Otherwise: num("2")}
	if got := e.InferType(same); got != "int" {
		t.Errorf("same-branch ternary = %q", got)
	}
	mixed := &gdast.TernaryExpression{Condition: ident("c"), Then: num("1"), Otherwise: str("x")}
	if got := e.InferType(mixed); got != "int | String" {
		t.Errorf("mixed ternary = %q", got)
	}
}

func TestIndexingTable(t *testing.T) {
	typed := varDecl("m", nil)
	typed.Type = &gdast.TypeReference{Name: "Dictionary", Args: []*gdast.TypeReference{
		{Name: "String"}, {Name: "Vector2"},
	}}
	packed := varDecl("p", nil)
	packed.Type = &gdast.TypeReference{Name: "PackedFloat32Array"}
	s := varDecl("s", str("txt"))

	idxTyped := &gdast.IndexExpression{Target: ident("m"), Index: str("k")}
	idxPacked := &gdast.IndexExpression{Target: ident("p"), Index: num("0")}
	idxString := &gdast.IndexExpression{Target: ident("s"), Index: num("0")}

	file := script("idx.gd", "Idx", "Node", methodWith("run",
		typed, packed, s, exprStmt(idxTyped), exprStmt(idxPacked), exprStmt(idxString),
	))
	fix := newFixture(file)
	e := fix.engineAt(file, idxTyped)

	if got := e.InferType(idxTyped); got != "Vector2" {
		t.Errorf("Dictionary[String, Vector2] index = %q", got)
	}
	if got := e.InferType(idxPacked); got != "float" {
		t.Errorf("PackedFloat32Array index = %q", got)
	}
	if got := e.InferType(idxString); got != "String" {
		t.Errorf("String index = %q", got)
	}
}

func TestAwaitSignal(t *testing.T) {
	noParams := &gdast.AwaitExpression{Operand: member(ident("self"), "renamed")}
	oneParam := &gdast.AwaitExpression{Operand: member(ident("self"), "child_entered_tree")}
	twoParams := &gdast.AwaitExpression{Operand: member(ident("self"), "gui_input")}

	file := script("aw.gd", "Awaiter", "Node", methodWith("run",
		exprStmt(noParams), exprStmt(oneParam), exprStmt(twoParams),
	))
	fix := newFixture(file)
	e := fix.engineAt(file, noParams)

	if got := e.InferType(noParams); got != "void" {
		t.Errorf("await renamed = %q, want void", got)
	}
	if got := e.InferType(oneParam); got != "Node" {
		t.Errorf("await child_entered_tree = %q, want Node", got)
	}
	if got := e.InferType(twoParams); got != "(InputEvent, bool)" {
		t.Errorf("await gui_input = %q, want tuple display", got)
	}
}

type stubNarrowing map[string]string

func (s stubNarrowing) NarrowedType(name string, at gdast.Node) string { return s[name] }

func TestNarrowingHookWins(t *testing.T) {
	use := ident("x")
	decl := varDecl("x", num("1"))
	file := script("narrow.gd", "Narrow", "Node", methodWith("run", decl, exprStmt(use)))
	fix := newFixture(file)
	e := fix.engineAt(file, use)
	e.SetNarrowingTypeProvider(stubNarrowing{"x": "Node2D"})
	if got := e.InferType(use); got != "Node2D" {
		t.Errorf("narrowed x = %q, want Node2D", got)
	}
}

func TestGlobalFunctionRoles(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	tests := []struct {
		name string
		expr gdast.Expression
		want string
	}{
		{"min ints", call(ident("min"), num("1"), num("2")), "int"},
		{"min mixed", call(ident("min"), num("1"), num("2.5")), "float"},
		{"abs first arg", call(ident("abs"), num("3.5")), "float"},
		{"str", call(ident("str"), num("1"), str("x")), "String"},
		{"typeof", call(ident("typeof"), ident("x")), "int"},
		{"range", call(ident("range"), num("5")), "Array[int]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.InferType(tt.expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructorCalls(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	if got := e.InferType(call(ident("Vector2"), num("0"), num("0"))); got != "Vector2" {
		t.Errorf("Vector2() = %q", got)
	}
	if got := e.InferType(call(member(ident("Node2D"), "new"))); got != "Node2D" {
		t.Errorf("Node2D.new() = %q", got)
	}
}

func TestMethodReferenceIsCallable(t *testing.T) {
	use := ident("helper")
	helper := &gdast.MethodDeclaration{
		Name:       "helper",
		Parameters: []*gdast.ParameterDeclaration{{Name: "a", Type: &gdast.TypeReference{Name: "int"}}},
		ReturnType: &gdast.TypeReference{Name: "String"},
	}
	file := script("cb.gd", "CB", "Node", helper, methodWith("run", exprStmt(use)))
	fix := newFixture(file)
	e := fix.engineAt(file, use)
	// A method named without a call is a Callable value.
	if got := e.InferType(use); got != "Callable" {
		t.Errorf("method reference = %q, want Callable", got)
	}
}

func TestUserMethodReturnInferenceThroughCache(t *testing.T) {
	// speed() has no annotation; the first member query runs the
	// body collector through the project cache.
	speed := methodWith("speed",
		&gdast.ReturnStatement{Value: num("4.5")},
	)
	caller := call(member(ident("self"), "speed"))
	file := script("lazy.gd", "Lazy", "Node", speed, methodWith("run", exprStmt(caller)))
	fix := newFixture(file)
	e := fix.engineAt(file, caller)
	if got := e.InferType(caller); got != "float" {
		t.Errorf("self.speed() = %q, want float", got)
	}
	// The latch holds the inferred name for later callers.
	info := fix.proj.Lookup("Lazy")
	m := info.FindMethod("speed")
	if !m.ReturnTypeInferred() || m.ReturnTypeName() != "float" {
		t.Errorf("latch = %v/%q", m.ReturnTypeInferred(), m.ReturnTypeName())
	}
}

func TestReturnCollectorUnification(t *testing.T) {
	mixed := methodWith("mixed",
		&gdast.IfStatement{
			Branches: []gdast.IfBranch{{
				Condition: ident("cond"),
				Body: &gdast.BlockStatement{Statements: []gdast.Statement{
					&gdast.ReturnStatement{Value: num("1")},
				}},
			}},
			Else: &gdast.BlockStatement{Statements: []gdast.Statement{
				&gdast.ReturnStatement{Value: str("x")},
			}},
		},
	)
	nullable := methodWith("nullable",
		&gdast.IfStatement{
			Branches: []gdast.IfBranch{{
				Condition: ident("cond"),
				Body: &gdast.BlockStatement{Statements: []gdast.Statement{
					&gdast.ReturnStatement{Value: &gdast.NullLiteral{}},
				}},
			}},
		},
		&gdast.ReturnStatement{Value: str("x")},
	)
	file := script("rc.gd", "RC", "Node", mixed, nullable)
	fix := newFixture(file)
	e := fix.engineAt(file, nil)

	if got := e.CollectReturnTypes(mixed); got != "int | String" {
		t.Errorf("mixed returns = %q, want int | String", got)
	}
	if got := e.CollectReturnTypes(nullable); got != "String" {
		t.Errorf("nullable returns = %q, want String (null drops)", got)
	}
}

func TestRecursiveReturnInferenceTerminates(t *testing.T) {
	// a() returns b(); b() returns a(). The inflight guard breaks the
	// loop instead of recursing forever.
	a := methodWith("a", &gdast.ReturnStatement{Value: call(ident("b"))})
	b := methodWith("b", &gdast.ReturnStatement{Value: call(ident("a"))})
	file := script("rec.gd", "Rec", "Node", a, b)
	fix := newFixture(file)
	e := fix.engineAt(file, nil)
	// Must terminate; the unresolved cycle yields no type.
	_ = e.CollectReturnTypes(a)
}

func TestTypeOfNodeDeclarations(t *testing.T) {
	annotated := varDecl("v", num("1"))
	annotated.Type = &gdast.TypeReference{Name: "float"}
	inferred := varDecl("w", str("x"))
	param := &gdast.ParameterDeclaration{Name: "p", Type: &gdast.TypeReference{Name: "Vector2"}}
	sig := &gdast.SignalDeclaration{Name: "fired"}
	enum := &gdast.EnumDeclaration{Name: "State", Values: []*gdast.EnumValue{{Name: "ON"}}}
	ret := &gdast.ReturnStatement{Value: num("2")}

	file := script("ton.gd", "TON", "Node",
		annotated, inferred, sig, enum,
		&gdast.MethodDeclaration{Name: "m", Parameters: []*gdast.ParameterDeclaration{param},
			Body: &gdast.BlockStatement{Statements: []gdast.Statement{ret}}},
	)
	fix := newFixture(file)
	e := fix.engineAt(file, ret)

	// Annotations always win over inference.
	if got := e.TypeOfNode(annotated); got != "float" {
		t.Errorf("annotated var = %q, want float", got)
	}
	if got := e.TypeOfNode(inferred); got != "String" {
		t.Errorf("inferred var = %q, want String", got)
	}
	if got := e.TypeOfNode(param); got != "Vector2" {
		t.Errorf("param = %q", got)
	}
	if got := e.TypeOfNode(sig); got != "Signal" {
		t.Errorf("signal = %q", got)
	}
	if got := e.TypeOfNode(enum); got != "TON.State" {
		t.Errorf("enum = %q, want TON.State", got)
	}
	if got := e.TypeOfNode(ret); got != "int" {
		t.Errorf("return = %q", got)
	}
	if got := e.TypeOfNode(&gdast.ReturnStatement{}); got != "void" {
		t.Errorf("bare return = %q, want void", got)
	}
}

func TestClearCacheKeepsAnswersStable(t *testing.T) {
	expr := binary(gdast.OpAdd, num("1"), num("2.0"))
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)
	first := e.InferType(expr)
	e.ClearCache()
	second := e.InferType(expr)
	if first != second || first != "float" {
		t.Errorf("ClearCache changed the answer: %q vs %q", first, second)
	}
}

func TestInferTypeNodeShapes(t *testing.T) {
	fix := newFixture()
	e := NewEngine(fix.composite, nil, fix.injector, nil)

	arr := &gdast.ArrayLiteral{Elements: []gdast.Expression{num("1")}}
	ref := e.InferTypeNode(arr)
	if ref == nil || ref.Name != "Array" || len(ref.Args) != 1 || ref.Args[0].Name != "int" {
		t.Fatalf("Array[int] node = %+v", ref)
	}

	// Union names cannot be expressed as type nodes.
	mixed := &gdast.TernaryExpression{Condition: ident("c"), Then: num("1"), Otherwise: str("x")}
	if got := e.InferTypeNode(mixed); got != nil {
		t.Errorf("union type node = %+v, want nil", got)
	}
}

func TestExpectedType(t *testing.T) {
	target := varDecl("count", num("1"))
	rhs := ident("value")
	assign := &gdast.AssignStatement{Target: ident("count"), Value: rhs}

	annotated := varDecl("v", str("x"))
	annotated.Type = &gdast.TypeReference{Name: "String"}

	retVal := num("7")
	retStmt := &gdast.ReturnStatement{Value: retVal}

	argExpr := ident("n")
	addChild := call(member(ident("self"), "add_child"), argExpr)

	run := &gdast.MethodDeclaration{
		Name:       "run",
		ReturnType: &gdast.TypeReference{Name: "int"},
		Body: &gdast.BlockStatement{Statements: []gdast.Statement{
			target, assign, annotated, exprStmt(addChild), retStmt,
		}},
	}
	file := script("exp.gd", "Exp", "Node", run)
	run.Class = file.Class
	fix := newFixture(file)
	e := fix.engineAt(file, rhs)

	if got := e.ExpectedType(rhs); got != "int" {
		t.Errorf("assignment RHS expects %q, want int (type of count)", got)
	}
	if got := e.ExpectedType(annotated.Initializer); got != "String" {
		t.Errorf("initializer expects %q, want String", got)
	}
	if got := e.ExpectedType(argExpr); got != "Node" {
		t.Errorf("argument expects %q, want Node", got)
	}
	if got := e.ExpectedType(retVal); got != "int" {
		t.Errorf("return expects %q, want int", got)
	}
}

func TestDeterministicAnswers(t *testing.T) {
	use := ident("position")
	file := script("det.gd", "Det", "Node", methodWith("run", exprStmt(use)))
	fix := newFixture(file)
	for i := 0; i < 3; i++ {
		e := fix.engineAt(file, use)
		if got := e.InferType(use); got != "Vector2" {
			t.Fatalf("run %d: position = %q", i, got)
		}
	}
}
