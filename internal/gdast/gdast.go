// Package gdast defines the GDScript AST consumed by the inference engine.
// The parser producing these nodes lives upstream; everything here is
// read-only input. Nodes keep exact positions for IDE consumers.
package gdast

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Position
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node executed for effect.
type Statement interface {
	Node
	statementNode()
}

// ScriptFile is the root of a parsed source file.
type ScriptFile struct {
	// Path is the absolute filesystem path of the script.
	Path string
	// ResourcePath is the engine-facing path (res://…).
	ResourcePath string
	// Class is the implicit top-level class of the file.
	Class *ClassDeclaration
}

func (s *ScriptFile) Pos() Position {
	if s == nil || s.Class == nil {
		return Position{}
	}
	return s.Class.Pos()
}

// ClassDeclaration covers both the implicit file-level class and
// explicit inner classes.
type ClassDeclaration struct {
	Position   Position
	Name       string // class_name, may be empty for anonymous file classes
	Extends    string // base type name, may be empty
	ExtendsPath string // `extends "res://…"` form, mutually exclusive with Extends
	IsAbstract bool
	Members    []Statement // declarations in source order
	File       *ScriptFile // owning file, nil for detached fragments
	Outer      *ClassDeclaration
}

func (c *ClassDeclaration) Pos() Position { return c.Position }
func (c *ClassDeclaration) statementNode() {}

// Methods returns the method declarations of the class in source order.
func (c *ClassDeclaration) Methods() []*MethodDeclaration {
	var out []*MethodDeclaration
	for _, m := range c.Members {
		if md, ok := m.(*MethodDeclaration); ok {
			out = append(out, md)
		}
	}
	return out
}

// Variables returns the variable and constant declarations of the class.
func (c *ClassDeclaration) Variables() []*VariableDeclaration {
	var out []*VariableDeclaration
	for _, m := range c.Members {
		if vd, ok := m.(*VariableDeclaration); ok {
			out = append(out, vd)
		}
	}
	return out
}

// Signals returns the signal declarations of the class.
func (c *ClassDeclaration) Signals() []*SignalDeclaration {
	var out []*SignalDeclaration
	for _, m := range c.Members {
		if sd, ok := m.(*SignalDeclaration); ok {
			out = append(out, sd)
		}
	}
	return out
}

// Enums returns the enum declarations of the class.
func (c *ClassDeclaration) Enums() []*EnumDeclaration {
	var out []*EnumDeclaration
	for _, m := range c.Members {
		if ed, ok := m.(*EnumDeclaration); ok {
			out = append(out, ed)
		}
	}
	return out
}

// InnerClasses returns nested class declarations.
func (c *ClassDeclaration) InnerClasses() []*ClassDeclaration {
	var out []*ClassDeclaration
	for _, m := range c.Members {
		if cd, ok := m.(*ClassDeclaration); ok {
			out = append(out, cd)
		}
	}
	return out
}

// FindMethod returns the method with the given name, or nil.
func (c *ClassDeclaration) FindMethod(name string) *MethodDeclaration {
	for _, m := range c.Methods() {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindVariable returns the variable/constant with the given name, or nil.
func (c *ClassDeclaration) FindVariable(name string) *VariableDeclaration {
	for _, v := range c.Variables() {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// MethodDeclaration is a func declaration, including getters/setters.
type MethodDeclaration struct {
	Position   Position
	Name       string
	Parameters []*ParameterDeclaration
	ReturnType *TypeReference // nil when unannotated
	IsStatic   bool
	IsAbstract bool
	Body       *BlockStatement // nil for abstract methods
	Class      *ClassDeclaration
}

func (m *MethodDeclaration) Pos() Position  { return m.Position }
func (m *MethodDeclaration) statementNode() {}

// ParameterDeclaration is one formal parameter of a method or lambda.
type ParameterDeclaration struct {
	Position Position
	Name     string
	Type     *TypeReference // nil when unannotated
	Default  Expression     // nil when no default
	IsVararg bool
}

func (p *ParameterDeclaration) Pos() Position  { return p.Position }
func (p *ParameterDeclaration) statementNode() {}

// VariableDeclaration is `var x`, `const X`, and `@onready var x` forms.
type VariableDeclaration struct {
	Position    Position
	Name        string
	Type        *TypeReference // nil when unannotated
	Initializer Expression     // nil when absent
	IsConst     bool
	IsStatic    bool
	Class       *ClassDeclaration // nil for locals
}

func (v *VariableDeclaration) Pos() Position  { return v.Position }
func (v *VariableDeclaration) statementNode() {}

// SignalDeclaration is `signal changed(value: int)`.
type SignalDeclaration struct {
	Position   Position
	Name       string
	Parameters []*ParameterDeclaration
}

func (s *SignalDeclaration) Pos() Position  { return s.Position }
func (s *SignalDeclaration) statementNode() {}

// EnumDeclaration is `enum State { IDLE, RUNNING = 4 }`.
type EnumDeclaration struct {
	Position Position
	Name     string // empty for anonymous enums
	Values   []*EnumValue
}

func (e *EnumDeclaration) Pos() Position  { return e.Position }
func (e *EnumDeclaration) statementNode() {}

// EnumValue is a single enum constant.
type EnumValue struct {
	Position Position
	Name     string
	Value    Expression // nil when implicit
	Enum     *EnumDeclaration
}

func (e *EnumValue) Pos() Position { return e.Position }

// TypeReference is a parsed type annotation, e.g. `Array[int]`.
type TypeReference struct {
	Position Position
	Name     string           // head name: Array, Dictionary, int, …
	Args     []*TypeReference // generic arguments, usually empty
}

func (t *TypeReference) Pos() Position { return t.Position }
func (t *TypeReference) expressionNode() {}

// FullName renders the reference back to its source form.
func (t *TypeReference) FullName() string {
	if t == nil {
		return ""
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	out := t.Name + "["
	for i, a := range t.Args {
		if i > 0 {
			out += ", "
		}
		out += a.FullName()
	}
	return out + "]"
}
