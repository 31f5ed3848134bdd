// Package project builds and maintains the class cache over every
// parsed project source. Classes, inner classes and enums are indexed
// by name, by path and by preload-constant alias; members without
// annotations carry AST back-references and are typed lazily on first
// query, safely under concurrent readers.
package project

import (
	"sync"
	"sync/atomic"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
)

// MethodInfo is one method of a project class. The return type is
// either the declared annotation or a lazily inferred name; the latch
// flips exactly once. Readers check the latch through an atomic so the
// inferred name is published with happens-before, writers serialize on
// the per-method mutex.
type MethodInfo struct {
	Name       string
	Parameters []providers.ParameterInfo
	IsStatic   bool
	IsAbstract bool
	Decl       *gdast.MethodDeclaration

	declaredReturn string
	inferredReturn string
	inferred       atomic.Bool
	mu             sync.Mutex
}

// ReturnTypeName returns the declared annotation, the inferred name
// once the latch is set, or "" while unresolved.
func (m *MethodInfo) ReturnTypeName() string {
	if m.declaredReturn != "" {
		return m.declaredReturn
	}
	if m.inferred.Load() {
		return m.inferredReturn
	}
	return ""
}

// HasDeclaredReturn reports whether the source carried an annotation.
func (m *MethodInfo) HasDeclaredReturn() bool { return m.declaredReturn != "" }

// ReturnTypeInferred reports whether lazy inference already ran.
func (m *MethodInfo) ReturnTypeInferred() bool { return m.inferred.Load() }

// setInferredReturn publishes the inference result. Empty, Variant and
// null results leave the stored name unchanged but still set the latch
// so later callers do not retry.
func (m *MethodInfo) setInferredReturn(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inferred.Load() {
		return
	}
	if name != "" && name != "Variant" && name != "null" {
		m.inferredReturn = name
	}
	m.inferred.Store(true)
}

// PropertyInfo is one property or constant of a project class. An
// unannotated property keeps its initializer for lazy inference; a
// constant always keeps it, since constant values feed literal-key
// lookups and preload aliasing.
type PropertyInfo struct {
	Name        string
	IsConst     bool
	IsStatic    bool
	Decl        *gdast.VariableDeclaration
	Initializer gdast.Expression

	declaredType string
	inferredType string
	inferred     atomic.Bool
	mu           sync.Mutex
}

// TypeName returns the declared annotation or the lazily inferred
// name; "" while unresolved.
func (p *PropertyInfo) TypeName() string {
	if p.declaredType != "" {
		return p.declaredType
	}
	if p.inferred.Load() {
		return p.inferredType
	}
	return ""
}

// HasDeclaredType reports whether the source carried an annotation.
func (p *PropertyInfo) HasDeclaredType() bool { return p.declaredType != "" }

// TypeInferred reports whether lazy inference already ran.
func (p *PropertyInfo) TypeInferred() bool { return p.inferred.Load() }

func (p *PropertyInfo) setInferredType(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inferred.Load() {
		return
	}
	if name != "" && name != "Variant" {
		p.inferredType = name
	}
	p.inferred.Store(true)
}

// SignalInfo is one declared signal.
type SignalInfo struct {
	Name       string
	ParamTypes []string
	Decl       *gdast.SignalDeclaration
}

// EnumInfo is one named enum with its value constants.
type EnumInfo struct {
	Name   string
	Values []string
	Decl   *gdast.EnumDeclaration
}

// ProjectTypeInfo describes one project class (or one qualified enum
// surfaced as an int-backed pseudo-class).
type ProjectTypeInfo struct {
	Name          string
	QualifiedName string // "Outer.Inner" for inner classes, else Name
	ScriptPath    string
	ResourcePath  string
	BaseTypeName  string
	BasePath      string // `extends "res://…"` form
	IsAbstract    bool
	IsEnum        bool
	Methods       []*MethodInfo
	Properties    []*PropertyInfo
	Signals       []*SignalInfo
	Enums         []*EnumInfo
	InnerClasses  []string
	Decl          *gdast.ClassDeclaration
	File          *gdast.ScriptFile
}

// FindMethod returns the directly-declared method, or nil.
func (t *ProjectTypeInfo) FindMethod(name string) *MethodInfo {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindProperty returns the directly-declared property, or nil.
func (t *ProjectTypeInfo) FindProperty(name string) *PropertyInfo {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindSignal returns the directly-declared signal, or nil.
func (t *ProjectTypeInfo) FindSignal(name string) *SignalInfo {
	for _, s := range t.Signals {
		if s.Name == name {
			return s
		}
	}
	return nil
}
