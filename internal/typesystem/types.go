// Package typesystem models the semantic types the inference engine
// trades in. Dynamic typing makes Variant both top and bottom of the
// assignability order, so the sum keeps Variant and Null as their own
// cases instead of folding them into concrete names.
package typesystem

import (
	"sort"
	"strings"
)

// Type is the interface for all semantic types.
type Type interface {
	// Name renders the type as the engine's canonical display name
	// (e.g. "Array[int]", "Callable[[int], int]", "int | String").
	Name() string
	typeNode()
}

// TConcrete is a named nominal type: a class, primitive, or enum.
type TConcrete struct {
	TypeName string
}

func (t TConcrete) Name() string { return t.TypeName }
func (t TConcrete) typeNode()    {}

// TVariant is the universal top type; assignable in both directions.
type TVariant struct{}

func (TVariant) Name() string { return "Variant" }
func (TVariant) typeNode()    {}

// TNull is the type of the null literal.
type TNull struct{}

func (TNull) Name() string { return "null" }
func (TNull) typeNode()    {}

// TArray is a typed array, Array[Elem]. Elem may be nil for the raw
// Array type when constructed through ParseName("Array").
type TArray struct {
	Elem Type
}

func (t TArray) Name() string {
	if t.Elem == nil {
		return "Array"
	}
	return "Array[" + t.Elem.Name() + "]"
}
func (t TArray) typeNode() {}

// TDictionary is a typed dictionary, Dictionary[Key, Value].
type TDictionary struct {
	Key   Type
	Value Type
}

func (t TDictionary) Name() string {
	if t.Key == nil || t.Value == nil {
		return "Dictionary"
	}
	return "Dictionary[" + t.Key.Name() + ", " + t.Value.Name() + "]"
}
func (t TDictionary) typeNode() {}

// TCallable is a fully-shaped callable, Callable[[P1, …], R].
// A nil Return renders as void, and ParseName reads a void return back
// as nil.
type TCallable struct {
	Params []Type
	Return Type
}

func (t TCallable) Name() string {
	if len(t.Params) == 0 && (t.Return == nil || t.Return.Name() == "void") {
		return "Callable"
	}
	var b strings.Builder
	b.WriteString("Callable[[")
	for i, p := range t.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p == nil {
			b.WriteString("Variant")
		} else {
			b.WriteString(p.Name())
		}
	}
	b.WriteString("], ")
	if t.Return == nil {
		b.WriteString("void")
	} else {
		b.WriteString(t.Return.Name())
	}
	b.WriteString("]")
	return b.String()
}
func (t TCallable) typeNode() {}

// TUnion is an unordered set of alternatives. Display keeps insertion
// order, deduplicated, so inference stays deterministic.
type TUnion struct {
	Members []Type
}

func (t TUnion) Name() string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.Name())
	}
	return strings.Join(names, " | ")
}
func (t TUnion) typeNode() {}

// Concrete wraps a name, mapping the Variant/null spellings onto their
// dedicated cases.
func Concrete(name string) Type {
	switch name {
	case "", "Variant":
		return TVariant{}
	case "null":
		return TNull{}
	}
	return TConcrete{TypeName: name}
}

// IsVariantName reports whether the name denotes Variant (or nothing).
func IsVariantName(name string) bool {
	return name == "" || name == "Variant"
}

// Union builds a union from the given members, flattening nested
// unions and dropping duplicates. A Variant member absorbs the union.
func Union(members ...Type) Type {
	var flat []Type
	seen := map[string]bool{}
	var add func(t Type)
	add = func(t Type) {
		switch v := t.(type) {
		case nil:
			return
		case TVariant:
			flat = []Type{TVariant{}}
			seen = map[string]bool{"Variant": true}
		case TUnion:
			for _, m := range v.Members {
				add(m)
			}
		default:
			if len(flat) == 1 {
				if _, isTop := flat[0].(TVariant); isTop {
					return
				}
			}
			if !seen[t.Name()] {
				seen[t.Name()] = true
				flat = append(flat, t)
			}
		}
	}
	for _, m := range members {
		add(m)
	}
	switch len(flat) {
	case 0:
		return TVariant{}
	case 1:
		return flat[0]
	}
	return TUnion{Members: flat}
}

// UnionName joins type names at the display layer: "int | String".
// Empty and duplicate names are dropped; a single survivor is returned
// bare.
func UnionName(names []string) string {
	seen := map[string]bool{}
	var kept []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		kept = append(kept, n)
	}
	return strings.Join(kept, " | ")
}

// Unify merges two observed types into the narrowest common answer:
// null against T yields T, equal types collapse, Variant absorbs, and
// anything else becomes a union.
func Unify(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if _, ok := a.(TNull); ok {
		return b
	}
	if _, ok := b.(TNull); ok {
		return a
	}
	if a.Name() == b.Name() {
		return a
	}
	if _, ok := a.(TVariant); ok {
		return a
	}
	if _, ok := b.(TVariant); ok {
		return b
	}
	return Union(a, b)
}

// UnifyAll folds Unify over a slice. Empty input yields nil.
func UnifyAll(types []Type) Type {
	var acc Type
	for _, t := range types {
		acc = Unify(acc, t)
	}
	return acc
}

// CommonName unifies a set of observed names per the return-collector
// rules: one name wins outright, null drops against non-null, and the
// remainder renders as a pipe-joined union string.
func CommonName(names []string) string {
	seen := map[string]bool{}
	var kept []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		kept = append(kept, n)
	}
	if len(kept) == 0 {
		return ""
	}
	if len(kept) == 1 {
		return kept[0]
	}
	var nonNull []string
	for _, n := range kept {
		if n != "null" {
			nonNull = append(nonNull, n)
		}
	}
	if len(nonNull) == 1 {
		return nonNull[0]
	}
	if len(nonNull) == 0 {
		return "null"
	}
	return strings.Join(nonNull, " | ")
}

// SortedNames returns the names of a type set in deterministic order.
func SortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
