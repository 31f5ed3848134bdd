package providers

import "testing"

// stubProvider serves a fixed type table for federation tests.
type stubProvider struct {
	NopProvider
	types map[string]*TypeInfo
}

func newStub(infos ...TypeInfo) *stubProvider {
	s := &stubProvider{types: map[string]*TypeInfo{}}
	for i := range infos {
		info := infos[i]
		s.types[info.Name] = &info
	}
	return s
}

func (s *stubProvider) IsKnownType(name string) bool { return s.types[name] != nil }
func (s *stubProvider) GetTypeInfo(name string) *TypeInfo { return s.types[name] }
func (s *stubProvider) GetMember(typeName, member string) *MemberInfo {
	return s.types[typeName].FindMember(member)
}
func (s *stubProvider) GetBaseType(name string) string {
	if info := s.types[name]; info != nil {
		return info.BaseType
	}
	return ""
}
func (s *stubProvider) GetAllTypes() []string {
	var out []string
	for name := range s.types {
		out = append(out, name)
	}
	return out
}
func (s *stubProvider) FindTypesWithMethod(method string) []string {
	var out []string
	for name, info := range s.types {
		for _, m := range info.Members {
			if m.Kind == KindMethod && m.Name == method {
				out = append(out, name)
			}
		}
	}
	return out
}

func TestCompositeFirstFoundOrder(t *testing.T) {
	first := newStub(TypeInfo{Name: "Shared", BaseType: "A", Members: []MemberInfo{Property("x", "int")}})
	second := newStub(TypeInfo{Name: "Shared", BaseType: "B", Members: []MemberInfo{Property("x", "float")}})
	c := NewComposite(first, second)

	info := c.GetTypeInfo("Shared")
	if info == nil || info.BaseType != "A" {
		t.Fatalf("GetTypeInfo returned %+v, want the first provider's view", info)
	}
	if m := c.GetMember("Shared", "x"); m == nil || m.TypeName != "int" {
		t.Errorf("GetMember = %+v, want the first provider's member", m)
	}
}

func TestCompositeCrossProviderBaseWalk(t *testing.T) {
	// Project class P extends host class Node: the chain spans
	// providers, so only the composite can see it end to end.
	host := newStub(
		TypeInfo{Name: "Object"},
		TypeInfo{Name: "Node", BaseType: "Object"},
	)
	proj := newStub(TypeInfo{Name: "P", BaseType: "Node"})
	c := NewComposite(host, proj)

	if !c.IsAssignableTo("P", "Object") {
		t.Errorf("P should be assignable to Object across providers")
	}
	if c.IsAssignableTo("Object", "P") {
		t.Errorf("Object must not be assignable to P")
	}
}

func TestCompositeAssignabilityBasics(t *testing.T) {
	c := NewComposite(newStub())
	if c.IsAssignableTo("", "X") || c.IsAssignableTo("X", "") {
		t.Errorf("empty names are never assignable")
	}
	if !c.IsAssignableTo("X", "X") {
		t.Errorf("identical names are always assignable")
	}
}

func TestCompositeCycleTerminates(t *testing.T) {
	// A and B point at each other; the visited set must stop the
	// walk and answer false.
	cyclic := newStub(
		TypeInfo{Name: "A", BaseType: "B"},
		TypeInfo{Name: "B", BaseType: "A"},
	)
	c := NewComposite(cyclic)
	if c.IsAssignableTo("A", "C") {
		t.Errorf("cyclic chain must not reach C")
	}
}

func TestCompositeSelfBaseReturnsEmpty(t *testing.T) {
	// A provider reporting no base for the root keeps the composite
	// walk from self-cycling.
	root := newStub(TypeInfo{Name: "Object", BaseType: ""})
	c := NewComposite(root)
	if base := c.GetBaseType("Object"); base != "" {
		t.Errorf("GetBaseType(Object) = %q, want empty", base)
	}
	// A child answering a type as its own base is guarded at the
	// composite layer too.
	selfish := newStub(TypeInfo{Name: "Root", BaseType: "Root"})
	c2 := NewComposite(selfish)
	if base := c2.GetBaseType("Root"); base != "" {
		t.Errorf("self-base answer = %q, want empty", base)
	}
}

func TestCompositeUnions(t *testing.T) {
	a := newStub(TypeInfo{Name: "A", Members: []MemberInfo{Method("ping", "int")}})
	b := newStub(
		TypeInfo{Name: "A"}, // duplicate name, must not double-count
		TypeInfo{Name: "B", Members: []MemberInfo{Method("ping", "int")}},
	)
	c := NewComposite(a, b)

	all := c.GetAllTypes()
	if len(all) != 2 {
		t.Errorf("GetAllTypes = %v, want deduplicated [A B]", all)
	}
	owners := c.FindTypesWithMethod("ping")
	if len(owners) != 2 {
		t.Errorf("FindTypesWithMethod = %v, want [A B]", owners)
	}
}

func TestFallbackContainerRoles(t *testing.T) {
	f := NewFallbackProvider()
	front := f.GetMember("Array", "front")
	if front == nil || front.ReturnRole != RoleElement {
		t.Errorf("Array.front role = %+v, want RoleElement", front)
	}
	// Generic names answer with the raw container's table.
	if m := f.GetMember("Array[int]", "front"); m == nil {
		t.Errorf("Array[int].front should resolve via the raw Array table")
	}
	keys := f.GetMember("Dictionary", "keys")
	if keys == nil || keys.ReturnRole != RoleKeysArray {
		t.Errorf("Dictionary.keys role = %+v", keys)
	}
	get := f.GetMember("Dictionary", "get")
	if get == nil || get.ReturnRole != RoleValue {
		t.Errorf("Dictionary.get role = %+v", get)
	}
}

func TestFallbackValueTypes(t *testing.T) {
	f := NewFallbackProvider()
	if !f.IsBuiltinValueType("int") || !f.IsBuiltinValueType("Vector2") {
		t.Errorf("int and Vector2 are value types")
	}
	if f.IsBuiltinValueType("Array") {
		t.Errorf("Array is not a value type")
	}
}

func TestMethodArgCountDiscipline(t *testing.T) {
	m := Method("f", "int",
		ParameterInfo{Name: "a", TypeName: "int"},
		ParameterInfo{Name: "b", TypeName: "int", HasDefault: true},
	)
	if m.MinArgs != 1 || m.MaxArgs != 2 {
		t.Errorf("min/max = %d/%d, want 1/2", m.MinArgs, m.MaxArgs)
	}
	v := Method("g", "void", ParameterInfo{Name: "args", IsParams: true})
	if !v.IsVarargs || v.MaxArgs != -1 {
		t.Errorf("varargs method = %+v", v)
	}
}
