package providers

// NopProvider answers every capability with the empty result. Sources
// that only own a slice of the capability set embed it and override
// what they actually serve.
type NopProvider struct{}

func (NopProvider) IsKnownType(string) bool                { return false }
func (NopProvider) GetTypeInfo(string) *TypeInfo           { return nil }
func (NopProvider) GetMember(string, string) *MemberInfo   { return nil }
func (NopProvider) GetBaseType(string) string              { return "" }
func (NopProvider) IsAssignableTo(string, string) bool     { return false }
func (NopProvider) GetGlobalFunction(string) *MemberInfo   { return nil }
func (NopProvider) GetGlobalClass(string) *TypeInfo        { return nil }
func (NopProvider) IsBuiltIn(string) bool                  { return false }
func (NopProvider) GetAllTypes() []string                  { return nil }
func (NopProvider) FindTypesWithMethod(string) []string    { return nil }
func (NopProvider) IsBuiltinValueType(string) bool         { return false }

var _ TypeProvider = NopProvider{}
