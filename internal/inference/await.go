package inference

import (
	"strings"

	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/providers"
)

// inferAwait types `await operand`. Awaiting a signal yields its
// emission type: the single parameter's type, a tuple-shaped display
// name for several, void for none. Awaiting anything else forwards
// the operand's type (a coroutine call's return).
func (e *Engine) inferAwait(await *gdast.AwaitExpression) string {
	if access, ok := await.Operand.(*gdast.MemberAccess); ok {
		receiverType := e.InferType(access.Target)
		if member, _ := e.FindMemberWithInheritance(receiverType, access.Member); member != nil {
			if member.Kind == providers.KindSignal {
				return signalEmissionType(member.SignalParamTypes)
			}
		}
		// The provider graph has no signal by that name; the injector
		// may still know it from the script AST or the host DB.
		if e.injector != nil {
			if params := e.injector.SignalParameterTypes(access.Member, receiverType); params != nil {
				return signalEmissionType(params)
			}
		}
	}

	inner := e.InferType(await.Operand)
	if inner == "Signal" {
		return "void"
	}
	return inner
}

// signalEmissionType maps a signal's parameter list to the value an
// await produces.
func signalEmissionType(paramTypes []string) string {
	switch len(paramTypes) {
	case 0:
		return "void"
	case 1:
		if paramTypes[0] == "" {
			return "Variant"
		}
		return paramTypes[0]
	}
	display := make([]string, len(paramTypes))
	for i, p := range paramTypes {
		if p == "" {
			p = "Variant"
		}
		display[i] = p
	}
	return "(" + strings.Join(display, ", ") + ")"
}
