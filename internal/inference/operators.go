package inference

import (
	"github.com/elamaunt/gdshrapt-go/internal/gdast"
	"github.com/elamaunt/gdshrapt-go/internal/typesystem"
)

// inferBinary types a binary operation from the operator kind and the
// operand types.
func (e *Engine) inferBinary(bin *gdast.BinaryExpression) string {
	switch bin.Op {
	case gdast.OpIs, gdast.OpIn,
		gdast.OpEq, gdast.OpNotEq,
		gdast.OpLess, gdast.OpLessEq, gdast.OpGreater, gdast.OpGreaterEq,
		gdast.OpAnd, gdast.OpOr:
		return "bool"
	case gdast.OpBitAnd, gdast.OpBitOr, gdast.OpBitXor,
		gdast.OpShiftLeft, gdast.OpShiftRight:
		return "int"
	}

	left := e.InferType(bin.Left)
	right := e.InferType(bin.Right)

	switch bin.Op {
	case gdast.OpAdd:
		if left == "String" || right == "String" {
			return "String"
		}
		if typesystem.RawGeneric(left) == "Array" && typesystem.RawGeneric(right) == "Array" {
			return mergeArrayTypes(left, right)
		}
		return arithmeticType(left, right)
	case gdast.OpSub, gdast.OpMul:
		return arithmeticType(left, right)
	case gdast.OpDiv:
		return arithmeticType(left, right)
	case gdast.OpMod:
		if left == "String" {
			// Format operator.
			return "String"
		}
		return arithmeticType(left, right)
	case gdast.OpPow:
		return arithmeticType(left, right)
	}
	return ""
}

// arithmeticType applies numeric promotion, keeps agreeing vector and
// value types, and lets float scale value types.
func arithmeticType(left, right string) string {
	if promoted := typesystem.PromoteNumeric(left, right); promoted != "" {
		return promoted
	}
	if left == right && left != "" {
		return left
	}
	// Vector * float and friends keep the structured side.
	if typesystem.IsNumeric(right) && left != "" && !typesystem.IsNumeric(left) {
		return left
	}
	if typesystem.IsNumeric(left) && right != "" && !typesystem.IsNumeric(right) {
		return right
	}
	return ""
}

// mergeArrayTypes concatenates array element types into a union-typed
// array.
func mergeArrayTypes(left, right string) string {
	leftElem := typesystem.ElementName(left)
	rightElem := typesystem.ElementName(right)
	if leftElem == "" || rightElem == "" {
		return "Array"
	}
	merged := typesystem.UnionName([]string{leftElem, rightElem})
	if merged == "" {
		return "Array"
	}
	return "Array[" + merged + "]"
}

// inferUnary types a unary operation.
func (e *Engine) inferUnary(un *gdast.UnaryExpression) string {
	switch un.Op {
	case gdast.OpNot:
		return "bool"
	case gdast.OpBitNot:
		return "int"
	case gdast.OpNeg:
		operand := e.InferType(un.Operand)
		if typesystem.IsNumeric(operand) {
			return operand
		}
		if operand != "" {
			return operand
		}
	}
	return ""
}

// inferTernary forwards the branch types, unified.
func (e *Engine) inferTernary(t *gdast.TernaryExpression) string {
	thenType := e.InferType(t.Then)
	elseType := e.InferType(t.Otherwise)
	if thenType == elseType {
		return thenType
	}
	return typesystem.CommonName([]string{thenType, elseType})
}
