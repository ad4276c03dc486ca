package js_ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/logger"
)

type PrimitiveKind uint8

const (
	PrimitiveUndefined PrimitiveKind = iota
	PrimitiveNull
	PrimitiveBoolean
	PrimitiveNumber
	PrimitiveString
	PrimitiveBigInt
)

// A statically known JavaScript primitive value
type Primitive struct {
	String []uint16
	BigInt string
	Number float64
	Kind   PrimitiveKind
	Bool   bool
}

// Implements "Number.prototype.toString()" with radix 10
func NumberToString(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == 0:
		// This includes negative zero
		return "0"
	}

	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	// Get the shortest round-tripping digits and the exponent from Go
	text := strconv.FormatFloat(value, 'e', -1, 64)
	e := strings.IndexByte(text, 'e')
	exponent, _ := strconv.Atoi(text[e+1:])
	digits := strings.Replace(text[:e], ".", "", 1)
	k := len(digits)
	n := exponent + 1

	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)

	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]

	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}

	expSign := "+"
	if n-1 < 0 {
		expSign = "-"
	}
	expText := strconv.Itoa(int(math.Abs(float64(n - 1))))
	if k == 1 {
		return sign + digits + "e" + expSign + expText
	}
	return sign + digits[:1] + "." + digits[1:] + "e" + expSign + expText
}

// Implements "String(value)". BigInts written in a non-decimal radix are not
// converted.
func (p Primitive) ToString() ([]uint16, bool) {
	switch p.Kind {
	case PrimitiveUndefined:
		return helpers.StringToUTF16("undefined"), true
	case PrimitiveNull:
		return helpers.StringToUTF16("null"), true
	case PrimitiveBoolean:
		if p.Bool {
			return helpers.StringToUTF16("true"), true
		}
		return helpers.StringToUTF16("false"), true
	case PrimitiveNumber:
		return helpers.StringToUTF16(NumberToString(p.Number)), true
	case PrimitiveString:
		return p.String, true
	case PrimitiveBigInt:
		for _, c := range p.BigInt {
			if c < '0' || c > '9' {
				return nil, false
			}
		}
		text := strings.TrimLeft(p.BigInt, "0")
		if text == "" {
			text = "0"
		}
		return helpers.StringToUTF16(text), true
	}
	return nil, false
}

// Implements "Number(value)" for the cases that don't involve parsing
func (p Primitive) toNumber() (float64, bool) {
	switch p.Kind {
	case PrimitiveUndefined:
		return math.NaN(), true
	case PrimitiveNull:
		return 0, true
	case PrimitiveBoolean:
		if p.Bool {
			return 1, true
		}
		return 0, true
	case PrimitiveNumber:
		return p.Number, true
	case PrimitiveString:
		text := strings.TrimSpace(helpers.UTF16ToString(p.String))
		if text == "" {
			return 0, true
		}
		for _, c := range text {
			if (c < '0' || c > '9') && c != '.' {
				return 0, false
			}
		}
		if value, err := strconv.ParseFloat(text, 64); err == nil {
			return value, true
		}
	}
	return 0, false
}

func (p Primitive) ToBoolean() bool {
	switch p.Kind {
	case PrimitiveBoolean:
		return p.Bool
	case PrimitiveNumber:
		return p.Number != 0 && !math.IsNaN(p.Number)
	case PrimitiveString:
		return len(p.String) > 0
	case PrimitiveBigInt:
		return strings.TrimLeft(strings.TrimPrefix(strings.ToLower(p.BigInt), "0x"), "0") != ""
	}
	return false
}

func (p Primitive) typeof() string {
	switch p.Kind {
	case PrimitiveNull:
		return "object"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveNumber:
		return "number"
	case PrimitiveString:
		return "string"
	case PrimitiveBigInt:
		return "bigint"
	}
	return "undefined"
}

func (p Primitive) ToExpr(loc logger.Loc) Expr {
	switch p.Kind {
	case PrimitiveNull:
		return Expr{Loc: loc, Data: &ENull{}}
	case PrimitiveBoolean:
		return Expr{Loc: loc, Data: &EBoolean{Value: p.Bool}}
	case PrimitiveNumber:
		return Expr{Loc: loc, Data: &ENumber{Value: p.Number}}
	case PrimitiveString:
		return Expr{Loc: loc, Data: &EString{Value: p.String}}
	case PrimitiveBigInt:
		return Expr{Loc: loc, Data: &EBigInt{Value: p.BigInt}}
	}
	return Undefined(loc)
}

func strictEquals(a Primitive, b Primitive) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case PrimitiveBoolean:
		return a.Bool == b.Bool
	case PrimitiveNumber:
		return a.Number == b.Number
	case PrimitiveString:
		return helpers.UTF16EqualsUTF16(a.String, b.String)
	case PrimitiveBigInt:
		return a.BigInt == b.BigInt
	}
	return true
}

// Statically evaluates an expression built only from primitive literals and
// operators on them. Identifiers are never evaluated since they may be
// shadowed. The second return value is false when the value isn't known.
func Evaluate(expr Expr) (Primitive, bool) {
	switch e := expr.Data.(type) {
	case *EUndefined:
		return Primitive{Kind: PrimitiveUndefined}, true

	case *ENull:
		return Primitive{Kind: PrimitiveNull}, true

	case *EBoolean:
		return Primitive{Kind: PrimitiveBoolean, Bool: e.Value}, true

	case *ENumber:
		return Primitive{Kind: PrimitiveNumber, Number: e.Value}, true

	case *EString:
		return Primitive{Kind: PrimitiveString, String: e.Value}, true

	case *EBigInt:
		return Primitive{Kind: PrimitiveBigInt, BigInt: e.Value}, true

	case *ETemplate:
		if e.TagOrNil.Data != nil || e.HeadCooked == nil {
			return Primitive{}, false
		}
		text := append([]uint16{}, e.HeadCooked...)
		for _, part := range e.Parts {
			value, ok := Evaluate(part.Value)
			if !ok {
				return Primitive{}, false
			}
			str, ok := value.ToString()
			if !ok {
				return Primitive{}, false
			}
			text = append(text, str...)
			text = append(text, part.TailCooked...)
		}
		return Primitive{Kind: PrimitiveString, String: text}, true

	case *EUnary:
		value, ok := Evaluate(e.Value)
		if !ok {
			return Primitive{}, false
		}
		switch e.Op {
		case UnOpVoid:
			return Primitive{Kind: PrimitiveUndefined}, true

		case UnOpNot:
			return Primitive{Kind: PrimitiveBoolean, Bool: !value.ToBoolean()}, true

		case UnOpTypeof:
			return Primitive{Kind: PrimitiveString, String: helpers.StringToUTF16(value.typeof())}, true

		case UnOpPos, UnOpNeg, UnOpCpl:
			if value.Kind == PrimitiveBigInt {
				return Primitive{}, false
			}
			number, ok := value.toNumber()
			if !ok {
				return Primitive{}, false
			}
			switch e.Op {
			case UnOpNeg:
				number = -number
			case UnOpCpl:
				number = float64(^ToInt32(number))
			}
			return Primitive{Kind: PrimitiveNumber, Number: number}, true
		}

	case *EBinary:
		return evaluateBinary(e)

	case *EIf:
		test, ok := Evaluate(e.Test)
		if !ok {
			return Primitive{}, false
		}
		if test.ToBoolean() {
			return Evaluate(e.Yes)
		}
		return Evaluate(e.No)
	}

	return Primitive{}, false
}

func evaluateBinary(e *EBinary) (Primitive, bool) {
	if e.Op.BinaryAssignTarget() != AssignTargetNone {
		return Primitive{}, false
	}
	left, ok := Evaluate(e.Left)
	if !ok {
		return Primitive{}, false
	}

	// Short-circuiting operators only need the right side when it's used
	switch e.Op {
	case BinOpLogicalAnd:
		if !left.ToBoolean() {
			return left, true
		}
		return Evaluate(e.Right)

	case BinOpLogicalOr:
		if left.ToBoolean() {
			return left, true
		}
		return Evaluate(e.Right)

	case BinOpNullishCoalescing:
		if left.Kind != PrimitiveNull && left.Kind != PrimitiveUndefined {
			return left, true
		}
		return Evaluate(e.Right)
	}

	right, ok := Evaluate(e.Right)
	if !ok {
		return Primitive{}, false
	}

	switch e.Op {
	case BinOpComma:
		return right, true

	case BinOpStrictEq:
		return Primitive{Kind: PrimitiveBoolean, Bool: strictEquals(left, right)}, true

	case BinOpStrictNe:
		return Primitive{Kind: PrimitiveBoolean, Bool: !strictEquals(left, right)}, true

	case BinOpLooseEq, BinOpLooseNe:
		// Only fold the cases without type coercion
		isNullishLeft := left.Kind == PrimitiveNull || left.Kind == PrimitiveUndefined
		isNullishRight := right.Kind == PrimitiveNull || right.Kind == PrimitiveUndefined
		var equal bool
		switch {
		case isNullishLeft || isNullishRight:
			equal = isNullishLeft && isNullishRight
		case left.Kind == right.Kind:
			equal = strictEquals(left, right)
		default:
			return Primitive{}, false
		}
		return Primitive{Kind: PrimitiveBoolean, Bool: equal == (e.Op == BinOpLooseEq)}, true

	case BinOpAdd:
		if left.Kind == PrimitiveString || right.Kind == PrimitiveString {
			a, ok1 := left.ToString()
			b, ok2 := right.ToString()
			if !ok1 || !ok2 {
				return Primitive{}, false
			}
			text := make([]uint16, 0, len(a)+len(b))
			return Primitive{Kind: PrimitiveString, String: append(append(text, a...), b...)}, true
		}
	}

	if left.Kind == PrimitiveBigInt || right.Kind == PrimitiveBigInt {
		return Primitive{}, false
	}
	a, ok1 := left.toNumber()
	b, ok2 := right.toNumber()
	if !ok1 || !ok2 {
		return Primitive{}, false
	}

	switch e.Op {
	case BinOpAdd:
		return Primitive{Kind: PrimitiveNumber, Number: a + b}, true
	case BinOpSub:
		return Primitive{Kind: PrimitiveNumber, Number: a - b}, true
	case BinOpMul:
		return Primitive{Kind: PrimitiveNumber, Number: a * b}, true
	case BinOpDiv:
		return Primitive{Kind: PrimitiveNumber, Number: a / b}, true
	case BinOpRem:
		return Primitive{Kind: PrimitiveNumber, Number: math.Mod(a, b)}, true
	case BinOpPow:
		return Primitive{Kind: PrimitiveNumber, Number: math.Pow(a, b)}, true
	case BinOpShl:
		return Primitive{Kind: PrimitiveNumber, Number: float64(ToInt32(a) << (ToUint32(b) & 31))}, true
	case BinOpShr:
		return Primitive{Kind: PrimitiveNumber, Number: float64(ToInt32(a) >> (ToUint32(b) & 31))}, true
	case BinOpUShr:
		return Primitive{Kind: PrimitiveNumber, Number: float64(ToUint32(a) >> (ToUint32(b) & 31))}, true
	case BinOpBitwiseAnd:
		return Primitive{Kind: PrimitiveNumber, Number: float64(ToInt32(a) & ToInt32(b))}, true
	case BinOpBitwiseOr:
		return Primitive{Kind: PrimitiveNumber, Number: float64(ToInt32(a) | ToInt32(b))}, true
	case BinOpBitwiseXor:
		return Primitive{Kind: PrimitiveNumber, Number: float64(ToInt32(a) ^ ToInt32(b))}, true
	}

	// Relational comparisons between two strings compare code units, which
	// the numeric path below doesn't model
	if left.Kind == PrimitiveString && right.Kind == PrimitiveString {
		return Primitive{}, false
	}
	switch e.Op {
	case BinOpLt:
		return Primitive{Kind: PrimitiveBoolean, Bool: a < b}, true
	case BinOpLe:
		return Primitive{Kind: PrimitiveBoolean, Bool: a <= b}, true
	case BinOpGt:
		return Primitive{Kind: PrimitiveBoolean, Bool: a > b}, true
	case BinOpGe:
		return Primitive{Kind: PrimitiveBoolean, Bool: a >= b}, true
	}

	return Primitive{}, false
}

// Returns the property name that a static key evaluates to, as used by
// "obj[key]". Numbers use their canonical string form.
func PropertyKeyString(expr Expr) (string, bool) {
	if value, ok := Evaluate(expr); ok {
		if value.Kind == PrimitiveBigInt {
			return "", false
		}
		if text, ok := value.ToString(); ok {
			return helpers.UTF16ToString(text), true
		}
	}
	return "", false
}
