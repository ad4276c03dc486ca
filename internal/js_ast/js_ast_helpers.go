package js_ast

import (
	"math"
	"strings"

	"github.com/disposejs/dispose/internal/logger"
)

func IsOptionalChain(value Expr) bool {
	switch e := value.Data.(type) {
	case *EDot:
		return e.OptionalChain != OptionalChainNone
	case *EIndex:
		return e.OptionalChain != OptionalChainNone
	case *ECall:
		return e.OptionalChain != OptionalChainNone
	}
	return false
}

// Returns a fresh "void 0" node. Every absent value must be its own node.
func Undefined(loc logger.Loc) Expr {
	return Expr{Loc: loc, Data: &EUndefined{}}
}

// Returns true if the expression is a literal whose evaluation can't have
// side effects
func IsPrimitiveLiteral(data E) bool {
	switch e := data.(type) {
	case *ENull, *EUndefined, *EString, *EBoolean, *ENumber, *EBigInt:
		return true

	case *EUnary:
		return e.Op == UnOpVoid && IsPrimitiveLiteral(e.Value.Data)
	}
	return false
}

// Reports whether this is statically "null" or "undefined". The identifier
// "undefined" is included, which assumes it hasn't been shadowed.
func IsNullish(expr Expr) bool {
	switch e := expr.Data.(type) {
	case *ENull, *EUndefined:
		return true

	case *EUnary:
		return e.Op == UnOpVoid && IsPrimitiveLiteral(e.Value.Data)

	case *EIdentifier:
		return e.Name == "undefined"
	}
	return false
}

func ToInt32(f float64) int32 {
	// The easy way
	i := int32(f)
	if float64(i) == f {
		return i
	}

	// Special-case non-finite numbers (casting them is unspecified behavior in Go)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	// The hard way
	i = int32(uint32(math.Mod(math.Abs(f), 4294967296)))
	if math.Signbit(f) {
		return -i
	}
	return i
}

func ToUint32(f float64) uint32 {
	return uint32(ToInt32(f))
}

// Annotation comments such as "#__PURE__" must be followed by the end of the
// comment or by whitespace. "/* #__PURE__ */" and "// @__PURE__" both match.
func CommentHasAnnotation(text string, name string) bool {
	for _, prefix := range [2]byte{'#', '@'} {
		for rest := text; ; {
			i := strings.Index(rest, name)
			if i < 0 {
				break
			}
			if i > 0 && rest[i-1] == prefix {
				after := rest[i+len(name):]
				if after == "" || after == "*/" || isAnnotationBoundary(after[0]) {
					return true
				}
			}
			rest = rest[i+len(name):]
		}
	}
	return false
}

func isAnnotationBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '*', '/':
		return true
	}
	return false
}

// Only the comment right before the expression counts. An earlier one may
// belong to something else, as in "/* #__PURE__ */ /* keep */ f()".
func HasPureComment(comments []Comment) bool {
	return len(comments) > 0 && CommentHasAnnotation(comments[len(comments)-1].Text, "__PURE__")
}

func JoinWithComma(a Expr, b Expr) Expr {
	if a.Data == nil {
		return b
	}
	if b.Data == nil {
		return a
	}
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpComma, Left: a, Right: b}}
}

func JoinAllWithComma(all []Expr) (result Expr) {
	for _, value := range all {
		result = JoinWithComma(result, value)
	}
	return
}
