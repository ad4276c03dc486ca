package js_ast

import (
	"testing"

	"github.com/disposejs/dispose/internal/test"
)

func TestHasPureComment(t *testing.T) {
	comments := func(texts ...string) []Comment {
		result := make([]Comment, len(texts))
		for i, text := range texts {
			result[i] = Comment{Text: text}
		}
		return result
	}
	test.AssertEqual(t, HasPureComment(nil), false)
	test.AssertEqual(t, HasPureComment(comments("/* #__PURE__ */")), true)
	test.AssertEqual(t, HasPureComment(comments("// @__PURE__")), true)
	test.AssertEqual(t, HasPureComment(comments("/* a */", "/* #__PURE__ */")), true)
	test.AssertEqual(t, HasPureComment(comments("/* #__PURE__ */", "/* a */")), false)
	test.AssertEqual(t, HasPureComment(comments("/* #__PURE__X */")), false)
}

func TestToBoolean(t *testing.T) {
	test.AssertEqual(t, Primitive{Kind: PrimitiveBigInt, BigInt: "0"}.ToBoolean(), false)
	test.AssertEqual(t, Primitive{Kind: PrimitiveBigInt, BigInt: "0x0"}.ToBoolean(), false)
	test.AssertEqual(t, Primitive{Kind: PrimitiveBigInt, BigInt: "10"}.ToBoolean(), true)
	test.AssertEqual(t, Primitive{Kind: PrimitiveString}.ToBoolean(), false)
	test.AssertEqual(t, Primitive{Kind: PrimitiveNull}.ToBoolean(), false)
}
