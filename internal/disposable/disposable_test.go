package disposable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_parser"
	"github.com/disposejs/dispose/internal/js_printer"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
	"github.com/disposejs/dispose/internal/traverse"
)

var omitMarkers = js_printer.Options{OmitComment: func(text string) bool {
	return strings.Contains(text, DisposeAnnotation)
}}

func parse(t *testing.T, contents string) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelNone)
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
	require.True(t, ok, "parse error")
	return tree
}

// Parses "x = <contents>" and returns the right-hand side
func parseValue(t *testing.T, contents string) js_ast.Expr {
	t.Helper()
	tree := parse(t, "x = "+contents)
	return tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EBinary).Right
}

func findPath(t *testing.T, tree *js_ast.AST, match func(p *traverse.Path) bool) *traverse.Path {
	t.Helper()
	var found *traverse.Path
	require.NoError(t, traverse.Traverse(tree, traverse.Visitor{Enter: func(p *traverse.Path) error {
		if found == nil && match(p) {
			found = p
		}
		return nil
	}}))
	require.NotNil(t, found)
	return found
}

func TestMark(t *testing.T) {
	m := NewMarkers()

	object := parseValue(t, "{a: 1}")
	marked := m.Mark(object)
	test.AssertEqual(t, js_printer.PrintExpr(marked, js_printer.Options{}), "/* #__DISPOSE__ */ { a: 1 }")
	test.AssertEqual(t, len(object.Comments), 0)
	test.AssertEqual(t, m.IsDisposable(marked), true)
	test.AssertEqual(t, len(m.Mark(marked).Comments), 1)

	// The comment survives a copy and a fresh table
	test.AssertEqual(t, NewMarkers().IsDisposable(js_ast.CloneExpr(marked)), true)

	// Literals are flagged in memory only
	number := parseValue(t, "1")
	number = m.Mark(number)
	test.AssertEqual(t, len(number.Comments), 0)
	test.AssertEqual(t, m.IsDisposable(number), true)
	test.AssertEqual(t, m.IsDisposable(js_ast.CloneExpr(number)), false)

	identifier := parseValue(t, "a")
	test.AssertEqual(t, len(m.Mark(identifier).Comments), 0)
	test.AssertEqual(t, m.IsDisposable(identifier), false)
	test.AssertEqual(t, m.IsDisposable(js_ast.Expr{}), false)
}

func TestIsDisposable(t *testing.T) {
	expect := func(contents string, expected bool) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			test.AssertEqual(t, NewMarkers().IsDisposable(parseValue(t, contents)), expected)
		})
	}

	expect("/* #__DISPOSE__ */ {a: 1}", true)
	expect("/* #__DISPOSE__ */ [1, 2]", true)
	expect("/* @__DISPOSE__ */ [1, 2]", true)
	expect("/* #__DISPOSE__ */ 'a'", true)
	expect("/* #__DISPOSE__ */ void 0", true)
	expect("/* #__DISPOSE__ */ null", true)
	expect("/* #__DISPOSE__ */ /* other */ {}", false)
	expect("/* #__DISPOSE__ */ f()", false)
	expect("/* #__DISPOSE__ */ a", false)
	expect("/* #__DISPOSED__FUNCTION__ */ {}", false)
	expect("{}", false)
}

func TestIsDisposedFunction(t *testing.T) {
	expect := func(contents string, expected bool) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			tree := parse(t, contents)
			p := findPath(t, &tree, func(p *traverse.Path) bool {
				if _, ok := p.Stmt().Data.(*js_ast.SFunction); ok {
					return true
				}
				return isFunctionExpr(p.Expr())
			})
			test.AssertEqual(t, NewMarkers().IsDisposedFunction(p), expected)
		})
	}

	expect("/* #__DISPOSE__ */ function f() {}", true)
	expect("/* #__DISPOSE__ */ export function f() {}", true)
	expect("/* #__DISPOSE__ */ export default function() {}", true)
	expect("/* #__DISPOSE__ */ const f = () => 1", true)
	expect("/* #__DISPOSE__ */ export const f = function() {}", true)
	expect("const f = /* #__DISPOSE__ */ () => 1", true)
	expect("function f() {}", false)
	expect("const f = () => 1", false)
	expect("/* #__DISPOSE__ */ const g = 1, f = () => 1", true)
	expect("/* #__DISPOSE__ */ x(() => 1)", false)

	// The declarator itself can be asked too
	tree := parse(t, "/* #__DISPOSE__ */ let f = function() {}")
	decl := findPath(t, &tree, func(p *traverse.Path) bool { return p.IsDecl() })
	markers := NewMarkers()
	test.AssertEqual(t, markers.IsDisposedFunction(decl), true)

	tree = parse(t, "/* #__DISPOSE__ */ let f = 1")
	decl = findPath(t, &tree, func(p *traverse.Path) bool { return p.IsDecl() })
	test.AssertEqual(t, markers.IsDisposedFunction(decl), false)
}

func TestExtract(t *testing.T) {
	expect := func(contents string, key string, optional bool, expected string) {
		t.Helper()
		t.Run(contents+" "+key, func(t *testing.T) {
			t.Helper()
			value := parseValue(t, contents)
			before := js_printer.PrintExpr(value, js_printer.Options{})
			result, ok := NewMarkers().Extract(value, key, optional)
			if expected == "" {
				require.False(t, ok, "expected the read to be unsupported")
			} else {
				require.True(t, ok, "expected the read to be supported")
				test.AssertEqualWithDiff(t, js_printer.PrintExpr(result, js_printer.Options{}), expected)
			}
			test.AssertEqualWithDiff(t, js_printer.PrintExpr(value, js_printer.Options{}), before)
		})
	}

	// Objects
	expect("{a: 1, b: 2}", "b", false, "2")
	expect("{a: 1, a: 2}", "a", false, "2")
	expect("{a: 1}", "c", false, "void 0")
	expect("{a: 1}", "toString", false, "")
	expect("{toString: 1}", "toString", false, "1")
	expect("{...x, a: 1}", "a", false, "1")
	expect("{a: 1, ...x}", "a", false, "")
	expect("{a: 1, ...x}", "b", false, "")
	expect("{[k]: 1, a: 2}", "a", false, "2")
	expect("{a: 2, [k]: 1}", "a", false, "")
	expect("{['a']: 3}", "a", false, "3")
	expect("{1: 'x'}", "1", false, "\"x\"")
	expect("{'b-c': 1}", "b-c", false, "1")
	expect("{get a() { return 1 }}", "a", false, "")
	expect("{set a(v) {}, b: 1}", "b", false, "1")
	expect("{a}", "a", false, "a")
	expect("{a() { return 1 }}", "a", false, "function() {\n  return 1;\n}")
	expect("{a: {b: 1}}", "a", false, "/* #__DISPOSE__ */ { b: 1 }")
	expect("{a: [1]}", "a", false, "/* #__DISPOSE__ */ [1]")
	expect("{a: f()}", "a", false, "f()")

	// Arrays
	expect("[1, , 3]", "0", false, "1")
	expect("[1, , 3]", "1", false, "void 0")
	expect("[1, , 3]", "2", false, "3")
	expect("[1, , 3]", "5", false, "void 0")
	expect("[1, , 3]", "length", false, "3")
	expect("[1, , 3]", "01", false, "")
	expect("[1, , 3]", "map", false, "")
	expect("[1, ...x, 3]", "0", false, "1")
	expect("[1, ...x, 3]", "1", false, "")
	expect("[1, ...x, 3]", "2", false, "")
	expect("[1, ...x, 3]", "length", false, "")
	expect("[[1]]", "0", false, "/* #__DISPOSE__ */ [1]")

	// Absent values
	expect("void 0", "a", true, "void 0")
	expect("null", "a", true, "void 0")
	expect("undefined", "a", true, "void 0")
	expect("void 0", "a", false, "")
	expect("{a: 1}", "a", true, "1")

	// Everything else
	expect("f()", "a", false, "")
	expect("'abc'", "length", false, "")
	expect("a", "b", true, "")
}

func TestResolveChain(t *testing.T) {
	expect := func(value string, contents string, expected string) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			tree := parse(t, contents)
			p := findPath(t, &tree, func(p *traverse.Path) bool {
				id, ok := p.Expr().Data.(*js_ast.EIdentifier)
				return ok && id.Name == "a"
			})
			landing, resolved := NewMarkers().ResolveChain(p, parseValue(t, value))
			landing.ReplaceWith(js_ast.CloneExpr(resolved))
			test.AssertEqualWithDiff(t, string(js_printer.Print(tree, omitMarkers).JS), expected)
		})
	}

	expect("{b: {c: 1}}", "x = a.b.c", "x = 1;\n")
	expect("{b: {c: 1}}", "x = a.b", "x = { c: 1 };\n")
	expect("{b: {c: 1}}", "x = a['b'].c", "x = 1;\n")
	expect("{b: {c: 1}}", "x = a[k].c", "x = { b: { c: 1 } }[k].c;\n")
	expect("{b: {c: 1}}", "x = a.b.d", "x = void 0;\n")
	expect("{b: {c: 1}}", "x = a.z.c", "x = (void 0).c;\n")
	expect("{b: {c: 1}}", "x = a.z?.c", "x = void 0;\n")
	expect("{b: {c: 1}}", "x = a.z?.c.d()", "x = void 0;\n")
	expect("{b: {c: 1}}", "x = a?.b.c", "x = 1;\n")
	expect("{b: {c: 1}}", "a.b.c = 2", "({ c: 1 }).c = 2;\n")
	expect("{b: {c: 1}}", "a.b.c++", "({ c: 1 }).c++;\n")
	expect("[1, [2, 3]]", "x = a[1][0] + a.length", "x = 2 + a.length;\n")
	expect("{f: () => 2}", "x = a.f()", "x = (() => 2)();\n")
	expect("{n: 1}", "x = a.n()", "x = 1();\n")
	expect("{g: function() { return 1 }}", "x = a.g()", "x = { g: function() {\n  return 1;\n} }.g();\n")
}
