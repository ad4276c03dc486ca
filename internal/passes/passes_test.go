package passes

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_parser"
	"github.com/disposejs/dispose/internal/js_printer"
	"github.com/disposejs/dispose/internal/js_scope"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
	"github.com/disposejs/dispose/internal/traverse"
)

var omitMarkers = js_printer.Options{OmitComment: func(text string) bool {
	return strings.Contains(text, disposable.DisposeAnnotation)
}}

func runPasses(t *testing.T, names []string, contents string) (js_ast.AST, *Context, error) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelNone)
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
	require.True(t, ok, "parse error")
	selected, err := Resolve(names)
	require.NoError(t, err)
	ctx := NewContext(js_scope.Crawl(&tree), disposable.NewMarkers(), zerolog.Nop())
	err = traverse.Traverse(&tree, Visitors(ctx, selected)...)
	return tree, ctx, err
}

func expectPassesCommon(t *testing.T, names []string, contents string, expected string, options js_printer.Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree, _, err := runPasses(t, names, contents)
		require.NoError(t, err)
		test.AssertEqualWithDiff(t, string(js_printer.Print(tree, options).JS), expected)
	})
}

func expectUnsupported(t *testing.T, names []string, contents string, reason string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		_, _, err := runPasses(t, names, contents)
		var unsupported *UnsupportedPatternError
		require.True(t, errors.As(err, &unsupported), "expected an unsupported pattern error, got %v", err)
		require.Contains(t, unsupported.Reason, reason)
	})
}

func expectFold(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"fold"}, contents, expected, js_printer.Options{})
}

func expectDeadCode(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"deadcode"}, contents, expected, js_printer.Options{})
}

func expectPure(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"pure"}, contents, expected, js_printer.Options{})
}

func expectPropagate(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"propagate"}, contents, expected, omitMarkers)
}

func expectInline(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"inline"}, contents, expected, omitMarkers)
}

func expectKeys(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"keys"}, contents, expected, omitMarkers)
}

func expectIIFE(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPassesCommon(t, []string{"iife"}, contents, expected, js_printer.Options{})
}

func TestResolve(t *testing.T) {
	selected, err := Resolve(DefaultOrder)
	require.NoError(t, err)
	require.Len(t, selected, 7)
	test.AssertEqual(t, selected[3].Name, "propagate")

	_, err = Resolve([]string{"fold", "nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown pass "nope"`)

	test.AssertEqual(t, strings.Join(Names(), ","), "deadcode,fold,iife,inline,keys,propagate,pure")
}

func TestFold(t *testing.T) {
	expectFold(t, "x = 1 + 2", "x = 3;\n")
	expectFold(t, "x = 1 + 2 * 3", "x = 7;\n")
	expectFold(t, "x = 'a' + 'b'", "x = \"ab\";\n")
	expectFold(t, "x = !0", "x = true;\n")
	expectFold(t, "x = typeof 'x'", "x = \"string\";\n")
	expectFold(t, "x = true ? a : b", "x = a;\n")
	expectFold(t, "x = null ?? y", "x = y;\n")
	expectFold(t, "x = 0 || y", "x = y;\n")
	expectFold(t, "x = 1 && y", "x = y;\n")
	expectFold(t, "x = a + 1", "x = a + 1;\n")
	expectFold(t, "x = void 0", "x = void 0;\n")

	// "Infinity" is an identifier that could be shadowed
	expectFold(t, "x = 1 / 0", "x = 1 / 0;\n")

	// Moving "a.b" into the callee position would change "this"
	expectFold(t, "(true ? a.b : c)()", "(true ? a.b : c)();\n")
}

func TestDeadCode(t *testing.T) {
	expectDeadCode(t, "if (true) a(); else b()", "a();\n")
	expectDeadCode(t, "if (false) { a() } else b()", "b();\n")
	expectDeadCode(t, "if (0) { var x = 1 }", "{\n  var x;\n}\n")
	expectDeadCode(t, "if (1) { let x = 1 }", "{\n  let x = 1;\n}\n")
	expectDeadCode(t, "while (false) a(); b()", "b();\n")
	expectDeadCode(t, "for (var i = 0; false; i++) a()", "var i = 0;\n")
	expectDeadCode(t, ";;a()", "a();\n")
	expectDeadCode(t, "if (a) b()", "if (a)\n  b();\n")

	expectDeadCode(t, "function f() { return 1; a(); var b = 2; function g() {} }",
		"function f() {\n  return 1;\n  var b;\n  function g() {\n  }\n}\n")
	expectDeadCode(t, "function f() { throw x; var y }", "function f() {\n  throw x;\n  var y;\n}\n")
}

func TestPure(t *testing.T) {
	expectPure(t, "const x = /* #__PURE__ */ f(); g()", "g();\n")
	expectPure(t, "const x = /* #__PURE__ */ f(); g(x)", "const x = /* #__PURE__ */ f();\ng(x);\n")
	expectPure(t, "const x = 1, y = /* #__PURE__ */ f()", "const x = 1;\n")
	expectPure(t, "let x = /* #__PURE__ */ f(); x = 1", "let x;\nx = 1;\n")
	expectPure(t, "export const x = /* #__PURE__ */ f()", "export const x = /* #__PURE__ */ f();\n")
	expectPure(t, "/* #__PURE__ */ f(); g()", "g();\n")
	expectPure(t, "/* @__PURE__ */ f(); g()", "g();\n")
	expectPure(t, "/* #__PURE__ */ /* other */ f(); g()", "/* #__PURE__ */ /* other */ f();\ng();\n")
	expectPure(t, "/* other */ /* #__PURE__ */ f(); g()", "g();\n")
	expectPure(t, "x = /* #__PURE__ */ f()", "x = /* #__PURE__ */ f();\n")

	// Templates with a known value
	expectPure(t, "x = `a${1}b`", "x = \"a1b\";\n")
	expectPure(t, "x = `a${y}b`", "x = `a${y}b`;\n")
	expectPure(t, "x = tag`a`", "x = tag`a`;\n")

	// Optional chains on absent values
	expectPure(t, "x = undefined?.a.b", "x = void 0;\n")
	expectPure(t, "x = null?.[k]", "x = void 0;\n")
	expectPure(t, "x = undefined?.()", "x = void 0;\n")
	expectPure(t, "x = a?.b", "x = a?.b;\n")
}

func TestPropagateIdentifier(t *testing.T) {
	expectPropagate(t, "const a = /* #__DISPOSE__ */ {b: 1, c: [2, 3]}; f(a.b, a.c[1], a)",
		"f(1, 3, { b: 1, c: [2, 3] });\n")
	expectPropagate(t, "const a = /* #__DISPOSE__ */ {b: 1}; f()", "f();\n")
	expectPropagate(t, "const a = /* #__DISPOSE__ */ 'x'; f(a, a)", "f(\"x\", \"x\");\n")
	expectPropagate(t, "const a = /* #__DISPOSE__ */ {b: {c: 1}}; f(a.b.d, a.z?.c)", "f(void 0, void 0);\n")

	// Bindings that change or are exported stay
	expectPropagate(t, "let a = /* #__DISPOSE__ */ {b: 1}; a = 2; f(a.b)", "let a = { b: 1 };\na = 2;\nf(a.b);\n")
	expectPropagate(t, "export const a = /* #__DISPOSE__ */ {b: 1}; f(a.b)", "export const a = { b: 1 };\nf(a.b);\n")
	expectPropagate(t, "const a = /* #__DISPOSE__ */ {b: 1}; f(a.b); export {a}", "const a = { b: 1 };\nf(a.b);\nexport { a };\n")
	expectPropagate(t, "const a = {b: 1}; f(a.b)", "const a = { b: 1 };\nf(a.b);\n")
}

func TestPropagateShadowedName(t *testing.T) {
	expectPropagate(t, "const x = 1; const o = /* #__DISPOSE__ */ {x}; f(o.x)", "const x = 1;\nf(x);\n")
	expectPropagate(t, "const x = 1; const o = /* #__DISPOSE__ */ {x}; function g(x) { return o.x }",
		"const x = 1;\nconst o = { x };\nfunction g(x) {\n  return o.x;\n}\n")
	expectPropagate(t, "const o = /* #__DISPOSE__ */ {y: x}; f(o.y); function g(x) { return o.y }",
		"const o = { y: x };\nf(x);\nfunction g(x) {\n  return o.y;\n}\n")
	expectPropagate(t, "const o = /* #__DISPOSE__ */ {f: () => x}; function g(x) { return o.f }",
		"const o = { f: () => x };\nfunction g(x) {\n  return o.f;\n}\n")
	expectPropagate(t, "const o = /* #__DISPOSE__ */ {f: (y) => y}; function g(x) { return o.f }",
		"function g(x) {\n  return (y) => y;\n}\n")
}

func TestPropagateReadBeforeDeclared(t *testing.T) {
	expectPropagate(t, "f(a); var a = /* #__DISPOSE__ */ 1; g(a);", "f(a);\nvar a = 1;\ng(a);\n")
	expectPropagate(t, "function h() { return a } var a = /* #__DISPOSE__ */ 1; h()",
		"function h() {\n  return a;\n}\nvar a = 1;\nh();\n")
	expectPropagate(t, "function h() { f(a); const a = /* #__DISPOSE__ */ 1 }",
		"function h() {\n  f(a);\n  const a = 1;\n}\n")
	expectPropagate(t, "for (;;) { f(a); let [a] = /* #__DISPOSE__ */ [1] }",
		"for (;;) {\n  f(a);\n  let a = 1;\n}\n")

	// A function declared first usually runs after the declarator
	expectPropagate(t, "function h() { return a } const a = /* #__DISPOSE__ */ 1; h()",
		"function h() {\n  return 1;\n}\nh();\n")
	expectPropagate(t, "var a = /* #__DISPOSE__ */ 1; f(a)", "f(1);\n")
}

func TestPropagateSpread(t *testing.T) {
	expectPropagate(t, "const a = /* #__DISPOSE__ */ [2, 3]; f([1, ...a, 4])", "f([1, 2, 3, 4]);\n")
	expectPropagate(t, "const a = /* #__DISPOSE__ */ [2, , 3]; f([...a])", "f([2, void 0, 3]);\n")
	expectPropagate(t, "const o = /* #__DISPOSE__ */ {b: 2}; f({a: 1, ...o})", "f({ a: 1, b: 2 });\n")
	expectPropagate(t, "const a = /* #__DISPOSE__ */ [2, 3]; f(...a)", "f(...[2, 3]);\n")
	expectPropagate(t, "const o = /* #__DISPOSE__ */ {b: 2}; f([...o])", "f([...{ b: 2 }]);\n")
}

func TestPropagateObjectPattern(t *testing.T) {
	expectPropagate(t, "const {a, b = 2, c: {d} = {d: 3}} = /* #__DISPOSE__ */ {a: 1}; f(a, b, d)", "f(1, 2, 3);\n")
	expectPropagate(t, "const {a = 1} = /* #__DISPOSE__ */ {a: null}; f(a)", "f(null);\n")
	expectPropagate(t, "const {a = 1} = /* #__DISPOSE__ */ {a: void 0}; f(a)", "f(1);\n")
	expectPropagate(t, "const {a = 1} = /* #__DISPOSE__ */ {a: x}; f(a)", "const [a = 1] = [x];\nf(a);\n")
	expectPropagate(t, "const {a, b = a} = /* #__DISPOSE__ */ {a: 1}; f(b)", "f(1);\n")
	expectPropagate(t, "const {'b-c': x, ['d']: y} = /* #__DISPOSE__ */ {'b-c': 1, d: 2}; f(x, y)", "f(1, 2);\n")
	expectPropagate(t, "const {0: a, length: n} = /* #__DISPOSE__ */ ['x', 'y']; f(a, n)", "f(\"x\", 2);\n")

	// Rest
	expectPropagate(t, "const {a, ...r} = /* #__DISPOSE__ */ {a: 1, b: 2, c: 3}; f(r)", "f({ b: 2, c: 3 });\n")
	expectPropagate(t, "const {a, ...r} = /* #__DISPOSE__ */ {a: 1, ...x}; f(r)", "const { a, ...r } = { a: 1, ...x };\nf(r);\n")
	expectPropagate(t, "const {0: a, ...r} = /* #__DISPOSE__ */ ['x', , 'z']; f(r)", "f({ \"2\": \"z\" });\n")

	// Nested bindings that change are declared again
	expectPropagate(t, "let {a, b} = /* #__DISPOSE__ */ {a: 1, b: 2}; b = 3; f(a, b)", "let b = 2;\nb = 3;\nf(1, b);\n")
	expectPropagate(t, "const {a: {b}} = /* #__DISPOSE__ */ {a: x}; f(b)", "const { b } = x;\nf(b);\n")

	// A key that isn't known could be "a", so the declaration is kept
	expectPropagate(t, "const {a} = /* #__DISPOSE__ */ {[k]: 1}; f(a)", "const { a } = { [k]: 1 };\nf(a);\n")
}

func TestPropagateArrayPattern(t *testing.T) {
	expectPropagate(t, "const [x, , y = 5, ...z] = /* #__DISPOSE__ */ [1, 2, void 0, 4, 5]; f(x, y, z)", "f(1, 5, [4, 5]);\n")
	expectPropagate(t, "const [a, b] = /* #__DISPOSE__ */ [1]; f(a, b)", "f(1, void 0);\n")
	expectPropagate(t, "const [a, [b]] = /* #__DISPOSE__ */ [1, [2]]; f(a, b)", "f(1, 2);\n")
	expectPropagate(t, "const [a, ...r] = /* #__DISPOSE__ */ [1, ...x]; f(a, r)", "f(1, [...x]);\n")
	expectPropagate(t, "const [[a] = [1]] = /* #__DISPOSE__ */ []; f(a)", "f(1);\n")
}

func TestPropagateUnsupported(t *testing.T) {
	expectUnsupported(t, []string{"propagate"}, "const [a, b] = /* #__DISPOSE__ */ [1, ...x]; f(a, b)", "after a spread")
	expectUnsupported(t, []string{"propagate"}, "const [...a] = /* #__DISPOSE__ */ {}", "isn't an array literal")
	expectUnsupported(t, []string{"propagate"}, "const {a} = /* #__DISPOSE__ */ 1", "isn't a literal")
	expectUnsupported(t, []string{"propagate"}, "const {...r} = /* #__DISPOSE__ */ [...x]", "spread")
}

func TestPropagateMarkedMember(t *testing.T) {
	expectPropagate(t, "f(/* #__DISPOSE__ */ {a: 1, b: 2}['b'])", "f(2);\n")
	expectPropagate(t, "f(/* #__DISPOSE__ */ [1, [2, 3]][1][0])", "f(2);\n")
	expectPropagate(t, "f(/* #__DISPOSE__ */ {a: 1}[k])", "f({ a: 1 }[k]);\n")
	expectPropagate(t, "f({a: 1}.a)", "f({ a: 1 }.a);\n")
}

func TestPropagateIsIdempotent(t *testing.T) {
	for _, contents := range []string{
		"const {a, b = 2, ...r} = /* #__DISPOSE__ */ {a: 1, c: 3}; f(a, b, r)",
		"let {a, b} = /* #__DISPOSE__ */ {a: 1, b: 2}; b = 3; f(a, b)",
		"const {a = 1} = /* #__DISPOSE__ */ {a: x}; f(a)",
	} {
		tree, _, err := runPasses(t, []string{"propagate"}, contents)
		require.NoError(t, err)
		once := string(js_printer.Print(tree, js_printer.Options{}).JS)

		tree, _, err = runPasses(t, []string{"propagate"}, once)
		require.NoError(t, err)
		test.AssertEqualWithDiff(t, string(js_printer.Print(tree, js_printer.Options{}).JS), once)
	}
}

func TestInline(t *testing.T) {
	expectInline(t, "/* #__DISPOSE__ */ function add(a, b = 1) { return a + b }\nx = add(y)",
		"function add(a, b = 1) {\n  return a + b;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var a = y, b = 1;\n  return a + b;\n}();\n")
	expectInline(t, "/* #__DISPOSE__ */ const sq = (n) => n * n\nx = sq(3)",
		"const sq = (n) => n * n;\nx = /* #__DISPOSED__FUNCTION__ */ (() => {\n  var n = 3;\n  return n * n;\n})();\n")
	expectInline(t, "const f = /* #__DISPOSE__ */ function(a) { return a }\nx = f(1)",
		"const f = function(a) {\n  return a;\n};\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var a = 1;\n  return a;\n}();\n")
	expectInline(t, "/* #__DISPOSE__ */ function f(a, b) { return a }\nx = f(...y)",
		"function f(a, b) {\n  return a;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var [a, b] = [...y];\n  return a;\n}();\n")
	expectInline(t, "/* #__DISPOSE__ */ function f(a, ...r) { return r }\nx = f(1, 2, 3)",
		"function f(a, ...r) {\n  return r;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var a = 1, r = [2, 3];\n  return r;\n}();\n")
	expectInline(t, "/* #__DISPOSE__ */ function f(a) { return a }\nx = f(1, g())",
		"function f(a) {\n  return a;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var [a] = [1, g()];\n  return a;\n}();\n")
	expectInline(t, "/* #__DISPOSE__ */ function f(a = 1) { return a }\nx = f(y)",
		"function f(a = 1) {\n  return a;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var [a = 1] = [y];\n  return a;\n}();\n")
	expectInline(t, "/* #__DISPOSE__ */ function f() { return 1 }\nx = f(g())",
		"function f() {\n  return 1;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  return 1;\n}(g());\n")
	expectInline(t, "/* #__DISPOSE__ */ function f() { return 1 }\nf()",
		"function f() {\n  return 1;\n}\n/* #__DISPOSED__FUNCTION__ */ (function() {\n  return 1;\n})();\n")

	// Recursive calls are only expanded once
	expectInline(t, "/* #__DISPOSE__ */ function f(n) { return n ? f(n - 1) : 0 }\nx = f(1)",
		"function f(n) {\n  return n ? f(n - 1) : 0;\n}\nx = /* #__DISPOSED__FUNCTION__ */ function() {\n  var n = 1;\n  return n ? f(n - 1) : 0;\n}();\n")
}

func TestInlineSkipped(t *testing.T) {
	expectInline(t, "function f(a) { return a }\nx = f(1)", "function f(a) {\n  return a;\n}\nx = f(1);\n")
	expectInline(t, "/* #__DISPOSE__ */ function f() { return arguments[0] }\nx = f(1)",
		"function f() {\n  return arguments[0];\n}\nx = f(1);\n")
	expectInline(t, "/* #__DISPOSE__ */ let f = () => this\nx = f()", "let f = () => this;\nx = f();\n")
	expectInline(t, "/* #__DISPOSE__ */ let f = () => 1\nf = g\nx = f()", "let f = () => 1;\nf = g;\nx = f();\n")

	// The argument "b" would read the copy's own "b"
	expectInline(t, "/* #__DISPOSE__ */ function f(a) { var b = 1; return a + b }\nx = f(b)",
		"function f(a) {\n  var b = 1;\n  return a + b;\n}\nx = f(b);\n")

	// "k" means something else where "f" is called
	expectInline(t, "const k = 1\n/* #__DISPOSE__ */ function f() { return k }\nfunction g(k) { return f() }",
		"const k = 1;\nfunction f() {\n  return k;\n}\nfunction g(k) {\n  return f();\n}\n")

	// The name of a function expression refers to itself
	expectInline(t, "const f = /* #__DISPOSE__ */ function g(n) { return g }\nx = f(1)",
		"const f = function g(n) {\n  return g;\n};\nx = f(1);\n")
}

func TestKeys(t *testing.T) {
	expectKeys(t, "x = Object.keys({b: 1, a: 2, 1: 3, 0: 4})", "x = [\"0\", \"1\", \"b\", \"a\"];\n")
	expectKeys(t, "x = Object.keys({a: 1, b: 2, a: 3})", "x = [\"a\", \"b\"];\n")
	expectKeys(t, "x = Object.keys([1, , 3])", "x = [\"0\", \"2\"];\n")
	expectKeys(t, "x = Object.keys({})", "x = [];\n")

	// Unknown keys still make the values unnecessary
	expectKeys(t, "x = Object.keys({a: f(), ...y, [k]: 2})", "x = Object.keys({ a: 1, ...y, [k]: 2 });\n")
	expectKeys(t, "x = Object.keys([f(), ...y, , g])", "x = Object.keys([1, ...y, , 1]);\n")

	expectKeys(t, "x = Object.keys(y)", "x = Object.keys(y);\n")
	expectKeys(t, "x = Object.keys({a: 1}, 2)", "x = Object.keys({ a: 1 }, 2);\n")
	expectKeys(t, "function g(Object) { return Object.keys({a: 1}) }", "function g(Object) {\n  return Object.keys({ a: 1 });\n}\n")

	tree, ctx, err := runPasses(t, []string{"keys"}, "x = Object.keys({a: 1, ...y})")
	require.NoError(t, err)
	test.AssertEqual(t, ctx.Applied["keys"], 0)
	test.AssertEqual(t, string(js_printer.Print(tree, js_printer.Options{}).JS), "x = Object.keys({ a: 1, ...y });\n")
}

func TestIIFE(t *testing.T) {
	expectIIFE(t, "x = (() => 1)()", "x = 1;\n")
	expectIIFE(t, "x = (function() { return 2 })()", "x = 2;\n")
	expectIIFE(t, "x = (() => { f() })()", "x = void f();\n")
	expectIIFE(t, "x = (() => {})()", "x = void 0;\n")
	expectIIFE(t, "x = (() => { return })()", "x = void 0;\n")
	expectIIFE(t, "x = (() => this)()", "x = this;\n")

	expectIIFE(t, "x = (function() { return this })()", "x = function() {\n  return this;\n}();\n")
	expectIIFE(t, "x = (async () => 1)()", "x = (async () => 1)();\n")
	expectIIFE(t, "x = (() => { a(); b() })()", "x = (() => {\n  a();\n  b();\n})();\n")
	expectIIFE(t, "x = ((a) => a)()", "x = ((a) => a)();\n")
	expectIIFE(t, "x = (() => 1)(2)", "x = (() => 1)(2);\n")
}

func TestPassesCompose(t *testing.T) {
	expectPassesCommon(t, DefaultOrder, "const o = /* #__DISPOSE__ */ {a: 1 + 1}; x = o.a", "x = 2;\n", omitMarkers)
	expectPassesCommon(t, DefaultOrder, "const o = /* #__DISPOSE__ */ {a: 1, b: 2}; x = Object.keys(o)",
		"x = [\"a\", \"b\"];\n", omitMarkers)
	expectPassesCommon(t, DefaultOrder, "/* #__DISPOSE__ */ const f = () => 1\nx = f()",
		"const f = () => 1;\nx = /* #__DISPOSED__FUNCTION__ */ 1;\n", omitMarkers)
}
