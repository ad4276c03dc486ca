package js_parser

import (
	"testing"

	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_printer"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
)

func parseForTest(t *testing.T, contents string, options Options) (js_ast.AST, string, bool) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelNone)
	tree, ok := Parse(log, test.SourceForTest(contents), options)
	text := ""
	for _, msg := range log.Done() {
		text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
	}
	return tree, text, ok
}

func expectParseErrorCommon(t *testing.T, contents string, expected string, options Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		_, text, ok := parseForTest(t, contents, options)
		test.AssertEqualWithDiff(t, text, expected)
		if ok {
			t.Fatal("Expected a parse failure")
		}
	})
}

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	expectParseErrorCommon(t, contents, expected, Options{})
}

func expectPrintedCommon(t *testing.T, contents string, expected string, options Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree, text, ok := parseForTest(t, contents, options)
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, Options{})
}

func TestSemicolonInsertion(t *testing.T) {
	expectPrinted(t, "x\n++y", "x;\n++y;\n")
	expectPrinted(t, "a\n(b)", "a(b);\n")
	expectPrinted(t, "function f() { return\nx }", "function f() {\n  return;\n  x;\n}\n")
	expectPrinted(t, "do x(); while (y) z()", "do\n  x();\nwhile (y);\nz();\n")
	expectParseError(t, "a b", "<stdin>: error: Expected \";\" but found \"b\"\n")
}

func TestReturn(t *testing.T) {
	expectParseError(t, "return", "<stdin>: error: A return statement cannot be used here\n")
	expectParseError(t, "class A { x = () => { return } ; y = (return) }", "<stdin>: error: Unexpected \"return\"\n")
	expectPrintedCommon(t, "return 1", "return 1;\n", Options{AllowReturnOutsideFunction: true})
	expectPrinted(t, "x = () => { return 1 }", "x = () => {\n  return 1;\n};\n")
}

func TestDeclarations(t *testing.T) {
	expectPrinted(t, "var a, b = 1", "var a, b = 1;\n")
	expectPrinted(t, "let a", "let a;\n")
	expectPrinted(t, "let\nx = 1", "let x = 1;\n")
	expectPrinted(t, "let = 1", "(let) = 1;\n")
	expectPrinted(t, "const {a, ...b} = c", "const { a, ...b } = c;\n")
	expectPrinted(t, "const [a, , ...b] = c", "const [a, , ...b] = c;\n")
	expectParseError(t, "const x", "<stdin>: error: The constant \"x\" must be initialized\n")
	expectParseError(t, "let [a]", "<stdin>: error: This destructuring pattern must be initialized\n")
	expectParseError(t, "if (a) const b = 1", "<stdin>: error: Cannot use a declaration in a single-statement context\n")
	expectParseError(t, "while (a) class B {}", "<stdin>: error: Cannot use a declaration in a single-statement context\n")
	expectParseError(t, "let [...a, b] = c", "<stdin>: error: Unexpected \",\" after rest pattern\n")
}

func TestForLoops(t *testing.T) {
	expectPrinted(t, "for (let i = 0, n = a.length; i < n; i++) ;", "for (let i = 0, n = a.length; i < n; i++)\n  ;\n")
	expectPrinted(t, "for (a in b) ;", "for (a in b)\n  ;\n")
	expectPrinted(t, "for (const [k, v] of m) {}", "for (const [k, v] of m) {\n}\n")
	expectPrinted(t, "async function f() { for await (x of y) ; }", "async function f() {\n  for await (x of y)\n    ;\n}\n")
	expectParseError(t, "for (var a, b of c) ;", "<stdin>: error: for-of loops must have a single declaration\n")
	expectParseError(t, "for (var a = 1 of c) ;", "<stdin>: error: for-of loop variables cannot have an initializer\n")
	expectParseError(t, "for (let a, b in c) ;", "<stdin>: error: for-in loops must have a single declaration\n")
	expectParseError(t, "function f() { for await (x of y) ; }", "<stdin>: error: Cannot use \"await\" outside an async function\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "debugger", "debugger;\n")
	expectPrinted(t, ";", ";\n")
	expectPrinted(t, "with (a) b", "with (a)\n  b;\n")
	expectPrinted(t, "{ a(); b() }", "{\n  a();\n  b();\n}\n")
	expectPrinted(t, "a: { break a }", "a: {\n  break a;\n}\n")
	expectParseError(t, "switch (a) { default: default: }", "<stdin>: error: Multiple default clauses are not allowed\n")
	expectParseError(t, "throw\nx", "<stdin>: error: Unexpected newline after \"throw\"\n")
	expectParseError(t, "try {}", "<stdin>: error: Expected \"finally\" but found end of file\n")
}

func TestFunctionsAndClasses(t *testing.T) {
	expectPrinted(t, "function f(a = 1, {b}, [c], ...d) {}", "function f(a = 1, { b }, [c], ...d) {\n}\n")
	expectPrinted(t, "x = async function* () {}", "x = async function*() {\n};\n")
	expectPrinted(t, "x = async", "x = async;\n")
	expectPrinted(t, "x = async()", "x = async();\n")
	expectPrinted(t, "x = async => async", "x = (async) => async;\n")
	expectPrinted(t, "x = async a => a", "x = async (a) => a;\n")
	expectPrinted(t, "x = ([a, b], {c}) => a", "x = ([a, b], { c }) => a;\n")
	expectPrinted(t, "class A { static async *[b]() {} }", "class A {\n  static async *[b]() {\n  }\n}\n")
	expectPrinted(t, "class A { 'b' = 1; 2 }", "class A {\n  b = 1;\n  2;\n}\n")
	expectParseError(t, "x = {get a(b) {}}", "<stdin>: error: Getter must not have any arguments\n")
	expectParseError(t, "x = {set a() {}}", "<stdin>: error: Setter must have exactly one argument\n")
	expectParseError(t, "x = {#a: 1}", "<stdin>: error: Private field \"#a\" can only be declared inside a class\n")
	expectParseError(t, "class A { static {} }", "<stdin>: error: Class static blocks are not supported\n")
	expectParseError(t, "async function f() { var await }", "<stdin>: error: Cannot use \"await\" as an identifier here\n")
	expectParseError(t, "function f(...a, b) {}", "<stdin>: error: Expected \")\" but found \",\"\n")
}

func TestExpressions(t *testing.T) {
	expectPrinted(t, "x = a ? b : c", "x = a ? b : c;\n")
	expectPrinted(t, "x = a?.b?.[c]?.(d)", "x = a?.b?.[c]?.(d);\n")
	expectPrinted(t, "x = a.#b", "x = a.#b;\n")
	expectPrinted(t, "x = a.if.class", "x = a.if.class;\n")
	expectPrinted(t, "x = {if: 1, class: 2}", "x = { if: 1, class: 2 };\n")
	expectPrinted(t, "x = `a${b}c${d}e`", "x = `a${b}c${d}e`;\n")
	expectPrinted(t, "x = a /b/ c", "x = a / b / c;\n")
	expectPrinted(t, "x = /b/.test(c)", "x = /b/.test(c);\n")
	expectParseError(t, "x = -a ** b", "<stdin>: error: Unexpected \"**\"\n")
	expectParseError(t, "x = ()", "<stdin>: error: Unexpected \")\"\n")
	expectParseError(t, "x = (...a)", "<stdin>: error: Unexpected \"...\"\n")
	expectParseError(t, "x = ({a() {}}) => 1", "<stdin>: error: Invalid binding pattern\n")
	expectParseError(t, "x = (a + b) => 1", "<stdin>: error: Invalid binding pattern\n")
	expectParseError(t, "a?.b`c`", "<stdin>: error: Template literals cannot have an optional chain as a tag\n")
	expectParseError(t, "new a?.b()", "<stdin>: error: Invalid optional chain in \"new\" expression\n")
}

func TestModules(t *testing.T) {
	expectPrinted(t, "import {default as a, if as b} from 'x'", "import { default as a, if as b } from \"x\";\n")
	expectPrinted(t, "import a, * as b from 'x'", "import a, * as b from \"x\";\n")
	expectPrinted(t, "export {a as default}", "export { a as default };\n")
	expectPrinted(t, "export let a = 1, b", "export let a = 1, b;\n")
	expectPrinted(t, "export default async function f() {}", "export default async function f() {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
	expectPrinted(t, "export default async () => 1", "export default async () => 1;\n")
	expectParseError(t, "import {if} from 'x'", "<stdin>: error: Expected \"as\" but found \"}\"\n")
	expectParseError(t, "function f() { import 'x' }", "<stdin>: error: Unexpected \"'x'\"\n")
}

// Annotation comments have to land on the node they describe, since the
// rewrite passes look for them there
func TestCommentPlacement(t *testing.T) {
	tree, text, ok := parseForTest(t, "/* #__PURE__ */ a.b(c)", Options{})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, text, "")
	value := tree.Stmts[0].Data.(*js_ast.SExpr).Value
	call, isCall := value.Data.(*js_ast.ECall)
	test.AssertEqual(t, isCall, true)
	test.AssertEqual(t, len(value.Comments), 1)
	test.AssertEqual(t, value.Comments[0].Text, "/* #__PURE__ */")
	test.AssertEqual(t, len(call.Target.Comments), 0)

	tree, _, ok = parseForTest(t, "const x = /* #__DISPOSE__ */ {a: 1}", Options{})
	test.AssertEqual(t, ok, true)
	decl := tree.Stmts[0].Data.(*js_ast.SLocal).Decls[0]
	_, isObject := decl.ValueOrNil.Data.(*js_ast.EObject)
	test.AssertEqual(t, isObject, true)
	test.AssertEqual(t, len(decl.ValueOrNil.Comments), 1)
	test.AssertEqual(t, decl.ValueOrNil.Comments[0].Text, "/* #__DISPOSE__ */")

	tree, _, ok = parseForTest(t, "// lead\nfunction f() {}\n// trail", Options{})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, len(tree.Stmts), 2)
	test.AssertEqual(t, len(tree.Stmts[0].Comments), 1)
	test.AssertEqual(t, tree.Stmts[0].Comments[0].Text, "// lead")
	comment, isComment := tree.Stmts[1].Data.(*js_ast.SComment)
	test.AssertEqual(t, isComment, true)
	test.AssertEqual(t, comment.Text, "// trail")
}

func TestDirectives(t *testing.T) {
	tree, _, ok := parseForTest(t, "'use strict'; 'x'; y; 'z'", Options{})
	test.AssertEqual(t, ok, true)
	_, first := tree.Stmts[0].Data.(*js_ast.SDirective)
	_, second := tree.Stmts[1].Data.(*js_ast.SDirective)
	_, third := tree.Stmts[3].Data.(*js_ast.SDirective)
	test.AssertEqual(t, first, true)
	test.AssertEqual(t, second, true)
	test.AssertEqual(t, third, false)

	// A string at the start of a larger expression is not a directive
	tree, _, ok = parseForTest(t, "'a' + b", Options{})
	test.AssertEqual(t, ok, true)
	_, isExpr := tree.Stmts[0].Data.(*js_ast.SExpr)
	test.AssertEqual(t, isExpr, true)
}
