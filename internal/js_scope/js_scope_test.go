package js_scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_parser"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
	"github.com/disposejs/dispose/internal/traverse"
)

func crawl(t *testing.T, contents string) *Info {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelNone)
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
	require.True(t, ok, "parse error")
	return Crawl(&tree)
}

// Finds the path of the n-th identifier expression with this name
func findIdentifier(t *testing.T, info *Info, name string, n int) *traverse.Path {
	t.Helper()
	var found *traverse.Path
	count := 0
	require.NoError(t, traverse.Traverse(info.Tree, traverse.Visitor{Enter: func(p *traverse.Path) error {
		if id, ok := p.Expr().Data.(*js_ast.EIdentifier); ok && id.Name == name {
			if count == n {
				found = p
			}
			count++
		}
		return nil
	}}))
	require.NotNil(t, found, "identifier %q not found", name)
	return found
}

func TestDeclarationsAndReferences(t *testing.T) {
	info := crawl(t, "const a = 1; let b = a; var c; f(a, b)")
	a := info.Root.Bindings["a"]
	require.NotNil(t, a)
	test.AssertEqual(t, a.Kind, BindingConst)
	test.AssertEqual(t, len(a.References), 2)
	test.AssertEqual(t, a.IsConstant(), true)
	require.True(t, a.Path.IsDecl())

	b := info.Root.Bindings["b"]
	test.AssertEqual(t, b.Kind, BindingLet)
	test.AssertEqual(t, len(b.References), 1)

	c := info.Root.Bindings["c"]
	test.AssertEqual(t, c.IsReferenced(), false)
	test.AssertEqual(t, c.IsConstant(), true)

	// Globals have no binding
	require.Nil(t, info.BindingFor(findIdentifier(t, info, "f", 0), "f"))
}

func TestConstantViolations(t *testing.T) {
	info := crawl(t, `
		let a = 1; a = 2
		let b = 1; b++
		let c = 1; c += 1
		let d; [d] = x
		let e; ({e} = x)
		let f; ({k: [f]} = x)
		let g; for (g of x) ;
		let h; for ([h] in x) ;
		var i; var i
		let j = 1; x = j
		let k = 1; x = {k}
		let l = 1; x = [l]
	`)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		binding := info.Root.Bindings[name]
		require.NotNil(t, binding, name)
		require.False(t, binding.IsConstant(), name)
	}
	for _, name := range []string{"j", "k", "l"} {
		binding := info.Root.Bindings[name]
		require.True(t, binding.IsConstant(), name)
		test.AssertEqual(t, len(binding.References), 1)
	}

	info = crawl(t, "for (const x of y) ; for (var z in y) ;")
	require.Nil(t, info.BindingFor(traverse.Root(info.Tree), "x"))
	require.False(t, info.Root.Bindings["z"].IsConstant())
}

func TestHoisting(t *testing.T) {
	info := crawl(t, `
		f(v)
		function f() { return g }
		{ var v = 1; let w = 2; function g() {} }
		w
	`)
	v := info.Root.Bindings["v"]
	require.NotNil(t, v)
	test.AssertEqual(t, len(v.References), 1)

	f := info.Root.Bindings["f"]
	require.NotNil(t, f)
	test.AssertEqual(t, f.Kind, BindingFunction)
	test.AssertEqual(t, len(f.References), 1)
	require.True(t, f.Path.IsStmt())

	// "let" and block-level functions stay in their block
	require.Nil(t, info.Root.Bindings["w"])
	require.Nil(t, info.Root.Bindings["g"])
	require.Nil(t, info.BindingFor(findIdentifier(t, info, "w", 0), "w"))
}

func TestShadowing(t *testing.T) {
	info := crawl(t, `
		const a = 1
		function f(a) { return a }
		const g = (a) => a
		{ let a = 2; a }
		try {} catch (a) { a }
		x = function a() { return a }
		a
	`)
	outer := info.Root.Bindings["a"]
	test.AssertEqual(t, len(outer.References), 1)

	param := info.BindingFor(findIdentifier(t, info, "a", 0), "a")
	test.AssertEqual(t, param.Kind, BindingParam)
	require.NotSame(t, outer, param)

	arrow := info.BindingFor(findIdentifier(t, info, "a", 1), "a")
	test.AssertEqual(t, arrow.Kind, BindingParam)

	block := info.BindingFor(findIdentifier(t, info, "a", 2), "a")
	test.AssertEqual(t, block.Kind, BindingLet)

	catch := info.BindingFor(findIdentifier(t, info, "a", 3), "a")
	test.AssertEqual(t, catch.Kind, BindingCatch)

	self := info.BindingFor(findIdentifier(t, info, "a", 4), "a")
	test.AssertEqual(t, self.Kind, BindingFunctionSelf)

	require.Same(t, outer, info.BindingFor(findIdentifier(t, info, "a", 5), "a"))
}

func TestImportsAndExports(t *testing.T) {
	info := crawl(t, `
		import d, {x as y} from 'm'
		import * as ns from 'n'
		export const a = 1
		const b = 2, c = 3
		export {b}
		export function f() {}
	`)
	for _, name := range []string{"d", "y", "ns"} {
		test.AssertEqual(t, info.Root.Bindings[name].Kind, BindingImport)
	}
	test.AssertEqual(t, info.Root.Bindings["a"].IsExported, true)
	test.AssertEqual(t, info.Root.Bindings["b"].IsExported, true)
	test.AssertEqual(t, info.Root.Bindings["c"].IsExported, false)
	test.AssertEqual(t, info.Root.Bindings["f"].IsExported, true)
}

func TestRebuild(t *testing.T) {
	info := crawl(t, "const a = 1, b = 2; f(a, b)")
	a := info.Root.Bindings["a"]
	require.NotNil(t, a)

	// Remove the declarator and its reference, then rebuild
	a.References[0].Remove()
	a.Path.Remove()
	info.Rebuild()

	require.Nil(t, info.Root.Bindings["a"])
	b := info.Root.Bindings["b"]
	require.NotNil(t, b)
	test.AssertEqual(t, len(b.References), 1)
	require.NotNil(t, b.References[0].Node())
}

func TestIsAssignTarget(t *testing.T) {
	info := crawl(t, "a = b; [c, ...d] = e; ({f, g: h = i} = j); k++; for (l in m) ;")
	for _, name := range []string{"a", "c", "d", "f", "h", "k", "l"} {
		require.True(t, IsAssignTarget(findIdentifier(t, info, name, 0)), name)
	}
	for _, name := range []string{"b", "e", "i", "j", "m"} {
		require.False(t, IsAssignTarget(findIdentifier(t, info, name, 0)), name)
	}
}
