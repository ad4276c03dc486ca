package disposable

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_scope"
	"github.com/disposejs/dispose/internal/traverse"
)

// Given a value that is about to replace the node at "p", walks up through
// the member accesses that read from it and reads the same properties from
// the value. Returns the outermost path that can be replaced and the value
// to replace it with. With "const a = {b: {c: 1}}", the "a" in "a.b.c" lands
// on the whole member expression with the value "1".
//
// The walk stops at the first key that isn't known, at a read that can't be
// done statically, at an assignment target, and before a method call that
// would lose its "this" value.
func (m *Markers) ResolveChain(p *traverse.Path, value js_ast.Expr) (*traverse.Path, js_ast.Expr) {
	shortCircuited := false

	for p.Parent != nil && p.Field == "Target" {
		parent := p.Parent
		chain, ok := optionalChain(parent.Expr())
		if !ok {
			break
		}

		// "a?.b.c()" is entirely skipped when "a" is absent
		if shortCircuited && chain == js_ast.OptionalChainContinue {
			p = parent
			continue
		}
		shortCircuited = false

		var key string
		switch e := parent.Expr().Data.(type) {
		case *js_ast.EDot:
			key = e.Name
		case *js_ast.EIndex:
			if key, ok = js_ast.PropertyKeyString(e.Index); !ok {
				return p, value
			}
		default:
			return p, value
		}

		if js_scope.IsAssignTarget(parent) {
			break
		}

		optional := chain == js_ast.OptionalChainStart
		next, ok := m.Extract(value, key, optional)
		if !ok {
			break
		}
		if isCallTarget(parent) && !canCallWithoutThis(next) {
			break
		}

		if optional && IsAbsent(value) {
			shortCircuited = true
		}
		value = next
		p = parent
	}

	return p, value
}

func optionalChain(expr js_ast.Expr) (js_ast.OptionalChain, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		return e.OptionalChain, true
	case *js_ast.EIndex:
		return e.OptionalChain, true
	case *js_ast.ECall:
		return e.OptionalChain, true
	}
	return js_ast.OptionalChainNone, false
}

func isCallTarget(p *traverse.Path) bool {
	if p.Field != "Target" {
		return false
	}
	parent, ok := p.ParentExpr()
	if !ok {
		return false
	}
	_, isCall := parent.Data.(*js_ast.ECall)
	return isCall
}

// Arrow functions and primitive values behave the same whether or not they
// are called as a method
func canCallWithoutThis(expr js_ast.Expr) bool {
	if _, ok := expr.Data.(*js_ast.EArrow); ok {
		return true
	}
	return isLiteral(expr)
}
