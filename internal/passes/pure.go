package passes

import (
	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

// Removes calls annotated with "#__PURE__" whose result is never used, folds
// template literals with a known value into strings and folds optional
// chains on absent values.
func Pure(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Enter: func(p *traverse.Path) error {
		if !p.IsExpr() {
			return nil
		}
		expr := p.Expr()

		switch e := expr.Data.(type) {
		case *js_ast.ECall:
			if e.OptionalChain == js_ast.OptionalChainStart && disposable.IsAbsent(e.Target) {
				foldAbsentChain(ctx, p)
				return nil
			}
			if !js_ast.HasPureComment(expr.Comments) {
				return nil
			}
			removeUnusedPureCall(ctx, p)

		case *js_ast.EDot:
			if e.OptionalChain == js_ast.OptionalChainStart && disposable.IsAbsent(e.Target) {
				foldAbsentChain(ctx, p)
			}

		case *js_ast.EIndex:
			if e.OptionalChain == js_ast.OptionalChainStart && disposable.IsAbsent(e.Target) {
				foldAbsentChain(ctx, p)
			}

		case *js_ast.ETemplate:
			if e.TagOrNil.Data != nil {
				return nil
			}
			if value, ok := js_ast.Evaluate(expr); ok && value.Kind == js_ast.PrimitiveString {
				folded := value.ToExpr(expr.Loc)
				folded.Comments = expr.Comments
				p.ReplaceWith(folded)
				ctx.applied("pure", p, expr.Loc)
			}
		}
		return nil
	}}
}

func removeUnusedPureCall(ctx *Context, p *traverse.Path) {
	loc := p.Expr().Loc
	parent := p.Parent

	// "const unused = /* #__PURE__ */ f()"
	if parent.IsDecl() && p.Field == "ValueOrNil" {
		id, ok := parent.Decl().Binding.Data.(*js_ast.BIdentifier)
		if !ok {
			return
		}
		binding := ctx.Info.BindingFor(parent, id.Name)
		if binding == nil || binding.IsReferenced() || binding.IsExported {
			return
		}
		if binding.IsConstant() {
			parent.Remove()
		} else {
			// The variable is still assigned to later, so only the value goes
			p.Remove()
		}
		ctx.applied("pure", p, loc)
		ctx.Info.Rebuild()
		return
	}

	// "/* #__PURE__ */ f();"
	if parent.IsStmt() && p.Field == "Value" {
		if _, ok := parent.Stmt().Data.(*js_ast.SExpr); ok {
			parent.Remove()
			ctx.applied("pure", p, loc)
			ctx.Info.Rebuild()
		}
	}
}

// Replaces "a?.b.c" with "void 0" when "a" is absent. The whole optional
// chain is skipped, not only the first link.
func foldAbsentChain(ctx *Context, p *traverse.Path) {
	loc := p.Expr().Loc
	for p.Parent != nil && p.Field == "Target" {
		chain, ok := optionalChainOf(p.Parent.Expr())
		if !ok || chain != js_ast.OptionalChainContinue {
			break
		}
		p = p.Parent
	}
	p.ReplaceWith(js_ast.Undefined(loc))
	ctx.applied("pure", p, loc)
	ctx.Info.Rebuild()
}

func optionalChainOf(expr js_ast.Expr) (js_ast.OptionalChain, bool) {
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
