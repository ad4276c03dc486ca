package passes

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

// Unwraps an immediately-invoked function whose body is at most one
// statement:
//
//   (() => x)()                  =>  x
//   (function() { return x })()  =>  x
//   (() => { f() })()            =>  void f()
//   (() => {})()                 =>  void 0
func IIFE(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Enter: func(p *traverse.Path) error {
		expr := p.Expr()
		call, ok := expr.Data.(*js_ast.ECall)
		if !ok || len(call.Args) != 0 || call.OptionalChain != js_ast.OptionalChainNone {
			return nil
		}

		var stmts []js_ast.Stmt
		switch fn := call.Target.Data.(type) {
		case *js_ast.EArrow:
			if fn.IsAsync || len(fn.Args) != 0 {
				return nil
			}
			stmts = fn.Body.Stmts

		case *js_ast.EFunction:
			if fn.Fn.IsAsync || fn.Fn.IsGenerator || len(fn.Fn.Args) != 0 {
				return nil
			}
			uses := scanBody(fn.Fn.Body.Stmts)
			if uses.dependsOnCaller() {
				return nil
			}
			if fn.Fn.Name != nil && uses.names[fn.Fn.Name.Name] {
				return nil
			}
			stmts = fn.Fn.Body.Stmts

		default:
			return nil
		}

		var result js_ast.Expr
		switch len(stmts) {
		case 0:
			result = js_ast.Undefined(expr.Loc)

		case 1:
			switch s := stmts[0].Data.(type) {
			case *js_ast.SReturn:
				if s.ValueOrNil.Data != nil {
					result = s.ValueOrNil
				} else {
					result = js_ast.Undefined(stmts[0].Loc)
				}

			case *js_ast.SExpr:
				result = js_ast.Expr{Loc: s.Value.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpVoid, Value: s.Value}}

			default:
				return nil
			}

		default:
			return nil
		}

		if len(expr.Comments) > 0 {
			comments := make([]js_ast.Comment, 0, len(expr.Comments)+len(result.Comments))
			comments = append(comments, expr.Comments...)
			result.Comments = append(comments, result.Comments...)
		}
		p.ReplaceWith(result)
		ctx.applied("iife", p, expr.Loc)
		ctx.Info.Rebuild()
		return nil
	}}
}
