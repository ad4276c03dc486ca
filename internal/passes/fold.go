package passes

import (
	"math"

	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

// Folds unary, binary and conditional expressions whose operands are
// primitive literals. This runs when a node is exited so that nested
// operands are folded first.
func Fold(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Exit: func(p *traverse.Path) error {
		if !p.IsExpr() {
			return nil
		}
		expr := p.Expr()

		switch e := expr.Data.(type) {
		case *js_ast.EUnary, *js_ast.EBinary, *js_ast.EIf:
			// "void 0" is already as small as it gets
			if js_ast.IsPrimitiveLiteral(expr.Data) {
				return nil
			}

			if value, ok := js_ast.Evaluate(expr); ok {
				if value.Kind == js_ast.PrimitiveNumber && (math.IsNaN(value.Number) || math.IsInf(value.Number, 0)) {
					// "NaN" and "Infinity" would be identifiers, which can be shadowed
					return nil
				}
				folded := value.ToExpr(expr.Loc)
				folded.Comments = expr.Comments
				p.ReplaceWith(folded)
				ctx.applied("fold", p, expr.Loc)
				return nil
			}

			if result, ok := foldShortCircuit(e); ok && !(isCallee(p) && isMemberAccess(result)) {
				result.Comments = append(append([]js_ast.Comment{}, expr.Comments...), result.Comments...)
				p.ReplaceWith(result)
				ctx.applied("fold", p, expr.Loc)
				ctx.Info.Rebuild()
			}
		}
		return nil
	}}
}

// Picks the operand of a logical or conditional expression when the value
// that decides it is known
func foldShortCircuit(data js_ast.E) (js_ast.Expr, bool) {
	switch e := data.(type) {
	case *js_ast.EBinary:
		left, ok := js_ast.Evaluate(e.Left)
		if !ok {
			break
		}
		switch e.Op {
		case js_ast.BinOpLogicalAnd:
			if left.ToBoolean() {
				return e.Right, true
			}
			return e.Left, true

		case js_ast.BinOpLogicalOr:
			if left.ToBoolean() {
				return e.Left, true
			}
			return e.Right, true

		case js_ast.BinOpNullishCoalescing:
			if left.Kind == js_ast.PrimitiveNull || left.Kind == js_ast.PrimitiveUndefined {
				return e.Right, true
			}
			return e.Left, true
		}

	case *js_ast.EIf:
		if test, ok := js_ast.Evaluate(e.Test); ok {
			if test.ToBoolean() {
				return e.Yes, true
			}
			return e.No, true
		}
	}
	return js_ast.Expr{}, false
}

// Returns true if this expression is the target of a call. Moving a member
// access into this position changes the "this" value of the call.
func isCallee(p *traverse.Path) bool {
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

func isMemberAccess(expr js_ast.Expr) bool {
	switch expr.Data.(type) {
	case *js_ast.EDot, *js_ast.EIndex:
		return true
	}
	return false
}
