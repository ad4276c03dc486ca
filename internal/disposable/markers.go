package disposable

// A value is "disposable" when it is fully known at compile time and may be
// copied to every place it is read from. Object and array literals carry the
// fact as a "#__DISPOSE__" comment so that it survives a deep copy. All other
// eligible values only carry it in the side table below, which is keyed by
// node identity and is not carried over to copies.

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

const (
	DisposeAnnotation          = "__DISPOSE__"
	DisposedFunctionAnnotation = "__DISPOSED__FUNCTION__"

	DisposeComment          = "/* #__DISPOSE__ */"
	DisposedFunctionComment = "/* #__DISPOSED__FUNCTION__ */"
)

// The marker facts for one run. All passes of a run share one table.
type Markers struct {
	values    map[js_ast.E]bool
	functions map[interface{}]bool
}

func NewMarkers() *Markers {
	return &Markers{
		values:    make(map[js_ast.E]bool),
		functions: make(map[interface{}]bool),
	}
}

// Returns true if the last leading comment carries the "#__DISPOSE__"
// annotation. Earlier comments are ignored.
func HasDisposeComment(comments []js_ast.Comment) bool {
	if len(comments) == 0 {
		return false
	}
	return js_ast.CommentHasAnnotation(comments[len(comments)-1].Text, DisposeAnnotation)
}

// The absent value: "void 0", "undefined" and "null"
func IsAbsent(expr js_ast.Expr) bool {
	return js_ast.IsNullish(expr)
}

func isLiteral(expr js_ast.Expr) bool {
	switch expr.Data.(type) {
	case *js_ast.EString, *js_ast.ENumber, *js_ast.EBoolean, *js_ast.EBigInt:
		return true
	}
	return IsAbsent(expr)
}

func isContainer(expr js_ast.Expr) bool {
	switch expr.Data.(type) {
	case *js_ast.EObject, *js_ast.EArray:
		return true
	}
	return false
}

// Marks a value as disposable. Literals only get the in-memory flag. Object
// and array literals also get the marker comment unless it's already their
// last leading comment. Anything else is returned unchanged.
func (m *Markers) Mark(expr js_ast.Expr) js_ast.Expr {
	if expr.Data == nil || m.values[expr.Data] {
		return expr
	}

	if isLiteral(expr) {
		m.values[expr.Data] = true
		return expr
	}

	if isContainer(expr) {
		if !HasDisposeComment(expr.Comments) {
			comments := make([]js_ast.Comment, 0, len(expr.Comments)+1)
			comments = append(comments, expr.Comments...)
			expr.Comments = append(comments, js_ast.Comment{Loc: expr.Loc, Text: DisposeComment})
		}
		m.values[expr.Data] = true
	}

	return expr
}

func (m *Markers) IsDisposable(expr js_ast.Expr) bool {
	if expr.Data == nil {
		return false
	}
	if m.values[expr.Data] {
		return true
	}
	if !HasDisposeComment(expr.Comments) || (!isLiteral(expr) && !isContainer(expr)) {
		return false
	}
	m.values[expr.Data] = true
	return true
}

// Reports whether the function at this path was annotated with
// "#__DISPOSE__" and may be inlined into its callers. The annotation can be
// on the function itself, on the export statement around it, or on the
// variable declaration it initializes. The path may also be the declarator.
func (m *Markers) IsDisposedFunction(p *traverse.Path) bool {
	var fn interface{}
	var comments [][]js_ast.Comment

	switch {
	case p.IsDecl():
		decl := p.Decl()
		if decl == nil || !isFunctionExpr(decl.ValueOrNil) {
			return false
		}
		fn = decl.ValueOrNil.Data
		comments = append(comments, decl.ValueOrNil.Comments, p.Parent.Stmt().Comments)

	case p.IsStmt():
		stmt := p.Stmt()
		if _, ok := stmt.Data.(*js_ast.SFunction); !ok {
			return false
		}
		fn = stmt.Data
		comments = append(comments, stmt.Comments)
		if p.Parent != nil && p.Parent.IsStmt() {
			if _, ok := p.Parent.Stmt().Data.(*js_ast.SExportDefault); ok {
				comments = append(comments, p.Parent.Stmt().Comments)
			}
		}

	case p.IsExpr():
		expr := p.Expr()
		if !isFunctionExpr(expr) {
			return false
		}
		fn = expr.Data
		comments = append(comments, expr.Comments)
		if parent := p.Parent; parent != nil {
			if parent.IsDecl() {
				comments = append(comments, parent.Parent.Stmt().Comments)
			} else if parent.IsStmt() && parent.Parent != nil && parent.Parent.IsStmt() {
				// "export default () => {}" holds an expression statement
				if _, ok := parent.Parent.Stmt().Data.(*js_ast.SExportDefault); ok {
					comments = append(comments, parent.Parent.Stmt().Comments)
				}
			}
		}

	default:
		return false
	}

	if m.functions[fn] {
		return true
	}
	for _, list := range comments {
		if HasDisposeComment(list) {
			m.functions[fn] = true
			return true
		}
	}
	return false
}

func isFunctionExpr(expr js_ast.Expr) bool {
	switch expr.Data.(type) {
	case *js_ast.EFunction, *js_ast.EArrow:
		return true
	}
	return false
}
