package passes

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

// What the body of a function refers to that depends on where it runs
type bodyUses struct {
	this      bool
	arguments bool
	newTarget bool
	super     bool

	// The identifiers the body reads or writes and the names it declares,
	// including those of nested functions
	names    map[string]bool
	declared map[string]bool
}

func (u bodyUses) dependsOnCaller() bool {
	return u.this || u.arguments || u.newTarget || u.super
}

// Scans statements without changing them. "this", "arguments" and
// "new.target" inside nested functions and classes belong to those and are
// not reported.
func scanBody(stmts []js_ast.Stmt) bodyUses {
	uses := bodyUses{names: make(map[string]bool), declared: make(map[string]bool)}
	declare := func(name string) { uses.declared[name] = true }
	depth := 0

	opensScope := func(p *traverse.Path) bool {
		if p.IsStmt() {
			switch p.Stmt().Data.(type) {
			case *js_ast.SFunction, *js_ast.SClass:
				return true
			}
			return false
		}
		switch p.Expr().Data.(type) {
		case *js_ast.EFunction, *js_ast.EClass:
			return true
		}
		return false
	}

	tree := js_ast.AST{Stmts: stmts}
	_ = traverse.Traverse(&tree, traverse.Visitor{
		Enter: func(p *traverse.Path) error {
			if p.IsDecl() {
				bindingNames(p.Decl().Binding, declare)
				return nil
			}
			switch s := p.Stmt().Data.(type) {
			case *js_ast.SFunction:
				if s.Fn.Name != nil {
					declare(s.Fn.Name.Name)
				}
			case *js_ast.SClass:
				if s.Class.Name != nil {
					declare(s.Class.Name.Name)
				}
			case *js_ast.STry:
				if s.Catch != nil && s.Catch.BindingOrNil.Data != nil {
					bindingNames(s.Catch.BindingOrNil, declare)
				}
			}
			if opensScope(p) {
				depth++
				return nil
			}
			switch e := p.Expr().Data.(type) {
			case *js_ast.EIdentifier:
				uses.names[e.Name] = true
				if e.Name == "arguments" && depth == 0 {
					uses.arguments = true
				}
			case *js_ast.EThis:
				uses.this = uses.this || depth == 0
			case *js_ast.ENewTarget:
				uses.newTarget = uses.newTarget || depth == 0
			case *js_ast.ESuper:
				uses.super = uses.super || depth == 0
			}
			return nil
		},
		Exit: func(p *traverse.Path) error {
			if opensScope(p) {
				depth--
			}
			return nil
		},
	})
	return uses
}

func bindingNames(binding js_ast.Binding, visit func(name string)) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		visit(b.Name)

	case *js_ast.BArray:
		for _, item := range b.Items {
			bindingNames(item.Binding, visit)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			bindingNames(property.Value, visit)
		}
	}
}
