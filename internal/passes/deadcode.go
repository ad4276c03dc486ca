package passes

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

// Removes code that can never run: branches of "if" statements with a known
// test, loops that never start, statements after a jump, and empty
// statements.
func DeadCode(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Enter: func(p *traverse.Path) error {
		if !p.IsStmt() {
			return nil
		}
		stmt := p.Stmt()

		switch s := stmt.Data.(type) {
		case *js_ast.SEmpty:
			if p.InList() {
				p.Remove()
				ctx.applied("deadcode", p, stmt.Loc)
			}

		case *js_ast.SIf:
			test, ok := js_ast.Evaluate(s.Test)
			if !ok {
				return nil
			}
			var stmts []js_ast.Stmt
			if test.ToBoolean() {
				stmts = append(stmts, scopedStmt(s.Yes))
				if s.NoOrNil.Data != nil {
					stmts = append(stmts, keepInDeadControlFlow(s.NoOrNil)...)
				}
			} else {
				stmts = keepInDeadControlFlow(s.Yes)
				if s.NoOrNil.Data != nil {
					stmts = append(stmts, scopedStmt(s.NoOrNil))
				}
			}
			replaceStmt(p, stmts)
			ctx.applied("deadcode", p, stmt.Loc)
			ctx.Info.Rebuild()

		case *js_ast.SWhile:
			if test, ok := js_ast.Evaluate(s.Test); ok && !test.ToBoolean() {
				replaceStmt(p, keepInDeadControlFlow(s.Body))
				ctx.applied("deadcode", p, stmt.Loc)
				ctx.Info.Rebuild()
			}

		case *js_ast.SFor:
			if s.TestOrNil.Data == nil {
				return nil
			}
			test, ok := js_ast.Evaluate(s.TestOrNil)
			if !ok || test.ToBoolean() {
				return nil
			}

			// The initializer still runs once. A "let" or "const" initializer
			// would leak out of the loop scope, so those loops are kept.
			var stmts []js_ast.Stmt
			if s.InitOrNil.Data != nil {
				if statementCaresAboutScope(s.InitOrNil) {
					return nil
				}
				stmts = append(stmts, s.InitOrNil)
			}
			stmts = append(stmts, keepInDeadControlFlow(s.Body)...)
			replaceStmt(p, stmts)
			ctx.applied("deadcode", p, stmt.Loc)
			ctx.Info.Rebuild()

		case *js_ast.SReturn, *js_ast.SThrow, *js_ast.SBreak, *js_ast.SContinue:
			after := p.StmtsAfter()
			if len(after) == 0 {
				return nil
			}
			var kept []js_ast.Stmt
			changed := false
			for _, dead := range after {
				stmts := keepInDeadControlFlow(dead)
				if len(stmts) != 1 || stmts[0].Data != dead.Data {
					changed = true
				}
				kept = append(kept, stmts...)
			}
			if changed {
				p.ReplaceStmtsAfter(kept)
				ctx.applied("deadcode", p, stmt.Loc)
				ctx.Info.Rebuild()
			}
		}
		return nil
	}}
}

func replaceStmt(p *traverse.Path, stmts []js_ast.Stmt) {
	if len(stmts) == 0 {
		p.Remove()
		return
	}
	p.ReplaceWithMultipleStmts(stmts)
}

// A statement that declares something block-scoped must keep its own block
// when it's moved out of an "if"
func scopedStmt(stmt js_ast.Stmt) js_ast.Stmt {
	if statementCaresAboutScope(stmt) {
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{stmt}}}
	}
	return stmt
}

func statementCaresAboutScope(stmt js_ast.Stmt) bool {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock, *js_ast.SEmpty, *js_ast.SDebugger, *js_ast.SExpr, *js_ast.SIf,
		*js_ast.SFor, *js_ast.SForIn, *js_ast.SForOf, *js_ast.SDoWhile, *js_ast.SWhile,
		*js_ast.SWith, *js_ast.STry, *js_ast.SSwitch, *js_ast.SReturn, *js_ast.SThrow,
		*js_ast.SBreak, *js_ast.SContinue, *js_ast.SDirective:
		return false

	case *js_ast.SLocal:
		return s.Kind != js_ast.LocalVar

	default:
		return true
	}
}

// If a statement never runs, everything in it can be trimmed except for
// hoisted declarations ("var" and "function"), which affect the parent
// scope:
//
//   function f() { x = 1; return; var x }
//
// Removing "var x" would make "x = 1" assign to a global variable instead.
func keepInDeadControlFlow(stmt js_ast.Stmt) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SExpr, *js_ast.SThrow, *js_ast.SReturn,
		*js_ast.SBreak, *js_ast.SContinue, *js_ast.SClass, *js_ast.SDebugger:
		return nil

	case *js_ast.SLocal:
		if s.Kind != js_ast.LocalVar {
			return nil
		}

		if isBareVar(s) {
			return []js_ast.Stmt{stmt}
		}

		// Omit everything except the identifiers
		var identifiers []js_ast.Decl
		for _, decl := range s.Decls {
			identifiers = findIdentifiers(decl.Binding, identifiers)
		}
		return []js_ast.Stmt{{Loc: stmt.Loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: identifiers, IsExport: s.IsExport}}}

	case *js_ast.SBlock:
		var kept []js_ast.Stmt
		changed := false
		for _, child := range s.Stmts {
			stmts := keepInDeadControlFlow(child)
			if len(stmts) != 1 || stmts[0].Data != child.Data {
				changed = true
			}
			kept = append(kept, stmts...)
		}
		if len(kept) == 0 {
			return nil
		}
		if !changed {
			return []js_ast.Stmt{stmt}
		}
		return []js_ast.Stmt{{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: kept}}}

	default:
		// Everything else must be kept
		return []js_ast.Stmt{stmt}
	}
}

func isBareVar(local *js_ast.SLocal) bool {
	for _, decl := range local.Decls {
		if _, ok := decl.Binding.Data.(*js_ast.BIdentifier); !ok || decl.ValueOrNil.Data != nil {
			return false
		}
	}
	return true
}

func findIdentifiers(binding js_ast.Binding, identifiers []js_ast.Decl) []js_ast.Decl {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		identifiers = append(identifiers, js_ast.Decl{Binding: js_ast.Binding{Loc: binding.Loc, Data: &js_ast.BIdentifier{Name: b.Name}}})

	case *js_ast.BArray:
		for _, item := range b.Items {
			identifiers = findIdentifiers(item.Binding, identifiers)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			identifiers = findIdentifiers(property.Value, identifiers)
		}
	}

	return identifiers
}
