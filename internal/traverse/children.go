package traverse

import (
	"github.com/disposejs/dispose/internal/js_ast"
)

// Slots that live directly inside a node struct have a stable address. The
// accessors below only check that the owning node is still attached where
// this path expects it.

func (p *Path) ownedExpr(owner interface{}, slot *js_ast.Expr) func() *js_ast.Expr {
	return func() *js_ast.Expr {
		if p.Node() != owner {
			return nil
		}
		return slot
	}
}

func (p *Path) ownedStmt(owner interface{}, slot *js_ast.Stmt) func() *js_ast.Stmt {
	return func() *js_ast.Stmt {
		if p.Node() != owner {
			return nil
		}
		return slot
	}
}

func (p *Path) ownedExprs(owner interface{}, slot *[]js_ast.Expr) func() *[]js_ast.Expr {
	return func() *[]js_ast.Expr {
		if p.Node() != owner {
			return nil
		}
		return slot
	}
}

func (p *Path) ownedStmts(owner interface{}, slot *[]js_ast.Stmt) func() *[]js_ast.Stmt {
	return func() *[]js_ast.Stmt {
		if p.Node() != owner {
			return nil
		}
		return slot
	}
}

func (p *Path) exprChild(field string, slot func() *js_ast.Expr, optional bool) *Path {
	return &Path{Parent: p, Field: field, kind: slotExpr, expr: slot, optional: optional, span: 1}
}

func (p *Path) stmtChild(field string, slot func() *js_ast.Stmt, optional bool) *Path {
	return &Path{Parent: p, Field: field, kind: slotStmt, stmt: slot, optional: optional, span: 1}
}

// Each list element gets its path from one of these. The path is bound to
// the node currently at index "i".

func (p *Path) exprElement(field string, list func() *[]js_ast.Expr, i int) *Path {
	return &Path{Parent: p, Field: field, kind: slotExprList, exprs: list, id: (*list())[i].Data, index: i, span: 1}
}

func (p *Path) stmtElement(field string, list func() *[]js_ast.Stmt, i int) *Path {
	return &Path{Parent: p, Field: field, kind: slotStmtList, stmts: list, id: (*list())[i].Data, index: i, span: 1}
}

func (p *Path) declElement(list func() *[]js_ast.Decl, i int) *Path {
	return &Path{Parent: p, Field: "Decls", kind: slotDecl, decls: list, id: (*list())[i].Binding.Data, index: i, span: 1}
}

func (p *Path) propertyElement(list func() *[]js_ast.Property, i int) *Path {
	return &Path{Parent: p, Field: "Properties", kind: slotProperty, props: list, id: propertyID(&(*list())[i]), index: i, span: 1}
}

// A list of children of one node. Single slots are lists of length one. The
// traversal asks for the element at an index each time so it can follow
// edits made while the list is being visited.
type childList struct {
	length func() int
	at     func(i int) *Path
}

func single(child *Path) childList {
	return childList{
		length: func() int { return 1 },
		at:     func(int) *Path { return child },
	}
}

func (p *Path) exprList(field string, list func() *[]js_ast.Expr) childList {
	return childList{
		length: func() int {
			if l := list(); l != nil {
				return len(*l)
			}
			return 0
		},
		at: func(i int) *Path { return p.exprElement(field, list, i) },
	}
}

func (p *Path) stmtList(field string, list func() *[]js_ast.Stmt) childList {
	return childList{
		length: func() int {
			if l := list(); l != nil {
				return len(*l)
			}
			return 0
		},
		at: func(i int) *Path { return p.stmtElement(field, list, i) },
	}
}

// Returns the children of the node at this path in evaluation order. Nodes
// without a value in an optional slot are skipped. The keys of properties are
// only children when they are computed.
func (p *Path) children() []childList {
	var result []childList

	addExpr := func(field string, owner interface{}, slot *js_ast.Expr, optional bool) {
		if slot.Data != nil {
			result = append(result, single(p.exprChild(field, p.ownedExpr(owner, slot), optional)))
		}
	}
	addStmt := func(field string, owner interface{}, slot *js_ast.Stmt, optional bool) {
		if slot.Data != nil {
			result = append(result, single(p.stmtChild(field, p.ownedStmt(owner, slot), optional)))
		}
	}
	addExprs := func(field string, owner interface{}, slot *[]js_ast.Expr) {
		result = append(result, p.exprList(field, p.ownedExprs(owner, slot)))
	}
	addStmts := func(field string, owner interface{}, slot *[]js_ast.Stmt) {
		result = append(result, p.stmtList(field, p.ownedStmts(owner, slot)))
	}
	addBinding := func(field string, owner interface{}, binding js_ast.Binding) {
		p.bindingChildren(field, owner, binding, func(list childList) { result = append(result, list) })
	}
	addFn := func(owner interface{}, fn *js_ast.Fn) {
		for i := range fn.Args {
			arg := &fn.Args[i]
			addBinding("Args", owner, arg.Binding)
			addExpr("Args", owner, &arg.DefaultOrNil, true)
		}
		addStmts("Body", owner, &fn.Body.Stmts)
	}
	addClass := func(owner interface{}, class *js_ast.Class) {
		addExpr("ExtendsOrNil", owner, &class.ExtendsOrNil, true)
		result = append(result, p.propertyList(owner, &class.Properties))
	}

	switch p.kind {
	case slotRoot:
		tree := p.tree
		addStmts("Stmts", tree, &tree.Stmts)
		return result

	case slotDecl:
		decl := p.Decl()
		if decl == nil {
			return nil
		}
		addBinding("Binding", decl.Binding.Data, decl.Binding)
		if decl.ValueOrNil.Data != nil {
			result = append(result, single(p.exprChild("ValueOrNil", func() *js_ast.Expr {
				if decl := p.Decl(); decl != nil {
					return &decl.ValueOrNil
				}
				return nil
			}, true)))
		}
		return result

	case slotProperty:
		property := p.Property()
		if property == nil {
			return nil
		}
		slot := func(get func(*js_ast.Property) *js_ast.Expr) func() *js_ast.Expr {
			return func() *js_ast.Expr {
				if property := p.Property(); property != nil {
					return get(property)
				}
				return nil
			}
		}
		if property.IsComputed && property.Key.Data != nil {
			result = append(result, single(p.exprChild("Key", slot(func(prop *js_ast.Property) *js_ast.Expr { return &prop.Key }), false)))
		}
		if property.ValueOrNil.Data != nil {
			result = append(result, single(p.exprChild("ValueOrNil", slot(func(prop *js_ast.Property) *js_ast.Expr { return &prop.ValueOrNil }), true)))
		}
		if property.InitializerOrNil.Data != nil {
			result = append(result, single(p.exprChild("InitializerOrNil", slot(func(prop *js_ast.Property) *js_ast.Expr { return &prop.InitializerOrNil }), true)))
		}
		return result
	}

	if p.IsStmt() {
		stmt := p.Stmt()
		switch s := stmt.Data.(type) {
		case *js_ast.SBlock:
			addStmts("Stmts", s, &s.Stmts)

		case *js_ast.SExportDefault:
			addStmt("Value", s, &s.Value, false)

		case *js_ast.SExpr:
			addExpr("Value", s, &s.Value, false)

		case *js_ast.SFunction:
			addFn(s, &s.Fn)

		case *js_ast.SClass:
			addClass(s, &s.Class)

		case *js_ast.SLabel:
			addStmt("Stmt", s, &s.Stmt, false)

		case *js_ast.SIf:
			addExpr("Test", s, &s.Test, false)
			addStmt("Yes", s, &s.Yes, false)
			addStmt("NoOrNil", s, &s.NoOrNil, true)

		case *js_ast.SFor:
			addStmt("InitOrNil", s, &s.InitOrNil, true)
			addExpr("TestOrNil", s, &s.TestOrNil, true)
			addExpr("UpdateOrNil", s, &s.UpdateOrNil, true)
			addStmt("Body", s, &s.Body, false)

		case *js_ast.SForIn:
			addStmt("Init", s, &s.Init, false)
			addExpr("Value", s, &s.Value, false)
			addStmt("Body", s, &s.Body, false)

		case *js_ast.SForOf:
			addStmt("Init", s, &s.Init, false)
			addExpr("Value", s, &s.Value, false)
			addStmt("Body", s, &s.Body, false)

		case *js_ast.SDoWhile:
			addStmt("Body", s, &s.Body, false)
			addExpr("Test", s, &s.Test, false)

		case *js_ast.SWhile:
			addExpr("Test", s, &s.Test, false)
			addStmt("Body", s, &s.Body, false)

		case *js_ast.SWith:
			addExpr("Value", s, &s.Value, false)
			addStmt("Body", s, &s.Body, false)

		case *js_ast.STry:
			addStmt("Block", s, &s.Block, false)
			if s.Catch != nil {
				addBinding("Catch", s, s.Catch.BindingOrNil)
				addStmt("Catch", s, &s.Catch.Block, false)
			}
			if s.Finally != nil {
				addStmt("Finally", s, &s.Finally.Block, false)
			}

		case *js_ast.SSwitch:
			addExpr("Test", s, &s.Test, false)
			for i := range s.Cases {
				c := &s.Cases[i]
				addExpr("Cases", s, &c.ValueOrNil, true)
				addStmts("Cases", s, &c.Body)
			}

		case *js_ast.SReturn:
			addExpr("ValueOrNil", s, &s.ValueOrNil, true)

		case *js_ast.SThrow:
			addExpr("Value", s, &s.Value, false)

		case *js_ast.SLocal:
			list := func() *[]js_ast.Decl {
				if p.Node() != s {
					return nil
				}
				return &s.Decls
			}
			result = append(result, childList{
				length: func() int {
					if l := list(); l != nil {
						return len(*l)
					}
					return 0
				},
				at: func(i int) *Path { return p.declElement(list, i) },
			})
		}
		return result
	}

	if p.IsExpr() {
		expr := p.Expr()
		switch e := expr.Data.(type) {
		case *js_ast.EArray:
			addExprs("Items", e, &e.Items)

		case *js_ast.EUnary:
			addExpr("Value", e, &e.Value, false)

		case *js_ast.EBinary:
			addExpr("Left", e, &e.Left, false)
			addExpr("Right", e, &e.Right, false)

		case *js_ast.ENew:
			addExpr("Target", e, &e.Target, false)
			addExprs("Args", e, &e.Args)

		case *js_ast.ECall:
			addExpr("Target", e, &e.Target, false)
			addExprs("Args", e, &e.Args)

		case *js_ast.EDot:
			addExpr("Target", e, &e.Target, false)

		case *js_ast.EIndex:
			addExpr("Target", e, &e.Target, false)
			addExpr("Index", e, &e.Index, false)

		case *js_ast.EArrow:
			for i := range e.Args {
				arg := &e.Args[i]
				addBinding("Args", e, arg.Binding)
				addExpr("Args", e, &arg.DefaultOrNil, true)
			}
			addStmts("Body", e, &e.Body.Stmts)

		case *js_ast.EFunction:
			addFn(e, &e.Fn)

		case *js_ast.EClass:
			addClass(e, &e.Class)

		case *js_ast.EObject:
			result = append(result, p.propertyList(e, &e.Properties))

		case *js_ast.ESpread:
			addExpr("Value", e, &e.Value, false)

		case *js_ast.ETemplate:
			addExpr("TagOrNil", e, &e.TagOrNil, true)
			for i := range e.Parts {
				addExpr("Parts", e, &e.Parts[i].Value, false)
			}

		case *js_ast.EAwait:
			addExpr("Value", e, &e.Value, false)

		case *js_ast.EYield:
			addExpr("ValueOrNil", e, &e.ValueOrNil, true)

		case *js_ast.EIf:
			addExpr("Test", e, &e.Test, false)
			addExpr("Yes", e, &e.Yes, false)
			addExpr("No", e, &e.No, false)

		case *js_ast.EImportCall:
			addExpr("Expr", e, &e.Expr, false)
		}
	}

	return result
}

func (p *Path) propertyList(owner interface{}, properties *[]js_ast.Property) childList {
	list := func() *[]js_ast.Property {
		if p.Node() != owner {
			return nil
		}
		return properties
	}
	return childList{
		length: func() int {
			if l := list(); l != nil {
				return len(*l)
			}
			return 0
		},
		at: func(i int) *Path { return p.propertyElement(list, i) },
	}
}

// Binding patterns aren't nodes of their own. The expressions inside them
// (computed keys and default values) are children of the node that owns the
// pattern.
func (p *Path) bindingChildren(field string, owner interface{}, binding js_ast.Binding, add func(childList)) {
	switch b := binding.Data.(type) {
	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			p.bindingChildren(field, owner, item.Binding, add)
			if item.DefaultValueOrNil.Data != nil {
				add(single(p.exprChild(field, p.ownedExpr(owner, &item.DefaultValueOrNil), true)))
			}
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				add(single(p.exprChild(field, p.ownedExpr(owner, &property.Key), false)))
			}
			p.bindingChildren(field, owner, property.Value, add)
			if property.DefaultValueOrNil.Data != nil {
				add(single(p.exprChild(field, p.ownedExpr(owner, &property.DefaultValueOrNil), true)))
			}
		}
	}
}
