package traverse

import (
	"github.com/disposejs/dispose/internal/js_ast"
)

// A path addresses one node through the slot that holds it. Slots are
// resolved lazily every time the path is used, so a path stays valid while
// unrelated parts of the tree are edited. Elements of lists are located by
// the identity of their node. The last known index is used as a hint so an
// element can still be found after its siblings were spliced.
//
// A path whose node was removed or replaced through another path becomes
// detached and reports a nil node.
type Path struct {
	Parent *Path

	// The name of the field of the parent node that holds this node, such as
	// "Target" for the object of a member expression
	Field string

	kind     slotKind
	optional bool

	expr  func() *js_ast.Expr
	stmt  func() *js_ast.Stmt
	exprs func() *[]js_ast.Expr
	stmts func() *[]js_ast.Stmt
	decls func() *[]js_ast.Decl
	props func() *[]js_ast.Property

	tree *js_ast.AST

	// For list elements this is the node that was last seen in the slot
	id    interface{}
	index int

	// The number of nodes that took the place of this one after an edit
	span    int
	removed bool
}

type slotKind uint8

const (
	slotRoot slotKind = iota
	slotExpr
	slotStmt
	slotExprList
	slotStmtList
	slotDecl
	slotProperty
)

// Returns the path of the whole program. Its children are the top-level
// statements.
func Root(tree *js_ast.AST) *Path {
	return &Path{kind: slotRoot, tree: tree, span: 1}
}

func (p *Path) IsRoot() bool     { return p.kind == slotRoot }
func (p *Path) IsExpr() bool     { return p.kind == slotExpr || p.kind == slotExprList }
func (p *Path) IsStmt() bool     { return p.kind == slotStmt || p.kind == slotStmtList }
func (p *Path) IsDecl() bool     { return p.kind == slotDecl }
func (p *Path) IsProperty() bool { return p.kind == slotProperty }

// Returns true if this path is an element of a list, which is what allows
// "ReplaceWithMultiple" and "Remove" to splice
func (p *Path) InList() bool {
	switch p.kind {
	case slotExprList, slotStmtList, slotDecl, slotProperty:
		return true
	}
	return false
}

// The index of this node in its list. This is only meaningful for list
// elements.
func (p *Path) Index() int {
	p.locate()
	return p.index
}

// The identity of the node at this path, or nil if the path is detached. This
// is the "Data" field of expressions and statements, the root binding of
// declarators and the key (or spread value) of properties.
func (p *Path) Node() interface{} {
	switch p.kind {
	case slotRoot:
		return p.tree

	case slotExpr:
		if slot := p.expr(); slot != nil && slot.Data != nil {
			return slot.Data
		}

	case slotStmt:
		if slot := p.stmt(); slot != nil && slot.Data != nil {
			return slot.Data
		}

	default:
		if p.locate() {
			return p.id
		}
	}
	return nil
}

// Returns the expression at this path. The result is the zero value if this
// isn't an expression or if the path is detached.
func (p *Path) Expr() js_ast.Expr {
	if slot := p.exprSlot(); slot != nil {
		return *slot
	}
	return js_ast.Expr{}
}

func (p *Path) Stmt() js_ast.Stmt {
	if slot := p.stmtSlot(); slot != nil {
		return *slot
	}
	return js_ast.Stmt{}
}

// The returned pointer is only valid until the list holding the declarator
// is edited
func (p *Path) Decl() *js_ast.Decl {
	if p.kind == slotDecl && p.locate() {
		return &(*p.decls())[p.index]
	}
	return nil
}

// The returned pointer is only valid until the list holding the property is
// edited
func (p *Path) Property() *js_ast.Property {
	if p.kind == slotProperty && p.locate() {
		return &(*p.props())[p.index]
	}
	return nil
}

func (p *Path) Tree() *js_ast.AST {
	for p.Parent != nil {
		p = p.Parent
	}
	return p.tree
}

// Returns the expression of the parent path, if the parent is an expression
func (p *Path) ParentExpr() (js_ast.Expr, bool) {
	if p.Parent != nil && p.Parent.IsExpr() {
		if expr := p.Parent.Expr(); expr.Data != nil {
			return expr, true
		}
	}
	return js_ast.Expr{}, false
}

// Returns the ancestors of this path from the nearest one to the root
func (p *Path) Ancestors() []*Path {
	var result []*Path
	for parent := p.Parent; parent != nil; parent = parent.Parent {
		result = append(result, parent)
	}
	return result
}

// Returns the nearest ancestor (not including this path) for which the
// callback returns true, or nil
func (p *Path) FindParent(callback func(*Path) bool) *Path {
	for parent := p.Parent; parent != nil; parent = parent.Parent {
		if callback(parent) {
			return parent
		}
	}
	return nil
}

func (p *Path) exprSlot() *js_ast.Expr {
	switch p.kind {
	case slotExpr:
		if slot := p.expr(); slot != nil && slot.Data != nil {
			return slot
		}
	case slotExprList:
		if p.locate() {
			return &(*p.exprs())[p.index]
		}
	}
	return nil
}

func (p *Path) stmtSlot() *js_ast.Stmt {
	switch p.kind {
	case slotStmt:
		if slot := p.stmt(); slot != nil && slot.Data != nil {
			return slot
		}
	case slotStmtList:
		if p.locate() {
			return &(*p.stmts())[p.index]
		}
	}
	return nil
}

func propertyID(property *js_ast.Property) interface{} {
	if property.Kind == js_ast.PropertySpread || property.Key.Data == nil {
		return property.ValueOrNil.Data
	}
	return property.Key.Data
}

func (p *Path) length() int {
	switch p.kind {
	case slotExprList:
		if list := p.exprs(); list != nil {
			return len(*list)
		}
	case slotStmtList:
		if list := p.stmts(); list != nil {
			return len(*list)
		}
	case slotDecl:
		if list := p.decls(); list != nil {
			return len(*list)
		}
	case slotProperty:
		if list := p.props(); list != nil {
			return len(*list)
		}
	}
	return -1
}

func (p *Path) idAt(i int) interface{} {
	switch p.kind {
	case slotExprList:
		return (*p.exprs())[i].Data
	case slotStmtList:
		return (*p.stmts())[i].Data
	case slotDecl:
		return (*p.decls())[i].Binding.Data
	case slotProperty:
		return propertyID(&(*p.props())[i])
	}
	return nil
}

// Finds the current index of a list element. The search starts at the last
// known index and moves outward so the nearest match wins.
func (p *Path) locate() bool {
	if p.removed || p.id == nil {
		return false
	}
	n := p.length()
	if n < 0 {
		return false
	}
	if p.index < n && p.idAt(p.index) == p.id {
		return true
	}
	for delta := 1; delta < n+p.index+1; delta++ {
		if i := p.index - delta; i >= 0 && i < n && p.idAt(i) == p.id {
			p.index = i
			return true
		}
		if i := p.index + delta; i < n && p.idAt(i) == p.id {
			p.index = i
			return true
		}
	}
	return false
}

// Replaces the expression at this path. The new expression must not already
// be somewhere else in the tree.
func (p *Path) ReplaceWith(expr js_ast.Expr) {
	slot := p.exprSlot()
	if slot == nil || expr.Data == nil {
		panic("Internal error")
	}
	old := slot.Data
	*slot = expr
	p.span = 1
	if p.kind == slotExprList {
		p.id = expr.Data
	}

	// A spread property is identified by its value
	if parent := p.Parent; parent != nil && parent.kind == slotProperty && parent.id == old {
		parent.id = expr.Data
	}
}

func (p *Path) ReplaceWithStmt(stmt js_ast.Stmt) {
	slot := p.stmtSlot()
	if slot == nil || stmt.Data == nil {
		panic("Internal error")
	}
	*slot = stmt
	p.span = 1
	if p.kind == slotStmtList {
		p.id = stmt.Data
	}
}

// Splices several expressions into the list in place of this one. An empty
// list removes the element.
func (p *Path) ReplaceWithMultiple(exprs []js_ast.Expr) {
	if p.kind != slotExprList || !p.locate() {
		panic("Internal error")
	}
	if len(exprs) == 0 {
		p.Remove()
		return
	}
	list := p.exprs()
	result := make([]js_ast.Expr, 0, len(*list)+len(exprs)-1)
	result = append(result, (*list)[:p.index]...)
	result = append(result, exprs...)
	*list = append(result, (*list)[p.index+1:]...)
	p.id = exprs[0].Data
	p.span = len(exprs)
}

// Splices several statements in place of this one. A statement that isn't
// in a list is replaced with a block.
func (p *Path) ReplaceWithMultipleStmts(stmts []js_ast.Stmt) {
	if p.kind == slotStmt {
		if len(stmts) == 1 {
			p.ReplaceWithStmt(stmts[0])
		} else {
			p.ReplaceWithStmt(js_ast.Stmt{Loc: p.Stmt().Loc, Data: &js_ast.SBlock{Stmts: stmts}})
		}
		return
	}
	if p.kind != slotStmtList || !p.locate() {
		panic("Internal error")
	}
	if len(stmts) == 0 {
		p.Remove()
		return
	}
	list := p.stmts()
	result := make([]js_ast.Stmt, 0, len(*list)+len(stmts)-1)
	result = append(result, (*list)[:p.index]...)
	result = append(result, stmts...)
	*list = append(result, (*list)[p.index+1:]...)
	p.id = stmts[0].Data
	p.span = len(stmts)
}

// Splices declarators in place of this one. Removing the last declarator of a
// declaration removes the whole declaration.
func (p *Path) ReplaceWithMultipleDecls(decls []js_ast.Decl) {
	if p.kind != slotDecl || !p.locate() {
		panic("Internal error")
	}
	if len(decls) == 0 {
		p.Remove()
		return
	}
	list := p.decls()
	result := make([]js_ast.Decl, 0, len(*list)+len(decls)-1)
	result = append(result, (*list)[:p.index]...)
	result = append(result, decls...)
	*list = append(result, (*list)[p.index+1:]...)
	p.id = decls[0].Binding.Data
	p.span = len(decls)
}

func (p *Path) ReplaceWithMultipleProperties(properties []js_ast.Property) {
	if p.kind != slotProperty || !p.locate() {
		panic("Internal error")
	}
	if len(properties) == 0 {
		p.Remove()
		return
	}
	list := p.props()
	result := make([]js_ast.Property, 0, len(*list)+len(properties)-1)
	result = append(result, (*list)[:p.index]...)
	result = append(result, properties...)
	*list = append(result, (*list)[p.index+1:]...)
	p.id = propertyID(&properties[0])
	p.span = len(properties)
}

// Removes the node at this path. A statement that isn't in a list becomes an
// empty statement, or disappears if the slot is optional. An expression that
// isn't in a list can only be removed from an optional slot.
func (p *Path) Remove() {
	switch p.kind {
	case slotExpr:
		slot := p.exprSlot()
		if slot == nil || !p.optional {
			panic("Internal error")
		}
		*slot = js_ast.Expr{}

	case slotStmt:
		slot := p.stmtSlot()
		if slot == nil {
			panic("Internal error")
		}
		if p.optional {
			*slot = js_ast.Stmt{}
		} else {
			*slot = js_ast.Stmt{Loc: slot.Loc, Data: &js_ast.SEmpty{}}
		}

	case slotExprList:
		if !p.locate() {
			panic("Internal error")
		}
		list := p.exprs()
		*list = append((*list)[:p.index], (*list)[p.index+1:]...)

	case slotStmtList:
		if !p.locate() {
			panic("Internal error")
		}
		list := p.stmts()
		*list = append((*list)[:p.index], (*list)[p.index+1:]...)

	case slotDecl:
		if !p.locate() {
			panic("Internal error")
		}
		list := p.decls()
		*list = append((*list)[:p.index], (*list)[p.index+1:]...)
		if len(*list) == 0 && p.Parent != nil && p.Parent.Node() != nil {
			p.Parent.Remove()
		}

	case slotProperty:
		if !p.locate() {
			panic("Internal error")
		}
		list := p.props()
		*list = append((*list)[:p.index], (*list)[p.index+1:]...)

	default:
		panic("Internal error")
	}

	p.removed = true
	p.span = 0
}

// Returns the statements that follow this one in its list
func (p *Path) StmtsAfter() []js_ast.Stmt {
	if p.kind != slotStmtList || !p.locate() {
		return nil
	}
	return (*p.stmts())[p.index+p.span:]
}

// Replaces every statement that follows this one in its list
func (p *Path) ReplaceStmtsAfter(stmts []js_ast.Stmt) {
	if p.kind != slotStmtList || !p.locate() {
		panic("Internal error")
	}
	list := p.stmts()
	end := p.index + p.span
	result := make([]js_ast.Stmt, 0, end+len(stmts))
	result = append(result, (*list)[:end]...)
	*list = append(result, stmts...)
}
