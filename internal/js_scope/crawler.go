package js_scope

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

type crawler struct {
	info       *Info
	stack      []*Scope
	references []reference
	exports    []string
}

// References are resolved after the whole tree was seen since "var" and
// function declarations are visible before the point where they appear
type reference struct {
	path    *traverse.Path
	scope   *Scope
	name    string
	isWrite bool
}

func (c *crawler) current() *Scope {
	return c.stack[len(c.stack)-1]
}

func (c *crawler) pushScope(kind ScopeKind, node interface{}) *Scope {
	scope := &Scope{Kind: kind, Node: node, Bindings: make(map[string]*Binding)}
	if len(c.stack) > 0 {
		scope.Parent = c.current()
		scope.Parent.Children = append(scope.Parent.Children, scope)
	}
	c.info.scopes[node] = scope
	c.stack = append(c.stack, scope)
	return scope
}

func (c *crawler) declare(scope *Scope, name string, kind BindingKind, path *traverse.Path) *Binding {
	if existing, ok := scope.Bindings[name]; ok {
		existing.ConstantViolations = append(existing.ConstantViolations, path)
		return existing
	}
	binding := &Binding{Name: name, Kind: kind, Scope: scope, Path: path}
	scope.Bindings[name] = binding
	return binding
}

func (c *crawler) declareBinding(scope *Scope, binding js_ast.Binding, kind BindingKind, path *traverse.Path, callback func(*Binding)) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		result := c.declare(scope, b.Name, kind, path)
		if callback != nil {
			callback(result)
		}

	case *js_ast.BArray:
		for _, item := range b.Items {
			c.declareBinding(scope, item.Binding, kind, path, callback)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			c.declareBinding(scope, property.Value, kind, path, callback)
		}
	}
}

func (c *crawler) declareArgs(args []js_ast.Arg, path *traverse.Path) {
	for _, arg := range args {
		c.declareBinding(c.current(), arg.Binding, BindingParam, path, nil)
	}
}

func (c *crawler) enter(p *traverse.Path) error {
	if decl := p.Decl(); decl != nil {
		c.enterDecl(p, decl)
		return nil
	}

	if p.IsStmt() {
		switch s := p.Stmt().Data.(type) {
		case *js_ast.SBlock:
			c.pushScope(ScopeBlock, s)
			if p.Field == "Catch" {
				if try, ok := p.Parent.Stmt().Data.(*js_ast.STry); ok && try.Catch != nil {
					c.declareBinding(c.current(), try.Catch.BindingOrNil, BindingCatch, p.Parent, nil)
				}
			}

		case *js_ast.SFor, *js_ast.SForIn, *js_ast.SForOf, *js_ast.SSwitch:
			c.pushScope(ScopeBlock, s)

		case *js_ast.SFunction:
			if s.Fn.Name != nil {
				binding := c.declare(c.current(), s.Fn.Name.Name, BindingFunction, p)
				binding.IsExported = binding.IsExported || s.IsExport
			}
			c.pushScope(ScopeFunction, s)
			c.declareArgs(s.Fn.Args, p)

		case *js_ast.SClass:
			if s.Class.Name != nil {
				binding := c.declare(c.current(), s.Class.Name.Name, BindingClass, p)
				binding.IsExported = binding.IsExported || s.IsExport
			}
			c.pushScope(ScopeClass, s)

		case *js_ast.SImport:
			if s.DefaultName != nil {
				c.declare(c.current(), s.DefaultName.Name, BindingImport, p)
			}
			if s.StarName != nil {
				c.declare(c.current(), s.StarName.Name, BindingImport, p)
			}
			if s.Items != nil {
				for _, item := range *s.Items {
					c.declare(c.current(), item.Name.Name, BindingImport, p)
				}
			}

		case *js_ast.SExportClause:
			for _, item := range s.Items {
				c.exports = append(c.exports, item.Name.Name)
			}
		}
		return nil
	}

	if p.IsExpr() {
		switch e := p.Expr().Data.(type) {
		case *js_ast.EFunction:
			c.pushScope(ScopeFunction, e)
			if e.Fn.Name != nil {
				c.declare(c.current(), e.Fn.Name.Name, BindingFunctionSelf, p)
			}
			c.declareArgs(e.Fn.Args, p)

		case *js_ast.EArrow:
			c.pushScope(ScopeFunction, e)
			c.declareArgs(e.Args, p)

		case *js_ast.EClass:
			c.pushScope(ScopeClass, e)
			if e.Class.Name != nil {
				c.declare(c.current(), e.Class.Name.Name, BindingClass, p)
			}

		case *js_ast.EIdentifier:
			c.references = append(c.references, reference{
				path:    p,
				scope:   c.current(),
				name:    e.Name,
				isWrite: IsAssignTarget(p),
			})
		}
	}
	return nil
}

func (c *crawler) enterDecl(p *traverse.Path, decl *js_ast.Decl) {
	local, ok := p.Parent.Stmt().Data.(*js_ast.SLocal)
	if !ok {
		return
	}

	scope := c.current()
	kind := BindingVar
	switch local.Kind {
	case js_ast.LocalLet:
		kind = BindingLet
	case js_ast.LocalConst:
		kind = BindingConst
	default:
		scope = scope.FunctionScope()
	}

	// The binding of a for-in or for-of loop is assigned on every iteration
	isLoopHead := false
	if p.Parent.Field == "Init" {
		switch p.Parent.Parent.Stmt().Data.(type) {
		case *js_ast.SForIn, *js_ast.SForOf:
			isLoopHead = true
		}
	}

	c.declareBinding(scope, decl.Binding, kind, p, func(binding *Binding) {
		if local.IsExport {
			binding.IsExported = true
		}
		if isLoopHead {
			binding.ConstantViolations = append(binding.ConstantViolations, p.Parent.Parent)
		}
	})
}

func (c *crawler) exit(p *traverse.Path) error {
	if len(c.stack) > 0 && c.current().Node == p.Node() {
		c.stack = c.stack[:len(c.stack)-1]
	}
	return nil
}

func (c *crawler) resolve() {
	for _, ref := range c.references {
		binding := ref.scope.Lookup(ref.name)
		if binding == nil {
			continue
		}
		if ref.isWrite {
			binding.ConstantViolations = append(binding.ConstantViolations, ref.path)
		} else {
			binding.References = append(binding.References, ref.path)
		}
	}
	for _, name := range c.exports {
		if binding := c.info.Root.Bindings[name]; binding != nil {
			binding.IsExported = true
		}
	}
}

// Returns true if the identifier at this path is written to. This covers
// assignments, updates, destructuring assignments and the heads of for-in
// and for-of loops.
func IsAssignTarget(p *traverse.Path) bool {
	for p.Parent != nil {
		parent := p.Parent

		if parent.IsProperty() {
			// A property value inside of an object pattern
			if p.Field != "ValueOrNil" || parent.Parent == nil {
				return false
			}
			if _, ok := parent.Parent.Expr().Data.(*js_ast.EObject); !ok {
				return false
			}
			p = parent.Parent
			continue
		}

		if parent.IsStmt() {
			if _, ok := parent.Stmt().Data.(*js_ast.SExpr); ok && parent.Field == "Init" {
				switch parent.Parent.Stmt().Data.(type) {
				case *js_ast.SForIn, *js_ast.SForOf:
					return true
				}
			}
			return false
		}

		switch e := parent.Expr().Data.(type) {
		case *js_ast.EBinary:
			return p.Field == "Left" && e.Op.BinaryAssignTarget() != js_ast.AssignTargetNone

		case *js_ast.EUnary:
			return e.Op.UnaryAssignTarget() != js_ast.AssignTargetNone

		case *js_ast.EArray, *js_ast.ESpread:
			p = parent
			continue
		}
		return false
	}
	return false
}
