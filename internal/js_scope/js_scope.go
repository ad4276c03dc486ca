package js_scope

// This computes lexical scopes for a parsed file. Every binding remembers the
// path that declared it, the paths that read it, and the paths that write to
// it after its declaration. The tables are never patched. A rewrite that adds
// or removes declarations must call "Rebuild" before reading them again.

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

type ScopeKind uint8

const (
	ScopeProgram ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeClass
)

type BindingKind uint8

const (
	BindingVar BindingKind = iota
	BindingLet
	BindingConst
	BindingFunction
	BindingClass
	BindingParam
	BindingCatch
	BindingImport

	// The name of a function expression, visible only inside of it
	BindingFunctionSelf
)

type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope
	Bindings map[string]*Binding

	// The node that created this scope. For the program this is the tree.
	Node interface{}
}

type Binding struct {
	Name  string
	Kind  BindingKind
	Scope *Scope

	// The declarator for "var", "let" and "const", the function or class for
	// declarations, and the function for parameters
	Path *traverse.Path

	// Every read of this binding. Each path holds an identifier.
	References []*traverse.Path

	// Assignments, updates and repeated declarations after the first one
	ConstantViolations []*traverse.Path

	// Declared with "export" or listed in an export clause
	IsExported bool
}

// True if the value is never changed after the declaration
func (b *Binding) IsConstant() bool {
	return len(b.ConstantViolations) == 0
}

func (b *Binding) IsReferenced() bool {
	return len(b.References) > 0
}

type Info struct {
	Tree   *js_ast.AST
	Root   *Scope
	scopes map[interface{}]*Scope
}

// Computes the scope tables for a tree
func Crawl(tree *js_ast.AST) *Info {
	info := &Info{Tree: tree}
	info.Rebuild()
	return info
}

// Throws away all scope tables and computes them again from the current
// tree. Paths recorded in the old tables must not be used afterward.
func (info *Info) Rebuild() {
	c := crawler{info: info}
	info.scopes = make(map[interface{}]*Scope)
	info.Root = c.pushScope(ScopeProgram, info.Tree)

	// Errors are never returned by the visitor
	_ = traverse.Traverse(info.Tree, traverse.Visitor{Enter: c.enter, Exit: c.exit})

	c.resolve()
}

// Returns the scope that contains this path. A node that creates a scope is
// contained in its own scope.
func (info *Info) ScopeFor(p *traverse.Path) *Scope {
	for ; p != nil; p = p.Parent {
		if scope, ok := info.scopes[p.Node()]; ok {
			return scope
		}
	}
	return info.Root
}

// Resolves a name as seen from the given path. The result is nil for globals.
func (info *Info) BindingFor(p *traverse.Path, name string) *Binding {
	return info.ScopeFor(p).Lookup(name)
}

func (scope *Scope) Lookup(name string) *Binding {
	for ; scope != nil; scope = scope.Parent {
		if binding, ok := scope.Bindings[name]; ok {
			return binding
		}
	}
	return nil
}

// The function or program scope that "var" declarations are hoisted to
func (scope *Scope) FunctionScope() *Scope {
	for scope.Kind != ScopeFunction && scope.Kind != ScopeProgram {
		scope = scope.Parent
	}
	return scope
}
