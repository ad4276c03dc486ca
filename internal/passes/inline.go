package passes

import (
	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_scope"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/traverse"
)

// Replaces a call to a function annotated with "#__DISPOSE__" with a call to
// a copy of it. The parameters become a "var" declaration at the top of the
// copy and the call passes no arguments:
//
//   /* #__DISPOSE__ */ function add(a, b = 1) { return a + b }
//   add(x)
//
// becomes
//
//   /* #__DISPOSED__FUNCTION__ */ (function() {
//     var a = x, b = 1;
//     return a + b;
//   })()
func Inline(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Enter: func(p *traverse.Path) error {
		expr := p.Expr()
		call, ok := expr.Data.(*js_ast.ECall)
		if !ok {
			return nil
		}
		id, ok := call.Target.Data.(*js_ast.EIdentifier)
		if !ok {
			return nil
		}
		binding := ctx.Info.BindingFor(p, id.Name)
		if binding == nil || !binding.IsConstant() {
			return nil
		}
		source, ok := disposedFunction(ctx, binding)
		if !ok || ctx.isInsideCopyOf(p, source.origin) || !canInline(ctx, p, source, call.Args) {
			return nil
		}

		clone := js_ast.CloneExpr(source.fn)
		clone.Comments = nil
		var args []js_ast.Expr

		switch fn := clone.Data.(type) {
		case *js_ast.EFunction:
			fn.Fn.Name = nil
			if len(fn.Fn.Args) == 0 {
				args = call.Args
				break
			}
			fn.Fn.Body.Stmts = prependParams(fn.Fn.Body, fn.Fn.Args, fn.Fn.HasRestArg, call.Args, expr.Loc)
			fn.Fn.Args = nil
			fn.Fn.HasRestArg = false

		case *js_ast.EArrow:
			if len(fn.Args) == 0 {
				args = call.Args
				break
			}
			fn.Body.Stmts = prependParams(fn.Body, fn.Args, fn.HasRestArg, call.Args, expr.Loc)
			fn.Args = nil
			fn.HasRestArg = false
			fn.PreferExpr = false
		}

		comments := make([]js_ast.Comment, 0, len(expr.Comments)+1)
		comments = append(comments, expr.Comments...)
		comments = append(comments, js_ast.Comment{Loc: expr.Loc, Text: disposable.DisposedFunctionComment})

		ctx.inlined[clone.Data] = source.origin
		p.ReplaceWith(js_ast.Expr{Loc: expr.Loc, Comments: comments, Data: &js_ast.ECall{Target: clone, Args: args}})
		ctx.applied("inline", p, expr.Loc)
		ctx.Info.Rebuild()
		return nil
	}}
}

type inlineSource struct {
	// The function declaration or expression in the tree
	origin interface{}

	// The function as an expression. For a declaration this is a temporary
	// wrapper that shares the declaration's contents.
	fn js_ast.Expr

	// Where the function was defined, which is where the names it reads from
	// outside of itself are resolved
	definedAt *traverse.Path
}

func disposedFunction(ctx *Context, binding *js_scope.Binding) (inlineSource, bool) {
	p := binding.Path
	if p == nil || p.Node() == nil || !ctx.Markers.IsDisposedFunction(p) {
		return inlineSource{}, false
	}

	switch binding.Kind {
	case js_scope.BindingFunction:
		stmt := p.Stmt()
		fn, ok := stmt.Data.(*js_ast.SFunction)
		if !ok || fn.Fn.Name == nil || fn.Fn.Name.Name != binding.Name {
			return inlineSource{}, false
		}
		return inlineSource{
			origin:    fn,
			fn:        js_ast.Expr{Loc: stmt.Loc, Data: &js_ast.EFunction{Fn: fn.Fn}},
			definedAt: p.Parent,
		}, true

	case js_scope.BindingVar, js_scope.BindingLet, js_scope.BindingConst:
		decl := p.Decl()
		if id, ok := decl.Binding.Data.(*js_ast.BIdentifier); !ok || id.Name != binding.Name {
			return inlineSource{}, false
		}
		return inlineSource{origin: decl.ValueOrNil.Data, fn: decl.ValueOrNil, definedAt: p}, true
	}

	return inlineSource{}, false
}

// Returns true if this path is inside the function or inside a copy of it
// made by an earlier inlining, which stops recursive functions from being
// expanded forever
func (ctx *Context) isInsideCopyOf(p *traverse.Path, origin interface{}) bool {
	for _, ancestor := range p.Ancestors() {
		node := ancestor.Node()
		if node == origin {
			return true
		}
		if e, ok := node.(js_ast.E); ok && ctx.inlined[e] == origin {
			return true
		}
	}
	return false
}

// A copy of the function behaves the same at the call site if it doesn't
// depend on how it was called and every name it reads from outside means the
// same thing there. The arguments move into the copy, so they must not read
// a name the copy declares.
func canInline(ctx *Context, p *traverse.Path, source inlineSource, args []js_ast.Expr) bool {
	var params []js_ast.Arg
	var stmts []js_ast.Stmt
	isArrow := false

	switch fn := source.fn.Data.(type) {
	case *js_ast.EFunction:
		params = fn.Fn.Args
		stmts = fn.Fn.Body.Stmts
	case *js_ast.EArrow:
		params = fn.Args
		stmts = fn.Body.Stmts
		isArrow = true
	default:
		return false
	}

	// Default values run inside the function too
	scanned := make([]js_ast.Stmt, 0, len(stmts)+len(params))
	scanned = append(scanned, stmts...)
	for _, param := range params {
		if param.DefaultOrNil.Data != nil {
			scanned = append(scanned, js_ast.Stmt{Loc: param.DefaultOrNil.Loc, Data: &js_ast.SExpr{Value: param.DefaultOrNil}})
		}
	}
	uses := scanBody(scanned)

	if uses.arguments || (isArrow && uses.dependsOnCaller()) {
		return false
	}

	// The name of a function expression refers to the original function
	if fn, ok := source.origin.(*js_ast.EFunction); ok && fn.Fn.Name != nil && uses.names[fn.Fn.Name.Name] {
		return false
	}

	local := uses.declared
	for _, param := range params {
		bindingNames(param.Binding, func(name string) { local[name] = true })
	}

	for name := range uses.names {
		if local[name] {
			continue
		}
		if ctx.Info.BindingFor(p, name) != ctx.Info.BindingFor(source.definedAt, name) {
			return false
		}
	}

	if len(args) > 0 {
		argStmts := make([]js_ast.Stmt, len(args))
		for i, arg := range args {
			argStmts[i] = js_ast.Stmt{Loc: arg.Loc, Data: &js_ast.SExpr{Value: arg}}
		}
		for name := range scanBody(argStmts).names {
			if local[name] {
				return false
			}
		}
	}

	return true
}

// Returns the body with a "var" declaration of the parameters in front
func prependParams(body js_ast.FnBody, params []js_ast.Arg, hasRest bool, values []js_ast.Expr, loc logger.Loc) []js_ast.Stmt {
	local := js_ast.Stmt{Loc: body.Loc, Data: &js_ast.SLocal{
		Kind:  js_ast.LocalVar,
		Decls: paramDecls(params, hasRest, values, loc),
	}}
	stmts := make([]js_ast.Stmt, 0, len(body.Stmts)+1)
	stmts = append(stmts, local)
	return append(stmts, body.Stmts...)
}

func paramDecls(params []js_ast.Arg, hasRest bool, values []js_ast.Expr, loc logger.Loc) []js_ast.Decl {
	hasSpread := false
	for _, value := range values {
		if _, ok := value.Data.(*js_ast.ESpread); ok {
			hasSpread = true
			break
		}
	}

	// Where each argument ends up isn't known, or some arguments have no
	// parameter but must still be evaluated: "var [a, b] = [x, ...y]"
	if hasSpread || (!hasRest && len(values) > len(params)) {
		items := make([]js_ast.ArrayBinding, len(params))
		for i, param := range params {
			items[i] = js_ast.ArrayBinding{Binding: param.Binding, DefaultValueOrNil: param.DefaultOrNil, Loc: param.Binding.Loc}
		}
		return []js_ast.Decl{{
			Binding:    js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: hasRest, IsSingleLine: true}},
			ValueOrNil: js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: values, IsSingleLine: true}},
		}}
	}

	decls := make([]js_ast.Decl, 0, len(params))
	for i, param := range params {
		if hasRest && i == len(params)-1 {
			var rest []js_ast.Expr
			if i < len(values) {
				rest = values[i:]
			}
			decls = append(decls, js_ast.Decl{
				Binding:    param.Binding,
				ValueOrNil: js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: rest, IsSingleLine: true}},
			})
			break
		}

		value := js_ast.Undefined(loc)
		if i < len(values) {
			value = values[i]
		}

		switch {
		case param.DefaultOrNil.Data == nil || isStaticallyDefined(value):
			decls = append(decls, js_ast.Decl{Binding: param.Binding, ValueOrNil: value})

		case isStaticallyUndefined(value):
			decls = append(decls, js_ast.Decl{Binding: param.Binding, ValueOrNil: param.DefaultOrNil})

		default:
			// "var [a = 1] = [x]" applies the default only if "x" is undefined
			decls = append(decls, js_ast.Decl{
				Binding: js_ast.Binding{Loc: param.Binding.Loc, Data: &js_ast.BArray{
					Items:        []js_ast.ArrayBinding{{Binding: param.Binding, DefaultValueOrNil: param.DefaultOrNil, Loc: param.Binding.Loc}},
					IsSingleLine: true,
				}},
				ValueOrNil: js_ast.Expr{Loc: value.Loc, Data: &js_ast.EArray{Items: []js_ast.Expr{value}, IsSingleLine: true}},
			})
		}
	}
	return decls
}
