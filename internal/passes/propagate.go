package passes

// This pass copies disposable values into the places that read them. A
// declarator whose initializer is disposable is matched against its pattern
// the way destructuring would. Each constant binding it declares has its
// references replaced by a copy of the value it would have held, and the
// declarator goes away. Bindings that can't be replaced stay behind as
// "residual" declarators.
//
//   const {a, b: [c] = [2]} = /* #__DISPOSE__ */ {a: 1}
//   f(a, c)
//
// becomes
//
//   f(1, 2)

import (
	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_scope"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/traverse"
)

func Propagate(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Enter: func(p *traverse.Path) error {
		if p.IsDecl() {
			return propagateDecl(ctx, p)
		}
		if p.IsExpr() && p.Field == "Target" {
			resolveMarkedMember(ctx, p)
		}
		return nil
	}}
}

// Reads through member accesses on a marked literal that is still in the
// tree, such as "/* #__DISPOSE__ */ {a: 1, b: 2}[k ? 'a' : 'b']"
func resolveMarkedMember(ctx *Context, p *traverse.Path) {
	expr := p.Expr()
	if !ctx.Markers.IsDisposable(expr) {
		return
	}
	landing, value := ctx.Markers.ResolveChain(p, expr)
	if landing == p {
		return
	}
	loc := landing.Expr().Loc
	landing.ReplaceWith(ctx.Markers.Mark(value))
	ctx.applied("propagate", landing, loc)
	ctx.Info.Rebuild()
}

type resultKind uint8

const (
	// Every binding of the pattern was substituted or removed
	resultSubstituted resultKind = iota

	// Some bindings must still be declared
	resultResidual

	// Nothing can be done for the declarator, leave it as it is
	resultKept

	resultUnsupported
)

type patternResult struct {
	kind  resultKind
	decls []js_ast.Decl
	err   *UnsupportedPatternError
}

func substituted() patternResult {
	return patternResult{kind: resultSubstituted}
}

func residual(binding js_ast.Binding, value js_ast.Expr) patternResult {
	return patternResult{kind: resultResidual, decls: []js_ast.Decl{{
		Binding:    binding,
		ValueOrNil: js_ast.CloneExpr(value),
	}}}
}

func unsupported(loc logger.Loc, reason string) patternResult {
	return patternResult{kind: resultUnsupported, err: &UnsupportedPatternError{Loc: loc, Reason: reason}}
}

type propagation struct {
	ctx  *Context
	decl *traverse.Path

	// Set once any reference was rewritten
	changed bool
}

func propagateDecl(ctx *Context, p *traverse.Path) error {
	decl := p.Decl()
	if decl == nil || !ctx.Markers.IsDisposable(decl.ValueOrNil) {
		return nil
	}

	// Exports must keep their declaration
	if local, ok := p.Parent.Stmt().Data.(*js_ast.SLocal); !ok || local.IsExport {
		return nil
	}

	prop := propagation{ctx: ctx, decl: p}
	result := prop.pattern(decl.Binding, decl.ValueOrNil, true)

	switch result.kind {
	case resultUnsupported:
		return result.err

	case resultKept:
		if prop.changed {
			ctx.Info.Rebuild()
		}
		return nil

	case resultResidual:
		p.ReplaceWithMultipleDecls(result.decls)

	default:
		p.Remove()
	}

	ctx.applied("propagate", p, decl.Binding.Loc)
	ctx.Info.Rebuild()
	return nil
}

func (prop *propagation) pattern(binding js_ast.Binding, value js_ast.Expr, topLevel bool) patternResult {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		return prop.identifier(binding, b, value, topLevel)

	case *js_ast.BObject:
		return prop.objectPattern(binding, b, value, topLevel)

	case *js_ast.BArray:
		return prop.arrayPattern(binding, b, value, topLevel)
	}
	return substituted()
}

// Gives up on a destructuring pattern. At the top level the declarator is
// kept. Below it, the part of the pattern is declared against the value it
// would have destructured.
func giveUp(binding js_ast.Binding, value js_ast.Expr, topLevel bool) patternResult {
	if topLevel {
		return patternResult{kind: resultKept}
	}
	return residual(binding, value)
}

func (prop *propagation) identifier(binding js_ast.Binding, id *js_ast.BIdentifier, value js_ast.Expr, topLevel bool) patternResult {
	ctx := prop.ctx
	target := ctx.Info.BindingFor(prop.decl, id.Name)
	if target == nil || !target.IsConstant() || target.IsExported {
		return giveUp(binding, value, topLevel)
	}
	if prop.readBeforeDeclared(target) {
		return giveUp(binding, value, topLevel)
	}
	if !isDuplicable(value) {
		return residual(binding, value)
	}
	complete := true
	for _, ref := range target.References {
		if ref.Node() == nil {
			continue
		}
		if !prop.substitute(ref, value) {
			complete = false
		}
	}
	if !complete {
		return giveUp(binding, value, topLevel)
	}
	return substituted()
}

// A "var" can be read before its declarator runs, and so can a "let" or
// "const" from a function called early. Those reads see "undefined" or throw.
func (prop *propagation) readBeforeDeclared(target *js_scope.Binding) bool {
	start := prop.decl.Decl().Binding.Loc.Start
	home := target.Scope.FunctionScope()
	for _, ref := range target.References {
		if ref.Node() == nil || ref.Expr().Loc.Start >= start {
			continue
		}
		if target.Kind == js_scope.BindingVar || prop.ctx.Info.ScopeFor(ref).FunctionScope() == home {
			return true
		}
	}
	return false
}

// Replaces one reference with a copy of the value, reading through the
// member accesses around it. Returns false if the reference was left alone
// because a name in the copy means something else there. Names declared
// inside the copy are compared too, which only ever keeps more references.
func (prop *propagation) substitute(ref *traverse.Path, value js_ast.Expr) bool {
	ctx := prop.ctx
	landing, resolved := ctx.Markers.ResolveChain(ref, value)

	uses := scanBody([]js_ast.Stmt{{Loc: resolved.Loc, Data: &js_ast.SExpr{Value: resolved}}})
	for name := range uses.names {
		if ctx.Info.BindingFor(landing, name) != ctx.Info.BindingFor(prop.decl, name) {
			return false
		}
	}

	replacement := ctx.Markers.Mark(js_ast.CloneExpr(resolved))
	landing.ReplaceWith(replacement)
	prop.changed = true
	spliceSpread(landing, replacement)
	return true
}

// "[1, ...[2, 3]]" becomes "[1, 2, 3]" and "{a: 1, ...{b: 2}}" becomes
// "{a: 1, b: 2}"
func spliceSpread(p *traverse.Path, value js_ast.Expr) {
	parent := p.Parent
	if parent == nil {
		return
	}

	switch v := value.Data.(type) {
	case *js_ast.EArray:
		if p.Field != "Value" || !parent.IsExpr() || parent.Field != "Items" {
			return
		}
		if _, ok := parent.Expr().Data.(*js_ast.ESpread); !ok {
			return
		}
		if _, ok := parent.Parent.Expr().Data.(*js_ast.EArray); !ok {
			return
		}
		items := make([]js_ast.Expr, len(v.Items))
		for i, item := range v.Items {
			if _, ok := item.Data.(*js_ast.EMissing); ok {
				item = js_ast.Undefined(item.Loc)
			}
			items[i] = item
		}
		parent.ReplaceWithMultiple(items)

	case *js_ast.EObject:
		if p.Field != "ValueOrNil" || !parent.IsProperty() {
			return
		}
		if property := parent.Property(); property == nil || property.Kind != js_ast.PropertySpread {
			return
		}
		for i := range v.Properties {
			property := &v.Properties[i]
			if property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet {
				return
			}
			if key, ok := disposable.StaticKey(property); ok && key == "__proto__" && !property.IsComputed {
				return
			}
		}
		parent.ReplaceWithMultipleProperties(v.Properties)
	}
}

func (prop *propagation) objectPattern(binding js_ast.Binding, b *js_ast.BObject, value js_ast.Expr, topLevel bool) patternResult {
	switch value.Data.(type) {
	case *js_ast.EObject, *js_ast.EArray:
	default:
		if topLevel {
			return unsupported(binding.Loc, "cannot destructure an object pattern from a value that isn't a literal")
		}
		return residual(binding, value)
	}

	markers := prop.ctx.Markers
	taken := make(map[string]bool)
	var decls []js_ast.Decl

	for i := range b.Properties {
		property := &b.Properties[i]

		if property.IsSpread {
			rest, ok, err := restObject(value, taken)
			if err != nil {
				return patternResult{kind: resultUnsupported, err: err}
			}
			if !ok {
				return giveUp(binding, value, topLevel)
			}
			result := prop.pattern(property.Value, markers.Mark(rest), false)
			if result.kind == resultUnsupported {
				return result
			}
			decls = append(decls, result.decls...)
			continue
		}

		key, ok := js_ast.PropertyKeyString(property.Key)
		if !ok {
			return giveUp(binding, value, topLevel)
		}
		extracted, ok := markers.Extract(value, key, false)
		if !ok {
			return giveUp(binding, value, topLevel)
		}
		taken[key] = true

		// Earlier bindings may have been substituted into the default by now,
		// so it's read from the pattern again
		result := prop.withDefault(property.Value, extracted, &property.DefaultValueOrNil)
		if result.kind == resultUnsupported {
			return result
		}
		decls = append(decls, result.decls...)
	}

	if len(decls) > 0 {
		return patternResult{kind: resultResidual, decls: decls}
	}
	return substituted()
}

// Builds the object literal that "...rest" in an object pattern receives.
// Returns false if it can't be built statically.
func restObject(value js_ast.Expr, taken map[string]bool) (js_ast.Expr, bool, *UnsupportedPatternError) {
	var properties []js_ast.Property

	switch source := value.Data.(type) {
	case *js_ast.EObject:
		for i := range source.Properties {
			property := &source.Properties[i]
			if property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet {
				return js_ast.Expr{}, false, nil
			}
			if property.Kind == js_ast.PropertySpread {
				properties = append(properties, js_ast.CloneProperty(*property))
				continue
			}
			key, ok := disposable.StaticKey(property)
			if ok && key == "__proto__" && !property.IsComputed {
				return js_ast.Expr{}, false, nil
			}
			if ok && taken[key] {
				continue
			}
			properties = append(properties, js_ast.CloneProperty(*property))
		}

	case *js_ast.EArray:
		for i, item := range source.Items {
			switch item.Data.(type) {
			case *js_ast.EMissing:
				continue
			case *js_ast.ESpread:
				return js_ast.Expr{}, false, &UnsupportedPatternError{Loc: item.Loc, Reason: "cannot take the rest of an object from an array with a spread element"}
			}
			key := js_ast.NumberToString(float64(i))
			if taken[key] {
				continue
			}
			properties = append(properties, js_ast.Property{
				Loc:        item.Loc,
				Key:        js_ast.Expr{Loc: item.Loc, Data: &js_ast.EString{Value: helpers.StringToUTF16(key)}},
				ValueOrNil: js_ast.CloneExpr(item),
			})
		}
	}

	return js_ast.Expr{Loc: value.Loc, Data: &js_ast.EObject{Properties: properties, IsSingleLine: true}}, true, nil
}

func (prop *propagation) arrayPattern(binding js_ast.Binding, b *js_ast.BArray, value js_ast.Expr, topLevel bool) patternResult {
	source, ok := value.Data.(*js_ast.EArray)
	if !ok {
		if topLevel {
			return unsupported(binding.Loc, "cannot destructure an array pattern from a value that isn't an array literal")
		}
		return residual(binding, value)
	}

	markers := prop.ctx.Markers
	firstSpread := -1
	var decls []js_ast.Decl

	for i := range b.Items {
		item := &b.Items[i]
		var element js_ast.Expr
		if i < len(source.Items) {
			element = source.Items[i]
			if _, ok := element.Data.(*js_ast.ESpread); ok && firstSpread == -1 {
				firstSpread = i
			}
		}

		if _, ok := item.Binding.Data.(*js_ast.BMissing); ok {
			continue
		}

		if b.HasSpread && i == len(b.Items)-1 {
			if firstSpread != -1 && firstSpread != i {
				return unsupported(item.Binding.Loc, "cannot take the rest of an array after a spread element")
			}
			var rest []js_ast.Expr
			if i < len(source.Items) {
				rest = make([]js_ast.Expr, 0, len(source.Items)-i)
				for _, element := range source.Items[i:] {
					if _, ok := element.Data.(*js_ast.EMissing); ok {
						element = js_ast.Undefined(element.Loc)
					}
					rest = append(rest, element)
				}
			}
			array := js_ast.Expr{Loc: value.Loc, Data: &js_ast.EArray{Items: rest, IsSingleLine: true}}
			result := prop.pattern(item.Binding, markers.Mark(array), false)
			if result.kind == resultUnsupported {
				return result
			}
			decls = append(decls, result.decls...)
			break
		}

		if firstSpread != -1 {
			return unsupported(item.Binding.Loc, "cannot take an element at or after a spread element")
		}

		if element.Data == nil {
			element = js_ast.Undefined(value.Loc)
		} else if _, ok := element.Data.(*js_ast.EMissing); ok {
			element = js_ast.Undefined(element.Loc)
		}

		result := prop.withDefault(item.Binding, markers.Mark(element), &item.DefaultValueOrNil)
		if result.kind == resultUnsupported {
			return result
		}
		decls = append(decls, result.decls...)
	}

	if len(decls) > 0 {
		return patternResult{kind: resultResidual, decls: decls}
	}
	return substituted()
}

// Destructures one value into a nested target that may have a default
func (prop *propagation) withDefault(target js_ast.Binding, value js_ast.Expr, defaultSlot *js_ast.Expr) patternResult {
	defaultValue := *defaultSlot
	if defaultValue.Data == nil {
		return prop.pattern(target, value, false)
	}

	switch {
	case isStaticallyUndefined(value):
		return prop.pattern(target, prop.ctx.Markers.Mark(defaultValue), false)

	case isStaticallyDefined(value):
		return prop.pattern(target, value, false)
	}

	// Whether the default applies isn't known until run time:
	// "[target = default] = [value]"
	pattern := js_ast.Binding{Loc: target.Loc, Data: &js_ast.BArray{
		Items: []js_ast.ArrayBinding{{
			Binding:           target,
			DefaultValueOrNil: js_ast.CloneExpr(defaultValue),
			Loc:               target.Loc,
		}},
		IsSingleLine: true,
	}}
	return residual(pattern, js_ast.Expr{Loc: value.Loc, Data: &js_ast.EArray{
		Items:        []js_ast.Expr{value},
		IsSingleLine: true,
	}})
}

// Defaults only apply to "undefined". A "null" value is kept.
func isStaticallyUndefined(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EUndefined:
		return true

	case *js_ast.EUnary:
		return e.Op == js_ast.UnOpVoid && js_ast.IsPrimitiveLiteral(e.Value.Data)

	case *js_ast.EIdentifier:
		return e.Name == "undefined"
	}
	return false
}

func isStaticallyDefined(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.ENull, *js_ast.EBoolean, *js_ast.ENumber, *js_ast.EString, *js_ast.EBigInt,
		*js_ast.EObject, *js_ast.EArray, *js_ast.EFunction, *js_ast.EArrow, *js_ast.EClass, *js_ast.ERegExp:
		return true

	case *js_ast.ETemplate:
		return e.TagOrNil.Data == nil
	}
	return false
}

// Values that can be copied to every reference without changing what the
// program does. The marker on the initializer vouches for the literals.
func isDuplicable(expr js_ast.Expr) bool {
	switch expr.Data.(type) {
	case *js_ast.EObject, *js_ast.EArray, *js_ast.EFunction, *js_ast.EArrow, *js_ast.EIdentifier:
		return true
	}
	return js_ast.IsPrimitiveLiteral(expr.Data)
}
