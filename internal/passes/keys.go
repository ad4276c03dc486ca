package passes

import (
	"sort"

	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/traverse"
)

// Folds "Object.keys({a: 1, b: 2})" into "['a', 'b']". If the keys can't be
// known, the values are still replaced with "1" since only the keys are read.
func Keys(ctx *Context) traverse.Visitor {
	return traverse.Visitor{Enter: func(p *traverse.Path) error {
		expr := p.Expr()
		call, ok := expr.Data.(*js_ast.ECall)
		if !ok || len(call.Args) != 1 || call.OptionalChain != js_ast.OptionalChainNone || !isObjectKeys(call.Target) {
			return nil
		}
		arg := call.Args[0]
		switch arg.Data.(type) {
		case *js_ast.EObject, *js_ast.EArray:
		default:
			return nil
		}
		if ctx.Info.BindingFor(p, "Object") != nil {
			return nil
		}

		if keys, ok := staticKeys(arg); ok {
			items := make([]js_ast.Expr, len(keys))
			for i, key := range keys {
				items[i] = js_ast.Expr{Loc: arg.Loc, Data: &js_ast.EString{Value: helpers.StringToUTF16(key)}}
			}
			array := js_ast.Expr{Loc: expr.Loc, Comments: expr.Comments, Data: &js_ast.EArray{Items: items, IsSingleLine: true}}
			p.ReplaceWith(ctx.Markers.Mark(array))
			ctx.applied("keys", p, expr.Loc)
			ctx.Info.Rebuild()
			return nil
		}

		if replaceValuesWithOne(arg) {
			ctx.applied("keys", p, expr.Loc)
			ctx.Info.Rebuild()
		}
		return nil
	}}
}

func isObjectKeys(target js_ast.Expr) bool {
	dot, ok := target.Data.(*js_ast.EDot)
	if !ok || dot.Name != "keys" || dot.OptionalChain != js_ast.OptionalChainNone {
		return false
	}
	id, ok := dot.Target.Data.(*js_ast.EIdentifier)
	return ok && id.Name == "Object"
}

// Returns the keys in the order "Object.keys" would: integer keys in
// ascending order and then the other keys in the order they were added
func staticKeys(value js_ast.Expr) ([]string, bool) {
	switch e := value.Data.(type) {
	case *js_ast.EArray:
		keys := make([]string, 0, len(e.Items))
		for i, item := range e.Items {
			switch item.Data.(type) {
			case *js_ast.ESpread:
				return nil, false
			case *js_ast.EMissing:
				continue
			}
			keys = append(keys, js_ast.NumberToString(float64(i)))
		}
		return keys, true

	case *js_ast.EObject:
		var indices []int
		var names []string
		seen := make(map[string]bool)
		for i := range e.Properties {
			property := &e.Properties[i]
			key, ok := disposable.StaticKey(property)
			if !ok || (key == "__proto__" && !property.IsComputed) {
				return nil, false
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			if index, ok := disposable.ArrayIndex(key); ok && index < 1<<32-1 {
				indices = append(indices, index)
			} else {
				names = append(names, key)
			}
		}
		sort.Ints(indices)
		keys := make([]string, 0, len(indices)+len(names))
		for _, index := range indices {
			keys = append(keys, js_ast.NumberToString(float64(index)))
		}
		return append(keys, names...), true
	}

	return nil, false
}

// Returns false if nothing needed to change
func replaceValuesWithOne(value js_ast.Expr) bool {
	changed := false
	isOne := func(expr js_ast.Expr) bool {
		number, ok := expr.Data.(*js_ast.ENumber)
		return ok && number.Value == 1
	}

	switch e := value.Data.(type) {
	case *js_ast.EArray:
		for i, item := range e.Items {
			switch item.Data.(type) {
			case *js_ast.ESpread, *js_ast.EMissing:
				continue
			}
			if !isOne(item) {
				e.Items[i] = js_ast.Expr{Loc: item.Loc, Data: &js_ast.ENumber{Value: 1}}
				changed = true
			}
		}

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			key, ok := disposable.StaticKey(property)
			if !ok {
				continue
			}
			if property.Kind == js_ast.PropertyNormal && !property.IsComputed && !property.IsMethod &&
				!property.WasShorthand && isOne(property.ValueOrNil) {
				continue
			}
			if key == "__proto__" && !property.IsComputed {
				continue
			}
			*property = js_ast.Property{
				Loc:        property.Loc,
				Kind:       js_ast.PropertyNormal,
				Key:        js_ast.Expr{Loc: property.Key.Loc, Data: &js_ast.EString{Value: helpers.StringToUTF16(key)}},
				ValueOrNil: js_ast.Expr{Loc: property.Loc, Data: &js_ast.ENumber{Value: 1}},
			}
			changed = true
		}
	}

	return changed
}
