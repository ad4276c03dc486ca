package disposable

import (
	"strconv"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/js_ast"
)

// Properties every object inherits. Reading one of these from a literal that
// doesn't define it doesn't give "undefined".
var objectPrototypeKeys = map[string]bool{
	"__proto__":            true,
	"__defineGetter__":     true,
	"__defineSetter__":     true,
	"__lookupGetter__":     true,
	"__lookupSetter__":     true,
	"constructor":          true,
	"hasOwnProperty":       true,
	"isPrototypeOf":        true,
	"propertyIsEnumerable": true,
	"toLocaleString":       true,
	"toString":             true,
	"valueOf":              true,
}

// Returns the static string form of a non-computed or computed property key
func StaticKey(property *js_ast.Property) (string, bool) {
	if property.Kind == js_ast.PropertySpread || property.Key.Data == nil {
		return "", false
	}
	if str, ok := property.Key.Data.(*js_ast.EString); ok {
		return helpers.UTF16ToString(str.Value), true
	}
	return js_ast.PropertyKeyString(property.Key)
}

// Parses the canonical form of an array index ("0", "1", ... but not "01")
func ArrayIndex(key string) (int, bool) {
	index, err := strconv.Atoi(key)
	if err != nil || index < 0 || strconv.Itoa(index) != key {
		return 0, false
	}
	return index, true
}

// Reads a property from a literal without evaluating anything. The input is
// never changed. The result is either a node that already exists in the
// input or a new absent value. The second return value is false when the
// read can't be done statically.
//
// An optional read ("a?.b") of an absent value is absent.
func (m *Markers) Extract(value js_ast.Expr, key string, optional bool) (js_ast.Expr, bool) {
	if optional && IsAbsent(value) {
		return js_ast.Undefined(value.Loc), true
	}

	switch e := value.Data.(type) {
	case *js_ast.EObject:
		return m.extractFromObject(value, e, key)

	case *js_ast.EArray:
		return m.extractFromArray(value, e, key)
	}

	return js_ast.Expr{}, false
}

func (m *Markers) extractFromObject(value js_ast.Expr, object *js_ast.EObject, key string) (js_ast.Expr, bool) {
	// Later properties win, so search from the end. A spread or a key that
	// isn't known after the match could still overwrite it.
	for i := len(object.Properties) - 1; i >= 0; i-- {
		property := &object.Properties[i]
		name, ok := StaticKey(property)
		if !ok {
			return js_ast.Expr{}, false
		}
		if name != key {
			continue
		}

		switch {
		case property.Kind != js_ast.PropertyNormal:
			return js_ast.Expr{}, false

		case property.IsMethod, property.WasShorthand:
			// A method is stored as a function expression and a shorthand
			// property as the identifier it reads
			return property.ValueOrNil, true

		default:
			return m.Mark(property.ValueOrNil), true
		}
	}

	if objectPrototypeKeys[key] {
		return js_ast.Expr{}, false
	}
	return js_ast.Undefined(value.Loc), true
}

func (m *Markers) extractFromArray(value js_ast.Expr, array *js_ast.EArray, key string) (js_ast.Expr, bool) {
	if key == "length" {
		for _, item := range array.Items {
			if _, ok := item.Data.(*js_ast.ESpread); ok {
				return js_ast.Expr{}, false
			}
		}
		return m.Mark(js_ast.Expr{Loc: value.Loc, Data: &js_ast.ENumber{Value: float64(len(array.Items))}}), true
	}

	index, ok := ArrayIndex(key)
	if !ok {
		return js_ast.Expr{}, false
	}

	// A spread at or before the index moves the element
	for i, item := range array.Items {
		if i > index {
			break
		}
		if _, ok := item.Data.(*js_ast.ESpread); ok {
			return js_ast.Expr{}, false
		}
	}

	if index >= len(array.Items) {
		return js_ast.Undefined(value.Loc), true
	}
	item := array.Items[index]
	if _, ok := item.Data.(*js_ast.EMissing); ok {
		return js_ast.Undefined(item.Loc), true
	}
	return m.Mark(item), true
}
