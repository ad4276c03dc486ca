package js_printer

import (
	"math"
	"strings"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_lexer"
)

type Options struct {
	// Comments for which this returns true are left out of the output. This
	// is used to strip internal annotations once a rewrite is finished.
	OmitComment func(text string) bool
}

type PrintResult struct {
	JS []byte
}

type printer struct {
	options Options
	js      []byte
	indent  int

	// These record where certain constructs begin in the output so that
	// expressions that would be ambiguous in that position get parentheses
	stmtStart          int
	exportDefaultStart int
	arrowExprStart     int
	forOfInitStart     int

	prevOp    js_ast.OpCode
	prevOpEnd int

	// The comments on this node were already printed at the statement level
	hoistedCommentsFor js_ast.E
}

type printExprFlags uint8

const (
	forbidCall printExprFlags = 1 << iota
	forbidIn
	hasNonOptionalChainParent
)

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printBytes(bytes []byte) {
	p.js = append(p.js, bytes...)
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "- -y" => "- -y"
		// "x-- > y" => "x-- > y"
		if ((prev == js_ast.BinOpAdd || prev == js_ast.UnOpPos) && (next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			((prev == js_ast.BinOpSub || prev == js_ast.UnOpNeg) && (next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) {
			p.print(" ")
		}
	}
}

func (p *printer) omitComment(text string) bool {
	return p.options.OmitComment != nil && p.options.OmitComment(text)
}

// Comments in front of a statement. Line comments and multi-line block
// comments get their own lines. Single-line block comments stay on the same
// line as the statement. Returns true if the current line was already started
// (and indented) by an inline comment.
func (p *printer) printStmtComments(comments []js_ast.Comment) bool {
	lineStarted := false

	for _, comment := range comments {
		if p.omitComment(comment.Text) {
			continue
		}

		if comment.IsBlock() && !strings.Contains(comment.Text, "\n") {
			if !lineStarted {
				p.printIndent()
				lineStarted = true
			}
			p.print(comment.Text)
			p.print(" ")
			continue
		}

		if lineStarted {
			p.print("\n")
			lineStarted = false
		}
		p.printIndentedComment(comment.Text)
	}

	return lineStarted
}

func (p *printer) printIndentedComment(text string) {
	if strings.HasPrefix(text, "/*") {
		// Re-indent multi-line comments
		for {
			newline := strings.IndexByte(text, '\n')
			if newline == -1 {
				break
			}
			p.printIndent()
			p.print(text[:newline+1])
			text = text[newline+1:]
		}
	}

	p.printIndent()
	p.print(text)
	p.print("\n")
}

// Comments in front of an expression are always printed inline. A newline
// inside an expression can change its meaning ("return // x" followed by a
// value) so line comments are turned into block comments here.
func (p *printer) printExprComments(comments []js_ast.Comment) {
	for _, comment := range comments {
		if p.omitComment(comment.Text) {
			continue
		}

		text := comment.Text
		if !comment.IsBlock() {
			if strings.Contains(text, "*/") {
				continue
			}
			text = "/*" + text[2:] + " */"
		} else if strings.Contains(text, "\n") {
			text = strings.Join(strings.Fields(text), " ")
		}

		p.print(text)
		p.print(" ")
	}
}

func (p *printer) printQuotedUTF16(text []uint16) {
	p.printBytes(helpers.QuoteUTF16(text))
}

func (p *printer) printNumber(value float64, level js_ast.L) {
	switch {
	case value != value:
		p.print("NaN")

	case math.IsInf(value, 1):
		p.print("Infinity")

	case math.IsInf(value, -1):
		if level >= js_ast.LPrefix {
			p.print("(-Infinity)")
		} else {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-Infinity")
		}

	case !math.Signbit(value):
		p.print(js_ast.NumberToString(value))

	case level >= js_ast.LPrefix:
		// Expressions such as "(-1).toString" need to wrap negative numbers.
		// Testing the sign bit instead of "value < 0" also catches "-0".
		p.print("(-")
		p.print(js_ast.NumberToString(-value))
		p.print(")")

	default:
		p.printSpaceBeforeOperator(js_ast.UnOpNeg)
		p.print("-")
		p.print(js_ast.NumberToString(-value))
		p.prevOp = js_ast.UnOpNeg
	}
}

func (p *printer) printPropertyKey(key js_ast.Expr, isComputed bool) {
	if isComputed {
		p.print("[")
		p.printExpr(key, js_ast.LComma, 0)
		p.print("]")
		return
	}

	switch k := key.Data.(type) {
	case *js_ast.EString:
		if js_ast.IsIdentifierUTF16(k.Value) {
			p.print(helpers.UTF16ToString(k.Value))
		} else {
			p.printQuotedUTF16(k.Value)
		}

	case *js_ast.EPrivateIdentifier:
		p.print(k.Name)

	default:
		p.printExpr(key, js_ast.LLowest, 0)
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.print(b.Name)

	case *js_ast.BArray:
		p.print("[")
		if len(b.Items) > 0 {
			if !b.IsSingleLine {
				p.indent++
			}

			for i, item := range b.Items {
				if i != 0 {
					p.print(",")
					if b.IsSingleLine {
						p.print(" ")
					}
				}
				if !b.IsSingleLine {
					p.print("\n")
					p.printIndent()
				}
				if b.HasSpread && i+1 == len(b.Items) {
					p.print("...")
				}
				p.printBinding(item.Binding)

				if item.DefaultValueOrNil.Data != nil {
					p.print(" = ")
					p.printExpr(item.DefaultValueOrNil, js_ast.LComma, 0)
				}

				// Make sure there's a comma after trailing missing items
				if _, ok := item.Binding.Data.(*js_ast.BMissing); ok && i == len(b.Items)-1 {
					p.print(",")
				}
			}

			if !b.IsSingleLine {
				p.indent--
				p.print("\n")
				p.printIndent()
			}
		}
		p.print("]")

	case *js_ast.BObject:
		p.print("{")
		if len(b.Properties) > 0 {
			if !b.IsSingleLine {
				p.indent++
			}

			for i, property := range b.Properties {
				if i != 0 {
					p.print(",")
				}
				if b.IsSingleLine {
					p.print(" ")
				} else {
					p.print("\n")
					p.printIndent()
				}

				if property.IsSpread {
					p.print("...")
				} else {
					// Print the shorthand form if the key matches the name
					if !property.IsComputed {
						if str, ok := property.Key.Data.(*js_ast.EString); ok {
							if id, ok := property.Value.Data.(*js_ast.BIdentifier); ok && helpers.UTF16EqualsString(str.Value, id.Name) {
								p.print(id.Name)
								if property.DefaultValueOrNil.Data != nil {
									p.print(" = ")
									p.printExpr(property.DefaultValueOrNil, js_ast.LComma, 0)
								}
								continue
							}
						}
					}

					p.printPropertyKey(property.Key, property.IsComputed)
					p.print(": ")
				}
				p.printBinding(property.Value)

				if property.DefaultValueOrNil.Data != nil {
					p.print(" = ")
					p.printExpr(property.DefaultValueOrNil, js_ast.LComma, 0)
				}
			}

			if b.IsSingleLine {
				p.print(" ")
			} else {
				p.indent--
				p.print("\n")
				p.printIndent()
			}
		}
		p.print("}")
	}
}

func (p *printer) printFnArgs(args []js_ast.Arg, hasRestArg bool) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(", ")
		}
		if hasRestArg && i+1 == len(args) {
			p.print("...")
		}
		p.printBinding(arg.Binding)

		if arg.DefaultOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(arg.DefaultOrNil, js_ast.LComma, 0)
		}
	}
	p.print(")")
}

func (p *printer) printFn(fn js_ast.Fn) {
	p.printFnArgs(fn.Args, fn.HasRestArg)
	p.print(" ")
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printClass(class js_ast.Class) {
	if class.ExtendsOrNil.Data != nil {
		p.print(" extends ")
		p.printExpr(class.ExtendsOrNil, js_ast.LNew-1, 0)
	}
	p.print(" {\n")
	p.indent++

	for _, property := range class.Properties {
		p.printIndent()
		p.printProperty(property)

		// Need semicolons after class fields
		if !property.IsMethod {
			p.print(";")
		}
		p.print("\n")
	}

	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printProperty(property js_ast.Property) {
	if property.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(property.ValueOrNil, js_ast.LComma, 0)
		return
	}

	if property.IsStatic {
		p.print("static ")
	}

	if fn, ok := property.ValueOrNil.Data.(*js_ast.EFunction); property.IsMethod && ok {
		p.printExprComments(property.ValueOrNil.Comments)
		switch property.Kind {
		case js_ast.PropertyGet:
			p.print("get ")
		case js_ast.PropertySet:
			p.print("set ")
		}
		if fn.Fn.IsAsync {
			p.print("async ")
		}
		if fn.Fn.IsGenerator {
			p.print("*")
		}
		p.printPropertyKey(property.Key, property.IsComputed)
		p.printFn(fn.Fn)
		return
	}

	// Print the shorthand form if the value is still the key's own name
	if property.WasShorthand && !property.IsComputed {
		if str, ok := property.Key.Data.(*js_ast.EString); ok {
			if id, ok := property.ValueOrNil.Data.(*js_ast.EIdentifier); ok && len(property.ValueOrNil.Comments) == 0 &&
				helpers.UTF16EqualsString(str.Value, id.Name) {
				p.print(id.Name)
				if property.InitializerOrNil.Data != nil {
					p.print(" = ")
					p.printExpr(property.InitializerOrNil, js_ast.LComma, 0)
				}
				return
			}
		}
	}

	p.printPropertyKey(property.Key, property.IsComputed)

	if property.ValueOrNil.Data != nil {
		p.print(": ")
		p.printExpr(property.ValueOrNil, js_ast.LComma, 0)
	}

	if property.InitializerOrNil.Data != nil {
		p.print(" = ")
		p.printExpr(property.InitializerOrNil, js_ast.LComma, 0)
	}
}

func (p *printer) printTemplate(e *js_ast.ETemplate) {
	p.print("`")
	p.print(e.HeadRaw)
	for _, part := range e.Parts {
		p.print("${")
		p.printExpr(part.Value, js_ast.LLowest, 0)
		p.print("}")
		p.print(part.TailRaw)
	}
	p.print("`")
}

func (p *printer) printCallArgs(args []js_ast.Expr) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(", ")
		}
		p.printExpr(arg, js_ast.LComma, 0)
	}
	p.print(")")
}

// The "start" markers move past any comments printed in front of an
// expression so that "(/* c */ function() {})()" still gets its parentheses
func (p *printer) shiftStartMarkers(before int) {
	after := len(p.js)
	if after == before {
		return
	}
	if p.stmtStart == before {
		p.stmtStart = after
	}
	if p.exportDefaultStart == before {
		p.exportDefaultStart = after
	}
	if p.arrowExprStart == before {
		p.arrowExprStart = after
	}
	if p.forOfInitStart == before {
		p.forOfInitStart = after
	}
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L, flags printExprFlags) {
	if p.hoistedCommentsFor != nil && expr.Data == p.hoistedCommentsFor {
		p.hoistedCommentsFor = nil
	} else if len(expr.Comments) > 0 {
		before := len(p.js)
		p.printExprComments(expr.Comments)
		p.shiftStartMarkers(before)
	}

	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		if level >= js_ast.LPrefix {
			p.print("(void 0)")
		} else {
			p.print("void 0")
		}

	case *js_ast.ESuper:
		p.print("super")

	case *js_ast.ENull:
		p.print("null")

	case *js_ast.EThis:
		p.print("this")

	case *js_ast.ENewTarget:
		p.print("new.target")

	case *js_ast.EImportMeta:
		p.print("import.meta")

	case *js_ast.EBoolean:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EBigInt:
		p.print(e.Value)
		p.print("n")

	case *js_ast.EString:
		p.printQuotedUTF16(e.Value)

	case *js_ast.ERegExp:
		p.print(e.Value)

	case *js_ast.EIdentifier:
		// "let[0] = 1" at the start of a statement would be a declaration
		wrap := e.Name == "let" && (len(p.js) == p.stmtStart || len(p.js) == p.forOfInitStart)
		if wrap {
			p.print("(")
		}
		p.print(e.Name)
		if wrap {
			p.print(")")
		}

	case *js_ast.EPrivateIdentifier:
		p.print(e.Name)

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma, 0)

	case *js_ast.EImportCall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		if wrap {
			p.print("(")
		}
		p.print("import(")
		p.printExpr(e.Expr, js_ast.LComma, 0)
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.print("new ")
		p.printExpr(e.Target, js_ast.LNew, forbidCall)

		// "new Foo" is only kept without parentheses where nothing follows it
		if !e.HasNoArgs || len(e.Args) > 0 || level >= js_ast.LPostfix {
			p.printCallArgs(e.Args)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		var targetFlags printExprFlags
		if e.OptionalChain == js_ast.OptionalChainNone {
			targetFlags = hasNonOptionalChainParent
		} else if (flags & hasNonOptionalChainParent) != 0 {
			wrap = true
		}
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Target, js_ast.LPostfix, targetFlags)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}
		p.printCallArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		wrap := e.OptionalChain != js_ast.OptionalChainNone && (flags&hasNonOptionalChainParent) != 0
		if wrap {
			p.print("(")
		}
		p.printMemberTarget(e.Target, e.OptionalChain, flags)

		// "1.toString()" is a syntax error
		if number, ok := e.Target.Data.(*js_ast.ENumber); ok && len(e.Target.Comments) == 0 && e.OptionalChain != js_ast.OptionalChainStart &&
			!math.Signbit(number.Value) && !math.IsInf(number.Value, 0) && number.Value == math.Trunc(number.Value) &&
			!strings.ContainsAny(js_ast.NumberToString(number.Value), ".e") {
			p.print(".")
		}

		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		} else {
			p.print(".")
		}
		p.print(e.Name)
		if wrap {
			p.print(")")
		}

	case *js_ast.EIndex:
		wrap := e.OptionalChain != js_ast.OptionalChainNone && (flags&hasNonOptionalChainParent) != 0
		if wrap {
			p.print("(")
		}
		p.printMemberTarget(e.Target, e.OptionalChain, flags)
		if private, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			if e.OptionalChain == js_ast.OptionalChainStart {
				p.print("?.")
			} else {
				p.print(".")
			}
			p.print(private.Name)
		} else {
			if e.OptionalChain == js_ast.OptionalChainStart {
				p.print("?.")
			}
			p.print("[")
			p.printExpr(e.Index, js_ast.LLowest, 0)
			p.print("]")
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}
		p.printExpr(e.Test, js_ast.LConditional, flags&forbidIn)
		p.print(" ? ")
		p.printExpr(e.Yes, js_ast.LYield, 0)
		p.print(" : ")
		p.printExpr(e.No, js_ast.LYield, flags&forbidIn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		if e.IsAsync {
			p.print("async ")
		}
		p.printFnArgs(e.Args, e.HasRestArg)
		p.print(" => ")

		wasPrinted := false
		if len(e.Body.Stmts) == 1 && e.PreferExpr {
			if s, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && s.ValueOrNil.Data != nil && len(e.Body.Stmts[0].Comments) == 0 {
				p.arrowExprStart = len(p.js)
				p.printExpr(s.ValueOrNil, js_ast.LComma, flags&forbidIn)
				wasPrinted = true
			}
		}
		if !wasPrinted {
			p.printBlock(e.Body.Stmts)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		n := len(p.js)
		wrap := p.stmtStart == n || p.exportDefaultStart == n
		if wrap {
			p.print("(")
		}
		if e.Fn.IsAsync {
			p.print("async ")
		}
		p.print("function")
		if e.Fn.IsGenerator {
			p.print("*")
		}
		if e.Fn.Name != nil {
			p.print(" ")
			p.print(e.Fn.Name.Name)
		}
		p.printFn(e.Fn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		n := len(p.js)
		wrap := p.stmtStart == n || p.exportDefaultStart == n
		if wrap {
			p.print("(")
		}
		p.print("class")
		if e.Class.Name != nil {
			p.print(" ")
			p.print(e.Class.Name.Name)
		}
		p.printClass(e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArray:
		p.print("[")
		if len(e.Items) > 0 {
			if !e.IsSingleLine {
				p.indent++
			}

			for i, item := range e.Items {
				if i != 0 {
					p.print(",")
					if e.IsSingleLine {
						p.print(" ")
					}
				}
				if !e.IsSingleLine {
					p.print("\n")
					p.printIndent()
				}
				p.printExpr(item, js_ast.LComma, 0)

				// Make sure there's a comma after trailing missing items
				if _, ok := item.Data.(*js_ast.EMissing); ok && i == len(e.Items)-1 {
					p.print(",")
				}
			}

			if !e.IsSingleLine {
				p.indent--
				p.print("\n")
				p.printIndent()
			}
		}
		p.print("]")

	case *js_ast.EObject:
		n := len(p.js)
		wrap := p.stmtStart == n || p.arrowExprStart == n
		if wrap {
			p.print("(")
		}
		p.print("{")
		if len(e.Properties) != 0 {
			if !e.IsSingleLine {
				p.indent++
			}

			for i, item := range e.Properties {
				if i != 0 {
					p.print(",")
				}
				if e.IsSingleLine {
					p.print(" ")
				} else {
					p.print("\n")
					p.printIndent()
				}
				p.printProperty(item)
			}

			if !e.IsSingleLine {
				p.indent--
				p.print("\n")
				p.printIndent()
			} else {
				p.print(" ")
			}
		}
		p.print("}")
		if wrap {
			p.print(")")
		}

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			p.printExpr(e.TagOrNil, js_ast.LPostfix, hasNonOptionalChainParent)
		}
		p.printTemplate(e)

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.print("await ")
		p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.print("yield")
		if e.IsStar {
			p.print("*")
		}
		if e.ValueOrNil.Data != nil {
			p.print(" ")
			p.printExpr(e.ValueOrNil, js_ast.LYield, 0)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		entry := js_ast.OpTable[e.Op]
		wrap := e.Op.IsPrefix() && level >= js_ast.LPrefix || !e.Op.IsPrefix() && level >= js_ast.LPostfix
		if wrap {
			p.print("(")
		}

		if e.Op.IsPrefix() {
			if entry.IsKeyword {
				p.print(entry.Text)
				p.print(" ")
			} else {
				p.printSpaceBeforeOperator(e.Op)
				p.print(entry.Text)
				p.prevOp = e.Op
				p.prevOpEnd = len(p.js)
			}
			p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		} else {
			p.printExpr(e.Value, js_ast.LPostfix-1, 0)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EBinary:
		p.printBinary(e, level, flags)

	default:
		panic("Internal error")
	}
}

func (p *printer) printMemberTarget(target js_ast.Expr, optionalChain js_ast.OptionalChain, flags printExprFlags) {
	var targetFlags printExprFlags
	if optionalChain == js_ast.OptionalChainNone {
		targetFlags = hasNonOptionalChainParent
	}
	p.printExpr(target, js_ast.LPostfix, (flags&forbidCall)|targetFlags)
}

func isLogicalOrAnd(expr js_ast.Expr) bool {
	if e, ok := expr.Data.(*js_ast.EBinary); ok && len(expr.Comments) == 0 {
		return e.Op == js_ast.BinOpLogicalOr || e.Op == js_ast.BinOpLogicalAnd
	}
	return false
}

func isNullishCoalescing(expr js_ast.Expr) bool {
	e, ok := expr.Data.(*js_ast.EBinary)
	return ok && e.Op == js_ast.BinOpNullishCoalescing
}

func (p *printer) printBinary(e *js_ast.EBinary, level js_ast.L, flags printExprFlags) {
	entry := js_ast.OpTable[e.Op]
	wrap := level >= entry.Level || (e.Op == js_ast.BinOpIn && (flags&forbidIn) != 0)

	// Destructuring assignments must be parenthesized at the start of a
	// statement: "({a} = b)"
	if e.Op == js_ast.BinOpAssign && p.stmtStart == len(p.js) {
		if _, ok := e.Left.Data.(*js_ast.EObject); ok {
			wrap = true
		}
	}

	if wrap {
		p.print("(")
		flags &= ^forbidIn
	}

	leftLevel := entry.Level - 1
	rightLevel := entry.Level - 1

	if e.Op.IsRightAssociative() {
		leftLevel = entry.Level
	}
	if e.Op.IsLeftAssociative() {
		rightLevel = entry.Level
	}

	switch e.Op {
	case js_ast.BinOpPow:
		// "(-a) ** b" and "(await a) ** b" need parentheses on the left
		leftLevel = js_ast.LPrefix

	case js_ast.BinOpNullishCoalescing:
		// "??" can't be mixed with "||" or "&&" without parentheses
		if isLogicalOrAnd(e.Left) {
			leftLevel = js_ast.LPrefix
		}
		if isLogicalOrAnd(e.Right) {
			rightLevel = js_ast.LPrefix
		}

	case js_ast.BinOpLogicalOr, js_ast.BinOpLogicalAnd:
		if isNullishCoalescing(e.Left) {
			leftLevel = js_ast.LPrefix
		}
		if isNullishCoalescing(e.Right) {
			rightLevel = js_ast.LPrefix
		}
	}

	p.printExpr(e.Left, leftLevel, flags&forbidIn)

	if e.Op == js_ast.BinOpComma {
		p.print(", ")
	} else {
		p.print(" ")
		p.printSpaceBeforeOperator(e.Op)
		p.print(entry.Text)
		p.prevOp = e.Op
		p.prevOpEnd = len(p.js)
		p.print(" ")
	}

	p.printExpr(e.Right, rightLevel, flags&forbidIn)

	if wrap {
		p.print(")")
	}
}

func (p *printer) printDecls(keyword string, decls []js_ast.Decl, flags printExprFlags) {
	p.print(keyword)
	p.print(" ")

	for i, decl := range decls {
		if i != 0 {
			p.print(", ")
		}
		p.printBinding(decl.Binding)

		if decl.ValueOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(decl.ValueOrNil, js_ast.LComma, flags)
		}
	}
}

func (p *printer) printBody(body js_ast.Stmt) {
	if block, ok := body.Data.(*js_ast.SBlock); ok && len(body.Comments) == 0 {
		p.print(" ")
		p.printBlock(block.Stmts)
		p.print("\n")
	} else {
		p.print("\n")
		p.indent++
		p.printStmt(body)
		p.indent--
	}
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{\n")

	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--

	p.printIndent()
	p.print("}")
}

func wrapToAvoidAmbiguousElse(s js_ast.S) bool {
	for {
		switch current := s.(type) {
		case *js_ast.SIf:
			if current.NoOrNil.Data == nil {
				return true
			}
			s = current.NoOrNil.Data

		case *js_ast.SFor:
			s = current.Body.Data

		case *js_ast.SForIn:
			s = current.Body.Data

		case *js_ast.SForOf:
			s = current.Body.Data

		case *js_ast.SWhile:
			s = current.Body.Data

		case *js_ast.SWith:
			s = current.Body.Data

		case *js_ast.SLabel:
			s = current.Stmt.Data

		default:
			return false
		}
	}
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.print("if (")
	p.printExpr(s.Test, js_ast.LLowest, 0)
	p.print(")")

	no := s.NoOrNil

	if yes, ok := s.Yes.Data.(*js_ast.SBlock); ok && len(s.Yes.Comments) == 0 {
		p.print(" ")
		p.printBlock(yes.Stmts)

		if no.Data != nil {
			p.print(" ")
		} else {
			p.print("\n")
		}
	} else if no.Data != nil && wrapToAvoidAmbiguousElse(s.Yes.Data) {
		p.print(" {\n")

		p.indent++
		p.printStmt(s.Yes)
		p.indent--

		p.printIndent()
		p.print("} ")
	} else {
		p.print("\n")
		p.indent++
		p.printStmt(s.Yes)
		p.indent--

		if no.Data != nil {
			p.printIndent()
		}
	}

	if no.Data != nil {
		p.print("else")

		if block, ok := no.Data.(*js_ast.SBlock); ok && len(no.Comments) == 0 {
			p.print(" ")
			p.printBlock(block.Stmts)
			p.print("\n")
		} else if ifStmt, ok := no.Data.(*js_ast.SIf); ok && len(no.Comments) == 0 {
			p.print(" ")
			p.printIf(ifStmt)
		} else {
			p.print("\n")
			p.indent++
			p.printStmt(no)
			p.indent--
		}
	}
}

func (p *printer) printClauseAlias(alias string) {
	if js_ast.IsIdentifier(alias) || js_lexer.Keywords[alias] != 0 {
		p.print(alias)
	} else {
		p.printQuotedUTF16(helpers.StringToUTF16(alias))
	}
}

func (p *printer) printExportClauseItems(items []js_ast.ClauseItem, isSingleLine bool) {
	p.print("{")
	if !isSingleLine {
		p.indent++
	}

	for i, item := range items {
		if i != 0 {
			p.print(",")
		}
		if isSingleLine {
			p.print(" ")
		} else {
			p.print("\n")
			p.printIndent()
		}
		p.printClauseAlias(item.Name.Name)
		if item.Name.Name != item.Alias {
			p.print(" as ")
			p.printClauseAlias(item.Alias)
		}
	}

	if !isSingleLine {
		p.indent--
		p.print("\n")
		p.printIndent()
	} else if len(items) > 0 {
		p.print(" ")
	}
	p.print("}")
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	comments := stmt.Comments
	value := js_ast.Expr{}

	// Comments in front of an expression statement are stored on the
	// expression, but they are printed like statement comments
	if s, ok := stmt.Data.(*js_ast.SExpr); ok {
		value = s.Value
		if data, leading := leftmostComments(value); len(leading) > 0 {
			comments = append(append([]js_ast.Comment{}, comments...), leading...)
			p.hoistedCommentsFor = data
		}
	}

	if _, ok := stmt.Data.(*js_ast.SComment); !ok {
		if !p.printStmtComments(comments) {
			p.printIndent()
		}
	}

	switch s := stmt.Data.(type) {
	case *js_ast.SComment:
		p.printStmtComments(comments)
		p.printIndentedComment(s.Text)

	case *js_ast.SFunction:
		if s.IsExport {
			p.print("export ")
		}
		p.printFnStmt(s.Fn)
		p.print("\n")

	case *js_ast.SClass:
		if s.IsExport {
			p.print("export ")
		}
		p.print("class")
		if s.Class.Name != nil {
			p.print(" ")
			p.print(s.Class.Name.Name)
		}
		p.printClass(s.Class)
		p.print("\n")

	case *js_ast.SEmpty:
		p.print(";\n")

	case *js_ast.SExportDefault:
		p.print("export default ")

		switch s2 := s.Value.Data.(type) {
		case *js_ast.SExpr:
			p.printExprComments(s.Value.Comments)
			p.exportDefaultStart = len(p.js)
			p.printExpr(s2.Value, js_ast.LComma, 0)
			p.print(";\n")

		case *js_ast.SFunction:
			p.printExprComments(s.Value.Comments)
			p.printFnStmt(s2.Fn)
			p.print("\n")

		case *js_ast.SClass:
			p.printExprComments(s.Value.Comments)
			p.print("class")
			if s2.Class.Name != nil {
				p.print(" ")
				p.print(s2.Class.Name.Name)
			}
			p.printClass(s2.Class)
			p.print("\n")

		default:
			panic("Internal error")
		}

	case *js_ast.SExportStar:
		p.print("export *")
		if s.Alias != nil {
			p.print(" as ")
			p.printClauseAlias(s.Alias.Name)
		}
		p.print(" from ")
		p.printQuotedUTF16(s.Path)
		p.print(";\n")

	case *js_ast.SExportClause:
		p.print("export ")
		p.printExportClauseItems(s.Items, s.IsSingleLine)
		p.print(";\n")

	case *js_ast.SExportFrom:
		p.print("export ")
		p.printExportClauseItems(s.Items, s.IsSingleLine)
		p.print(" from ")
		p.printQuotedUTF16(s.Path)
		p.print(";\n")

	case *js_ast.SLocal:
		if s.IsExport {
			p.print("export ")
		}
		p.printDecls(s.Kind.String(), s.Decls, 0)
		p.print(";\n")

	case *js_ast.SIf:
		p.printIf(s)

	case *js_ast.SDoWhile:
		p.print("do")
		if block, ok := s.Body.Data.(*js_ast.SBlock); ok && len(s.Body.Comments) == 0 {
			p.print(" ")
			p.printBlock(block.Stmts)
			p.print(" ")
		} else {
			p.print("\n")
			p.indent++
			p.printStmt(s.Body)
			p.indent--
			p.printIndent()
		}
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(");\n")

	case *js_ast.SForIn:
		p.print("for (")
		p.printForLoopInit(s.Init, forbidIn)
		p.print(" in ")
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SForOf:
		p.print("for ")
		if s.IsAwait {
			p.print("await ")
		}
		p.print("(")
		p.forOfInitStart = len(p.js)
		p.printForLoopInit(s.Init, 0)
		p.print(" of ")
		p.printExpr(s.Value, js_ast.LComma, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWhile:
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWith:
		p.print("with (")
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SLabel:
		p.print(s.Name.Name)
		p.print(":")
		p.printBody(s.Stmt)

	case *js_ast.STry:
		p.print("try ")
		p.printBlock(s.Block.Data.(*js_ast.SBlock).Stmts)

		if s.Catch != nil {
			p.print(" catch")
			if s.Catch.BindingOrNil.Data != nil {
				p.print(" (")
				p.printBinding(s.Catch.BindingOrNil)
				p.print(")")
			}
			p.print(" ")
			p.printBlock(s.Catch.Block.Data.(*js_ast.SBlock).Stmts)
		}

		if s.Finally != nil {
			p.print(" finally ")
			p.printBlock(s.Finally.Block.Data.(*js_ast.SBlock).Stmts)
		}

		p.print("\n")

	case *js_ast.SFor:
		p.print("for (")
		if s.InitOrNil.Data != nil {
			p.printForLoopInit(s.InitOrNil, forbidIn)
		}
		p.print(";")
		if s.TestOrNil.Data != nil {
			p.print(" ")
			p.printExpr(s.TestOrNil, js_ast.LLowest, 0)
		}
		p.print(";")
		if s.UpdateOrNil.Data != nil {
			p.print(" ")
			p.printExpr(s.UpdateOrNil, js_ast.LLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SSwitch:
		p.print("switch (")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(") {\n")
		p.indent++

		for _, c := range s.Cases {
			p.printIndent()
			if c.ValueOrNil.Data != nil {
				p.print("case ")
				p.printExpr(c.ValueOrNil, js_ast.LLowest, 0)
				p.print(":")
			} else {
				p.print("default:")
			}

			if len(c.Body) == 1 {
				if block, ok := c.Body[0].Data.(*js_ast.SBlock); ok && len(c.Body[0].Comments) == 0 {
					p.print(" ")
					p.printBlock(block.Stmts)
					p.print("\n")
					continue
				}
			}

			p.print("\n")
			p.indent++
			for _, stmt := range c.Body {
				p.printStmt(stmt)
			}
			p.indent--
		}

		p.indent--
		p.printIndent()
		p.print("}\n")

	case *js_ast.SImport:
		itemCount := 0
		p.print("import ")

		if s.DefaultName != nil {
			p.print(s.DefaultName.Name)
			itemCount++
		}

		if s.StarName != nil {
			if itemCount > 0 {
				p.print(", ")
			}
			p.print("* as ")
			p.print(s.StarName.Name)
			itemCount++
		}

		if s.Items != nil {
			if itemCount > 0 {
				p.print(", ")
			}
			p.print("{")
			if !s.IsSingleLine {
				p.indent++
			}

			for i, item := range *s.Items {
				if i != 0 {
					p.print(",")
				}
				if s.IsSingleLine {
					p.print(" ")
				} else {
					p.print("\n")
					p.printIndent()
				}
				p.printClauseAlias(item.Alias)
				if item.Name.Name != item.Alias {
					p.print(" as ")
					p.print(item.Name.Name)
				}
			}

			if !s.IsSingleLine {
				p.indent--
				p.print("\n")
				p.printIndent()
			} else if len(*s.Items) > 0 {
				p.print(" ")
			}
			p.print("}")
			itemCount++
		}

		if itemCount > 0 {
			p.print(" from ")
		}
		p.printQuotedUTF16(s.Path)
		p.print(";\n")

	case *js_ast.SBlock:
		p.printBlock(s.Stmts)
		p.print("\n")

	case *js_ast.SDebugger:
		p.print("debugger;\n")

	case *js_ast.SDirective:
		p.printQuotedUTF16(s.Value)
		p.print(";\n")

	case *js_ast.SBreak:
		p.print("break")
		if s.Label != nil {
			p.print(" ")
			p.print(s.Label.Name)
		}
		p.print(";\n")

	case *js_ast.SContinue:
		p.print("continue")
		if s.Label != nil {
			p.print(" ")
			p.print(s.Label.Name)
		}
		p.print(";\n")

	case *js_ast.SReturn:
		p.print("return")
		if s.ValueOrNil.Data != nil {
			p.print(" ")
			p.printExpr(s.ValueOrNil, js_ast.LLowest, 0)
		}
		p.print(";\n")

	case *js_ast.SThrow:
		p.print("throw ")
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(";\n")

	case *js_ast.SExpr:
		p.stmtStart = len(p.js)
		p.printExpr(value, js_ast.LLowest, 0)
		p.print(";\n")

	default:
		panic("Internal error")
	}
}

// The parser attaches comments at the start of an expression to the leftmost
// node, which is not always the root of an expression statement
func leftmostComments(expr js_ast.Expr) (js_ast.E, []js_ast.Comment) {
	for {
		if len(expr.Comments) > 0 {
			return expr.Data, expr.Comments
		}

		switch e := expr.Data.(type) {
		case *js_ast.EBinary:
			expr = e.Left
		case *js_ast.EIf:
			expr = e.Test
		case *js_ast.ECall:
			expr = e.Target
		case *js_ast.EDot:
			expr = e.Target
		case *js_ast.EIndex:
			expr = e.Target
		case *js_ast.ETemplate:
			if e.TagOrNil.Data == nil {
				return nil, nil
			}
			expr = e.TagOrNil
		case *js_ast.EUnary:
			if e.Op.IsPrefix() {
				return nil, nil
			}
			expr = e.Value
		default:
			return nil, nil
		}
	}
}

func (p *printer) printFnStmt(fn js_ast.Fn) {
	if fn.IsAsync {
		p.print("async ")
	}
	p.print("function")
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		p.print(" ")
		p.print(fn.Name.Name)
	}
	p.printFn(fn)
}

func (p *printer) printForLoopInit(init js_ast.Stmt, flags printExprFlags) {
	switch s := init.Data.(type) {
	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.LLowest, flags)
	case *js_ast.SLocal:
		p.printDecls(s.Kind.String(), s.Decls, flags)
	default:
		panic("Internal error")
	}
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := &printer{
		options:            options,
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowExprStart:     -1,
		forOfInitStart:     -1,
		prevOpEnd:          -1,
	}

	if tree.Hashbang != "" {
		p.print(tree.Hashbang)
		p.print("\n")
	}

	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
	}

	return PrintResult{JS: p.js}
}

// Prints a single expression, which is useful for diagnostics and tests
func PrintExpr(expr js_ast.Expr, options Options) string {
	p := &printer{
		options:            options,
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowExprStart:     -1,
		forOfInitStart:     -1,
		prevOpEnd:          -1,
	}
	p.printExpr(expr, js_ast.LLowest, 0)
	return string(p.js)
}
