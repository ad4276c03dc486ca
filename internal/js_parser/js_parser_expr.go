package js_parser

import (
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_lexer"
	"github.com/disposejs/dispose/internal/logger"
)

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	comments := p.lexer.CommentsBefore
	expr := p.parsePrefix(level)
	return p.parseSuffixWithComments(expr, comments, level)
}

// Comments before the first token of an expression belong to that expression.
// If the expression turns out to be the start of a call chain, the comments
// move to the outermost call so that "/* #__PURE__ */ a.b()" annotates the
// call instead of "a".
func (p *parser) parseSuffixWithComments(expr js_ast.Expr, comments []js_ast.Comment, level js_ast.L) js_ast.Expr {
	if len(comments) == 0 {
		return p.parseSuffix(expr, level)
	}
	expr.Comments = prependComments(comments, expr.Comments)
	if level >= js_ast.LCall {
		return p.parseSuffix(expr, level)
	}

	prefix := expr.Data
	expr = p.parseSuffix(expr, js_ast.LCall-1)
	if expr.Data != prefix {
		switch expr.Data.(type) {
		case *js_ast.ECall, *js_ast.ENew:
			if leftmost := leftmostInChain(&expr, prefix); leftmost != nil && leftmost != &expr {
				expr.Comments = leftmost.Comments
				leftmost.Comments = nil
			}
		}
	}
	return p.parseSuffix(expr, level)
}

func leftmostInChain(expr *js_ast.Expr, target js_ast.E) *js_ast.Expr {
	for {
		if expr.Data == target {
			return expr
		}
		switch e := expr.Data.(type) {
		case *js_ast.ECall:
			expr = &e.Target
		case *js_ast.EDot:
			expr = &e.Target
		case *js_ast.EIndex:
			expr = &e.Target
		case *js_ast.ETemplate:
			if e.TagOrNil.Data == nil {
				return nil
			}
			expr = &e.TagOrNil
		default:
			return nil
		}
	}
}

func (p *parser) parsePrefix(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSuper:
		superRange := p.lexer.Range()
		p.lexer.Next()

		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TDot, js_lexer.TOpenBracket:
			return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}
		}

		p.fail(superRange, "Unexpected \"super\"")
		return js_ast.Expr{}

	case js_lexer.TOpenParen:
		return p.parseParenExpr(loc, level, parenExprOpts{})

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TPrivateIdentifier:
		// "#foo in bar"
		name := p.lexer.Identifier
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TIn || level >= js_ast.LCompare {
			p.lexer.Expected(js_lexer.TIn)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: name}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		nameRange := p.lexer.Range()
		raw := p.lexer.Raw()
		p.lexer.Next()

		// Handle async and await expressions
		switch name {
		case "async":
			if raw == "async" {
				return p.parseAsyncPrefixExpr(nameRange, level)
			}

		case "await":
			if p.fnOrArrowDataParse.await == allowExpr {
				if raw != "await" {
					p.fail(nameRange, "The keyword \"await\" cannot be escaped")
				}
				value := p.parseExpr(js_ast.LPrefix - 1)
				if p.lexer.Token == js_lexer.TAsteriskAsterisk {
					p.lexer.Unexpected()
				}
				return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: value}}
			}

		case "yield":
			if p.fnOrArrowDataParse.yield == allowExpr {
				if raw != "yield" {
					p.fail(nameRange, "The keyword \"yield\" cannot be escaped")
				}
				if level > js_ast.LAssign {
					p.fail(nameRange, "Cannot use a \"yield\" expression here without parentheses")
				}
				return p.parseYieldExpr(loc)
			}
		}

		// Handle the start of an arrow function
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && level <= js_ast.LAssign {
			arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}
			arrow := p.parseArrowBody([]js_ast.Arg{arg}, fnOrArrowDataParse{})
			return js_ast.Expr{Loc: loc, Data: arrow}
		}

		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}

	case js_lexer.TStringLiteral, js_lexer.TNoSubstitutionTemplateLiteral:
		return p.parseStringLiteral()

	case js_lexer.TTemplateHead:
		headLoc := p.lexer.Loc()
		headCooked := p.lexer.StringLiteral
		headRaw := p.lexer.RawTemplateContents()
		parts := p.parseTemplateParts()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
			HeadLoc:    headLoc,
			HeadCooked: headCooked,
			HeadRaw:    headRaw,
			Parts:      parts,
		}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TBigIntegerLiteral:
		value := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: value}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TVoid:
		return p.parseUnaryExpr(loc, js_ast.UnOpVoid)

	case js_lexer.TTypeof:
		return p.parseUnaryExpr(loc, js_ast.UnOpTypeof)

	case js_lexer.TDelete:
		return p.parseUnaryExpr(loc, js_ast.UnOpDelete)

	case js_lexer.TPlus:
		return p.parseUnaryExpr(loc, js_ast.UnOpPos)

	case js_lexer.TMinus:
		return p.parseUnaryExpr(loc, js_ast.UnOpNeg)

	case js_lexer.TTilde:
		return p.parseUnaryExpr(loc, js_ast.UnOpCpl)

	case js_lexer.TExclamation:
		return p.parseUnaryExpr(loc, js_ast.UnOpNot)

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreDec, Value: p.parseExpr(js_ast.LPrefix - 1)}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: p.parseExpr(js_ast.LPrefix - 1)}}

	case js_lexer.TFunction:
		return p.parseFnExpr(loc, false /* isAsync */)

	case js_lexer.TClass:
		p.lexer.Next()
		var name *js_ast.LocName
		if p.lexer.Token == js_lexer.TIdentifier {
			name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Next()
		}
		class := p.parseClass(name)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()

		// Special-case the weird "new.target" expression here
		if p.lexer.Token == js_lexer.TDot {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier || p.lexer.Raw() != "target" {
				p.lexer.Unexpected()
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{}}
		}

		target := p.parseExpr(js_ast.LMember)
		if js_ast.IsOptionalChain(target) {
			p.fail(logger.Range{Loc: target.Loc}, "Invalid optional chain in \"new\" expression")
		}

		if p.lexer.Token == js_lexer.TOpenParen {
			args := p.parseCallArgs()
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, HasNoArgs: true}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		items := []js_ast.Expr{}

		// Allow "in" inside arrays
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})

			case js_lexer.TDotDotDot:
				dotsLoc := p.lexer.Loc()
				p.lexer.Next()
				item := p.parseExpr(js_ast.LComma)
				items = append(items, js_ast.Expr{Loc: dotsLoc, Data: &js_ast.ESpread{Value: item}})

			default:
				items = append(items, p.parseExpr(js_ast.LComma))
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		p.allowIn = oldAllowIn
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items, IsSingleLine: isSingleLine}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		properties := []js_ast.Property{}

		// Allow "in" inside object literals
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBrace {
			if p.lexer.Token == js_lexer.TDotDotDot {
				dotsLoc := p.lexer.Loc()
				p.lexer.Next()
				value := p.parseExpr(js_ast.LComma)
				properties = append(properties, js_ast.Property{
					Kind:       js_ast.PropertySpread,
					Loc:        dotsLoc,
					ValueOrNil: value,
				})
			} else {
				properties = append(properties, p.parseProperty(p.lexer.Loc(), js_ast.PropertyNormal, propertyOpts{}))
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		p.allowIn = oldAllowIn
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties, IsSingleLine: isSingleLine}}

	case js_lexer.TImport:
		p.lexer.Next()
		return p.parseImportExpr(loc)
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *parser) parseUnaryExpr(loc logger.Loc, op js_ast.OpCode) js_ast.Expr {
	p.lexer.Next()
	value := p.parseExpr(js_ast.LPrefix - 1)
	if p.lexer.Token == js_lexer.TAsteriskAsterisk {
		p.lexer.Unexpected()
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

func (p *parser) parseStringLiteral() js_ast.Expr {
	loc := p.lexer.Loc()
	var value js_ast.E
	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		value = &js_ast.ETemplate{
			HeadLoc:    loc,
			HeadCooked: p.lexer.StringLiteral,
			HeadRaw:    p.lexer.RawTemplateContents(),
		}
	} else {
		value = &js_ast.EString{Value: p.lexer.StringLiteral}
	}
	p.lexer.Next()
	return js_ast.Expr{Loc: loc, Data: value}
}

// This assumes the template head has not been consumed yet. It stops after
// the template tail.
func (p *parser) parseTemplateParts() (parts []js_ast.TemplatePart) {
	// Allow "in" inside template literals
	oldAllowIn := p.allowIn
	p.allowIn = true

	for {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		tailLoc := p.lexer.Loc()
		p.lexer.RescanCloseBraceAsTemplateToken()
		parts = append(parts, js_ast.TemplatePart{
			Value:      value,
			TailLoc:    tailLoc,
			TailCooked: p.lexer.StringLiteral,
			TailRaw:    p.lexer.RawTemplateContents(),
		})
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			break
		}
	}

	p.allowIn = oldAllowIn
	return parts
}

func (p *parser) parseYieldExpr(loc logger.Loc) js_ast.Expr {
	var valueOrNil js_ast.Expr
	isStar := false

	// "yield* x"
	if p.lexer.Token == js_lexer.TAsterisk && !p.lexer.HasNewlineBefore {
		isStar = true
		p.lexer.Next()
	}

	switch p.lexer.Token {
	case js_lexer.TCloseBrace, js_lexer.TCloseBracket, js_lexer.TCloseParen,
		js_lexer.TColon, js_lexer.TComma, js_lexer.TSemicolon, js_lexer.TEndOfFile:
		if isStar {
			p.lexer.Unexpected()
		}

	default:
		if isStar || !p.lexer.HasNewlineBefore {
			valueOrNil = p.parseExpr(js_ast.LYield)
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{ValueOrNil: valueOrNil, IsStar: isStar}}
}

// This assumes the "import" keyword has already been consumed
func (p *parser) parseImportExpr(loc logger.Loc) js_ast.Expr {
	// "import.meta"
	if p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("meta")
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
	}

	// Allow "in" inside call arguments
	oldAllowIn := p.allowIn
	p.allowIn = true

	p.lexer.Expect(js_lexer.TOpenParen)
	value := p.parseExpr(js_ast.LComma)
	p.lexer.Expect(js_lexer.TCloseParen)

	p.allowIn = oldAllowIn
	return js_ast.Expr{Loc: loc, Data: &js_ast.EImportCall{Expr: value}}
}

func (p *parser) parseFnExpr(loc logger.Loc, isAsync bool) js_ast.Expr {
	p.lexer.Expect(js_lexer.TFunction)
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	// The name is optional
	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	}

	fn := p.parseFn(name, fnOrArrowDataParse{
		await: awaitIf(isAsync),
		yield: awaitIf(isGenerator),
	})
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
}

// This assumes the "async" keyword has already been consumed
func (p *parser) parseAsyncPrefixExpr(asyncRange logger.Range, level js_ast.L) js_ast.Expr {
	// "async function() {}"
	if !p.lexer.HasNewlineBefore && p.lexer.Token == js_lexer.TFunction {
		return p.parseFnExpr(asyncRange.Loc, true /* isAsync */)
	}

	// Check the precedence level to avoid parsing an arrow function in
	// "new async () => {}". This also avoids parsing "new async()" as
	// "new (async())()" instead.
	if !p.lexer.HasNewlineBefore && level < js_ast.LMember {
		switch p.lexer.Token {
		// "async => {}"
		case js_lexer.TEqualsGreaterThan:
			if level <= js_ast.LAssign {
				arg := js_ast.Arg{Binding: js_ast.Binding{Loc: asyncRange.Loc, Data: &js_ast.BIdentifier{Name: "async"}}}
				arrow := p.parseArrowBody([]js_ast.Arg{arg}, fnOrArrowDataParse{})
				return js_ast.Expr{Loc: asyncRange.Loc, Data: arrow}
			}

		// "async x => {}"
		case js_lexer.TIdentifier:
			if level <= js_ast.LAssign {
				argLoc := p.lexer.Loc()
				argName := p.lexer.Identifier
				if argName == "await" {
					p.fail(p.lexer.Range(), "Cannot use \"await\" as an identifier here")
				}
				p.lexer.Next()
				if p.lexer.Token != js_lexer.TEqualsGreaterThan {
					p.lexer.Expected(js_lexer.TEqualsGreaterThan)
				}
				arg := js_ast.Arg{Binding: js_ast.Binding{Loc: argLoc, Data: &js_ast.BIdentifier{Name: argName}}}
				arrow := p.parseArrowBody([]js_ast.Arg{arg}, fnOrArrowDataParse{await: allowExpr})
				arrow.IsAsync = true
				return js_ast.Expr{Loc: asyncRange.Loc, Data: arrow}
			}

		// "async()"
		// "async () => {}"
		case js_lexer.TOpenParen:
			return p.parseParenExpr(asyncRange.Loc, level, parenExprOpts{asyncRange: asyncRange, isAsync: true})
		}
	}

	// "async"
	// "async + 1"
	return js_ast.Expr{Loc: asyncRange.Loc, Data: &js_ast.EIdentifier{Name: "async"}}
}

type parenExprOpts struct {
	asyncRange logger.Range
	isAsync    bool
}

// This assumes that the open parenthesis hasn't been consumed yet. It handles
// both parenthesized expressions and arrow function argument lists, which
// can't be told apart until the token after the closing parenthesis.
func (p *parser) parseParenExpr(loc logger.Loc, level js_ast.L, opts parenExprOpts) js_ast.Expr {
	items := []js_ast.Expr{}
	spreadRange := logger.Range{}
	commaAfterSpread := false

	p.lexer.Expect(js_lexer.TOpenParen)

	// Allow "in" inside parentheses
	oldAllowIn := p.allowIn
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseParen {
		itemLoc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot

		if isSpread {
			spreadRange = p.lexer.Range()
			p.lexer.Next()
		}

		item := p.parseExpr(js_ast.LComma)
		if isSpread {
			item = js_ast.Expr{Loc: itemLoc, Data: &js_ast.ESpread{Value: item}}
		}
		items = append(items, item)

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		if isSpread {
			commaAfterSpread = true
		}
		p.lexer.Next()
	}

	closeParenRange := p.lexer.Range()
	p.lexer.Expect(js_lexer.TCloseParen)
	p.allowIn = oldAllowIn

	// Are these arguments to an arrow function?
	if p.lexer.Token == js_lexer.TEqualsGreaterThan {
		if p.lexer.HasNewlineBefore {
			p.fail(p.lexer.Range(), "Unexpected newline before \"=>\"")
		}
		if level > js_ast.LAssign {
			p.lexer.Unexpected()
		}
		if commaAfterSpread {
			p.fail(spreadRange, "Unexpected \",\" after rest pattern")
		}

		args := []js_ast.Arg{}
		hasRestArg := false
		for _, item := range items {
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				item = spread.Value
				hasRestArg = true
			}
			binding, defaultOrNil := p.convertExprToBindingAndInitializer(item)
			if hasRestArg && defaultOrNil.Data != nil {
				p.fail(logger.Range{Loc: defaultOrNil.Loc}, "A rest argument cannot have a default value")
			}
			args = append(args, js_ast.Arg{Binding: binding, DefaultOrNil: defaultOrNil})
		}

		arrow := p.parseArrowBody(args, fnOrArrowDataParse{await: awaitIf(opts.isAsync)})
		arrow.IsAsync = opts.isAsync
		arrow.HasRestArg = hasRestArg
		return js_ast.Expr{Loc: loc, Data: arrow}
	}

	// If this isn't an arrow function, then types aren't allowed
	if opts.isAsync {
		async := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "async"}}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: async, Args: items}}
	}

	// Arrow function arguments aren't valid as an expression on their own
	if len(items) == 0 {
		p.fail(closeParenRange, "Unexpected \")\"")
	}
	if spreadRange.Len > 0 {
		p.fail(spreadRange, "Unexpected \"...\"")
	}

	return js_ast.JoinAllWithComma(items)
}

func (p *parser) convertExprToBindingAndInitializer(expr js_ast.Expr) (js_ast.Binding, js_ast.Expr) {
	var initializerOrNil js_ast.Expr
	if assign, ok := expr.Data.(*js_ast.EBinary); ok && assign.Op == js_ast.BinOpAssign {
		initializerOrNil = assign.Right
		expr = assign.Left
	}
	return p.convertExprToBinding(expr), initializerOrNil
}

func (p *parser) convertExprToBinding(expr js_ast.Expr) js_ast.Binding {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BMissing{}}

	case *js_ast.EIdentifier:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BIdentifier{Name: e.Name}}

	case *js_ast.EArray:
		items := []js_ast.ArrayBinding{}
		hasSpread := false
		for i, item := range e.Items {
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				if i+1 != len(e.Items) {
					p.fail(logger.Range{Loc: item.Loc, Len: 3}, "Unexpected \"...\"")
				}
				hasSpread = true
				item = spread.Value
			}
			binding, initializerOrNil := p.convertExprToBindingAndInitializer(item)
			items = append(items, js_ast.ArrayBinding{
				Binding:           binding,
				DefaultValueOrNil: initializerOrNil,
				Loc:               item.Loc,
			})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BArray{
			Items:        items,
			HasSpread:    hasSpread,
			IsSingleLine: e.IsSingleLine,
		}}

	case *js_ast.EObject:
		properties := []js_ast.PropertyBinding{}
		for _, property := range e.Properties {
			if property.IsMethod || property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet {
				p.fail(logger.Range{Loc: property.Key.Loc}, "Invalid binding pattern")
			}
			binding, initializerOrNil := p.convertExprToBindingAndInitializer(property.ValueOrNil)
			if initializerOrNil.Data == nil {
				initializerOrNil = property.InitializerOrNil
			}
			properties = append(properties, js_ast.PropertyBinding{
				Key:               property.Key,
				Value:             binding,
				DefaultValueOrNil: initializerOrNil,
				Loc:               property.Loc,
				IsComputed:        property.IsComputed,
				IsSpread:          property.Kind == js_ast.PropertySpread,
			})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BObject{
			Properties:   properties,
			IsSingleLine: e.IsSingleLine,
		}}
	}

	p.fail(logger.Range{Loc: expr.Loc}, "Invalid binding pattern")
	return js_ast.Binding{}
}

func (p *parser) parseArrowBody(args []js_ast.Arg, data fnOrArrowDataParse) *js_ast.EArrow {
	arrowLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)

	if p.lexer.Token == js_lexer.TOpenBrace {
		body := p.parseFnBody(data)
		p.afterArrowBodyLoc = p.lexer.Loc()
		return &js_ast.EArrow{Args: args, Body: body}
	}

	oldFnOrArrowData := p.fnOrArrowDataParse
	p.fnOrArrowDataParse = data
	expr := p.parseExpr(js_ast.LComma)
	p.fnOrArrowDataParse = oldFnOrArrowData

	return &js_ast.EArrow{
		Args:       args,
		PreferExpr: true,
		Body: js_ast.FnBody{Loc: arrowLoc, Stmts: []js_ast.Stmt{
			{Loc: expr.Loc, Data: &js_ast.SReturn{ValueOrNil: expr}},
		}},
	}
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	// Allow "in" inside call arguments
	oldAllowIn := p.allowIn
	p.allowIn = true

	args := []js_ast.Expr{}
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		loc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot
		if isSpread {
			p.lexer.Next()
		}
		arg := p.parseExpr(js_ast.LComma)
		if isSpread {
			arg = js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: arg}}
		}
		args = append(args, arg)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	p.allowIn = oldAllowIn
	return args
}

// Maps binary operator tokens to their operators. The precedence of each
// operator comes from "js_ast.OpTable".
var binaryOperators = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TComma:                             js_ast.BinOpComma,
	js_lexer.TPlus:                              js_ast.BinOpAdd,
	js_lexer.TMinus:                             js_ast.BinOpSub,
	js_lexer.TAsterisk:                          js_ast.BinOpMul,
	js_lexer.TSlash:                             js_ast.BinOpDiv,
	js_lexer.TPercent:                           js_ast.BinOpRem,
	js_lexer.TAsteriskAsterisk:                  js_ast.BinOpPow,
	js_lexer.TLessThan:                          js_ast.BinOpLt,
	js_lexer.TLessThanEquals:                    js_ast.BinOpLe,
	js_lexer.TGreaterThan:                       js_ast.BinOpGt,
	js_lexer.TGreaterThanEquals:                 js_ast.BinOpGe,
	js_lexer.TIn:                                js_ast.BinOpIn,
	js_lexer.TInstanceof:                        js_ast.BinOpInstanceof,
	js_lexer.TLessThanLessThan:                  js_ast.BinOpShl,
	js_lexer.TGreaterThanGreaterThan:            js_ast.BinOpShr,
	js_lexer.TGreaterThanGreaterThanGreaterThan: js_ast.BinOpUShr,
	js_lexer.TEqualsEquals:                      js_ast.BinOpLooseEq,
	js_lexer.TExclamationEquals:                 js_ast.BinOpLooseNe,
	js_lexer.TEqualsEqualsEquals:                js_ast.BinOpStrictEq,
	js_lexer.TExclamationEqualsEquals:           js_ast.BinOpStrictNe,
	js_lexer.TQuestionQuestion:                  js_ast.BinOpNullishCoalescing,
	js_lexer.TBarBar:                            js_ast.BinOpLogicalOr,
	js_lexer.TAmpersandAmpersand:                js_ast.BinOpLogicalAnd,
	js_lexer.TBar:                               js_ast.BinOpBitwiseOr,
	js_lexer.TAmpersand:                         js_ast.BinOpBitwiseAnd,
	js_lexer.TCaret:                             js_ast.BinOpBitwiseXor,

	js_lexer.TEquals:                                  js_ast.BinOpAssign,
	js_lexer.TPlusEquals:                              js_ast.BinOpAddAssign,
	js_lexer.TMinusEquals:                             js_ast.BinOpSubAssign,
	js_lexer.TAsteriskEquals:                          js_ast.BinOpMulAssign,
	js_lexer.TSlashEquals:                             js_ast.BinOpDivAssign,
	js_lexer.TPercentEquals:                           js_ast.BinOpRemAssign,
	js_lexer.TAsteriskAsteriskEquals:                  js_ast.BinOpPowAssign,
	js_lexer.TLessThanLessThanEquals:                  js_ast.BinOpShlAssign,
	js_lexer.TGreaterThanGreaterThanEquals:            js_ast.BinOpShrAssign,
	js_lexer.TGreaterThanGreaterThanGreaterThanEquals: js_ast.BinOpUShrAssign,
	js_lexer.TBarEquals:                               js_ast.BinOpBitwiseOrAssign,
	js_lexer.TAmpersandEquals:                         js_ast.BinOpBitwiseAndAssign,
	js_lexer.TCaretEquals:                             js_ast.BinOpBitwiseXorAssign,
	js_lexer.TQuestionQuestionEquals:                  js_ast.BinOpNullishCoalescingAssign,
	js_lexer.TBarBarEquals:                            js_ast.BinOpLogicalOrAssign,
	js_lexer.TAmpersandAmpersandEquals:                js_ast.BinOpLogicalAndAssign,
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.L) js_ast.Expr {
	optionalChain := js_ast.OptionalChainNone

	for {
		// An arrow function with a block body can only be followed by a comma
		if p.lexer.Loc() == p.afterArrowBodyLoc && (p.lexer.Token != js_lexer.TComma || level >= js_ast.LComma) {
			return left
		}

		// Each of these tokens are split into a case statement below. The
		// "optionalChain" variable is reset to none for every token except
		// the ones that continue an optional chain.
		oldOptionalChain := optionalChain
		optionalChain = js_ast.OptionalChainNone

		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			left = p.parseDotSuffix(left, oldOptionalChain)
			optionalChain = oldOptionalChain

		case js_lexer.TQuestionDot:
			p.lexer.Next()

			switch p.lexer.Token {
			case js_lexer.TOpenBracket:
				// "a?.[b]"
				p.lexer.Next()
				index := p.parseIndexExpr()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
					Target:        left,
					Index:         index,
					OptionalChain: js_ast.OptionalChainStart,
				}}

			case js_lexer.TOpenParen:
				// "a?.()"
				if level >= js_ast.LCall {
					return left
				}
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{
					Target:        left,
					Args:          p.parseCallArgs(),
					OptionalChain: js_ast.OptionalChainStart,
				}}

			case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
				p.fail(p.lexer.Range(), "Template literals cannot have an optional chain as a tag")

			default:
				// "a?.b"
				left = p.parseDotSuffix(left, js_ast.OptionalChainStart)
			}

			optionalChain = js_ast.OptionalChainContinue

		case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
			if oldOptionalChain != js_ast.OptionalChainNone {
				p.fail(p.lexer.Range(), "Template literals cannot have an optional chain as a tag")
			}
			headLoc := p.lexer.Loc()
			headCooked := p.lexer.StringLiteral
			headRaw := p.lexer.RawTemplateContents()
			var parts []js_ast.TemplatePart
			if p.lexer.Token == js_lexer.TTemplateHead {
				parts = p.parseTemplateParts()
			} else {
				p.lexer.Next()
			}
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ETemplate{
				TagOrNil:   left,
				HeadLoc:    headLoc,
				HeadCooked: headCooked,
				HeadRaw:    headRaw,
				Parts:      parts,
			}}

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			index := p.parseIndexExpr()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
				Target:        left,
				Index:         index,
				OptionalChain: oldOptionalChain,
			}}
			optionalChain = oldOptionalChain

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{
				Target:        left,
				Args:          p.parseCallArgs(),
				OptionalChain: oldOptionalChain,
			}}
			optionalChain = oldOptionalChain

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()

			// Allow "in" in between "?" and ":"
			oldAllowIn := p.allowIn
			p.allowIn = true

			yes := p.parseExpr(js_ast.LComma)

			p.allowIn = oldAllowIn

			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostDec, Value: left}}

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostInc, Value: left}}

		default:
			op, ok := binaryOperators[p.lexer.Token]
			if !ok {
				return left
			}
			opLevel := js_ast.OpTable[op].Level
			if level >= opLevel || (op == js_ast.BinOpIn && !p.allowIn) {
				return left
			}
			p.lexer.Next()

			// Assignments and "**" are right-associative
			rightLevel := opLevel
			if op.IsRightAssociative() {
				rightLevel = opLevel - 1
			}
			right := p.parseExpr(rightLevel)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
		}
	}
}

func (p *parser) parseDotSuffix(left js_ast.Expr, optionalChain js_ast.OptionalChain) js_ast.Expr {
	// "a.#b"
	if p.lexer.Token == js_lexer.TPrivateIdentifier {
		index := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()
		return js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
			Target:        left,
			Index:         index,
			OptionalChain: optionalChain,
		}}
	}

	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}
	name := p.lexer.Identifier
	nameLoc := p.lexer.Loc()
	p.lexer.Next()
	return js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{
		Target:        left,
		Name:          name,
		NameLoc:       nameLoc,
		OptionalChain: optionalChain,
	}}
}

// This assumes the "[" has already been consumed. It consumes the "]".
func (p *parser) parseIndexExpr() js_ast.Expr {
	// Allow "in" inside the brackets
	oldAllowIn := p.allowIn
	p.allowIn = true

	index := p.parseExpr(js_ast.LLowest)

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseBracket)
	return index
}
