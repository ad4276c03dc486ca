package js_parser

import (
	"fmt"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_lexer"
	"github.com/disposejs/dispose/internal/logger"
)

// This parser does a single pass over the token stream and produces a syntax
// tree. Unlike a bundler's parser it does not declare symbols or resolve
// scopes; the binder in "js_scope" does that afterward because the rewrite
// passes need to rebuild scopes many times while they edit the tree.
//
// Leading comments are preserved on the nodes that follow them. This matters
// because annotations such as "#__PURE__" and "#__DISPOSE__" are written as
// comments and must survive until the passes read them.
type parser struct {
	options            Options
	log                logger.Log
	source             logger.Source
	lexer              js_lexer.Lexer
	fnOrArrowDataParse fnOrArrowDataParse
	afterArrowBodyLoc  logger.Loc
	allowIn            bool
}

type Options struct {
	// Allows "return" at the top level, which is what CommonJS wrappers do
	AllowReturnOutsideFunction bool
}

type awaitOrYield uint8

const (
	// The keyword is used as an identifier, not a special expression
	allowIdent awaitOrYield = iota

	// Declaring the identifier as a special expression is allowed
	allowExpr
)

// This is function-specific information used during parsing. It is saved and
// restored on the call stack around code that parses nested functions and
// arrow expressions.
type fnOrArrowDataParse struct {
	await              awaitOrYield
	yield              awaitOrYield
	isReturnDisallowed bool
}

func awaitIf(isAsync bool) awaitOrYield {
	if isAsync {
		return allowExpr
	}
	return allowIdent
}

type lexicalDecl uint8

const (
	lexicalDeclForbid lexicalDecl = iota
	lexicalDeclAllowAll
	lexicalDeclAllowFnInsideIf
	lexicalDeclAllowFnInsideLabel
)

type parseStmtOpts struct {
	lexicalDecl            lexicalDecl
	isModuleScope          bool
	isExport               bool
	isNameOptional         bool // For "export default" pseudo-statements
	allowDirectivePrologue bool
}

func Parse(log logger.Log, source logger.Source, options Options) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		options:           options,
		log:               log,
		source:            source,
		allowIn:           true,
		afterArrowBodyLoc: logger.Loc{Start: -1},

		// Top-level "await" is allowed because the input may be a module
		fnOrArrowDataParse: fnOrArrowDataParse{
			await:              allowExpr,
			isReturnDisallowed: !options.AllowReturnOutsideFunction,
		},
	}
	p.lexer = js_lexer.NewLexer(log, source)

	// Strip off the hashbang comment
	if p.lexer.Token == js_lexer.THashbang {
		result.Hashbang = p.lexer.Identifier
		p.lexer.Next()
	}

	result.Stmts = p.parseStmtsUpTo(js_lexer.TEndOfFile, parseStmtOpts{
		isModuleScope:          true,
		allowDirectivePrologue: true,
	})
	return
}

func (p *parser) fail(r logger.Range, text string) {
	p.log.AddRangeError(&p.source, r, text)
	panic(js_lexer.LexerPanic{})
}

func prependComments(comments []js_ast.Comment, existing []js_ast.Comment) []js_ast.Comment {
	if len(existing) == 0 {
		return comments
	}
	result := make([]js_ast.Comment, 0, len(comments)+len(existing))
	result = append(result, comments...)
	return append(result, existing...)
}

func (p *parser) parseStmtsUpTo(end js_lexer.T, opts parseStmtOpts) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	isDirectivePrologue := opts.allowDirectivePrologue
	opts.allowDirectivePrologue = false
	opts.lexicalDecl = lexicalDeclAllowAll

	for {
		if p.lexer.Token == end {
			// Comments with nothing after them are kept as standalone statements
			for _, comment := range p.lexer.CommentsBefore {
				stmts = append(stmts, js_ast.Stmt{Loc: comment.Loc, Data: &js_ast.SComment{Text: comment.Text}})
			}
			break
		}

		stmt := p.parseStmt(opts)

		// Parse one or more directives at the beginning
		if isDirectivePrologue {
			isDirectivePrologue = false
			if s, ok := stmt.Data.(*js_ast.SExpr); ok && s.Value.Loc == stmt.Loc {
				if str, ok := s.Value.Data.(*js_ast.EString); ok {
					stmt.Comments = prependComments(s.Value.Comments, stmt.Comments)
					stmt.Data = &js_ast.SDirective{Value: str.Value}
					isDirectivePrologue = true
				}
			}
		}

		stmts = append(stmts, stmt)
	}

	return stmts
}

func (p *parser) parseStmt(opts parseStmtOpts) js_ast.Stmt {
	comments := p.lexer.CommentsBefore
	stmt := p.parseStmtWithoutComments(opts)

	// Comments before an expression statement were already given to the expression
	if len(comments) > 0 {
		if _, ok := stmt.Data.(*js_ast.SExpr); !ok {
			stmt.Comments = prependComments(comments, stmt.Comments)
		}
	}
	return stmt
}

func (p *parser) forbidLexicalDecl(loc logger.Loc) {
	p.fail(logger.Range{Loc: loc}, "Cannot use a declaration in a single-statement context")
}

func (p *parser) parseStmtWithoutComments(opts parseStmtOpts) js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TExport:
		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}
		return p.parseExportStmt(loc, opts)

	case js_lexer.TFunction:
		return p.parseFnStmt(loc, opts, false /* isAsync */)

	case js_lexer.TClass:
		if opts.lexicalDecl != lexicalDeclAllowAll {
			p.forbidLexicalDecl(loc)
		}
		return p.parseClassStmt(loc, opts)

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseDecls()
		p.requireInitializers(js_ast.LocalVar, decls)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TConst:
		if opts.lexicalDecl != lexicalDeclAllowAll {
			p.forbidLexicalDecl(loc)
		}
		p.lexer.Next()
		decls := p.parseDecls()
		p.requireInitializers(js_ast.LocalConst, decls)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt(parseStmtOpts{lexicalDecl: lexicalDeclAllowFnInsideIf})
		var noOrNil js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			noOrNil = p.parseStmt(parseStmtOpts{lexicalDecl: lexicalDeclAllowFnInsideIf})
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, NoOrNil: noOrNil}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt(parseStmtOpts{})
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)

		// This is a weird corner case where automatic semicolon insertion applies
		// even without a newline present
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TWith:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWith{Value: value, Body: body}}

	case js_lexer.TSwitch:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)

		bodyLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TOpenBrace)
		cases := []js_ast.Case{}
		foundDefault := false

		for p.lexer.Token != js_lexer.TCloseBrace {
			var value js_ast.Expr
			body := []js_ast.Stmt{}
			caseLoc := p.lexer.Loc()

			if p.lexer.Token == js_lexer.TDefault {
				if foundDefault {
					p.fail(p.lexer.Range(), "Multiple default clauses are not allowed")
				}
				foundDefault = true
				p.lexer.Next()
				p.lexer.Expect(js_lexer.TColon)
			} else {
				p.lexer.Expect(js_lexer.TCase)
				value = p.parseExpr(js_ast.LLowest)
				p.lexer.Expect(js_lexer.TColon)
			}

		caseBody:
			for {
				switch p.lexer.Token {
				case js_lexer.TCloseBrace, js_lexer.TCase, js_lexer.TDefault:
					break caseBody

				default:
					body = append(body, p.parseStmt(parseStmtOpts{lexicalDecl: lexicalDeclAllowAll}))
				}
			}

			cases = append(cases, js_ast.Case{Loc: caseLoc, ValueOrNil: value, Body: body})
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{Test: test, BodyLoc: bodyLoc, Cases: cases}}

	case js_lexer.TTry:
		p.lexer.Next()
		block := p.parseBlock()
		var catch *js_ast.Catch
		var finally *js_ast.Finally

		if p.lexer.Token == js_lexer.TCatch {
			catchLoc := p.lexer.Loc()
			p.lexer.Next()
			var bindingOrNil js_ast.Binding

			// The catch binding is optional, and can be omitted
			if p.lexer.Token == js_lexer.TOpenParen {
				p.lexer.Next()
				bindingOrNil = p.parseBinding()
				p.lexer.Expect(js_lexer.TCloseParen)
			}

			catch = &js_ast.Catch{Loc: catchLoc, BindingOrNil: bindingOrNil, Block: p.parseBlock()}
		}

		if p.lexer.Token == js_lexer.TFinally || catch == nil {
			finallyLoc := p.lexer.Loc()
			p.lexer.Expect(js_lexer.TFinally)
			finally = &js_ast.Finally{Loc: finallyLoc, Block: p.parseBlock()}
		}

		return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{Block: block, Catch: catch, Finally: finally}}

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TImport:
		comments := p.lexer.CommentsBefore
		p.lexer.Next()

		// "import('path')"
		// "import.meta"
		if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TDot {
			expr := p.parseSuffixWithComments(p.parseImportExpr(loc), comments, js_ast.LLowest)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
		}

		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}
		return p.parseImportStmt(loc)

	case js_lexer.TBreak:
		p.lexer.Next()
		label := p.parseLabelName()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: label}}

	case js_lexer.TContinue:
		p.lexer.Next()
		label := p.parseLabelName()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: label}}

	case js_lexer.TReturn:
		if p.fnOrArrowDataParse.isReturnDisallowed {
			p.fail(p.lexer.Range(), "A return statement cannot be used here")
		}
		p.lexer.Next()
		var value js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon &&
			!p.lexer.HasNewlineBefore &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile {
			value = p.parseExpr(js_ast.LLowest)
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.fail(logger.Range{Loc: logger.Loc{Start: loc.Start + 5}}, "Unexpected newline after \"throw\"")
		}
		expr := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: expr}}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case js_lexer.TOpenBrace:
		return p.parseBlock()

	default:
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		name := p.lexer.Identifier
		raw := p.lexer.Raw()
		comments := p.lexer.CommentsBefore
		var expr js_ast.Expr

		switch {
		case isIdentifier && raw == "async":
			asyncRange := p.lexer.Range()
			p.lexer.Next()

			// "async function foo() {}"
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				return p.parseFnStmt(asyncRange.Loc, opts, true /* isAsync */)
			}

			expr = p.parseSuffixWithComments(p.parseAsyncPrefixExpr(asyncRange, js_ast.LLowest), comments, js_ast.LLowest)

		case isIdentifier && raw == "let":
			letRange := p.lexer.Range()
			p.lexer.Next()

			switch p.lexer.Token {
			case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
				if opts.lexicalDecl == lexicalDeclAllowAll || !p.lexer.HasNewlineBefore || p.lexer.Token == js_lexer.TOpenBracket {
					if opts.lexicalDecl != lexicalDeclAllowAll {
						p.forbidLexicalDecl(letRange.Loc)
					}
					decls := p.parseDecls()
					p.requireInitializers(js_ast.LocalLet, decls)
					p.lexer.ExpectOrInsertSemicolon()
					return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls, IsExport: opts.isExport}}
				}
			}

			// "let" is an identifier here
			ident := js_ast.Expr{Loc: letRange.Loc, Data: &js_ast.EIdentifier{Name: "let"}}
			expr = p.parseSuffixWithComments(ident, comments, js_ast.LLowest)

		default:
			expr = p.parseExpr(js_ast.LLowest)
		}

		if isIdentifier {
			if ident, ok := expr.Data.(*js_ast.EIdentifier); ok && ident.Name == name && p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()

				// Parse a labeled statement
				nestedOpts := parseStmtOpts{}
				if opts.lexicalDecl == lexicalDeclAllowAll || opts.lexicalDecl == lexicalDeclAllowFnInsideLabel {
					nestedOpts.lexicalDecl = lexicalDeclAllowFnInsideLabel
				}
				stmt := p.parseStmt(nestedOpts)
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: js_ast.LocName{Loc: expr.Loc, Name: name}, Stmt: stmt}}
			}
		}

		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}
}

func (p *parser) parseBlock() js_ast.Stmt {
	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{})
	p.lexer.Next()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}
}

func (p *parser) parseLabelName() *js_ast.LocName {
	if p.lexer.Token != js_lexer.TIdentifier || p.lexer.HasNewlineBefore {
		return nil
	}

	name := &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
	p.lexer.Next()
	return name
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	// "for await (let x of y) {}"
	isForAwait := p.lexer.IsContextualKeyword("await")
	if isForAwait {
		awaitRange := p.lexer.Range()
		if p.fnOrArrowDataParse.await != allowExpr {
			p.fail(awaitRange, "Cannot use \"await\" outside an async function")
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TOpenParen)

	var initOrNil js_ast.Stmt
	var testOrNil js_ast.Expr
	var updateOrNil js_ast.Expr

	// "in" expressions aren't allowed here
	p.allowIn = false

	initLoc := p.lexer.Loc()
	isConst := false
	var decls []js_ast.Decl

	switch p.lexer.Token {
	case js_lexer.TVar:
		p.lexer.Next()
		decls = p.parseDecls()
		initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TConst:
		p.lexer.Next()
		isConst = true
		decls = p.parseDecls()
		initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}

	case js_lexer.TSemicolon:

	default:
		comments := p.lexer.CommentsBefore
		if p.lexer.IsContextualKeyword("let") {
			letRange := p.lexer.Range()
			p.lexer.Next()

			switch p.lexer.Token {
			case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
				decls = p.parseDecls()
				initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}

			default:
				ident := js_ast.Expr{Loc: letRange.Loc, Data: &js_ast.EIdentifier{Name: "let"}}
				expr := p.parseSuffixWithComments(ident, comments, js_ast.LLowest)
				initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: expr}}
			}
		} else {
			expr := p.parseExpr(js_ast.LLowest)
			initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: expr}}
		}
	}

	// "in" expressions are allowed again
	p.allowIn = true

	// Detect for-of loops
	if p.lexer.IsContextualKeyword("of") || isForAwait {
		if isForAwait && !p.lexer.IsContextualKeyword("of") {
			p.lexer.ExpectedString("\"of\"")
		}
		p.forbidInitializers(decls, "of")
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{IsAwait: isForAwait, Init: initOrNil, Value: value, Body: body}}
	}

	// Detect for-in loops
	if p.lexer.Token == js_lexer.TIn {
		p.forbidInitializers(decls, "in")
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: initOrNil, Value: value, Body: body}}
	}

	// Only require "const" statement initializers when we know we're a normal for loop
	if isConst {
		p.requireInitializers(js_ast.LocalConst, decls)
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TSemicolon {
		testOrNil = p.parseExpr(js_ast.LLowest)
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TCloseParen {
		updateOrNil = p.parseExpr(js_ast.LLowest)
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	body := p.parseStmt(parseStmtOpts{})
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{
		InitOrNil:   initOrNil,
		TestOrNil:   testOrNil,
		UpdateOrNil: updateOrNil,
		Body:        body,
	}}
}

func (p *parser) forbidInitializers(decls []js_ast.Decl, loopType string) {
	if len(decls) > 1 {
		p.fail(logger.Range{Loc: decls[0].Binding.Loc}, fmt.Sprintf("for-%s loops must have a single declaration", loopType))
	}
	if len(decls) == 1 && decls[0].ValueOrNil.Data != nil {
		p.fail(logger.Range{Loc: decls[0].ValueOrNil.Loc}, fmt.Sprintf("for-%s loop variables cannot have an initializer", loopType))
	}
}

func (p *parser) requireInitializers(kind js_ast.LocalKind, decls []js_ast.Decl) {
	for _, d := range decls {
		if d.ValueOrNil.Data != nil {
			continue
		}
		if id, ok := d.Binding.Data.(*js_ast.BIdentifier); ok {
			if kind == js_ast.LocalConst {
				p.fail(p.source.RangeOfIdentifier(d.Binding.Loc), fmt.Sprintf("The constant %q must be initialized", id.Name))
			}
		} else {
			p.fail(logger.Range{Loc: d.Binding.Loc}, "This destructuring pattern must be initialized")
		}
	}
}

func (p *parser) parseDecls() []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		local := p.parseBinding()
		var valueOrNil js_ast.Expr

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			valueOrNil = p.parseExpr(js_ast.LComma)
		}

		decls = append(decls, js_ast.Decl{Binding: local, ValueOrNil: valueOrNil})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		if (p.fnOrArrowDataParse.await == allowExpr && name == "await") ||
			(p.fnOrArrowDataParse.yield == allowExpr && name == "yield") {
			p.fail(p.lexer.Range(), fmt.Sprintf("Cannot use %q as an identifier here", name))
		}
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		items := []js_ast.ArrayBinding{}
		hasSpread := false

		// "in" expressions are allowed
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			itemLoc := p.lexer.Loc()

			if p.lexer.Token == js_lexer.TComma {
				binding := js_ast.Binding{Loc: itemLoc, Data: &js_ast.BMissing{}}
				items = append(items, js_ast.ArrayBinding{Binding: binding, Loc: itemLoc})
			} else {
				if p.lexer.Token == js_lexer.TDotDotDot {
					p.lexer.Next()
					hasSpread = true
				}

				binding := p.parseBinding()

				var defaultValueOrNil js_ast.Expr
				if !hasSpread && p.lexer.Token == js_lexer.TEquals {
					p.lexer.Next()
					defaultValueOrNil = p.parseExpr(js_ast.LComma)
				}

				items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValueOrNil: defaultValueOrNil, Loc: itemLoc})

				// Commas after spread elements are not allowed
				if hasSpread && p.lexer.Token == js_lexer.TComma {
					p.fail(p.lexer.Range(), "Unexpected \",\" after rest pattern")
				}
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		p.allowIn = oldAllowIn

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{
			Items:        items,
			HasSpread:    hasSpread,
			IsSingleLine: isSingleLine,
		}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		properties := []js_ast.PropertyBinding{}

		// "in" expressions are allowed
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding()
			properties = append(properties, property)

			// Commas after spread elements are not allowed
			if property.IsSpread && p.lexer.Token == js_lexer.TComma {
				p.fail(p.lexer.Range(), "Unexpected \",\" after rest pattern")
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		p.allowIn = oldAllowIn

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{
			Properties:   properties,
			IsSingleLine: isSingleLine,
		}}
	}

	p.lexer.Expect(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	var key js_ast.Expr
	var defaultValueOrNil js_ast.Expr
	loc := p.lexer.Loc()
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TDotDotDot:
		p.lexer.Next()
		value := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Expect(js_lexer.TIdentifier)
		return js_ast.PropertyBinding{
			Loc:      loc,
			IsSpread: true,
			Value:    value,
		}

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		name := p.lexer.Identifier
		nameRange := p.lexer.Range()
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()
		key = js_ast.Expr{Loc: nameRange.Loc, Data: &js_ast.EString{Value: helpers.StringToUTF16(name)}}

		if p.lexer.Token != js_lexer.TColon && p.lexer.Token != js_lexer.TOpenParen {
			// Shorthand properties must be plain identifiers
			if !isIdentifier {
				p.fail(nameRange, fmt.Sprintf("Expected identifier but found %q", name))
			}

			value := js_ast.Binding{Loc: nameRange.Loc, Data: &js_ast.BIdentifier{Name: name}}

			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				defaultValueOrNil = p.parseExpr(js_ast.LComma)
			}

			return js_ast.PropertyBinding{
				Key:               key,
				Value:             value,
				DefaultValueOrNil: defaultValueOrNil,
				Loc:               loc,
			}
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseBinding()

	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		defaultValueOrNil = p.parseExpr(js_ast.LComma)
	}

	return js_ast.PropertyBinding{
		IsComputed:        isComputed,
		Key:               key,
		Value:             value,
		DefaultValueOrNil: defaultValueOrNil,
		Loc:               loc,
	}
}

func (p *parser) parseFnStmt(loc logger.Loc, opts parseStmtOpts, isAsync bool) js_ast.Stmt {
	p.lexer.Expect(js_lexer.TFunction)
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	var name *js_ast.LocName

	// The name is optional for "export default function() {}" pseudo-statements
	if !opts.isNameOptional || p.lexer.Token != js_lexer.TOpenParen {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	fn := p.parseFn(name, fnOrArrowDataParse{
		await: awaitIf(isAsync),
		yield: awaitIf(isGenerator),
	})
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: opts.isExport}}
}

func (p *parser) parseFn(name *js_ast.LocName, data fnOrArrowDataParse) js_ast.Fn {
	fn := js_ast.Fn{
		Name:         name,
		OpenParenLoc: p.lexer.Loc(),
		IsAsync:      data.await == allowExpr,
		IsGenerator:  data.yield == allowExpr,
	}

	// Default values are evaluated in the function's own context
	oldFnOrArrowData := p.fnOrArrowDataParse
	p.fnOrArrowDataParse = data

	p.lexer.Expect(js_lexer.TOpenParen)
	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			fn.HasRestArg = true
		}

		arg := p.parseBinding()

		var defaultOrNil js_ast.Expr
		if !fn.HasRestArg && p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			defaultOrNil = p.parseExpr(js_ast.LComma)
		}

		fn.Args = append(fn.Args, js_ast.Arg{Binding: arg, DefaultOrNil: defaultOrNil})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		if fn.HasRestArg {
			// JavaScript does not allow a comma after a rest argument
			p.lexer.Expected(js_lexer.TCloseParen)
		}
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TCloseParen)

	p.fnOrArrowDataParse = oldFnOrArrowData
	fn.Body = p.parseFnBody(data)
	return fn
}

func (p *parser) parseFnBody(data fnOrArrowDataParse) js_ast.FnBody {
	oldFnOrArrowData := p.fnOrArrowDataParse
	oldAllowIn := p.allowIn
	p.fnOrArrowDataParse = data
	p.allowIn = true

	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowDirectivePrologue: true})
	p.lexer.Next()

	p.allowIn = oldAllowIn
	p.fnOrArrowDataParse = oldFnOrArrowData
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

func (p *parser) parseClassStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Expect(js_lexer.TClass)

	var name *js_ast.LocName
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	class := p.parseClass(name)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: opts.isExport}}
}

func (p *parser) parseClass(name *js_ast.LocName) js_ast.Class {
	var extendsOrNil js_ast.Expr

	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		extendsOrNil = p.parseExpr(js_ast.LNew)
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	properties := []js_ast.Property{}

	// Allow "in" inside class bodies
	oldAllowIn := p.allowIn
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}

		properties = append(properties, p.parseProperty(p.lexer.Loc(), js_ast.PropertyNormal, propertyOpts{isClass: true}))
	}

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseBrace)
	return js_ast.Class{
		Name:         name,
		ExtendsOrNil: extendsOrNil,
		BodyLoc:      bodyLoc,
		Properties:   properties,
	}
}

type propertyOpts struct {
	asyncRange  logger.Range
	isAsync     bool
	isGenerator bool
	isClass     bool
	isStatic    bool
}

func (p *parser) parseProperty(startLoc logger.Loc, kind js_ast.PropertyKind, opts propertyOpts) js_ast.Property {
	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TPrivateIdentifier:
		if !opts.isClass {
			p.fail(p.lexer.Range(), fmt.Sprintf("Private field %q can only be declared inside a class", p.lexer.Identifier))
		}
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	case js_lexer.TAsterisk:
		if kind != js_ast.PropertyNormal || opts.isGenerator {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		opts.isGenerator = true
		return p.parseProperty(startLoc, js_ast.PropertyNormal, opts)

	default:
		name := p.lexer.Identifier
		raw := p.lexer.Raw()
		nameRange := p.lexer.Range()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		// Support contextual keywords
		if kind == js_ast.PropertyNormal && !opts.isGenerator && !opts.isAsync && raw == name {
			// Does the following token look like a key?
			couldBeModifierKeyword := p.lexer.IsIdentifierOrKeyword()
			if !couldBeModifierKeyword {
				switch p.lexer.Token {
				case js_lexer.TOpenBracket, js_lexer.TNumericLiteral, js_lexer.TStringLiteral,
					js_lexer.TAsterisk, js_lexer.TPrivateIdentifier, js_lexer.TBigIntegerLiteral:
					couldBeModifierKeyword = true
				}
			}

			// If so, check for a modifier keyword
			if couldBeModifierKeyword {
				switch name {
				case "get":
					return p.parseProperty(startLoc, js_ast.PropertyGet, opts)

				case "set":
					return p.parseProperty(startLoc, js_ast.PropertySet, opts)

				case "async":
					if !p.lexer.HasNewlineBefore {
						opts.isAsync = true
						opts.asyncRange = nameRange
						return p.parseProperty(startLoc, kind, opts)
					}

				case "static":
					if opts.isClass && !opts.isStatic {
						opts.isStatic = true
						return p.parseProperty(startLoc, kind, opts)
					}
				}
			} else if opts.isClass && !opts.isStatic && name == "static" && p.lexer.Token == js_lexer.TOpenBrace {
				p.fail(nameRange, "Class static blocks are not supported")
			}
		}

		key = js_ast.Expr{Loc: nameRange.Loc, Data: &js_ast.EString{Value: helpers.StringToUTF16(name)}}

		// Parse a shorthand property
		if !opts.isClass && kind == js_ast.PropertyNormal && p.lexer.Token != js_lexer.TColon &&
			p.lexer.Token != js_lexer.TOpenParen && !opts.isGenerator && !opts.isAsync {
			if js_lexer.Keywords[name] != 0 || raw != name {
				p.fail(nameRange, fmt.Sprintf("Expected identifier but found %q", raw))
			}

			value := js_ast.Expr{Loc: key.Loc, Data: &js_ast.EIdentifier{Name: name}}

			// Destructuring patterns have an optional default value
			var initializerOrNil js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				initializerOrNil = p.parseExpr(js_ast.LComma)
			}

			return js_ast.Property{
				Key:              key,
				ValueOrNil:       value,
				InitializerOrNil: initializerOrNil,
				Loc:              startLoc,
				WasShorthand:     true,
			}
		}
	}

	// Parse a class field with an optional initial value
	if opts.isClass && kind == js_ast.PropertyNormal && !opts.isAsync && !opts.isGenerator && p.lexer.Token != js_lexer.TOpenParen {
		var initializerOrNil js_ast.Expr

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()

			// "await" and "yield" are never expressions inside a field initializer
			oldFnOrArrowData := p.fnOrArrowDataParse
			p.fnOrArrowDataParse = fnOrArrowDataParse{isReturnDisallowed: true}
			initializerOrNil = p.parseExpr(js_ast.LComma)
			p.fnOrArrowDataParse = oldFnOrArrowData
		}

		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Property{
			Key:              key,
			InitializerOrNil: initializerOrNil,
			Loc:              startLoc,
			IsComputed:       isComputed,
			IsStatic:         opts.isStatic,
		}
	}

	// Parse a method expression
	if p.lexer.Token == js_lexer.TOpenParen || kind != js_ast.PropertyNormal || opts.isClass || opts.isAsync || opts.isGenerator {
		loc := p.lexer.Loc()
		fn := p.parseFn(nil, fnOrArrowDataParse{
			await: awaitIf(opts.isAsync),
			yield: awaitIf(opts.isGenerator),
		})

		// Enforce argument rules for accessors
		switch kind {
		case js_ast.PropertyGet:
			if len(fn.Args) > 0 {
				p.fail(logger.Range{Loc: fn.Args[0].Binding.Loc}, "Getter must not have any arguments")
			}

		case js_ast.PropertySet:
			if len(fn.Args) != 1 || fn.HasRestArg {
				p.fail(logger.Range{Loc: fn.OpenParenLoc}, "Setter must have exactly one argument")
			}
		}

		return js_ast.Property{
			Kind:       kind,
			Key:        key,
			ValueOrNil: js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}},
			Loc:        startLoc,
			IsComputed: isComputed,
			IsMethod:   true,
			IsStatic:   opts.isStatic,
		}
	}

	// Parse an object key/value pair
	p.lexer.Expect(js_lexer.TColon)
	value := p.parseExpr(js_ast.LComma)
	return js_ast.Property{
		Kind:       kind,
		Key:        key,
		ValueOrNil: value,
		Loc:        startLoc,
		IsComputed: isComputed,
	}
}

func (p *parser) parsePath() []uint16 {
	if p.lexer.Token != js_lexer.TStringLiteral && p.lexer.Token != js_lexer.TNoSubstitutionTemplateLiteral {
		p.lexer.Expected(js_lexer.TStringLiteral)
	}
	path := p.lexer.StringLiteral
	p.lexer.Next()
	return path
}

// This assumes the "import" keyword has already been consumed
func (p *parser) parseImportStmt(loc logger.Loc) js_ast.Stmt {
	stmt := js_ast.SImport{}

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		// "import 'path'"

	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("as")
		stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TOpenBrace:
		// "import {item1, item2} from 'path'"
		items, isSingleLine := p.parseImportClause()
		stmt.Items = &items
		stmt.IsSingleLine = isSingleLine
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TIdentifier:
		// "import defaultItem from 'path'"
		// "import defaultItem, * as ns from 'path'"
		// "import defaultItem, {item1, item2} from 'path'"
		stmt.DefaultName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()

			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				p.lexer.Next()
				p.lexer.ExpectContextualKeyword("as")
				stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
				p.lexer.Expect(js_lexer.TIdentifier)

			case js_lexer.TOpenBrace:
				items, isSingleLine := p.parseImportClause()
				stmt.Items = &items
				stmt.IsSingleLine = isSingleLine

			default:
				p.lexer.Unexpected()
			}
		}

		p.lexer.ExpectContextualKeyword("from")

	default:
		p.lexer.Unexpected()
	}

	stmt.Path = p.parsePath()
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &stmt}
}

func (p *parser) parseClauseAlias(kind string) string {
	loc := p.lexer.Loc()

	// The alias may now be a string (see https://github.com/tc39/ecma262/pull/2154)
	if p.lexer.Token == js_lexer.TStringLiteral {
		alias := helpers.UTF16ToString(p.lexer.StringLiteral)
		if !helpers.UTF16EqualsString(p.lexer.StringLiteral, alias) {
			p.fail(p.source.RangeOfString(loc), fmt.Sprintf("This %s alias is invalid because it contains the unpaired Unicode surrogate", kind))
		}
		return alias
	}

	// The alias may be a keyword
	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	return p.lexer.Identifier
}

func (p *parser) parseImportClause() ([]js_ast.ClauseItem, bool) {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)
	isSingleLine := !p.lexer.HasNewlineBefore

	for p.lexer.Token != js_lexer.TCloseBrace {
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		aliasLoc := p.lexer.Loc()
		alias := p.parseClauseAlias("import")
		name := js_ast.LocName{Loc: aliasLoc, Name: alias}
		p.lexer.Next()

		// "import { imported as local } from 'path'"
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			name = js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Expect(js_lexer.TIdentifier)
		} else if !isIdentifier {
			// An import where the name is a keyword must have an alias
			p.lexer.ExpectedString("\"as\"")
		}

		items = append(items, js_ast.ClauseItem{
			Alias:        alias,
			AliasLoc:     aliasLoc,
			Name:         name,
			OriginalName: name.Name,
		})

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
	return items, isSingleLine
}

func (p *parser) parseExportClause() ([]js_ast.ClauseItem, bool) {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)
	isSingleLine := !p.lexer.HasNewlineBefore

	for p.lexer.Token != js_lexer.TCloseBrace {
		nameLoc := p.lexer.Loc()
		local := p.parseClauseAlias("export")
		alias := local
		aliasLoc := nameLoc
		p.lexer.Next()

		// "export { local as exported }"
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			alias = p.parseClauseAlias("export")
			aliasLoc = p.lexer.Loc()
			p.lexer.Next()
		}

		items = append(items, js_ast.ClauseItem{
			Alias:        alias,
			AliasLoc:     aliasLoc,
			Name:         js_ast.LocName{Loc: nameLoc, Name: local},
			OriginalName: local,
		})

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
	return items, isSingleLine
}

func (p *parser) parseExportStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TClass, js_lexer.TConst, js_lexer.TFunction, js_lexer.TVar:
		opts.isExport = true
		return p.parseStmt(opts)

	case js_lexer.TIdentifier:
		if p.lexer.IsContextualKeyword("let") {
			opts.isExport = true
			return p.parseStmt(opts)
		}

		if p.lexer.IsContextualKeyword("async") {
			// "export async function foo() {}"
			asyncRange := p.lexer.Range()
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				p.fail(logger.Range{Loc: logger.Loc{Start: asyncRange.End()}}, "Unexpected newline after \"async\"")
			}
			opts.isExport = true
			return p.parseFnStmt(loc, opts, true /* isAsync */)
		}

		p.lexer.Unexpected()
		return js_ast.Stmt{}

	case js_lexer.TDefault:
		p.lexer.Next()
		comments := p.lexer.CommentsBefore

		// "export default async function() {}"
		// "export default async function foo() {}"
		if p.lexer.IsContextualKeyword("async") {
			asyncRange := p.lexer.Range()
			p.lexer.Next()

			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				stmt := p.parseFnStmt(asyncRange.Loc, parseStmtOpts{isNameOptional: true}, true /* isAsync */)
				stmt.Comments = comments
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: stmt}}
			}

			expr := p.parseSuffixWithComments(p.parseAsyncPrefixExpr(asyncRange, js_ast.LComma), comments, js_ast.LComma)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SExpr{Value: expr}}}}
		}

		// "export default class {}"
		// "export default function() {}"
		if p.lexer.Token == js_lexer.TFunction || p.lexer.Token == js_lexer.TClass {
			stmt := p.parseStmt(parseStmtOpts{isNameOptional: true, lexicalDecl: lexicalDeclAllowAll})
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: stmt}}
		}

		// "export default a, b" is a syntax error
		expr := p.parseExpr(js_ast.LComma)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SExpr{Value: expr}}}}

	case js_lexer.TAsterisk:
		// "export * from 'path'"
		// "export * as ns from 'path'"
		p.lexer.Next()
		var alias *js_ast.LocName

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			alias = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.parseClauseAlias("export")}
			p.lexer.Next()
		}

		p.lexer.ExpectContextualKeyword("from")
		path := p.parsePath()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, Path: path}}

	case js_lexer.TOpenBrace:
		items, isSingleLine := p.parseExportClause()

		// "export {item1, item2} from 'path'"
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			path := p.parsePath()
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{Items: items, Path: path, IsSingleLine: isSingleLine}}
		}

		// "export {item1, item2}"
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items, IsSingleLine: isSingleLine}}
	}

	p.lexer.Unexpected()
	return js_ast.Stmt{}
}
