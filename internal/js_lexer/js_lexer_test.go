package js_lexer

import (
	"math"
	"testing"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
)

func lexOrPanic(log logger.Log, contents string) (lexer Lexer, ok bool) {
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(LexerPanic); r != nil && !isLexerPanic {
			panic(r)
		}
	}()
	lexer = NewLexer(log, test.SourceForTest(contents))
	ok = true
	return
}

func lexToken(t *testing.T, contents string) T {
	t.Helper()
	lexer, ok := lexOrPanic(logger.NewDeferLog(logger.LevelInfo), contents)
	test.AssertEqual(t, ok, true)
	return lexer.Token
}

func expectLexerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog(logger.LevelInfo)
		lexOrPanic(log, contents)
		text := ""
		for _, msg := range log.Done() {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqual(t, text, expected)
	})
}

func expectLexer(t *testing.T, contents string) Lexer {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelInfo)
	lexer, ok := lexOrPanic(log, contents)
	test.AssertEqual(t, len(log.Done()), 0)
	test.AssertEqual(t, ok, true)
	return lexer
}

func TestComment(t *testing.T) {
	expectLexerError(t, "/*", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/*/", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/**/", "")
	expectLexerError(t, "//", "")

	lexer := expectLexer(t, "/* a */ // b\nc")
	test.AssertEqual(t, lexer.Token, TIdentifier)
	test.AssertEqual(t, lexer.HasNewlineBefore, true)
	test.AssertEqual(t, len(lexer.CommentsBefore), 2)
	test.AssertEqual(t, lexer.CommentsBefore[0].Text, "/* a */")
	test.AssertEqual(t, lexer.CommentsBefore[0].Loc.Start, int32(0))
	test.AssertEqual(t, lexer.CommentsBefore[1].Text, "// b")
	test.AssertEqual(t, lexer.CommentsBefore[1].Loc.Start, int32(8))

	lexer = expectLexer(t, "/* a */ b")
	test.AssertEqual(t, lexer.HasNewlineBefore, true) // Start of file
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEndOfFile)
	test.AssertEqual(t, len(lexer.CommentsBefore), 0)
}

func TestCommentIndent(t *testing.T) {
	lexer := expectLexer(t, "  /* a\n     b\n   */ c")
	test.AssertEqual(t, lexer.CommentsBefore[0].Text, "/* a\n   b\n */")
}

func TestPureComment(t *testing.T) {
	test.AssertEqual(t, expectLexer(t, "/* #__PURE__ */ a").HasPureCommentBefore, true)
	test.AssertEqual(t, expectLexer(t, "/* @__PURE__ */ a").HasPureCommentBefore, true)
	test.AssertEqual(t, expectLexer(t, "// #__PURE__\na").HasPureCommentBefore, true)
	test.AssertEqual(t, expectLexer(t, "/* #__PURE__x */ a").HasPureCommentBefore, false)
	test.AssertEqual(t, expectLexer(t, "/* __PURE__ */ a").HasPureCommentBefore, false)
	test.AssertEqual(t, expectLexer(t, "a").HasPureCommentBefore, false)
}

func expectHashbang(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := expectLexer(t, contents)
		test.AssertEqual(t, lexer.Token, THashbang)
		test.AssertEqual(t, lexer.Identifier, expected)
	})
}

func TestHashbang(t *testing.T) {
	expectHashbang(t, "#!/usr/bin/env node", "#!/usr/bin/env node")
	expectHashbang(t, "#!/usr/bin/env node\n", "#!/usr/bin/env node")
	expectHashbang(t, "#!/usr/bin/env node\nlet x", "#!/usr/bin/env node")
	expectLexerError(t, " #!/usr/bin/env node", "<stdin>: error: Syntax error \"!\"\n")
}

func expectIdentifier(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := expectLexer(t, contents)
		test.AssertEqual(t, lexer.Token, TIdentifier)
		test.AssertEqual(t, lexer.Identifier, expected)
	})
}

func TestIdentifier(t *testing.T) {
	expectIdentifier(t, "_", "_")
	expectIdentifier(t, "$", "$")
	expectIdentifier(t, "test", "test")
	expectIdentifier(t, "t\\u0065st", "test")
	expectIdentifier(t, "t\\u{65}st", "test")

	expectLexerError(t, "t\\u.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u0.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u00.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u006.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u{.", "<stdin>: error: Syntax error \".\"\n")
	expectLexerError(t, "t\\u{0.", "<stdin>: error: Syntax error \".\"\n")

	expectIdentifier(t, "a\u200C", "a\u200C")
	expectIdentifier(t, "a\u200D", "a\u200D")
}

func TestEscapedKeyword(t *testing.T) {
	lexer := expectLexer(t, "\\u0076ar")
	test.AssertEqual(t, lexer.Token, TEscapedKeyword)
	test.AssertEqual(t, lexer.Identifier, "var")
	test.AssertEqual(t, lexer.IsIdentifierOrKeyword(), true)
}

func TestPrivateIdentifier(t *testing.T) {
	lexer := expectLexer(t, "#foo")
	test.AssertEqual(t, lexer.Token, TPrivateIdentifier)
	test.AssertEqual(t, lexer.Identifier, "#foo")

	lexer = expectLexer(t, "#f\\u006fo")
	test.AssertEqual(t, lexer.Token, TPrivateIdentifier)
	test.AssertEqual(t, lexer.Identifier, "#foo")

	expectLexerError(t, "# foo", "<stdin>: error: Syntax error \" \"\n")
}

func expectNumber(t *testing.T, contents string, expected float64) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := expectLexer(t, contents)
		test.AssertEqual(t, lexer.Token, TNumericLiteral)
		test.AssertEqual(t, lexer.Number, expected)
	})
}

func TestNumericLiteral(t *testing.T) {
	expectNumber(t, "0", 0.0)
	expectNumber(t, "123", 123.0)
	expectNumber(t, "987", 987.0)
	expectNumber(t, "1.5", 1.5)
	expectNumber(t, ".5", 0.5)
	expectNumber(t, "5.", 5.0)
	expectNumber(t, "0.5", 0.5)
	expectNumber(t, "1e3", 1000.0)
	expectNumber(t, "1E+3", 1000.0)
	expectNumber(t, "1e-3", 0.001)
	expectNumber(t, "1_000", 1000.0)
	expectNumber(t, "1_0.0_1", 10.01)
	expectNumber(t, "1e1_0", 1e10)
	expectNumber(t, "0b101", 5.0)
	expectNumber(t, "0B1_1", 3.0)
	expectNumber(t, "0o17", 15.0)
	expectNumber(t, "0O7_7", 63.0)
	expectNumber(t, "0x10", 16.0)
	expectNumber(t, "0xFFFF_FFFF", 4294967295.0)
	expectNumber(t, "0xabcdef", 11259375.0)
	expectNumber(t, "0x1_0000_0000_0000_0000", 18446744073709551616.0)
	expectNumber(t, "1e400", math.Inf(1))

	expectLexerError(t, "1__0", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_.5", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1._5", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1e", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "0x", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "0x_1", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0b2", "<stdin>: error: Syntax error \"2\"\n")
	expectLexerError(t, "0o8", "<stdin>: error: Syntax error \"8\"\n")
	expectLexerError(t, "0b1a", "<stdin>: error: Syntax error \"a\"\n")
	expectLexerError(t, "1a", "<stdin>: error: Syntax error \"a\"\n")
	expectLexerError(t, "01", "<stdin>: error: Legacy octal literals are not supported\n")
	expectLexerError(t, "09", "<stdin>: error: Legacy octal literals are not supported\n")
	expectLexerError(t, "0_1", "<stdin>: error: Legacy octal literals are not supported\n")
}

func expectBigInteger(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := expectLexer(t, contents)
		test.AssertEqual(t, lexer.Token, TBigIntegerLiteral)
		test.AssertEqual(t, lexer.Identifier, expected)
	})
}

func TestBigIntegerLiteral(t *testing.T) {
	expectBigInteger(t, "0n", "0")
	expectBigInteger(t, "123n", "123")
	expectBigInteger(t, "1_000n", "1000")
	expectBigInteger(t, "0x1Fn", "0x1F")
	expectBigInteger(t, "0b1_0n", "0b10")
	expectBigInteger(t, "0o7n", "0o7")

	expectLexerError(t, "1.5n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "1e3n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "01n", "<stdin>: error: Legacy octal literals are not supported\n")
	expectLexerError(t, "1nn", "<stdin>: error: Syntax error \"n\"\n")
}

func expectString(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := expectLexer(t, contents)
		test.AssertEqual(t, lexer.Token, TStringLiteral)
		test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), expected)
	})
}

func TestStringLiteral(t *testing.T) {
	expectString(t, "''", "")
	expectString(t, "'abc'", "abc")
	expectString(t, "\"abc\"", "abc")
	expectString(t, "'a\"b'", "a\"b")
	expectString(t, "\"a'b\"", "a'b")
	expectString(t, "'\\''", "'")
	expectString(t, "'\\b\\f\\n\\r\\t\\v'", "\b\f\n\r\t\v")
	expectString(t, "'\\0'", "\x00")
	expectString(t, "'\\101'", "A")
	expectString(t, "'\\7'", "\x07")
	expectString(t, "'\\477'", "\x277")
	expectString(t, "'\\8'", "8")
	expectString(t, "'\\x41'", "A")
	expectString(t, "'\\u0041'", "A")
	expectString(t, "'\\u{41}'", "A")
	expectString(t, "'\\u{1F600}'", "\U0001F600")
	expectString(t, "'\\uD83D\\uDE00'", "\U0001F600")
	expectString(t, "'\U0001F600'", "\U0001F600")
	expectString(t, "'\\q'", "q")
	expectString(t, "'a\\\nb'", "ab")
	expectString(t, "'a\\\r\nb'", "ab")
	expectString(t, "'a\\\u2028b'", "ab")
	expectString(t, "'\u00A0'", "\u00A0")

	lexer := expectLexer(t, "'\\uD800'")
	test.AssertEqual(t, lexer.StringLiteral, []uint16{0xD800})

	expectLexerError(t, "'abc", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "'a\nb'", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "'a\rb'", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "'\\x4'", "<stdin>: error: Invalid hexadecimal escape sequence\n")
	expectLexerError(t, "'\\xZZ'", "<stdin>: error: Invalid hexadecimal escape sequence\n")
	expectLexerError(t, "'\\u00'", "<stdin>: error: Invalid unicode escape sequence\n")
	expectLexerError(t, "'\\u{}'", "<stdin>: error: Invalid unicode escape sequence\n")
	expectLexerError(t, "'\\u{110000}'", "<stdin>: error: Unicode escape sequence is out of range\n")
}

func TestTemplateLiteral(t *testing.T) {
	lexer := expectLexer(t, "`a\\nb`")
	test.AssertEqual(t, lexer.Token, TNoSubstitutionTemplateLiteral)
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "a\nb")
	test.AssertEqual(t, lexer.RawTemplateContents(), "a\\nb")

	lexer = expectLexer(t, "`a\r\nb`")
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "a\nb")
	test.AssertEqual(t, lexer.RawTemplateContents(), "a\nb")

	lexer = expectLexer(t, "`$a$`")
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "$a$")

	lexer = expectLexer(t, "`a${x}b${y}c`")
	test.AssertEqual(t, lexer.Token, TTemplateHead)
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "a")
	test.AssertEqual(t, lexer.RawTemplateContents(), "a")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TIdentifier)
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateMiddle)
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "b")
	test.AssertEqual(t, lexer.RawTemplateContents(), "b")
	lexer.Next()
	test.AssertEqual(t, lexer.Identifier, "y")
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateTail)
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "c")
	test.AssertEqual(t, lexer.RawTemplateContents(), "c")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEndOfFile)

	expectLexerError(t, "`abc", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "`\\1`", "<stdin>: error: Octal escape sequences are not allowed in template literals\n")
	expectLexerError(t, "`\\9`", "<stdin>: error: Invalid escape sequence in template literal\n")
	expectLexerError(t, "`\\0`", "")
}

func expectRegExp(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := expectLexer(t, contents)
		if lexer.Token != TSlash && lexer.Token != TSlashEquals {
			t.Fatalf("Unexpected token %d", lexer.Token)
		}
		lexer.ScanRegExp()
		test.AssertEqual(t, lexer.Raw(), contents)
	})
}

func expectRegExpError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog(logger.LevelInfo)
		lexer, ok := lexOrPanic(log, contents)
		test.AssertEqual(t, ok, true)
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, isLexerPanic := r.(LexerPanic); !isLexerPanic {
						panic(r)
					}
				}
			}()
			lexer.ScanRegExp()
		}()
		text := ""
		for _, msg := range log.Done() {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqual(t, text, expected)
	})
}

func TestRegExp(t *testing.T) {
	expectRegExp(t, "/x/")
	expectRegExp(t, "/x/gimsuy")
	expectRegExp(t, "/x/d")
	expectRegExp(t, "/[/]/")
	expectRegExp(t, "/\\//")
	expectRegExp(t, "/=x/")

	expectRegExpError(t, "/x", "<stdin>: error: Unterminated regular expression\n")
	expectRegExpError(t, "/x\n/", "<stdin>: error: Unterminated regular expression\n")
	expectRegExpError(t, "/x/gg", "<stdin>: error: Duplicate flag \"g\" in regular expression\n")
	expectRegExpError(t, "/x/z", "<stdin>: error: Syntax error \"z\"\n")
}

func TestQuestionDot(t *testing.T) {
	lexer := expectLexer(t, "a?.b")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TQuestionDot)

	lexer = expectLexer(t, "a?.5:b")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TQuestion)
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TNumericLiteral)
	test.AssertEqual(t, lexer.Number, 0.5)
}

func TestTokens(t *testing.T) {
	expected := []struct {
		contents string
		token    T
	}{
		{"", TEndOfFile},
		{"\x00", TSyntaxError},

		// "#!/usr/bin/env node"
		{"#!", THashbang},

		// Punctuation
		{"(", TOpenParen},
		{")", TCloseParen},
		{"[", TOpenBracket},
		{"]", TCloseBracket},
		{"{", TOpenBrace},
		{"}", TCloseBrace},

		// Reserved words
		{"break", TBreak},
		{"case", TCase},
		{"catch", TCatch},
		{"class", TClass},
		{"const", TConst},
		{"continue", TContinue},
		{"debugger", TDebugger},
		{"default", TDefault},
		{"delete", TDelete},
		{"do", TDo},
		{"else", TElse},
		{"enum", TEnum},
		{"export", TExport},
		{"extends", TExtends},
		{"false", TFalse},
		{"finally", TFinally},
		{"for", TFor},
		{"function", TFunction},
		{"if", TIf},
		{"import", TImport},
		{"in", TIn},
		{"instanceof", TInstanceof},
		{"new", TNew},
		{"null", TNull},
		{"return", TReturn},
		{"super", TSuper},
		{"switch", TSwitch},
		{"this", TThis},
		{"throw", TThrow},
		{"true", TTrue},
		{"try", TTry},
		{"typeof", TTypeof},
		{"var", TVar},
		{"void", TVoid},
		{"while", TWhile},
		{"with", TWith},

		// Contextual keywords are plain identifiers
		{"let", TIdentifier},
		{"async", TIdentifier},
		{"of", TIdentifier},

		// Operators
		{"&", TAmpersand},
		{"&&", TAmpersandAmpersand},
		{"&&=", TAmpersandAmpersandEquals},
		{"&=", TAmpersandEquals},
		{"*", TAsterisk},
		{"**", TAsteriskAsterisk},
		{"**=", TAsteriskAsteriskEquals},
		{"*=", TAsteriskEquals},
		{"|", TBar},
		{"||", TBarBar},
		{"||=", TBarBarEquals},
		{"|=", TBarEquals},
		{"^", TCaret},
		{"^=", TCaretEquals},
		{":", TColon},
		{",", TComma},
		{".", TDot},
		{"...", TDotDotDot},
		{"=", TEquals},
		{"==", TEqualsEquals},
		{"===", TEqualsEqualsEquals},
		{"=>", TEqualsGreaterThan},
		{"!", TExclamation},
		{"!=", TExclamationEquals},
		{"!==", TExclamationEqualsEquals},
		{">", TGreaterThan},
		{">=", TGreaterThanEquals},
		{">>", TGreaterThanGreaterThan},
		{">>=", TGreaterThanGreaterThanEquals},
		{">>>", TGreaterThanGreaterThanGreaterThan},
		{">>>=", TGreaterThanGreaterThanGreaterThanEquals},
		{"<", TLessThan},
		{"<=", TLessThanEquals},
		{"<<", TLessThanLessThan},
		{"<<=", TLessThanLessThanEquals},
		{"-", TMinus},
		{"-=", TMinusEquals},
		{"--", TMinusMinus},
		{"%", TPercent},
		{"%=", TPercentEquals},
		{"+", TPlus},
		{"+=", TPlusEquals},
		{"++", TPlusPlus},
		{"?", TQuestion},
		{"??", TQuestionQuestion},
		{"??=", TQuestionQuestionEquals},
		{"?.", TQuestionDot},
		{";", TSemicolon},
		{"/", TSlash},
		{"/=", TSlashEquals},
		{"~", TTilde},
	}

	for _, it := range expected {
		contents := it.contents
		token := it.token
		t.Run(contents, func(t *testing.T) {
			test.AssertEqual(t, lexToken(t, contents), token)
		})
	}
}

func TestAssignTokens(t *testing.T) {
	test.AssertEqual(t, TEquals.IsAssign(), true)
	test.AssertEqual(t, TSlashEquals.IsAssign(), true)
	test.AssertEqual(t, TAmpersandAmpersandEquals.IsAssign(), true)
	test.AssertEqual(t, TEqualsEquals.IsAssign(), false)
	test.AssertEqual(t, TPrivateIdentifier.IsAssign(), false)
}
