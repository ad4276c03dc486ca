package helpers_test

import (
	"strings"
	"testing"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/test"
)

func TestUTF16RoundTrip(t *testing.T) {
	for _, text := range []string{"", "abc", "café", "\U0001F600!"} {
		utf16 := helpers.StringToUTF16(text)
		test.AssertEqual(t, helpers.UTF16ToString(utf16), text)
		test.AssertEqual(t, helpers.UTF16EqualsString(utf16, text), true)
	}
	test.AssertEqual(t, len(helpers.StringToUTF16("\U0001F600")), 2)
	test.AssertEqual(t, helpers.UTF16EqualsString(helpers.StringToUTF16("ab"), "abc"), false)
	test.AssertEqual(t, helpers.UTF16EqualsUTF16(helpers.StringToUTF16("ab"), helpers.StringToUTF16("ab")), true)
}

func TestLoneSurrogateRoundTrip(t *testing.T) {
	for _, utf16 := range [][]uint16{{0xD800}, {'a', 0xDC00, 'b'}, {0xDBFF, 0xD800}} {
		test.AssertEqual(t, helpers.StringToUTF16(helpers.UTF16ToString(utf16)), utf16)
	}

	// Invalid bytes each decode to U+FFFD
	test.AssertEqual(t, helpers.StringToUTF16("a\xFFb\xE2"), []uint16{'a', 0xFFFD, 'b', 0xFFFD})
	test.AssertEqual(t, helpers.StringToUTF16("\xC0\x80"), []uint16{0xFFFD, 0xFFFD})
}

func TestQuoteUTF16(t *testing.T) {
	quote := func(text string) string {
		return string(helpers.QuoteUTF16(helpers.StringToUTF16(text)))
	}
	test.AssertEqual(t, quote("abc"), `"abc"`)
	test.AssertEqual(t, quote(`a"b`), `'a"b'`)
	test.AssertEqual(t, quote(`a'b`), `"a'b"`)
	test.AssertEqual(t, quote("a\nb\\"), `"a\nb\\"`)
	test.AssertEqual(t, quote("\x001"), `"\x001"`)
	test.AssertEqual(t, quote("\x00"), `"\0"`)
	test.AssertEqual(t, quote(" "), `" "`)
	test.AssertEqual(t, string(helpers.QuoteUTF16([]uint16{0xD800})), `"\uD800"`)
}

func TestTypoDetector(t *testing.T) {
	detector := helpers.MakeTypoDetector([]string{"propagate", "inline"})
	corrected, ok := detector.MaybeCorrectTypo("propagte")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "propagate")
	_, ok = detector.MaybeCorrectTypo("fold")
	test.AssertEqual(t, ok, false)
	_, ok = detector.MaybeCorrectTypo("inline")
	test.AssertEqual(t, ok, false)

	corrected, ok = detector.MaybeCorrectTypo("INLINE")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "inline")
	corrected, ok = detector.MaybeCorrectTypo("inilne")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "inline")
	corrected, ok = detector.MaybeCorrectTypo("inlines")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "inline")
}

func TestRemoveMultiLineCommentIndent(t *testing.T) {
	text := helpers.RemoveMultiLineCommentIndent("  ", "/* a\n     b\n   */")
	test.AssertEqual(t, text, "/* a\n   b\n */")
}

func TestTimer(t *testing.T) {
	var nilTimer *helpers.Timer
	nilTimer.Begin("x")
	nilTimer.End("x")
	test.AssertEqual(t, nilTimer.String(), "")

	timer := &helpers.Timer{}
	timer.Begin("run")
	timer.Begin("parse")
	timer.End("parse")
	timer.End("run")
	lines := strings.Split(timer.String(), "\n")
	test.AssertEqual(t, len(lines), 2)
	test.AssertEqual(t, strings.HasPrefix(lines[0], "run: "), true)
	test.AssertEqual(t, strings.HasPrefix(lines[1], "  parse: "), true)
}
