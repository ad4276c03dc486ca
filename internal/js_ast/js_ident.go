package js_ast

import "unicode"

// ECMAScript "ID_Start" is approximately the union of these categories
var idStart = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start}

// ECMAScript "ID_Continue" adds these to "ID_Start"
var idContinue = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start,
	unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else if !IsIdentifierContinue(codePoint) {
			return false
		}
	}
	return true
}

// This does "IsIdentifier(UTF16ToString(text))" without any allocations
func IsIdentifierUTF16(text []uint16) bool {
	n := len(text)
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		isStart := i == 0
		r1 := rune(text[i])
		if r1 >= 0xD800 && r1 <= 0xDBFF && i+1 < n {
			if r2 := rune(text[i+1]); r2 >= 0xDC00 && r2 <= 0xDFFF {
				r1 = (r1 << 10) + r2 + (0x10000 - (0xD800 << 10) - 0xDC00)
				i++
			}
		}
		if isStart {
			if !IsIdentifierStart(r1) {
				return false
			}
		} else if !IsIdentifierContinue(r1) {
			return false
		}
	}
	return true
}

func IsIdentifierStart(codePoint rune) bool {
	switch {
	case codePoint >= 'a' && codePoint <= 'z', codePoint >= 'A' && codePoint <= 'Z',
		codePoint == '_', codePoint == '$':
		return true

	case codePoint < 0x7F:
		return false
	}

	return unicode.In(codePoint, idStart...)
}

func IsIdentifierContinue(codePoint rune) bool {
	switch {
	case codePoint >= 'a' && codePoint <= 'z', codePoint >= 'A' && codePoint <= 'Z',
		codePoint >= '0' && codePoint <= '9', codePoint == '_', codePoint == '$':
		return true

	case codePoint < 0x7F:
		return false

	// ZWNJ and ZWJ are allowed in identifiers
	case codePoint == 0x200C || codePoint == 0x200D:
		return true
	}

	return unicode.In(codePoint, idContinue...)
}

// See the "White Space Code Points" table in the ECMAScript standard
func IsWhitespace(codePoint rune) bool {
	switch codePoint {
	case
		'\u0009', // character tabulation
		'\u000B', // line tabulation
		'\u000C', // form feed
		'\u0020', // space
		'\u00A0', // no-break space
		'\uFEFF': // zero width non-breaking space
		return true
	}

	// Unicode "Space_Separator" code points
	return codePoint > 0x7F && unicode.Is(unicode.Zs, codePoint)
}
