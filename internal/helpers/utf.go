package helpers

import (
	"strings"
	"unicode/utf8"
)

// JavaScript strings are sequences of UTF-16 code units. The parser stores
// string literal contents this way so that lone surrogates survive a round
// trip through the printer.

// The text may hold lone surrogates encoded by "UTF16ToString"
func StringToUTF16(text string) []uint16 {
	decoded := make([]uint16, 0, len(text))
	for len(text) > 0 {
		c, width := decodeWTF8Rune(text)
		text = text[width:]
		if c <= 0xFFFF {
			decoded = append(decoded, uint16(c))
		} else {
			c -= 0x10000
			decoded = append(decoded, uint16(0xD800+((c>>10)&0x3FF)), uint16(0xDC00+(c&0x3FF)))
		}
	}
	return decoded
}

// Lone surrogates are encoded using WTF-8
func UTF16ToString(text []uint16) string {
	var temp [utf8.UTFMax]byte
	sb := strings.Builder{}
	for i, n := 0, len(text); i < n; i++ {
		c, width := decodeUTF16Pair(text, i)
		i += width - 1
		sb.Write(temp[:encodeWTF8Rune(temp[:], c)])
	}
	return sb.String()
}

// Does "UTF16ToString(text) == str" without a temporary allocation
func UTF16EqualsString(text []uint16, str string) bool {
	if len(text) > len(str) {
		// The UTF-16 encoding is never longer than the UTF-8 encoding
		return false
	}
	var temp [utf8.UTFMax]byte
	j := 0
	for i, n := 0, len(text); i < n; i++ {
		c, width := decodeUTF16Pair(text, i)
		i += width - 1
		size := encodeWTF8Rune(temp[:], c)
		if j+size > len(str) || string(temp[:size]) != str[j:j+size] {
			return false
		}
		j += size
	}
	return j == len(str)
}

func UTF16EqualsUTF16(a []uint16, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i, c := range a {
		if c != b[i] {
			return false
		}
	}
	return true
}

func decodeUTF16Pair(text []uint16, i int) (rune, int) {
	c := rune(text[i])
	if c >= 0xD800 && c <= 0xDBFF && i+1 < len(text) {
		if c2 := rune(text[i+1]); c2 >= 0xDC00 && c2 <= 0xDFFF {
			return (c-0xD800)<<10 | (c2 - 0xDC00) + 0x10000, 2
		}
	}
	return c, 1
}

// A variant of "utf8.EncodeRune" that also encodes surrogate code points
// (WTF-8, see https://simonsapin.github.io/wtf-8/)
func encodeWTF8Rune(p []byte, r rune) int {
	switch i := uint32(r); {
	case i <= 0x7F:
		p[0] = byte(r)
		return 1
	case i <= 0x7FF:
		p[0] = 0xC0 | byte(r>>6)
		p[1] = 0x80 | byte(r)&0x3F
		return 2
	case i > utf8.MaxRune:
		r = utf8.RuneError
		fallthrough
	case i <= 0xFFFF:
		p[0] = 0xE0 | byte(r>>12)
		p[1] = 0x80 | byte(r>>6)&0x3F
		p[2] = 0x80 | byte(r)&0x3F
		return 3
	default:
		p[0] = 0xF0 | byte(r>>18)
		p[1] = 0x80 | byte(r>>12)&0x3F
		p[2] = 0x80 | byte(r>>6)&0x3F
		p[3] = 0x80 | byte(r)&0x3F
		return 4
	}
}

// The inverse of "encodeWTF8Rune". Invalid input decodes to a single
// "utf8.RuneError" per byte.
func decodeWTF8Rune(s string) (rune, int) {
	n := len(s)
	if n < 1 {
		return utf8.RuneError, 0
	}

	s0 := s[0]
	if s0 < 0x80 {
		return rune(s0), 1
	}

	var size int
	var cp rune
	switch {
	case (s0 & 0xE0) == 0xC0:
		size, cp = 2, rune(s0&0x1F)
	case (s0 & 0xF0) == 0xE0:
		size, cp = 3, rune(s0&0x0F)
	case (s0 & 0xF8) == 0xF0:
		size, cp = 4, rune(s0&0x07)
	default:
		return utf8.RuneError, 1
	}
	if n < size {
		return utf8.RuneError, 1
	}

	for k := 1; k < size; k++ {
		if (s[k] & 0xC0) != 0x80 {
			return utf8.RuneError, 1
		}
		cp = cp<<6 | rune(s[k]&0x3F)
	}

	// Reject overlong encodings
	switch size {
	case 2:
		if cp < 0x80 {
			return utf8.RuneError, 1
		}
	case 3:
		if cp < 0x800 {
			return utf8.RuneError, 1
		}
	case 4:
		if cp < 0x10000 || cp > 0x10FFFF {
			return utf8.RuneError, 1
		}
	}
	return cp, size
}
