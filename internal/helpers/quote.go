package helpers

const hexChars = "0123456789ABCDEF"

// Returns the JavaScript string literal for the given UTF-16 text using the
// quote character that needs the fewest escapes. Ties prefer double quotes.
func QuoteUTF16(text []uint16) []byte {
	singleCost := 0
	doubleCost := 0
	for _, c := range text {
		switch c {
		case '\'':
			singleCost++
		case '"':
			doubleCost++
		}
	}
	quote := byte('"')
	if doubleCost > singleCost {
		quote = '\''
	}
	return QuoteUTF16With(text, quote)
}

func QuoteUTF16With(text []uint16, quote byte) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, quote)

	for i, n := 0, len(text); i < n; i++ {
		c := text[i]
		switch c {
		case '\b':
			bytes = append(bytes, "\\b"...)
		case '\f':
			bytes = append(bytes, "\\f"...)
		case '\n':
			bytes = append(bytes, "\\n"...)
		case '\r':
			bytes = append(bytes, "\\r"...)
		case '\t':
			bytes = append(bytes, "\\t"...)
		case '\v':
			bytes = append(bytes, "\\v"...)
		case '\\':
			bytes = append(bytes, "\\\\"...)

		case 0:
			// "\0" followed by a digit would be a legacy octal escape
			if i+1 < n && text[i+1] >= '0' && text[i+1] <= '9' {
				bytes = append(bytes, "\\x00"...)
			} else {
				bytes = append(bytes, "\\0"...)
			}

		case '\'', '"':
			if byte(c) == quote {
				bytes = append(bytes, '\\')
			}
			bytes = append(bytes, byte(c))

		case '\u2028', '\u2029', '\uFEFF':
			bytes = appendUnicodeEscape(bytes, c)

		default:
			switch {
			case c < 0x20 || c == 0x7F:
				bytes = append(bytes, '\\', 'x', hexChars[c>>4], hexChars[c&15])

			case c < 0x80:
				bytes = append(bytes, byte(c))

			case c >= 0xD800 && c <= 0xDBFF && i+1 < n && text[i+1] >= 0xDC00 && text[i+1] <= 0xDFFF:
				r := (rune(c)-0xD800)<<10 | (rune(text[i+1]) - 0xDC00) + 0x10000
				var temp [4]byte
				bytes = append(bytes, temp[:encodeWTF8Rune(temp[:], r)]...)
				i++

			case c >= 0xD800 && c <= 0xDFFF:
				// Lone surrogates can't be represented in UTF-8
				bytes = appendUnicodeEscape(bytes, c)

			default:
				var temp [4]byte
				bytes = append(bytes, temp[:encodeWTF8Rune(temp[:], rune(c))]...)
			}
		}
	}

	return append(bytes, quote)
}

func appendUnicodeEscape(bytes []byte, c uint16) []byte {
	return append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
}
