package helpers

import (
	"strings"
	"unicode/utf8"
)

// Strips the common indentation from the second and later lines of a
// multi-line block comment. "prefix" is the source text before the comment,
// which determines the indentation of the first line.
func RemoveMultiLineCommentIndent(prefix string, text string) string {
	indent := 0
	for len(prefix) > 0 {
		c, size := utf8.DecodeLastRuneInString(prefix)
		if c == '\r' || c == '\n' || c == '\u2028' || c == '\u2029' {
			break
		}
		prefix = prefix[:len(prefix)-size]
		indent++
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines[1:] {
		lineIndent := 0
		for lineIndent < len(line) && (line[lineIndent] == ' ' || line[lineIndent] == '\t') {
			lineIndent++
		}
		if indent > lineIndent {
			indent = lineIndent
		}
	}

	for i := 1; i < len(lines); i++ {
		lines[i] = lines[i][indent:]
	}
	return strings.Join(lines, "\n")
}
