package helpers

import (
	"strings"
	"unicode/utf8"
)

// Suggests a known name for a misspelled one. A misspelling is at most one
// edit away: a character missing, added, replaced, or two neighbors swapped.
// Case is ignored. Names of three characters or less are never suggested.
type TypoDetector struct {
	byDeletion map[string]string
}

func MakeTypoDetector(valid []string) TypoDetector {
	detector := TypoDetector{byDeletion: make(map[string]string)}
	for _, name := range valid {
		if len(name) <= 3 {
			continue
		}
		lower := strings.ToLower(name)
		detector.byDeletion[lower] = name
		for _, variant := range deletions(lower) {
			if _, ok := detector.byDeletion[variant]; !ok {
				detector.byDeletion[variant] = name
			}
		}
	}
	return detector
}

func (detector TypoDetector) MaybeCorrectTypo(typo string) (string, bool) {
	lower := strings.ToLower(typo)
	if name, ok := detector.byDeletion[lower]; ok {
		if name == typo {
			return "", false
		}
		return name, true
	}
	for _, variant := range deletions(lower) {
		if name, ok := detector.byDeletion[variant]; ok {
			return name, true
		}
	}
	return "", false
}

func deletions(text string) []string {
	variants := make([]string, 0, len(text))
	for i, ch := range text {
		variants = append(variants, text[:i]+text[i+utf8.RuneLen(ch):])
	}
	return variants
}
