// This package contains internal CLI-related code that must be shared with
// other internal code outside of the CLI package.

package cli_helpers

import (
	"fmt"
	"strings"

	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/passes"
)

type ErrorWithNote struct {
	Text string
	Note string
}

func MakeErrorWithNote(text string, note string) *ErrorWithNote {
	return &ErrorWithNote{
		Text: text,
		Note: note,
	}
}

func (e *ErrorWithNote) Error() string {
	if e.Note == "" {
		return e.Text
	}
	return e.Text + "\n\n" + e.Note
}

func ParseColor(text string) (logger.UseColor, *ErrorWithNote) {
	switch text {
	case "", "auto":
		return logger.ColorIfTerminal, nil
	case "true", "always":
		return logger.ColorAlways, nil
	case "false", "never":
		return logger.ColorNever, nil
	default:
		return logger.ColorIfTerminal, MakeErrorWithNote(
			fmt.Sprintf("Invalid color value: %q", text),
			"Valid values are \"auto\", \"true\", or \"false\".",
		)
	}
}

func ParseLogLevel(text string) (logger.LogLevel, *ErrorWithNote) {
	switch text {
	case "":
		return logger.LevelInfo, nil
	case "verbose", "debug":
		return logger.LevelDebug, nil
	case "info":
		return logger.LevelInfo, nil
	case "warning":
		return logger.LevelWarning, nil
	case "error":
		return logger.LevelError, nil
	case "silent":
		return logger.LevelSilent, nil
	default:
		return logger.LevelNone, MakeErrorWithNote(
			fmt.Sprintf("Invalid log level: %q", text),
			"Valid values are \"debug\", \"info\", \"warning\", \"error\", or \"silent\".",
		)
	}
}

// Splits a comma-separated pass list. An empty string selects no passes at
// all, which is different from not giving a list.
func ParsePasses(text string) ([]string, *ErrorWithNote) {
	names := []string{}
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := passes.Lookup(name); !ok {
			note := fmt.Sprintf("Valid passes: %s", helpers.StringArrayToQuotedCommaSeparatedString(passes.Names()))
			if corrected, ok := helpers.MakeTypoDetector(passes.Names()).MaybeCorrectTypo(name); ok {
				note = fmt.Sprintf("Did you mean %q instead?", corrected)
			}
			return nil, MakeErrorWithNote(fmt.Sprintf("Invalid pass: %q", name), note)
		}
		names = append(names, name)
	}
	return names, nil
}
