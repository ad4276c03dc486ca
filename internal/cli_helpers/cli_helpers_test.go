package cli_helpers

import (
	"testing"

	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
)

func TestParsePasses(t *testing.T) {
	names, err := ParsePasses("fold, keys,,iife")
	test.AssertEqual(t, err == nil, true)
	test.AssertEqual(t, names, []string{"fold", "keys", "iife"})

	names, err = ParsePasses("")
	test.AssertEqual(t, err == nil, true)
	test.AssertEqual(t, names, []string{})

	_, err = ParsePasses("fold,nope")
	test.AssertEqual(t, err.Text, `Invalid pass: "nope"`)
	test.AssertEqual(t, err.Note, `Valid passes: "deadcode", "fold", "iife", "inline", "keys", "propagate", "pure"`)

	_, err = ParsePasses("propagte")
	test.AssertEqual(t, err.Note, `Did you mean "propagate" instead?`)
}

func TestParseColor(t *testing.T) {
	color, err := ParseColor("false")
	test.AssertEqual(t, err == nil, true)
	test.AssertEqual(t, color, logger.ColorNever)

	color, err = ParseColor("")
	test.AssertEqual(t, err == nil, true)
	test.AssertEqual(t, color, logger.ColorIfTerminal)

	_, err = ParseColor("blue")
	test.AssertEqual(t, err.Text, `Invalid color value: "blue"`)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("warning")
	test.AssertEqual(t, err == nil, true)
	test.AssertEqual(t, level, logger.LevelWarning)

	level, err = ParseLogLevel("verbose")
	test.AssertEqual(t, err == nil, true)
	test.AssertEqual(t, level, logger.LevelDebug)

	_, err = ParseLogLevel("loud")
	test.AssertEqual(t, err.Error(), "Invalid log level: \"loud\"\n\nValid values are \"debug\", \"info\", \"warning\", \"error\", or \"silent\".")
}
