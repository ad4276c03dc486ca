package logger

import (
	"os"
	"strings"
)

// See https://no-color.org/
func hasNoColorEnvironmentVariable() bool {
	for _, key := range os.Environ() {
		if strings.HasPrefix(key, "NO_COLOR=") {
			return true
		}
	}
	return false
}

type Colors struct {
	Reset string
	Bold  string
	Dim   string

	Red     string
	Green   string
	Blue    string
	Magenta string
}

var TerminalColors = Colors{
	Reset: colorReset,
	Bold:  colorBold,
	Dim:   colorDim,

	Red:     colorRed,
	Green:   colorGreen,
	Blue:    colorBlue,
	Magenta: colorMagenta,
}
