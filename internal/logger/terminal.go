package logger

import (
	"os"

	"github.com/mattn/go-isatty"
)

func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := file.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return
	}
	info.IsTTY = true
	info.UseColorEscapes = SupportsColorEscapes && !hasNoColorEnvironmentVariable()
	info.Width = terminalWidth(fd)
	return
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
