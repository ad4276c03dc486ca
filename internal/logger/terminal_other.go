//go:build !darwin && !linux

package logger

const SupportsColorEscapes = false

func terminalWidth(uintptr) int {
	return 0
}
