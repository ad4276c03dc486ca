//go:build darwin || linux

package logger

import "golang.org/x/sys/unix"

const SupportsColorEscapes = true

func terminalWidth(fd uintptr) int {
	if w, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ); err == nil {
		return int(w.Col)
	}
	return 0
}
