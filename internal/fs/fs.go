package fs

import (
	"errors"
	"syscall"
)

// The file system the pipeline reads sources from and writes results to.
// Paths are absolute once they reach this interface.
type FS interface {
	ReadFile(path string) (contents string, err error)
	WriteFile(path string, contents []byte) error

	// Reports whether a regular file exists at this path
	IsFile(path string) bool

	// This is part of the interface because the mock interface used for tests
	// should not depend on file system behavior (i.e. different slashes for
	// Windows) while the real interface should.
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Join(parts ...string) string
	Cwd() string
}

// Returns true if this error means the file doesn't exist. Other errors
// (permissions, a directory where a file was expected) are real failures.
func IsNotExist(err error) bool {
	return errors.Is(err, syscall.ENOENT)
}
