package fs

import (
	"os"
	"path/filepath"
)

type realFS struct {
	cwd string
}

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	} else if path, err := filepath.EvalSymlinks(cwd); err == nil {
		// Input paths are made absolute against this, so symlinks are resolved
		// the same way for both
		cwd = path
	}
	return &realFS{cwd: cwd}
}

func (fs *realFS) ReadFile(path string) (string, error) {
	buffer, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(buffer), nil
}

func (fs *realFS) WriteFile(path string, contents []byte) error {
	mode := os.FileMode(0644)

	// Keep the permissions of a file that is rewritten in place
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, contents, mode)
}

func (fs *realFS) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (fs *realFS) Abs(path string) (string, bool) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), true
	}
	return filepath.Join(fs.cwd, path), true
}

func (*realFS) Dir(path string) string {
	return filepath.Dir(path)
}

func (*realFS) Base(path string) string {
	return filepath.Base(path)
}

func (*realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (fs *realFS) Cwd() string {
	return fs.cwd
}
