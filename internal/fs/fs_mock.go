package fs

// This is a mock implementation of the "fs" module for use with tests. It does
// not actually read from the file system. Instead, it reads from a pre-specified
// map of file paths to files. Written files are stored in the same map.

import (
	"path"
	"sync"
	"syscall"
)

type mockFS struct {
	files         map[string]string
	absWorkingDir string
	mutex         sync.Mutex
}

type MockFS interface {
	FS

	// Returns the contents of every file, including the ones written since
	// the mock was created
	Files() map[string]string
}

func NewMockFS(input map[string]string, absWorkingDir string) MockFS {
	files := make(map[string]string, len(input))
	for k, v := range input {
		files[path.Clean(k)] = v
	}
	return &mockFS{files: files, absWorkingDir: absWorkingDir}
}

func (fs *mockFS) ReadFile(p string) (string, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	if contents, ok := fs.files[path.Clean(p)]; ok {
		return contents, nil
	}
	return "", syscall.ENOENT
}

func (fs *mockFS) WriteFile(p string, contents []byte) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.files[path.Clean(p)] = string(contents)
	return nil
}

func (fs *mockFS) IsFile(p string) bool {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	_, ok := fs.files[path.Clean(p)]
	return ok
}

func (fs *mockFS) Files() map[string]string {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	files := make(map[string]string, len(fs.files))
	for k, v := range fs.files {
		files[k] = v
	}
	return files
}

func (fs *mockFS) Abs(p string) (string, bool) {
	if path.IsAbs(p) {
		return path.Clean(p), true
	}
	return path.Join(fs.absWorkingDir, p), true
}

func (*mockFS) Dir(p string) string {
	return path.Dir(p)
}

func (*mockFS) Base(p string) string {
	return path.Base(p)
}

func (*mockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

func (fs *mockFS) Cwd() string {
	return fs.absWorkingDir
}
