package fs

import (
	"testing"

	"github.com/disposejs/dispose/internal/test"
)

func TestMockFSBasic(t *testing.T) {
	fs := NewMockFS(map[string]string{
		"/README.md":    "// README.md",
		"/src/index.js": "// src/index.js",
	}, "/src")

	// Test a missing file
	_, err := fs.ReadFile("/missing.js")
	if err == nil {
		t.Fatal("Unexpectedly found /missing.js")
	}
	test.AssertEqual(t, IsNotExist(err), true)
	test.AssertEqual(t, fs.IsFile("/missing.js"), false)

	// Test an existing nested file
	index, err := fs.ReadFile("/src/index.js")
	if err != nil {
		t.Fatal("Expected to find /src/index.js")
	}
	test.AssertEqual(t, index, "// src/index.js")
	test.AssertEqual(t, fs.IsFile("/src/../README.md"), true)

	// Written files can be read back
	if err := fs.WriteFile("/src/out.js", []byte("x;\n")); err != nil {
		t.Fatal(err)
	}
	out, err := fs.ReadFile("/src/out.js")
	if err != nil {
		t.Fatal("Expected to find /src/out.js")
	}
	test.AssertEqual(t, out, "x;\n")
	test.AssertEqual(t, len(fs.Files()), 3)
}

func TestMockFSPaths(t *testing.T) {
	fs := NewMockFS(nil, "/a/b")

	abs, ok := fs.Abs("c.js")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, abs, "/a/b/c.js")

	abs, _ = fs.Abs("/x/../y.js")
	test.AssertEqual(t, abs, "/y.js")

	test.AssertEqual(t, fs.Dir("/a/b/c.js"), "/a/b")
	test.AssertEqual(t, fs.Dir("/"), "/")
	test.AssertEqual(t, fs.Base("/a/b/c.js"), "c.js")
	test.AssertEqual(t, fs.Join("/a", "b", "..", "c"), "/a/c")
	test.AssertEqual(t, fs.Cwd(), "/a/b")
}
