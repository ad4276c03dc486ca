package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/disposejs/dispose/internal/fs"
	"github.com/disposejs/dispose/internal/test"
)

func TestLoadFromParent(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/project/.dispose.yaml": "passes: [propagate, inline]\nkeepMarkers: true\n",
		"/project/src/a/index.js": "",
	}, "/project/src/a")

	file, path, err := Load(mock, "/project/src/a")
	require.NoError(t, err)
	require.NotNil(t, file)
	test.AssertEqual(t, path, "/project/.dispose.yaml")

	options := Options{Verify: true}
	file.Apply(&options)
	test.AssertEqual(t, options.Passes, []string{"propagate", "inline"})
	test.AssertEqual(t, options.KeepMarkers, true)
	test.AssertEqual(t, options.Verify, true)
	test.AssertEqual(t, options.Trace, false)
}

func TestLoadPrefersNearestFile(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/.dispose.yaml":         "verify: true\n",
		"/project/.dispose.yml":  "verify: false\n",
		"/project/.dispose.yaml": "trace: true\n",
	}, "/project")

	file, path, err := Load(mock, "/project")
	require.NoError(t, err)
	test.AssertEqual(t, path, "/project/.dispose.yaml")
	test.AssertEqual(t, file.Verify == nil, true)
	test.AssertEqual(t, *file.Trace, true)
}

func TestLoadNoConfig(t *testing.T) {
	file, path, err := Load(fs.NewMockFS(nil, "/a/b"), "/a/b")
	require.NoError(t, err)
	test.AssertEqual(t, file == nil, true)
	test.AssertEqual(t, path, "")

	// Applying a missing file changes nothing
	options := Options{Passes: []string{"fold"}}
	file.Apply(&options)
	test.AssertEqual(t, options.Passes, []string{"fold"})
}

func TestLoadFileErrors(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/empty.yaml":   "",
		"/unknown.yaml": "passez: [fold]\n",
		"/invalid.yaml": "passes: {\n",
	}, "/")

	file, err := LoadFile(mock, "/empty.yaml")
	require.NoError(t, err)
	test.AssertEqual(t, file.Passes == nil, true)

	_, err = LoadFile(mock, "/unknown.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "/unknown.yaml")
	require.Contains(t, err.Error(), "passez")

	_, err = LoadFile(mock, "/invalid.yaml")
	require.Error(t, err)

	_, err = LoadFile(mock, "/missing.yaml")
	require.True(t, fs.IsNotExist(err))
}
