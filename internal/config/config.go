package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/disposejs/dispose/internal/fs"
)

type Options struct {
	// The passes to run, in order. A nil list means the default order.
	Passes []string

	// Re-parse the output with esbuild's public API and fail if it doesn't
	// parse. This catches printer bugs, not optimizer bugs.
	Verify bool

	// Leave the "#__DISPOSE__" and "#__DISPOSED__FUNCTION__" annotations in
	// the output
	KeepMarkers bool

	// Write a structured log line for every rewrite
	Trace bool
}

// The names of the configuration file, in order of preference. The file is
// searched for in the starting directory and then in each parent directory.
var FileNames = []string{
	".dispose.yaml",
	".dispose.yml",
}

// The contents of a configuration file. Every field is optional and fields
// that aren't present leave the options alone.
type File struct {
	Passes      []string `yaml:"passes,omitempty"`
	Verify      *bool    `yaml:"verify,omitempty"`
	KeepMarkers *bool    `yaml:"keepMarkers,omitempty"`
	Trace       *bool    `yaml:"trace,omitempty"`
}

// Searches for a configuration file starting from "startDir". Returns a nil
// file and an empty path if there isn't one.
func Load(fs fs.FS, startDir string) (*File, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			path := fs.Join(dir, name)
			if fs.IsFile(path) {
				file, err := LoadFile(fs, path)
				return file, path, err
			}
		}

		parent := fs.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

func LoadFile(fs fs.FS, path string) (*File, error) {
	contents, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file File
	decoder := yaml.NewDecoder(bytes.NewBufferString(contents))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		// An empty file is an empty configuration
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &file, nil
}

func (file *File) Apply(options *Options) {
	if file == nil {
		return
	}
	if file.Passes != nil {
		options.Passes = append([]string{}, file.Passes...)
	}
	if file.Verify != nil {
		options.Verify = *file.Verify
	}
	if file.KeepMarkers != nil {
		options.KeepMarkers = *file.KeepMarkers
	}
	if file.Trace != nil {
		options.Trace = *file.Trace
	}
}
