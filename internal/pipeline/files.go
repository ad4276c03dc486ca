package pipeline

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/disposejs/dispose/internal/fs"
	"github.com/disposejs/dispose/internal/logger"
)

// Where the results of "RunFiles" are written. With neither field set, the
// results are only returned.
type Output struct {
	// Write each result into this directory under the input's file name
	Outdir string

	// Write each result over its input
	InPlace bool
}

type FileResult struct {
	// The absolute path of the input file
	Path string

	// The absolute path the result was written to, if any
	OutputPath string

	Result
}

// Runs the pipeline over several files at once. Each file gets its own
// independent run. The results are in the order of "paths" and the failures
// of all files are returned together. A file that failed in a pass has its
// input as the result.
func RunFiles(fs fs.FS, log logger.Log, paths []string, options Options, output Output) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	var errs *multierror.Error
	var mutex sync.Mutex
	var waitGroup sync.WaitGroup

	// The timer only nests properly when stages don't overlap, so concurrent
	// runs are timed as a whole
	fileOptions := options
	if len(paths) > 1 {
		fileOptions.Timer = nil
	}
	options.Timer.Begin("Run files")
	defer options.Timer.End("Run files")

	fail := func(err error) {
		mutex.Lock()
		defer mutex.Unlock()
		errs = multierror.Append(errs, err)
	}

	for i, path := range paths {
		absPath, ok := fs.Abs(path)
		if !ok {
			fail(fmt.Errorf("%s: could not resolve the path", path))
			continue
		}
		results[i].Path = absPath

		waitGroup.Add(1)
		go func(i int, path string, absPath string) {
			defer waitGroup.Done()

			contents, err := fs.ReadFile(absPath)
			if err != nil {
				fail(fmt.Errorf("%s: %w", path, err))
				return
			}

			source := logger.Source{
				Index:      uint32(i),
				PrettyPath: path,
				Contents:   contents,
			}
			// A file the passes gave up on still gets its unchanged input
			// written to the output directory
			result, err := Run(log, source, fileOptions)
			if err != nil {
				fail(err)
				if result.JS == nil || output.InPlace {
					return
				}
			}
			results[i].Result = result

			var outputPath string
			switch {
			case output.Outdir != "":
				outputPath = fs.Join(output.Outdir, fs.Base(absPath))
			case output.InPlace:
				outputPath = absPath
			default:
				return
			}
			if err := fs.WriteFile(outputPath, result.JS); err != nil {
				fail(fmt.Errorf("%s: %w", outputPath, err))
				return
			}
			results[i].OutputPath = outputPath
		}(i, path, absPath)
	}

	waitGroup.Wait()
	return results, errs.ErrorOrNil()
}
