package pipeline

import (
	"errors"
	"fmt"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"

	"github.com/disposejs/dispose/internal/config"
	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/js_parser"
	"github.com/disposejs/dispose/internal/js_printer"
	"github.com/disposejs/dispose/internal/js_scope"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/passes"
	"github.com/disposejs/dispose/internal/traverse"
)

type Options struct {
	config.Options

	// Receives one debug event per rewrite and one info event per file.
	// Use "zerolog.Nop()" to turn this off.
	Logger zerolog.Logger

	// May be nil
	Timer *helpers.Timer
}

type Result struct {
	JS []byte

	// The number of rewrites done by each pass
	Applied map[string]int
}

// The input didn't parse. The details were already added to the log.
type ParseError struct {
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: could not parse the input", e.Path)
}

// The output didn't parse when it was checked with esbuild. This is a bug in
// the printer or in a pass, not in the input.
type VerifyError struct {
	Path string
	Text string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: the output does not parse: %s", e.Path, e.Text)
}

func passList(names []string) []string {
	if names == nil {
		return passes.DefaultOrder
	}
	return names
}

// Runs the enabled passes over one source file. If a pass fails, the error
// is also added to the log and the result holds the input unchanged.
func Run(log logger.Log, source logger.Source, options Options) (Result, error) {
	selected, err := passes.Resolve(passList(options.Passes))
	if err != nil {
		return Result{}, err
	}

	options.Timer.Begin("Parse")
	tree, ok := js_parser.Parse(log, source, js_parser.Options{})
	options.Timer.End("Parse")
	if !ok {
		return Result{}, &ParseError{Path: source.PrettyPath}
	}

	trace := options.Logger.With().Str("file", source.PrettyPath).Logger()

	options.Timer.Begin("Optimize")
	ctx := passes.NewContext(js_scope.Crawl(&tree), disposable.NewMarkers(), trace)
	err = traverse.Traverse(&tree, passes.Visitors(ctx, selected)...)
	options.Timer.End("Optimize")

	if err != nil {
		var unsupported *passes.UnsupportedPatternError
		if errors.As(err, &unsupported) {
			log.AddError(&source, unsupported.Loc, unsupported.Reason)
		}
		return Result{JS: []byte(source.Contents)}, fmt.Errorf("%s: %w", source.PrettyPath, err)
	}

	options.Timer.Begin("Print")
	js := js_printer.Print(tree, PrintOptions(options.KeepMarkers)).JS
	options.Timer.End("Print")

	summarize(log, trace, selected, ctx.Applied)

	if options.Verify {
		options.Timer.Begin("Verify")
		err := verify(source.PrettyPath, js)
		options.Timer.End("Verify")
		if err != nil {
			return Result{}, err
		}
	}

	return Result{JS: js, Applied: ctx.Applied}, nil
}

// Without "keepMarkers", the annotations this tool reads and writes are left
// out of the output
func PrintOptions(keepMarkers bool) js_printer.Options {
	if keepMarkers {
		return js_printer.Options{}
	}
	return js_printer.Options{OmitComment: isMarker}
}

func isMarker(text string) bool {
	return strings.Contains(text, disposable.DisposeAnnotation) ||
		strings.Contains(text, disposable.DisposedFunctionAnnotation)
}

func summarize(log logger.Log, trace zerolog.Logger, selected []passes.Pass, applied map[string]int) {
	counts := make([]string, 0, len(selected))
	event := trace.Info()
	for _, pass := range selected {
		count := applied[pass.Name]
		event = event.Int(pass.Name, count)
		counts = append(counts, fmt.Sprintf("%s %d", pass.Name, count))
	}
	event.Msg("optimized")

	log.AddID(logger.MsgID_Pipeline_PassSummary, logger.Debug, nil, logger.Range{},
		"Rewrites: "+strings.Join(counts, ", "))
}

func verify(path string, js []byte) error {
	result := esbuild.Transform(string(js), esbuild.TransformOptions{
		Loader:     esbuild.LoaderJS,
		Sourcefile: path,
		LogLevel:   esbuild.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return &VerifyError{Path: path, Text: result.Errors[0].Text}
	}
	return nil
}
