package cli

import (
	"errors"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/disposejs/dispose/internal/cli_helpers"
	"github.com/disposejs/dispose/internal/config"
	"github.com/disposejs/dispose/internal/exitcode"
	"github.com/disposejs/dispose/internal/fs"
	"github.com/disposejs/dispose/internal/helpers"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/passes"
	"github.com/disposejs/dispose/internal/pipeline"
)

func runCommand(v *viper.Viper, fs fs.FS, streams Streams, args []string) error {
	useColor, noteErr := cli_helpers.ParseColor(v.GetString("color"))
	if noteErr != nil {
		return exitcode.Set(noteErr, exitcode.Usage)
	}
	logLevel, noteErr := cli_helpers.ParseLogLevel(v.GetString("log-level"))
	if noteErr != nil {
		return exitcode.Set(noteErr, exitcode.Usage)
	}

	options, err := loadOptions(v, fs)
	if err != nil {
		return err
	}

	output := pipeline.Output{InPlace: v.GetBool("write")}
	if outdir := v.GetString("outdir"); outdir != "" {
		if output.InPlace {
			return usageError("cannot use both --outdir and --write")
		}
		absOutdir, ok := fs.Abs(outdir)
		if !ok {
			return usageError("could not resolve the output directory %q", outdir)
		}
		output.Outdir = absOutdir
	}

	switch {
	case len(args) == 0 && (output.Outdir != "" || output.InPlace):
		return usageError("--outdir and --write need input files")
	case len(args) == 0 && isTerminal(streams.Stdin):
		return usageError("no input files (pass file names or pipe code into stdin)")
	case len(args) > 1 && output.Outdir == "" && !output.InPlace:
		return usageError("several input files need --outdir or --write")
	}

	paint := newPainterWithColor(streams.Stderr, useColor)
	log := logger.NewDeferLog(logLevel)
	var timer *helpers.Timer
	if v.GetBool("timing") {
		timer = &helpers.Timer{}
	}
	pipelineOptions := pipeline.Options{
		Options: options,
		Logger:  traceLogger(options.Trace, streams.Stderr, paint.useColorEscapes()),
		Timer:   timer,
	}

	var results []pipeline.FileResult
	if len(args) == 0 {
		err = runStdin(log, streams, pipelineOptions)
	} else {
		results, err = pipeline.RunFiles(fs, log, args, pipelineOptions, output)
		if output.Outdir == "" && !output.InPlace && results[0].JS != nil {
			if _, writeErr := streams.Stdout.Write(results[0].JS); writeErr != nil && err == nil {
				err = writeErr
			}
		}
	}

	logFailures(log, err)
	timer.Log(log)
	paint.messages(log.Done())
	if logLevel <= logger.LevelInfo {
		paint.summary(results, err)
	}

	if err != nil {
		return &reportedError{err}
	}
	return nil
}

// Merges the configuration file with flags and "DISPOSE_*" environment
// variables. Anything set explicitly overrides the file.
func loadOptions(v *viper.Viper, fs fs.FS) (config.Options, error) {
	var options config.Options
	var file *config.File
	var err error
	if path := v.GetString("config"); path != "" {
		absPath, ok := fs.Abs(path)
		if !ok {
			return options, usageError("could not resolve the configuration file %q", path)
		}
		file, err = config.LoadFile(fs, absPath)
	} else {
		file, _, err = config.Load(fs, fs.Cwd())
	}
	if err != nil {
		return options, exitcode.Set(err, exitcode.Usage)
	}
	file.Apply(&options)

	if v.IsSet("passes") {
		names, noteErr := cli_helpers.ParsePasses(v.GetString("passes"))
		if noteErr != nil {
			return options, exitcode.Set(noteErr, exitcode.Usage)
		}
		options.Passes = names
	}
	if v.IsSet("keep-markers") {
		options.KeepMarkers = v.GetBool("keep-markers")
	}
	if v.IsSet("verify") {
		options.Verify = v.GetBool("verify")
	}
	if v.IsSet("trace") {
		options.Trace = v.GetBool("trace")
	}

	// Pass names from the configuration file haven't been checked yet
	if options.Passes != nil {
		if _, err := passes.Resolve(options.Passes); err != nil {
			return options, exitcode.Set(err, exitcode.Usage)
		}
	}
	return options, nil
}

func runStdin(log logger.Log, streams Streams, options pipeline.Options) error {
	contents, err := io.ReadAll(streams.Stdin)
	if err != nil {
		return err
	}
	source := logger.Source{PrettyPath: "<stdin>", Contents: string(contents)}
	// Code that a pass gave up on is passed through unchanged
	result, err := pipeline.Run(log, source, options)
	if result.JS == nil {
		return err
	}
	if _, writeErr := streams.Stdout.Write(result.JS); writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}

// Problems with the input code were already logged with their location by
// the pipeline. Everything else is logged here without one.
func logFailures(log logger.Log, err error) {
	if err == nil {
		return
	}
	var joined *multierror.Error
	if errors.As(err, &joined) {
		for _, inner := range joined.Errors {
			logFailures(log, inner)
		}
		return
	}
	if !exitcode.IsInputError(err) {
		log.AddError(nil, logger.Loc{}, err.Error())
	}
}

func traceLogger(enabled bool, stderr io.Writer, useColor bool) zerolog.Logger {
	if !enabled {
		return zerolog.Nop()
	}
	writer := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(stderr),
		NoColor:    !useColor,
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(writer).With().Timestamp().Logger()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
