// This package implements the "dispose" command line tool. It's a thin layer
// over the pipeline: flags, the ".dispose.yaml" file and "DISPOSE_*"
// environment variables are merged into one set of options, and every input
// file gets its own independent run.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/disposejs/dispose/internal/exitcode"
	"github.com/disposejs/dispose/internal/fs"
)

// Where the command reads and writes. Tests replace all of these.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runs the command with the given arguments (not including the program name)
// and returns the process exit code
func Run(osArgs []string) int {
	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	return run(fs.RealFS(), streams, osArgs)
}

func run(fs fs.FS, streams Streams, osArgs []string) int {
	v := newViper()
	cmd := newCommand(v, fs, streams)
	cmd.SetArgs(osArgs)
	err := cmd.Execute()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			newPainter(streams.Stderr, v.GetString("color")).fatal(err)
		}
	}
	return exitcode.Get(err)
}

// The error was already shown to the user
type reportedError struct {
	error
}

func (e *reportedError) Unwrap() error {
	return e.error
}

func usageError(format string, args ...interface{}) error {
	return exitcode.Set(fmt.Errorf(format, args...), exitcode.Usage)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DISPOSE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func NewCommand(fs fs.FS, streams Streams) *cobra.Command {
	return newCommand(newViper(), fs, streams)
}

func newCommand(v *viper.Viper, fs fs.FS, streams Streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispose [flags] [files...]",
		Short: "Evaluate values annotated with #__DISPOSE__ at build time",
		Long: `Rewrites JavaScript so that values annotated with "/* #__DISPOSE__ */" are
evaluated away: their properties are substituted at each use, calls to
annotated functions are inlined, and the enclosing declarations disappear.

With no files, the code is read from stdin and written to stdout. A single
file is written to stdout unless --outdir or --write is given.`,
		Example: `  # Rewrite one file and print the result
  dispose src/theme.js

  # Rewrite several files into a directory
  dispose --outdir=dist src/*.js

  # Only substitute properties and fold the results
  dispose --passes=propagate,fold < input.js > output.js`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(v, fs, streams, args)
		},
	}

	flags := cmd.Flags()
	flags.String("passes", "", "Comma-separated passes to run, in order (default \"fold,deadcode,pure,propagate,inline,keys,iife\")")
	flags.Bool("keep-markers", false, "Keep the #__DISPOSE__ annotations in the output")
	flags.Bool("verify", false, "Check that the output parses")
	flags.Bool("trace", false, "Log every rewrite to stderr")
	flags.String("outdir", "", "Write each result into this directory")
	flags.BoolP("write", "w", false, "Write each result over its input file")
	flags.String("config", "", "Use this configuration file instead of searching for \".dispose.yaml\"")
	flags.String("log-level", "info", "Which messages to show (debug, info, warning, error, silent)")
	flags.Bool("timing", false, "Print how long each stage took")
	flags.String("color", "auto", "Use color escapes in terminal output (auto, true, false)")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	cmd.SetIn(streams.Stdin)
	cmd.SetOut(streams.Stdout)
	cmd.SetErr(streams.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.Set(err, exitcode.Usage)
	})

	return cmd
}
