// This API exposes the optimizer as a library. Each call to "Transform" is
// one independent run over one piece of code. It's safe to call from
// several goroutines at once.
//
//   result := api.Transform("const a = /* #__DISPOSE__ */ {b: 1}; f(a.b)", api.TransformOptions{})
//   if len(result.Errors) == 0 {
//     fmt.Print(result.Code) // "f(1);\n"
//   }
package api

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color    StderrColor
	LogLevel LogLevel

	// The passes to run, in order. A nil list means the default order:
	// "fold", "deadcode", "pure", "propagate", "inline", "keys", "iife".
	Passes []string

	// Keep the "#__DISPOSE__" and "#__DISPOSED__FUNCTION__" annotations in
	// the output
	KeepMarkers bool

	// Check that the output parses
	Verify bool

	// The file name used in messages
	Sourcefile string
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	// The input unchanged if there were errors
	Code string

	// The number of rewrites done by each pass
	Applied map[string]int
}

func Transform(input string, options TransformOptions) TransformResult {
	return transformImpl(input, options)
}

// The names of the passes "Transform" accepts
func PassNames() []string {
	return passNamesImpl()
}
