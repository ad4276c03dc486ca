package api

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/disposejs/dispose/internal/config"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/passes"
	"github.com/disposejs/dispose/internal/pipeline"
)

func validateColor(value StderrColor) logger.UseColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelDebug:
		return logger.LevelDebug
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			filtered = append(filtered, Message{Text: msg.Text, Location: location})
		}
	}
	return filtered
}

func transformImpl(input string, transformOpts TransformOptions) TransformResult {
	var log logger.Log
	if transformOpts.LogLevel == LogLevelSilent {
		log = logger.NewDeferLog(logger.LevelNone)
	} else {
		log = logger.NewStderrLog(logger.OutputOptions{
			IncludeSource: true,
			Color:         validateColor(transformOpts.Color),
			LogLevel:      validateLogLevel(transformOpts.LogLevel),
		})
	}

	sourcefile := transformOpts.Sourcefile
	if sourcefile == "" {
		sourcefile = "<stdin>"
	}
	source := logger.Source{PrettyPath: sourcefile, Contents: input}

	options := pipeline.Options{
		Options: config.Options{
			Passes:      transformOpts.Passes,
			Verify:      transformOpts.Verify,
			KeepMarkers: transformOpts.KeepMarkers,
		},
		Logger: zerolog.Nop(),
	}
	result, err := pipeline.Run(log, source, options)

	// Errors that didn't come with a message of their own are turned into one
	if err != nil {
		var parseError *pipeline.ParseError
		var unsupported *passes.UnsupportedPatternError
		if !errors.As(err, &parseError) && !errors.As(err, &unsupported) {
			log.AddError(nil, logger.Loc{}, err.Error())
		}
	}

	msgs := log.Done()
	code := input
	if err == nil {
		code = string(result.JS)
	}
	return TransformResult{
		Errors:   convertMessagesToPublic(logger.Error, msgs),
		Warnings: convertMessagesToPublic(logger.Warning, msgs),
		Code:     code,
		Applied:  result.Applied,
	}
}

func passNamesImpl() []string {
	return passes.Names()
}
