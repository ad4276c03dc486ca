package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"github.com/disposejs/dispose/internal/cli_helpers"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/pipeline"
)

type painter struct {
	out          io.Writer
	terminalInfo logger.TerminalInfo
	red          *color.Color
	green        *color.Color
	dim          *color.Color
	bold         *color.Color
}

// Parses the "--color" value leniently since this is also used to print the
// error for an invalid value
func newPainter(out io.Writer, colorFlag string) *painter {
	useColor, _ := cli_helpers.ParseColor(colorFlag)
	return newPainterWithColor(out, useColor)
}

func newPainterWithColor(out io.Writer, useColor logger.UseColor) *painter {
	var info logger.TerminalInfo
	if f, ok := out.(*os.File); ok {
		info = logger.GetTerminalInfo(f)
	}
	switch useColor {
	case logger.ColorNever:
		info.UseColorEscapes = false
	case logger.ColorAlways:
		info.UseColorEscapes = logger.SupportsColorEscapes
	}

	p := &painter{
		out:          out,
		terminalInfo: info,
		red:          color.New(color.FgRed, color.Bold),
		green:        color.New(color.FgGreen),
		dim:          color.New(color.Faint),
		bold:         color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.red, p.green, p.dim, p.bold} {
		if info.UseColorEscapes {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *painter) useColorEscapes() bool {
	return p.terminalInfo.UseColorEscapes
}

func (p *painter) fatal(err error) {
	p.red.Fprint(p.out, "error:")
	fmt.Fprintf(p.out, " %s\n", err.Error())
}

func (p *painter) messages(msgs []logger.Msg) {
	options := logger.OutputOptions{IncludeSource: true}
	for _, msg := range msgs {
		io.WriteString(p.out, msg.String(options, p.terminalInfo))
	}
}

// Lists the files that were written along with what was done to them
func (p *painter) summary(results []pipeline.FileResult, err error) {
	written := 0
	for _, result := range results {
		if result.OutputPath == "" {
			continue
		}
		written++
		fmt.Fprintf(p.out, "  %s  %s\n", p.bold.Sprint(result.OutputPath), p.dim.Sprint(describeApplied(result.Applied)))
	}

	failed := 0
	if err != nil {
		failed = 1
		if joined, ok := err.(*multierror.Error); ok {
			failed = len(joined.Errors)
		}
	}

	switch {
	case failed > 0:
		p.red.Fprintf(p.out, "%s failed\n", plural("file", failed))
	case written > 0:
		p.green.Fprintf(p.out, "Wrote %s\n", plural("file", written))
	}
}

func describeApplied(applied map[string]int) string {
	names := make([]string, 0, len(applied))
	for name, count := range applied {
		if count > 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "(unchanged)"
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %d", name, applied[name])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func plural(noun string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}
