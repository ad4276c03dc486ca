package passes

// Each pass is a visitor. The pipeline registers every enabled pass with one
// traversal, in order, so the passes interleave at each node. A node that a
// pass replaces is visited again by every pass.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/disposejs/dispose/internal/disposable"
	"github.com/disposejs/dispose/internal/js_ast"
	"github.com/disposejs/dispose/internal/js_scope"
	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/traverse"
)

// The state shared by all passes of one run
type Context struct {
	Info    *js_scope.Info
	Markers *disposable.Markers
	Logger  zerolog.Logger

	// The number of rewrites done by each pass
	Applied map[string]int

	// Maps each function copied in by the inliner to the function it was
	// copied from
	inlined map[js_ast.E]interface{}
}

func NewContext(info *js_scope.Info, markers *disposable.Markers, log zerolog.Logger) *Context {
	return &Context{
		Info:    info,
		Markers: markers,
		Logger:  log,
		Applied: make(map[string]int),
		inlined: make(map[js_ast.E]interface{}),
	}
}

func (ctx *Context) applied(pass string, p *traverse.Path, loc logger.Loc) {
	ctx.Applied[pass]++
	ctx.Logger.Debug().
		Str("pass", pass).
		Str("node", nodeKind(p)).
		Int32("loc", loc.Start).
		Msg("rewrite")
}

func nodeKind(p *traverse.Path) string {
	var node interface{}
	switch {
	case p.IsDecl():
		return "Decl"
	case p.IsProperty():
		return "Property"
	case p.IsStmt():
		node = p.Stmt().Data
	default:
		node = p.Expr().Data
	}
	name := fmt.Sprintf("%T", node)
	return strings.TrimPrefix(name, "*js_ast.")
}

type Pass struct {
	Name  string
	Visit func(ctx *Context) traverse.Visitor
}

var registry = map[string]Pass{
	"fold":      {Name: "fold", Visit: Fold},
	"deadcode":  {Name: "deadcode", Visit: DeadCode},
	"pure":      {Name: "pure", Visit: Pure},
	"propagate": {Name: "propagate", Visit: Propagate},
	"inline":    {Name: "inline", Visit: Inline},
	"keys":      {Name: "keys", Visit: Keys},
	"iife":      {Name: "iife", Visit: IIFE},
}

// The order the passes run in when none is configured
var DefaultOrder = []string{"fold", "deadcode", "pure", "propagate", "inline", "keys", "iife"}

func Lookup(name string) (Pass, bool) {
	pass, ok := registry[name]
	return pass, ok
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolves a list of pass names. Unknown names are an error.
func Resolve(names []string) ([]Pass, error) {
	result := make([]Pass, 0, len(names))
	for _, name := range names {
		pass, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown pass %q (valid passes: %s)", name, strings.Join(Names(), ", "))
		}
		result = append(result, pass)
	}
	return result, nil
}

func Visitors(ctx *Context, passes []Pass) []traverse.Visitor {
	visitors := make([]traverse.Visitor, len(passes))
	for i, pass := range passes {
		visitors[i] = pass.Visit(ctx)
	}
	return visitors
}
