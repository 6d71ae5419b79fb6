package diagnostic

import (
	"context"

	"github.com/ape-lang/ape/sourcebuf"
	"github.com/logrusorgru/aurora"
)

type (
	sourcesKey struct{}
	colorKey   struct{}
	snippetKey struct{}
)

func WithSources(ctx context.Context, sources *sourcebuf.Lookup) context.Context {
	return context.WithValue(ctx, sourcesKey{}, sources)
}

func Sources(ctx context.Context) *sourcebuf.Lookup {
	sources, ok := ctx.Value(sourcesKey{}).(*sourcebuf.Lookup)
	if !ok {
		return sourcebuf.NewLookup()
	}
	return sources
}

func WithColor(ctx context.Context, color aurora.Aurora) context.Context {
	return context.WithValue(ctx, colorKey{}, color)
}

func Color(ctx context.Context) aurora.Aurora {
	color, ok := ctx.Value(colorKey{}).(aurora.Aurora)
	if !ok {
		return aurora.NewAurora(false)
	}
	return color
}

// WithSnippet sets the number of context lines (config.snippet) to
// render around a diagnostic; negative disables snippets entirely.
func WithSnippet(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, snippetKey{}, n)
}

// Snippet returns the configured snippet context width, defaulting to 2.
func Snippet(ctx context.Context) int {
	n, ok := ctx.Value(snippetKey{}).(int)
	if !ok {
		return 2
	}
	return n
}
