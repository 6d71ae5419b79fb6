package command

import (
	"context"
	"io"
	"os"

	"github.com/ape-lang/ape/builtin"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/eval"
	"github.com/ape-lang/ape/module"
	"github.com/ape-lang/ape/parser"
	"github.com/ape-lang/ape/resolver"
	"github.com/ape-lang/ape/sourcebuf"
	"github.com/ape-lang/ape/trace"
	"github.com/logrusorgru/aurora"
	isatty "github.com/mattn/go-isatty"
	cli "github.com/urfave/cli/v2"
)

// color picks a colored or plain aurora.Aurora depending on whether
// stderr is a terminal, matching openllb/hlb's cmd/hlb's isatty check.
func color() aurora.Aurora {
	return aurora.NewAurora(isatty.IsTerminal(os.Stderr.Fd()))
}

// runSource parses, resolves, and evaluates one ape source file, honoring
// the resolved --side-effects/--log/--test/--snippet configuration. baseDir
// is where `mod` statements in src resolve relative paths against.
func runSource(c *cli.Context, filename string, src []byte, baseDir string) error {
	cfg, err := resolveConfig(c, baseDir)
	if err != nil {
		return err
	}

	buf := sourcebuf.New(filename)
	_, _ = buf.Write(src)
	sources := sourcebuf.NewLookup()
	sources.Set(filename, buf)

	ctx := diagnostic.WithColor(context.Background(), color())
	ctx = diagnostic.WithSnippet(ctx, cfg.Snippet)
	ctx = diagnostic.WithSources(ctx, sources)

	stmts, perr := parser.Parse(filename, string(src))
	if perr != nil {
		return reportAndExit(ctx, perr)
	}

	locals, rerr := resolver.Resolve(stmts)
	if rerr != nil {
		return reportAndExit(ctx, rerr)
	}

	e := env.New()
	e.Resolve(locals)

	var tw io.Writer
	if cfg.Log {
		tw = os.Stderr
	}

	opts := []eval.Option{
		eval.WithTracer(trace.New(tw)),
		eval.WithStdlib(builtin.NewLoader(cfg.Test, color(), os.Stdin, os.Stdout, os.Stderr)),
		eval.WithModuleCache(module.NewCache()),
		eval.WithBaseDir(baseDir),
	}
	if !cfg.SideEffects {
		opts = append(opts, eval.WithSideEffectsDisabled())
	}

	interp := eval.New(e, opts...)
	if err := interp.Stmts(stmts); err != nil {
		return reportAndExit(ctx, err)
	}
	return nil
}

// reportAndExit pretty-prints a fatal diagnostic (if err is one) to stderr
// and returns a cli.ExitCoder so main exits 1 without double-printing a
// plain Go error string.
func reportAndExit(ctx context.Context, err error) error {
	if de, ok := diagnostic.AsError(err); ok {
		diagnostic.Print(ctx, os.Stderr, de)
		return cli.Exit("", 1)
	}
	return cli.Exit(err.Error(), 1)
}
