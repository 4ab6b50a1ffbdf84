// Command bphook merges the functions of a hook blueprint into an original
// blueprint.
//
//	bphook --mappings types.yaml Hook.uasset Original.uasset
//
// Functions named hook_F replace F in the original, which stays callable as
// orig_F. Any other new function is added as is.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jessevdk/go-flags"
	"github.com/wippyai/blueprint-hook/merge"
	"github.com/wippyai/blueprint-hook/runner"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	hookedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, tty))
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, tty bool) int {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	p := printer{out: stdout, errOut: stderr, styled: tty}
	logger, err := newLogger(opts.Verbose)
	if err != nil {
		p.fail(err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	merge.SetLogger(logger)
	runner.SetLogger(logger)

	cfg, err := opts.Config()
	if err != nil {
		p.fail(err)
		return 1
	}
	if opts.Interactive {
		if !tty {
			p.fail(errors.New("interactive mode needs a terminal"))
			return 1
		}
		cfg.Confirm = confirm
	}

	result, err := runner.Run(ctx, cfg)
	if err != nil {
		p.fail(err)
		return 1
	}
	p.result(result, cfg.DryRun)
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

type printer struct {
	out    io.Writer
	errOut io.Writer
	styled bool
}

func (p printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p printer) fail(err error) {
	fmt.Fprintln(p.errOut, p.render(errorStyle, "error: "+err.Error()))
}

func (p printer) result(r *runner.Result, dryRun bool) {
	if r.Declined {
		fmt.Fprintln(p.out, p.render(noteStyle, "merge declined, nothing written"))
		return
	}
	if r.Report.NoOp {
		fmt.Fprintln(p.out, p.render(noteStyle, "nothing to merge, output left untouched"))
		return
	}

	for _, inst := range r.Report.Installed {
		style, mark := addedStyle, "+"
		if inst.Kind == merge.Hooked {
			style, mark = hookedStyle, "~"
		}
		fmt.Fprintf(p.out, "%s %s %s\n", p.render(style, mark), inst.Name, p.render(noteStyle, inst.Kind.String()+" at "+inst.Index.String()))
	}
	if n := len(r.Report.Imports); n > 0 {
		fmt.Fprintln(p.out, p.render(noteStyle, fmt.Sprintf("%d imports added", n)))
	}

	switch {
	case dryRun:
		fmt.Fprintln(p.out, p.render(noteStyle, "dry run, "+r.Output+" not written"))
	case r.Written:
		fmt.Fprintf(p.out, "wrote %s\n", r.Output)
	}
}
