// Command scm is a tiny Scheme interpreter.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chzyer/readline"
	"github.com/nukata/tiny-scheme-in-go/scm"
	"github.com/spf13/cobra"
)

type options struct {
	interactive bool
	expression  bool
	print       bool
	maxDepth    int
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "scm [file...]",
		Short: "A tiny Scheme interpreter",
		Long: `Scm loads each file in order and then exits.
With no file, or with --interactive, it reads expressions from the terminal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false,
		"Enter the REPL after the files are loaded.")
	cmd.Flags().BoolVarP(&opts.expression, "expression", "e", false,
		"Treat arguments as expressions to evaluate instead of files.")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false,
		"Print the value of each evaluated expression argument.")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", scm.DefaultMaxDepth,
		"Bound on the nesting of non-tail evaluations (negative for none).")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log debug messages to stderr.")
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
		&slog.HandlerOptions{Level: level}))

	cfg := scm.Config{
		Stdout:   cmd.OutOrStdout(),
		MaxDepth: opts.maxDepth,
		Logger:   logger,
	}
	interactive := opts.interactive || len(args) == 0
	var src *lineSource
	if interactive {
		rl, err := readline.New("> ")
		if err != nil {
			return err
		}
		defer rl.Close()
		src = newLineSource(rl, "> ", "| ")
		cfg.Stdin = src
	}
	in := scm.New(cfg)

	for _, arg := range args {
		if !opts.expression {
			if err := in.Load(arg); err != nil {
				return err
			}
			continue
		}
		v, err := in.EvalString(arg)
		if err != nil {
			return err
		}
		if opts.print {
			fmt.Fprintln(cmd.OutOrStdout(), scm.Stringify(v, true))
		}
	}
	logger.Debug("arguments done", slog.Int("count", len(args)),
		slog.Int("maxDepthSeen", in.MaxDepthSeen()))

	if interactive {
		runREPL(in, src, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return nil
}
