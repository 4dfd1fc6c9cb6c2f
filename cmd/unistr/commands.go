package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/unistr/internal/app"
	"github.com/dshills/unistr/internal/engine/ustring"
)

// rootFlags holds the flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	delimiter  string
	normalize  string
	keepGoing  bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "unistr",
		Short: "Character-indexed Unicode record tool",
		Long: `unistr reads delimited records and edits them by character position,
never splitting a multi-byte character.

Input comes from the named files, or standard input when none are given.
Settings are read from --config, then UNISTR_* environment variables,
then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to configuration file (.toml, .yaml)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format (console, json)")
	pf.StringVarP(&f.delimiter, "delim", "d", "", "Record delimiter character (default newline)")
	pf.StringVar(&f.normalize, "normalize", "", "Normalize records before processing (NFC, NFD, NFKC, NFKD)")
	pf.BoolVarP(&f.keepGoing, "keep-going", "k", false, "Log failing records and continue")

	root.AddCommand(
		newStatCmd(f),
		newReverseCmd(f),
		newSubstrCmd(f),
		newReplaceCmd(f),
		newNormalizeCmd(f),
		newScriptCmd(f),
		newVersionCmd(),
	)
	return root
}

// newApp creates the application for one command invocation.
func newApp(cmd *cobra.Command, f *rootFlags, allowRead bool) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath: f.configPath,
		LogLevel:   f.logLevel,
		LogFormat:  f.logFormat,
		LogOutput:  cmd.ErrOrStderr(),
		Delimiter:  f.delimiter,
		Normalize:  f.normalize,
		AllowRead:  allowRead,
	})
}

// processInputs applies fn to standard input, or to each named file in
// turn.
func processInputs(cmd *cobra.Command, a *app.Application, f *rootFlags, files []string, op string, fn app.RecordFunc) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var opts []app.ProcessOption
	if f.keepGoing {
		opts = append(opts, app.KeepGoing())
	}

	if len(files) == 0 {
		return a.Process(ctx, cmd.InOrStdin(), out, op, fn, opts...)
	}

	for _, name := range files {
		if err := processFile(ctx, cmd, a, name, op, fn, opts); err != nil {
			return err
		}
	}
	return nil
}

func processFile(ctx context.Context, cmd *cobra.Command, a *app.Application, name, op string, fn app.RecordFunc, opts []app.ProcessOption) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	a.Logger().WithField("file", name).Debug("processing")
	return a.Process(ctx, file, cmd.OutOrStdout(), op, fn, opts...)
}

// recordCommand builds the RunE of a command that applies one RecordFunc.
func recordCommand(f *rootFlags, op string, build func() (app.RecordFunc, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, f, false)
		if err != nil {
			return err
		}
		defer a.Close()

		fn, err := build()
		if err != nil {
			return err
		}
		return processInputs(cmd, a, f, args, op, fn)
	}
}

func newStatCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stat [file...]",
		Short: "Print character, byte, grapheme, width and hash counts per record",
		RunE: recordCommand(f, "stat", func() (app.RecordFunc, error) {
			return app.StatOp(), nil
		}),
	}
}

func newReverseCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse [file...]",
		Short: "Reverse each record by character",
		RunE: recordCommand(f, "reverse", func() (app.RecordFunc, error) {
			return app.ReverseOp(), nil
		}),
	}
}

func newSubstrCmd(f *rootFlags) *cobra.Command {
	var pos, n int

	cmd := &cobra.Command{
		Use:   "substr [file...]",
		Short: "Keep a character range of each record",
		Long: `Keep --len characters of each record starting at character --pos
(zero-based). A negative --len keeps the rest of the record.

Examples:
  unistr substr --pos 2 --len 3 names.txt
  echo "🐉🦊🐭" | unistr substr --pos 1`,
		RunE: recordCommand(f, "substr", func() (app.RecordFunc, error) {
			return app.SubstrOp(pos, n), nil
		}),
	}
	cmd.Flags().IntVarP(&pos, "pos", "p", 0, "First character to keep")
	cmd.Flags().IntVarP(&n, "len", "n", -1, "Number of characters to keep")
	return cmd
}

func newReplaceCmd(f *rootFlags) *cobra.Command {
	var pos, n int
	var with string

	cmd := &cobra.Command{
		Use:   "replace [file...]",
		Short: "Replace a character range of each record",
		Long: `Replace --len characters of each record starting at character --pos
(zero-based) with --with. A negative --len replaces the rest of the record.`,
		RunE: recordCommand(f, "replace", func() (app.RecordFunc, error) {
			return app.ReplaceOp(pos, n, with), nil
		}),
	}
	cmd.Flags().IntVarP(&pos, "pos", "p", 0, "First character to replace")
	cmd.Flags().IntVarP(&n, "len", "n", -1, "Number of characters to replace")
	cmd.Flags().StringVarP(&with, "with", "w", "", "Replacement text")
	return cmd
}

func newNormalizeCmd(f *rootFlags) *cobra.Command {
	var form string

	cmd := &cobra.Command{
		Use:   "normalize [file...]",
		Short: "Convert each record to a Unicode normalization form",
		RunE: recordCommand(f, "normalize", func() (app.RecordFunc, error) {
			nf, err := ustring.ParseForm(form)
			if err != nil {
				return nil, err
			}
			return app.NormalizeOp(nf), nil
		}),
	}
	cmd.Flags().StringVar(&form, "form", "NFC", "Normalization form (NFC, NFD, NFKC, NFKD)")
	return cmd
}

func newScriptCmd(f *rootFlags) *cobra.Command {
	var watch, allowRead bool

	cmd := &cobra.Command{
		Use:   "script <script.lua> [file...]",
		Short: "Run a Lua script over the records",
		Long: `Run a Lua script with the ustr module available.

If the script defines a global process(rec) function it is called for each
record with a ustr String; returning a string or String emits it, returning
nil or false drops the record. Positions in the ustr API are one-based.

With --watch the script is rerun whenever it changes. Watching needs at most
one input file, since standard input cannot be read twice.

Example:
  -- drop_empty.lua
  function process(rec)
    if rec:empty() then return nil end
    return rec
  end`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f, allowRead)
			if err != nil {
				return err
			}
			defer a.Close()

			path, inputs := args[0], args[1:]
			if watch {
				if len(inputs) > 1 {
					return fmt.Errorf("--watch accepts at most one input file: %w", app.ErrInvalidOperation)
				}
				var input string
				if len(inputs) == 1 {
					input = inputs[0]
				}
				return a.WatchScript(cmd.Context(), path, input, cmd.OutOrStdout(), cmd.OutOrStdout())
			}

			script, err := a.LoadScript(cmd.Context(), path, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer script.Close()

			if !script.HasProcess() {
				if len(inputs) > 0 {
					return fmt.Errorf("%s: %w", path, app.ErrNoProcessFunction)
				}
				return nil
			}
			return processInputs(cmd, a, f, inputs, "script", script.RecordFunc())
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Rerun the script when it changes")
	cmd.Flags().BoolVar(&allowRead, "allow-read", false, "Let the script read files with io.lines and io.read_all")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "unistr %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

// exitErr reports whether err should be printed. A canceled run ends
// quietly.
func exitErr(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
