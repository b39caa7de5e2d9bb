// Package cli implements the relic command.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/relic-lang/relic/core/config"
	"github.com/relic-lang/relic/runtime/compiler"
)

// Version is the toolchain version checked against relic.toml requires.
const Version = "0.1.0"

type options struct {
	configPath string
	tabSize    int
	elson      bool
	noColor    bool
	debug      bool
	trace      string
	format     string
	output     string
	watch      bool

	// set by the persistent pre-run
	cfg      *config.Config
	logger   *slog.Logger
	useColor bool
	closeLog func() error

	stdin io.Reader
	piped func() bool
}

// NewRootCmd builds the relic command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{stdin: os.Stdin, piped: hasPipedInput})
}

func newRootCmd(opts *options) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:           "relic",
		Short:         "Lex and check Relic sources",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to relic.toml (default: searched from the input file upwards)")
	flags.IntVar(&opts.tabSize, "tab-size", 0, "Spaces per indentation level (default: guessed)")
	flags.BoolVar(&opts.elson, "elson", false, "Lex the ELSON data dialect")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug output")
	flags.StringVar(&opts.trace, "trace", "", "Write a JSON debug trace to this file")

	rootCmd.AddCommand(newTokensCmd(opts), newCheckCmd(opts), newDumpCmd(opts))
	return rootCmd
}

// Execute runs the relic command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &options{stdin: os.Stdin, piped: hasPipedInput}
	defer func() {
		if opts.closeLog != nil {
			_ = opts.closeLog()
		}
	}()

	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		FormatError(stderr, err, ShouldUseColor(hasFlag(args, "--no-color")))
		return 1
	}
	return 0
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// setup loads relic.toml and builds the logger before any subcommand runs.
func (o *options) setup(cmd *cobra.Command, args []string) error {
	if in := cmd.InOrStdin(); in != os.Stdin {
		o.stdin = in
		o.piped = func() bool { return true }
	}

	path := o.configPath
	if path == "" {
		start := "."
		if len(args) > 0 && args[0] != "-" {
			start = args[0]
		}
		path = config.Find(start)
	}
	o.cfg = config.Default()
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if err := o.cfg.CheckRequires(Version); err != nil {
		return &CLIError{Type: "config", Message: err.Error(), Hint: "upgrade relic or lower requires in " + config.FileName}
	}

	if !cmd.Flags().Changed("tab-size") {
		o.tabSize = o.cfg.Lexer.TabSize
	}
	o.elson = o.elson || o.cfg.Lexer.ELSON
	if f := cmd.Flags().Lookup("format"); f != nil && !f.Changed && o.cfg.Output.Format != "" {
		o.format = o.cfg.Output.Format
	}
	o.useColor = !o.noColor && o.cfg.ColorEnabled() && ShouldUseColor(false)

	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), o.debug, o.trace)
	if err != nil {
		return err
	}
	o.logger, o.closeLog = logger, closeLog
	if o.cfg.Path != "" {
		o.logger.Debug("[CLI] config", "path", o.cfg.Path)
	}
	return nil
}

// compile compiles u with the effective settings.
func (o *options) compile(u *unit) (*compiler.Output, error) {
	opts := []compiler.Opt{
		compiler.WithFilename(u.name),
		compiler.WithDirname(u.dir),
		compiler.WithTabSize(o.tabSize),
		compiler.WithLogger(o.logger),
	}
	if o.elson {
		opts = append(opts, compiler.WithELSON())
	}
	if o.cfg.Lexer.Definitions {
		opts = append(opts, compiler.WithDefinitions())
	}
	return compiler.Compile(u.src, opts...)
}
