package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/relic-lang/relic/core/tokfmt"
	"github.com/relic-lang/relic/runtime/compiler"
)

func newTokensCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "text" && opts.format != "json" {
				return &CLIError{
					Type:    "input",
					Message: fmt.Sprintf("unknown format %q", opts.format),
					Hint:    "use --format text or --format json",
				}
			}
			return opts.run(cmd, args, func(w io.Writer, u *unit, out *compiler.Output) error {
				if opts.format == "json" {
					return writeJSON(w, u, out)
				}
				writeTable(w, out, opts.useColor)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when the file changes")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Lex and parse a source file, reporting the first error",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args, func(w io.Writer, u *unit, out *compiler.Output) error {
				_, err := fmt.Fprintf(w, "%s %s: %d tokens\n", Colorize("ok", ColorGreen, opts.useColor), u.name, len(out.Tokens))
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when the file changes")
	return cmd
}

func newDumpCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Write the token stream in the binary .rtok format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := readUnit(args, opts.stdin, opts.piped())
			if err != nil {
				return err
			}
			target := opts.output
			if target == "" {
				if u.stdin() {
					return &CLIError{
						Type:    "output",
						Message: "no output file for standard input",
						Hint:    "pass -o <file>.rtok",
					}
				}
				target = u.path + ".rtok"
			}

			out, err := opts.compile(u)
			if err != nil {
				return err
			}
			var flags tokfmt.Flags
			if out.IsTypeScript {
				flags |= tokfmt.FlagTypeScript
			}
			if opts.elson {
				flags |= tokfmt.FlagELSON
			}

			d := &tokfmt.Dump{
				Flags:    flags,
				Source:   u.name,
				Tokens:   out.Tokens,
				Comments: out.Comments,
			}
			digest, err := writeDump(target, func(w io.Writer) ([32]byte, error) { return tokfmt.Write(w, d) })
			if err != nil {
				return err
			}
			opts.logger.Debug("[CLI] dump", "file", target, "tokens", len(out.Tokens))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s blake2b:%s\n", target, hex.EncodeToString(digest[:]))
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: <file>.rtok)")
	return cmd
}

// writeDump creates target and fills it with write. A failed write leaves
// no partial file behind.
func writeDump(target string, write func(io.Writer) ([32]byte, error)) ([32]byte, error) {
	f, err := os.Create(target)
	if err != nil {
		return [32]byte{}, &CLIError{Type: "output", Message: fmt.Sprintf("cannot create %s", target), Details: err.Error()}
	}
	digest, err := write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return [32]byte{}, fmt.Errorf("write %s: %w", target, err)
	}
	return digest, nil
}

// run compiles the input once, or on every change with --watch, and hands
// the result to show.
func (o *options) run(cmd *cobra.Command, args []string, show func(io.Writer, *unit, *compiler.Output) error) error {
	once := func() error {
		u, err := readUnit(args, o.stdin, o.piped())
		if err != nil {
			return err
		}
		out, err := o.compile(u)
		if err != nil {
			return err
		}
		return show(cmd.OutOrStdout(), u, out)
	}

	if !o.watch {
		return once()
	}
	if len(args) == 0 || args[0] == "-" {
		return &CLIError{Type: "input", Message: "--watch needs a file", Hint: "standard input cannot be watched"}
	}
	return watch(cmd.Context(), args[0], o.logger, func() {
		if err := once(); err != nil {
			FormatError(cmd.ErrOrStderr(), err, o.useColor)
		}
	})
}
