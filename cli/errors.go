package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/relic-lang/relic/core/config"
	"github.com/relic-lang/relic/core/source"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "input", "config", "output"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var (
		serr *source.Error
		cerr *CLIError
		verr *config.ValidationError
	)
	switch {
	case errors.As(err, &serr):
		_, _ = fmt.Fprintln(w, serr.Format(useColor))
	case errors.As(err, &cerr):
		formatCLIError(w, cerr, useColor)
	case errors.As(err, &verr):
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), "invalid "+config.FileName)
		for _, p := range verr.Problems {
			_, _ = fmt.Fprintf(w, "  %s\n", p)
		}
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
