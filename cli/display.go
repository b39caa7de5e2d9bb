package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/relic-lang/relic/core/types"
	"github.com/relic-lang/relic/runtime/compiler"
)

// writeTable prints one token per row: position, tag, value and flags.
// Generated tokens are dimmed.
func writeTable(w io.Writer, out *compiler.Output, useColor bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tok := range out.Tokens {
		row := fmt.Sprintf("%s\t%s\t%s\t%s", tok.Loc.Position(), tok.Type, displayValue(tok), tok.Flags)
		if tok.Annotation != nil {
			row += "\t: " + tok.Annotation.Text
		}
		if tok.Generated() {
			row = Colorize(row, ColorGray, useColor)
		}
		_, _ = fmt.Fprintln(tw, row)
	}
	_ = tw.Flush()

	if out.IsTypeScript {
		_, _ = fmt.Fprintln(w, Colorize("typescript", ColorCyan, useColor))
	}
}

func displayValue(tok types.Token) string {
	if tok.Type == types.NEWLINE {
		return strconv.Itoa(tok.Count)
	}
	if tok.Value == "" {
		return "-"
	}
	return strconv.Quote(tok.Value)
}

type jsonOutput struct {
	File       string          `json:"file"`
	TypeScript bool            `json:"typescript"`
	Tokens     []types.Token   `json:"tokens"`
	Comments   []types.Comment `json:"comments,omitempty"`
	Names      []string        `json:"names,omitempty"`
}

func writeJSON(w io.Writer, u *unit, out *compiler.Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{
		File:       u.name,
		TypeScript: out.IsTypeScript,
		Tokens:     out.Tokens,
		Comments:   out.Comments,
		Names:      out.Names,
	})
}
