package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

const debugEnv = "RELIC_DEBUG_LEXER"

// newLogger builds the logger shared by the compiler and lexer. --debug
// (or RELIC_DEBUG_LEXER) sends debug records to stderr; --trace also writes
// every debug record as JSON to a file. The returned closer releases the
// trace file.
func newLogger(stderr io.Writer, debug bool, tracePath string) (*slog.Logger, func() error, error) {
	level := slog.LevelWarn
	if debug || os.Getenv(debugEnv) != "" {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}),
	}
	closer := func() error { return nil }

	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return nil, nil, &CLIError{Type: "output", Message: fmt.Sprintf("cannot create trace file %s", tracePath), Details: err.Error()}
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
