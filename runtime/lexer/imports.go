package lexer

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// Source file extensions, in resolution order.
const (
	extRelic      = ".rc"
	extTypedRelic = ".trc"
	extDefinition = ".d.rc"
	indexFile     = "index" + extRelic
)

// importPathRe matches a bare relative or absolute path after "import".
var importPathRe = regexp.MustCompile(`^(?:\.{1,2}/|/)[\w./@-]+`)

func lexImportPath(l *Lexer, chunk string) (int, error) {
	prev := l.prev()
	if prev == nil || prev.Type != types.IMPORT || !l.spaced {
		return 0, nil
	}
	m := importPathRe.FindString(chunk)
	if m == "" {
		return 0, nil
	}
	return len(m), l.include(m, l.span(0, m))
}

// dirname is the directory imports resolve against.
func (l *Lexer) dirname() string {
	if l.cfg.Dirname != "" {
		return l.cfg.Dirname
	}
	if l.cfg.Filename == "" || l.cfg.Filename == source.StdinName {
		return "."
	}
	return filepath.Dir(l.cfg.Filename)
}

// selfPath is the absolute path of the unit being lexed, or "" for stdin.
func (l *Lexer) selfPath() string {
	name := l.cfg.Filename
	if name == "" || name == source.StdinName || strings.HasPrefix(name, "<") {
		return ""
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(l.dirname(), filepath.Base(name))
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	return abs
}

// include lexes the file named by an import statement and splices its
// tokens in place of the statement.
func (l *Lexer) include(path string, loc source.Location) error {
	file, err := l.resolveImport(path, loc)
	if err != nil {
		return err
	}
	self := l.selfPath()
	if l.cfg.ImportGuard[file] || file == self {
		return source.Errorf(source.KindError, loc, "prevented endless loop from import")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return source.Errorf(source.KindError, loc, "cannot read import: %v", err)
	}

	guard := maps.Clone(l.cfg.ImportGuard)
	if self != "" {
		guard[self] = true
	}
	guard[file] = true

	l.logger.Debug("[LEXER] import", "path", path, "file", file, "guard", len(guard))

	opts := []LexerOpt{
		WithFilename(displayPath(file)),
		WithDirname(filepath.Dir(file)),
		WithImportGuard(guard),
		WithPairBase(l.pairSeq),
		WithDepth(l.cfg.Depth),
		WithTypeResolver(l.cfg.TypeResolver),
		WithLogger(l.logger),
	}
	if l.cfg.Definitions {
		opts = append(opts, WithDefinitions())
	}
	res, err := Lex(string(data), opts...)
	if err != nil {
		return err
	}

	l.tokens = l.tokens[:len(l.tokens)-1] // the IMPORT token
	l.tokens = append(l.tokens, res.Tokens...)
	l.merge(res)
	l.port = types.ILLEGAL
	return nil
}

// resolveImport finds the file for path: the path itself, then with the
// .rc and .trc extensions; a directory resolves to its index.rc.
func (l *Lexer) resolveImport(path string, loc source.Location) (string, error) {
	base := path
	if !filepath.IsAbs(base) {
		base = filepath.Join(l.dirname(), path)
	}
	for _, candidate := range []string{base, base + extRelic, base + extTypedRelic} {
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if info.IsDir() {
			index := filepath.Join(candidate, indexFile)
			if st, err := os.Stat(index); err == nil && !st.IsDir() {
				return absPath(index), nil
			}
			continue
		}
		return absPath(candidate), nil
	}

	msg := fmt.Sprintf("file not found: %s", path)
	if s := suggestImport(base); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return "", source.Errorf(source.KindError, loc, "%s", msg)
}

// suggestImport returns the closest sibling of a missing import target.
func suggestImport(base string) string {
	entries, err := os.ReadDir(filepath.Dir(base))
	if err != nil {
		return ""
	}
	var candidates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, extRelic) || strings.HasSuffix(name, extTypedRelic) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	target := filepath.Base(base)
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	for _, c := range candidates {
		stem := strings.TrimSuffix(strings.TrimSuffix(c, extRelic), extTypedRelic)
		if d := fuzzy.LevenshteinDistance(target, stem); d <= bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// readDefinitions adds the sibling .d.rc file as a definition comment.
func (l *Lexer) readDefinitions() error {
	if !l.cfg.Definitions {
		return nil
	}
	self := l.selfPath()
	if self == "" || strings.HasSuffix(self, extDefinition) {
		return nil
	}
	ext := filepath.Ext(self)
	defPath := strings.TrimSuffix(self, ext) + extDefinition
	data, err := os.ReadFile(defPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read definitions %s: %w", defPath, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	l.addComment(types.Comment{
		Text:       text,
		Loc:        source.Span(source.Start(), text, displayPath(defPath)),
		Definition: true,
	})
	return nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// displayPath shortens p relative to the working directory when it lies
// beneath it.
func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
