package lexer

import (
	"unicode"
	"unicode/utf8"
)

// ASCII lookup tables; runes >= 128 fall back to the unicode package.
//
//	if ch < 128 && isIdentStart[ch] { ... }
var (
	isBlank      [128]bool // space and tab
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // a-z, A-Z, _ and $
	isIdentPart  [128]bool // identifier start or digit
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isBlank[i] = ch == ' ' || ch == '\t'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '$'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

// blank and digit take raw bytes; bytes of multi-byte runes are neither.
func blank(c byte) bool { return c < 128 && isBlank[c] }

func digit(c byte) bool { return c < 128 && isDigit[c] }

func identStart(r rune) bool {
	if r < 128 {
		return isIdentStart[r]
	}
	return unicode.IsLetter(r)
}

func identPart(r rune) bool {
	if r < 128 {
		return isIdentPart[r]
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// scanIdent returns the length in bytes of the identifier at the head of s.
//
// Identifiers: [\pL_$][\pL\pN_$]*
func scanIdent(s string) int {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !identStart(r) {
		return 0
	}
	n := size
	for n < len(s) {
		r, size = utf8.DecodeRuneInString(s[n:])
		if !identPart(r) {
			break
		}
		n += size
	}
	return n
}

// skipBlanks returns s without leading spaces and tabs.
func skipBlanks(s string) string {
	i := 0
	for i < len(s) && blank(s[i]) {
		i++
	}
	return s[i:]
}

// firstRune returns the first rune of s as a string, for error messages.
func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

func firstRuneValue(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
