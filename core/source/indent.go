package source

import "strings"

const (
	// DefaultTabSize is used when nothing in the source suggests otherwise.
	DefaultTabSize = 2

	maxGuessLines = 100
	maxTabGuess   = 8
)

// tabGuesses are tried in order; a later guess wins only with a strictly higher score.
var tabGuesses = []int{2, 4, 6, 8, 3, 5, 7}

// GuessTabSize infers how many spaces make one indentation level.
//
// It compares the leading spaces of consecutive non-blank lines among the
// first hundred, counts how often each difference occurs, and picks the
// most frequent allowed width above a tenth of the lines inspected.
func GuessTabSize(src string) int {
	lines := strings.Split(src, "\n")
	linesCount := min(len(lines), maxGuessLines)

	var diffCount [maxTabGuess + 1]int
	prevText, prevIndent := "", 0

	for _, text := range lines[:linesCount] {
		indent, ok := leadingSpaces(text)
		if !ok {
			continue
		}

		diff, alignment := spacesDiff(prevText, prevIndent, text, indent)
		if alignment && diff == DefaultTabSize {
			continue
		}
		if diff <= maxTabGuess {
			diffCount[diff]++
		}

		prevText, prevIndent = text, indent
	}

	tabSize := DefaultTabSize
	score := 0.1 * float64(linesCount)
	for _, guess := range tabGuesses {
		if float64(diffCount[guess]) > score {
			score = float64(diffCount[guess])
			tabSize = guess
		}
	}

	if tabSize == 8 && diffCount[8] > 0 && diffCount[4] > 0 {
		tabSize = 4
	}
	if tabSize == 4 && diffCount[4] > 0 && diffCount[2] > 0 {
		tabSize = 2
	}
	return tabSize
}

// leadingSpaces reports the index of the first non-space byte, and false for
// lines made only of spaces.
func leadingSpaces(line string) (int, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' {
			return i, true
		}
	}
	return 0, false
}

// spacesDiff measures the indentation change from line a to line b after
// their common prefix, and whether b looks aligned to a token of a rather
// than indented, as in:
//
//	const a = b + c,
//	      d = b - c
func spacesDiff(a string, aLen int, b string, bLen int) (int, bool) {
	i := 0
	for i < aLen && i < bLen && a[i] == b[i] {
		i++
	}

	aSpaces := aLen - i
	bSpaces := bLen - i
	diff := aSpaces - bSpaces
	if diff < 0 {
		diff = -diff
	}

	alignment := false
	if diff > 0 && bSpaces-1 >= 0 && bSpaces-1 < len(a) && bSpaces < len(b) {
		if b[bSpaces] != ' ' && a[bSpaces-1] == ' ' && strings.HasSuffix(a, ",") {
			alignment = true
		}
	}
	return diff, alignment
}
