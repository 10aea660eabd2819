package executor

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is how many unchanged lines surround each hunk.
const diffContext = 3

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
	// num is the 1-based line number: in the destination for deletions, in
	// the source for insertions and context.
	num int
}

// renderUnifiedDiff renders a line-based diff between destination and source
// content as hunks of changed regions with surrounding context, one
// line-numbered, sign-marked row per line.
func renderUnifiedDiff(oldContent, newContent string) string {
	lines := lineDiff(oldContent, newContent)

	var sb strings.Builder
	for h, hunk := range groupHunks(lines) {
		if h > 0 {
			sb.WriteString(dimColor.Sprint("───"))
			sb.WriteString("\n")
		}
		for _, line := range hunk {
			writeDiffLine(&sb, line)
		}
	}
	return sb.String()
}

func writeDiffLine(sb *strings.Builder, line diffLine) {
	var sign string
	switch line.op {
	case diffmatchpatch.DiffDelete:
		sign = overwriteColor.Sprint("-")
	case diffmatchpatch.DiffInsert:
		sign = createColor.Sprint("+")
	default:
		sign = " "
	}

	text := line.text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	fmt.Fprintf(sb, "%s %s %s", dimColor.Sprintf("%4d", line.num), sign, text)
}

// lineTokens maps each distinct line to a unique rune so the diff runs over
// one token per line. The library's own line encoding (DiffLinesToChars) does
// not survive a character-level DiffMain once line indices go multi-digit, so
// the mapping lives here instead.
type lineTokens struct {
	byLine  map[string]rune
	byToken map[rune]string
	next    rune
}

func newLineTokens() *lineTokens {
	return &lineTokens{
		byLine:  map[string]rune{},
		byToken: map[rune]string{},
		next:    1,
	}
}

func (t *lineTokens) encode(lines []string) []rune {
	tokens := make([]rune, len(lines))
	for i, line := range lines {
		token, ok := t.byLine[line]
		if !ok {
			// Surrogates do not survive a []rune → string conversion.
			if t.next == 0xD800 {
				t.next = 0xE000
			}
			token = t.next
			t.next++
			t.byLine[line] = token
			t.byToken[token] = line
		}
		tokens[i] = token
	}
	return tokens
}

// lineDiff computes a line-granular diff and numbers every resulting line.
func lineDiff(oldContent, newContent string) []diffLine {
	tokens := newLineTokens()
	oldTokens := tokens.encode(splitLines(oldContent))
	newTokens := tokens.encode(splitLines(newContent))

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(oldTokens, newTokens, false)

	var lines []diffLine
	oldNum, newNum := 0, 0
	for _, d := range diffs {
		for _, token := range d.Text {
			text := tokens.byToken[token]
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				oldNum++
				lines = append(lines, diffLine{op: d.Type, text: text, num: oldNum})
			case diffmatchpatch.DiffInsert:
				newNum++
				lines = append(lines, diffLine{op: d.Type, text: text, num: newNum})
			default:
				oldNum++
				newNum++
				lines = append(lines, diffLine{op: d.Type, text: text, num: newNum})
			}
		}
	}
	return lines
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// groupHunks collapses long unchanged stretches, keeping diffContext lines of
// context around every changed region and merging regions whose context
// overlaps.
func groupHunks(lines []diffLine) [][]diffLine {
	var hunks [][]diffLine
	start, end := -1, -1 // current hunk bounds, inclusive/exclusive

	flush := func() {
		if start >= 0 {
			hunks = append(hunks, lines[start:end])
			start, end = -1, -1
		}
	}

	for i, line := range lines {
		if line.op == diffmatchpatch.DiffEqual {
			continue
		}

		lo := max(i-diffContext, 0)
		hi := min(i+diffContext+1, len(lines))
		if start < 0 {
			start, end = lo, hi
			continue
		}
		if lo <= end {
			end = hi
			continue
		}
		flush()
		start, end = lo, hi
	}
	flush()

	return hunks
}
