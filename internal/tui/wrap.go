package tui

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// lineSpan is a wrapped line as a half-open range of rune indices into the reference.
type lineSpan struct {
	start int
	end   int
}

// wrapSpans breaks text at spaces so every line fits width columns, not counting the
// space a line ends on. Words longer than width are split.
func wrapSpans(text []rune, width int) []lineSpan {
	if width <= 0 || len(text) == 0 {
		return []lineSpan{{0, len(text)}}
	}
	var spans []lineSpan
	start, lineWidth, lastSpace := 0, 0, -1
	for i, r := range text {
		w := runewidth.RuneWidth(r)
		if r == ' ' {
			lineWidth += w
			lastSpace = i
			continue
		}
		if lineWidth+w > width && i > start {
			cut := i
			if lastSpace >= start {
				cut = lastSpace + 1
			}
			spans = append(spans, lineSpan{start, cut})
			start = cut
			lastSpace = -1
			lineWidth = runewidth.StringWidth(string(text[start:i]))
		}
		lineWidth += w
	}
	return append(spans, lineSpan{start, len(text)})
}

// lineOf returns the index of the span holding pos; positions past the end map to the last line.
func lineOf(spans []lineSpan, pos int) int {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].end > pos })
	return min(i, len(spans)-1)
}

// visibleLines picks up to n lines, keeping one line of context above the cursor line.
func visibleLines(spans []lineSpan, cursorLine, n int) (first, last int) {
	first = max(cursorLine-1, 0)
	last = min(first+n, len(spans))
	first = max(last-n, 0)
	return first, last
}

// wordAt returns the word under the cursor, or the next word when the cursor sits on a space.
func wordAt(target []rune, cursor int) (start, end int) {
	if cursor < 0 || cursor >= len(target) {
		return -1, -1
	}
	start = cursor
	for start < len(target) && target[start] == ' ' {
		start++
	}
	if start == len(target) {
		return -1, -1
	}
	for start > 0 && target[start-1] != ' ' {
		start--
	}
	end = start
	for end < len(target) && target[end] != ' ' {
		end++
	}
	return start, end
}

// styleRange renders target[from:to] colored against the typed input.
func styleRange(target, input []rune, from, to, cursor int) string {
	wordStart, wordEnd := wordAt(target, cursor)
	var b strings.Builder
	for i := from; i < to; i++ {
		displayed := target[i]
		style := pendingStyle
		if i < len(input) {
			switch {
			case displayed == ' ' && input[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case input[i] == displayed:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if displayed != ' ' && i >= wordStart && i < wordEnd {
			style = currentWordStyle
		}
		if i == cursor && i >= len(input) {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(string(displayed)))
	}
	return b.String()
}
