package tui

import (
	"strings"
	"testing"
)

func spanText(text []rune, spans []lineSpan) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = string(text[s.start:s.end])
	}
	return out
}

func TestWrapSpansBreaksAtSpaces(t *testing.T) {
	text := []rune("one two three")
	got := spanText(text, wrapSpans(text, 7))
	if len(got) != 2 || got[0] != "one two " || got[1] != "three" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapSpansSplitsLongWords(t *testing.T) {
	text := []rune("abcdefgh ij")
	got := spanText(text, wrapSpans(text, 3))
	want := []string{"abc", "def", "gh ", "ij"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapSpansCoversText(t *testing.T) {
	text := []rune("the quick brown fox jumps over the lazy dog")
	spans := wrapSpans(text, 10)
	if spans[0].start != 0 || spans[len(spans)-1].end != len(text) {
		t.Fatalf("spans must cover the text: %+v", spans)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].start != spans[i-1].end {
			t.Fatalf("spans must be contiguous: %+v", spans)
		}
	}
	if got := wrapSpans(nil, 10); len(got) != 1 || got[0].end != 0 {
		t.Fatalf("expected one empty line, got %+v", got)
	}
}

func TestLineOfAndVisibleLines(t *testing.T) {
	spans := []lineSpan{{0, 5}, {5, 10}, {10, 15}, {15, 20}, {20, 22}}
	cases := []struct {
		pos, line, first, last int
	}{
		{0, 0, 0, 3},
		{5, 1, 0, 3},
		{12, 2, 1, 4},
		{21, 4, 2, 5},
		{22, 4, 2, 5},
	}
	for _, tc := range cases {
		line := lineOf(spans, tc.pos)
		if line != tc.line {
			t.Fatalf("pos %d: expected line %d, got %d", tc.pos, tc.line, line)
		}
		first, last := visibleLines(spans, line, 3)
		if first != tc.first || last != tc.last {
			t.Fatalf("pos %d: expected window [%d,%d), got [%d,%d)", tc.pos, tc.first, tc.last, first, last)
		}
	}
}

func TestWordAt(t *testing.T) {
	target := []rune("one two  three")
	cases := []struct {
		cursor, start, end int
	}{
		{0, 0, 3},
		{2, 0, 3},
		{3, 4, 7},
		{8, 9, 14},
		{13, 9, 14},
		{14, -1, -1},
		{-1, -1, -1},
	}
	for _, tc := range cases {
		start, end := wordAt(target, tc.cursor)
		if start != tc.start || end != tc.end {
			t.Fatalf("cursor %d: expected [%d,%d), got [%d,%d)", tc.cursor, tc.start, tc.end, start, end)
		}
	}
}

func TestStyleRangeKeepsTargetOnMistype(t *testing.T) {
	target := []rune("ab")
	input := []rune("ax")
	got := styleRange(target, input, 0, 2, len(input))
	want := correctStyle.Render("a") + incorrectStyle.Render("b")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStyleRangeWrongSpaceDot(t *testing.T) {
	target := []rune("a b")
	input := []rune("ax")
	got := styleRange(target, input, 0, 3, len(input))
	if !strings.Contains(got, incorrectStyle.Render("•")) {
		t.Fatalf("expected dot for wrong space, got %q", got)
	}
}

func TestStyleRangeRendersOnlyRequestedRunes(t *testing.T) {
	target := []rune("one two three")
	got := styleRange(target, nil, 4, 7, 0)
	want := pendingStyle.Render("t") + pendingStyle.Render("w") + pendingStyle.Render("o")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
