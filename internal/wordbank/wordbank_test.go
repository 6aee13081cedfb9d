package wordbank

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDefaultBucketsRespectLengths(t *testing.T) {
	b := Default()
	cases := []struct {
		cat      Category
		min, max int
	}{
		{Short, 1, 3},
		{Medium, 4, 6},
		{Longer, 7, 1 << 10},
	}
	for _, tc := range cases {
		words := b.WordsByLength(tc.cat)
		if len(words) == 0 {
			t.Fatalf("expected words in category %d", tc.cat)
		}
		for _, w := range words {
			n := utf8.RuneCountInString(w)
			if n < tc.min || n > tc.max {
				t.Fatalf("word %q (len %d) in wrong category %d", w, n, tc.cat)
			}
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	b := Default()
	words := b.WordsByLength(Short)
	words[0] = "mutated"
	if b.WordsByLength(Short)[0] == "mutated" {
		t.Fatalf("expected bank to be unaffected by caller mutation")
	}
	pool := b.SentencePool(Quotes)
	pool[0] = "mutated"
	if b.SentencePool(Quotes)[0] == "mutated" {
		t.Fatalf("expected pool to be unaffected by caller mutation")
	}
}

func TestSentencePools(t *testing.T) {
	b := Default()
	for _, p := range []Pool{Punctuation, Numbers, Quotes} {
		if len(b.SentencePool(p)) == 0 {
			t.Fatalf("expected sentences in pool %d", p)
		}
	}
	if b.SentencePool(Pool(42)) != nil {
		t.Fatalf("expected nil for unknown pool")
	}
}

func TestFromWordsCategorizesAndFilters(t *testing.T) {
	b := FromWords([]string{"Cat", "cat", "house", "keyboard", "co-op", "", "naïve"})
	if got := b.WordsByLength(Short); len(got) != 1 || got[0] != "cat" {
		t.Fatalf("unexpected short words: %v", got)
	}
	if got := b.WordsByLength(Medium); len(got) != 2 {
		t.Fatalf("unexpected medium words: %v", got)
	}
	if got := b.WordsByLength(Longer); len(got) != 1 || got[0] != "keyboard" {
		t.Fatalf("unexpected longer words: %v", got)
	}
	if len(b.SentencePool(Quotes)) == 0 {
		t.Fatalf("expected default sentence pools")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	b, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if b != Default() {
		t.Fatalf("expected default bank for missing file")
	}
}

func TestImportWritesUsableWords(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("# my words\nalpha\nbeta\n\nx-y\nok\n"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dst := filepath.Join(dir, "bank", "words.txt")
	n, err := Import(src, dst)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 words, got %d", n)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if strings.Contains(string(data), "x-y") {
		t.Fatalf("expected invalid word to be dropped: %q", data)
	}
	b, err := Load(dst)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.Size() != 3 {
		t.Fatalf("expected 3 words in bank, got %d", b.Size())
	}
}

func TestImportRejectsUnusableList(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("123\n--\n"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if _, err := Import(src, filepath.Join(dir, "dst.txt")); err == nil {
		t.Fatalf("expected error for list without usable words")
	}
}
