package wordbank

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Import validates the word file at src and installs its usable words at dst.
// The write holds an exclusive lock on dst+".lock" and replaces dst atomically.
// It returns the number of words written.
func Import(src, dst string) (int, error) {
	words, err := LoadWords(src)
	if err != nil {
		return 0, fmt.Errorf("failed to read word list: %w", err)
	}
	b := FromWords(words)
	if b.Size() == 0 {
		return 0, fmt.Errorf("word list %s has no usable words", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create word bank dir: %w", err)
	}
	lock := flock.New(dst + ".lock")
	if err := lock.Lock(); err != nil {
		return 0, fmt.Errorf("failed to acquire lock on %s: %w", dst, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), "wordbank-*.txt")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	count := 0
	for _, c := range []Category{Short, Medium, Longer} {
		for _, w := range b.words[c] {
			if _, err := fmt.Fprintln(writer, w); err != nil {
				return 0, fmt.Errorf("failed to write word list: %w", err)
			}
			count++
		}
	}
	if err := writer.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("failed to write word list: %w", err)
	}
	return count, nil
}
