package wordbank

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// LoadWords reads one word per line from the provided file path.
// Blank lines and lines starting with '#' are skipped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Load builds a bank from a word file, keeping only usable words.
func Load(path string) (*Bank, error) {
	words, err := LoadWords(path)
	if err != nil {
		return nil, err
	}
	b := FromWords(words)
	if b.Size() == 0 {
		return nil, fmt.Errorf("word list %s has no usable words", path)
	}
	return b, nil
}

// LoadOrDefault loads the bank at path, or returns the built-in bank when path is empty or missing.
func LoadOrDefault(path string) (*Bank, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat word list: %w", err)
	}
	return Load(path)
}

func isWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
