// Package generator builds typing text sequences.
package generator

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/flowtype/internal/flow"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/wordbank"
)

const (
	minimumWordFloor  = 5000
	minimumMultiplier = 10
	quoteSelection    = 20
	flowPrealloc      = 1 << 16

	// MaxTargetCount is the largest target count Generate honors.
	// Larger requests are clamped to it.
	MaxTargetCount = 10000
)

// pattern is the repeating word-length rhythm used by flow generation.
var pattern = [6]wordbank.Category{
	wordbank.Short,
	wordbank.Medium,
	wordbank.Short,
	wordbank.Short,
	wordbank.Medium,
	wordbank.Longer,
}

var fallbackOrder = map[wordbank.Category][]wordbank.Category{
	wordbank.Short:  {wordbank.Medium, wordbank.Longer},
	wordbank.Medium: {wordbank.Short, wordbank.Longer},
	wordbank.Longer: {wordbank.Medium, wordbank.Short},
}

// Generator produces randomized typing text.
type Generator struct {
	rnd  *rand.Rand
	bank *wordbank.Bank
}

// New returns a Generator seeded with the current time.
// A nil bank selects the built-in word bank.
func New(bank *wordbank.Bank) *Generator {
	return NewWithSeed(bank, time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(bank *wordbank.Bank, seed int64) *Generator {
	if bank == nil {
		bank = wordbank.Default()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), bank: bank}
}

// MinimumWords returns the over-generation floor for a requested count.
func MinimumWords(requested int) int {
	if requested < 0 {
		requested = 0
	}
	if requested > math.MaxInt/minimumMultiplier {
		return math.MaxInt
	}
	return max(minimumWordFloor, minimumMultiplier*requested)
}

// Generate returns space-joined practice text for the request.
// Unknown modes fall back to flow generation.
// TargetCount is clamped to [0, MaxTargetCount].
func (g *Generator) Generate(req model.GenerationRequest) string {
	req.TargetCount = min(max(req.TargetCount, 0), MaxTargetCount)
	minWords := MinimumWords(req.TargetCount)
	switch req.Mode {
	case model.ModePunctuation:
		return g.repeatShuffled(g.bank.SentencePool(wordbank.Punctuation), minWords)
	case model.ModeNumbers:
		return g.repeatShuffled(g.bank.SentencePool(wordbank.Numbers), minWords)
	case model.ModeQuote:
		return g.quotes(minWords)
	case model.ModeCustom:
		return repeatText(req.CustomText, minWords)
	case model.ModeZen:
		return strings.Join(g.FlowWords(2*minWords), " ")
	default:
		return strings.Join(g.FlowWords(max(minWords, req.TargetCount)), " ")
	}
}

// FlowWords returns n words following the length rhythm, biased toward high flow scores.
func (g *Generator) FlowWords(n int) []string {
	if n <= 0 {
		return nil
	}
	bank := g.bank
	if bank.Size() == 0 {
		bank = wordbank.Default()
	}

	var buckets [3][]string
	for _, c := range []wordbank.Category{wordbank.Short, wordbank.Medium, wordbank.Longer} {
		buckets[c] = g.rankBucket(bank.WordsByLength(c))
	}

	var cursors [3]int
	out := make([]string, 0, min(n, flowPrealloc))
	for i := 0; i < n; i++ {
		c := resolveCategory(buckets, pattern[i%len(pattern)])
		bucket := buckets[c]
		out = append(out, bucket[cursors[c]%len(bucket)])
		cursors[c]++
	}
	return out
}

// rankBucket shuffles words and then orders them by descending flow score.
// Equal scores keep their shuffled order.
func (g *Generator) rankBucket(words []string) []string {
	g.shuffle(words)
	entries := make([]flow.Entry, len(words))
	for i, w := range words {
		entries[i] = flow.NewEntry(w)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i, e := range entries {
		words[i] = e.Word
	}
	return words
}

func resolveCategory(buckets [3][]string, want wordbank.Category) wordbank.Category {
	if len(buckets[want]) > 0 {
		return want
	}
	for _, c := range fallbackOrder[want] {
		if len(buckets[c]) > 0 {
			return c
		}
	}
	return want
}

func (g *Generator) repeatShuffled(pool []string, minWords int) string {
	if len(pool) == 0 {
		return strings.Join(g.FlowWords(minWords), " ")
	}
	parts := make([]string, 0, len(pool))
	count := 0
	for count < minWords {
		g.shuffle(pool)
		for _, s := range pool {
			parts = append(parts, s)
			count += WordCount(s)
		}
	}
	return strings.Join(parts, " ")
}

func (g *Generator) quotes(minWords int) string {
	pool := g.bank.SentencePool(wordbank.Quotes)
	if len(pool) == 0 {
		return strings.Join(g.FlowWords(minWords), " ")
	}
	g.shuffle(pool)
	n := min(quoteSelection, len(pool))
	parts := append([]string(nil), pool[:n]...)
	count := 0
	for _, q := range parts {
		count += WordCount(q)
	}
	for count < minWords {
		g.shuffle(pool)
		for _, q := range pool {
			parts = append(parts, q)
			count += WordCount(q)
		}
	}
	return strings.Join(parts, " ")
}

// shuffle is an in-place Fisher–Yates permutation.
func (g *Generator) shuffle(items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func repeatText(text string, minWords int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		words = strings.Fields(wordbank.FallbackSentence())
	}
	unit := strings.Join(words, " ")
	reps := (minWords + len(words) - 1) / len(words)
	if reps < 1 {
		reps = 1
	}
	parts := make([]string, reps)
	for i := range parts {
		parts[i] = unit
	}
	return strings.Join(parts, " ")
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// TakeWords returns the first n words of text joined by single spaces.
// A non-positive n returns the whole text normalized.
func TakeWords(text string, n int) string {
	words := strings.Fields(text)
	if n > 0 && n < len(words) {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// TakeSentences returns at least n words of text, extended to the end of the sentence in progress.
func TakeSentences(text string, n int) string {
	words := strings.Fields(text)
	end := min(max(n, 1), len(words))
	for end < len(words) && !endsSentence(words[end-1]) {
		end++
	}
	return strings.Join(words[:end], " ")
}

func endsSentence(word string) bool {
	word = strings.TrimRight(word, `"')`)
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}
