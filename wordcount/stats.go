package wordcount

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stats is the aggregation produced by exec and threaded through post
// unchanged. Every field round-trips through JSON without loss.
type Stats struct {
	TotalWords        int            `json:"total_words"`
	UniqueWords       int            `json:"unique_words"`
	WordFrequencies   map[string]int `json:"word_frequencies"`
	AverageWordLength float64        `json:"average_word_length"`
	LongestWord       string         `json:"longest_word"`
	ShortestWord      string         `json:"shortest_word"`
}

// CleanText replaces every character that is neither alphanumeric nor
// whitespace with a single space. Alphanumeric and whitespace characters pass
// through, so whitespace splitting downstream sees the same token boundaries.
func CleanText(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, text)
}

// Tokenize splits cleaned text on whitespace runs, drops tokens shorter than
// the configured minimum, normalizes case unless caseSensitive, then drops
// stop words (matched against the normalized token).
func Tokenize(cleaned string, caseSensitive bool, cfg Config) []string {
	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[w] = struct{}{}
	}

	var words []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) < cfg.MinWordLength {
			continue
		}
		if !caseSensitive {
			tok = strings.ToLower(tok)
		}
		if _, isStop := stop[tok]; isStop {
			continue
		}
		words = append(words, tok)
	}
	return words
}

// Aggregate computes the statistics over a token sequence. An empty sequence
// yields the zero-valued result; that is a success, not an error.
//
// Longest/shortest use strict comparisons only, so on a length tie the
// earliest-seen token is retained. That tie-break is observable behavior and
// is kept as-is.
func Aggregate(words []string) Stats {
	if len(words) == 0 {
		return Stats{WordFrequencies: map[string]int{}}
	}

	freqs := make(map[string]int, len(words))
	totalLength := 0
	longest := words[0]
	shortest := words[0]

	for _, word := range words {
		freqs[word]++
		n := utf8.RuneCountInString(word)
		totalLength += n
		if n > utf8.RuneCountInString(longest) {
			longest = word
		}
		if n < utf8.RuneCountInString(shortest) {
			shortest = word
		}
	}

	return Stats{
		TotalWords:        len(words),
		UniqueWords:       len(freqs),
		WordFrequencies:   freqs,
		AverageWordLength: float64(totalLength) / float64(len(words)),
		LongestWord:       longest,
		ShortestWord:      shortest,
	}
}

// RouteLabel classifies a word total into the downstream routing label.
func RouteLabel(totalWords int) string {
	switch {
	case totalWords == 0:
		return "empty"
	case totalWords < 100:
		return "short"
	case totalWords < 1000:
		return "medium"
	default:
		return "long"
	}
}
