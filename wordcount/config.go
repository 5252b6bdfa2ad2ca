package wordcount

import "encoding/json"

// Config holds the per-exec tuning of the word counter. Immutable for the
// duration of one exec call.
type Config struct {
	// MinWordLength drops tokens shorter than this many characters
	MinWordLength int `json:"min_word_length"`

	// StopWords are excluded from counting, matched against the
	// normalized token
	StopWords []string `json:"stop_words"`
}

// defaultStopWords is the fixed list of common function words excluded by
// default.
var defaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
	"to", "was", "will", "with",
}

// DefaultConfig returns the config used when the request carries none.
func DefaultConfig() Config {
	stop := make([]string, len(defaultStopWords))
	copy(stop, defaultStopWords)
	return Config{
		MinWordLength: 1,
		StopWords:     stop,
	}
}

// parseConfig overlays a raw config document on the defaults. Fields absent
// from the document keep their default; an unparseable document falls back to
// the defaults entirely, same as a missing one.
func parseConfig(raw json.RawMessage) Config {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}
