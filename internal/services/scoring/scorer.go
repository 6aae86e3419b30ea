package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer names accepted by NewScorer
const (
	ScorerLevenshtein = "levenshtein"
	ScorerCosine      = "cosine"
	ScorerHTTP        = "http"
)

// Scorer computes a similarity value in [0,1] for two texts, 1 being identical
type Scorer interface {
	Similarity(ctx context.Context, text1, text2 string) (float64, error)
}

// ScorerFunc adapts a plain function to the Scorer interface
type ScorerFunc func(ctx context.Context, text1, text2 string) (float64, error)

// Similarity calls f
func (f ScorerFunc) Similarity(ctx context.Context, text1, text2 string) (float64, error) {
	return f(ctx, text1, text2)
}

// Config selects and configures a scorer
type Config struct {
	// Type is one of "levenshtein", "cosine" or "http"; empty means levenshtein
	Type string
	// HTTP holds settings for the remote scorer
	HTTP HTTPConfig
}

// NewScorer builds the scorer named by cfg.Type
func NewScorer(cfg Config) (Scorer, error) {
	switch cfg.Type {
	case "", ScorerLevenshtein:
		return NewLevenshteinScorer(), nil
	case ScorerCosine:
		return NewCosineScorer(), nil
	case ScorerHTTP:
		return NewHTTPScorer(cfg.HTTP)
	default:
		return nil, fmt.Errorf("unknown scorer %q: must be 'levenshtein', 'cosine' or 'http'", cfg.Type)
	}
}

// LevenshteinScorer scores by normalised edit distance over runes
type LevenshteinScorer struct{}

// NewLevenshteinScorer creates a LevenshteinScorer
func NewLevenshteinScorer() *LevenshteinScorer {
	return &LevenshteinScorer{}
}

// Similarity returns 1 - distance/longestLength
func (s *LevenshteinScorer) Similarity(_ context.Context, text1, text2 string) (float64, error) {
	longest := max(utf8.RuneCountInString(text1), utf8.RuneCountInString(text2))
	if longest == 0 {
		return 1, nil
	}
	distance := levenshtein.ComputeDistance(text1, text2)
	return clamp(1 - float64(distance)/float64(longest)), nil
}

// CosineScorer scores by cosine similarity of lower-cased word counts
type CosineScorer struct{}

// NewCosineScorer creates a CosineScorer
func NewCosineScorer() *CosineScorer {
	return &CosineScorer{}
}

// Similarity returns the cosine of the two term-frequency vectors
func (s *CosineScorer) Similarity(_ context.Context, text1, text2 string) (float64, error) {
	freq1 := termFrequencies(text1)
	freq2 := termFrequencies(text2)

	if len(freq1) == 0 && len(freq2) == 0 {
		return 1, nil
	}
	if len(freq1) == 0 || len(freq2) == 0 {
		return 0, nil
	}

	var dot, norm1, norm2 float64
	for term, c1 := range freq1 {
		norm1 += c1 * c1
		if c2, ok := freq2[term]; ok {
			dot += c1 * c2
		}
	}
	for _, c2 := range freq2 {
		norm2 += c2 * c2
	}

	return clamp(dot / (math.Sqrt(norm1) * math.Sqrt(norm2))), nil
}

// termFrequencies splits text into lower-cased words of letters and digits
func termFrequencies(text string) map[string]float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	freq := make(map[string]float64, len(words))
	for _, w := range words {
		freq[w]++
	}
	return freq
}

// clamp forces v into [0,1]; NaN becomes 0
func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
