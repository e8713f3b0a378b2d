package dialtree

import (
	"strconv"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer rates how well a user utterance matches a candidate label, from
// 0 (unrelated) to 100 (identical).
type Scorer func(utterance, candidate string) float64

// DefaultThreshold is the minimum score a candidate must reach before the
// resolver accepts it.
const DefaultThreshold = 50.0

// DefaultScorer returns the built-in scorer: case-insensitive normalized
// Levenshtein similarity scaled to [0, 100].
func DefaultScorer() Scorer {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return func(utterance, candidate string) float64 {
		return strutil.Similarity(utterance, candidate, lev) * 100
	}
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithScorer replaces the similarity function.
func WithScorer(s Scorer) ResolverOption {
	return func(r *Resolver) {
		r.scorer = s
	}
}

// WithThreshold sets the minimum acceptable score, in the scorer's
// [0, 100] range.
func WithThreshold(min float64) ResolverOption {
	return func(r *Resolver) {
		r.threshold = min
	}
}

// WithIndexMatching toggles the ordinal fallback that matches utterances
// like "2" against a candidate's position in a numbered prompt. Enabled
// by default.
func WithIndexMatching(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.indexes = enabled
	}
}

// Resolver maps free-text utterances onto a list of candidate labels.
// Users type approximate, not exact, menu names, so candidates are scored
// with a fuzzy similarity function and the best match above a threshold
// wins. A Resolver is stateless apart from its configuration and may be
// shared across conversations.
type Resolver struct {
	scorer    Scorer
	threshold float64
	indexes   bool
}

// NewResolver creates a Resolver with the given options applied over the
// defaults.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		scorer:    DefaultScorer(),
		threshold: DefaultThreshold,
		indexes:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve picks the candidate best matching utterance. Every candidate is
// scored; if no score reaches the threshold and index matching is
// enabled, the utterance is scored against the ordinal positions
// "1".."N" instead. Ties break toward the earliest-registered candidate,
// so resolution is deterministic for identical inputs. A false ok means
// nothing matched, which is a normal condition, not an error.
func (r *Resolver) Resolve(utterance string, candidates []string) (string, bool) {
	if i, ok := r.best(utterance, candidates); ok {
		return candidates[i], true
	}
	if r.indexes {
		ordinals := make([]string, len(candidates))
		for i := range candidates {
			ordinals[i] = strconv.Itoa(i + 1)
		}
		if i, ok := r.best(utterance, ordinals); ok {
			return candidates[i], true
		}
	}
	return "", false
}

// best returns the index of the highest-scoring candidate at or above the
// threshold. Only a strictly greater score displaces the current best,
// which is what makes ties resolve toward earlier candidates.
func (r *Resolver) best(utterance string, candidates []string) (int, bool) {
	bestIndex := -1
	bestScore := 0.0
	for i, candidate := range candidates {
		if score := r.scorer(utterance, candidate); bestIndex < 0 || score > bestScore {
			bestIndex, bestScore = i, score
		}
	}
	if bestIndex < 0 || bestScore < r.threshold {
		return -1, false
	}
	return bestIndex, true
}
