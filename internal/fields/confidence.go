package fields

import "strings"

// Strategy certainty and blend weights. Scoring is a pure, named-weight
// function so suggestion behavior stays reproducible across runs.
const (
	certaintyDictionary = 0.95 // exact reference-dictionary hit
	certaintyAnchor     = 0.85 // value following a printed label
	certaintyPattern    = 0.70 // structural match (date-like token)

	// Fuzzy certainty scales with similarity below the exact ceiling.
	fuzzyCeiling = 0.80

	ocrWeight      = 0.45
	strategyWeight = 0.55
)

// blend combines the OCR token score within the matched span with the
// strategy certainty, bounded to [0,1].
func blend(ocrScore, strategyCertainty float64) float64 {
	c := ocrWeight*ocrScore + strategyWeight*strategyCertainty
	return clamp01(c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// tokenScorer resolves the mean OCR confidence for a candidate value from
// the engine's per-token sequence. Tokens are matched by containment in the
// candidate text; when the engine supplied no scores, the configured
// default applies.
type tokenScorer struct {
	tokens   []scoredToken
	fallback float64
}

type scoredToken struct {
	upper string
	score float64
}

func newTokenScorer(tokens []scoredToken, fallback float64) *tokenScorer {
	return &tokenScorer{tokens: tokens, fallback: fallback}
}

func (ts *tokenScorer) scoreFor(value string) float64 {
	if len(ts.tokens) == 0 {
		return ts.fallback
	}
	upper := strings.ToUpper(value)
	var sum float64
	var n int
	for _, tok := range ts.tokens {
		if tok.upper == "" {
			continue
		}
		if strings.Contains(upper, tok.upper) {
			sum += tok.score
			n++
		}
	}
	if n == 0 {
		return ts.fallback
	}
	return sum / float64(n)
}
