package entity

// TokenConfidence pairs one recognized token with the engine's score in [0,1].
type TokenConfidence struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

// RawOCRInput is the contract consumed from the OCR collaborator. The core
// never calls a vision engine directly; it depends only on this shape.
// Immutable once received.
type RawOCRInput struct {
	Text             string            `json:"text"`
	TokenConfidences []TokenConfidence `json:"per_token_confidence,omitempty"`
	// DetectedLanguage is the ISO 639-1 code reported by the engine, if any.
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// MeanConfidence averages per-token scores, or returns fallback when the
// engine provided none.
func (r RawOCRInput) MeanConfidence(fallback float64) float64 {
	if len(r.TokenConfidences) == 0 {
		return fallback
	}
	var sum float64
	for _, tc := range r.TokenConfidences {
		sum += tc.Score
	}
	return sum / float64(len(r.TokenConfidences))
}

// NormalizedDocument is derived once per input by the normalizer and never
// mutated afterwards.
type NormalizedDocument struct {
	OriginalText     string `json:"original_text"`
	NormalizedText   string `json:"normalized_text"`
	DetectedLanguage string `json:"detected_language"`
	OriginalLanguage string `json:"original_language"`
	WasTranslated    bool   `json:"was_translated"`
	// Warnings records non-fatal degradations (e.g. translation fallback).
	Warnings []string `json:"warnings,omitempty"`
}
