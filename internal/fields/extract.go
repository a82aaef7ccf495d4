package fields

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
)

// Extraction strategy names recorded on FieldValue.
const (
	StrategyDictionary = "dictionary"
	StrategyAnchor     = "anchor"
	StrategyFuzzy      = "fuzzy"
	StrategyPattern    = "pattern"
)

// fuzzyMatchFloor is the minimum similarity for a fuzzy dictionary hit to
// count as an extraction at all; weaker matches fall through to the anchor
// value as-is.
const fuzzyMatchFloor = 0.70

var (
	anchorDrugName = regexp.MustCompile(`(?i)(?:drug|product|medicine)\s*name\s*[:#]\s*([^\n]+)`)
	anchorBatch    = regexp.MustCompile(`(?i)(?:batch|lot)\s*(?:no\.?|number)?\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9/-]*)`)
	anchorExpiry   = regexp.MustCompile(`(?i)exp(?:iry|\.)?\s*(?:date)?\s*[:#]?\s*([0-9][0-9./-]*)`)
	anchorMfr      = regexp.MustCompile(`(?i)(?:manufacturer|manufactured\s+by|mfg\.?\s*by|mfd\.?\s*by)\s*[:#]?\s*([^\n]+)`)

	// batchPattern is the canonical BN-YYYY-NNNNNN shape, matchable without
	// a printed label.
	batchPattern = regexp.MustCompile(`\b[A-Z]{2}-\d{4}-\d{6}\b`)
)

// candidate is one possible span for a field before scoring.
type candidate struct {
	value string
	start int
	end   int
}

type scoredCandidate struct {
	candidate
	confidence float64
	strategy   string
}

// Extractor pulls the canonical pharmaceutical fields out of normalized
// text. Pure computation; deterministic for identical inputs.
type Extractor struct {
	ref               *refdata.ReferenceData
	logger            *slog.Logger
	defaultConfidence float64
}

func NewExtractor(ref *refdata.ReferenceData, defaultConfidence float64, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultConfidence <= 0 || defaultConfidence > 1 {
		defaultConfidence = 0.5
	}
	return &Extractor{ref: ref, logger: logger, defaultConfidence: defaultConfidence}
}

// Extract returns a map holding exactly the four canonical field keys.
// Fields absent from text carry a nil value with confidence 0 so downstream
// components can iterate uniformly.
func (e *Extractor) Extract(doc entity.NormalizedDocument, tokens []entity.TokenConfidence) entity.ExtractedFields {
	text := doc.NormalizedText
	scorer := newTokenScorer(toScored(tokens), e.defaultConfidence)

	out := entity.ExtractedFields{
		constants.FieldDrugName:     e.extractDictionaryField(text, scorer, anchorDrugName, e.ref.DrugNames),
		constants.FieldBatchNumber:  e.extractBatchNumber(text, scorer),
		constants.FieldExpiryDate:   e.extractExpiryDate(text, scorer),
		constants.FieldManufacturer: e.extractDictionaryField(text, scorer, anchorMfr, e.ref.Manufacturers),
	}

	for _, name := range constants.CanonicalFields {
		fv := out[name]
		e.logger.Debug("fields.extracted",
			"field", string(name),
			"found", fv.Found(),
			"strategy", fv.Strategy,
			"confidence", fv.Confidence,
		)
	}
	return out
}

// extractDictionaryField serves drug_name and manufacturer: exact dictionary
// scan first, then labeled anchor, with a fuzzy upgrade when the anchored
// value nearly matches a dictionary entry.
func (e *Extractor) extractDictionaryField(text string, scorer *tokenScorer, anchor *regexp.Regexp, dictionary []string) entity.FieldValue {
	var cands []scoredCandidate

	for _, c := range findDictionaryCandidates(text, dictionary) {
		cands = append(cands, scoredCandidate{
			candidate:  c,
			confidence: blend(scorer.scoreFor(c.value), certaintyDictionary),
			strategy:   StrategyDictionary,
		})
	}

	for _, c := range findAnchorCandidates(text, anchor) {
		certainty := certaintyAnchor
		strategy := StrategyAnchor
		if _, sim, ok := NearestEntry(StripDosage(c.value), dictionary); ok && sim < 1 && sim >= fuzzyMatchFloor {
			// Near-miss against the dictionary: score as a fuzzy match so
			// exact hits on other spans still win the tie-break.
			certainty = fuzzyCeiling * sim
			strategy = StrategyFuzzy
		}
		cands = append(cands, scoredCandidate{
			candidate:  c,
			confidence: blend(scorer.scoreFor(c.value), certainty),
			strategy:   strategy,
		})
	}

	return pickBest(cands)
}

func (e *Extractor) extractBatchNumber(text string, scorer *tokenScorer) entity.FieldValue {
	var cands []scoredCandidate
	for _, c := range findAnchorCandidates(text, anchorBatch) {
		cands = append(cands, scoredCandidate{
			candidate:  c,
			confidence: blend(scorer.scoreFor(c.value), certaintyAnchor),
			strategy:   StrategyAnchor,
		})
	}
	for _, loc := range batchPattern.FindAllStringIndex(text, -1) {
		c := candidate{value: text[loc[0]:loc[1]], start: loc[0], end: loc[1]}
		cands = append(cands, scoredCandidate{
			candidate:  c,
			confidence: blend(scorer.scoreFor(c.value), certaintyPattern),
			strategy:   StrategyPattern,
		})
	}
	return pickBest(cands)
}

func (e *Extractor) extractExpiryDate(text string, scorer *tokenScorer) entity.FieldValue {
	var cands []scoredCandidate
	for _, c := range findAnchorCandidates(text, anchorExpiry) {
		cands = append(cands, scoredCandidate{
			candidate:  c,
			confidence: blend(scorer.scoreFor(c.value), certaintyAnchor),
			strategy:   StrategyAnchor,
		})
	}
	for _, c := range findDateCandidates(text) {
		cands = append(cands, scoredCandidate{
			candidate:  c,
			confidence: blend(scorer.scoreFor(c.value), certaintyPattern),
			strategy:   StrategyPattern,
		})
	}
	return pickBest(cands)
}

// findAnchorCandidates returns the captured value after each label
// occurrence, with the span of the value itself (not the label).
func findAnchorCandidates(text string, re *regexp.Regexp) []candidate {
	var out []candidate
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		value := strings.TrimSpace(text[m[2]:m[3]])
		if value == "" {
			continue
		}
		// Re-anchor the span on the trimmed value.
		start := m[2] + strings.Index(text[m[2]:m[3]], value)
		out = append(out, candidate{value: value, start: start, end: start + len(value)})
	}
	return out
}

// pickBest prefers the highest-confidence candidate; on exact ties the
// earliest span wins, keeping extraction order-stable.
func pickBest(cands []scoredCandidate) entity.FieldValue {
	if len(cands) == 0 {
		return entity.FieldValue{}
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.confidence > best.confidence ||
			(c.confidence == best.confidence && c.start < best.start) {
			best = c
		}
	}
	v := best.value
	return entity.FieldValue{
		Value:      &v,
		Confidence: best.confidence,
		SourceSpan: &entity.Span{Start: best.start, End: best.end},
		Strategy:   best.strategy,
	}
}

// StripDosage drops a trailing dosage ("AMOXICILLIN 500mg" -> "AMOXICILLIN")
// before dictionary comparison.
func StripDosage(value string) string {
	if i := strings.IndexAny(value, "0123456789"); i > 0 {
		return strings.TrimSpace(value[:i])
	}
	return strings.TrimSpace(value)
}

func toScored(tokens []entity.TokenConfidence) []scoredToken {
	out := make([]scoredToken, len(tokens))
	for i, t := range tokens {
		out[i] = scoredToken{upper: strings.ToUpper(strings.TrimSpace(t.Token)), score: t.Score}
	}
	return out
}
