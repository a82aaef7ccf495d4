package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/translate"
)

// targetLanguage is what downstream extraction expects.
const targetLanguage = "en"

var (
	// hyphenBreak joins words OCR split across line breaks ("amoxi-\ncillin").
	hyphenBreak = regexp.MustCompile(`(\pL)-\s*\n\s*(\pL)`)
	// softBreak turns a single line break inside a sentence into a space.
	softBreak = regexp.MustCompile(`([^\n])\n([^\n])`)
	multiWS   = regexp.MustCompile(`[ \t]+`)
	multiNL   = regexp.MustCompile(`\n{3,}`)
)

// Normalizer converts raw OCR output into a NormalizedDocument: language
// detection, optional translation to English, and whitespace cleanup.
type Normalizer struct {
	translator translate.Translator
	logger     *slog.Logger
}

func NewNormalizer(translator translate.Translator, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{translator: translator, logger: logger}
}

// Normalize is deterministic given identical input and translator response.
// Translation failure degrades to the original text with a recorded warning;
// only a missing text payload rejects the document.
func (n *Normalizer) Normalize(ctx context.Context, raw entity.RawOCRInput) (entity.NormalizedDocument, error) {
	if strings.TrimSpace(raw.Text) == "" {
		return entity.NormalizedDocument{}, fmt.Errorf("%w: empty text", common.ErrOCRInputInvalid)
	}

	lang := raw.DetectedLanguage
	if lang == "" {
		lang = DetectLanguage(raw.Text)
	}

	doc := entity.NormalizedDocument{
		OriginalText:     raw.Text,
		DetectedLanguage: lang,
		OriginalLanguage: lang,
	}

	text := raw.Text
	if !strings.EqualFold(lang, targetLanguage) && n.translator != nil {
		translated, err := n.translator.TranslateToEnglish(ctx, text, lang)
		if err != nil {
			warning := fmt.Sprintf("translation from %q unavailable, using original text", lang)
			doc.Warnings = append(doc.Warnings, warning)
			n.logger.Warn("normalize.translation_fallback", "source_lang", lang, "error", err)
		} else {
			text = translated
			doc.WasTranslated = true
			doc.DetectedLanguage = targetLanguage
		}
	}

	doc.NormalizedText = CleanText(text)
	return doc, nil
}

// DetectLanguage runs the trigram identification heuristic and returns an
// ISO 639-1 code, defaulting to English when detection is unreliable.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return targetLanguage
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return targetLanguage
	}
	return code
}

// CleanText strips OCR line-break artifacts and collapses redundant
// whitespace without reordering tokens, so source spans computed downstream
// stay addressable.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	// The replacement consumes the character after the break, so adjacent
	// single breaks need repeated passes.
	for {
		joined := softBreak.ReplaceAllString(text, "$1 $2")
		if joined == text {
			break
		}
		text = joined
	}
	text = multiWS.ReplaceAllString(text, " ")
	text = multiNL.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
