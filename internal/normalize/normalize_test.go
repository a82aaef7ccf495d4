package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

type stubTranslator struct {
	result string
	err    error
	calls  int
}

func (s *stubTranslator) TranslateToEnglish(_ context.Context, text, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.result != "" {
		return s.result, nil
	}
	return text, nil
}

func TestNormalizeRejectsEmptyText(t *testing.T) {
	n := NewNormalizer(&stubTranslator{}, nil)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		_, err := n.Normalize(context.Background(), entity.RawOCRInput{Text: text})
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrOCRInputInvalid))
	}
}

func TestNormalizeEnglishSkipsTranslation(t *testing.T) {
	tr := &stubTranslator{err: errors.New("must not be called")}
	n := NewNormalizer(tr, nil)

	doc, err := n.Normalize(context.Background(), entity.RawOCRInput{
		Text:             "Drug Name: AMOXICILLIN",
		DetectedLanguage: "en",
	})
	require.NoError(t, err)
	assert.Zero(t, tr.calls)
	assert.False(t, doc.WasTranslated)
	assert.Equal(t, "en", doc.DetectedLanguage)
	assert.Empty(t, doc.Warnings)
}

func TestNormalizeTranslates(t *testing.T) {
	tr := &stubTranslator{result: "Drug Name: AMOXICILLIN"}
	n := NewNormalizer(tr, nil)

	doc, err := n.Normalize(context.Background(), entity.RawOCRInput{
		Text:             "Nombre del medicamento: AMOXICILINA",
		DetectedLanguage: "es",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.calls)
	assert.True(t, doc.WasTranslated)
	assert.Equal(t, "en", doc.DetectedLanguage)
	assert.Equal(t, "es", doc.OriginalLanguage)
	assert.Equal(t, "Drug Name: AMOXICILLIN", doc.NormalizedText)
	assert.Equal(t, "Nombre del medicamento: AMOXICILINA", doc.OriginalText)
}

func TestNormalizeTranslationFailureDegrades(t *testing.T) {
	tr := &stubTranslator{err: common.ErrTranslationUnavailable}
	n := NewNormalizer(tr, nil)

	raw := entity.RawOCRInput{
		Text:             "Nombre del medicamento: AMOXICILINA",
		DetectedLanguage: "es",
	}
	doc, err := n.Normalize(context.Background(), raw)
	require.NoError(t, err, "translation failure must not reject the document")
	assert.False(t, doc.WasTranslated)
	assert.Equal(t, "es", doc.DetectedLanguage)
	assert.Equal(t, raw.Text, doc.NormalizedText)
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "translation")
}

func TestNormalizeWithoutTranslator(t *testing.T) {
	n := NewNormalizer(nil, nil)
	doc, err := n.Normalize(context.Background(), entity.RawOCRInput{
		Text:             "texto",
		DetectedLanguage: "es",
	})
	require.NoError(t, err)
	assert.False(t, doc.WasTranslated)
	assert.Equal(t, "texto", doc.NormalizedText)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen line break", "amoxi-\ncillin 500mg", "amoxicillin 500mg"},
		{"soft line break", "Batch No: AB\nexpires soon", "Batch No: AB expires soon"},
		{"adjacent soft breaks", "a\nb\nc\nd", "a b c d"},
		{"windows line endings", "a\r\n\r\nb", "a\n\nb"},
		{"repeated spaces and tabs", "Drug   Name:\tASPIRIN", "Drug Name: ASPIRIN"},
		{"excess blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"surrounding whitespace", "  Batch: X  \n", "Batch: X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestDetectLanguageDefaultsToEnglish(t *testing.T) {
	// Too little signal for reliable detection.
	assert.Equal(t, "en", DetectLanguage("AB-2023-001234"))
}
