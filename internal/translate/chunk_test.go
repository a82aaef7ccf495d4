package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunksShortTextIsSingleChunk(t *testing.T) {
	assert.Equal(t, []string{"hola mundo"}, SplitChunks("hola mundo", 200))
}

func TestSplitChunksEmpty(t *testing.T) {
	assert.Nil(t, SplitChunks("   ", 200))
}

func TestSplitChunksRespectsSize(t *testing.T) {
	text := strings.Repeat("palabra corta. ", 40)
	chunks := SplitChunks(text, 50)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50, "chunk %q exceeds limit", c)
	}
}

func TestSplitChunksPrefersParagraphBoundaries(t *testing.T) {
	text := "primer parrafo\n\nsegundo parrafo"
	chunks := SplitChunks(text, 20)
	assert.Equal(t, []string{"primer parrafo", "segundo parrafo"}, chunks)
}

func TestSplitChunksPreservesOrder(t *testing.T) {
	text := "uno. dos. tres. cuatro. cinco. seis. siete. ocho."
	chunks := SplitChunks(text, 12)
	joined := strings.Join(chunks, " ")
	for _, word := range []string{"uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho"} {
		assert.Contains(t, joined, word)
	}
	assert.Less(t, strings.Index(joined, "uno"), strings.Index(joined, "ocho"))
}

func TestSplitChunksHardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks := SplitChunks(text, 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), "xxxxx"}, chunks)
}
