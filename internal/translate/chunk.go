package translate

import "strings"

// chunkSeparators are tried in order: paragraphs, lines, sentence ends,
// words, and finally single characters.
var chunkSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// SplitChunks splits text into chunks of at most chunkSize characters,
// preferring natural boundaries over hard cuts. Order is preserved and no
// text is dropped beyond the separators themselves.
func SplitChunks(text string, chunkSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if chunkSize <= 0 || len(text) <= chunkSize {
		return []string{text}
	}
	return recursiveSplit(text, chunkSeparators, chunkSize)
}

func recursiveSplit(text string, separators []string, chunkSize int) []string {
	sep := separators[len(separators)-1]
	sepIdx := len(separators) - 1
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep, sepIdx = s, i
			break
		}
	}

	var parts []string
	if sep == "" {
		for len(text) > chunkSize {
			parts = append(parts, text[:chunkSize])
			text = text[chunkSize:]
		}
		if text != "" {
			parts = append(parts, text)
		}
		return parts
	}

	var chunks []string
	var pending []string
	pendingLen := 0

	flush := func() {
		if len(pending) > 0 {
			chunks = append(chunks, strings.Join(pending, sep))
			pending = pending[:0]
			pendingLen = 0
		}
	}

	for _, part := range strings.Split(text, sep) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if len(part) > chunkSize {
			flush()
			chunks = append(chunks, recursiveSplit(part, separators[sepIdx+1:], chunkSize)...)
			continue
		}
		if pendingLen > 0 && pendingLen+len(sep)+len(part) > chunkSize {
			flush()
		}
		pending = append(pending, part)
		pendingLen += len(part)
		if len(pending) > 1 {
			pendingLen += len(sep)
		}
	}
	flush()
	return chunks
}
