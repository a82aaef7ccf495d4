package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Supported expiry formats on pharmaceutical labels. Month/year forms are
// the common case; full dates appear on inserts.
var dateLayouts = []string{
	"01/2006",
	"01-2006",
	"01.2006",
	"02/01/2006",
	"2006-01-02",
}

var dateToken = regexp.MustCompile(`\b(\d{1,4}[./-]\d{1,2}(?:[./-]\d{2,4})?)\b`)

// ParseExpiryDate parses value against the supported layouts. Month-only
// forms resolve to the last day of the month.
func ParseExpiryDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if layout == "01/2006" || layout == "01-2006" || layout == "01.2006" {
			t = t.AddDate(0, 1, -1)
		}
		return t, true
	}
	return time.Time{}, false
}

// ReformatExpiryDate proposes the canonical MM/YYYY rendering for a date
// string that failed strict parsing but still carries recoverable
// month/year digits. Returns false when no plausible reformat exists.
func ReformatExpiryDate(value string) (string, bool) {
	m := dateToken.FindString(value)
	if m == "" {
		return "", false
	}
	parts := regexp.MustCompile(`[./-]`).Split(m, -1)
	if len(parts) < 2 {
		return "", false
	}

	// Pick a plausible month and a 4-digit year out of the components.
	var month, year int
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		switch {
		case len(p) == 4 && v >= 1900 && v <= 2199:
			year = v
		case v >= 1 && v <= 12 && month == 0:
			month = v
		}
	}
	if month == 0 || year == 0 {
		return "", false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("01/2006"), true
}

// findDateCandidates returns all date-like tokens in text with their spans.
func findDateCandidates(text string) []candidate {
	var out []candidate
	for _, loc := range dateToken.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		if _, ok := ParseExpiryDate(value); !ok {
			continue
		}
		out = append(out, candidate{value: value, start: loc[0], end: loc[1]})
	}
	return out
}
