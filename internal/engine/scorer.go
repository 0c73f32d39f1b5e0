package engine

import "strings"

// Score computes the weighted severity score of free-text symptoms in [0,1].
// Every lexicon keyword found as a case-insensitive substring contributes its
// weight; the sum is normalized by the total lexicon weight and clamped to 1.
// Empty text scores 0.
func Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	lower := strings.ToLower(text)
	var sum float64
	for _, e := range lexiconEntries {
		if strings.Contains(lower, e.phrase) {
			sum += e.weight
		}
	}

	return clamp01(sum / lexiconTotal)
}

// matchesKeyword reports whether a lexicon keyword (underscore form) occurs
// in the already-lowercased text.
func matchesKeyword(lowerText, keyword string) bool {
	return strings.Contains(lowerText, strings.ReplaceAll(keyword, "_", " "))
}
