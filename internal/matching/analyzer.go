package matching

import (
	"unicode/utf16"

	"github.com/KiranKumarPM/servon-1/internal/domain"
)

const (
	maxKeywords = 10

	// longRequirementChars is the length, in UTF-16 code units, above which a
	// requirement without complexity keywords is treated as medium complexity.
	longRequirementChars = 100
)

var (
	urgencyWords    = wordSet("urgent", "emergency", "immediately", "asap", "quick", "fast")
	complexityWords = wordSet("complex", "difficult", "specialized", "expert", "professional")
)

var durationByComplexity = map[domain.Complexity]string{
	domain.ComplexityHigh:   "3-5 days",
	domain.ComplexityMedium: "1-2 days",
	domain.ComplexityLow:    "2-5 hours",
}

// Analyze extracts keywords and classifies urgency and complexity.
// An empty requirement yields no keywords, normal urgency and low complexity.
func Analyze(requirement string) domain.Analysis {
	tokens := tokenize(requirement)

	urgency := domain.UrgencyNormal
	if containsAny(tokens, urgencyWords) {
		urgency = domain.UrgencyHigh
	}

	complexity := domain.ComplexityLow
	switch {
	case containsAny(tokens, complexityWords):
		complexity = domain.ComplexityHigh
	case utf16Len(requirement) > longRequirementChars:
		complexity = domain.ComplexityMedium
	}

	return domain.Analysis{
		Keywords:          topTerms(tokens, maxKeywords),
		Urgency:           urgency,
		Complexity:        complexity,
		EstimatedDuration: durationByComplexity[complexity],
	}
}

// utf16Len returns the length of s in UTF-16 code units. Runes outside the
// Basic Multilingual Plane count twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
