package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/KiranKumarPM/servon-1/internal/domain"
)

// PersonalizedResponse renders a short advisory message for a user based on
// the analysis of their requirement. at decides the greeting.
func PersonalizedResponse(requirement, userName string, at time.Time) string {
	analysis := Analyze(requirement)

	urgency := "We'll find you the right service provider for your needs."
	if analysis.Urgency == domain.UrgencyHigh {
		urgency = "We understand this is urgent and will prioritize finding you the right service provider quickly."
	}

	paragraphs := []string{
		fmt.Sprintf("Good %s, %s!", partOfDay(at), userName),
		"Based on your requirements, we've analyzed your needs:",
		urgency,
		fmt.Sprintf("Your request appears to be of %s complexity and may take approximately %s to complete.",
			analysis.Complexity, analysis.EstimatedDuration),
		fmt.Sprintf("We've identified these key aspects of your request: %s.", strings.Join(analysis.Keywords, ", ")),
		"We'll connect you with the best service providers for this job.",
	}
	return strings.Join(paragraphs, "\n\n")
}

func partOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}
