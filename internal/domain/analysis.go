package domain

// Urgency is the binary urgency flag derived from a requirement.
type Urgency string

// Urgency values.
const (
	UrgencyHigh   Urgency = "high"
	UrgencyNormal Urgency = "normal"
)

// Complexity is the coarse difficulty tier of a requirement.
type Complexity string

// Complexity tiers.
const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Analysis is the derived view of a free-text requirement. It is recomputed
// per call and never persisted.
type Analysis struct {
	Keywords          []string   `json:"keywords"`
	Urgency           Urgency    `json:"urgency"`
	Complexity        Complexity `json:"complexity"`
	EstimatedDuration string     `json:"estimatedDuration"`
}

// Range is an inclusive integer interval.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// CostEstimate is the priced view of a requirement for a service category.
type CostEstimate struct {
	HourlyRate        int64      `json:"hourlyRate"`
	EstimatedHours    Range      `json:"estimatedHours"`
	CostRange         Range      `json:"costRange"`
	FormattedEstimate string     `json:"formattedEstimate"`
	Complexity        Complexity `json:"complexity"`
	Urgency           Urgency    `json:"urgency"`
}
