package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/KiranKumarPM/servon-1/internal/domain"
)

// DefaultBaseRate is the hourly rate (INR) for categories missing from the table.
const DefaultBaseRate = 400

// currencySymbol prefixes formatted estimates.
const currencySymbol = "₹"

var baseRates = map[string]float64{
	domain.CategoryPlumbing:   400,
	domain.CategoryElectrical: 500,
	domain.CategoryCarpentry:  450,
	domain.CategoryPainting:   350,
	domain.CategoryCleaning:   300,
}

var complexityMultipliers = map[domain.Complexity]float64{
	domain.ComplexityHigh:   1.5,
	domain.ComplexityMedium: 1.2,
	domain.ComplexityLow:    1.0,
}

var urgencyMultipliers = map[domain.Urgency]float64{
	domain.UrgencyHigh:   1.3,
	domain.UrgencyNormal: 1.0,
}

var hoursByComplexity = map[domain.Complexity]domain.Range{
	domain.ComplexityHigh:   {Min: 8, Max: 20},
	domain.ComplexityMedium: {Min: 4, Max: 8},
	domain.ComplexityLow:    {Min: 1, Max: 4},
}

// BaseRate returns the hourly base rate for a category. Matching is an exact,
// case-insensitive comparison; unknown categories get DefaultBaseRate.
func BaseRate(category string) float64 {
	if rate, ok := baseRates[strings.ToLower(category)]; ok {
		return rate
	}
	return DefaultBaseRate
}

// EstimateCost prices a requirement for the given service category.
func EstimateCost(requirement, category string) domain.CostEstimate {
	analysis := Analyze(requirement)

	// The range is priced from the unrounded rate; only the quoted hourly
	// rate is rounded.
	rate := BaseRate(category) *
		complexityMultipliers[analysis.Complexity] *
		urgencyMultipliers[analysis.Urgency]

	hours := hoursByComplexity[analysis.Complexity]
	cost := domain.Range{
		Min: int64(math.Round(rate * float64(hours.Min))),
		Max: int64(math.Round(rate * float64(hours.Max))),
	}

	return domain.CostEstimate{
		HourlyRate:        int64(math.Round(rate)),
		EstimatedHours:    hours,
		CostRange:         cost,
		FormattedEstimate: fmt.Sprintf("%s%d - %s%d", currencySymbol, cost.Min, currencySymbol, cost.Max),
		Complexity:        analysis.Complexity,
		Urgency:           analysis.Urgency,
	}
}
