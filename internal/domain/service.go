package domain

import (
	"time"
)

// Service categories offered in the catalog.
const (
	CategoryPlumbing   = "plumbing"
	CategoryElectrical = "electrical"
	CategoryCarpentry  = "carpentry"
	CategoryPainting   = "painting"
	CategoryCleaning   = "cleaning"
	CategoryOther      = "other"
)

// Price unit constants.
const (
	PriceUnitHourly = "hourly"
	PriceUnitFixed  = "fixed"
	PriceUnitDaily  = "daily"
)

// Service is a catalog entry published by a provider.
type Service struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProviderID   string    `json:"providerId"`
	ProviderName string    `json:"providerName,omitempty"`
	BusinessType string    `json:"businessType,omitempty"`
	Category     string    `json:"category"`
	Price        int64     `json:"price"`
	PriceUnit    string    `json:"priceUnit"`
	Location     string    `json:"location"`
	Availability []string  `json:"availability"`
	Tags         []string  `json:"tags"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Candidate projects the service onto the fields the recommendation ranker reads.
func (s *Service) Candidate() ServiceCandidate {
	return ServiceCandidate{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Provider:     s.ProviderName,
		BusinessType: s.BusinessType,
		Category:     s.Category,
		Price:        s.Price,
		PriceUnit:    s.PriceUnit,
		Location:     s.Location,
		Rating:       s.Rating,
	}
}

// ServiceCandidate is a read-only catalog record a requirement is matched against.
type ServiceCandidate struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Provider     string  `json:"provider,omitempty"`
	BusinessType string  `json:"businessType,omitempty"`
	Category     string  `json:"category,omitempty"`
	Price        int64   `json:"price,omitempty"`
	PriceUnit    string  `json:"priceUnit,omitempty"`
	Location     string  `json:"location,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
}

// Recommendation is a candidate annotated with its similarity score.
type Recommendation struct {
	ServiceCandidate
	SimilarityScore int `json:"similarityScore"`
}

// ValidCategories returns the catalog categories.
func ValidCategories() []string {
	return []string{
		CategoryPlumbing,
		CategoryElectrical,
		CategoryCarpentry,
		CategoryPainting,
		CategoryCleaning,
		CategoryOther,
	}
}

// IsValidCategory checks whether category is a known catalog category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidPriceUnit checks whether unit is a known price unit.
func IsValidPriceUnit(unit string) bool {
	switch unit {
	case PriceUnitHourly, PriceUnitFixed, PriceUnitDaily:
		return true
	}
	return false
}
