package domain

import "time"

// Requirement status constants.
const (
	RequirementStatusOpen   = "open"
	RequirementStatusClosed = "closed"
)

// Requirement is a customer's posted service need.
type Requirement struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customerId"`
	CustomerName    string    `json:"customerName,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Location        string    `json:"location"`
	Budget          *int64    `json:"budget,omitempty"`
	Status          string    `json:"status"`
	QuotationsCount int       `json:"quotationsCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsOpen reports whether the requirement still accepts quotations.
func (r *Requirement) IsOpen() bool {
	return r.Status == RequirementStatusOpen
}

// IsValidRequirementStatus checks if status is open or closed.
func IsValidRequirementStatus(status string) bool {
	return status == RequirementStatusOpen || status == RequirementStatusClosed
}
