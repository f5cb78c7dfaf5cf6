package domain

import "time"

// Quotation status constants.
const (
	QuotationStatusSent     = "sent"
	QuotationStatusViewed   = "viewed"
	QuotationStatusAccepted = "accepted"
)

// Quotation is a provider's priced, timed response to a requirement.
type Quotation struct {
	ID               string    `json:"id"`
	RequirementID    string    `json:"requirementId"`
	RequirementTitle string    `json:"requirementTitle,omitempty"`
	VendorID         string    `json:"vendorId"`
	VendorName       string    `json:"vendorName,omitempty"`
	VendorBusiness   string    `json:"vendorBusinessType,omitempty"`
	CustomerID       string    `json:"customerId"`
	CustomerName     string    `json:"customerName,omitempty"`
	Price            int64     `json:"price"`
	Description      string    `json:"description"`
	Timeline         string    `json:"timeline"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// IsCustomerSettableStatus reports whether a customer may move a quotation to status.
// "sent" is only ever assigned on creation.
func IsCustomerSettableStatus(status string) bool {
	return status == QuotationStatusViewed || status == QuotationStatusAccepted
}
