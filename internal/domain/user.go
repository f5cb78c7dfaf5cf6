package domain

import "time"

// User type constants. They double as JWT roles.
const (
	UserTypeCustomer = "customer"
	UserTypeProvider = "provider"
)

// User is a marketplace account: a customer posting needs or a provider answering them.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Name         string    `json:"name"`
	UserType     string    `json:"userType"`
	BusinessType string    `json:"businessType,omitempty"`
	Location     string    `json:"location,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	Credits      *int      `json:"credits,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsProvider reports whether the user offers services.
func (u *User) IsProvider() bool {
	return u.UserType == UserTypeProvider
}
