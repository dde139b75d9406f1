package models

import "time"

const (
	RoleCustomer = "customer"
	RoleCarrier  = "carrier"
	RoleOwner    = "owner"
)

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is the minimal user view exposed to message recipients.
type Contact struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleCarrier, RoleOwner:
		return true
	}
	return false
}
