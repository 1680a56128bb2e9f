package models

import "time"

// Client represents a customer of the agency.
type Client struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	TaxID        string    `json:"tax_id" db:"tax_id"` // CPF
	Address      *string   `json:"address,omitempty" db:"address"`
	RegisteredOn string    `json:"registered_on" db:"registered_on"` // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
