package models

import "time"

// Account is a back-office user. Accounts start unapproved and only an
// administrator's decision on their approval request changes that.
type Account struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsApproved   bool       `json:"is_approved" db:"is_approved"`
	ApprovedBy   *string    `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AccountStatus is what the current session is allowed to see.
type AccountStatus string

const (
	AccountStatusApproved AccountStatus = "approved"
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusRejected AccountStatus = "rejected"
	AccountStatusNotFound AccountStatus = "not_found"
)

// Session is the identity behind an authenticated request.
type Session struct {
	Account   *Account      `json:"account"`
	Status    AccountStatus `json:"status"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}
