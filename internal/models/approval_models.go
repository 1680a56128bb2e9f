package models

import "time"

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// IsValidApprovalStatus checks if the provided status is a valid ApprovalStatus.
func IsValidApprovalStatus(status ApprovalStatus) bool {
	switch status {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// ApprovalRequest gates a newly registered account until an administrator decides.
// Review fields are only ever populated by that decision.
type ApprovalRequest struct {
	ID          string         `json:"id" db:"id"`
	AccountID   string         `json:"account_id" db:"account_id"`
	Email       string         `json:"email" db:"email"`
	Name        string         `json:"name" db:"name"`
	Status      ApprovalStatus `json:"status" db:"status"`
	RequestedAt time.Time      `json:"requested_at" db:"requested_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy  *string        `json:"reviewed_by,omitempty" db:"reviewed_by"`
	AdminNotes  *string        `json:"admin_notes,omitempty" db:"admin_notes"`
}

// ApprovalCounts feeds the admin badge on the dashboard.
type ApprovalCounts struct {
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
}
