package core

import (
	"time"

	"travel_crm_backend/internal/models"
)

// Decide moves a pending approval request to approved or rejected on behalf of
// reviewer. Only administrators may decide and a request is decided once; on
// any error req is left exactly as it was.
func Decide(req *models.ApprovalRequest, reviewer *models.Account, decision models.ApprovalStatus, note *string, now time.Time) error {
	if reviewer == nil || !reviewer.IsAdmin {
		return ErrUnauthorized
	}
	if !decision.IsTerminal() {
		return ErrInvalidDecision
	}
	if req.Status != models.ApprovalStatusPending {
		return ErrAlreadyReviewed
	}

	reviewedAt := now
	reviewerID := reviewer.ID
	req.Status = decision
	req.ReviewedAt = &reviewedAt
	req.ReviewedBy = &reviewerID
	req.AdminNotes = note
	return nil
}

// CountApprovals splits requests into still pending and already processed.
func CountApprovals(reqs []models.ApprovalRequest) models.ApprovalCounts {
	var c models.ApprovalCounts
	for _, r := range reqs {
		if r.Status == models.ApprovalStatusPending {
			c.Pending++
		} else {
			c.Processed++
		}
	}
	return c
}

// StatusFor derives what a signed-in account may see from its approval flag and
// its most recent approval request, if any.
func StatusFor(acc *models.Account, latest *models.ApprovalRequest) models.AccountStatus {
	if acc == nil {
		return models.AccountStatusNotFound
	}
	if acc.IsApproved {
		return models.AccountStatusApproved
	}
	if latest != nil && latest.Status == models.ApprovalStatusRejected {
		return models.AccountStatusRejected
	}
	return models.AccountStatusPending
}
