// Package core holds the side-effect free rules of the back office: date
// windows, ledger filters, revenue aggregation, the installment calculator and
// the approval state machine. Nothing here touches storage or the network.
package core

import "errors"

var (
	// ErrParse marks a malformed calendar date met while filtering or formatting.
	ErrParse = errors.New("malformed date")
	// ErrInvalidAmount is returned for a base amount that is not a positive finite number.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	ErrUnauthorized    = errors.New("only administrators can review approval requests")
	ErrAlreadyReviewed = errors.New("approval request was already reviewed")
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
)
