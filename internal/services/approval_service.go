package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/pkg/utils"
)

var (
	ErrApprovalNotFound        = errors.New("approval request not found")
	ErrApprovalUnauthorized    = errors.New("only administrators can manage approval requests")
	ErrApprovalAlreadyReviewed = errors.New("approval request was already reviewed")
)

// DecisionRequest DTO
type DecisionRequest struct {
	Note *string `json:"admin_notes"`
}

type ApprovalService interface {
	ListPending(actorID string) ([]models.ApprovalRequest, error)
	ListAll(actorID string) ([]models.ApprovalRequest, error)
	Approve(actorID, requestID string, note *string) (*models.ApprovalRequest, error)
	Reject(actorID, requestID string, note *string) (*models.ApprovalRequest, error)
	Counts(actorID string) (models.ApprovalCounts, error)
}

type approvalService struct {
	approvalRepo repositories.ApprovalRepository
	accountRepo  repositories.AccountRepository
	db           *sql.DB
	now          func() time.Time
}

// NewApprovalService creates a new instance of ApprovalService.
func NewApprovalService(approvalRepo repositories.ApprovalRepository, accountRepo repositories.AccountRepository, db *sql.DB) ApprovalService {
	return &approvalService{
		approvalRepo: approvalRepo,
		accountRepo:  accountRepo,
		db:           db,
		now:          time.Now,
	}
}

// requireAdmin loads the actor from the store; the token's admin claim is not trusted here.
func (s *approvalService) requireAdmin(actorID string) (*models.Account, error) {
	actor, err := s.accountRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApprovalUnauthorized
		}
		return nil, fmt.Errorf("failed to load reviewer: %w", err)
	}
	if !actor.IsAdmin {
		return nil, ErrApprovalUnauthorized
	}
	return actor, nil
}

func (s *approvalService) ListPending(actorID string) ([]models.ApprovalRequest, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	reqs, err := s.approvalRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approval requests: %w", err)
	}
	return reqs, nil
}

func (s *approvalService) ListAll(actorID string) ([]models.ApprovalRequest, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	reqs, err := s.approvalRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	return reqs, nil
}

func (s *approvalService) Approve(actorID, requestID string, note *string) (*models.ApprovalRequest, error) {
	return s.decide(actorID, requestID, models.ApprovalStatusApproved, note)
}

func (s *approvalService) Reject(actorID, requestID string, note *string) (*models.ApprovalRequest, error) {
	return s.decide(actorID, requestID, models.ApprovalStatusRejected, note)
}

// decide locks the request, applies the state machine and persists the result.
// On approval the account flag flips in the same transaction.
func (s *approvalService) decide(actorID, requestID string, decision models.ApprovalStatus, note *string) (*models.ApprovalRequest, error) {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return nil, err
	}
	note = utils.TrimOptional(note)

	var decided *models.ApprovalRequest
	err = withTx(s.db, func(tx *sql.Tx) error {
		req, err := s.approvalRepo.GetByIDForUpdate(tx, requestID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrApprovalNotFound
			}
			return fmt.Errorf("failed to load approval request: %w", err)
		}

		if err := core.Decide(req, actor, decision, note, s.now()); err != nil {
			switch {
			case errors.Is(err, core.ErrUnauthorized):
				return ErrApprovalUnauthorized
			case errors.Is(err, core.ErrAlreadyReviewed):
				return fmt.Errorf("%w: current status is %s", ErrApprovalAlreadyReviewed, req.Status)
			}
			return err
		}

		if err := s.approvalRepo.SaveDecision(tx, req); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrApprovalAlreadyReviewed
			}
			return fmt.Errorf("failed to save decision: %w", err)
		}
		if decision == models.ApprovalStatusApproved {
			if err := s.accountRepo.SetApproval(tx, req.AccountID, true, actor.ID, *req.ReviewedAt); err != nil {
				return fmt.Errorf("failed to approve account: %w", err)
			}
		}
		decided = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Approval request reviewed", map[string]interface{}{
		"request_id":  decided.ID,
		"account_id":  decided.AccountID,
		"decision":    string(decided.Status),
		"reviewed_by": actor.ID,
	})
	return decided, nil
}

func (s *approvalService) Counts(actorID string) (models.ApprovalCounts, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return models.ApprovalCounts{}, err
	}
	counts, err := s.approvalRepo.CountByStatus()
	if err != nil {
		return counts, fmt.Errorf("failed to count approval requests: %w", err)
	}
	return counts, nil
}
