package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/internal/session"
	"travel_crm_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// --- Custom Service Errors ---
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrAuthValidation     = errors.New("sign-up data validation error")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest DTO
type SignUpRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Account     *models.Account      `json:"account"`
	Status      models.AccountStatus `json:"status"`
	AccessToken string               `json:"access_token"`
	ExpiresAt   time.Time            `json:"expires_at"`
}

// --- AuthService Interface ---
type AuthService interface {
	SignUp(req SignUpRequest) (*models.Account, error)
	SignIn(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentSession(accountID string) (*models.Session, error)
	EnsureAdmin(name, email, password string) error
}

// --- authService Implementation ---
type authService struct {
	accountRepo  repositories.AccountRepository
	approvalRepo repositories.ApprovalRepository
	db           *sql.DB
	tokens       *utils.TokenManager
	sessions     session.Store
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	accountRepo repositories.AccountRepository,
	approvalRepo repositories.ApprovalRepository,
	db *sql.DB,
	tokens *utils.TokenManager,
	sessions session.Store,
) AuthService {
	return &authService{
		accountRepo:  accountRepo,
		approvalRepo: approvalRepo,
		db:           db,
		tokens:       tokens,
		sessions:     sessions,
	}
}

func validateSignUp(req SignUpRequest) error {
	if utils.IsEmpty(req.Name) || utils.IsEmpty(req.Email) || req.Password == "" || req.ConfirmPassword == "" {
		return fmt.Errorf("%w: name, email, password and confirmation are required", ErrAuthValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: email format is invalid", ErrAuthValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, MinPasswordLength) {
		return fmt.Errorf("%w: password must be at least %d characters", ErrAuthValidation, MinPasswordLength)
	}
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrAuthValidation)
	}
	return nil
}

// SignUp creates an unapproved account together with its pending approval
// request. Both rows are written in one transaction.
func (s *authService) SignUp(req SignUpRequest) (*models.Account, error) {
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
	}

	err = withTx(s.db, func(tx *sql.Tx) error {
		if _, err := s.accountRepo.CreateAccount(tx, account, string(hashedPasswordBytes)); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrEmailExists
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		approval := &models.ApprovalRequest{
			AccountID:   account.ID,
			Email:       account.Email,
			Name:        account.Name,
			RequestedAt: account.CreatedAt,
		}
		if _, err := s.approvalRepo.Create(tx, approval); err != nil {
			return fmt.Errorf("failed to create approval request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Account registered, waiting for approval", map[string]interface{}{"account_id": account.ID})
	account.PasswordHash = ""
	return account, nil
}

// SignIn verifies the password, opens a session and returns a token bound to it.
// Unapproved accounts may sign in; the data routes stay closed to them.
func (s *authService) SignIn(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	account, storedHashedPassword, err := s.accountRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(sessionID, account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	if err := s.sessions.Create(ctx, sessionID, account.ID, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	status, err := s.statusOf(account)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account:     account,
		Status:      status,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignOut ends the session; the token stops working immediately.
func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// CurrentSession reports the signed-in account and what it may access.
func (s *authService) CurrentSession(accountID string) (*models.Session, error) {
	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.Session{Status: models.AccountStatusNotFound}, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}
	status, err := s.statusOf(account)
	if err != nil {
		return nil, err
	}
	return &models.Session{Account: account, Status: status}, nil
}

func (s *authService) statusOf(account *models.Account) (models.AccountStatus, error) {
	if account.IsApproved {
		return models.AccountStatusApproved, nil
	}
	latest, err := s.approvalRepo.LatestForAccount(account.ID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", fmt.Errorf("failed to load approval request: %w", err)
	}
	return core.StatusFor(account, latest), nil
}

// EnsureAdmin creates an approved administrator when the store has none.
// Blank credentials skip the bootstrap.
func (s *authService) EnsureAdmin(name, email, password string) error {
	count, err := s.accountRepo.CountAdmins()
	if err != nil {
		return fmt.Errorf("failed to count administrators: %w", err)
	}
	if count > 0 {
		return nil
	}
	if utils.IsEmpty(email) || password == "" {
		utils.LogWarn("No administrator exists and no bootstrap credentials are configured")
		return nil
	}
	if utils.IsEmpty(name) {
		name = "Administrator"
	}
	if !utils.IsValidEmail(email) || !utils.IsValidPasswordLength(password, MinPasswordLength) {
		return fmt.Errorf("%w: bootstrap administrator credentials are invalid", ErrAuthValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now()
	admin := &models.Account{
		Name:       strings.TrimSpace(name),
		Email:      email,
		IsAdmin:    true,
		IsApproved: true,
		ApprovedAt: &now,
	}
	if _, err := s.accountRepo.CreateAccount(s.db, admin, string(hashed)); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: bootstrap administrator email is taken by a regular account", ErrEmailExists)
		}
		return fmt.Errorf("failed to create administrator: %w", err)
	}
	utils.LogInfo("Bootstrap administrator created", map[string]interface{}{"account_id": admin.ID})
	return nil
}
