package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientValidation = errors.New("client data validation error")
)

// --- Client DTOs ---
type CreateClientRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        string  `json:"phone" binding:"required"`
	TaxID        string  `json:"tax_id" binding:"required"` // CPF
	Address      *string `json:"address"`
	RegisteredOn *string `json:"registered_on" binding:"omitempty,calendar_date"` // Format YYYY-MM-DD
}

type UpdateClientRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	TaxID        *string `json:"tax_id"`
	Address      *string `json:"address"`
	RegisteredOn *string `json:"registered_on" binding:"omitempty,calendar_date"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(ownerID string, req CreateClientRequest) (*models.Client, error)
	GetClientByID(ownerID, clientID string) (*models.Client, error)
	GetClients(ownerID string, searchTerm *string) ([]models.Client, error)
	UpdateClient(ownerID, clientID string, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(ownerID, clientID string, confirmed bool) error
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
	}
}

func validateClient(c *models.Client) error {
	if utils.IsEmpty(c.Name) {
		return fmt.Errorf("%w: name cannot be empty", ErrClientValidation)
	}
	if utils.IsEmpty(c.Phone) {
		return fmt.Errorf("%w: phone cannot be empty", ErrClientValidation)
	}
	if utils.IsEmpty(c.TaxID) {
		return fmt.Errorf("%w: CPF cannot be empty", ErrClientValidation)
	}
	if c.Email != nil && !utils.IsValidEmail(*c.Email) {
		return fmt.Errorf("%w: email format is invalid", ErrClientValidation)
	}
	if !core.IsCalendarDate(c.RegisteredOn) {
		return ErrDateFormat
	}
	return nil
}

func (s *clientService) CreateClient(ownerID string, req CreateClientRequest) (*models.Client, error) {
	client := &models.Client{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(req.Name),
		Email:        utils.TrimOptional(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		TaxID:        strings.TrimSpace(req.TaxID),
		Address:      utils.TrimOptional(req.Address),
		RegisteredOn: core.Today(),
	}
	if req.RegisteredOn != nil && !utils.IsEmpty(*req.RegisteredOn) {
		client.RegisteredOn = strings.TrimSpace(*req.RegisteredOn)
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.Create(s.db, client); err != nil {
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetByID(ownerID, client.ID)
}

func (s *clientService) GetClientByID(ownerID, clientID string) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ownerID, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(ownerID string, searchTerm *string) ([]models.Client, error) {
	clients, err := s.clientRepo.ListByOwner(ownerID, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

// UpdateClient applies the provided fields only. An empty string clears an
// optional field.
func (s *clientService) UpdateClient(ownerID, clientID string, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.GetClientByID(ownerID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.TaxID != nil {
		client.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Email != nil {
		client.Email = utils.TrimOptional(req.Email)
	}
	if req.Address != nil {
		client.Address = utils.TrimOptional(req.Address)
	}
	if req.RegisteredOn != nil {
		client.RegisteredOn = strings.TrimSpace(*req.RegisteredOn)
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return s.clientRepo.GetByID(ownerID, clientID)
}

// DeleteClient removes a client. Sales naming the client keep their free-text name.
func (s *clientService) DeleteClient(ownerID, clientID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.clientRepo.Delete(s.db, ownerID, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
