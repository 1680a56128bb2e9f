package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/localstore"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrLocalValidation = errors.New("local data validation error")
	ErrUnknownSlot     = errors.New("unknown local data slot")
)

// MigrationReport summarises one run of Migrate.
type MigrationReport struct {
	ClientsMigrated int `json:"clients_migrated"`
	SalesMigrated   int `json:"sales_migrated"`
	Skipped         int `json:"skipped"`
	Failed          int `json:"failed"`
}

// LocalDataService serves the per-device fallback collections and moves them
// into the record store once the account is approved.
type LocalDataService interface {
	GetSlot(ctx context.Context, deviceID, slot string) (json.RawMessage, error)
	ReplaceSlot(ctx context.Context, deviceID, slot string, payload json.RawMessage) (json.RawMessage, error)
	Migrate(ctx context.Context, ownerID, deviceID string, confirmed bool) (*MigrationReport, error)
}

type localDataService struct {
	store      localstore.Store
	clientRepo repositories.ClientRepository
	saleRepo   repositories.SaleRepository
	db         *sql.DB
}

// NewLocalDataService creates a new instance of LocalDataService.
func NewLocalDataService(store localstore.Store, clientRepo repositories.ClientRepository, saleRepo repositories.SaleRepository, db *sql.DB) LocalDataService {
	return &localDataService{store: store, clientRepo: clientRepo, saleRepo: saleRepo, db: db}
}

func checkDevice(deviceID string) error {
	if uuid.Validate(deviceID) != nil {
		return fmt.Errorf("%w: device id must be a UUID", ErrLocalValidation)
	}
	return nil
}

func parseSlot(slot string) (localstore.Slot, error) {
	if !localstore.IsValidSlot(slot) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return localstore.Slot(slot), nil
}

func (s *localDataService) GetSlot(ctx context.Context, deviceID, slot string) (json.RawMessage, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	sl, err := parseSlot(slot)
	if err != nil {
		return nil, err
	}
	return s.store.LoadSlot(ctx, deviceID, sl)
}

// ReplaceSlot stores the whole collection. Rows without an id are given one so
// later migrations can track them.
func (s *localDataService) ReplaceSlot(ctx context.Context, deviceID, slot string, payload json.RawMessage) (json.RawMessage, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	sl, err := parseSlot(slot)
	if err != nil {
		return nil, err
	}

	var normalized []byte
	switch sl {
	case localstore.SlotClients:
		var rows []models.Client
		if err := json.Unmarshal(payload, &rows); err != nil {
			return nil, fmt.Errorf("%w: clients must be a JSON array: %v", ErrLocalValidation, err)
		}
		for i := range rows {
			if rows[i].ID == "" {
				rows[i].ID = uuid.NewString()
			}
		}
		normalized, err = json.Marshal(rows)
	case localstore.SlotSales:
		var rows []models.Sale
		if err := json.Unmarshal(payload, &rows); err != nil {
			return nil, fmt.Errorf("%w: sales must be a JSON array: %v", ErrLocalValidation, err)
		}
		for i := range rows {
			if rows[i].ID == "" {
				rows[i].ID = uuid.NewString()
			}
		}
		normalized, err = json.Marshal(rows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode local %s: %w", sl, err)
	}

	if err := s.store.SaveSlot(ctx, deviceID, sl, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Migrate copies every not yet migrated local row into the owner's records.
// Rows already recorded as migrated are skipped, so running it twice is
// harmless. A slot is cleared only when none of its rows failed.
func (s *localDataService) Migrate(ctx context.Context, ownerID, deviceID string, confirmed bool) (*MigrationReport, error) {
	if err := checkDevice(deviceID); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	report := &MigrationReport{}
	if err := s.migrateClients(ctx, ownerID, deviceID, report); err != nil {
		return report, err
	}
	if err := s.migrateSales(ctx, ownerID, deviceID, report); err != nil {
		return report, err
	}

	utils.LogInfo("Local data migrated", map[string]interface{}{
		"owner_id":         ownerID,
		"device_id":        deviceID,
		"clients_migrated": report.ClientsMigrated,
		"sales_migrated":   report.SalesMigrated,
		"skipped":          report.Skipped,
		"failed":           report.Failed,
	})
	return report, nil
}

func (s *localDataService) migrateClients(ctx context.Context, ownerID, deviceID string, report *MigrationReport) error {
	raw, err := s.store.LoadSlot(ctx, deviceID, localstore.SlotClients)
	if err != nil {
		return err
	}
	var rows []models.Client
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("%w: stored clients are unreadable: %v", ErrLocalValidation, err)
	}

	failed := 0
	for _, row := range rows {
		done, err := s.store.IsMigrated(ctx, deviceID, localstore.SlotClients, row.ID)
		if err != nil {
			return err
		}
		if done {
			report.Skipped++
			continue
		}

		localID := row.ID
		client := row
		client.ID = ""
		client.OwnerID = ownerID
		if client.RegisteredOn == "" {
			client.RegisteredOn = core.Today()
		}
		client.Email = utils.TrimOptional(client.Email)
		client.Address = utils.TrimOptional(client.Address)
		if err := validateClient(&client); err != nil {
			s.logMigrationFailure(localstore.SlotClients, localID, err)
			failed++
			continue
		}
		err = s.moveRow(ctx, deviceID, localstore.SlotClients, localID, func(exec repositories.SQLExecutor) (string, error) {
			return s.clientRepo.Create(exec, &client)
		})
		if err != nil {
			failed++
			continue
		}
		report.ClientsMigrated++
	}

	report.Failed += failed
	if failed == 0 {
		return s.store.ClearSlot(ctx, deviceID, localstore.SlotClients)
	}
	return nil
}

func (s *localDataService) migrateSales(ctx context.Context, ownerID, deviceID string, report *MigrationReport) error {
	raw, err := s.store.LoadSlot(ctx, deviceID, localstore.SlotSales)
	if err != nil {
		return err
	}
	var rows []models.Sale
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("%w: stored sales are unreadable: %v", ErrLocalValidation, err)
	}

	failed := 0
	for _, row := range rows {
		done, err := s.store.IsMigrated(ctx, deviceID, localstore.SlotSales, row.ID)
		if err != nil {
			return err
		}
		if done {
			report.Skipped++
			continue
		}

		localID := row.ID
		sale := row
		sale.ID = ""
		sale.OwnerID = ownerID
		sale.Client = nil
		if sale.SaleDate == "" {
			sale.SaleDate = core.Today()
		}
		if sale.Supplier == nil && sale.Carrier != nil {
			carrier := *sale.Carrier
			sale.Supplier = &carrier
		}
		if err := validateSale(&sale); err != nil {
			s.logMigrationFailure(localstore.SlotSales, localID, err)
			failed++
			continue
		}
		err = s.moveRow(ctx, deviceID, localstore.SlotSales, localID, func(exec repositories.SQLExecutor) (string, error) {
			return s.saleRepo.Create(exec, &sale)
		})
		if err != nil {
			failed++
			continue
		}
		report.SalesMigrated++
	}

	report.Failed += failed
	if failed == 0 {
		return s.store.ClearSlot(ctx, deviceID, localstore.SlotSales)
	}
	return nil
}

// moveRow inserts one local row and records it as migrated in a single step:
// the insert commits only after the record is written, and the record is
// dropped again if the commit fails.
func (s *localDataService) moveRow(ctx context.Context, deviceID string, slot localstore.Slot, localID string, create func(exec repositories.SQLExecutor) (string, error)) error {
	var remoteID string
	marked := false
	err := withTx(s.db, func(tx *sql.Tx) error {
		id, err := create(tx)
		if err != nil {
			return err
		}
		remoteID = id
		if err := s.store.MarkMigrated(ctx, deviceID, slot, localID, id); err != nil {
			return err
		}
		marked = true
		return nil
	})
	if err == nil {
		return nil
	}

	if marked {
		if uerr := s.store.UnmarkMigrated(ctx, deviceID, slot, localID); uerr != nil {
			utils.LogError(uerr, "Failed to drop migration record after rollback", map[string]interface{}{
				"slot": string(slot), "local_id": localID, "remote_id": remoteID,
			})
		}
	}
	utils.LogWarn("Local row left in place after failed migration", map[string]interface{}{
		"slot": string(slot), "local_id": localID, "remote_id": remoteID, "error": err.Error(),
	})
	return err
}

func (s *localDataService) logMigrationFailure(slot localstore.Slot, localID string, err error) {
	utils.LogWarn("Local row left in place after failed migration", map[string]interface{}{
		"slot": string(slot), "local_id": localID, "error": err.Error(),
	})
}
