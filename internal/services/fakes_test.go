package services

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB returns an empty in-memory database. The fakes ignore the
// executor, but services still open and commit real transactions on it.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

// --- accounts ---

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	hashes   map[string]string
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]models.Account{}, hashes: map[string]string{}}
}

func (r *fakeAccountRepo) CreateAccount(_ repositories.SQLExecutor, acc *models.Account, hash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	for _, a := range r.accounts {
		if a.Email == acc.Email {
			return "", repositories.ErrDuplicateKey
		}
	}
	acc.ID = uuid.NewString()
	acc.CreatedAt = time.Now()
	acc.UpdatedAt = acc.CreatedAt
	r.accounts[acc.ID] = *acc
	r.hashes[acc.ID] = hash
	return acc.ID, nil
}

func (r *fakeAccountRepo) FindByEmail(email string) (*models.Account, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for id, a := range r.accounts {
		if a.Email == email {
			acc := a
			return &acc, r.hashes[id], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (r *fakeAccountRepo) FindByID(id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAccountRepo) SetApproval(_ repositories.SQLExecutor, id string, approved bool, approvedBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.IsApproved = approved
	a.ApprovedBy = &approvedBy
	a.ApprovedAt = &at
	r.accounts[id] = a
	return nil
}

func (r *fakeAccountRepo) CountAdmins() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accounts {
		if a.IsAdmin {
			n++
		}
	}
	return n, nil
}

// addAdmin stores an approved administrator directly.
func (r *fakeAccountRepo) addAdmin(t *testing.T) *models.Account {
	t.Helper()
	admin := &models.Account{Name: "Admin", Email: uuid.NewString() + "@agency.com", IsAdmin: true, IsApproved: true}
	_, err := r.CreateAccount(nil, admin, "x")
	require.NoError(t, err)
	return admin
}

// --- approvals ---

type fakeApprovalRepo struct {
	mu   sync.Mutex
	reqs map[string]models.ApprovalRequest
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{reqs: map[string]models.ApprovalRequest{}}
}

func (r *fakeApprovalRepo) Create(_ repositories.SQLExecutor, req *models.ApprovalRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	req.Status = models.ApprovalStatusPending
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now()
	}
	r.reqs[req.ID] = *req
	return req.ID, nil
}

func (r *fakeApprovalRepo) GetByID(id string) (*models.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &req, nil
}

func (r *fakeApprovalRepo) GetByIDForUpdate(_ repositories.SQLExecutor, id string) (*models.ApprovalRequest, error) {
	return r.GetByID(id)
}

func (r *fakeApprovalRepo) LatestForAccount(accountID string) (*models.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.ApprovalRequest
	for _, req := range r.reqs {
		if req.AccountID != accountID {
			continue
		}
		if latest == nil || req.RequestedAt.After(latest.RequestedAt) {
			cp := req
			latest = &cp
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (r *fakeApprovalRepo) sorted(asc bool, keep func(models.ApprovalRequest) bool) []models.ApprovalRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ApprovalRequest{}
	for _, req := range r.reqs {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out
}

func (r *fakeApprovalRepo) ListPending() ([]models.ApprovalRequest, error) {
	return r.sorted(true, func(req models.ApprovalRequest) bool { return req.Status == models.ApprovalStatusPending }), nil
}

func (r *fakeApprovalRepo) ListAll() ([]models.ApprovalRequest, error) {
	return r.sorted(false, func(models.ApprovalRequest) bool { return true }), nil
}

func (r *fakeApprovalRepo) SaveDecision(_ repositories.SQLExecutor, req *models.ApprovalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reqs[req.ID]
	if !ok || stored.Status != models.ApprovalStatusPending {
		return repositories.ErrNotFound
	}
	r.reqs[req.ID] = *req
	return nil
}

func (r *fakeApprovalRepo) CountByStatus() (models.ApprovalCounts, error) {
	all, _ := r.ListAll()
	var c models.ApprovalCounts
	for _, req := range all {
		if req.Status == models.ApprovalStatusPending {
			c.Pending++
		} else {
			c.Processed++
		}
	}
	return c, nil
}

// --- clients ---

type fakeClientRepo struct {
	mu      sync.Mutex
	clients []models.Client
	seq     int
}

func (r *fakeClientRepo) ListByOwner(ownerID string, searchTerm *string) ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Client{}
	for i := len(r.clients) - 1; i >= 0; i-- {
		c := r.clients[i]
		if c.OwnerID != ownerID {
			continue
		}
		if searchTerm != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*searchTerm)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClientRepo) GetByID(ownerID, id string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.OwnerID == ownerID && c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeClientRepo) FindByName(ownerID, name string) (*models.Client, error) {
	list, _ := r.ListByOwner(ownerID, nil)
	for _, c := range list {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			cp := c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeClientRepo) Create(_ repositories.SQLExecutor, c *models.Client) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	c.UpdatedAt = c.CreatedAt
	r.clients = append(r.clients, *c)
	return c.ID, nil
}

func (r *fakeClientRepo) Update(_ repositories.SQLExecutor, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].OwnerID == c.OwnerID && r.clients[i].ID == c.ID {
			c.UpdatedAt = time.Now()
			r.clients[i] = *c
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeClientRepo) Delete(_ repositories.SQLExecutor, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].OwnerID == ownerID && r.clients[i].ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// --- sales ---

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales []models.Sale
	seq   int
}

func (r *fakeSaleRepo) ListByOwner(ownerID string) ([]models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Sale{}
	for i := len(r.sales) - 1; i >= 0; i-- {
		if r.sales[i].OwnerID == ownerID {
			out = append(out, r.sales[i])
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) index(ownerID, id string) int {
	for i := range r.sales {
		if r.sales[i].OwnerID == ownerID && r.sales[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fakeSaleRepo) GetByID(ownerID, id string) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(ownerID, id)
	if i < 0 {
		return nil, repositories.ErrNotFound
	}
	cp := r.sales[i]
	return &cp, nil
}

func (r *fakeSaleRepo) Create(_ repositories.SQLExecutor, s *models.Sale) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	s.UpdatedAt = s.CreatedAt
	stored := *s
	stored.Client = nil
	r.sales = append(r.sales, stored)
	return s.ID, nil
}

func (r *fakeSaleRepo) Update(_ repositories.SQLExecutor, s *models.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(s.OwnerID, s.ID)
	if i < 0 {
		return repositories.ErrNotFound
	}
	stored := *s
	stored.Client = nil
	stored.Cost = r.sales[i].Cost
	stored.Supplier = r.sales[i].Supplier
	stored.UpdatedAt = time.Now()
	r.sales[i] = stored
	return nil
}

func (r *fakeSaleRepo) UpdateFinancials(_ repositories.SQLExecutor, ownerID, id string, cost *float64, supplier *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(ownerID, id)
	if i < 0 {
		return repositories.ErrNotFound
	}
	r.sales[i].Cost = cost
	r.sales[i].Supplier = supplier
	return nil
}

func (r *fakeSaleRepo) Delete(_ repositories.SQLExecutor, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(ownerID, id)
	if i < 0 {
		return repositories.ErrNotFound
	}
	r.sales = append(r.sales[:i], r.sales[i+1:]...)
	return nil
}

func (r *fakeSaleRepo) CountExisting(_ repositories.SQLExecutor, ownerID string, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		if r.index(ownerID, id) >= 0 {
			n++
		}
	}
	return n, nil
}

func (r *fakeSaleRepo) DeleteMany(_ repositories.SQLExecutor, ownerID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if i := r.index(ownerID, id); i >= 0 {
			r.sales = append(r.sales[:i], r.sales[i+1:]...)
			n++
		}
	}
	return n, nil
}

var (
	_ repositories.AccountRepository  = (*fakeAccountRepo)(nil)
	_ repositories.ApprovalRepository = (*fakeApprovalRepo)(nil)
	_ repositories.ClientRepository   = (*fakeClientRepo)(nil)
	_ repositories.SaleRepository     = (*fakeSaleRepo)(nil)
)
