package services

import (
	"strings"
	"testing"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	svc     SaleService
	sales   *fakeSaleRepo
	clients *fakeClientRepo
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	f := &saleFixture{sales: &fakeSaleRepo{}, clients: &fakeClientRepo{}}
	f.svc = NewSaleService(f.sales, f.clients, newTestDB(t))
	return f
}

func saleRequest(client string) SaleRequest {
	return SaleRequest{
		ClientName:    client,
		Amount:        ptr(1500.0),
		PartySize:     2,
		Origin:        ptr("GRU"),
		Destination:   ptr("Lisboa"),
		OutboundDate:  ptr("2025-03-10"),
		ReturnDate:    ptr("2025-03-20"),
		Carrier:       ptr("TAP"),
		PaymentMethod: string(models.PaymentMethodPix),
		SaleDate:      ptr("2025-02-01"),
		Status:        string(models.SaleStatusConfirmed),
		Category:      string(models.SaleCategoryAir),
	}
}

func TestCreateSaleTakesCarrierAsSupplier(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.svc.CreateSale(ownerA, saleRequest("João"))
	require.NoError(t, err)
	require.NotNil(t, sale.Supplier)
	assert.Equal(t, "TAP", *sale.Supplier)

	req := saleRequest("João")
	req.Supplier = ptr("Consolidadora X")
	sale, err = f.svc.CreateSale(ownerA, req)
	require.NoError(t, err)
	assert.Equal(t, "Consolidadora X", *sale.Supplier)
}

func TestCreateSaleValidation(t *testing.T) {
	f := newSaleFixture(t)

	cases := map[string]func(r *SaleRequest){
		"negative amount": func(r *SaleRequest) { r.Amount = ptr(-1.0) },
		"missing amount":  func(r *SaleRequest) { r.Amount = nil },
		"no passengers":   func(r *SaleRequest) { r.PartySize = 0 },
		"bad status":      func(r *SaleRequest) { r.Status = "confirmada" },
		"bad category":    func(r *SaleRequest) { r.Category = "cruise" },
		"bad payment":     func(r *SaleRequest) { r.PaymentMethod = "cheque" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := saleRequest("João")
			mutate(&req)
			_, err := f.svc.CreateSale(ownerA, req)
			assert.ErrorIs(t, err, ErrSaleValidation)
		})
	}

	req := saleRequest("João")
	req.OutboundDate = ptr("10/03/2025")
	_, err := f.svc.CreateSale(ownerA, req)
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestReturnBeforeOutboundIsAccepted(t *testing.T) {
	f := newSaleFixture(t)
	req := saleRequest("João")
	req.ReturnDate = ptr("2025-03-01")

	sale, err := f.svc.CreateSale(ownerA, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", *sale.ReturnDate)
}

func TestUpdateSaleKeepsFinancials(t *testing.T) {
	f := newSaleFixture(t)
	req := saleRequest("João")
	req.Cost = ptr(900.0)
	sale, err := f.svc.CreateSale(ownerA, req)
	require.NoError(t, err)

	req = saleRequest("João Silva")
	req.Cost = ptr(1.0)
	req.Carrier = ptr("LATAM")
	updated, err := f.svc.UpdateSale(ownerA, sale.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "João Silva", updated.ClientName)
	assert.Equal(t, 900.0, *updated.Cost)
	assert.Equal(t, "TAP", *updated.Supplier)

	updated, err = f.svc.UpdateFinancials(ownerA, sale.ID, UpdateFinancialsRequest{Cost: ptr(1000.0), Supplier: ptr("LATAM")})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, *updated.Cost)
	assert.Equal(t, 500.0, updated.Profit())

	_, err = f.svc.UpdateFinancials(ownerA, sale.ID, UpdateFinancialsRequest{Cost: ptr(-5.0)})
	assert.ErrorIs(t, err, ErrSaleValidation)
	_, err = f.svc.UpdateSale(ownerB, sale.ID, saleRequest("x"))
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestUpdateSaleKeepsSaleDateWhenOmitted(t *testing.T) {
	f := newSaleFixture(t)
	sale, err := f.svc.CreateSale(ownerA, saleRequest("João"))
	require.NoError(t, err)
	require.Equal(t, "2025-02-01", sale.SaleDate)

	req := saleRequest("João")
	req.SaleDate = nil
	req.Notes = ptr("cliente pediu assento na janela")
	updated, err := f.svc.UpdateSale(ownerA, sale.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", updated.SaleDate)

	req.SaleDate = ptr("  ")
	updated, err = f.svc.UpdateSale(ownerA, sale.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", updated.SaleDate)

	req.SaleDate = ptr("2025-04-15")
	updated, err = f.svc.UpdateSale(ownerA, sale.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-15", updated.SaleDate)
}

func TestCreateSaleDefaultsSaleDateToToday(t *testing.T) {
	f := newSaleFixture(t)
	req := saleRequest("João")
	req.SaleDate = nil

	sale, err := f.svc.CreateSale(ownerA, req)
	require.NoError(t, err)
	assert.Equal(t, core.Today(), sale.SaleDate)
}

func TestListResolvesClientsAndFilters(t *testing.T) {
	f := newSaleFixture(t)
	_, err := f.clients.Create(nil, &models.Client{OwnerID: ownerA, Name: "Maria Lima", Phone: "1", TaxID: "2"})
	require.NoError(t, err)

	_, err = f.svc.CreateSale(ownerA, saleRequest("maria lima"))
	require.NoError(t, err)
	other := saleRequest("Pedro")
	other.Destination = ptr("Paris")
	other.OutboundDate = ptr("2025-06-01")
	other.ReturnDate = nil
	_, err = f.svc.CreateSale(ownerA, other)
	require.NoError(t, err)

	all, err := f.svc.List(ownerA, models.SaleFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	lisbon, err := f.svc.List(ownerA, models.SaleFilters{Search: "LISBOA"})
	require.NoError(t, err)
	require.Len(t, lisbon, 1)
	require.NotNil(t, lisbon[0].Client)
	assert.Equal(t, "Maria Lima", lisbon[0].Client.Name)

	june, err := f.svc.List(ownerA, models.SaleFilters{TravelStart: "2025-06-01", TravelEnd: "2025-06-30"})
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, "Pedro", june[0].ClientName)
	assert.Nil(t, june[0].Client)

	_, err = f.svc.List(ownerA, models.SaleFilters{TravelStart: "junho"})
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestDeleteSale(t *testing.T) {
	f := newSaleFixture(t)
	sale, err := f.svc.CreateSale(ownerA, saleRequest("João"))
	require.NoError(t, err)

	_, err = f.svc.CreateSale(ownerA, saleRequest("Maria"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteSale(ownerA, sale.ID, false), ErrConfirmationRequired)
	require.NoError(t, f.svc.DeleteSale(ownerA, sale.ID, true))
	remaining, err := f.sales.ListByOwner(ownerA)
	require.NoError(t, err)
	require.Len(t, remaining, 1)

	assert.ErrorIs(t, f.svc.DeleteSale(ownerA, sale.ID, true), ErrSaleNotFound)
	assert.ErrorIs(t, f.svc.DeleteSale(ownerA, uuid.NewString(), true), ErrSaleNotFound)
	remaining, err = f.sales.ListByOwner(ownerA)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestBulkDelete(t *testing.T) {
	f := newSaleFixture(t)
	var ids []string
	for i := 0; i < 3; i++ {
		sale, err := f.svc.CreateSale(ownerA, saleRequest("João"))
		require.NoError(t, err)
		ids = append(ids, sale.ID)
	}

	_, err := f.svc.BulkDelete(ownerA, BulkDeleteRequest{IDs: nil, Confirm: true})
	assert.ErrorIs(t, err, ErrSaleValidation)

	_, err = f.svc.BulkDelete(ownerA, BulkDeleteRequest{IDs: ids[:2]})
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	_, err = f.svc.BulkDelete(ownerA, BulkDeleteRequest{IDs: []string{ids[0], uuid.NewString()}, Confirm: true})
	assert.ErrorIs(t, err, ErrSaleNotFound)
	_, err = f.svc.BulkDelete(ownerA, BulkDeleteRequest{IDs: []string{ids[0], "not-a-uuid"}, Confirm: true})
	assert.ErrorIs(t, err, ErrSaleNotFound)
	remaining, _ := f.sales.ListByOwner(ownerA)
	assert.Len(t, remaining, 3)

	_, err = f.svc.BulkDelete(ownerB, BulkDeleteRequest{IDs: ids[:1], Confirm: true})
	assert.ErrorIs(t, err, ErrSaleNotFound)

	res, err := f.svc.BulkDelete(ownerA, BulkDeleteRequest{IDs: []string{ids[0], ids[1], ids[0]}, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Deleted)
	remaining, _ = f.sales.ListByOwner(ownerA)
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[2], remaining[0].ID)
}

func TestBulkDeleteTreatsUUIDCaseAsSameID(t *testing.T) {
	f := newSaleFixture(t)
	sale, err := f.svc.CreateSale(ownerA, saleRequest("João"))
	require.NoError(t, err)
	kept, err := f.svc.CreateSale(ownerA, saleRequest("Maria"))
	require.NoError(t, err)

	res, err := f.svc.BulkDelete(ownerA, BulkDeleteRequest{IDs: []string{strings.ToUpper(sale.ID), sale.ID}, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)

	remaining, _ := f.sales.ListByOwner(ownerA)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}
