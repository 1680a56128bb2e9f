package services

import (
	"testing"
	"time"

	"travel_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type approvalFixture struct {
	auth      *authFixture
	svc       ApprovalService
	admin     *models.Account
	applicant *models.Account
	requestID string
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	af := newAuthFixture(t)
	applicant, err := af.svc.SignUp(validSignUp())
	require.NoError(t, err)
	latest, err := af.approvals.LatestForAccount(applicant.ID)
	require.NoError(t, err)

	return &approvalFixture{
		auth:      af,
		svc:       NewApprovalService(af.approvals, af.accounts, newTestDB(t)),
		admin:     af.accounts.addAdmin(t),
		applicant: applicant,
		requestID: latest.ID,
	}
}

func TestApproveByAdmin(t *testing.T) {
	f := newApprovalFixture(t)

	req, err := f.svc.Approve(f.admin.ID, f.requestID, ptr("  welcome  "))
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, req.Status)
	require.NotNil(t, req.ReviewedBy)
	assert.Equal(t, f.admin.ID, *req.ReviewedBy)
	assert.Equal(t, "welcome", *req.AdminNotes)

	acc, err := f.auth.accounts.FindByID(f.applicant.ID)
	require.NoError(t, err)
	assert.True(t, acc.IsApproved)
	assert.Equal(t, f.admin.ID, *acc.ApprovedBy)

	_, err = f.svc.Reject(f.admin.ID, f.requestID, nil)
	assert.ErrorIs(t, err, ErrApprovalAlreadyReviewed)
}

func TestRejectKeepsAccountLocked(t *testing.T) {
	f := newApprovalFixture(t)

	_, err := f.svc.Reject(f.admin.ID, f.requestID, nil)
	require.NoError(t, err)

	sess, err := f.auth.svc.CurrentSession(f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusRejected, sess.Status)
}

func TestNonAdminCannotDecide(t *testing.T) {
	f := newApprovalFixture(t)

	_, err := f.svc.Approve(f.applicant.ID, f.requestID, nil)
	assert.ErrorIs(t, err, ErrApprovalUnauthorized)

	req, err := f.auth.approvals.GetByID(f.requestID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusPending, req.Status)
	assert.Nil(t, req.ReviewedBy)

	_, err = f.svc.ListPending(f.applicant.ID)
	assert.ErrorIs(t, err, ErrApprovalUnauthorized)
}

func TestApproveUnknownRequest(t *testing.T) {
	f := newApprovalFixture(t)
	_, err := f.svc.Approve(f.admin.ID, "00000000-0000-0000-0000-000000000000", nil)
	assert.ErrorIs(t, err, ErrApprovalNotFound)
}

func TestApprovalListingOrderAndCounts(t *testing.T) {
	f := newApprovalFixture(t)
	base := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"later", "earliest"} {
		_, err := f.auth.approvals.Create(nil, &models.ApprovalRequest{
			AccountID: name, Name: name, Email: name + "@x.com",
			RequestedAt: base.Add(time.Duration(1-i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := f.svc.Approve(f.admin.ID, f.requestID, nil)
	require.NoError(t, err)

	pending, err := f.svc.ListPending(f.admin.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "earliest", pending[0].Name)
	assert.Equal(t, "later", pending[1].Name)

	all, err := f.svc.ListAll(f.admin.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "later", all[0].Name)

	counts, err := f.svc.Counts(f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalCounts{Pending: 2, Processed: 1}, counts)
}
