package services

import (
	"context"
	"testing"
	"time"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/session"
	"travel_crm_backend/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc       AuthService
	accounts  *fakeAccountRepo
	approvals *fakeApprovalRepo
	tokens    *utils.TokenManager
	sessions  session.Store
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens, err := utils.NewTokenManager("a-test-secret-of-sufficient-length", time.Hour)
	require.NoError(t, err)

	f := &authFixture{
		accounts:  newFakeAccountRepo(),
		approvals: newFakeApprovalRepo(),
		tokens:    tokens,
		sessions:  session.NewRedisStore(client),
	}
	f.svc = NewAuthService(f.accounts, f.approvals, newTestDB(t), tokens, f.sessions)
	return f
}

func validSignUp() SignUpRequest {
	return SignUpRequest{Name: "Ana Souza", Email: "Ana@Example.com", Password: "secret1", ConfirmPassword: "secret1"}
}

func TestSignUpValidation(t *testing.T) {
	f := newAuthFixture(t)

	cases := map[string]func(r *SignUpRequest){
		"missing name":        func(r *SignUpRequest) { r.Name = " " },
		"invalid email":       func(r *SignUpRequest) { r.Email = "ana.example.com" },
		"short password":      func(r *SignUpRequest) { r.Password, r.ConfirmPassword = "12345", "12345" },
		"confirmation differ": func(r *SignUpRequest) { r.ConfirmPassword = "secret2" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validSignUp()
			mutate(&req)
			_, err := f.svc.SignUp(req)
			assert.ErrorIs(t, err, ErrAuthValidation)
		})
	}
	assert.Empty(t, f.accounts.accounts)
}

func TestSignUpCreatesPendingAccount(t *testing.T) {
	f := newAuthFixture(t)

	acc, err := f.svc.SignUp(validSignUp())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", acc.Email)
	assert.False(t, acc.IsApproved)
	assert.Empty(t, acc.PasswordHash)

	pending, err := f.approvals.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, acc.ID, pending[0].AccountID)
	assert.Nil(t, pending[0].ReviewedAt)

	_, err = f.svc.SignUp(validSignUp())
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignInAndSignOut(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(validSignUp())
	require.NoError(t, err)

	_, err = f.svc.SignIn(ctx, LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.SignIn(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.svc.SignIn(ctx, LoginRequest{Email: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, resp.Status)

	claims, err := f.tokens.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, claims.AccountID)

	alive, err := f.sessions.Exists(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, alive)

	require.NoError(t, f.svc.SignOut(ctx, claims.ID))
	alive, err = f.sessions.Exists(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, alive)
}

func TestCurrentSessionReflectsApproval(t *testing.T) {
	f := newAuthFixture(t)
	acc, err := f.svc.SignUp(validSignUp())
	require.NoError(t, err)

	sess, err := f.svc.CurrentSession(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, sess.Status)

	require.NoError(t, f.accounts.SetApproval(nil, acc.ID, true, "admin", time.Now()))
	sess, err = f.svc.CurrentSession(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusApproved, sess.Status)

	sess, err = f.svc.CurrentSession("missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, models.AccountStatusNotFound, sess.Status)
}

func TestEnsureAdmin(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.EnsureAdmin("", "", ""))
	n, _ := f.accounts.CountAdmins()
	assert.Zero(t, n)

	require.NoError(t, f.svc.EnsureAdmin("Boss", "boss@agency.com", "supersecret"))
	require.NoError(t, f.svc.EnsureAdmin("Boss", "other@agency.com", "supersecret"))
	n, _ = f.accounts.CountAdmins()
	assert.Equal(t, 1, n)

	admin, _, err := f.accounts.FindByEmail("boss@agency.com")
	require.NoError(t, err)
	assert.True(t, admin.IsApproved)
}
