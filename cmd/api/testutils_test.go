package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftsite/internal/ratelimiter"
	"craftsite/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApplication(t *testing.T, st store.Storage) *application {
	t.Helper()
	return &application{
		config: config{
			addr: ":0",
			env:  "test",
			rateLimiter: ratelimiter.Config{
				Enabled: false,
			},
		},
		store:  st,
		logger: zap.NewNop().Sugar(),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	require.Equal(t, expected, actual)
}

// ---------- STORE STUBS ----------

type reviewRequestsStub struct {
	getDisclosureFn func(ctx context.Context, tokenHash string) (*store.Disclosure, error)
	consumeFn       func(ctx context.Context, tokenHash string, tm *store.Testimonial) error
}

func (s *reviewRequestsStub) CreateWithFn(ctx context.Context, rr *store.ReviewRequest, fn func() error) error {
	return fn()
}

func (s *reviewRequestsStub) GetDisclosureByToken(ctx context.Context, tokenHash string) (*store.Disclosure, error) {
	return s.getDisclosureFn(ctx, tokenHash)
}

func (s *reviewRequestsStub) Consume(ctx context.Context, tokenHash string, tm *store.Testimonial) error {
	return s.consumeFn(ctx, tokenHash, tm)
}

func (s *reviewRequestsStub) ListByOwner(ctx context.Context, ownerID int64) ([]store.ReviewRequest, error) {
	return nil, nil
}

type rolesStub struct {
	userHasRoleFn func(ctx context.Context, userID int64, roleName string) (bool, error)
}

func (s *rolesStub) UserHasRole(ctx context.Context, userID int64, roleName string) (bool, error) {
	return s.userHasRoleFn(ctx, userID, roleName)
}

func (s *rolesStub) GetUserRoles(ctx context.Context, userID int64) ([]store.Role, error) {
	return nil, nil
}

func (s *rolesStub) AssignRole(ctx context.Context, userID, roleID int64) error { return nil }

func (s *rolesStub) RemoveRole(ctx context.Context, userID, roleID int64) error { return nil }

type usersStub struct{}

func (s *usersStub) GetByID(ctx context.Context, id int64) (*store.User, error) {
	return &store.User{ID: id, FirstName: "Test", LastName: "User", Email: "tester@example.com", IsActive: true}, nil
}

func (s *usersStub) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	return nil, store.ErrNotFound
}

func (s *usersStub) CreateAndInvite(ctx context.Context, user *store.User, token string, exp time.Duration) error {
	return nil
}

func (s *usersStub) Activate(ctx context.Context, token string) error { return nil }

func (s *usersStub) Delete(ctx context.Context, id int64) error { return nil }

func (s *usersStub) SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	return nil
}

func (s *usersStub) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	return "", store.ErrNotFound
}

func (s *usersStub) DeleteRefreshToken(ctx context.Context, userID int64) error { return nil }

func (s *usersStub) ListWithRoles(ctx context.Context, limit, offset int) ([]store.UserWithRoles, error) {
	return nil, nil
}
