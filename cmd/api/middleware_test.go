package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"craftsite/internal/store"

	"github.com/stretchr/testify/assert"
)

func adminProbe(app *application) (http.Handler, *bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return app.RequireAdmin(next), &reached
}

func requestAsUser(user *store.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), userCtx, user))
	}
	return req
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	app := newTestApplication(t, store.Storage{
		Roles: &rolesStub{
			userHasRoleFn: func(ctx context.Context, userID int64, roleName string) (bool, error) {
				assert.Equal(t, int64(7), userID)
				assert.Equal(t, store.RoleAdmin, roleName)
				return true, nil
			},
		},
	})
	handler, reached := adminProbe(app)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAsUser(&store.User{ID: 7}))

	checkResponseCode(t, http.StatusOK, res.Code)
	assert.True(t, *reached)
}

func TestRequireAdmin_DeniesNonAdmin(t *testing.T) {
	app := newTestApplication(t, store.Storage{
		Roles: &rolesStub{
			userHasRoleFn: func(ctx context.Context, userID int64, roleName string) (bool, error) {
				return false, nil
			},
		},
	})
	handler, reached := adminProbe(app)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAsUser(&store.User{ID: 8}))

	checkResponseCode(t, http.StatusForbidden, res.Code)
	assert.False(t, *reached)
}

func TestRequireAdmin_DeniesOnLookupError(t *testing.T) {
	app := newTestApplication(t, store.Storage{
		Roles: &rolesStub{
			userHasRoleFn: func(ctx context.Context, userID int64, roleName string) (bool, error) {
				return false, errors.New("connection refused")
			},
		},
	})
	handler, reached := adminProbe(app)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAsUser(&store.User{ID: 7}))

	// Lookup failures never grant access.
	checkResponseCode(t, http.StatusForbidden, res.Code)
	assert.False(t, *reached)
}

func TestRequireAdmin_DeniesWithoutSession(t *testing.T) {
	app := newTestApplication(t, store.Storage{})
	handler, reached := adminProbe(app)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestAsUser(nil))

	checkResponseCode(t, http.StatusUnauthorized, res.Code)
	assert.False(t, *reached)
}
