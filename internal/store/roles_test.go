package store

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRolesFixture(t *testing.T) (*RolesStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &RolesStore{db: mock}, mock
}

func TestRolesStore_UserHasRole_True(t *testing.T) {
	store, mock := newRolesFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.UserHasRole(context.Background(), 7, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRolesStore_UserHasRole_False(t *testing.T) {
	store, mock := newRolesFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(8), RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := store.UserHasRole(context.Background(), 8, RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRolesStore_AssignRole(t *testing.T) {
	store, mock := newRolesFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(7), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.AssignRole(context.Background(), 7, 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRolesStore_RemoveRole_NotAssigned(t *testing.T) {
	store, mock := newRolesFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM user_roles").
		WithArgs(int64(7), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.RemoveRole(context.Background(), 7, 2)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
