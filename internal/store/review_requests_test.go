package store

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewRequestsFixture(t *testing.T) (*ReviewRequestsStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &ReviewRequestsStore{db: mock}, mock
}

const testTokenHash = "b3a8e0e1f9ab1bfe3a36f231f676f78bb30a519d2b21e6c530c0eee8ebb4a5d0"

// ---------------------------------------------------------------------------
// GetDisclosureByToken
// ---------------------------------------------------------------------------

func TestReviewRequestsStore_GetDisclosure_Pending(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	title := "Bathroom Remodel"
	business := "Acme Plumbing"

	mock.ExpectQuery("SELECT rr.status, p.title, pr.business_name").
		WithArgs(testTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"status", "title", "business_name"}).
			AddRow(ReviewRequestPending, &title, &business))

	d, err := store.GetDisclosureByToken(context.Background(), testTokenHash)
	require.NoError(t, err)
	require.NotNil(t, d.ProjectTitle)
	require.NotNil(t, d.BusinessName)
	assert.Equal(t, "Bathroom Remodel", *d.ProjectTitle)
	assert.Equal(t, "Acme Plumbing", *d.BusinessName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_GetDisclosure_UnknownToken(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT rr.status, p.title, pr.business_name").
		WithArgs(testTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"status", "title", "business_name"}))

	d, err := store.GetDisclosureByToken(context.Background(), testTokenHash)
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_GetDisclosure_AlreadyCompleted(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	title := "Bathroom Remodel"
	business := "Acme Plumbing"

	mock.ExpectQuery("SELECT rr.status, p.title, pr.business_name").
		WithArgs(testTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"status", "title", "business_name"}).
			AddRow(ReviewRequestCompleted, &title, &business))

	d, err := store.GetDisclosureByToken(context.Background(), testTokenHash)
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrAlreadyCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_GetDisclosure_DanglingRefsScanNil(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT rr.status, p.title, pr.business_name").
		WithArgs(testTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"status", "title", "business_name"}).
			AddRow(ReviewRequestPending, (*string)(nil), (*string)(nil)))

	d, err := store.GetDisclosureByToken(context.Background(), testTokenHash)
	require.NoError(t, err)
	assert.Nil(t, d.ProjectTitle)
	assert.Nil(t, d.BusinessName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Consume
// ---------------------------------------------------------------------------

func TestReviewRequestsStore_Consume_Success(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE review_requests").
		WithArgs(ReviewRequestCompleted, testTokenHash, ReviewRequestPending).
		WillReturnRows(pgxmock.NewRows([]string{"owner_user_id", "project_id"}).
			AddRow(int64(7), int64(42)))
	mock.ExpectQuery("INSERT INTO testimonials").
		WithArgs(int64(7), int64(42), "Jane Doe", (*string)(nil), "Great work, highly recommend.").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))
	mock.ExpectCommit()

	tm := &Testimonial{
		AuthorName: "Jane Doe",
		Body:       "Great work, highly recommend.",
	}
	err := store.Consume(context.Background(), testTokenHash, tm)
	require.NoError(t, err)

	// Ownership comes from the request row, never the caller.
	assert.Equal(t, int64(7), tm.UserID)
	assert.Equal(t, int64(42), tm.ProjectID)
	assert.Equal(t, int64(1), tm.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_Consume_UnknownToken(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE review_requests").
		WithArgs(ReviewRequestCompleted, testTokenHash, ReviewRequestPending).
		WillReturnRows(pgxmock.NewRows([]string{"owner_user_id", "project_id"}))
	mock.ExpectQuery("SELECT status FROM review_requests").
		WithArgs(testTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	err := store.Consume(context.Background(), testTokenHash, &Testimonial{
		AuthorName: "Jane Doe",
		Body:       "Great work.",
	})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_Consume_LostRace(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	// The conditional update matches zero rows but the token row exists,
	// meaning another submit already flipped it to completed.
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE review_requests").
		WithArgs(ReviewRequestCompleted, testTokenHash, ReviewRequestPending).
		WillReturnRows(pgxmock.NewRows([]string{"owner_user_id", "project_id"}))
	mock.ExpectQuery("SELECT status FROM review_requests").
		WithArgs(testTokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(ReviewRequestCompleted))
	mock.ExpectRollback()

	err := store.Consume(context.Background(), testTokenHash, &Testimonial{
		AuthorName: "Jane Doe",
		Body:       "Great work.",
	})
	assert.True(t, errors.Is(err, ErrAlreadyCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_Consume_InsertFailureRollsBack(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE review_requests").
		WithArgs(ReviewRequestCompleted, testTokenHash, ReviewRequestPending).
		WillReturnRows(pgxmock.NewRows([]string{"owner_user_id", "project_id"}).
			AddRow(int64(7), int64(42)))
	mock.ExpectQuery("INSERT INTO testimonials").
		WithArgs(int64(7), int64(42), "Jane Doe", (*string)(nil), "Great work.").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := store.Consume(context.Background(), testTokenHash, &Testimonial{
		AuthorName: "Jane Doe",
		Body:       "Great work.",
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// CreateWithFn
// ---------------------------------------------------------------------------

func TestReviewRequestsStore_CreateWithFn_RollsBackWhenFnFails(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO review_requests").
		WithArgs(testTokenHash, ReviewRequestPending, int64(7), int64(42), int64(3), "Jane Doe", "jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), now))
	mock.ExpectRollback()

	rr := &ReviewRequest{
		TokenHash:     testTokenHash,
		OwnerUserID:   7,
		ProjectID:     42,
		ProfileID:     3,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	}
	err := store.CreateWithFn(context.Background(), rr, func() error {
		return errors.New("smtp unavailable")
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequestsStore_CreateWithFn_Success(t *testing.T) {
	store, mock := newReviewRequestsFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO review_requests").
		WithArgs(testTokenHash, ReviewRequestPending, int64(7), int64(42), int64(3), "Jane Doe", "jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), now))
	mock.ExpectCommit()

	rr := &ReviewRequest{
		TokenHash:     testTokenHash,
		OwnerUserID:   7,
		ProjectID:     42,
		ProfileID:     3,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	}
	called := false
	err := store.CreateWithFn(context.Background(), rr, func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, int64(9), rr.ID)
	assert.Equal(t, ReviewRequestPending, rr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
