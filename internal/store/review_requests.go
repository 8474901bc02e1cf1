package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	ReviewRequestPending   = "pending"
	ReviewRequestCompleted = "completed"
)

type ReviewRequest struct {
	ID            int64      `json:"id"`
	TokenHash     string     `json:"-"` // sha256 hex of the mailed token
	Status        string     `json:"status"`
	OwnerUserID   int64      `json:"owner_user_id"`
	ProjectID     int64      `json:"project_id"`
	ProfileID     int64      `json:"profile_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Disclosure is everything a reviewer is allowed to see before submitting:
// the project title and the business name, nothing else. The lookup joins
// projects and profiles with LEFT JOIN so a dangling reference scans as nil
// instead of dropping the row, which lets callers tell "token not found"
// apart from "related record missing".
type Disclosure struct {
	ProjectTitle *string
	BusinessName *string
}

type ReviewRequestsStore struct {
	db DB
}

// CreateWithFn inserts a review request and then runs fn inside the same
// transaction, rolling the insert back if fn fails. Callers use fn to send
// the invitation email so a request row never exists without its email
// having gone out.
func (s *ReviewRequestsStore) CreateWithFn(ctx context.Context, rr *ReviewRequest, fn func() error) error {
	return withTx(s.db, ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO review_requests (token_hash, status, owner_user_id, project_id, profile_id, customer_name, customer_email)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`

		ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
		defer cancel()

		err := tx.QueryRow(ctx, query,
			rr.TokenHash,
			ReviewRequestPending,
			rr.OwnerUserID,
			rr.ProjectID,
			rr.ProfileID,
			rr.CustomerName,
			rr.CustomerEmail,
		).Scan(&rr.ID, &rr.CreatedAt)
		if err != nil {
			return err
		}
		rr.Status = ReviewRequestPending

		return fn()
	})
}

// GetDisclosureByToken resolves the reviewer-facing context for a pending
// request. It never mutates anything and is safe to call any number of times.
func (s *ReviewRequestsStore) GetDisclosureByToken(ctx context.Context, tokenHash string) (*Disclosure, error) {
	query := `
		SELECT rr.status, p.title, pr.business_name
		FROM review_requests rr
		LEFT JOIN projects p ON p.id = rr.project_id
		LEFT JOIN profiles pr ON pr.id = rr.profile_id
		WHERE rr.token_hash = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var status string
	d := &Disclosure{}
	err := s.db.QueryRow(ctx, query, tokenHash).Scan(&status, &d.ProjectTitle, &d.BusinessName)
	if err != nil {
		switch err {
		case pgx.ErrNoRows:
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	if status != ReviewRequestPending {
		return nil, ErrAlreadyCompleted
	}

	return d, nil
}

// Consume flips a pending request to completed and stores the testimonial
// in one transaction. The status flip is a conditional update keyed on
// status = 'pending', so under concurrent submits on the same token exactly
// one transaction wins; the losers see zero rows affected and get
// ErrAlreadyCompleted (or ErrNotFound if the token never existed). The
// testimonial's user_id and project_id are copied from the request row
// inside the transaction, never taken from the caller.
func (s *ReviewRequestsStore) Consume(ctx context.Context, tokenHash string, t *Testimonial) error {
	return withTx(s.db, ctx, func(tx pgx.Tx) error {
		ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
		defer cancel()

		update := `
			UPDATE review_requests
			SET status = $1, completed_at = NOW()
			WHERE token_hash = $2 AND status = $3
			RETURNING owner_user_id, project_id
		`

		err := tx.QueryRow(ctx, update, ReviewRequestCompleted, tokenHash, ReviewRequestPending).
			Scan(&t.UserID, &t.ProjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				// Lost the race or the token was never valid. Re-read to
				// tell the two apart.
				var status string
				probe := `SELECT status FROM review_requests WHERE token_hash = $1`
				if perr := tx.QueryRow(ctx, probe, tokenHash).Scan(&status); perr != nil {
					if perr == pgx.ErrNoRows {
						return ErrNotFound
					}
					return perr
				}
				return ErrAlreadyCompleted
			}
			return err
		}

		insert := `
			INSERT INTO testimonials (user_id, project_id, author_name, author_handle, body, is_published)
			VALUES ($1, $2, $3, $4, $5, false)
			RETURNING id, created_at, updated_at
		`

		return tx.QueryRow(ctx, insert,
			t.UserID,
			t.ProjectID,
			t.AuthorName,
			t.AuthorHandle,
			t.Body,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	})
}

func (s *ReviewRequestsStore) ListByOwner(ctx context.Context, ownerID int64) ([]ReviewRequest, error) {
	query := `
		SELECT id, status, owner_user_id, project_id, profile_id, customer_name, customer_email, created_at, completed_at
		FROM review_requests
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []ReviewRequest
	for rows.Next() {
		var rr ReviewRequest
		err := rows.Scan(
			&rr.ID,
			&rr.Status,
			&rr.OwnerUserID,
			&rr.ProjectID,
			&rr.ProfileID,
			&rr.CustomerName,
			&rr.CustomerEmail,
			&rr.CreatedAt,
			&rr.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, rr)
	}
	return requests, rows.Err()
}
