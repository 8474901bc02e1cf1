package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Testimonial struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ProjectID    int64     `json:"project_id"`
	AuthorName   string    `json:"author_name"`
	AuthorHandle *string   `json:"author_handle,omitempty"`
	Body         string    `json:"body"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Joined field
	ProjectTitle string `json:"project_title,omitempty"`
}

type TestimonialsStore struct {
	db DB
}

func (s *TestimonialsStore) ListByOwner(ctx context.Context, ownerID int64, published *bool) ([]Testimonial, error) {
	query := `
		SELECT t.id, t.user_id, t.project_id, t.author_name, t.author_handle, t.body, t.is_published,
		       t.created_at, t.updated_at, p.title
		FROM testimonials t
		JOIN projects p ON p.id = t.project_id
		WHERE t.user_id = $1 AND ($2::boolean IS NULL OR t.is_published = $2)
		ORDER BY t.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, ownerID, published)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTestimonials(rows)
}

func (s *TestimonialsStore) ListPublishedByProfile(ctx context.Context, profileID int64) ([]Testimonial, error) {
	query := `
		SELECT t.id, t.user_id, t.project_id, t.author_name, t.author_handle, t.body, t.is_published,
		       t.created_at, t.updated_at, p.title
		FROM testimonials t
		JOIN projects p ON p.id = t.project_id
		WHERE p.profile_id = $1 AND t.is_published = true
		ORDER BY t.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTestimonials(rows)
}

// SetPublished flips is_published for a testimonial owned by ownerID. The
// owner check lives in the WHERE clause so one tenant can never moderate
// another tenant's testimonial.
func (s *TestimonialsStore) SetPublished(ctx context.Context, testimonialID, ownerID int64, published bool) error {
	query := `
		UPDATE testimonials
		SET is_published = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, query, published, testimonialID, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TestimonialsStore) Delete(ctx context.Context, testimonialID, ownerID int64) error {
	query := `DELETE FROM testimonials WHERE id = $1 AND user_id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, query, testimonialID, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTestimonials(rows pgx.Rows) ([]Testimonial, error) {
	var testimonials []Testimonial
	for rows.Next() {
		var t Testimonial
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.ProjectID,
			&t.AuthorName,
			&t.AuthorHandle,
			&t.Body,
			&t.IsPublished,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.ProjectTitle,
		)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}
