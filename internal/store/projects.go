package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrProjectInUse is returned when a project still has review requests
// pointing at it.
var ErrProjectInUse = errors.New("project has review requests and cannot be deleted")

type Project struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"owner_user_id"`
	ProfileID   int64     `json:"profile_id"`
	Title       string    `json:"title"`
	Summary     *string   `json:"summary,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectsStore struct {
	db DB
}

func (s *ProjectsStore) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (owner_user_id, profile_id, title, summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		p.OwnerUserID,
		p.ProfileID,
		p.Title,
		p.Summary,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *ProjectsStore) Update(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects
		SET title = $1, summary = $2, updated_at = NOW()
		WHERE id = $3 AND owner_user_id = $4
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, query, p.Title, p.Summary, p.ID, p.OwnerUserID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProjectsStore) GetByID(ctx context.Context, projectID int64) (*Project, error) {
	query := `
		SELECT id, owner_user_id, profile_id, title, summary, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	p := &Project{}
	err := s.db.QueryRow(ctx, query, projectID).Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.ProfileID,
		&p.Title,
		&p.Summary,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		switch err {
		case pgx.ErrNoRows:
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}
	return p, nil
}

func (s *ProjectsStore) ListByOwner(ctx context.Context, ownerID int64) ([]Project, error) {
	query := `
		SELECT id, owner_user_id, profile_id, title, summary, created_at, updated_at
		FROM projects
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

	var projects []Project
	for rows.Next() {
		var p Project
		err := rows.Scan(
			&p.ID,
			&p.OwnerUserID,
			&p.ProfileID,
			&p.Title,
			&p.Summary,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectsStore) Delete(ctx context.Context, projectID, ownerID int64) error {
	query := `DELETE FROM projects WHERE id = $1 AND owner_user_id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, query, projectID, ownerID)
	if err != nil {
		// review_requests.project_id is a restrictive FK; deleting a project
		// that has requests fails with a foreign key violation.
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23503" {
			return ErrProjectInUse
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
