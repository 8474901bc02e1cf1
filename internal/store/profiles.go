package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrDuplicateProfile = errors.New("this account already has a profile")

type Profile struct {
	ID           int64     `json:"id"`
	OwnerUserID  int64     `json:"owner_user_id"`
	BusinessName string    `json:"business_name"`
	Tagline      *string   `json:"tagline,omitempty"`
	About        *string   `json:"about,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Slug         *string   `json:"slug,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProfilesStore struct {
	db DB
}

func (s *ProfilesStore) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (owner_user_id, business_name, tagline, about, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		p.OwnerUserID,
		p.BusinessName,
		p.Tagline,
		p.About,
		p.Phone,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return ErrDuplicateProfile
		}
		return err
	}
	return nil
}

func (s *ProfilesStore) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET business_name = $1, tagline = $2, about = $3, phone = $4, updated_at = NOW()
		WHERE id = $5 AND owner_user_id = $6
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.Exec(ctx, query, p.BusinessName, p.Tagline, p.About, p.Phone, p.ID, p.OwnerUserID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProfilesStore) GetByOwner(ctx context.Context, ownerID int64) (*Profile, error) {
	query := `
		SELECT id, owner_user_id, business_name, tagline, about, phone, slug, created_at, updated_at
		FROM profiles
		WHERE owner_user_id = $1
	`
	return s.getOne(ctx, query, ownerID)
}

func (s *ProfilesStore) GetBySlug(ctx context.Context, slug string) (*Profile, error) {
	query := `
		SELECT id, owner_user_id, business_name, tagline, about, phone, slug, created_at, updated_at
		FROM profiles
		WHERE slug = $1
	`
	return s.getOne(ctx, query, slug)
}

func (s *ProfilesStore) getOne(ctx context.Context, query string, arg any) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	p := &Profile{}
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.BusinessName,
		&p.Tagline,
		&p.About,
		&p.Phone,
		&p.Slug,
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

// SetSlug stores the public slug once it has been derived from the row id.
func (s *ProfilesStore) SetSlug(ctx context.Context, profileID int64, slug string) error {
	query := `UPDATE profiles SET slug = $1, updated_at = NOW() WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, query, slug, profileID)
	return err
}
