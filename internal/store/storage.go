package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrAlreadyCompleted  = errors.New("review request already used or expired")
	QueryTimeoutDuration = time.Second * 5
)

// DB is the subset of *pgxpool.Pool the stores use. pgxmock satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Storage struct {
	Users interface {
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		CreateAndInvite(ctx context.Context, user *User, token string, invitationExp time.Duration) error
		Activate(context.Context, string) error
		Delete(context.Context, int64) error
		SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error
		GetRefreshToken(ctx context.Context, userID int64) (string, error)
		DeleteRefreshToken(ctx context.Context, userID int64) error
		ListWithRoles(ctx context.Context, limit, offset int) ([]UserWithRoles, error)
	}
	Profiles interface {
		Create(context.Context, *Profile) error
		Update(context.Context, *Profile) error
		GetByOwner(context.Context, int64) (*Profile, error)
		GetBySlug(context.Context, string) (*Profile, error)
		SetSlug(ctx context.Context, profileID int64, slug string) error
	}
	Projects interface {
		Create(context.Context, *Project) error
		Update(context.Context, *Project) error
		GetByID(context.Context, int64) (*Project, error)
		ListByOwner(context.Context, int64) ([]Project, error)
		Delete(ctx context.Context, projectID, ownerID int64) error
	}
	ReviewRequests interface {
		CreateWithFn(ctx context.Context, rr *ReviewRequest, fn func() error) error
		GetDisclosureByToken(ctx context.Context, tokenHash string) (*Disclosure, error)
		Consume(ctx context.Context, tokenHash string, t *Testimonial) error
		ListByOwner(ctx context.Context, ownerID int64) ([]ReviewRequest, error)
	}
	Testimonials interface {
		ListByOwner(ctx context.Context, ownerID int64, published *bool) ([]Testimonial, error)
		ListPublishedByProfile(ctx context.Context, profileID int64) ([]Testimonial, error)
		SetPublished(ctx context.Context, testimonialID, ownerID int64, published bool) error
		Delete(ctx context.Context, testimonialID, ownerID int64) error
	}
	Roles interface {
		UserHasRole(ctx context.Context, userID int64, roleName string) (bool, error)
		GetUserRoles(ctx context.Context, userID int64) ([]Role, error)
		AssignRole(ctx context.Context, userID, roleID int64) error
		RemoveRole(ctx context.Context, userID, roleID int64) error
	}
}

func NewStorage(db DB) Storage {
	return Storage{
		Users:          &UsersStore{db},
		Profiles:       &ProfilesStore{db},
		Projects:       &ProjectsStore{db},
		ReviewRequests: &ReviewRequestsStore{db},
		Testimonials:   &TestimonialsStore{db},
		Roles:          &RolesStore{db},
	}
}
