package postgres

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/purechef/purechef/internal/domain/user"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)

// Metrics is the slice of observability the repo reports into. Domain
// outcomes (duplicate email, not found) are recorded as successes; only
// genuine store failures count as errors.
type Metrics interface {
	ObserveStoreOp(store, op string, err error, elapsed time.Duration)
}

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics Metrics
}

func NewUsersRepo(pool *pgxpool.Pool, metrics Metrics) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

func (r *UsersRepo) observe(op string, err error, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveStoreOp("postgres", op, err, time.Since(start))
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash string) (user.User, error) {
	start := time.Now()

	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (email, password_hash)
         VALUES ($1, $2)
         RETURNING id, email, password_hash, name, profile_image, created_at, updated_at`,
		email,
		passwordHash,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.ProfileImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.observe("create", nil, start)
			return user.User{}, ErrEmailAlreadyUsed
		}

		r.observe("create", err, start)
		return user.User{}, err
	}

	r.observe("create", nil, start)
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "get_by_email",
		`SELECT id, email, password_hash, name, profile_image, created_at, updated_at
         FROM users
         WHERE email = $1`,
		email,
	)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "get_by_id",
		`SELECT id, email, password_hash, name, profile_image, created_at, updated_at
         FROM users
         WHERE id = $1`,
		id,
	)
}

// UpdateProfile overwrites only the fields the caller provided; nil means
// leave unchanged.
func (r *UsersRepo) UpdateProfile(ctx context.Context, id string, name, profileImage *string) (user.User, error) {
	start := time.Now()

	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`UPDATE users
         SET name          = COALESCE($2, name),
             profile_image = COALESCE($3, profile_image),
             updated_at    = now()
         WHERE id = $1
         RETURNING id, email, password_hash, name, profile_image, created_at, updated_at`,
		id,
		name,
		profileImage,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.ProfileImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.observe("update_profile", nil, start)
			return user.User{}, ErrUserNotFound
		}

		r.observe("update_profile", err, start)
		return user.User{}, err
	}

	r.observe("update_profile", nil, start)
	return u, nil
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	start := time.Now()

	var u user.User

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.ProfileImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.observe(op, nil, start)
			return user.User{}, ErrUserNotFound
		}

		r.observe(op, err, start)
		return user.User{}, err
	}

	r.observe(op, nil, start)
	return u, nil
}

// IsUnavailable reports whether an error looks like the store being
// unreachable rather than a bad query, so handlers can answer 503 instead
// of 500.
func IsUnavailable(err error) bool {
	var connErr *pgconn.ConnectError

	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error

	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
