package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
	"github.com/saylekxd/nightApp/pkg/database"
)

const memberColumns = `id, username, full_name, password_hash, avatar_url, points, is_admin, created_at, updated_at`

// MemberRepository provides data access for members using pgx.
type MemberRepository struct {
	db database.TxQuerier
}

// NewMemberRepository creates a new MemberRepository with the given pool.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: pool}
}

// NewMemberRepositoryWithDB creates a MemberRepository with a custom querier.
// This is primarily used for testing.
func NewMemberRepositoryWithDB(db database.TxQuerier) *MemberRepository {
	return &MemberRepository{db: db}
}

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	err := row.Scan(
		&m.ID,
		&m.Username,
		&m.FullName,
		&m.PasswordHash,
		&m.AvatarURL,
		&m.Points,
		&m.IsAdmin,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert inserts a new member.
// Returns service.ErrUsernameTaken if the username already exists.
func (r *MemberRepository) Insert(ctx context.Context, m *model.Member) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO members (id, username, full_name, password_hash, avatar_url, points, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Username, m.FullName, m.PasswordHash, m.AvatarURL, m.Points, m.IsAdmin)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrUsernameTaken
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetByID retrieves a member by id.
// Returns nil, nil if the member is not found (service layer handles this).
func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member by id %s: %w", id, err)
	}
	return m, nil
}

// GetByUsername retrieves a member by username.
// Returns nil, nil if the member is not found.
func (r *MemberRepository) GetByUsername(ctx context.Context, username string) (*model.Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member by username: %w", err)
	}
	return m, nil
}

// GetForUpdate retrieves a member with a row lock (SELECT FOR UPDATE).
// The lock serializes all point mutations and pass rotations per member.
// Returns service.ErrMemberNotFound if the member doesn't exist.
func (r *MemberRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error) {
	m, err := scanMember(tx.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member for update %s: %w", id, err)
	}
	return m, nil
}

// UpdateProfile applies the non-nil fields of the request and returns the
// updated row. Returns service.ErrMemberNotFound if the member doesn't exist.
func (r *MemberRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx,
		`UPDATE members SET
			full_name = COALESCE($2, full_name),
			avatar_url = COALESCE($3, avatar_url),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+memberColumns,
		id, req.FullName, req.AvatarURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrMemberNotFound
		}
		return nil, fmt.Errorf("update member profile %s: %w", id, err)
	}
	return m, nil
}

// AddPoints increments the member's balance.
// Must be called within a transaction after locking the member row.
func (r *MemberRepository) AddPoints(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error {
	_, err := tx.Exec(ctx,
		`UPDATE members SET points = points + $2, updated_at = now() WHERE id = $1`,
		id, amount)
	if err != nil {
		return fmt.Errorf("add points for %s: %w", id, err)
	}
	return nil
}

// DebitPoints decrements the member's balance, guarded so it can never go
// negative even if the caller's balance check raced.
// Returns service.ErrInsufficientPoints when the guard rejects the debit.
func (r *MemberRepository) DebitPoints(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE members SET points = points - $2, updated_at = now()
		 WHERE id = $1 AND points >= $2`,
		id, amount)
	if err != nil {
		return fmt.Errorf("debit points for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrInsufficientPoints
	}
	return nil
}
