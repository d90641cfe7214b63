package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/repository/models"
	"onyx-tutor/internal/util"
)

// UserRepository defines the interface for user data operations.
// Lookups return nil, nil when no user matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// sqlxUserRepository implements UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db DBTX) UserRepository {
	return &sqlxUserRepository{db: db}
}

const userColumns = `ID, EMAIL, PASSWORD_HASH, GOOGLE_ID, NAME, CREATED_AT, UPDATED_AT`

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash.String,
		GoogleID:     m.GoogleID.String,
		Name:         m.Name.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: util.StringToNullString(u.PasswordHash),
		GoogleID:     util.StringToNullString(u.GoogleID),
		Name:         util.StringToNullString(u.Name),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// CreateUser inserts a new user. Emails are stored lower-cased; a taken
// email yields ErrDuplicate.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now
	m := fromDomainUser(user)

	query := `INSERT INTO users (` + userColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Email, m.PasswordHash, m.GoogleID, m.Name, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var m models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(&m), nil
}

// GetUserByEmail matches case-insensitively.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.getOne(ctx, `EMAIL = :1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByGoogleID retrieves a user by their Google ID.
func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	user, err := r.getOne(ctx, `GOOGLE_ID = :1`, googleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by google_id: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their internal ID.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := r.getOne(ctx, `ID = :1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateUser rewrites the mutable profile columns.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	m := fromDomainUser(user)

	query := `UPDATE users SET EMAIL = :1, PASSWORD_HASH = :2, GOOGLE_ID = :3, NAME = :4, UPDATED_AT = :5 WHERE ID = :6`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.Email, m.PasswordHash, m.GoogleID, m.Name, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
