package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// UserRepository handles database operations for users and their cards
type UserRepository struct {
	q database.Querier
}

// NewUserRepository creates a new user repository
func NewUserRepository(q database.Querier) *UserRepository {
	return &UserRepository{q: q}
}

const userColumns = `user_id, card_id, name, surname, email, password_hash, created_at`

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var (
		u         models.User
		cardID    sql.NullString
		surname   sql.NullString
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg).Scan(
		&u.ID, &cardID, &u.Name, &surname, &u.Email, &u.PasswordHash, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.CardID = stringPtr(cardID)
	u.Surname = stringPtr(surname)
	u.CreatedAt = fromNanos(createdAt)
	return &u, nil
}

// FindUser retrieves a user by ID
func (r *UserRepository) FindUser(ctx context.Context, userID string) (*models.User, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// FindUserByCard retrieves the user linked to a transport card
func (r *UserRepository) FindUserByCard(ctx context.Context, cardID string) (*models.User, error) {
	return r.findOne(ctx, "card_id = ?", cardID)
}

// FindUserByEmail retrieves a user by email
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// InsertCard registers a transport card; existing cards are left untouched
func (r *UserRepository) InsertCard(ctx context.Context, cardID string) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO cards (card_id) VALUES (?) ON CONFLICT (card_id) DO NOTHING`, cardID)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

// InsertUser creates a user
func (r *UserRepository) InsertUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		u.ID, nullString(u.CardID), u.Name, nullString(u.Surname), u.Email, u.PasswordHash, toNanos(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUser overwrites the editable profile fields of a user
func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	query := `UPDATE users
		SET card_id = ?, name = ?, surname = ?, email = ?, password_hash = ?
		WHERE user_id = ?`
	_, err := r.q.ExecContext(ctx, query,
		nullString(u.CardID), u.Name, nullString(u.Surname), u.Email, u.PasswordHash, u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
