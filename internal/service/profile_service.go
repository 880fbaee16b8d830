package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// MinPasswordLength is the shortest password a profile update accepts
const MinPasswordLength = 6

// ProfileService reads and edits the profile of the authenticated user
type ProfileService struct {
	tx         Transactor
	logger     *zap.Logger
	bcryptCost int
}

// NewProfileService creates a new profile service
func NewProfileService(tx Transactor, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{tx: tx, logger: logger, bcryptCost: bcrypt.DefaultCost}
}

// Get returns the profile of a user
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "get_profile"
	var user *models.User

	err := s.tx.WithinTx(ctx, func(store Store) error {
		var err error
		user, err = store.FindUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return invalid(op, ErrUserNotFound, "user not found")
		}
		return nil
	})
	if err = classify(op, err); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the non-nil fields of upd. A new card ID is registered when unknown.
func (s *ProfileService) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "update_profile"

	var passwordHash string
	if upd.Password != nil {
		if len(*upd.Password) < MinPasswordLength {
			return nil, invalid(op, ErrInvalidInput, "password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.bcryptCost)
		if err != nil {
			return nil, classify(op, err)
		}
		passwordHash = string(hash)
	}

	var user *models.User

	err := s.tx.WithinTx(ctx, func(store Store) error {
		var err error
		user, err = store.FindUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return invalid(op, ErrUserNotFound, "user not found")
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return invalid(op, ErrInvalidInput, "name cannot be empty")
			}
			user.Name = name
		}
		if upd.Surname != nil {
			surname := strings.TrimSpace(*upd.Surname)
			if surname == "" {
				user.Surname = nil
			} else {
				user.Surname = &surname
			}
		}
		if upd.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*upd.Email))
			if email == "" {
				return invalid(op, ErrInvalidInput, "email cannot be empty")
			}
			if email != user.Email {
				other, err := store.FindUserByEmail(ctx, email)
				if err != nil {
					return err
				}
				if other != nil && other.ID != user.ID {
					return invalid(op, ErrEmailTaken, "email already in use")
				}
				user.Email = email
			}
		}
		if upd.CardID != nil {
			cardID := strings.TrimSpace(*upd.CardID)
			if cardID == "" {
				user.CardID = nil
			} else {
				holder, err := store.FindUserByCard(ctx, cardID)
				if err != nil {
					return err
				}
				if holder != nil && holder.ID != user.ID {
					return invalid(op, ErrInvalidInput, "card is linked to another account")
				}
				if err := store.InsertCard(ctx, cardID); err != nil {
					return err
				}
				user.CardID = &cardID
			}
		}
		if passwordHash != "" {
			user.PasswordHash = passwordHash
		}

		return store.UpdateUser(ctx, user)
	})
	if err = classify(op, err); err != nil {
		if IsInfrastructure(err) {
			s.logger.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("user_id", userID))
	return user, nil
}
