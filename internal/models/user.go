package models

import "time"

// User is a registered rider. CardID links the user to a transport card.
type User struct {
	ID           string    `json:"user_id" db:"user_id"`
	CardID       *string   `json:"card_id,omitempty" db:"card_id"`
	Name         string    `json:"name" db:"name"`
	Surname      *string   `json:"surname,omitempty" db:"surname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ProfileUpdate carries the editable profile fields; nil fields are left unchanged
type ProfileUpdate struct {
	Name     *string `json:"name" binding:"omitempty,max=120"`
	Surname  *string `json:"surname" binding:"omitempty,max=120"`
	Email    *string `json:"email" binding:"omitempty,email"`
	CardID   *string `json:"card_id" binding:"omitempty,max=9"`
	Password *string `json:"password"`
}
