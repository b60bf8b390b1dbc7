package models

import "time"

// ResetToken is a single-use password-reset token. Used marks redemption;
// a used or expired token never resets a password.
type ResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
