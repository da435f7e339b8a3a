package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is never serialized directly; outward views live in dto/response.
type User struct {
	BaseNoDelete
	FirstName       string   `db:"firstname"`
	LastName        string   `db:"lastname"`
	Email           string   `db:"email"`
	Phone           string   `db:"phone"`
	PrevPhones      []string `db:"prev_phones"`
	PasswordHash    *string  `db:"password_hash"`
	IsEmailVerified bool     `db:"is_email_verified"`
	IsPhoneVerified bool     `db:"is_phone_verified"`
	IsActive        bool     `db:"is_active"`

	EmailVerificationToken        *string    `db:"email_verification_token"`
	EmailVerificationTokenExpires *time.Time `db:"email_verification_token_expires"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// ClearVerificationToken drops the stored hash so a link can be used only once.
func (u *User) ClearVerificationToken() {
	u.EmailVerificationToken = nil
	u.EmailVerificationTokenExpires = nil
}

// DeletionRecord is one entry of a user's whoDeleted history.
type DeletionRecord struct {
	ID        int64     `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ActorID   uuid.UUID `db:"actor_id"`
	Role      UserRole  `db:"role"`
	DeletedAt time.Time `db:"deleted_at"`
}
