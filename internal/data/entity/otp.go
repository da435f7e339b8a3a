package entity

import (
	"time"

	"github.com/google/uuid"
)

type OTPType string

const (
	OTPTypePhoneVerification OTPType = "phone_verification"
)

// OTP stores only the sha256 of the code that was texted.
type OTP struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Phone     string    `db:"phone"`
	CodeHash  string    `db:"code_hash"`
	OTPType   OTPType   `db:"otp_type"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

// Redeemable reports whether the code can still be consumed at now.
func (o *OTP) Redeemable(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
