package repository

import (
	"context"
	"fmt"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// OTPRepository keeps at most one live code per user and type.
type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	Consume(ctx context.Context, userID uuid.UUID, phone, codeHash string, otpType entity.OTPType, now time.Time) (bool, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

// Create voids the user's outstanding codes of the same type and stores the new one.
func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE otps SET is_used = TRUE WHERE user_id = $1 AND otp_type = $2 AND is_used = FALSE`,
			otp.UserID, otp.OTPType,
		); err != nil {
			return fmt.Errorf("void previous codes: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO otps (id, user_id, phone, code_hash, otp_type, expires_at, is_used, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`,
			otp.ID, otp.UserID, otp.Phone, otp.CodeHash, otp.OTPType, otp.ExpiresAt, otp.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert code: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to store OTP",
			zap.Error(err),
			zap.String("user_id", otp.UserID.String()),
			zap.String("otp_type", string(otp.OTPType)),
		)
		return fmt.Errorf("store OTP for user %s: %w", otp.UserID.String(), err)
	}

	otp.IsUsed = false
	return nil
}

// Consume marks a matching live code as used in one statement, so a code
// can never be redeemed twice. It reports whether a code matched. Codes sent
// to a number the user has since replaced never match.
func (r *otpRepository) Consume(ctx context.Context, userID uuid.UUID, phone, codeHash string, otpType entity.OTPType, now time.Time) (bool, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		UPDATE otps SET is_used = TRUE
		WHERE user_id = $1
		  AND phone = $2
		  AND code_hash = $3
		  AND otp_type = $4
		  AND is_used = FALSE
		  AND expires_at > $5
		RETURNING id`,
		userID, phone, codeHash, otpType, now,
	).Scan(&id)

	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		r.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("consume OTP for user %s: %w", userID.String(), err)
	}

	r.log.Debug("OTP consumed", zap.String("otp_id", id.String()))
	return true, nil
}
