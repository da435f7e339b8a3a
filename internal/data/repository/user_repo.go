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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	SoftDelete(ctx context.Context, id uuid.UUID, entry *entity.DeletionRecord) (bool, error)
	Activate(ctx context.Context, id uuid.UUID) (bool, error)
	FindDeletions(ctx context.Context, userID uuid.UUID) ([]entity.DeletionRecord, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, firstname, lastname, email, phone, prev_phones, password_hash,
		       is_email_verified, is_phone_verified, is_active,
		       email_verification_token, email_verification_token_expires,
		       created_at, updated_at`

func scanUser(row scanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.PrevPhones,
		&user.PasswordHash,
		&user.IsEmailVerified,
		&user.IsPhoneVerified,
		&user.IsActive,
		&user.EmailVerificationToken,
		&user.EmailVerificationTokenExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, firstname, lastname, email, phone, prev_phones, password_hash,
		                   is_email_verified, is_phone_verified, is_active,
		                   email_verification_token, email_verification_token_expires,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		nonNilStrings(user.PrevPhones),
		user.PasswordHash,
		user.IsEmailVerified,
		user.IsPhoneVerified,
		user.IsActive,
		user.EmailVerificationToken,
		user.EmailVerificationTokenExpires,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, translateWriteErr(err))
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, args ...any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := scanUser(ur.db.QueryRow(ctx, query, args...))
	if isNoRows(err) {
		return nil, nil
	}
	return user, err
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, `id = $1`, id)
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}
	return user, nil
}

// FindByEmail ignores the active flag so registration can see soft-deleted accounts.
func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, `email = $1`, email)
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, `email = $1 AND is_active = TRUE`, email)
	if err != nil {
		ur.log.Error("Failed to find active user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find active user by email %s: %w", email, err)
	}
	return user, nil
}

// FindByVerificationToken matches the stored hash and rejects expired links in the same query.
func (ur *userRepository) FindByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	user, err := ur.findOne(ctx,
		`email_verification_token = $1 AND email_verification_token_expires > $2`,
		tokenHash, now,
	)
	if err != nil {
		ur.log.Error("Failed to find user by verification token", zap.Error(err))
		return nil, fmt.Errorf("find user by verification token: %w", err)
	}
	return user, nil
}

// FindAll retrieves paginated list of users
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := ur.db.Query(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET firstname = $2, lastname = $3, email = $4, phone = $5, prev_phones = $6,
		    password_hash = $7, is_email_verified = $8, is_phone_verified = $9,
		    is_active = $10, email_verification_token = $11,
		    email_verification_token_expires = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		nonNilStrings(user.PrevPhones),
		user.PasswordHash,
		user.IsEmailVerified,
		user.IsPhoneVerified,
		user.IsActive,
		user.EmailVerificationToken,
		user.EmailVerificationTokenExpires,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), translateWriteErr(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", user.ID.String())
	}

	return nil
}

// SoftDelete deactivates the user and appends one deletion record atomically.
// It reports false when the user was already inactive.
func (ur *userRepository) SoftDelete(ctx context.Context, id uuid.UUID, entry *entity.DeletionRecord) (bool, error) {
	deleted := false

	err := database.WithTx(ctx, ur.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`,
			id, entry.DeletedAt,
		)
		if err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
		if result.RowsAffected() == 0 {
			return nil
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO user_deletions (user_id, actor_id, role, deleted_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			id, entry.ActorID, entry.Role, entry.DeletedAt,
		).Scan(&entry.ID)
		if err != nil {
			return fmt.Errorf("record deletion: %w", err)
		}

		deleted = true
		return nil
	})
	if err != nil {
		ur.log.Error("Failed to soft delete user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("soft delete user %s: %w", id.String(), err)
	}

	if deleted {
		entry.UserID = id
		ur.log.Info("User deactivated",
			zap.String("user_id", id.String()),
			zap.String("actor_id", entry.ActorID.String()),
			zap.String("role", string(entry.Role)),
		)
	}
	return deleted, nil
}

// Activate restores a soft-deleted user. It reports false when the user was already active.
func (ur *userRepository) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := ur.db.Exec(ctx,
		`UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1 AND is_active = FALSE`,
		id,
	)
	if err != nil {
		ur.log.Error("Failed to activate user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("activate user %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (ur *userRepository) FindDeletions(ctx context.Context, userID uuid.UUID) ([]entity.DeletionRecord, error) {
	query := `
		SELECT id, user_id, actor_id, role, deleted_at
		FROM user_deletions
		WHERE user_id = $1
		ORDER BY deleted_at, id
	`

	rows, err := ur.db.Query(ctx, query, userID)
	if err != nil {
		ur.log.Error("Failed to get user deletions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find deletions for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var records []entity.DeletionRecord
	for rows.Next() {
		var rec entity.DeletionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ActorID, &rec.Role, &rec.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan deletion row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deletion rows: %w", err)
	}

	return records, nil
}
