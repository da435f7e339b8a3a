package repository

import (
	"context"
	"fmt"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
	FindByUsername(ctx context.Context, username string) (*entity.Admin, error)
	FindActiveByEmail(ctx context.Context, email string) (*entity.Admin, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type adminRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAdminRepository(db database.PgxIface, log *zap.Logger) AdminRepository {
	return &adminRepository{
		db:  db,
		log: log.With(zap.String("repository", "admin")),
	}
}

const adminColumns = `id, username, firstname, lastname, email, phone, password_hash,
		       role, permissions, status, last_login, created_at, updated_at`

func scanAdmin(row scanner) (*entity.Admin, error) {
	var (
		admin       entity.Admin
		permissions []string
	)
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.FirstName,
		&admin.LastName,
		&admin.Email,
		&admin.Phone,
		&admin.PasswordHash,
		&admin.Role,
		&permissions,
		&admin.Status,
		&admin.LastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	admin.Permissions = make([]entity.Permission, 0, len(permissions))
	for _, p := range permissions {
		admin.Permissions = append(admin.Permissions, entity.Permission(p))
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	query := `
		INSERT INTO admins (id, username, firstname, lastname, email, phone, password_hash,
		                    role, permissions, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	permissions := make([]string, 0, len(admin.Permissions))
	for _, p := range admin.Permissions {
		permissions = append(permissions, string(p))
	}

	_, err := r.db.Exec(ctx, query,
		admin.ID,
		admin.Username,
		admin.FirstName,
		admin.LastName,
		admin.Email,
		admin.Phone,
		admin.PasswordHash,
		admin.Role,
		permissions,
		admin.Status,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create admin",
			zap.Error(err),
			zap.String("username", admin.Username),
		)
		return fmt.Errorf("create admin %s: %w", admin.Username, translateWriteErr(err))
	}

	return nil
}

func (r *adminRepository) findOne(ctx context.Context, where string, args ...any) (*entity.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE ` + where

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, args...))
	if isNoRows(err) {
		return nil, nil
	}
	return admin, err
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	admin, err := r.findOne(ctx, `id = $1`, id)
	if err != nil {
		r.log.Error("Failed to find admin by ID",
			zap.Error(err),
			zap.String("admin_id", id.String()),
		)
		return nil, fmt.Errorf("find admin by ID %s: %w", id.String(), err)
	}
	return admin, nil
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	admin, err := r.findOne(ctx, `username = $1`, username)
	if err != nil {
		r.log.Error("Failed to find admin by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find admin by username %s: %w", username, err)
	}
	return admin, nil
}

func (r *adminRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	admin, err := r.findOne(ctx, `email = $1 AND status = $2`, email, entity.AdminStatusActive)
	if err != nil {
		r.log.Error("Failed to find admin by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find admin by email %s: %w", email, err)
	}
	return admin, nil
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE admins SET last_login = $2, updated_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		r.log.Error("Failed to update admin last login",
			zap.Error(err),
			zap.String("admin_id", id.String()),
		)
		return fmt.Errorf("update last login for admin %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("admin %s not found", id.String())
	}
	return nil
}
