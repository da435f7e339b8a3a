package repository

import (
	"context"
	"fmt"

	"reuniteme/internal/data/entity"
	"reuniteme/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContributionRepository interface {
	Create(ctx context.Context, c *entity.Contribution) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contribution, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Contribution, error)
	FindByKey(ctx context.Context, userID uuid.UUID, key string) (*entity.Contribution, error)
	Update(ctx context.Context, c *entity.Contribution) error
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	FindAllWithContributor(ctx context.Context) ([]*entity.ContributionWithContributor, error)
}

type contributionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewContributionRepository(db database.PgxIface, log *zap.Logger) ContributionRepository {
	return &contributionRepository{
		db:  db,
		log: log.With(zap.String("repository", "contribution")),
	}
}

const contributionColumns = `c.id, c.user_id, c.name, c.address, c.phone, c.description,
		       c.bucket, c.storage_key, c.upload_date, c.file_type, c.file_size,
		       c.latitude, c.longitude`

func contributionDest(c *entity.Contribution) []any {
	return []any{
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Address,
		&c.Phone,
		&c.Description,
		&c.Bucket,
		&c.Key,
		&c.UploadDate,
		&c.FileType,
		&c.FileSize,
		&c.Location.Latitude,
		&c.Location.Longitude,
	}
}

func (r *contributionRepository) Create(ctx context.Context, c *entity.Contribution) error {
	query := `
		INSERT INTO contributions (id, user_id, name, address, phone, description,
		                           bucket, storage_key, upload_date, file_type, file_size,
		                           latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Address,
		c.Phone,
		c.Description,
		c.Bucket,
		c.Key,
		c.UploadDate,
		c.FileType,
		c.FileSize,
		c.Location.Latitude,
		c.Location.Longitude,
	)
	if err != nil {
		r.log.Error("Failed to create contribution",
			zap.Error(err),
			zap.String("user_id", c.UserID.String()),
			zap.String("key", c.Key),
		)
		return fmt.Errorf("create contribution %s: %w", c.Key, translateWriteErr(err))
	}

	return nil
}

func (r *contributionRepository) findOne(ctx context.Context, where string, args ...any) (*entity.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions c WHERE ` + where

	var c entity.Contribution
	err := r.db.QueryRow(ctx, query, args...).Scan(contributionDest(&c)...)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID only returns contributions owned by userID.
func (r *contributionRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contribution, error) {
	c, err := r.findOne(ctx, `c.user_id = $1 AND c.id = $2`, userID, id)
	if err != nil {
		r.log.Error("Failed to find contribution",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("contribution_id", id.String()),
		)
		return nil, fmt.Errorf("find contribution %s: %w", id.String(), err)
	}
	return c, nil
}

func (r *contributionRepository) FindByKey(ctx context.Context, userID uuid.UUID, key string) (*entity.Contribution, error) {
	c, err := r.findOne(ctx, `c.user_id = $1 AND c.storage_key = $2`, userID, key)
	if err != nil {
		r.log.Error("Failed to find contribution by key",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("find contribution by key %s: %w", key, err)
	}
	return c, nil
}

func (r *contributionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions c
		WHERE c.user_id = $1
		ORDER BY c.upload_date, c.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list contributions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find contributions for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var contributions []*entity.Contribution
	for rows.Next() {
		var c entity.Contribution
		if err := rows.Scan(contributionDest(&c)...); err != nil {
			r.log.Error("Failed to scan contribution row", zap.Error(err))
			return nil, fmt.Errorf("scan contribution row: %w", err)
		}
		contributions = append(contributions, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contribution rows: %w", err)
	}

	return contributions, nil
}

func (r *contributionRepository) Update(ctx context.Context, c *entity.Contribution) error {
	query := `
		UPDATE contributions
		SET name = $3, address = $4, phone = $5, description = $6,
		    bucket = $7, storage_key = $8, upload_date = $9, file_type = $10,
		    file_size = $11, latitude = $12, longitude = $13
		WHERE user_id = $1 AND id = $2
	`

	result, err := r.db.Exec(ctx, query,
		c.UserID,
		c.ID,
		c.Name,
		c.Address,
		c.Phone,
		c.Description,
		c.Bucket,
		c.Key,
		c.UploadDate,
		c.FileType,
		c.FileSize,
		c.Location.Latitude,
		c.Location.Longitude,
	)
	if err != nil {
		r.log.Error("Failed to update contribution",
			zap.Error(err),
			zap.String("contribution_id", c.ID.String()),
		)
		return fmt.Errorf("update contribution %s: %w", c.ID.String(), translateWriteErr(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("contribution %s not found", c.ID.String())
	}
	return nil
}

func (r *contributionRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM contributions WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		r.log.Error("Failed to delete contribution",
			zap.Error(err),
			zap.String("contribution_id", id.String()),
		)
		return false, fmt.Errorf("delete contribution %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// FindAllWithContributor flattens every contribution with its owner's display name.
func (r *contributionRepository) FindAllWithContributor(ctx context.Context) ([]*entity.ContributionWithContributor, error) {
	query := `
		SELECT ` + contributionColumns + `, u.firstname || ' ' || u.lastname
		FROM contributions c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.upload_date, c.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list all contributions", zap.Error(err))
		return nil, fmt.Errorf("find all contributions: %w", err)
	}
	defer rows.Close()

	var out []*entity.ContributionWithContributor
	for rows.Next() {
		var c entity.ContributionWithContributor
		dest := append(contributionDest(&c.Contribution), &c.UploadedBy)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan contribution row", zap.Error(err))
			return nil, fmt.Errorf("scan contribution row: %w", err)
		}
		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contribution rows: %w", err)
	}

	return out, nil
}
