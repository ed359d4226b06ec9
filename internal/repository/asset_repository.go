package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"promodrive/internal/domain"
)

type AssetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset *domain.Asset) error {
	query := `
        INSERT INTO assets (uuid, client_id, name, mime_type, size_bytes, s3_key)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		asset.UUID,
		asset.ClientID,
		asset.Name,
		asset.MIMEType,
		asset.SizeBytes,
		asset.S3Key,
	).Scan(&asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return domain.PersistenceError(err, "failed to insert asset")
	}

	return nil
}

func (r *AssetRepository) GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.GetContext(ctx, &asset, `SELECT * FROM assets WHERE uuid = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("asset %s not found", id)
		}
		return nil, domain.PersistenceError(err, "failed to get asset")
	}
	return &asset, nil
}

func (r *AssetRepository) ListAssetsByClient(ctx context.Context, clientID string) ([]domain.Asset, error) {
	var assets []domain.Asset
	query := `SELECT * FROM assets WHERE client_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &assets, query, clientID); err != nil {
		return nil, domain.PersistenceError(err, "failed to list assets")
	}
	return assets, nil
}
