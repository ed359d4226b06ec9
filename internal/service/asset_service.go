package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"promodrive/internal/domain"
	s3storage "promodrive/internal/service/s3"
)

// AssetService регистрирует маркетинговые ассеты: метаданные в базе,
// бинарники в S3-совместимом хранилище.
type AssetService struct {
	store   AssetStore
	storage s3storage.Storage
}

func NewAssetService(store AssetStore, storage s3storage.Storage) *AssetService {
	return &AssetService{store: store, storage: storage}
}

func (s *AssetService) RegisterAsset(ctx context.Context, upload domain.AssetUpload) (*domain.Asset, error) {
	if upload.ClientID == "" {
		return nil, domain.ValidationError("client_id is required")
	}
	if upload.Name == "" {
		return nil, domain.ValidationError("asset name is required")
	}
	if len(upload.Data) == 0 {
		return nil, domain.ValidationError("asset data is empty")
	}

	mimeType := upload.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	asset := &domain.Asset{
		UUID:      uuid.New(),
		ClientID:  upload.ClientID,
		Name:      upload.Name,
		MIMEType:  mimeType,
		SizeBytes: int64(len(upload.Data)),
	}
	asset.S3Key = fmt.Sprintf("assets/%s/%s", asset.ClientID, asset.UUID)

	if err := s.storage.UploadBytes(asset.S3Key, upload.Data); err != nil {
		return nil, fmt.Errorf("failed to upload asset to storage: %w", err)
	}

	if err := s.store.CreateAsset(ctx, asset); err != nil {
		// Запись метаданных не прошла — подчищаем объект, чтобы не копить сирот
		if delErr := s.storage.DeleteObject(asset.S3Key); delErr != nil {
			log.Printf("[RegisterAsset] failed to delete orphaned object %s: %v", asset.S3Key, delErr)
		}
		return nil, err
	}

	log.Printf("[RegisterAsset] registered asset %s (%s, %d bytes) for client %s",
		asset.UUID, asset.MIMEType, asset.SizeBytes, asset.ClientID)

	return asset, nil
}

func (s *AssetService) GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	return s.store.GetAsset(ctx, id)
}

func (s *AssetService) ListAssets(ctx context.Context, clientID string) ([]domain.Asset, error) {
	if clientID == "" {
		return nil, domain.ValidationError("client_id is required")
	}
	return s.store.ListAssetsByClient(ctx, clientID)
}

func (s *AssetService) DownloadAsset(ctx context.Context, id uuid.UUID) (*domain.AssetDownload, error) {
	asset, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	object, err := s.storage.GetObject(ctx, asset.S3Key)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset from storage: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset data: %w", err)
	}

	return &domain.AssetDownload{Asset: asset, Data: data}, nil
}
