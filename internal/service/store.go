package service

import (
	"context"

	"github.com/google/uuid"

	"promodrive/internal/domain"
)

// ReviewStore — контракт хранилища ревью. Сервисы работают только через
// него, поэтому в тестах хранилище подменяется in-memory реализацией.
type ReviewStore interface {
	// CreateReviewWithParticipants создает ревью, первую версию, участников
	// и токены одной транзакцией: либо все записи, либо ни одной.
	CreateReviewWithParticipants(
		ctx context.Context,
		review *domain.Review,
		version *domain.ReviewVersion,
		participants []domain.Participant,
		tokens []domain.Token,
	) error

	// CreateVersion выделяет следующий номер версии (max+1) атомарно.
	CreateVersion(ctx context.Context, reviewID uuid.UUID) (*domain.ReviewVersion, error)

	GetReview(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	GetReviewVersion(ctx context.Context, id uuid.UUID) (*domain.ReviewVersion, error)
	GetLatestVersion(ctx context.Context, reviewID uuid.UUID) (*domain.ReviewVersion, error)

	GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	ListParticipants(ctx context.Context, reviewID uuid.UUID) ([]domain.Participant, error)
	UpdateParticipantStatus(ctx context.Context, id uuid.UUID, status domain.ParticipantStatus) error

	CreateComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, reviewVersionID uuid.UUID) ([]domain.Comment, error)

	CreateApproval(ctx context.Context, approval *domain.Approval) error

	GetTokenBySecret(ctx context.Context, secret string) (*domain.Token, error)
	// ConsumeToken помечает токен использованным одним условным UPDATE.
	// Если used_at уже выставлен, возвращает ошибку вида auth.
	ConsumeToken(ctx context.Context, id uuid.UUID) error

	// UpdateReviewStatus — CAS-обновление статуса: запись проходит только
	// если status_version не изменился с момента чтения, иначе conflict.
	UpdateReviewStatus(ctx context.Context, reviewID uuid.UUID, status domain.ReviewStatus, expectedStatusVersion int64) error

	ListReviewHistory(ctx context.Context, assetID uuid.UUID, clientID string) ([]domain.ReviewHistoryItem, error)
}

// AssetStore — контракт хранилища метаданных ассетов.
type AssetStore interface {
	CreateAsset(ctx context.Context, asset *domain.Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	ListAssetsByClient(ctx context.Context, clientID string) ([]domain.Asset, error)
}
