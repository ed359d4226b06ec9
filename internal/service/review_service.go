package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"promodrive/internal/domain"
	"promodrive/internal/notification"
)

// ReviewService — точка входа воркфлоу ревью: инициация, данные портала,
// история ревью ассета.
type ReviewService struct {
	store     ReviewStore
	assets    AssetStore
	tokens    *TokenService
	publisher notification.Publisher
	tokenTTL  time.Duration
}

func NewReviewService(
	store ReviewStore,
	assets AssetStore,
	tokens *TokenService,
	publisher notification.Publisher,
	tokenTTL time.Duration,
) *ReviewService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &ReviewService{
		store:     store,
		assets:    assets,
		tokens:    tokens,
		publisher: publisher,
		tokenTTL:  tokenTTL,
	}
}

// InitiateReview атомарно создает ревью со статусом pending, версию #1,
// участников со статусом invited и по токену на каждого. Сырые секреты
// токенов возвращаются только из этого вызова.
func (s *ReviewService) InitiateReview(ctx context.Context, req domain.ReviewRequest) (*domain.ReviewInitiation, error) {
	if req.AssetID == uuid.Nil {
		return nil, domain.ValidationError("asset_id is required")
	}
	if req.ClientID == "" {
		return nil, domain.ValidationError("client_id is required")
	}

	emails := make([]string, 0, len(req.ReviewerEmails))
	for _, email := range req.ReviewerEmails {
		email = strings.TrimSpace(email)
		if email != "" {
			emails = append(emails, email)
		}
	}
	if len(emails) == 0 {
		return nil, domain.ValidationError("at least one reviewer email is required")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Asset review"
	}

	review := &domain.Review{
		ID:          uuid.New(),
		AssetID:     req.AssetID,
		ClientID:    req.ClientID,
		Title:       title,
		Description: req.Description,
		Status:      domain.ReviewStatusPending,
		InitiatedBy: req.InitiatedBy,
	}

	version := &domain.ReviewVersion{
		ID:            uuid.New(),
		ReviewID:      review.ID,
		VersionNumber: 1,
	}

	participants := make([]domain.Participant, 0, len(emails))
	tokens := make([]domain.Token, 0, len(emails))
	result := make([]domain.ParticipantToken, 0, len(emails))

	for _, email := range emails {
		participant := domain.Participant{
			ID:       uuid.New(),
			ReviewID: review.ID,
			Email:    email,
			Status:   domain.ParticipantStatusInvited,
		}

		token, err := s.tokens.Issue(participant.ID, s.tokenTTL)
		if err != nil {
			return nil, err
		}

		participants = append(participants, participant)
		tokens = append(tokens, *token)
		result = append(result, domain.ParticipantToken{
			ParticipantID: participant.ID,
			Email:         email,
			Token:         token.Secret,
		})
	}

	// Одна транзакция: при любой ошибке частичных записей не остается
	if err := s.store.CreateReviewWithParticipants(ctx, review, version, participants, tokens); err != nil {
		return nil, err
	}

	log.Printf("[InitiateReview] created review %s for asset %s with %d participants",
		review.ID, review.AssetID, len(participants))

	for _, p := range participants {
		s.publisher.Publish(notification.Event{
			Type:          notification.EventParticipantInvited,
			ReviewID:      review.ID,
			ParticipantID: p.ID,
			Email:         p.Email,
		})
	}

	return &domain.ReviewInitiation{
		ReviewID:          review.ID,
		ReviewVersionID:   version.ID,
		ParticipantTokens: result,
	}, nil
}

// GetReviewData возвращает данные портала для участника: статус ревью,
// ссылку на ассет и комментарии версии.
func (s *ReviewService) GetReviewData(ctx context.Context, reviewVersionID, participantID uuid.UUID) (*domain.ReviewPortalData, error) {
	version, err := s.store.GetReviewVersion(ctx, reviewVersionID)
	if err != nil {
		return nil, err
	}

	participant, err := s.store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant.ReviewID != version.ReviewID {
		return nil, domain.NotFoundError("participant does not belong to this review version")
	}

	review, err := s.store.GetReview(ctx, version.ReviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, reviewVersionID)
	if err != nil {
		return nil, err
	}

	data := &domain.ReviewPortalData{
		ReviewID:      review.ID,
		Title:         review.Title,
		Description:   review.Description,
		Status:        review.Status,
		VersionID:     version.ID,
		VersionNumber: version.VersionNumber,
		Participant:   participant.Status,
		Comments:      comments,
	}

	// Ассет подтягиваем best-effort: портал живет и без метаданных ассета
	if s.assets != nil {
		asset, err := s.assets.GetAsset(ctx, review.AssetID)
		if err != nil {
			log.Printf("[GetReviewData] failed to load asset %s: %v", review.AssetID, err)
		} else {
			data.Asset = asset
		}
	}

	return data, nil
}

// GetAssetReviewHistory возвращает историю ревью ассета для внутренних
// дашбордов. Только чтение, состояние не меняется.
func (s *ReviewService) GetAssetReviewHistory(ctx context.Context, assetID uuid.UUID, clientID string) ([]domain.ReviewHistoryItem, error) {
	if assetID == uuid.Nil {
		return nil, domain.ValidationError("asset_id is required")
	}
	if clientID == "" {
		return nil, domain.ValidationError("client_id is required")
	}

	return s.store.ListReviewHistory(ctx, assetID, clientID)
}
