package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"promodrive/internal/domain"
)

// TokenService выдает и проверяет токены доступа внешних ревьюеров.
type TokenService struct {
	store ReviewStore
}

func NewTokenService(store ReviewStore) *TokenService {
	return &TokenService{store: store}
}

// generateSecret возвращает 32 случайных байта в base64url — 256 бит энтропии.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Issue создает токен для участника. Запись в хранилище делает вызывающий:
// при инициации ревью токены сохраняются в общей транзакции.
func (s *TokenService) Issue(participantID uuid.UUID, ttl time.Duration) (*domain.Token, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}

	return &domain.Token{
		ID:            uuid.New(),
		ParticipantID: participantID,
		Secret:        secret,
		ExpiresAt:     time.Now().Add(ttl),
	}, nil
}

// Validate проверяет токен и возвращает, кому и к какой версии ревью он дает
// доступ. Токен остается действительным до истечения срока; used_at здесь не
// выставляется. При первом успешном обращении участник переходит
// invited -> viewed.
func (s *TokenService) Validate(ctx context.Context, secret string) (*domain.TokenClaims, error) {
	if secret == "" {
		return nil, domain.AuthError("token is required")
	}

	token, err := s.store.GetTokenBySecret(ctx, secret)
	if err != nil {
		if domain.IsKind(err, domain.ErrKindNotFound) {
			return nil, domain.AuthError("token not found")
		}
		return nil, err
	}

	if token.UsedAt != nil {
		return nil, domain.AuthError("token already used")
	}
	if token.Expired(time.Now()) {
		return nil, domain.AuthError("token expired")
	}

	participant, err := s.store.GetParticipant(ctx, token.ParticipantID)
	if err != nil {
		return nil, err
	}

	// Первое успешное чтение: invited -> viewed. Дальше статус не трогаем.
	if participant.Status == domain.ParticipantStatusInvited {
		if err := s.store.UpdateParticipantStatus(ctx, participant.ID, domain.ParticipantStatusViewed); err != nil {
			log.Printf("[Validate] failed to mark participant %s as viewed: %v", participant.ID, err)
		}
	}

	version, err := s.store.GetLatestVersion(ctx, participant.ReviewID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenClaims{
		ParticipantID:   participant.ID,
		ReviewVersionID: version.ID,
	}, nil
}

// ValidateAndConsume — одноразовый вариант проверки для операций, где токен
// нельзя переиспользовать. Пометка used_at атомарна: из двух конкурентных
// запросов с одним секретом пройдет ровно один.
func (s *TokenService) ValidateAndConsume(ctx context.Context, secret string) (*domain.TokenClaims, error) {
	claims, err := s.Validate(ctx, secret)
	if err != nil {
		return nil, err
	}

	token, err := s.store.GetTokenBySecret(ctx, secret)
	if err != nil {
		return nil, err
	}

	if err := s.store.ConsumeToken(ctx, token.ID); err != nil {
		return nil, err
	}

	return claims, nil
}
