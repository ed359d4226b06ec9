package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promodrive/internal/domain"
)

func tokenForParticipant(t *testing.T, store *fakeReviewStore, participantID uuid.UUID) *domain.Token {
	t.Helper()

	store.mu.Lock()
	defer store.mu.Unlock()

	for _, token := range store.tokens {
		if token.ParticipantID == participantID {
			return token
		}
	}
	t.Fatalf("no token for participant %s", participantID)
	return nil
}

func TestIssue_SecretEntropyAndExpiry(t *testing.T) {
	svc := NewTokenService(newFakeReviewStore())

	before := time.Now()
	token, err := svc.Issue(uuid.New(), 7*24*time.Hour)
	require.NoError(t, err)

	// 32 байта в base64url — 44 символа
	assert.Len(t, token.Secret, 44)
	assert.Nil(t, token.UsedAt)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), token.ExpiresAt, time.Minute)

	other, err := svc.Issue(uuid.New(), time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token.Secret, other.Secret)
}

func TestValidate_MarksParticipantViewed(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewTokenService(store)

	_, version, participants := seedReview(t, store, 1)
	token := tokenForParticipant(t, store, participants[0].ID)

	claims, err := svc.Validate(context.Background(), token.Secret)
	require.NoError(t, err)
	assert.Equal(t, participants[0].ID, claims.ParticipantID)
	assert.Equal(t, version.ID, claims.ReviewVersionID)

	participant, err := store.GetParticipant(context.Background(), participants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantStatusViewed, participant.Status)

	// Повторная проверка токена статус не двигает
	_, err = svc.Validate(context.Background(), token.Secret)
	require.NoError(t, err)
	participant, err = store.GetParticipant(context.Background(), participants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantStatusViewed, participant.Status)
}

func TestValidate_DoesNotDowngradeCommented(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewTokenService(store)

	_, version, participants := seedReview(t, store, 1)
	token := tokenForParticipant(t, store, participants[0].ID)

	comments := NewCommentService(store, &capturePublisher{})
	_, err := comments.AddComment(context.Background(), version.ID, participants[0].ID, "note", nil)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token.Secret)
	require.NoError(t, err)

	participant, err := store.GetParticipant(context.Background(), participants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantStatusCommented, participant.Status)
}

func TestValidate_UnknownSecret(t *testing.T) {
	svc := NewTokenService(newFakeReviewStore())

	_, err := svc.Validate(context.Background(), "no-such-secret")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindAuth))
}

func TestValidate_ExpiredTokenLeavesStatusUntouched(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewTokenService(store)

	_, _, participants := seedReview(t, store, 1)
	token := tokenForParticipant(t, store, participants[0].ID)

	store.mu.Lock()
	token.ExpiresAt = time.Now().Add(-time.Hour)
	store.mu.Unlock()

	_, err := svc.Validate(context.Background(), token.Secret)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindAuth))

	participant, err := store.GetParticipant(context.Background(), participants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantStatusInvited, participant.Status,
		"expired token must not advance participant status")
}

func TestValidateAndConsume_SingleUse(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewTokenService(store)

	_, _, participants := seedReview(t, store, 1)
	token := tokenForParticipant(t, store, participants[0].ID)

	claims, err := svc.ValidateAndConsume(context.Background(), token.Secret)
	require.NoError(t, err)
	assert.Equal(t, participants[0].ID, claims.ParticipantID)

	// Второй заход с тем же секретом — отказ
	_, err = svc.ValidateAndConsume(context.Background(), token.Secret)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindAuth))

	// И обычная проверка тоже: used_at выставлен
	_, err = svc.Validate(context.Background(), token.Secret)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindAuth))
}
