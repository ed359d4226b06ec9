package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"promodrive/internal/domain"
	"promodrive/internal/notification"
)

// fakeReviewStore — in-memory реализация ReviewStore для тестов сервисов.
type fakeReviewStore struct {
	mu           sync.Mutex
	reviews      map[uuid.UUID]*domain.Review
	versions     map[uuid.UUID]*domain.ReviewVersion
	participants map[uuid.UUID]*domain.Participant
	comments     map[uuid.UUID]*domain.Comment
	approvals    []*domain.Approval
	tokens       map[uuid.UUID]*domain.Token

	// createErr заставляет CreateReviewWithParticipants упасть целиком
	createErr error
	// statusConflicts — сколько ближайших CAS-записей статуса проиграют гонку
	statusConflicts int
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{
		reviews:      make(map[uuid.UUID]*domain.Review),
		versions:     make(map[uuid.UUID]*domain.ReviewVersion),
		participants: make(map[uuid.UUID]*domain.Participant),
		comments:     make(map[uuid.UUID]*domain.Comment),
		tokens:       make(map[uuid.UUID]*domain.Token),
	}
}

func (f *fakeReviewStore) CreateReviewWithParticipants(
	ctx context.Context,
	review *domain.Review,
	version *domain.ReviewVersion,
	participants []domain.Participant,
	tokens []domain.Token,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	now := time.Now()
	reviewCopy := *review
	reviewCopy.CreatedAt = now
	f.reviews[review.ID] = &reviewCopy

	versionCopy := *version
	versionCopy.CreatedAt = now
	f.versions[version.ID] = &versionCopy

	for _, p := range participants {
		pCopy := p
		pCopy.AddedAt = now
		f.participants[p.ID] = &pCopy
	}
	for _, t := range tokens {
		tCopy := t
		tCopy.CreatedAt = now
		f.tokens[t.ID] = &tCopy
	}

	return nil
}

func (f *fakeReviewStore) CreateVersion(ctx context.Context, reviewID uuid.UUID) (*domain.ReviewVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	max := 0
	for _, v := range f.versions {
		if v.ReviewID == reviewID && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}

	version := &domain.ReviewVersion{
		ID:            uuid.New(),
		ReviewID:      reviewID,
		VersionNumber: max + 1,
		CreatedAt:     time.Now(),
	}
	f.versions[version.ID] = version

	return version, nil
}

func (f *fakeReviewStore) GetReview(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return nil, domain.NotFoundError("review %s not found", id)
	}
	copy := *review
	return &copy, nil
}

func (f *fakeReviewStore) GetReviewVersion(ctx context.Context, id uuid.UUID) (*domain.ReviewVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	version, ok := f.versions[id]
	if !ok {
		return nil, domain.NotFoundError("review version %s not found", id)
	}
	copy := *version
	return &copy, nil
}

func (f *fakeReviewStore) GetLatestVersion(ctx context.Context, reviewID uuid.UUID) (*domain.ReviewVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *domain.ReviewVersion
	for _, v := range f.versions {
		if v.ReviewID != reviewID {
			continue
		}
		if latest == nil || v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	if latest == nil {
		return nil, domain.NotFoundError("review %s has no versions", reviewID)
	}
	copy := *latest
	return &copy, nil
}

func (f *fakeReviewStore) GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	participant, ok := f.participants[id]
	if !ok {
		return nil, domain.NotFoundError("participant %s not found", id)
	}
	copy := *participant
	return &copy, nil
}

func (f *fakeReviewStore) ListParticipants(ctx context.Context, reviewID uuid.UUID) ([]domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Participant
	for _, p := range f.participants {
		if p.ReviewID == reviewID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeReviewStore) UpdateParticipantStatus(ctx context.Context, id uuid.UUID, status domain.ParticipantStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	participant, ok := f.participants[id]
	if !ok {
		return domain.NotFoundError("participant %s not found", id)
	}
	participant.Status = status
	return nil
}

func (f *fakeReviewStore) CreateComment(ctx context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	comment.CreatedAt = time.Now()
	copy := *comment
	f.comments[comment.ID] = &copy
	return nil
}

func (f *fakeReviewStore) ListComments(ctx context.Context, reviewVersionID uuid.UUID) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Comment
	for _, c := range f.comments {
		if c.ReviewVersionID == reviewVersionID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeReviewStore) CreateApproval(ctx context.Context, approval *domain.Approval) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	approval.CreatedAt = time.Now()
	copy := *approval
	f.approvals = append(f.approvals, &copy)
	return nil
}

func (f *fakeReviewStore) GetTokenBySecret(ctx context.Context, secret string) (*domain.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tokens {
		if t.Secret == secret {
			copy := *t
			return &copy, nil
		}
	}
	return nil, domain.NotFoundError("token not found")
}

func (f *fakeReviewStore) ConsumeToken(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.tokens[id]
	if !ok {
		return domain.NotFoundError("token %s not found", id)
	}
	if token.UsedAt != nil {
		return domain.AuthError("token already used")
	}
	now := time.Now()
	token.UsedAt = &now
	return nil
}

func (f *fakeReviewStore) UpdateReviewStatus(ctx context.Context, reviewID uuid.UUID, status domain.ReviewStatus, expectedStatusVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[reviewID]
	if !ok {
		return domain.NotFoundError("review %s not found", reviewID)
	}

	if f.statusConflicts > 0 {
		f.statusConflicts--
		return domain.ConflictError("review %s status was updated concurrently", reviewID)
	}

	if review.StatusVersion != expectedStatusVersion {
		return domain.ConflictError("review %s status was updated concurrently", reviewID)
	}

	review.Status = status
	review.StatusVersion++
	return nil
}

func (f *fakeReviewStore) ListReviewHistory(ctx context.Context, assetID uuid.UUID, clientID string) ([]domain.ReviewHistoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []domain.ReviewHistoryItem
	for _, review := range f.reviews {
		if review.AssetID != assetID || review.ClientID != clientID {
			continue
		}

		latest := 0
		for _, v := range f.versions {
			if v.ReviewID == review.ID && v.VersionNumber > latest {
				latest = v.VersionNumber
			}
		}

		var participants []domain.ReviewHistoryParticipant
		for _, p := range f.participants {
			if p.ReviewID == review.ID {
				participants = append(participants, domain.ReviewHistoryParticipant{
					Email:  p.Email,
					Status: p.Status,
				})
			}
		}

		items = append(items, domain.ReviewHistoryItem{
			ReviewID:      review.ID,
			Title:         review.Title,
			Status:        review.Status,
			InitiatedBy:   review.InitiatedBy,
			LatestVersion: latest,
			Participants:  participants,
		})
	}

	return items, nil
}

// fakeAssetStore — минимальный AssetStore для тестов портала.
type fakeAssetStore struct {
	mu     sync.Mutex
	assets map[uuid.UUID]*domain.Asset
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{assets: make(map[uuid.UUID]*domain.Asset)}
}

func (f *fakeAssetStore) CreateAsset(ctx context.Context, asset *domain.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copy := *asset
	f.assets[asset.UUID] = &copy
	return nil
}

func (f *fakeAssetStore) GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	asset, ok := f.assets[id]
	if !ok {
		return nil, domain.NotFoundError("asset %s not found", id)
	}
	copy := *asset
	return &copy, nil
}

func (f *fakeAssetStore) ListAssetsByClient(ctx context.Context, clientID string) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Asset
	for _, a := range f.assets {
		if a.ClientID == clientID {
			result = append(result, *a)
		}
	}
	return result, nil
}

// capturePublisher собирает опубликованные события.
type capturePublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *capturePublisher) Publish(event notification.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) byType(t notification.EventType) []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result []notification.Event
	for _, e := range p.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// seedReview наполняет хранилище ревью с одной версией и n участниками.
func seedReview(t *testing.T, store *fakeReviewStore, n int) (*domain.Review, *domain.ReviewVersion, []domain.Participant) {
	t.Helper()

	review := &domain.Review{
		ID:       uuid.New(),
		AssetID:  uuid.New(),
		ClientID: "client-1",
		Title:    "Launch banner",
		Status:   domain.ReviewStatusPending,
	}
	version := &domain.ReviewVersion{
		ID:            uuid.New(),
		ReviewID:      review.ID,
		VersionNumber: 1,
	}

	participants := make([]domain.Participant, 0, n)
	tokens := make([]domain.Token, 0, n)
	for i := 0; i < n; i++ {
		p := domain.Participant{
			ID:       uuid.New(),
			ReviewID: review.ID,
			Email:    fmt.Sprintf("reviewer%d@example.com", i+1),
			Status:   domain.ParticipantStatusInvited,
		}
		participants = append(participants, p)
		tokens = append(tokens, domain.Token{
			ID:            uuid.New(),
			ParticipantID: p.ID,
			Secret:        fmt.Sprintf("secret-%d-%s", i+1, p.ID),
			ExpiresAt:     time.Now().Add(24 * time.Hour),
		})
	}

	err := store.CreateReviewWithParticipants(context.Background(), review, version, participants, tokens)
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	return review, version, participants
}
