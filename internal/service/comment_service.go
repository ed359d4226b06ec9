package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"promodrive/internal/domain"
	"promodrive/internal/notification"
)

// CommentService записывает отзывы участников по версии ревью.
type CommentService struct {
	store     ReviewStore
	publisher notification.Publisher
}

func NewCommentService(store ReviewStore, publisher notification.Publisher) *CommentService {
	return &CommentService{store: store, publisher: publisher}
}

// AddComment сохраняет комментарий и продвигает статус участника вперед.
// Комментарий после вердикта разрешен, но статус не меняет.
func (s *CommentService) AddComment(
	ctx context.Context,
	reviewVersionID uuid.UUID,
	participantID uuid.UUID,
	content string,
	metadata domain.CommentMetadata,
) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ValidationError("comment content must not be empty")
	}

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

	comment := &domain.Comment{
		ID:              uuid.New(),
		ReviewVersionID: reviewVersionID,
		ParticipantID:   participantID,
		Content:         content,
		Metadata:        metadata,
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if participant.Status.CanAdvanceTo(domain.ParticipantStatusCommented) {
		if err := s.store.UpdateParticipantStatus(ctx, participantID, domain.ParticipantStatusCommented); err != nil {
			return nil, err
		}
	}

	s.publisher.Publish(notification.Event{
		Type:          notification.EventCommented,
		ReviewID:      version.ReviewID,
		ParticipantID: participant.ID,
		Email:         participant.Email,
	})

	return comment, nil
}
