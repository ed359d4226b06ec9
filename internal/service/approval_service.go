package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"promodrive/internal/domain"
	"promodrive/internal/notification"
)

// ApprovalService записывает вердикты участников и пересчитывает
// общий статус ревью.
type ApprovalService struct {
	store     ReviewStore
	publisher notification.Publisher
}

func NewApprovalService(store ReviewStore, publisher notification.Publisher) *ApprovalService {
	return &ApprovalService{store: store, publisher: publisher}
}

// RecordApproval сохраняет вердикт, переводит участника в соответствующий
// статус и пересчитывает статус ревью по чистому правилу агрегации.
// Пересчет идет через CAS по status_version: проигравший конкурентную запись
// повторяет весь цикл чтение-пересчет-запись по свежим данным один раз.
func (s *ApprovalService) RecordApproval(
	ctx context.Context,
	reviewVersionID uuid.UUID,
	participantID uuid.UUID,
	action domain.ApprovalAction,
	comment *string,
) error {
	if !action.Valid() {
		return domain.ValidationError("invalid approval action: %q", action)
	}

	version, err := s.store.GetReviewVersion(ctx, reviewVersionID)
	if err != nil {
		return err
	}

	participant, err := s.store.GetParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if participant.ReviewID != version.ReviewID {
		return domain.NotFoundError("participant does not belong to this review version")
	}

	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}

	approval := &domain.Approval{
		ID:              uuid.New(),
		ReviewVersionID: reviewVersionID,
		ParticipantID:   participantID,
		Action:          action,
		Comment:         comment,
	}

	if err := s.store.CreateApproval(ctx, approval); err != nil {
		return err
	}

	// Вердикт перезаписывает любой текущий статус участника
	if err := s.store.UpdateParticipantStatus(ctx, participantID, action.ParticipantStatus()); err != nil {
		return err
	}

	if err := s.recomputeReviewStatus(ctx, version.ReviewID); err != nil {
		return err
	}

	s.publisher.Publish(notification.Event{
		Type:          eventTypeForAction(action),
		ReviewID:      version.ReviewID,
		ParticipantID: participant.ID,
		Email:         participant.Email,
	})

	return nil
}

// recomputeReviewStatus выполняет цикл чтение-пересчет-запись, при CAS-промахе
// повторяет его один раз и после второго промаха отдает conflict.
func (s *ApprovalService) recomputeReviewStatus(ctx context.Context, reviewID uuid.UUID) error {
	const attempts = 2

	for attempt := 1; attempt <= attempts; attempt++ {
		review, err := s.store.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}

		participants, err := s.store.ListParticipants(ctx, reviewID)
		if err != nil {
			return err
		}

		statuses := make([]domain.ParticipantStatus, 0, len(participants))
		for _, p := range participants {
			statuses = append(statuses, p.Status)
		}

		next := domain.AggregateReviewStatus(statuses)
		if next == review.Status {
			return nil
		}

		err = s.store.UpdateReviewStatus(ctx, reviewID, next, review.StatusVersion)
		if err == nil {
			return nil
		}
		if !domain.IsKind(err, domain.ErrKindConflict) {
			return err
		}

		log.Printf("[RecordApproval] lost status race for review %s (attempt %d), retrying with fresh data", reviewID, attempt)
	}

	return domain.ConflictError("review status was updated concurrently")
}

func eventTypeForAction(action domain.ApprovalAction) notification.EventType {
	switch action {
	case domain.ApprovalActionApproved:
		return notification.EventApproved
	case domain.ApprovalActionChangesRequested:
		return notification.EventChangesRequested
	default:
		return notification.EventRejected
	}
}
