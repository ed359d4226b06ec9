package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateReviewStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []ParticipantStatus
		want     ReviewStatus
	}{
		{
			name:     "no participants",
			statuses: nil,
			want:     ReviewStatusInProgress,
		},
		{
			name:     "all invited",
			statuses: []ParticipantStatus{ParticipantStatusInvited, ParticipantStatusInvited},
			want:     ReviewStatusInProgress,
		},
		{
			name:     "partial approval",
			statuses: []ParticipantStatus{ParticipantStatusApproved, ParticipantStatusViewed, ParticipantStatusCommented},
			want:     ReviewStatusInProgress,
		},
		{
			name:     "unanimous approval",
			statuses: []ParticipantStatus{ParticipantStatusApproved, ParticipantStatusApproved, ParticipantStatusApproved},
			want:     ReviewStatusApproved,
		},
		{
			name:     "single approved participant",
			statuses: []ParticipantStatus{ParticipantStatusApproved},
			want:     ReviewStatusApproved,
		},
		{
			name:     "changes requested outranks partial approval",
			statuses: []ParticipantStatus{ParticipantStatusApproved, ParticipantStatusApproved, ParticipantStatusChangesRequested},
			want:     ReviewStatusChangesRequested,
		},
		{
			name:     "rejection outranks changes requested",
			statuses: []ParticipantStatus{ParticipantStatusApproved, ParticipantStatusRejected, ParticipantStatusChangesRequested},
			want:     ReviewStatusRejected,
		},
		{
			name:     "rejection outranks any number of approvals",
			statuses: []ParticipantStatus{ParticipantStatusApproved, ParticipantStatusApproved, ParticipantStatusApproved, ParticipantStatusRejected},
			want:     ReviewStatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateReviewStatus(tt.statuses)
			assert.Equal(t, tt.want, got)

			// Функция чистая: повторный вызов дает тот же результат
			assert.Equal(t, got, AggregateReviewStatus(tt.statuses))
		})
	}
}
