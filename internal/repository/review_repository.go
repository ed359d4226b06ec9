package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"promodrive/internal/domain"
)

// ReviewRepository — postgres-реализация контракта service.ReviewStore.
type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReviewWithParticipants создает ревью, первую версию, участников и
// токены в одной транзакции. Любая ошибка откатывает все записи.
func (r *ReviewRepository) CreateReviewWithParticipants(
	ctx context.Context,
	review *domain.Review,
	version *domain.ReviewVersion,
	participants []domain.Participant,
	tokens []domain.Token,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.PersistenceError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
        INSERT INTO reviews (id, asset_id, client_id, title, description, status, initiated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	err = tx.QueryRowContext(
		ctx,
		query,
		review.ID,
		review.AssetID,
		review.ClientID,
		review.Title,
		review.Description,
		review.Status,
		review.InitiatedBy,
	).Scan(&review.CreatedAt)
	if err != nil {
		return domain.PersistenceError(err, "failed to insert review")
	}

	query = `
        INSERT INTO review_versions (id, review_id, version_number)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	err = tx.QueryRowContext(ctx, query, version.ID, version.ReviewID, version.VersionNumber).
		Scan(&version.CreatedAt)
	if err != nil {
		return domain.PersistenceError(err, "failed to insert review version")
	}

	for i := range participants {
		p := &participants[i]
		query = `
            INSERT INTO review_participants (id, review_id, user_id, email, name, status)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING added_at`

		err = tx.QueryRowContext(ctx, query, p.ID, p.ReviewID, p.UserID, p.Email, p.Name, p.Status).
			Scan(&p.AddedAt)
		if err != nil {
			return domain.PersistenceError(err, "failed to insert participant %s", p.Email)
		}
	}

	for i := range tokens {
		t := &tokens[i]
		query = `
            INSERT INTO review_tokens (id, participant_id, secret, expires_at)
            VALUES ($1, $2, $3, $4)
            RETURNING created_at`

		err = tx.QueryRowContext(ctx, query, t.ID, t.ParticipantID, t.Secret, t.ExpiresAt).
			Scan(&t.CreatedAt)
		if err != nil {
			return domain.PersistenceError(err, "failed to insert token for participant %s", t.ParticipantID)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.PersistenceError(err, "failed to commit review creation")
	}

	return nil
}

// CreateVersion выделяет следующий номер версии. Номер берется под
// транзакцией из MAX+1, уникальный индекс (review_id, version_number)
// страхует от дублей при конкурентных вызовах.
func (r *ReviewRepository) CreateVersion(ctx context.Context, reviewID uuid.UUID) (*domain.ReviewVersion, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.PersistenceError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	version := &domain.ReviewVersion{
		ID:       uuid.New(),
		ReviewID: reviewID,
	}

	query := `
        INSERT INTO review_versions (id, review_id, version_number)
        SELECT $1, $2, COALESCE(MAX(version_number), 0) + 1
        FROM review_versions
        WHERE review_id = $2
        RETURNING version_number, created_at`

	err = tx.QueryRowContext(ctx, query, version.ID, reviewID).
		Scan(&version.VersionNumber, &version.CreatedAt)
	if err != nil {
		return nil, domain.PersistenceError(err, "failed to insert review version")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.PersistenceError(err, "failed to commit version creation")
	}

	return version, nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var review domain.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("review %s not found", id)
		}
		return nil, domain.PersistenceError(err, "failed to get review")
	}
	return &review, nil
}

func (r *ReviewRepository) GetReviewVersion(ctx context.Context, id uuid.UUID) (*domain.ReviewVersion, error) {
	var version domain.ReviewVersion
	err := r.db.GetContext(ctx, &version, `SELECT * FROM review_versions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("review version %s not found", id)
		}
		return nil, domain.PersistenceError(err, "failed to get review version")
	}
	return &version, nil
}

func (r *ReviewRepository) GetLatestVersion(ctx context.Context, reviewID uuid.UUID) (*domain.ReviewVersion, error) {
	var version domain.ReviewVersion
	query := `
        SELECT * FROM review_versions
        WHERE review_id = $1
        ORDER BY version_number DESC
        LIMIT 1`

	err := r.db.GetContext(ctx, &version, query, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("review %s has no versions", reviewID)
		}
		return nil, domain.PersistenceError(err, "failed to get latest version")
	}
	return &version, nil
}

func (r *ReviewRepository) GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	var participant domain.Participant
	err := r.db.GetContext(ctx, &participant, `SELECT * FROM review_participants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("participant %s not found", id)
		}
		return nil, domain.PersistenceError(err, "failed to get participant")
	}
	return &participant, nil
}

func (r *ReviewRepository) ListParticipants(ctx context.Context, reviewID uuid.UUID) ([]domain.Participant, error) {
	var participants []domain.Participant
	query := `SELECT * FROM review_participants WHERE review_id = $1 ORDER BY added_at, id`

	if err := r.db.SelectContext(ctx, &participants, query, reviewID); err != nil {
		return nil, domain.PersistenceError(err, "failed to list participants")
	}
	return participants, nil
}

func (r *ReviewRepository) UpdateParticipantStatus(ctx context.Context, id uuid.UUID, status domain.ParticipantStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE review_participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return domain.PersistenceError(err, "failed to update participant status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError(err, "failed to check affected rows")
	}
	if rows == 0 {
		return domain.NotFoundError("participant %s not found", id)
	}

	return nil
}

func (r *ReviewRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	query := `
        INSERT INTO review_comments (id, review_version_id, participant_id, content, metadata)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		comment.ID,
		comment.ReviewVersionID,
		comment.ParticipantID,
		comment.Content,
		comment.Metadata,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return domain.PersistenceError(err, "failed to insert comment")
	}

	return nil
}

func (r *ReviewRepository) ListComments(ctx context.Context, reviewVersionID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	query := `
        SELECT * FROM review_comments
        WHERE review_version_id = $1
        ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &comments, query, reviewVersionID); err != nil {
		return nil, domain.PersistenceError(err, "failed to list comments")
	}
	return comments, nil
}

func (r *ReviewRepository) CreateApproval(ctx context.Context, approval *domain.Approval) error {
	query := `
        INSERT INTO review_approvals (id, review_version_id, participant_id, action, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		approval.ID,
		approval.ReviewVersionID,
		approval.ParticipantID,
		approval.Action,
		approval.Comment,
	).Scan(&approval.CreatedAt)
	if err != nil {
		return domain.PersistenceError(err, "failed to insert approval")
	}

	return nil
}

func (r *ReviewRepository) GetTokenBySecret(ctx context.Context, secret string) (*domain.Token, error) {
	var token domain.Token
	err := r.db.GetContext(ctx, &token, `SELECT * FROM review_tokens WHERE secret = $1`, secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("token not found")
		}
		return nil, domain.PersistenceError(err, "failed to get token")
	}
	return &token, nil
}

// ConsumeToken помечает токен использованным. Проверка и пометка — один
// условный UPDATE, из конкурентных вызовов пройдет ровно один.
func (r *ReviewRepository) ConsumeToken(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE review_tokens
        SET used_at = CURRENT_TIMESTAMP
        WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return domain.PersistenceError(err, "failed to consume token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError(err, "failed to check affected rows")
	}
	if rows == 0 {
		return domain.AuthError("token already used")
	}

	return nil
}

// UpdateReviewStatus — CAS-обновление: запись проходит, только если
// status_version не изменился с момента чтения.
func (r *ReviewRepository) UpdateReviewStatus(ctx context.Context, reviewID uuid.UUID, status domain.ReviewStatus, expectedStatusVersion int64) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE reviews
        SET status = $1, status_version = status_version + 1
        WHERE id = $2 AND status_version = $3`,
		status, reviewID, expectedStatusVersion)
	if err != nil {
		return domain.PersistenceError(err, "failed to update review status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError(err, "failed to check affected rows")
	}
	if rows == 0 {
		// Либо ревью нет, либо кто-то успел записать статус раньше
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID); err != nil {
			return domain.PersistenceError(err, "failed to check review existence")
		}
		if !exists {
			return domain.NotFoundError("review %s not found", reviewID)
		}
		return domain.ConflictError("review %s status was updated concurrently", reviewID)
	}

	return nil
}

// ListReviewHistory собирает историю ревью ассета: по строке на ревью с
// номером последней версии и статусами участников.
func (r *ReviewRepository) ListReviewHistory(ctx context.Context, assetID uuid.UUID, clientID string) ([]domain.ReviewHistoryItem, error) {
	var reviews []domain.Review
	query := `
        SELECT * FROM reviews
        WHERE asset_id = $1 AND client_id = $2
        ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &reviews, query, assetID, clientID); err != nil {
		return nil, domain.PersistenceError(err, "failed to list reviews")
	}

	items := make([]domain.ReviewHistoryItem, 0, len(reviews))
	for _, review := range reviews {
		var latestVersion int
		err := r.db.GetContext(ctx, &latestVersion, `
            SELECT COALESCE(MAX(version_number), 0)
            FROM review_versions
            WHERE review_id = $1`, review.ID)
		if err != nil {
			return nil, domain.PersistenceError(err, "failed to get latest version number")
		}

		participants, err := r.ListParticipants(ctx, review.ID)
		if err != nil {
			return nil, err
		}

		historyParticipants := make([]domain.ReviewHistoryParticipant, 0, len(participants))
		for _, p := range participants {
			historyParticipants = append(historyParticipants, domain.ReviewHistoryParticipant{
				Email:  p.Email,
				Status: p.Status,
			})
		}

		items = append(items, domain.ReviewHistoryItem{
			ReviewID:      review.ID,
			Title:         review.Title,
			Status:        review.Status,
			InitiatedBy:   review.InitiatedBy,
			LatestVersion: latestVersion,
			Participants:  historyParticipants,
		})
	}

	return items, nil
}
