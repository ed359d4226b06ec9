package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promodrive/internal/domain"
	"promodrive/internal/service"
)

// PortalHandler обслуживает внешних ревьюеров. Единственная аутентификация
// здесь — опэйк-токен в пути; до проверки токена никакая операция не
// выполняется.
type PortalHandler struct {
	tokenService    *service.TokenService
	reviewService   *service.ReviewService
	commentService  *service.CommentService
	approvalService *service.ApprovalService
	// singleUseApproval включает одноразовое потребление токена на вердикте
	singleUseApproval bool
}

type addCommentRequest struct {
	Content  string                 `json:"content"`
	Metadata domain.CommentMetadata `json:"metadata,omitempty"`
}

type recordApprovalRequest struct {
	Action  string  `json:"action"`
	Comment *string `json:"comment,omitempty"`
}

func NewPortalHandler(
	tokenService *service.TokenService,
	reviewService *service.ReviewService,
	commentService *service.CommentService,
	approvalService *service.ApprovalService,
	singleUseApproval bool,
) *PortalHandler {
	return &PortalHandler{
		tokenService:      tokenService,
		reviewService:     reviewService,
		commentService:    commentService,
		approvalService:   approvalService,
		singleUseApproval: singleUseApproval,
	}
}

func (h *PortalHandler) GetReviewData(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokenService.Validate(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, "GetReviewData", err)
		return
	}

	data, err := h.reviewService.GetReviewData(r.Context(), claims.ReviewVersionID, claims.ParticipantID)
	if err != nil {
		writeError(w, "GetReviewData", err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *PortalHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokenService.Validate(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, "AddComment", err)
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AddComment] Failed to decode request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.commentService.AddComment(
		r.Context(),
		claims.ReviewVersionID,
		claims.ParticipantID,
		req.Content,
		req.Metadata,
	)
	if err != nil {
		writeError(w, "AddComment", err)
		return
	}

	response := struct {
		CommentID uuid.UUID `json:"comment_id"`
	}{
		CommentID: comment.ID,
	}

	writeJSON(w, http.StatusCreated, response)
}

func (h *PortalHandler) RecordApproval(w http.ResponseWriter, r *http.Request) {
	secret := chi.URLParam(r, "token")

	// Тело разбираем до потребления токена: битый запрос не должен
	// сжигать одноразовый токен
	var req recordApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[RecordApproval] Failed to decode request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var claims *domain.TokenClaims
	var err error
	if h.singleUseApproval {
		claims, err = h.tokenService.ValidateAndConsume(r.Context(), secret)
	} else {
		claims, err = h.tokenService.Validate(r.Context(), secret)
	}
	if err != nil {
		writeError(w, "RecordApproval", err)
		return
	}

	err = h.approvalService.RecordApproval(
		r.Context(),
		claims.ReviewVersionID,
		claims.ParticipantID,
		domain.ApprovalAction(req.Action),
		req.Comment,
	)
	if err != nil {
		writeError(w, "RecordApproval", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
