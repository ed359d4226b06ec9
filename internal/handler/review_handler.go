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

type ReviewHandler struct {
	reviewService *service.ReviewService
}

type initiateReviewRequest struct {
	AssetID        string   `json:"asset_id"`
	ClientID       string   `json:"client_id"`
	ReviewerEmails []string `json:"reviewer_emails"`
	InitiatedBy    *string  `json:"initiated_by,omitempty"`
	Title          string   `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) InitiateReview(w http.ResponseWriter, r *http.Request) {
	log.Printf("[InitiateReview] Processing new review request")

	var req initiateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[InitiateReview] Failed to decode request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		writeError(w, "InitiateReview", domain.ValidationError("invalid asset_id"))
		return
	}

	result, err := h.reviewService.InitiateReview(r.Context(), domain.ReviewRequest{
		AssetID:        assetID,
		ClientID:       req.ClientID,
		ReviewerEmails: req.ReviewerEmails,
		InitiatedBy:    req.InitiatedBy,
		Title:          req.Title,
		Description:    req.Description,
	})
	if err != nil {
		writeError(w, "InitiateReview", err)
		return
	}

	log.Printf("[InitiateReview] Successfully created review %s", result.ReviewID)
	writeJSON(w, http.StatusCreated, result)
}

func (h *ReviewHandler) GetAssetReviewHistory(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "GetAssetReviewHistory", domain.ValidationError("invalid asset uuid"))
		return
	}

	clientID := r.URL.Query().Get("client_id")

	items, err := h.reviewService.GetAssetReviewHistory(r.Context(), assetID, clientID)
	if err != nil {
		writeError(w, "GetAssetReviewHistory", err)
		return
	}

	if items == nil {
		items = []domain.ReviewHistoryItem{}
	}

	writeJSON(w, http.StatusOK, items)
}
