package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"promodrive/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError мапит вид ошибки в HTTP-статус. Наружу уходят только
// обобщенные сообщения, детали хранилища остаются в логах.
func writeError(w http.ResponseWriter, op string, err error) {
	log.Printf("[%s] %v", op, err)

	switch domain.KindOf(err) {
	case domain.ErrKindValidation:
		message := "invalid request"
		var de *domain.Error
		if errors.As(err, &de) {
			message = de.Message
		}
		http.Error(w, message, http.StatusBadRequest)
	case domain.ErrKindNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case domain.ErrKindAuth:
		http.Error(w, "link invalid or expired", http.StatusUnauthorized)
	case domain.ErrKindConflict:
		http.Error(w, "review was updated concurrently, please retry", http.StatusConflict)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
