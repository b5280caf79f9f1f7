package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/api/middleware"
	"github.com/pranaysuyash/advay-learning/internal/service"
	"gorm.io/datatypes"
)

type ProgressHandler struct {
	progressService *service.ProgressService
	profileService  *service.ProfileService
}

func NewProgressHandler(progressService *service.ProgressService, profileService *service.ProfileService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		profileService:  profileService,
	}
}

type ProgressItemRequest struct {
	ActivityType    string         `json:"activity_type"`
	ContentID       string         `json:"content_id"`
	Score           int            `json:"score"`
	DurationSeconds int            `json:"duration_seconds"`
	MetaData        datatypes.JSON `json:"meta_data"`
	IdempotencyKey  *string        `json:"idempotency_key"`
	Timestamp       *string        `json:"timestamp"`
}

func (req *ProgressItemRequest) toInput() service.ProgressInput {
	input := service.ProgressInput{
		ActivityType:    req.ActivityType,
		ContentID:       req.ContentID,
		Score:           req.Score,
		DurationSeconds: req.DurationSeconds,
		MetaData:        req.MetaData,
		IdempotencyKey:  req.IdempotencyKey,
	}
	if req.Timestamp != nil {
		if ts, err := time.Parse(time.RFC3339, *req.Timestamp); err == nil {
			input.CompletedAt = &ts
		}
	}
	return input
}

type BatchRequest struct {
	ProfileID string                `json:"profile_id"`
	Items     []ProgressItemRequest `json:"items"`
}

type BatchResponse struct {
	Results []service.BatchItemResult `json:"results"`
}

// ownedProfile resolves profile_id from the query string and enforces that it
// belongs to the authenticated parent.
func (h *ProgressHandler) ownedProfile(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}

	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		http.Error(w, "Invalid profile_id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	if _, err := h.profileService.GetOwned(r.Context(), profileID, userID); err != nil {
		writeProfileError(w, err, "progress")
		return uuid.Nil, false
	}
	return profileID, true
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	records, err := h.progressService.GetByProfile(r.Context(), profileID)
	if err != nil {
		log.Printf("ERROR [progress.Get] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *ProgressHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	var req ProgressItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.progressService.Create(r.Context(), profileID, req.toInput())
	if err != nil {
		var dup *service.DuplicateProgressError
		switch {
		case errors.As(err, &dup):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{
				"detail":      "Duplicate progress for idempotency_key",
				"existing_id": dup.ExistingID.String(),
			})
		case errors.Is(err, service.ErrInvalidProgressItem):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("ERROR [progress.Create] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// Batch ingests a list of progress items for one profile. Each item gets its
// own ok/duplicate/error result at the same index; a bad item never fails the
// request.
func (h *ProgressHandler) Batch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		http.Error(w, "Invalid profile_id", http.StatusBadRequest)
		return
	}

	if _, err := h.profileService.GetOwned(r.Context(), profileID, userID); err != nil {
		writeProfileError(w, err, "progress.Batch")
		return
	}

	items := make([]service.ProgressInput, 0, len(req.Items))
	for i := range req.Items {
		items = append(items, req.Items[i].toInput())
	}

	results := h.progressService.SubmitBatch(r.Context(), profileID, items)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BatchResponse{Results: results})
}

func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	stats, err := h.progressService.Stats(r.Context(), profileID)
	if err != nil {
		log.Printf("ERROR [progress.Stats] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
