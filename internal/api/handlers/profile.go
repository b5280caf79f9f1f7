package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/api/middleware"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/service"
	"gorm.io/datatypes"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type ProfileRequest struct {
	Name              string         `json:"name"`
	Age               *float64       `json:"age"`
	AvatarURL         *string        `json:"avatarUrl"`
	PreferredLanguage *string        `json:"preferredLanguage"`
	Settings          datatypes.JSON `json:"settings"`
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.Create(r.Context(), userID, service.ProfileInput{
		Name:              req.Name,
		Age:               req.Age,
		AvatarURL:         req.AvatarURL,
		PreferredLanguage: req.PreferredLanguage,
		Settings:          req.Settings,
	})
	if err != nil {
		log.Printf("ERROR [profile.Create] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profiles, err := h.profileService.ListByParent(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [profile.List] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwned(r.Context(), profileID, userID)
	if err != nil {
		writeProfileError(w, err, "profile.Get")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.Update(r.Context(), profileID, userID, service.ProfileInput{
		Name:              req.Name,
		Age:               req.Age,
		AvatarURL:         req.AvatarURL,
		PreferredLanguage: req.PreferredLanguage,
		Settings:          req.Settings,
	})
	if err != nil {
		writeProfileError(w, err, "profile.Update")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.profileService.Delete(r.Context(), profileID, userID); err != nil {
		writeProfileError(w, err, "profile.Delete")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *ProfileHandler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, profileID uuid.UUID, ok bool) {
	userID, found := middleware.GetUserID(r.Context())
	if !found {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		http.Error(w, "Invalid profile ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, profileID, true
}

func writeProfileError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		http.Error(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotProfileOwner):
		http.Error(w, "Not enough permissions", http.StatusForbidden)
	default:
		log.Printf("ERROR [%s] %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
