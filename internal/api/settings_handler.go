package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spareeye/backend/internal/interfaces"
	"spareeye/backend/internal/service"
)

// SettingsHandler handles per-user preferences.
type SettingsHandler struct {
	service interfaces.SettingsService
}

func NewSettingsHandler(svc interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// HandleGetSettings godoc
// @Summary      Get settings
// @Description  Returns the user's settings, creating the defaults on first read.
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  model.Settings
// @Failure      403     {object}  ErrorResponse
// @Router       /v1/settings/{userID} [get]
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	settings, err := h.service.Get(r.Context(), caller, chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// HandleUpdateSettings godoc
// @Summary      Update settings
// @Description  Only theme, aiVoice, notifications and autoUpdates can change.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userID    path      string                       true  "User ID"
// @Param        settings  body      service.UpdateSettingsInput  true  "Fields to change"
// @Success      200       {object}  model.Settings
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Router       /v1/settings/{userID} [put]
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var in service.UpdateSettingsInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}
	settings, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "userID"), &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}
