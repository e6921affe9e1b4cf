package api

import (
	"io"
	"log/slog"
	"net/http"

	"spareeye/backend/internal/interfaces"
	"spareeye/backend/internal/service"
)

// SpeechHandler streams synthesized speech.
type SpeechHandler struct {
	service interfaces.SpeechService
}

func NewSpeechHandler(svc interfaces.SpeechService) *SpeechHandler {
	return &SpeechHandler{service: svc}
}

// HandleTextToSpeech godoc
// @Summary      Text to speech
// @Description  Converts text to audio using the caller's voice preference unless a voice is given.
// @Tags         Speech
// @Accept       json
// @Produce      audio/mpeg
// @Security     BearerAuth
// @Param        request  body      service.SpeechInput  true  "Text to speak"
// @Success      200      {file}    binary
// @Failure      400      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /v1/tts [post]
func (h *SpeechHandler) HandleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var in service.SpeechInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}

	audio, err := h.service.Synthesize(r.Context(), caller, &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	defer audio.Body.Close()

	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, audio.Body); err != nil {
		// Headers are already sent; the client most likely went away.
		slog.Warn("Could not stream audio, client likely disconnected", "error", err)
	}
}
