package relay

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Relay actions accepted by the endpoint.
const (
	ActionAnalyzeIdea   = "analyzeIdea"
	ActionGenerateImage = "generateImage"
)

// generateRequest is the relay wire format.
type generateRequest struct {
	Action   string          `json:"action"`
	Model    string          `json:"model"`
	Contents json.RawMessage `json:"contents"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Handler serves POST /api/generate, forwarding to the Gemini API and
// shaping the response to {text} or {imageData} depending on the action.
type Handler struct {
	forwarder *Forwarder
}

// NewHandler creates a relay handler backed by the given forwarder.
func NewHandler(forwarder *Forwarder) *Handler {
	return &Handler{forwarder: forwarder}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.NewString()
	logger := log.With().Str("request_id", requestID).Logger()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Rejected malformed request body")
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Model == "" || len(req.Contents) == 0 {
		httpError(w, http.StatusBadRequest, "model and contents are required")
		return
	}

	switch req.Action {
	case ActionAnalyzeIdea, ActionGenerateImage:
	default:
		httpError(w, http.StatusBadRequest, "invalid action")
		return
	}

	logger.Info().
		Str("action", req.Action).
		Str("model", req.Model).
		Msg("Forwarding generation request")

	parts, err := h.forwarder.GenerateContent(r.Context(), req.Model, req.Contents, req.Config)
	if err != nil {
		logger.Error().Err(err).Str("action", req.Action).Msg("Upstream call failed")
		httpError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	switch req.Action {
	case ActionAnalyzeIdea:
		text := aggregateText(parts)
		if text == "" {
			logger.Error().Msg("Upstream response carried no text")
			httpError(w, http.StatusInternalServerError, "no text in model response")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"text": text})

	case ActionGenerateImage:
		imageData := firstImageData(parts)
		if imageData == "" {
			logger.Error().Msg("Upstream response carried no image data")
			httpError(w, http.StatusInternalServerError, "no image data in model response")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"imageData": imageData})
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func httpError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
