package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"firstaid-progress-service/internal/domain"
	"go.uber.org/zap"
)

// ProgressService is the use-case surface the transport depends on.
type ProgressService interface {
	Submit(ctx context.Context, userID string, scenarioID int64, answers []string) (domain.SubmissionResult, error)
	ListProgress(ctx context.Context, userID string) ([]domain.LevelStatus, error)
	ListBadges(ctx context.Context, userID string) ([]domain.EarnedBadge, error)
}

const maxBodyBytes = 64 << 10

type Handler struct {
	service ProgressService
	log     *zap.Logger
}

func NewHandler(service ProgressService, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Register mounts the REST routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /scenarios/{id}/submit", h.submit)
	mux.HandleFunc("GET /me/progress", h.progress)
	mux.HandleFunc("GET /me/badges", h.badges)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

type submitRequest struct {
	UserAnswers json.RawMessage `json:"userAnswers"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	scenarioID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("scenario id: %w", domain.ErrInvalidInput))
		return
	}

	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("decode body: %w", domain.ErrInvalidInput))
		return
	}
	answers, err := decodeAnswers(req.UserAnswers)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.Submit(r.Context(), UserIDFrom(r.Context()), scenarioID, answers)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionBody(res))
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.ListProgress(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": toLevelStatusBodies(levels)})
}

func (h *Handler) badges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.service.ListBadges(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": toEarnedBadgeBodies(badges)})
}

// decodeAnswers requires a JSON array. Elements that are not strings are kept
// as empty answers so they score as incorrect without shifting later steps.
func decodeAnswers(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil, fmt.Errorf("userAnswers must be an array: %w", domain.ErrInvalidInput)
	}
	answers := make([]string, len(items))
	for i, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			answers[i] = s
		}
	}
	return answers, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
