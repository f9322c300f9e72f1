package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  ProgressService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service ProgressService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type submitPayload struct {
	ScenarioID  int64           `json:"scenarioId"`
	UserAnswers json.RawMessage `json:"userAnswers"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ServeWS upgrades the request and serves submissions over the socket. The
// caller identity is fixed at upgrade time by the Identity middleware.
// Messages are handled one at a time, so results arrive in submission order.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	userID := UserIDFrom(ctx)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("ws read ended", zap.Error(err))
			}
			return
		}

		var out any
		switch inbound.Type {
		case "submit":
			out = h.handleSubmit(r, userID, inbound.Payload)
		default:
			out = errorMessage(http.StatusBadRequest, errors.New("unsupported message type"))
		}

		if err := conn.WriteJSON(out); err != nil {
			h.log.Warn("ws write error", zap.Error(err))
			return
		}
	}
}

func (h *WSHandler) handleSubmit(r *http.Request, userID string, raw json.RawMessage) any {
	var payload submitPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errorMessage(http.StatusBadRequest, errors.New("invalid submit payload"))
	}
	answers, err := decodeAnswers(payload.UserAnswers)
	if err != nil {
		return errorMessage(http.StatusBadRequest, err)
	}

	res, err := h.service.Submit(r.Context(), userID, payload.ScenarioID, answers)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("ws submit failed", zap.String("user_id", userID), zap.Error(err))
			err = errors.New("internal error")
		}
		return errorMessage(status, err)
	}
	return outboundMessage[submissionBody]{Type: "submissionResult", Payload: toSubmissionBody(res)}
}

func errorMessage(status int, err error) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error(), Status: status}}
}
