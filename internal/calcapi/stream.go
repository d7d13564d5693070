package calcapi

import (
	"errors"
	"net/http"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const streamWriteWait = 10 * time.Second

// streamError is sent to the client when a message cannot be applied.
type streamError struct {
	Error string `json:"error"`
}

// Stream handles GET /calculator/sessions/{id}/ws. Each client message is
// one intent; the server answers every message with the session view. The
// first frame is the current view.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx).With(zap.String("session_id", id))

	initial, err := h.view(id, nil)
	if err != nil {
		ctx, span := tracer.Start(ctx, "calculator.session.stream")
		defer span.End()
		h.sessionError(ctx, span, w, "session.stream", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("calculator stream opened")

	if err := writeFrame(conn, initial); err != nil {
		return
	}

	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("calculator stream closed unexpectedly", zap.Error(err))
			}
			return
		}

		in, ok := streamIntent(msg)
		if !ok {
			if err := writeFrame(conn, streamError{Error: "unknown intent"}); err != nil {
				return
			}
			continue
		}

		msgCtx, span := tracer.Start(ctx, "calculator.session.stream.intent",
			trace.WithAttributes(
				attribute.String("calculator.session.id", id),
				attribute.String("calculator.intent", string(in.Kind)),
			))
		resp, err := h.apply(msgCtx, id, []calculator.Intent{in})
		span.End()

		if errors.Is(err, session.ErrSessionNotFound) {
			_ = writeFrame(conn, streamError{Error: err.Error()})
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
				time.Now().Add(streamWriteWait))
			return
		}
		if err != nil {
			if err := writeFrame(conn, streamError{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		if err := writeFrame(conn, resp); err != nil {
			return
		}
	}
}

func streamIntent(msg StreamMessage) (calculator.Intent, bool) {
	if msg.Key != "" {
		return calculator.KeyIntent(msg.Key)
	}
	return calculator.ActionIntent(msg.Action, msg.Value)
}

func writeFrame(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(v)
}
