package calcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handler serves the session endpoints. Each session owns one engine in
// the store; every response carries the presenter's view of it.
type Handler struct {
	store     *session.Store
	presenter *display.Presenter
	upgrader  websocket.Upgrader
}

// NewHandler wires the session endpoints to a store and presenter.
func NewHandler(store *session.Store, presenter *display.Presenter) *Handler {
	return &Handler{
		store:     store,
		presenter: presenter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// CreateSession handles POST /calculator/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.create")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess := h.store.Create()
	sessionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "created")))
	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))

	resp, err := h.view(sess.ID, nil)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.create", "session unavailable", err, http.StatusInternalServerError, w)
		return
	}

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.Header().Set("Location", "/calculator/sessions/"+sess.ID)
	handlers.WriteJSON(w, http.StatusCreated, resp)
}

// GetSession handles GET /calculator/sessions/{id}. The response carries an
// ETag so pollers can use If-None-Match.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session.id", id)))
	defer span.End()

	resp, err := h.view(id, nil)
	if err != nil {
		h.sessionError(ctx, span, w, "session.get", err)
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, "session.get", "encoding response", err, http.StatusInternalServerError, w)
		return
	}

	etag := viewETag(body)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}

// ApplyIntents handles POST /calculator/sessions/{id}/intents.
func (h *Handler) ApplyIntents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculator.session.intents",
		trace.WithAttributes(attribute.String("calculator.session.id", id)))
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.intents", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	intents := make([]calculator.Intent, 0, len(req.Intents)+len(req.Keys))
	for _, in := range req.Intents {
		if mapped, ok := calculator.ActionIntent(string(in.Kind), in.Value); ok {
			intents = append(intents, mapped)
		}
	}
	for _, key := range req.Keys {
		if mapped, ok := calculator.KeyIntent(key); ok {
			intents = append(intents, mapped)
		}
	}
	span.SetAttributes(attribute.Int("calculator.intents.count", len(intents)))

	resp, err := h.apply(ctx, id, intents)
	if err != nil {
		h.sessionError(ctx, span, w, "session.intents", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// GetHistory handles GET /calculator/sessions/{id}/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculator.session.history",
		trace.WithAttributes(attribute.String("calculator.session.id", id)))
	defer span.End()

	var entries []calculator.Entry
	err := h.store.Do(id, func(e *calculator.Engine) error {
		if hist := e.History(); hist != nil {
			entries = hist.Entries()
		}
		return nil
	})
	if err != nil {
		h.sessionError(ctx, span, w, "session.history", err)
		return
	}

	resp := HistoryResponse{ID: id, Entries: make([]HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, HistoryEntry{
			Left:     e.Left,
			Operator: e.Operator.Symbol(),
			Right:    e.Right,
			Result:   e.Result,
			Text:     h.presenter.FormatEntry(e),
		})
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ClearHistory handles DELETE /calculator/sessions/{id}/history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculator.session.history.clear",
		trace.WithAttributes(attribute.String("calculator.session.id", id)))
	defer span.End()

	err := h.store.Do(id, func(e *calculator.Engine) error {
		e.ClearHistory()
		return nil
	})
	if err != nil {
		h.sessionError(ctx, span, w, "session.history.clear", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)))
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		h.sessionError(ctx, span, w, "session.delete", err)
		return
	}
	sessionCounter.Add(ctx, -1, metric.WithAttributes(attribute.String("reason", "deleted")))

	observability.LoggerWithTrace(ctx).Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// apply runs intents against the session engine one at a time and returns
// the resulting view. Completed computations are recorded as operations.
func (h *Handler) apply(ctx context.Context, id string, intents []calculator.Intent) (SessionResponse, error) {
	var (
		computed []calculator.Entry
		failures []error
	)
	resp, err := h.view(id, func(e *calculator.Engine) error {
		for _, in := range intents {
			failed := e.Failures()
			entry, ok, err := applyIntent(e, in)
			if err != nil {
				return err
			}
			if ok {
				computed = append(computed, entry)
			}
			if e.Failures() != failed {
				failures = append(failures, e.Err())
			}
			intentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(in.Kind))))
		}
		return nil
	})
	if err != nil {
		return SessionResponse{}, err
	}

	for _, entry := range computed {
		recordOperation(ctx, entry.Operator.Name(), calculator.ParseOperand(entry.Result), 0)
	}
	// Only computations that failed in this batch; a session still
	// showing an earlier error is not a new failure.
	for _, ferr := range failures {
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "session.compute")))
		observability.LoggerWithTrace(ctx).Warn("calculator computation failed",
			zap.String("session_id", id),
			zap.Error(ferr),
		)
	}
	return resp, nil
}

// applyIntent dispatches one intent, reporting the entry when it completed
// a computation, including the implicit one of a chained operator.
func applyIntent(e *calculator.Engine, in calculator.Intent) (calculator.Entry, bool, error) {
	before := e.Computations()
	if err := e.Apply(in); err != nil {
		return calculator.Entry{}, false, err
	}
	if e.Computations() == before {
		return calculator.Entry{}, false, nil
	}
	entry, _ := e.LastEntry()
	return entry, true, nil
}

// view optionally mutates the session engine with fn and renders it.
func (h *Handler) view(id string, fn func(*calculator.Engine) error) (SessionResponse, error) {
	var snap calculator.Snapshot
	err := h.store.Do(id, func(e *calculator.Engine) error {
		if fn != nil {
			if err := fn(e); err != nil {
				return err
			}
		}
		snap = e.Snapshot()
		return nil
	})
	if err != nil {
		return SessionResponse{}, err
	}

	return SessionResponse{
		ID:    id,
		State: stateFromSnapshot(snap),
		View:  h.presenter.Render(snap),
	}, nil
}

func (h *Handler) sessionError(ctx context.Context, span trace.Span, w http.ResponseWriter, opName string, err error) {
	logger := observability.LoggerWithTrace(ctx)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusNotFound, w)
	case errors.Is(err, calculator.ErrUnknownIntent), errors.Is(err, calculator.ErrUnknownOperator):
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
	default:
		observability.RecordError(ctx, span, logger, errorCounter, opName, "internal error", err, http.StatusInternalServerError, w)
	}
}

func viewETag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}
