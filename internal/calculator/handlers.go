package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"calculator-widget/internal/handlers"
	"calculator-widget/internal/observability"
	"calculator-widget/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const maxBodyBytes = 64 << 10

// Handler serves the calculator HTTP API.
type Handler struct {
	store     session.Store[State]
	tokens    *session.Tokens
	formatter *Formatter
}

func NewHandler(store session.Store[State], tokens *session.Tokens, formatter *Formatter) *Handler {
	return &Handler{store: store, tokens: tokens, formatter: formatter}
}

// ---------------------------------------------------------------------------
// Handlers — sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	id := session.NewID()
	state := NewState()

	if err := h.store.Create(ctx, id, state); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "could not create session", err, http.StatusInternalServerError, w)
		return
	}

	token, err := h.tokens.Issue(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "could not issue session token", err, http.StatusInternalServerError, w)
		return
	}

	sessionsCounter.Add(ctx, 1)
	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{
		SessionID: id,
		Token:     token,
		State:     state,
		Display:   h.formatter.Render(state),
	})
}

// GetSession handles GET /calculator/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := session.IDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	state, err := h.store.Get(ctx, id)
	if err != nil {
		h.storeError(w, r, span, logger, "get", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		State:   state,
		Display: h.formatter.Render(state),
	})
}

// DeleteSession handles DELETE /calculator/session
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := session.IDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	if err := h.store.Delete(ctx, id); err != nil {
		h.storeError(w, r, span, logger, "delete", err)
		return
	}

	sessionsCounter.Add(ctx, -1)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — input
// ---------------------------------------------------------------------------

// Dispatch handles POST /calculator/session/dispatch. The body is an action
// envelope such as {"type": "add-digit", "payload": {"digit": "7"}}.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	var req ActionRequest
	if err := decodeBody(w, r, &req); err != nil {
		_, span := tracer.Start(ctx, "calculator.dispatch")
		defer span.End()
		observability.RecordError(ctx, span, logger, errorCounter, "dispatch", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	action, err := req.Action()
	if err != nil {
		_, span := tracer.Start(ctx, "calculator.dispatch")
		defer span.End()
		observability.RecordError(ctx, span, logger, errorCounter, "dispatch", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	h.apply(w, r, "dispatch", action)
}

// Press handles POST /calculator/session/press. The body names a button
// label which is translated to an action.
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	var req PressRequest
	if err := decodeBody(w, r, &req); err != nil {
		_, span := tracer.Start(ctx, "calculator.press")
		defer span.End()
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	action, ok := KeyAction(req.Key)
	if !ok {
		_, span := tracer.Start(ctx, "calculator.press")
		defer span.End()
		msg := fmt.Sprintf("unknown key %q", req.Key)
		observability.RecordError(ctx, span, logger, errorCounter, "press", msg, errors.New(msg), http.StatusBadRequest, w)
		return
	}

	h.apply(w, r, "press", action)
}

// metricAction is the bounded label recorded for a on metrics.
func metricAction(a Action) string {
	if _, ok := a.(Unknown); ok {
		return "unknown"
	}
	return string(a.Type())
}

// apply is the shared implementation of Dispatch and Press: it reduces the
// session state under the store's lock, records metrics and writes the new
// state.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, opName string, action Action) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := session.IDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.action", string(action.Type())),
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if _, unknown := action.(Unknown); unknown {
		logger.Warn("ignoring unknown action",
			zap.String("action", string(action.Type())),
			zap.String("session_id", id),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	state, err := h.store.Update(ctx, id, func(s State) State {
		return Reduce(s, action)
	})
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		h.storeError(w, r, span, logger, opName, err)
		return
	}

	attrs := metric.WithAttributes(attribute.String("action", metricAction(action)))
	actionsCounter.Add(ctx, 1, attrs)
	actionHistogram.Record(ctx, elapsed, attrs)
	if _, ok := action.(Evaluate); ok && state.Overwrite {
		recordResult(ctx, span, text(state.CurrentOperand), attrs)
	}

	display := h.formatter.Render(state)
	span.AddEvent("action.applied", trace.WithAttributes(
		attribute.String("display.current", display.Current),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Debug("calculator action applied",
		zap.String("action", string(action.Type())),
		zap.String("session_id", id),
		zap.String("current", display.Current),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		State:   state,
		Display: display,
	})
}

// ---------------------------------------------------------------------------
// Handlers — stateless
// ---------------------------------------------------------------------------

// Replay handles POST /calculator/replay. It folds a sequence of actions over a
// fresh calculator, creating a child span for every step.
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.replay",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ReplayRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Actions) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", "no actions provided", fmt.Errorf("actions array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("replay.steps_count", len(req.Actions)))

	state := NewState()
	steps := make([]ReplayStep, 0, len(req.Actions))

	for i, actionReq := range req.Actions {
		_, stepSpan := tracer.Start(ctx, "calculator.replay.step",
			trace.WithAttributes(
				attribute.Int("replay.step.index", i),
				attribute.String("replay.step.action", string(actionReq.Type)),
			),
		)

		action, err := actionReq.Action()
		if err != nil {
			err = fmt.Errorf("step %d: %w", i, err)
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			observability.RecordError(ctx, span, logger, errorCounter, "replay", err.Error(), err, http.StatusBadRequest, w)
			return
		}

		state = Reduce(state, action)

		actionsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(action.Type()))))
		stepSpan.SetAttributes(attribute.String("replay.step.current", text(state.CurrentOperand)))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		steps = append(steps, ReplayStep{
			Action: MarshalAction(action),
			State:  state,
		})
	}

	display := h.formatter.Render(state)
	span.AddEvent("replay.complete", trace.WithAttributes(
		attribute.String("display.current", display.Current),
		attribute.Int("total_steps", len(steps)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("replay completed",
		zap.Int("steps", len(steps)),
		zap.String("current", display.Current),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ReplayResponse{
		Steps:   steps,
		State:   state,
		Display: display,
	})
}

// Compute handles POST /calculator/evaluate. It evaluates a single
// previous/operation/current triple without touching any session.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req ComputeRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operand.previous", req.PreviousOperand),
		attribute.String("calculator.operand.current", req.CurrentOperand),
		attribute.String("calculator.operation", string(req.Operation)),
	)

	result := Compute(req.PreviousOperand, req.CurrentOperand, req.Operation)

	attrs := metric.WithAttributes(attribute.String("action", string(ActionEvaluate)))
	actionsCounter.Add(ctx, 1, attrs)
	recordResult(ctx, span, result, attrs)
	span.SetStatus(codes.Ok, "")

	display, _ := h.formatter.Format(&result)
	logger.Info("evaluation completed",
		zap.String("previous", req.PreviousOperand),
		zap.String("operation", string(req.Operation)),
		zap.String("current", req.CurrentOperand),
		zap.String("result", result),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ComputeResponse{
		Operation: req.Operation,
		Result:    result,
		Display:   display,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName string, err error) {
	ctx := r.Context()
	if errors.Is(err, session.ErrNotFound) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return
	}
	observability.RecordError(ctx, span, logger, errorCounter, opName, "session storage failed", err, http.StatusInternalServerError, w)
}

func recordResult(ctx context.Context, span trace.Span, result string, attrs metric.MeasurementOption) {
	v, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return
	}
	resultGauge.Record(ctx, v, attrs)
	span.SetAttributes(attribute.String("calculator.result", result))
}
