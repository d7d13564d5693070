package calcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ---------------------------------------------------------------------------
// Handlers — stateless binary operations
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add
func Add(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, calculator.Add)
}

// Subtract handles POST /calculator/subtract
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, calculator.Subtract)
}

// Multiply handles POST /calculator/multiply
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, calculator.Multiply)
}

// Divide handles POST /calculator/divide. Division by zero is a 400.
func Divide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, calculator.Divide)
}

// handleBinaryOp evaluates one operator with the same arithmetic the
// session engine uses, inside its own span.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, op calculator.Operator) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	opName := op.Name()

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if !finite(req.A) || !finite(req.B) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("a=%g b=%g", req.A, req.B), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	start := time.Now()
	result, err := op.Evaluate(req.A, req.B)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}
	if !finite(result) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, calculator.ErrNonFiniteResult.Error(), calculator.ErrNonFiniteResult, http.StatusUnprocessableEntity, w)
		return
	}

	recordOperation(ctx, opName, result, elapsed)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    result,
	})
}

// ---------------------------------------------------------------------------
// Handler — chained operations
// ---------------------------------------------------------------------------

// Chain handles POST /calculator/chain: a sequence of operations on a
// running total, one child span per step.
func Chain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Steps) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "no steps provided", fmt.Errorf("steps array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(req.Steps)),
	)

	running := req.Initial
	results := make([]ChainResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d", i),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.String("chain.step.operation", step.Op),
				attribute.Float64("chain.step.input", running),
				attribute.Float64("chain.step.value", step.Value),
			),
		)

		stepStart := time.Now()
		prev := running

		op, err := calculator.ParseOperator(step.Op)
		if err == nil {
			running, err = op.Evaluate(running, step.Value)
		}
		if err == nil && !finite(running) {
			err = calculator.ErrNonFiniteResult
		}
		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		if err != nil {
			err = fmt.Errorf("step %d: %w", i, err)
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			observability.RecordError(ctx, span, logger, errorCounter, "chain", err.Error(), err, http.StatusBadRequest, w)
			return
		}

		recordOperation(ctx, op.Name(), running, stepElapsed)

		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.Float64("input", prev),
			attribute.Float64("result", running),
		))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		results = append(results, ChainResult{
			Op:     op.Name(),
			Value:  step.Value,
			Result: running,
		})
	}

	span.SetAttributes(attribute.Float64("chain.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.Float64("initial", req.Initial),
		zap.Float64("result", running),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ChainResponse{
		Initial: req.Initial,
		Steps:   results,
		Result:  running,
	})
}

func recordOperation(ctx context.Context, opName string, result, elapsedMS float64) {
	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsedMS, attrs)
	resultGauge.Record(ctx, result, attrs)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
