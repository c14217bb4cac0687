// pkg/kramden_io/context.go

package kramden_io

import (
	"context"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RuntimeContext carries everything a command needs for one invocation:
// a traced context, a scoped logger and bookkeeping for the final span.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	Component  string
	Attributes map[string]string
}

// NewContext sets up tracing and a logger scoped to the calling command.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, span := telemetry.Start(parent, cmdName)
	traceID := span.SpanContext().TraceID().String()

	comp := resolveComponent(2)
	logger := zap.L().With(
		zap.String("component", comp),
		zap.String("command", cmdName),
		zap.String("trace_id", traceID),
	).Named(comp)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        logger,
		Timestamp:  time.Now(),
		Component:  comp,
		Command:    cmdName,
		Attributes: make(map[string]string),
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome and closes the command span with its key attributes.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)

	switch {
	case err == nil:
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	case kramden_err.IsExpectedUserError(err):
		rc.Log.Warn("Command finished with notice", zap.Duration("duration", duration), zap.Error(err))
	default:
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(err))
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, "command failed")
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("error_type", classifyError(err)),
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
}

// LogRuntimeExecutionContext records who is running the command. Erasure
// needs root, so uid/euid are worth having in every log.
func LogRuntimeExecutionContext(rc *RuntimeContext) {
	currentUser, err := user.Current()
	if err != nil {
		rc.Log.Warn("Failed to get current user", zap.Error(err))
	} else {
		rc.Log.Debug("User context",
			zap.String("username", currentUser.Username),
			zap.Int("real_uid", os.Getuid()),
			zap.Int("effective_uid", os.Geteuid()),
		)
	}

	if execPath, err := os.Executable(); err == nil {
		rc.Log.Debug("Executing binary", zap.String("path", execPath))
	}
}

func resolveComponent(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	parts := strings.Split(file, "/")
	if len(parts) < 2 {
		return strings.TrimSuffix(parts[0], ".go")
	}
	return parts[len(parts)-2]
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if kramden_err.IsExpectedUserError(err) {
		return "user"
	}
	var classified *kramden_err.ClassifiedError
	if cerr.As(err, &classified) {
		switch classified.Category {
		case kramden_err.CategoryPartialFailure:
			return "partial_failure"
		case kramden_err.CategoryValidation:
			return "validation"
		case kramden_err.CategoryPermission:
			return "permission"
		}
	}
	return "system"
}
