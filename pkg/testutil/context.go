// pkg/testutil/context.go

package testutil

import (
	"context"
	"testing"

	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestContext returns a RuntimeContext whose loggers write to t.
func TestContext(t *testing.T) *kramden_io.RuntimeContext {
	t.Helper()
	logger := zaptest.NewLogger(t)
	restoreZap := zap.ReplaceGlobals(logger)
	restoreOtel := otelzap.ReplaceGlobals(otelzap.New(logger))
	t.Cleanup(func() {
		restoreOtel()
		restoreZap()
	})
	return kramden_io.NewContext(context.Background(), t.Name())
}
