// pkg/secure_erase/nvme.go

package secure_erase

import (
	"context"

	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/execute"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const DefaultNvmePath = "nvme"

type NvmeOptions struct {
	NvmePath string
}

// NvmeEraser issues a forced format against the namespace.
type NvmeEraser struct {
	runner execute.Runner
	opts   NvmeOptions
}

func NewNvmeEraser(runner execute.Runner, opts NvmeOptions) *NvmeEraser {
	if opts.NvmePath == "" {
		opts.NvmePath = DefaultNvmePath
	}
	return &NvmeEraser{runner: runner, opts: opts}
}

func (e *NvmeEraser) Erase(ctx context.Context, drive disk_management.DriveDescriptor) EraseOutcome {
	logger := otelzap.Ctx(ctx)

	res := e.runner.Run(ctx, execute.Command{
		Name:        e.opts.NvmePath,
		Args:        []string{"format", drive.Path, "--force"},
		Destructive: true,
	})
	if res.Success() {
		logger.Info("NVMe format completed", zap.String("device", drive.Path))
		return succeeded(drive)
	}

	logger.Warn("NVMe format failed", zap.String("device", drive.Path), zap.Int("exit_code", res.ExitCode))
	return failed(drive, ReasonFormat, res.Detail())
}
