// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrDryRunRefused is returned for destructive commands when the runner was
// built in dry-run mode.
var ErrDryRunRefused = errors.New("destructive command refused in dry-run mode")

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string

	// Destructive commands modify device contents or security state.
	Destructive bool

	// Timeout of zero means the command runs to natural completion.
	Timeout time.Duration

	// Secrets are argument values masked in logs and span attributes.
	Secrets []string
}

// String renders the command for logs with secrets masked.
func (c Command) String() string {
	return buildCommandString(c.Name, redactArgs(c.Args, c.Secrets)...)
}

// Result is the captured outcome of a Command. Err is only set when the
// process could not be run or did not exit normally; a non-zero exit is
// reported through ExitCode alone.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	Duration time.Duration
}

// Success reports exit status 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Combined joins trimmed stdout and stderr, in that order.
func (r Result) Combined() string {
	stdout := strings.TrimSpace(r.Stdout)
	stderr := strings.TrimSpace(r.Stderr)
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	default:
		return stdout + "\n" + stderr
	}
}

// Detail is Combined plus the run error, if any.
func (r Result) Detail() string {
	detail := r.Combined()
	if r.Err == nil {
		return detail
	}
	if detail == "" {
		return r.Err.Error()
	}
	return detail + "\n" + r.Err.Error()
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// Options configures an ExecRunner.
type Options struct {
	// Sudo prefixes every command with SudoPath.
	Sudo     bool
	SudoPath string

	// DryRun refuses every Destructive command.
	DryRun bool

	Logger *zap.Logger
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	opts Options
}

func NewRunner(opts Options) *ExecRunner {
	if opts.SudoPath == "" {
		opts.SudoPath = "sudo"
	}
	return &ExecRunner{opts: opts}
}

// Run executes cmd with structured logging and a telemetry span.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Result {
	logger := r.opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	name, args := cmd.Name, cmd.Args
	if r.opts.Sudo {
		name, args = r.opts.SudoPath, append([]string{cmd.Name}, cmd.Args...)
	}
	cmdStr := buildCommandString(name, redactArgs(args, cmd.Secrets)...)

	ctx, span := telemetry.Start(ctx, "execute.Run",
		attribute.String("command", cmd.Name),
		attribute.String("args", strings.Join(redactArgs(cmd.Args, cmd.Secrets), " ")),
		attribute.Bool("destructive", cmd.Destructive),
	)
	defer span.End()

	if cmd.Destructive && r.opts.DryRun {
		logger.Warn("Dry run mode - destructive command not executed", zap.String("command", cmdStr))
		return Result{ExitCode: -1, Err: ErrDryRunRefused}
	}

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	logger.Debug("Starting execution", zap.String("command", cmdStr))

	c := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = err
	}

	span.SetAttributes(attribute.Int("exit_code", res.ExitCode))
	if res.Success() {
		logger.Debug("Execution succeeded",
			zap.String("command", cmdStr),
			zap.Duration("duration", res.Duration))
		return res
	}

	if res.Err != nil {
		span.RecordError(res.Err)
	}
	logger.Info("Execution failed",
		zap.String("command", cmdStr),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
		zap.String("summary", kramden_err.ExtractSummary(res.Combined(), 2)),
		zap.Error(res.Err))
	return res
}
