// pkg/secure_erase/coordinator.go

package secure_erase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// DefaultSimulatedDelay is how long a dry-run "erase" takes per drive.
const DefaultSimulatedDelay = 2 * time.Second

var ErrJobInProgress = errors.New("an erase job is already in progress")

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	// SimulatedDelay is slept by each dry-run worker. Negative means none.
	SimulatedDelay time.Duration

	Metrics *Metrics

	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// Coordinator runs erase jobs, one worker per drive, and owns the session
// record that workers report into.
type Coordinator struct {
	erasers Erasers
	opts    CoordinatorOptions

	mu      sync.Mutex
	session *Session
}

func NewCoordinator(erasers Erasers, opts CoordinatorOptions) *Coordinator {
	if opts.SimulatedDelay == 0 {
		opts.SimulatedDelay = DefaultSimulatedDelay
	}
	if opts.SimulatedDelay < 0 {
		opts.SimulatedDelay = 0
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Coordinator{erasers: erasers, opts: opts}
}

// Session returns the most recent session, or nil before the first Start.
func (c *Coordinator) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Start launches one worker per drive in job and returns immediately. Once
// started, a job runs to completion: cancelling ctx afterwards does not stop
// any worker, because an erase cannot be safely interrupted part way.
func (c *Coordinator) Start(ctx context.Context, job EraseJob) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if job.Len() == 0 {
		return nil, &kramden_err.ClassifiedError{
			Category: kramden_err.CategoryValidation,
			Message:  "cannot start an erase job without drives",
			Cause:    ErrNoDrives,
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, kramden_err.NewUserCancelledError("erase job start")
	}

	c.mu.Lock()
	if c.session != nil && c.session.State() == SessionInProgress {
		c.mu.Unlock()
		return nil, &kramden_err.ClassifiedError{
			Category:    kramden_err.CategoryValidation,
			Message:     "another erase job is still running",
			Cause:       ErrJobInProgress,
			Remediation: []string{"Wait for the running job to finish before starting another"},
		}
	}
	session := newSession(job)
	session.begin(c.opts.Clock())
	c.session = session
	c.mu.Unlock()

	workCtx, span := telemetry.Start(context.WithoutCancel(ctx), "secure_erase.job",
		attribute.String("job_id", job.id),
		attribute.String("mode", job.mode.String()),
		attribute.Int("drives", job.Len()),
	)
	logger := otelzap.Ctx(workCtx)
	logger.Info("Erase job started",
		zap.String("job_id", job.id),
		zap.Stringer("mode", job.mode),
		zap.Int("drives", job.Len()))

	var wg sync.WaitGroup
	for _, drive := range job.drives {
		wg.Add(1)
		go func(drive disk_management.DriveDescriptor) {
			defer wg.Done()
			c.work(workCtx, session, drive)
		}(drive)
	}

	go func() {
		wg.Wait()
		result := session.complete(c.opts.Clock())
		summary := result.Summary()
		span.SetAttributes(
			attribute.Int("succeeded", summary.Succeeded),
			attribute.Int("failed", summary.Failed),
		)
		if !summary.FullyPassed() {
			span.SetStatus(codes.Error, summary.Message())
		}
		span.End()
		logger.Info("Erase job finished",
			zap.String("job_id", job.id),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Duration("duration", result.Duration()))
	}()

	return session, nil
}

// Run starts job and hands every event to handle on the calling goroutine,
// in delivery order, until the session completes.
func (c *Coordinator) Run(ctx context.Context, job EraseJob, handle func(StatusEvent)) (Result, error) {
	session, err := c.Start(ctx, job)
	if err != nil {
		return Result{}, err
	}
	for ev := range session.Events() {
		if handle != nil {
			handle(ev)
		}
	}
	return session.Wait(), nil
}

func (c *Coordinator) work(ctx context.Context, session *Session, drive disk_management.DriveDescriptor) {
	ctx, span := telemetry.Start(ctx, "secure_erase.drive",
		attribute.String("device", drive.Path),
		attribute.String("interface", string(drive.Interface)),
	)
	defer span.End()

	started := c.opts.Clock()
	session.commit(drive, DriveInProgress, "Erasing "+drive.Path, started)
	c.opts.Metrics.workerStarted(ctx)

	outcome := c.eraseDrive(ctx, session.job.mode, drive)
	outcome.Drive = drive
	outcome.StartedAt = started
	outcome.FinishedAt = c.opts.Clock()

	span.SetAttributes(
		attribute.Bool("success", outcome.Success),
		attribute.String("strategy", string(outcome.Strategy)),
	)
	if !outcome.Success {
		span.SetStatus(codes.Error, outcome.Message)
	}

	c.opts.Metrics.workerFinished(ctx, session.job.mode, outcome)
	if !session.commitOutcome(outcome) {
		otelzap.Ctx(ctx).Error("Dropped duplicate outcome", zap.String("device", drive.Path))
	}
}

// eraseDrive is the single entry point to any erase protocol. The mode check
// happens here, before an eraser is even resolved, so no dry-run job can
// reach a destructive command. A panicking eraser fails only its own drive.
func (c *Coordinator) eraseDrive(ctx context.Context, mode Mode, drive disk_management.DriveDescriptor) (outcome EraseOutcome) {
	logger := otelzap.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Eraser panicked",
				zap.String("device", drive.Path),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			outcome = failed(drive, ReasonInternal, fmt.Sprintf("internal error: %v", r))
		}
	}()

	strategy, _ := SelectStrategy(drive.Interface)

	if mode != ModeDestructive {
		if c.opts.SimulatedDelay > 0 {
			time.Sleep(c.opts.SimulatedDelay)
		}
		logger.Info("Dry run: drive left untouched",
			zap.String("device", drive.Path),
			zap.String("strategy", string(strategy)))
		return EraseOutcome{
			Drive:    drive,
			Success:  true,
			Message:  fmt.Sprintf("[TEST] Would erase %s drive %s", drive.Interface, drive.Path),
			Strategy: strategy,
		}
	}

	eraser, strategy, err := c.erasers.For(drive)
	if err != nil {
		logger.Error("No eraser for drive", zap.String("device", drive.Path), zap.Error(err))
		return failed(drive, ReasonUnsupported, err.Error())
	}

	outcome = eraser.Erase(ctx, drive)
	outcome.Strategy = strategy
	return outcome
}
