// pkg/secure_erase/sata.go

package secure_erase

import (
	"context"
	"regexp"

	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/execute"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	DefaultHdparmPath       = "hdparm"
	DefaultSecurityPassword = "p"
	DefaultNotFrozenMarker  = `not\s+frozen`

	frozenAdvice = "Drive is frozen. Try suspending and resuming the system first."
)

// SataOptions configures a SataEraser. Zero values fall back to defaults.
type SataOptions struct {
	HdparmPath string

	// Password is the temporary user password set before a security erase
	// and cleared again if the erase fails.
	Password string

	// NotFrozen matches the security status of an unfrozen drive in
	// `hdparm -I` output.
	NotFrozen *regexp.Regexp
}

type sataStep int

const (
	stepSanitize sataStep = iota
	stepCheckFrozen
	stepSetPassword
	stepSecurityErase
)

func (s sataStep) String() string {
	switch s {
	case stepSanitize:
		return "sanitize"
	case stepCheckFrozen:
		return "check_frozen"
	case stepSetPassword:
		return "set_password"
	case stepSecurityErase:
		return "security_erase"
	default:
		return "unknown"
	}
}

// SataEraser erases SATA drives: sanitize block erase first, ATA Security
// Erase when sanitize is refused.
type SataEraser struct {
	runner execute.Runner
	opts   SataOptions
}

func NewSataEraser(runner execute.Runner, opts SataOptions) *SataEraser {
	if opts.HdparmPath == "" {
		opts.HdparmPath = DefaultHdparmPath
	}
	if opts.Password == "" {
		opts.Password = DefaultSecurityPassword
	}
	if opts.NotFrozen == nil {
		opts.NotFrozen = regexp.MustCompile(DefaultNotFrozenMarker)
	}
	return &SataEraser{runner: runner, opts: opts}
}

// Erase walks the SATA state machine for one drive. Every path ends in
// exactly one outcome.
func (e *SataEraser) Erase(ctx context.Context, drive disk_management.DriveDescriptor) EraseOutcome {
	logger := otelzap.Ctx(ctx)
	path := drive.Path
	device := zap.String("device", path)
	step := stepSanitize

	for {
		logger.Debug("SATA erase step", device, zap.Stringer("step", step))

		switch step {
		case stepSanitize:
			res := e.hdparm(ctx, true, "--yes-i-know-what-i-am-doing", "--sanitize-block-erase", path)
			if res.Success() {
				logger.Info("Sanitize block erase completed", device)
				return succeeded(drive)
			}
			// Any sanitize failure falls through to the ATA path, including
			// drives that simply do not implement sanitize.
			logger.Info("Sanitize unavailable, falling back to ATA Security Erase",
				device,
				zap.Int("exit_code", res.ExitCode))
			step = stepCheckFrozen

		case stepCheckFrozen:
			res := e.hdparm(ctx, false, "-I", path)
			if res.Success() && e.opts.NotFrozen.MatchString(res.Stdout) {
				step = stepSetPassword
				continue
			}
			// A status query that fails is treated like a frozen report: the
			// password step is never attempted without a confirmed unfrozen state.
			logger.Warn("Drive security state is frozen or unknown",
				device,
				zap.Int("exit_code", res.ExitCode),
				zap.Error(res.Err))
			out := failed(drive, ReasonFrozen, frozenDetail(res))
			out.Message = frozenMessage(path)
			return out

		case stepSetPassword:
			res := e.security(ctx, "--security-set-pass", path)
			if !res.Success() {
				logger.Warn("Could not set security password", device, zap.Int("exit_code", res.ExitCode))
				return failed(drive, ReasonSetPassword, labelled("Could not set security password", res.Detail()))
			}
			step = stepSecurityErase

		case stepSecurityErase:
			res := e.security(ctx, "--security-erase", path)
			if res.Success() {
				logger.Info("ATA Security Erase completed", device)
				return succeeded(drive)
			}
			logger.Warn("ATA Security Erase failed", device, zap.Int("exit_code", res.ExitCode))
			e.disablePassword(ctx, path)
			return failed(drive, ReasonSecurityErase, labelled("ATA Security Erase failed", res.Detail()))

		default:
			return failed(drive, ReasonInternal, "unknown SATA erase step "+step.String())
		}
	}
}

// disablePassword clears the temporary password so a failed erase does not
// leave the drive locked. Its own result never changes the outcome.
func (e *SataEraser) disablePassword(ctx context.Context, path string) {
	res := e.security(ctx, "--security-disable", path)
	if !res.Success() {
		otelzap.Ctx(ctx).Warn("Could not clear security password after failed erase",
			zap.String("device", path),
			zap.Int("exit_code", res.ExitCode),
			zap.String("output", res.Detail()))
	}
}

func (e *SataEraser) hdparm(ctx context.Context, destructive bool, args ...string) execute.Result {
	return e.runner.Run(ctx, execute.Command{
		Name:        e.opts.HdparmPath,
		Args:        args,
		Destructive: destructive,
	})
}

// security runs an ATA security command that carries the user password.
func (e *SataEraser) security(ctx context.Context, flag, path string) execute.Result {
	return e.runner.Run(ctx, execute.Command{
		Name:        e.opts.HdparmPath,
		Args:        []string{flag, e.opts.Password, path},
		Destructive: true,
		Secrets:     []string{e.opts.Password},
	})
}

func frozenDetail(res execute.Result) string {
	detail := frozenAdvice
	if !res.Success() {
		if out := res.Detail(); out != "" {
			detail += "\n\nSecurity status query failed:\n" + out
		}
	}
	return detail
}
