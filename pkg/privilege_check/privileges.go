// pkg/privilege_check/privileges.go
package privilege_check

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

type PrivilegeLevel string

const (
	PrivilegeLevelRoot    PrivilegeLevel = "root"
	PrivilegeLevelSudo    PrivilegeLevel = "sudo"
	PrivilegeLevelRegular PrivilegeLevel = "regular"
)

// PrivilegeCheck describes the identity the process runs under.
type PrivilegeCheck struct {
	UserID    int
	Username  string
	IsRoot    bool
	Level     PrivilegeLevel
	Timestamp time.Time
}

// PreflightOptions lists what an erase run is about to touch.
type PreflightOptions struct {
	// UseSudo means every external command is prefixed with SudoPath, so the
	// process itself may run unprivileged.
	UseSudo  bool
	SudoPath string

	// Tools must resolve on PATH.
	Tools []string

	// Devices must be writable by the current process. Skipped under sudo.
	Devices []string
}

// Seams for tests.
var (
	geteuid  = os.Geteuid
	lookPath = exec.LookPath
	access   = unix.Access
)

// CheckPrivileges reports the effective user.
func CheckPrivileges(rc *kramden_io.RuntimeContext) *PrivilegeCheck {
	check := &PrivilegeCheck{
		UserID:    geteuid(),
		Timestamp: time.Now(),
	}
	check.IsRoot = check.UserID == 0

	if u, err := user.LookupId(fmt.Sprint(check.UserID)); err == nil {
		check.Username = u.Username
	} else {
		otelzap.Ctx(rc.Ctx).Debug("Failed to resolve username", zap.Error(err))
		check.Username = fmt.Sprintf("uid-%d", check.UserID)
	}

	check.Level = PrivilegeLevelRegular
	if check.IsRoot {
		check.Level = PrivilegeLevelRoot
	}
	return check
}

// Preflight verifies an erase run can reach the hardware before any drive is
// touched. All problems are reported together.
func Preflight(rc *kramden_io.RuntimeContext, opts PreflightOptions) error {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS
	check := CheckPrivileges(rc)
	if opts.SudoPath == "" {
		opts.SudoPath = "sudo"
	}
	if opts.UseSudo && !check.IsRoot {
		check.Level = PrivilegeLevelSudo
	}
	logger.Info("Assessing erase preflight",
		zap.String("user", check.Username),
		zap.Int("uid", check.UserID),
		zap.String("level", string(check.Level)),
		zap.Strings("tools", opts.Tools),
		zap.Strings("devices", opts.Devices))

	if check.Level == PrivilegeLevelRegular {
		return kramden_err.NewPermissionError("block devices", "erase", nil,
			"Run the command with sudo",
			"Or set use_sudo: true so each tool is invoked through sudo",
		)
	}

	// INTERVENE
	var result *multierror.Error

	if check.Level == PrivilegeLevelSudo {
		if _, err := lookPath(opts.SudoPath); err != nil {
			result = multierror.Append(result, kramden_err.NewDependencyError(opts.SudoPath, "privileged erase", "Install sudo or run as root"))
		}
	}

	for _, tool := range opts.Tools {
		if _, err := lookPath(tool); err != nil {
			logger.Warn("Required tool not found", zap.String("tool", tool), zap.Error(err))
			result = multierror.Append(result, kramden_err.NewDependencyError(tool, "drive erase",
				fmt.Sprintf("Install the package providing %s", tool)))
		}
	}

	if check.Level == PrivilegeLevelRoot {
		for _, dev := range opts.Devices {
			if err := access(dev, unix.W_OK); err != nil {
				logger.Warn("Device not writable", zap.String("device", dev), zap.Error(err))
				result = multierror.Append(result, kramden_err.NewPermissionError(dev, "open for writing", err,
					"Check that the device still exists and is not held by another process"))
			}
		}
	}

	// EVALUATE
	if err := result.ErrorOrNil(); err != nil {
		logger.Error("Erase preflight failed", zap.Error(err))
		return err
	}
	logger.Info("Erase preflight passed")
	return nil
}
