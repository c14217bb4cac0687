// pkg/secure_erase/outcome.go

package secure_erase

import (
	"time"

	"github.com/kramden/provision/pkg/disk_management"
)

// FailureReason says which step ended a failed erase.
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonFrozen        FailureReason = "frozen"
	ReasonSetPassword   FailureReason = "set_password"
	ReasonSecurityErase FailureReason = "security_erase"
	ReasonFormat        FailureReason = "format"
	ReasonUnsupported   FailureReason = "unsupported_interface"
	ReasonInternal      FailureReason = "internal"
)

// EraseOutcome is the terminal record for one drive in one job.
type EraseOutcome struct {
	Drive   disk_management.DriveDescriptor `json:"drive" yaml:"drive"`
	Success bool                            `json:"success" yaml:"success"`
	// Message is short and display-safe.
	Message string `json:"message" yaml:"message"`
	// Detail holds raw command output for operators; empty when there is none.
	Detail     string        `json:"detail,omitempty" yaml:"detail,omitempty"`
	Reason     FailureReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Strategy   Strategy      `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
}

func (o EraseOutcome) Path() string { return o.Drive.Path }

func (o EraseOutcome) HasDetail() bool { return o.Detail != "" }

func (o EraseOutcome) Duration() time.Duration {
	if o.StartedAt.IsZero() || o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}

func successMessage(path string) string { return "Successfully erased " + path }

func failureMessage(path string) string { return "Failed to erase " + path }

func frozenMessage(path string) string {
	return failureMessage(path) + ": drive is frozen (suspend/resume or power-cycle required)"
}

func succeeded(drive disk_management.DriveDescriptor) EraseOutcome {
	return EraseOutcome{
		Drive:   drive,
		Success: true,
		Message: successMessage(drive.Path),
	}
}

func failed(drive disk_management.DriveDescriptor, reason FailureReason, detail string) EraseOutcome {
	return EraseOutcome{
		Drive:   drive,
		Message: failureMessage(drive.Path),
		Detail:  detail,
		Reason:  reason,
	}
}

// labelled prefixes command output with the step that produced it. Empty
// output yields an empty detail.
func labelled(label, output string) string {
	if output == "" {
		return ""
	}
	return label + ":\n" + output
}
