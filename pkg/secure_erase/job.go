// pkg/secure_erase/job.go

package secure_erase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/kramden_err"
)

// Mode selects whether a job touches media. The zero value is DryRun so an
// uninitialised Mode can never erase anything.
type Mode int

const (
	ModeDryRun Mode = iota
	ModeDestructive
)

func (m Mode) String() string {
	if m == ModeDestructive {
		return "destructive"
	}
	return "dry-run"
}

// MarshalText lets reports render the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

var (
	ErrNoDrives       = errors.New("no drives selected")
	ErrDuplicateDrive = errors.New("drive selected more than once")
)

// EraseJob is an ordered set of unique drives plus a mode. The drive slice is
// copied on construction and never handed out, so it stays read-only for the
// lifetime of a running job.
type EraseJob struct {
	id     string
	mode   Mode
	drives []disk_management.DriveDescriptor
}

// NewEraseJob validates the selection and assigns the job an ID.
func NewEraseJob(drives []disk_management.DriveDescriptor, mode Mode) (EraseJob, error) {
	if len(drives) == 0 {
		return EraseJob{}, &kramden_err.ClassifiedError{
			Category:    kramden_err.CategoryValidation,
			Message:     "cannot start an erase job without drives",
			Cause:       ErrNoDrives,
			Remediation: []string{"Select at least one detected drive"},
		}
	}

	seen := make(map[string]struct{}, len(drives))
	for _, d := range drives {
		if d.Path == "" {
			return EraseJob{}, kramden_err.NewValidationError("drive with empty device path in selection")
		}
		if _, dup := seen[d.Path]; dup {
			return EraseJob{}, &kramden_err.ClassifiedError{
				Category: kramden_err.CategoryValidation,
				Message:  fmt.Sprintf("%s appears more than once in the selection", d.Path),
				Cause:    ErrDuplicateDrive,
			}
		}
		seen[d.Path] = struct{}{}
	}

	return EraseJob{
		id:     uuid.New().String(),
		mode:   mode,
		drives: append([]disk_management.DriveDescriptor(nil), drives...),
	}, nil
}

func (j EraseJob) ID() string { return j.id }

func (j EraseJob) Mode() Mode { return j.mode }

func (j EraseJob) Len() int { return len(j.drives) }

// Drives returns a copy of the selection in job order.
func (j EraseJob) Drives() []disk_management.DriveDescriptor {
	return append([]disk_management.DriveDescriptor(nil), j.drives...)
}
