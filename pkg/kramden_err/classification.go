// pkg/kramden_err/classification.go
//
// Error classification with exit codes for the CLI.

package kramden_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS or external tool issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - bad flags or selection (exit 2)
	CategoryValidation
	// CategoryInternal - bugs (exit 3)
	CategoryInternal
	// CategoryPartialFailure - at least one drive failed to erase (exit 4)
	CategoryPartialFailure
	// CategoryUser - operator cancelled (exit 130)
	CategoryUser
	// CategoryDependency - missing lsblk, hdparm or nvme (exit 1)
	CategoryDependency
	// CategoryPermission - not root, device node not writable (exit 1)
	CategoryPermission
)

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

func (e *ClassifiedError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf("\n\nCause: %v", e.Cause))
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	return sb.String()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryUser:
		return 130
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	case CategoryPartialFailure:
		return 4
	default:
		return 1
	}
}

// GetExitCode extracts exit code from any error.
// Returns 0 for nil and for expected user errors.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}

	return 1
}

func NewValidationError(message string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Remediation: remediation,
	}
}

func NewDependencyError(dependency, operation string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryDependency,
		Message:     fmt.Sprintf("%s is required for %s but not found", dependency, operation),
		Remediation: remediation,
	}
}

func NewPermissionError(resource, operation string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryPermission,
		Message:     fmt.Sprintf("Permission denied: cannot %s %s", operation, resource),
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewInternalError creates an error for bugs in kramden itself.
func NewInternalError(message string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
		Remediation: []string{
			"This is likely a bug in kramden",
			"Re-run with LOG_LEVEL=DEBUG and keep the log for the report",
		},
	}
}

func NewUserCancelledError(operation string) error {
	return &ClassifiedError{
		Category:    CategoryUser,
		Message:     fmt.Sprintf("Operation cancelled by user: %s", operation),
		Remediation: []string{"Run the command again to retry"},
	}
}

// NewPartialFailureError reports an erase job in which some drives failed.
func NewPartialFailureError(summary string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryPartialFailure,
		Message:     summary,
		Remediation: remediation,
	}
}

// IsCategory reports whether err carries the given classification.
func IsCategory(err error, category ErrorCategory) bool {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category == category
	}
	return false
}
