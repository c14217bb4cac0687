package kramden_err

import (
	"errors"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestExtractSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		output        string
		maxCandidates int
		want          string
	}{
		{
			name:          "empty output",
			output:        "",
			maxCandidates: 2,
			want:          "No output provided.",
		},
		{
			name:          "whitespace only",
			output:        "  \n\t\n ",
			maxCandidates: 2,
			want:          "No output provided.",
		},
		{
			name:          "hdparm not ready",
			output:        "security_password: \"p\"\n\n/dev/sda:\n Issuing SECURITY_ERASE command, password=\"p\", user=user\nSG_IO: bad/missing sense data\nDEVICE NOT READY",
			maxCandidates: 2,
			want:          "DEVICE NOT READY",
		},
		{
			name:          "candidates capped",
			output:        "error one\nfailed two\ncannot three",
			maxCandidates: 2,
			want:          "error one - failed two",
		},
		{
			name:          "falls back to first line",
			output:        "\n/dev/nvme0n1:\nsomething odd",
			maxCandidates: 2,
			want:          "/dev/nvme0n1:",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractSummary(tt.output, tt.maxCandidates))
		})
	}
}

func TestExpectedError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewExpectedError(nil))

	base := errors.New("no drives selected")
	wrapped := cerr.Wrap(NewExpectedError(base), "erase")
	assert.True(t, IsExpectedUserError(wrapped))
	assert.True(t, errors.Is(wrapped, base))
	assert.False(t, IsExpectedUserError(base))
}

func TestGetExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"expected", NewExpectedError(errors.New("nothing to do")), 0},
		{"validation", NewValidationError("bad drive"), 2},
		{"internal", NewInternalError("bug", nil), 3},
		{"partial", NewPartialFailureError("1 of 2 drives erased. 1 failed."), 4},
		{"cancelled", NewUserCancelledError("erase"), 130},
		{"permission", NewPermissionError("/dev/sda", "open", nil), 1},
		{"wrapped classified", cerr.Wrap(NewValidationError("dup"), "job"), 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestClassifiedErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewPermissionError("/dev/sda", "open", errors.New("EACCES"), "Run as root")
	msg := err.Error()
	assert.Contains(t, msg, "Permission denied: cannot open /dev/sda")
	assert.Contains(t, msg, "Cause: EACCES")
	assert.Contains(t, msg, "1. Run as root")
	assert.True(t, IsCategory(err, CategoryPermission))
	assert.False(t, IsCategory(err, CategoryValidation))
}
