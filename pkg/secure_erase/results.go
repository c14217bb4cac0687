// pkg/secure_erase/results.go

package secure_erase

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kramden/provision/pkg/disk_management"
)

// Result is the immutable record of a completed job. Outcomes are in
// completion order.
type Result struct {
	JobID      string         `json:"job_id" yaml:"job_id"`
	Mode       Mode           `json:"mode" yaml:"mode"`
	Outcomes   []EraseOutcome `json:"outcomes" yaml:"outcomes"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
}

func (r Result) Summary() Summary { return Summarize(r.Outcomes) }

func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome looks up the outcome for a device path.
func (r Result) Outcome(path string) (EraseOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Drive.Path == path {
			return o, true
		}
	}
	return EraseOutcome{}, false
}

// Failed returns the failed outcomes in completion order.
func (r Result) Failed() []EraseOutcome {
	var out []EraseOutcome
	for _, o := range r.Outcomes {
		if !o.Success {
			out = append(out, o)
		}
	}
	return out
}

// Summary counts outcomes for a job.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
}

func Summarize(outcomes []EraseOutcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// FullyPassed reports whether every drive succeeded.
func (s Summary) FullyPassed() bool { return s.Failed == 0 }

func (s Summary) Message() string {
	if s.FullyPassed() {
		noun := "drives"
		if s.Total == 1 {
			noun = "drive"
		}
		return fmt.Sprintf("All %d %s erased successfully.", s.Total, noun)
	}
	return fmt.Sprintf("%d of %d drives erased. %d failed.", s.Succeeded, s.Total, s.Failed)
}

var (
	ErrUnknownDrive  = errors.New("drive is not in the selection")
	ErrNotSelectable = errors.New("drive was already erased and cannot be selected again")
)

// SelectableDrive is one row of the selection.
type SelectableDrive struct {
	Drive      disk_management.DriveDescriptor `json:"drive" yaml:"drive"`
	Selected   bool                            `json:"selected" yaml:"selected"`
	Selectable bool                            `json:"selectable" yaml:"selectable"`
	Erased     bool                            `json:"erased" yaml:"erased"`
}

// Selection tracks which drives the operator has chosen across erase passes.
// Drives that were erased successfully are locked out of later passes;
// failed drives stay selected so a retry covers exactly them.
type Selection struct {
	mu      sync.RWMutex
	entries []SelectableDrive
	index   map[string]int
}

// NewSelection selects every drive, in inventory order.
func NewSelection(drives []disk_management.DriveDescriptor) *Selection {
	s := &Selection{
		entries: make([]SelectableDrive, 0, len(drives)),
		index:   make(map[string]int, len(drives)),
	}
	for _, d := range drives {
		if _, dup := s.index[d.Path]; dup {
			continue
		}
		s.index[d.Path] = len(s.entries)
		s.entries = append(s.entries, SelectableDrive{Drive: d, Selected: true, Selectable: true})
	}
	return s
}

// Apply folds a job result into the selection. Drives that were not part of
// the job keep their current state.
func (s *Selection) Apply(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range result.Outcomes {
		i, ok := s.index[o.Drive.Path]
		if !ok {
			continue
		}
		e := &s.entries[i]
		if o.Success {
			e.Erased = true
			e.Selectable = false
			e.Selected = false
			continue
		}
		e.Selectable = true
		e.Selected = true
	}
}

// Select toggles one drive.
func (s *Selection) Select(path string, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrUnknownDrive)
	}
	if selected && !s.entries[i].Selectable {
		return fmt.Errorf("%s: %w", path, ErrNotSelectable)
	}
	s.entries[i].Selected = selected
	return nil
}

// SelectOnly selects exactly paths and clears everything else. Nothing
// changes if any path is rejected.
func (s *Selection) SelectOnly(paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		i, ok := s.index[p]
		if !ok {
			return fmt.Errorf("%s: %w", p, ErrUnknownDrive)
		}
		if !s.entries[i].Selectable {
			return fmt.Errorf("%s: %w", p, ErrNotSelectable)
		}
		want[p] = struct{}{}
	}
	for i := range s.entries {
		_, on := want[s.entries[i].Drive.Path]
		s.entries[i].Selected = on
	}
	return nil
}

// Selected returns the chosen drives in inventory order.
func (s *Selection) Selected() []disk_management.DriveDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []disk_management.DriveDescriptor
	for _, e := range s.entries {
		if e.Selected && e.Selectable {
			out = append(out, e.Drive)
		}
	}
	return out
}

// Drives returns a snapshot of every row.
func (s *Selection) Drives() []SelectableDrive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SelectableDrive(nil), s.entries...)
}

// Job builds the next erase job from the current selection.
func (s *Selection) Job(mode Mode) (EraseJob, error) {
	return NewEraseJob(s.Selected(), mode)
}
