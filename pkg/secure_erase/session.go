// pkg/secure_erase/session.go

package secure_erase

import (
	"sync"
	"time"

	"github.com/kramden/provision/pkg/disk_management"
)

// SessionState is the lifecycle of one erase session.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionInProgress
	SessionCompleted
)

func (s SessionState) String() string {
	switch s {
	case SessionInProgress:
		return "in_progress"
	case SessionCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// DriveState is the per-drive progress within a session.
type DriveState string

const (
	DriveDetected   DriveState = "detected"
	DriveInProgress DriveState = "in_progress"
	DriveSucceeded  DriveState = "succeeded"
	DriveFailed     DriveState = "failed"
)

// Terminal reports whether no further transition may follow.
func (s DriveState) Terminal() bool {
	return s == DriveSucceeded || s == DriveFailed
}

// StatusEvent is one drive state transition as seen by the presentation
// side. Outcome is set on terminal events only.
type StatusEvent struct {
	JobID   string
	Drive   disk_management.DriveDescriptor
	State   DriveState
	Message string
	Time    time.Time
	Outcome *EraseOutcome
}

// Session is the shared record of a running or finished job. Every state
// change goes through commit, which updates the record and publishes the
// matching event under one lock, so the record and the event stream never
// disagree.
type Session struct {
	mu       sync.Mutex
	job      EraseJob
	state    SessionState
	drives   map[string]DriveState
	outcomes []EraseOutcome

	startedAt  time.Time
	finishedAt time.Time

	events chan StatusEvent
	done   chan struct{}
	result Result
}

func newSession(job EraseJob) *Session {
	drives := make(map[string]DriveState, job.Len())
	for _, d := range job.drives {
		drives[d.Path] = DriveDetected
	}
	return &Session{
		job:    job,
		state:  SessionIdle,
		drives: drives,
		// Each drive emits exactly two events, so producers never block even
		// when nobody drains the channel.
		events: make(chan StatusEvent, 2*job.Len()),
		done:   make(chan struct{}),
	}
}

// Events delivers transitions in commit order. The channel is closed after
// the last terminal event.
func (s *Session) Events() <-chan StatusEvent { return s.events }

// Done is closed when the session reaches SessionCompleted.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until every worker has finished and returns the result.
func (s *Session) Wait() Result {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Job() EraseJob { return s.job }

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DriveStates returns a snapshot of per-drive progress.
func (s *Session) DriveStates() map[string]DriveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]DriveState, len(s.drives))
	for k, v := range s.drives {
		out[k] = v
	}
	return out
}

func (s *Session) begin(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionInProgress
	s.startedAt = now
}

// commit applies a non-terminal transition. It reports false when the drive
// is unknown or already terminal.
func (s *Session) commit(drive disk_management.DriveDescriptor, state DriveState, message string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.drives[drive.Path]
	if !ok || current.Terminal() || state.Terminal() {
		return false
	}
	s.drives[drive.Path] = state
	s.events <- StatusEvent{
		JobID:   s.job.id,
		Drive:   drive,
		State:   state,
		Message: message,
		Time:    now,
	}
	return true
}

// commitOutcome records the terminal result for a drive. A second outcome
// for the same drive is dropped.
func (s *Session) commitOutcome(outcome EraseOutcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.drives[outcome.Drive.Path]
	if !ok || current.Terminal() {
		return false
	}
	state := DriveFailed
	if outcome.Success {
		state = DriveSucceeded
	}
	s.drives[outcome.Drive.Path] = state
	s.outcomes = append(s.outcomes, outcome)

	recorded := outcome
	s.events <- StatusEvent{
		JobID:   s.job.id,
		Drive:   outcome.Drive,
		State:   state,
		Message: outcome.Message,
		Time:    outcome.FinishedAt,
		Outcome: &recorded,
	}
	return true
}

func (s *Session) complete(now time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionCompleted
	s.finishedAt = now
	s.result = Result{
		JobID:      s.job.id,
		Mode:       s.job.mode,
		Outcomes:   append([]EraseOutcome(nil), s.outcomes...),
		StartedAt:  s.startedAt,
		FinishedAt: now,
	}
	close(s.events)
	close(s.done)
	return s.result
}
