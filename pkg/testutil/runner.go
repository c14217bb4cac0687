// pkg/testutil/runner.go

package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kramden/provision/pkg/execute"
	"github.com/stretchr/testify/mock"
)

// ScriptedRunner is an execute.Runner that answers from a script keyed by
// the full command line. Results for one line are consumed in order and the
// last one repeats. Unscripted commands exit 127.
type ScriptedRunner struct {
	mu        sync.Mutex
	responses map[string][]execute.Result
	calls     []execute.Command

	// Delay is slept before answering each call.
	Delay time.Duration
}

func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{responses: make(map[string][]execute.Result)}
}

// On scripts the results for one command line.
func (s *ScriptedRunner) On(cmdline string, results ...execute.Result) *ScriptedRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[cmdline] = append(s.responses[cmdline], results...)
	return s
}

func (s *ScriptedRunner) Run(ctx context.Context, cmd execute.Command) execute.Result {
	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	line := CommandLine(cmd)
	queue := s.responses[line]
	var res execute.Result
	switch len(queue) {
	case 0:
		res = Exit(127, "", "unscripted command: "+line)
	case 1:
		res = queue[0]
	default:
		res = queue[0]
		s.responses[line] = queue[1:]
	}
	delay := s.Delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return res
}

// Calls returns a copy of every command seen so far.
func (s *ScriptedRunner) Calls() []execute.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]execute.Command(nil), s.calls...)
}

// CallLines renders Calls as command lines.
func (s *ScriptedRunner) CallLines() []string {
	calls := s.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, CommandLine(c))
	}
	return lines
}

// CallCount counts calls matching cmdline exactly.
func (s *ScriptedRunner) CallCount(cmdline string) int {
	n := 0
	for _, line := range s.CallLines() {
		if line == cmdline {
			n++
		}
	}
	return n
}

// DestructiveCalls counts calls flagged Destructive.
func (s *ScriptedRunner) DestructiveCalls() int {
	n := 0
	for _, c := range s.Calls() {
		if c.Destructive {
			n++
		}
	}
	return n
}

// CommandLine joins name and args with single spaces.
func CommandLine(cmd execute.Command) string {
	return strings.TrimSpace(cmd.Name + " " + strings.Join(cmd.Args, " "))
}

// Exit builds a Result with the given exit code and output.
func Exit(code int, stdout, stderr string) execute.Result {
	return execute.Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
}

// OK builds a successful Result.
func OK(stdout string) execute.Result {
	return Exit(0, stdout, "")
}

// MockRunner is a testify mock for execute.Runner.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, cmd execute.Command) execute.Result {
	args := m.Called(ctx, cmd)
	return args.Get(0).(execute.Result)
}
