// pkg/interaction/reader.go

package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Prompter reads operator answers from in and writes prompts to out.
// Prompts go to stderr by default so stdout stays clean for reports.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter wraps in and out. The prompter is interactive only when in is
// a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// NewStdPrompter reads stdin and prompts on stderr.
func NewStdPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stderr)
}

// WithInteractive overrides terminal detection.
func (p *Prompter) WithInteractive(interactive bool) *Prompter {
	p.interactive = interactive
	return p
}

func (p *Prompter) Interactive() bool { return p.interactive }

// Println writes a line to the prompt stream.
func (p *Prompter) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

// ReadLine prompts with label and returns a trimmed line of input.
func (p *Prompter) ReadLine(ctx context.Context, label string) (string, error) {
	logger := otelzap.Ctx(ctx)
	logger.Debug("Prompting user for input", zap.String("label", label))

	_, _ = fmt.Fprint(p.out, label+": ")

	text, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && text != "") {
		logger.Debug("Failed to read user input", zap.Error(err))
		return "", err
	}

	value := strings.TrimSpace(text)
	logger.Debug("User input received", zap.Int("length", len(value)))
	return value, nil
}
