// pkg/erase_report/printer.go

package erase_report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/secure_erase"
)

const (
	TestModeBanner    = "[TEST MODE] No data will actually be erased"
	DestructiveBanner = "WARNING: ALL DATA WILL BE PERMANENTLY DESTROYED"
	NoDrivesMessage   = "No drives detected"
)

// Printer renders live progress for an operator watching the terminal.
// It is driven from a single goroutine and holds no locks.
type Printer struct {
	out     io.Writer
	styles  Styles
	details bool
}

// NewPrinter writes to out. With details set, failed drives also print their
// raw diagnostic output.
func NewPrinter(out io.Writer, details bool) *Printer {
	return &Printer{out: out, styles: DefaultStyles(), details: details}
}

// Banner announces what the next job is going to do.
func (p *Printer) Banner(mode secure_erase.Mode) {
	if mode == secure_erase.ModeDestructive {
		fmt.Fprintln(p.out, p.styles.Banner.BorderForeground(ColorError).Render(p.styles.Error.Render(DestructiveBanner)))
		return
	}
	fmt.Fprintln(p.out, p.styles.Banner.BorderForeground(ColorWarning).Render(p.styles.Warning.Render(TestModeBanner)))
}

// Drives lists the inventory, one row per drive.
func (p *Printer) Drives(drives []disk_management.DriveDescriptor) {
	if len(drives) == 0 {
		fmt.Fprintln(p.out, p.styles.Muted.Render(NoDrivesMessage))
		return
	}
	fmt.Fprintln(p.out, p.styles.Title.Render(fmt.Sprintf("Detected %d drive(s)", len(drives))))
	for _, d := range drives {
		fmt.Fprintf(p.out, "  %-16s %-5s %10s  %s\n",
			p.styles.Path.Render(d.Path), d.Interface, d.Size, p.styles.Muted.Render(d.Model))
	}
}

// Event renders one status transition.
func (p *Printer) Event(ev secure_erase.StatusEvent) {
	switch ev.State {
	case secure_erase.DriveInProgress:
		fmt.Fprintf(p.out, "  %s %s\n", p.styles.Muted.Render("..."), ev.Message)
	case secure_erase.DriveSucceeded:
		fmt.Fprintf(p.out, "  %s %s\n", p.styles.Success.Render("OK "), ev.Message)
	case secure_erase.DriveFailed:
		fmt.Fprintf(p.out, "  %s %s\n", p.styles.Error.Render("ERR"), ev.Message)
		if p.details && ev.Outcome != nil && ev.Outcome.HasDetail() {
			fmt.Fprintln(p.out, indent(ev.Outcome.Detail, "      "))
		}
	}
}

// Summary prints the aggregate line and, for partial failures, which drives
// need attention.
func (p *Printer) Summary(result secure_erase.Result) {
	summary := result.Summary()
	fmt.Fprintln(p.out)
	if summary.FullyPassed() {
		fmt.Fprintln(p.out, p.styles.Success.Bold(true).Render(summary.Message()))
		return
	}
	fmt.Fprintln(p.out, p.styles.Error.Render(summary.Message()))
	for _, o := range result.Failed() {
		fmt.Fprintf(p.out, "  - %s\n", o.Message)
	}
	if !p.details {
		fmt.Fprintln(p.out, p.styles.Muted.Render("Re-run with --details to see tool output for failed drives."))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
