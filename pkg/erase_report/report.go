// pkg/erase_report/report.go

package erase_report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/secure_erase"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the machine-readable record of one erase job.
type Report struct {
	JobID    string                      `json:"job_id" yaml:"job_id"`
	Mode     secure_erase.Mode           `json:"mode" yaml:"mode"`
	Message  string                      `json:"message" yaml:"message"`
	Summary  secure_erase.Summary        `json:"summary" yaml:"summary"`
	Outcomes []secure_erase.EraseOutcome `json:"outcomes" yaml:"outcomes"`
}

// NewReport builds a report from result. Tool output is dropped unless
// details is set.
func NewReport(result secure_erase.Result, details bool) Report {
	summary := result.Summary()
	outcomes := append([]secure_erase.EraseOutcome(nil), result.Outcomes...)
	if !details {
		for i := range outcomes {
			outcomes[i].Detail = ""
		}
	}
	return Report{
		JobID:    result.JobID,
		Mode:     result.Mode,
		Message:  summary.Message(),
		Summary:  summary,
		Outcomes: outcomes,
	}
}

// WriteReport renders result in format. The text format assumes progress was
// already streamed and prints only the summary.
func WriteReport(out io.Writer, format string, result secure_erase.Result, details bool) error {
	switch format {
	case FormatText, "":
		NewPrinter(out, details).Summary(result)
		return nil
	default:
		return encode(out, format, NewReport(result, details))
	}
}

// WriteDrives renders an inventory listing in format.
func WriteDrives(out io.Writer, format string, drives []disk_management.DriveDescriptor) error {
	switch format {
	case FormatText, "":
		NewPrinter(out, false).Drives(drives)
		return nil
	default:
		if drives == nil {
			drives = []disk_management.DriveDescriptor{}
		}
		return encode(out, format, struct {
			Drives []disk_management.DriveDescriptor `json:"drives" yaml:"drives"`
		}{drives})
	}
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return kramden_err.NewValidationError(fmt.Sprintf("unknown output format %q", format),
			"Use one of: text, json, yaml")
	}
}
