// cmd/erase/erase.go

package erase

import (
	"fmt"
	"io"

	cerr "github.com/cockroachdb/errors"
	"github.com/kramden/provision/pkg/config"
	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/erase_report"
	"github.com/kramden/provision/pkg/interaction"
	"github.com/kramden/provision/pkg/kramden_cli"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/kramden/provision/pkg/privilege_check"
	"github.com/kramden/provision/pkg/secure_erase"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EraseCmd securely erases every selected fixed drive.
var EraseCmd = NewCommand()

// NewCommand builds a fresh erase command with its own flag set.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Securely erase fixed SATA and NVMe drives",
		Long: `Securely erase every fixed SATA and NVMe drive, or only those named with --drive.

NVMe drives are formatted with "nvme format --force". SATA drives get a
sanitize block erase, falling back to ATA Security Erase when sanitize is not
supported. All drives are erased in parallel.

Use --dry-run to rehearse: drives are detected and reported but never touched.

Examples:
  kramden erase --dry-run
  kramden erase --drive /dev/sda --drive /dev/nvme0n1
  kramden erase --yes --output json`,
		Args: cobra.NoArgs,
		RunE: kramden_cli.Wrap(runErase),
	}
	cmd.Flags().StringSlice("drive", nil, "erase only this device path (repeatable)")
	cmd.Flags().Bool("dry-run", false, "detect and report without erasing anything")
	cmd.Flags().BoolP("yes", "y", false, "skip the typed ERASE confirmation")
	cmd.Flags().Bool("details", false, "show raw tool output for failed drives")
	return cmd
}

// prompter is replaced in tests.
var prompter = interaction.NewStdPrompter

func runErase(rc *kramden_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	s, err := kramden_cli.Settings()
	if err != nil {
		return err
	}
	// The flag is authoritative even when the command runs without the root
	// pre-run, as it does in tests.
	cfg := *s
	s = &cfg
	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		s.DryRun = true
	}
	paths, _ := cmd.Flags().GetStringSlice("drive")
	skipConfirm, _ := cmd.Flags().GetBool("yes")
	details, _ := cmd.Flags().GetBool("details")

	mode := secure_erase.ModeDestructive
	if s.DryRun {
		mode = secure_erase.ModeDryRun
	}

	// Progress goes to stderr when stdout carries a machine-readable report.
	out := cmd.OutOrStdout()
	progressOut := out
	if s.Output != config.OutputText {
		progressOut = cmd.ErrOrStderr()
	}
	printer := erase_report.NewPrinter(progressOut, details)
	ask := prompter()

	runner := kramden_cli.NewRunner(s, mode == secure_erase.ModeDryRun, rc.Log)

	// ASSESS
	drives := kramden_cli.NewInventory(s, runner).Detect(rc)
	printer.Drives(drives)
	if len(drives) == 0 {
		return kramden_err.NewExpectedError(cerr.New(erase_report.NoDrivesMessage))
	}

	selection := secure_erase.NewSelection(drives)
	if len(paths) > 0 {
		if err := selection.SelectOnly(paths); err != nil {
			return kramden_err.NewValidationError(err.Error(),
				"Run 'kramden list drives' to see which drives can be erased")
		}
	}

	coordinator, err := kramden_cli.NewCoordinator(s, runner)
	if err != nil {
		return kramden_err.NewInternalError("could not set up erase coordinator", err)
	}

	// INTERVENE
	for {
		selected := selection.Selected()
		printer.Banner(mode)

		if mode == secure_erase.ModeDestructive {
			if err := preflight(rc, s, selected); err != nil {
				return err
			}
			if !skipConfirm {
				prompt := fmt.Sprintf("Erase %d drive(s)? ALL DATA WILL BE LOST", len(selected))
				if err := ask.ConfirmPhrase(rc.Ctx, prompt, interaction.ErasePhrase); err != nil {
					return err
				}
			}
		}

		job, err := selection.Job(mode)
		if err != nil {
			return err
		}
		result, err := coordinator.Run(rc.Ctx, job, printer.Event)
		if err != nil {
			return err
		}
		if rc.Ctx.Err() != nil {
			logger.Warn("Interrupt received while erasing; the job ran to completion")
		}
		selection.Apply(result)

		// EVALUATE
		if err := erase_report.WriteReport(out, s.Output, result, details); err != nil {
			return err
		}

		summary := result.Summary()
		logger.Info("Erase pass finished",
			zap.String("job_id", result.JobID),
			zap.Stringer("mode", mode),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed))

		if summary.FullyPassed() {
			return nil
		}
		if !retryWanted(rc, ask, s.Output, summary, progressOut) {
			return kramden_err.NewPartialFailureError(summary.Message(),
				"Re-run with --details to see the tool output for each failed drive",
				"Frozen SATA drives usually unfreeze after a suspend/resume cycle",
			)
		}
	}
}

// retryWanted offers another pass over the failed drives. Only an
// interactive text session is asked.
func retryWanted(rc *kramden_io.RuntimeContext, ask *interaction.Prompter, output string, summary secure_erase.Summary, w io.Writer) bool {
	if !ask.Interactive() || output != config.OutputText || rc.Ctx.Err() != nil {
		return false
	}
	fmt.Fprintln(w)
	again, err := ask.YesNo(rc.Ctx, fmt.Sprintf("Retry %d failed drive(s)?", summary.Failed), false)
	if err != nil {
		otelzap.Ctx(rc.Ctx).Debug("No retry answer", zap.Error(err))
		return false
	}
	return again
}

// preflight checks privileges, tools and device access for the drives about
// to be erased.
func preflight(rc *kramden_io.RuntimeContext, s *config.Settings, drives []disk_management.DriveDescriptor) error {
	opts := privilege_check.PreflightOptions{
		UseSudo:  s.UseSudo,
		SudoPath: s.SudoPath,
		Tools:    requiredTools(s, drives),
	}
	for _, d := range drives {
		opts.Devices = append(opts.Devices, d.Path)
	}
	return privilege_check.Preflight(rc, opts)
}

// requiredTools names the binaries the selected drives need.
func requiredTools(s *config.Settings, drives []disk_management.DriveDescriptor) []string {
	var sata, nvme bool
	for _, d := range drives {
		switch d.Interface {
		case disk_management.InterfaceSATA:
			sata = true
		case disk_management.InterfaceNVMe:
			nvme = true
		}
	}
	var tools []string
	if sata {
		tools = append(tools, s.HdparmPath)
	}
	if nvme {
		tools = append(tools, s.NvmePath)
	}
	return tools
}
