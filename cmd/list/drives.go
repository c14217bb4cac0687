// cmd/list/drives.go

package list

import (
	"github.com/kramden/provision/pkg/erase_report"
	"github.com/kramden/provision/pkg/kramden_cli"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/spf13/cobra"
)

var drivesCmd = &cobra.Command{
	Use:     "drives",
	Aliases: []string{"disks"},
	Short:   "List fixed drives eligible for secure erase",
	Long: `List the fixed SATA and NVMe drives that "kramden erase" would target.
Removable media, USB drives, optical drives and virtual block devices are
never listed.`,
	Args: cobra.NoArgs,
	RunE: kramden_cli.Wrap(func(rc *kramden_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		s, err := kramden_cli.Settings()
		if err != nil {
			return err
		}
		// Listing only reads; refuse anything destructive outright.
		runner := kramden_cli.NewRunner(s, true, rc.Log)
		drives := kramden_cli.NewInventory(s, runner).Detect(rc)
		return erase_report.WriteDrives(cmd.OutOrStdout(), s.Output, drives)
	}),
}
