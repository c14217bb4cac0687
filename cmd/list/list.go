// cmd/list/list.go

package list

import (
	"github.com/kramden/provision/pkg/kramden_cli"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ListCmd is the root command for read-only listings.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources (e.g., drives)",
	Long:  `The list command shows what kramden can see on this machine without changing anything.`,
	RunE: kramden_cli.Wrap(func(rc *kramden_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		otelzap.Ctx(rc.Ctx).Info("No subcommand provided for <command>.", zap.String("command", cmd.Use))
		_ = cmd.Help()
		return nil
	}),
}

func init() {
	ListCmd.AddCommand(drivesCmd)
}
