// pkg/kramden_cli/wrap.go

package kramden_cli

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/spf13/cobra"
)

// Wrap gives every command a RuntimeContext, panic recovery and a closing
// log line with the outcome.
func Wrap(fn func(rc *kramden_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		rc := kramden_io.NewContext(parent, cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		kramden_io.LogRuntimeExecutionContext(rc)

		err = fn(rc, cmd, args)
		if err != nil && !kramden_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
