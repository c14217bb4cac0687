// pkg/disk_management/size.go

package disk_management

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/kramden/provision/pkg/execute"
)

const gib = 1024 * 1024 * 1024

// FormatSize renders bytes as gibibytes with one decimal, labelled "GB" to
// match what the tracking sheets have always shown.
func FormatSize(bytes uint64) string {
	if bytes == 0 {
		return UnknownSize
	}
	return fmt.Sprintf("%.1f GB", float64(bytes)/gib)
}

// querySize asks lsblk for the raw byte size of a single device.
func (inv *Inventory) querySize(ctx context.Context, path string) (uint64, error) {
	res := inv.runner.Run(ctx, execute.Command{
		Name:    inv.lsblkPath,
		Args:    []string{"-n", "-d", "-b", "--output", "SIZE", path},
		Timeout: inv.timeout,
	})
	if !res.Success() {
		return 0, cerr.Newf("size query for %s exited %d: %s", path, res.ExitCode, res.Detail())
	}
	n, err := strconv.ParseUint(strings.TrimSpace(res.Stdout), 10, 64)
	if err != nil {
		return 0, cerr.Wrapf(err, "parse size of %s", path)
	}
	if n == 0 {
		return 0, cerr.Newf("lsblk reported zero size for %s", path)
	}
	return n, nil
}
