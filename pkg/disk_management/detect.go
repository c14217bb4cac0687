// pkg/disk_management/detect.go

package disk_management

import (
	"context"
	"encoding/json"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/kramden/provision/pkg/execute"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// lsblkColumns is the column set requested for enumeration.
const lsblkColumns = "NAME,KNAME,PATH,TYPE,RM,SIZE,TRAN,MODEL,SERIAL"

// InventoryOptions configures an Inventory.
type InventoryOptions struct {
	LsblkPath string
	SysfsRoot string
	// Timeout bounds each lsblk call; enumeration never touches media.
	Timeout time.Duration
}

// Inventory enumerates fixed drives that are candidates for erasure.
type Inventory struct {
	runner    execute.Runner
	lsblkPath string
	sysfsRoot string
	timeout   time.Duration
}

func NewInventory(runner execute.Runner, opts InventoryOptions) *Inventory {
	if opts.LsblkPath == "" {
		opts.LsblkPath = "lsblk"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Inventory{
		runner:    runner,
		lsblkPath: opts.LsblkPath,
		sysfsRoot: opts.SysfsRoot,
		timeout:   opts.Timeout,
	}
}

// Detect lists fixed SATA and NVMe drives in lsblk order following
// Assess → Intervene → Evaluate. It never fails: an enumeration error yields
// an empty list and a size error yields "Unknown" for that drive only.
func (inv *Inventory) Detect(rc *kramden_io.RuntimeContext) []DriveDescriptor {
	logger := otelzap.Ctx(rc.Ctx)
	start := time.Now()

	// ASSESS
	logger.Info("Enumerating block devices", zap.String("lsblk", inv.lsblkPath))

	devices, err := inv.enumerate(rc.Ctx)
	if err != nil {
		logger.Warn("Block device enumeration failed, reporting no drives", zap.Error(err))
		return []DriveDescriptor{}
	}

	// INTERVENE
	drives := make([]DriveDescriptor, 0, len(devices))
	for _, dev := range devices {
		if reason := exclusionReason(dev, inv.sysfsRoot); reason != "" {
			logger.Debug("Skipping device",
				zap.String("device", dev.devicePath()),
				zap.String("reason", reason))
			continue
		}

		drive := DriveDescriptor{
			Path:      dev.devicePath(),
			Name:      dev.kernelName(),
			Interface: classify(dev),
			SizeBytes: uint64(dev.Size),
			Removable: bool(dev.RM),
			Transport: dev.Tran,
			Model:     dev.Model,
			Serial:    dev.Serial,
		}
		if drive.SizeBytes == 0 {
			size, err := inv.querySize(rc.Ctx, drive.Path)
			if err != nil {
				logger.Warn("Could not read drive size",
					zap.String("device", drive.Path),
					zap.Error(err))
			}
			drive.SizeBytes = size
		}
		drive.Size = FormatSize(drive.SizeBytes)
		drives = append(drives, drive)
	}

	// EVALUATE
	logger.Info("Drive detection completed",
		zap.Int("block_devices", len(devices)),
		zap.Int("drive_count", len(drives)),
		zap.Duration("duration", time.Since(start)))

	return drives
}

func (inv *Inventory) enumerate(ctx context.Context) ([]lsblkDevice, error) {
	res := inv.runner.Run(ctx, execute.Command{
		Name:    inv.lsblkPath,
		Args:    []string{"-J", "-b", "-d", "-o", lsblkColumns},
		Timeout: inv.timeout,
	})
	if !res.Success() {
		return nil, cerr.Newf("lsblk exited %d: %s", res.ExitCode, res.Detail())
	}

	var out lsblkOutput
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		return nil, cerr.Wrap(err, "decode lsblk output")
	}
	return out.BlockDevices, nil
}
