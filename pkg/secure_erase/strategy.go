// pkg/secure_erase/strategy.go

package secure_erase

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/kramden/provision/pkg/disk_management"
)

// Strategy names the erase protocol applied to a drive.
type Strategy string

const (
	StrategyNvmeFormat               Strategy = "nvme-format"
	StrategySataSanitizeWithFallback Strategy = "sata-sanitize-with-security-erase-fallback"
)

// Eraser runs one erase protocol against one drive. Implementations always
// return an outcome; failures are values, not errors.
type Eraser interface {
	Erase(ctx context.Context, drive disk_management.DriveDescriptor) EraseOutcome
}

// SelectStrategy maps a drive's interface to its erase protocol. It performs
// no I/O.
func SelectStrategy(iface disk_management.InterfaceType) (Strategy, bool) {
	switch iface {
	case disk_management.InterfaceNVMe:
		return StrategyNvmeFormat, true
	case disk_management.InterfaceSATA:
		return StrategySataSanitizeWithFallback, true
	default:
		return "", false
	}
}

// Erasers holds one Eraser per strategy.
type Erasers struct {
	SATA Eraser
	NVMe Eraser
}

// For resolves the eraser for drive.
func (e Erasers) For(drive disk_management.DriveDescriptor) (Eraser, Strategy, error) {
	strategy, ok := SelectStrategy(drive.Interface)
	if !ok {
		return nil, "", cerr.Newf("no erase strategy for interface %q", drive.Interface)
	}

	var eraser Eraser
	switch strategy {
	case StrategyNvmeFormat:
		eraser = e.NVMe
	case StrategySataSanitizeWithFallback:
		eraser = e.SATA
	}
	if eraser == nil {
		return nil, strategy, cerr.Newf("no eraser configured for %s", strategy)
	}
	return eraser, strategy, nil
}
