package secure_erase

import (
	"context"

	"github.com/kramden/provision/pkg/disk_management"
)

func sataDrive(path string) disk_management.DriveDescriptor {
	return disk_management.DriveDescriptor{
		Path:      path,
		Name:      path[len("/dev/"):],
		Interface: disk_management.InterfaceSATA,
		SizeBytes: 250059350016,
		Size:      "232.9 GB",
	}
}

func nvmeDrive(path string) disk_management.DriveDescriptor {
	return disk_management.DriveDescriptor{
		Path:      path,
		Name:      path[len("/dev/"):],
		Interface: disk_management.InterfaceNVMe,
		SizeBytes: 512110190592,
		Size:      "476.9 GB",
	}
}

type eraserFunc func(ctx context.Context, drive disk_management.DriveDescriptor) EraseOutcome

func (f eraserFunc) Erase(ctx context.Context, drive disk_management.DriveDescriptor) EraseOutcome {
	return f(ctx, drive)
}

func alwaysSucceed() Eraser {
	return eraserFunc(func(_ context.Context, d disk_management.DriveDescriptor) EraseOutcome {
		return succeeded(d)
	})
}

const (
	sanitizeSDA = "hdparm --yes-i-know-what-i-am-doing --sanitize-block-erase /dev/sda"
	identifySDA = "hdparm -I /dev/sda"
	setPassSDA  = "hdparm --security-set-pass p /dev/sda"
	eraseSDA    = "hdparm --security-erase p /dev/sda"
	disableSDA  = "hdparm --security-disable p /dev/sda"
)

const identifyNotFrozen = `/dev/sda:

ATA device, with non-removable media
	Model Number:       Samsung SSD 860 EVO 250GB
Security:
	Master password revision code = 65534
		supported
	not	enabled
	not	locked
	not	frozen
	not	expired: security count
		supported: enhanced erase
`

const identifyFrozen = `/dev/sda:

ATA device, with non-removable media
Security:
		supported
	not	enabled
	not	locked
		frozen
	not	expired: security count
`
