// pkg/disk_management/filter.go

package disk_management

import (
	"os"
	"path/filepath"
	"strings"
)

// Kernel name prefixes that never identify a physical fixed disk.
var virtualPrefixes = []string{"dm-", "loop", "zram", "ram", "sr", "md", "nbd"}

// exclusionReason returns why dev is not an erase candidate, or "" to keep it.
// Mapper nodes are excluded in every form: erasing one leaves the physical
// disk underneath untouched.
func exclusionReason(dev lsblkDevice, sysfsRoot string) string {
	kname := dev.kernelName()
	path := dev.devicePath()

	switch {
	case dev.Type != "disk":
		return "not a disk (type " + dev.Type + ")"
	case bool(dev.RM):
		return "removable media"
	case strings.EqualFold(dev.Tran, "usb"):
		return "usb-attached"
	case strings.HasPrefix(path, "/dev/mapper/"):
		return "device-mapper node"
	}

	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(kname, prefix) {
			return "virtual device (" + prefix + ")"
		}
	}

	if hasDeviceMapperBacking(sysfsRoot, kname) {
		return "device-mapper backed"
	}
	return ""
}

// hasDeviceMapperBacking checks for /sys/block/<kname>/dm, which the kernel
// creates for every device-mapper target.
func hasDeviceMapperBacking(sysfsRoot, kname string) bool {
	if sysfsRoot == "" || kname == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(sysfsRoot, "block", kname, "dm"))
	return err == nil
}

// classify maps a kept device to its interface type. Anything not on the
// NVMe bus is driven through hdparm.
func classify(dev lsblkDevice) InterfaceType {
	if strings.EqualFold(dev.Tran, "nvme") ||
		strings.HasPrefix(dev.kernelName(), "nvme") ||
		strings.Contains(dev.devicePath(), "nvme") {
		return InterfaceNVMe
	}
	return InterfaceSATA
}
