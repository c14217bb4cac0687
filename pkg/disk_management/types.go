package disk_management

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// InterfaceType is the bus a drive is attached through. It decides which
// erase protocol applies.
type InterfaceType string

const (
	InterfaceSATA InterfaceType = "SATA"
	InterfaceNVMe InterfaceType = "NVMe"
)

// UnknownSize is displayed when a drive's capacity could not be read.
const UnknownSize = "Unknown"

// DriveDescriptor is a fixed block device found by Detect. Values are copied,
// never shared, so a descriptor cannot change after detection.
type DriveDescriptor struct {
	Path      string        `json:"path" yaml:"path"`
	Name      string        `json:"name" yaml:"name"`
	Interface InterfaceType `json:"interface" yaml:"interface"`
	SizeBytes uint64        `json:"size_bytes" yaml:"size_bytes"`
	Size      string        `json:"size" yaml:"size"`
	Removable bool          `json:"removable" yaml:"removable"`
	Transport string        `json:"transport,omitempty" yaml:"transport,omitempty"`
	Model     string        `json:"model,omitempty" yaml:"model,omitempty"`
	Serial    string        `json:"serial,omitempty" yaml:"serial,omitempty"`
}

// SizeKnown reports whether the capacity was read successfully.
func (d DriveDescriptor) SizeKnown() bool {
	return d.SizeBytes > 0
}

func (d DriveDescriptor) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.Path, d.Interface, d.Size)
}

// lsblkOutput is the document printed by `lsblk -J`.
type lsblkOutput struct {
	BlockDevices []lsblkDevice `json:"blockdevices"`
}

type lsblkDevice struct {
	Name   string   `json:"name"`
	KName  string   `json:"kname"`
	Path   string   `json:"path"`
	Type   string   `json:"type"`
	RM     flexBool `json:"rm"`
	Size   flexUint `json:"size"`
	Tran   string   `json:"tran"`
	Model  string   `json:"model"`
	Serial string   `json:"serial"`
}

func (d lsblkDevice) kernelName() string {
	if d.KName != "" {
		return d.KName
	}
	return d.Name
}

func (d lsblkDevice) devicePath() string {
	if d.Path != "" {
		return d.Path
	}
	return "/dev/" + d.kernelName()
}

// flexBool accepts both JSON booleans and the "0"/"1" strings older lsblk
// releases print.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(string(bytes.Trim(data, `"`))) {
	case "1", "true":
		*b = true
	case "0", "false", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// flexUint accepts a JSON number, a numeric string or null.
type flexUint uint64

func (u *flexUint) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid size %s: %w", data, err)
	}
	*u = flexUint(n)
	return nil
}
