package list

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/kramden/provision/pkg/config"
	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/kramden_cli"
	"github.com/kramden/provision/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const lsblkDoc = `{"blockdevices":[
 {"name":"sda","kname":"sda","path":"/dev/sda","type":"disk","rm":false,"size":250059350016,"tran":"sata","model":"Samsung SSD 860","serial":"S3Z"},
 {"name":"nvme0n1","kname":"nvme0n1","path":"/dev/nvme0n1","type":"disk","rm":false,"size":512110190592,"tran":"nvme","model":"WDC PC SN530","serial":"21"},
 {"name":"sdb","kname":"sdb","path":"/dev/sdb","type":"disk","rm":true,"size":15376000000,"tran":"usb","model":"Flash","serial":"X"},
 {"name":"sr0","kname":"sr0","path":"/dev/sr0","type":"rom","rm":true,"size":1073741312,"tran":"sata","model":"DVD"}
]}`

func setup(t *testing.T, doc string, code int, output string) {
	t.Helper()
	testutil.TestContext(t)

	s, err := config.Load(config.New(), "")
	require.NoError(t, err)
	s.LsblkPath = testutil.FakeTool(t, "lsblk", doc, code)
	s.SysfsRoot = t.TempDir()
	s.Output = output
	kramden_cli.SetSettings(s)
	t.Cleanup(func() { kramden_cli.SetSettings(nil) })
}

func runDrives(t *testing.T) string {
	t.Helper()
	var stdout bytes.Buffer
	ListCmd.SetOut(&stdout)
	ListCmd.SetErr(&bytes.Buffer{})
	ListCmd.SetArgs([]string{"drives"})
	t.Cleanup(func() {
		ListCmd.SetOut(nil)
		ListCmd.SetErr(nil)
		ListCmd.SetArgs(nil)
	})
	require.NoError(t, ListCmd.Execute())
	return stdout.String()
}

func TestListDrives_JSON(t *testing.T) {
	setup(t, lsblkDoc, 0, config.OutputJSON)

	var doc struct {
		Drives []disk_management.DriveDescriptor `json:"drives"`
	}
	require.NoError(t, json.Unmarshal([]byte(runDrives(t)), &doc))

	require.Len(t, doc.Drives, 2)
	assert.Equal(t, "/dev/sda", doc.Drives[0].Path)
	assert.Equal(t, disk_management.InterfaceSATA, doc.Drives[0].Interface)
	assert.Equal(t, "232.9 GB", doc.Drives[0].Size)
	assert.Equal(t, "/dev/nvme0n1", doc.Drives[1].Path)
	assert.Equal(t, disk_management.InterfaceNVMe, doc.Drives[1].Interface)
	assert.Equal(t, uint64(512110190592), doc.Drives[1].SizeBytes)
}

func TestListDrives_YAML(t *testing.T) {
	setup(t, lsblkDoc, 0, config.OutputYAML)

	var doc struct {
		Drives []disk_management.DriveDescriptor `yaml:"drives"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(runDrives(t)), &doc))

	require.Len(t, doc.Drives, 2)
	assert.Equal(t, "/dev/sda", doc.Drives[0].Path)
	assert.Equal(t, "Samsung SSD 860", doc.Drives[0].Model)
	assert.Equal(t, "/dev/nvme0n1", doc.Drives[1].Path)
}

func TestListDrives_Text(t *testing.T) {
	setup(t, lsblkDoc, 0, config.OutputText)

	out := runDrives(t)
	assert.Contains(t, out, "/dev/sda")
	assert.Contains(t, out, "/dev/nvme0n1")
	assert.NotContains(t, out, "/dev/sdb")
	assert.NotContains(t, out, "/dev/sr0")
}

func TestListDrives_EnumerationFailureListsNothing(t *testing.T) {
	setup(t, "", 1, config.OutputJSON)

	assert.JSONEq(t, `{"drives":[]}`, runDrives(t))
}
