package erase

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kramden/provision/pkg/config"
	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/interaction"
	"github.com/kramden/provision/pkg/kramden_cli"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoDrives = `{"blockdevices":[
 {"name":"sda","kname":"sda","path":"/dev/sda","type":"disk","rm":false,"size":250059350016,"tran":"sata","model":"Samsung SSD 860","serial":"S3Z"},
 {"name":"nvme0n1","kname":"nvme0n1","path":"/dev/nvme0n1","type":"disk","rm":false,"size":512110190592,"tran":"nvme","model":"WDC PC SN530","serial":"21"},
 {"name":"sdb","kname":"sdb","path":"/dev/sdb","type":"disk","rm":true,"size":15376000000,"tran":"usb","model":"Flash","serial":"X"}
]}`

func setup(t *testing.T, doc, output string) {
	t.Helper()
	testutil.TestContext(t)

	s, err := config.Load(config.New(), "")
	require.NoError(t, err)
	s.LsblkPath = testutil.FakeTool(t, "lsblk", doc, 0)
	s.SysfsRoot = t.TempDir()
	s.SimulatedDelay = time.Millisecond
	s.Output = output
	kramden_cli.SetSettings(s)

	orig := prompter
	prompter = func() *interaction.Prompter {
		return interaction.NewPrompter(strings.NewReader(""), io.Discard)
	}
	t.Cleanup(func() {
		prompter = orig
		kramden_cli.SetSettings(nil)
	})
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestErase_DryRunText(t *testing.T) {
	setup(t, twoDrives, config.OutputText)

	stdout, _, err := run(t, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[TEST MODE] No data will actually be erased")
	assert.Contains(t, stdout, "[TEST] Would erase SATA drive /dev/sda")
	assert.Contains(t, stdout, "[TEST] Would erase NVMe drive /dev/nvme0n1")
	assert.Contains(t, stdout, "All 2 drives erased successfully.")
	assert.NotContains(t, stdout, "/dev/sdb")
}

func TestErase_DryRunJSONSubset(t *testing.T) {
	setup(t, twoDrives, config.OutputJSON)

	stdout, stderr, err := run(t, "--dry-run", "--drive", "/dev/nvme0n1")
	require.NoError(t, err)

	var report struct {
		Mode     string `json:"mode"`
		Message  string `json:"message"`
		Outcomes []struct {
			Drive   disk_management.DriveDescriptor `json:"drive"`
			Success bool                            `json:"success"`
			Message string                          `json:"message"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "dry-run", report.Mode)
	assert.Equal(t, "All 1 drive erased successfully.", report.Message)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "/dev/nvme0n1", report.Outcomes[0].Drive.Path)
	assert.Equal(t, "[TEST] Would erase NVMe drive /dev/nvme0n1", report.Outcomes[0].Message)

	assert.Contains(t, stderr, "[TEST MODE]")
}

func TestErase_UnknownDrive(t *testing.T) {
	setup(t, twoDrives, config.OutputText)

	_, _, err := run(t, "--dry-run", "--drive", "/dev/sdz")
	require.Error(t, err)
	assert.Equal(t, 2, kramden_err.GetExitCode(err))
}

func TestErase_RemovableDriveCannotBeSelected(t *testing.T) {
	setup(t, twoDrives, config.OutputText)

	_, _, err := run(t, "--dry-run", "--drive", "/dev/sdb")
	require.Error(t, err)
	assert.Equal(t, 2, kramden_err.GetExitCode(err))
}

func TestErase_NoDrives(t *testing.T) {
	setup(t, `{"blockdevices":[]}`, config.OutputText)

	stdout, _, err := run(t, "--dry-run")
	require.Error(t, err)
	assert.True(t, kramden_err.IsExpectedUserError(err))
	assert.Equal(t, 0, kramden_err.GetExitCode(err))
	assert.Contains(t, stdout, "No drives detected")
}

func TestRequiredTools(t *testing.T) {
	s := &config.Settings{HdparmPath: "hdparm", NvmePath: "/usr/sbin/nvme"}

	assert.Empty(t, requiredTools(s, nil))
	assert.Equal(t, []string{"hdparm"}, requiredTools(s, []disk_management.DriveDescriptor{
		{Path: "/dev/sda", Interface: disk_management.InterfaceSATA},
		{Path: "/dev/sdb", Interface: disk_management.InterfaceSATA},
	}))
	assert.Equal(t, []string{"hdparm", "/usr/sbin/nvme"}, requiredTools(s, []disk_management.DriveDescriptor{
		{Path: "/dev/nvme0n1", Interface: disk_management.InterfaceNVMe},
		{Path: "/dev/sda", Interface: disk_management.InterfaceSATA},
	}))
}
