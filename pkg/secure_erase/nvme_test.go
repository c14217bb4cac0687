package secure_erase

import (
	"testing"

	"github.com/kramden/provision/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNvmeEraser(t *testing.T) {
	t.Run("format succeeds", func(t *testing.T) {
		rc := testutil.TestContext(t)
		runner := testutil.NewScriptedRunner().On("nvme format /dev/nvme0n1 --force", testutil.OK("Success formatting namespace:1"))

		out := NewNvmeEraser(runner, NvmeOptions{}).Erase(rc.Ctx, nvmeDrive("/dev/nvme0n1"))

		assert.True(t, out.Success)
		assert.Equal(t, "Successfully erased /dev/nvme0n1", out.Message)
		assert.Equal(t, 1, runner.DestructiveCalls())
	})

	t.Run("format fails", func(t *testing.T) {
		rc := testutil.TestContext(t)
		runner := testutil.NewScriptedRunner().On("nvme format /dev/nvme0n1 --force",
			testutil.Exit(1, "", "NVMe status: INVALID_FORMAT: The LBA Format specified is not supported(0x410a)"))

		out := NewNvmeEraser(runner, NvmeOptions{}).Erase(rc.Ctx, nvmeDrive("/dev/nvme0n1"))

		assert.False(t, out.Success)
		assert.Equal(t, ReasonFormat, out.Reason)
		assert.Equal(t, "Failed to erase /dev/nvme0n1", out.Message)
		assert.Contains(t, out.Detail, "INVALID_FORMAT")
	})

	t.Run("custom binary path", func(t *testing.T) {
		rc := testutil.TestContext(t)
		runner := testutil.NewScriptedRunner().On("/usr/sbin/nvme format /dev/nvme1n1 --force", testutil.OK(""))

		out := NewNvmeEraser(runner, NvmeOptions{NvmePath: "/usr/sbin/nvme"}).Erase(rc.Ctx, nvmeDrive("/dev/nvme1n1"))

		assert.True(t, out.Success)
	})
}
