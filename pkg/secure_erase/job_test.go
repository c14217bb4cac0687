package secure_erase

import (
	"testing"

	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEraseJob(t *testing.T) {
	t.Run("copies the selection", func(t *testing.T) {
		drives := []disk_management.DriveDescriptor{sataDrive("/dev/sda"), nvmeDrive("/dev/nvme0n1")}
		job, err := NewEraseJob(drives, ModeDestructive)
		require.NoError(t, err)

		drives[0].Path = "/dev/sdz"
		assert.Equal(t, "/dev/sda", job.Drives()[0].Path)

		got := job.Drives()
		got[1].Path = "/dev/sdy"
		assert.Equal(t, "/dev/nvme0n1", job.Drives()[1].Path)

		assert.NotEmpty(t, job.ID())
		assert.Equal(t, 2, job.Len())
		assert.Equal(t, ModeDestructive, job.Mode())
	})

	t.Run("unique ids", func(t *testing.T) {
		a, err := NewEraseJob([]disk_management.DriveDescriptor{sataDrive("/dev/sda")}, ModeDryRun)
		require.NoError(t, err)
		b, err := NewEraseJob([]disk_management.DriveDescriptor{sataDrive("/dev/sda")}, ModeDryRun)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID(), b.ID())
	})

	t.Run("empty selection", func(t *testing.T) {
		_, err := NewEraseJob(nil, ModeDestructive)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoDrives)
		assert.True(t, kramden_err.IsCategory(err, kramden_err.CategoryValidation))
	})

	t.Run("duplicate path", func(t *testing.T) {
		_, err := NewEraseJob([]disk_management.DriveDescriptor{sataDrive("/dev/sda"), sataDrive("/dev/sda")}, ModeDestructive)
		assert.ErrorIs(t, err, ErrDuplicateDrive)
		assert.Equal(t, 2, kramden_err.GetExitCode(err))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewEraseJob([]disk_management.DriveDescriptor{{Interface: disk_management.InterfaceSATA}}, ModeDestructive)
		assert.Error(t, err)
	})
}

func TestMode(t *testing.T) {
	var m Mode
	assert.Equal(t, ModeDryRun, m, "zero value must never erase")
	assert.Equal(t, "dry-run", m.String())
	assert.Equal(t, "destructive", ModeDestructive.String())

	text, err := ModeDestructive.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "destructive", string(text))
}

func TestSelectStrategy(t *testing.T) {
	s, ok := SelectStrategy(disk_management.InterfaceNVMe)
	assert.True(t, ok)
	assert.Equal(t, StrategyNvmeFormat, s)

	s, ok = SelectStrategy(disk_management.InterfaceSATA)
	assert.True(t, ok)
	assert.Equal(t, StrategySataSanitizeWithFallback, s)

	_, ok = SelectStrategy(disk_management.InterfaceType("SCSI"))
	assert.False(t, ok)
}

func TestErasersFor(t *testing.T) {
	sata, nvme := alwaysSucceed(), alwaysSucceed()
	erasers := Erasers{SATA: sata, NVMe: nvme}

	_, strategy, err := erasers.For(nvmeDrive("/dev/nvme0n1"))
	require.NoError(t, err)
	assert.Equal(t, StrategyNvmeFormat, strategy)

	_, strategy, err = erasers.For(sataDrive("/dev/sda"))
	require.NoError(t, err)
	assert.Equal(t, StrategySataSanitizeWithFallback, strategy)

	_, _, err = Erasers{SATA: sata}.For(nvmeDrive("/dev/nvme0n1"))
	assert.Error(t, err)

	_, _, err = erasers.For(disk_management.DriveDescriptor{Path: "/dev/sdq", Interface: "SAS"})
	assert.Error(t, err)
}
