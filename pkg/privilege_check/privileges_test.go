package privilege_check

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func stub(t *testing.T, uid int, missing map[string]bool, unwritable map[string]bool) {
	t.Helper()
	origEuid, origLook, origAccess := geteuid, lookPath, access
	t.Cleanup(func() { geteuid, lookPath, access = origEuid, origLook, origAccess })

	geteuid = func() int { return uid }
	lookPath = func(file string) (string, error) {
		if missing[file] {
			return "", exec.ErrNotFound
		}
		return "/usr/sbin/" + file, nil
	}
	access = func(path string, mode uint32) error {
		if unwritable[path] {
			return unix.EACCES
		}
		return nil
	}
}

func TestPreflight_RootPasses(t *testing.T) {
	stub(t, 0, nil, nil)
	rc := testutil.TestContext(t)

	err := Preflight(rc, PreflightOptions{Tools: []string{"hdparm", "nvme"}, Devices: []string{"/dev/sda"}})
	assert.NoError(t, err)
}

func TestPreflight_RegularUserWithoutSudo(t *testing.T) {
	stub(t, 1000, nil, nil)
	rc := testutil.TestContext(t)

	err := Preflight(rc, PreflightOptions{Tools: []string{"hdparm"}})
	require.Error(t, err)
	assert.True(t, kramden_err.IsCategory(err, kramden_err.CategoryPermission))
}

func TestPreflight_SudoSkipsDeviceAccess(t *testing.T) {
	stub(t, 1000, nil, map[string]bool{"/dev/sda": true})
	rc := testutil.TestContext(t)

	err := Preflight(rc, PreflightOptions{UseSudo: true, Devices: []string{"/dev/sda"}})
	assert.NoError(t, err)
}

func TestPreflight_CollectsEveryProblem(t *testing.T) {
	stub(t, 0, map[string]bool{"hdparm": true, "nvme": true}, map[string]bool{"/dev/sdb": true})
	rc := testutil.TestContext(t)

	err := Preflight(rc, PreflightOptions{
		Tools:   []string{"hdparm", "nvme", "lsblk"},
		Devices: []string{"/dev/sda", "/dev/sdb"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hdparm")
	assert.Contains(t, err.Error(), "nvme")
	assert.Contains(t, err.Error(), "/dev/sdb")
	assert.NotContains(t, err.Error(), "lsblk")
	assert.True(t, errors.Is(err, unix.EACCES))
}

func TestPreflight_MissingSudo(t *testing.T) {
	stub(t, 1000, map[string]bool{"sudo": true}, nil)
	rc := testutil.TestContext(t)

	err := Preflight(rc, PreflightOptions{UseSudo: true})
	require.Error(t, err)
	assert.True(t, kramden_err.IsCategory(err, kramden_err.CategoryDependency))
}

func TestCheckPrivileges(t *testing.T) {
	stub(t, 0, nil, nil)
	rc := testutil.TestContext(t)

	check := CheckPrivileges(rc)
	assert.True(t, check.IsRoot)
	assert.Equal(t, PrivilegeLevelRoot, check.Level)
	assert.NotEmpty(t, check.Username)
}
