package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// =====================================
// File System Testing Utilities
// =====================================

// CreateTestFile writes content to dir/filename with perm and returns the path.
func CreateTestFile(t *testing.T, dir, filename, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

// CreateTestDir creates dir/dirname, including parents.
func CreateTestDir(t *testing.T, dir, dirname string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, dirname)
	require.NoError(t, os.MkdirAll(path, perm))
	return path
}

// FakeTool writes an executable shell script named name that prints stdout
// and exits with code, whatever its arguments.
func FakeTool(t *testing.T, name, stdout string, code int) string {
	t.Helper()
	script := "#!/bin/sh\ncat <<'KRAMDEN_EOF'\n" + stdout + "\nKRAMDEN_EOF\nexit " + strconv.Itoa(code) + "\n"
	return CreateTestFile(t, t.TempDir(), name, script, 0o755)
}
