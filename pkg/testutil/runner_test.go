package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/kramden/provision/pkg/execute"
	"github.com/stretchr/testify/assert"
)

func TestScriptedRunnerConsumesInOrder(t *testing.T) {
	r := NewScriptedRunner().
		On("hdparm -I /dev/sda", OK("first"), OK("second"))

	cmd := execute.Command{Name: "hdparm", Args: []string{"-I", "/dev/sda"}}
	assert.Equal(t, "first", r.Run(context.Background(), cmd).Stdout)
	assert.Equal(t, "second", r.Run(context.Background(), cmd).Stdout)
	assert.Equal(t, "second", r.Run(context.Background(), cmd).Stdout)
	assert.Equal(t, 3, r.CallCount("hdparm -I /dev/sda"))
}

func TestScriptedRunnerUnscripted(t *testing.T) {
	r := NewScriptedRunner()
	res := r.Run(context.Background(), execute.Command{Name: "nvme", Args: []string{"list"}, Destructive: true})
	assert.Equal(t, 127, res.ExitCode)
	assert.Equal(t, []string{"nvme list"}, r.CallLines())
	assert.Equal(t, 1, r.DestructiveCalls())
}

func TestFakeTool(t *testing.T) {
	path := FakeTool(t, "lsblk", `{"blockdevices":[]}`, 3)

	res := execute.NewRunner(execute.Options{}).Run(context.Background(), execute.Command{Name: path, Args: []string{"-J"}})
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, `{"blockdevices":[]}`, strings.TrimSpace(res.Stdout))
}
