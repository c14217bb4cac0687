// pkg/kramden_cli/wire.go

package kramden_cli

import (
	"sync"

	"github.com/kramden/provision/pkg/config"
	"github.com/kramden/provision/pkg/disk_management"
	"github.com/kramden/provision/pkg/execute"
	"github.com/kramden/provision/pkg/secure_erase"
	"go.uber.org/zap"
)

var (
	mu       sync.RWMutex
	settings *config.Settings
)

// SetSettings publishes the configuration resolved by the root command.
func SetSettings(s *config.Settings) {
	mu.Lock()
	defer mu.Unlock()
	settings = s
}

// Settings returns the resolved configuration. When the root command has
// not run, as in tests, it loads defaults plus any system config file.
func Settings() (*config.Settings, error) {
	mu.RLock()
	s := settings
	mu.RUnlock()
	if s != nil {
		return s, nil
	}
	return config.Load(config.New(), "")
}

// NewRunner builds the command runner for s. dryRun additionally refuses
// destructive commands at the process boundary.
func NewRunner(s *config.Settings, dryRun bool, logger *zap.Logger) execute.Runner {
	return execute.NewRunner(execute.Options{
		Sudo:     s.UseSudo,
		SudoPath: s.SudoPath,
		DryRun:   dryRun,
		Logger:   logger,
	})
}

func NewInventory(s *config.Settings, runner execute.Runner) *disk_management.Inventory {
	return disk_management.NewInventory(runner, disk_management.InventoryOptions{
		LsblkPath: s.LsblkPath,
		SysfsRoot: s.SysfsRoot,
	})
}

// NewCoordinator wires both erasers and metrics for s.
func NewCoordinator(s *config.Settings, runner execute.Runner) (*secure_erase.Coordinator, error) {
	metrics, err := secure_erase.NewMetrics()
	if err != nil {
		return nil, err
	}
	erasers := secure_erase.Erasers{
		SATA: secure_erase.NewSataEraser(runner, secure_erase.SataOptions{
			HdparmPath: s.HdparmPath,
			Password:   s.SecurityPassword,
			NotFrozen:  s.FrozenPattern(),
		}),
		NVMe: secure_erase.NewNvmeEraser(runner, secure_erase.NvmeOptions{
			NvmePath: s.NvmePath,
		}),
	}
	delay := s.SimulatedDelay
	if delay == 0 {
		delay = -1
	}
	return secure_erase.NewCoordinator(erasers, secure_erase.CoordinatorOptions{
		SimulatedDelay: delay,
		Metrics:        metrics,
	}), nil
}
