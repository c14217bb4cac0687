// pkg/config/settings.go

package config

import (
	"errors"
	"io/fs"
	"regexp"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "KRAMDEN"
	ConfigName     = "erase"
	SystemConfDir  = "/etc/kramden"
	DefaultEnvFile = "/etc/kramden/kramden.env"
)

// Output formats accepted by the report printers.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	DryRun         bool          `mapstructure:"dry_run"`
	SimulatedDelay time.Duration `mapstructure:"simulated_delay"`

	UseSudo    bool   `mapstructure:"use_sudo"`
	SudoPath   string `mapstructure:"sudo_path"`
	LsblkPath  string `mapstructure:"lsblk_path"`
	HdparmPath string `mapstructure:"hdparm_path"`
	NvmePath   string `mapstructure:"nvme_path"`
	SysfsRoot  string `mapstructure:"sysfs_root"`

	// SecurityPassword is the temporary ATA unlock password used by the
	// security-erase fallback.
	SecurityPassword string `mapstructure:"security_password"`
	// FrozenMarker is a regexp matched against `hdparm -I` output; a match
	// means the drive is not frozen.
	FrozenMarker string `mapstructure:"frozen_marker"`

	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	Telemetry     bool   `mapstructure:"telemetry"`
	TelemetryFile string `mapstructure:"telemetry_file"`

	Output string `mapstructure:"output"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("dry_run", false)
	v.SetDefault("simulated_delay", 2*time.Second)
	v.SetDefault("use_sudo", false)
	v.SetDefault("sudo_path", "sudo")
	v.SetDefault("lsblk_path", "lsblk")
	v.SetDefault("hdparm_path", "hdparm")
	v.SetDefault("nvme_path", "nvme")
	v.SetDefault("sysfs_root", "/sys")
	v.SetDefault("security_password", "p")
	v.SetDefault("frozen_marker", `not\s+frozen`)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("telemetry", false)
	v.SetDefault("telemetry_file", "/var/log/kramden/telemetry.jsonl")
	v.SetDefault("output", OutputText)

	SetViperEnvPrefix(v, EnvPrefix)
	return v
}

// SetViperEnvPrefix lets viper read env with prefix.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// BindFlagsToViper binds every flag on cmd, local and inherited, to the
// snake_case key of the same name.
func BindFlagsToViper(cmd *cobra.Command, v *viper.Viper) error {
	var result error
	bind := func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			result = multierror.Append(result, cerr.Wrapf(err, "bind flag --%s", f.Name))
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return result
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return cerr.Wrapf(err, "load env file %s", path)
	}
	return nil
}

// Load reads the optional config file and resolves Settings. An explicit
// configFile must exist; the default search path may be empty.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(SystemConfDir)
		v.AddConfigPath("$HOME/.config/kramden")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, cerr.Wrap(err, "read config")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, cerr.Wrap(err, "decode config")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values the erase pipeline depends on.
func (s *Settings) Validate() error {
	var result error

	if s.SimulatedDelay < 0 {
		result = multierror.Append(result, cerr.Newf("simulated_delay must not be negative, got %s", s.SimulatedDelay))
	}
	if strings.TrimSpace(s.SecurityPassword) == "" || strings.ContainsAny(s.SecurityPassword, " \t\n") {
		result = multierror.Append(result, cerr.New("security_password must be a non-empty word"))
	}
	if _, err := regexp.Compile(s.FrozenMarker); err != nil || s.FrozenMarker == "" {
		result = multierror.Append(result, cerr.Newf("frozen_marker %q is not a usable regexp", s.FrozenMarker))
	}
	switch s.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		result = multierror.Append(result, cerr.Newf("output must be one of text, json, yaml, got %q", s.Output))
	}
	for key, val := range map[string]string{
		"lsblk_path":  s.LsblkPath,
		"hdparm_path": s.HdparmPath,
		"nvme_path":   s.NvmePath,
	} {
		if strings.TrimSpace(val) == "" {
			result = multierror.Append(result, cerr.Newf("%s must not be empty", key))
		}
	}

	if result != nil {
		return kramden_err.NewValidationError(result.Error(),
			"Check /etc/kramden/erase.yaml and KRAMDEN_* environment variables")
	}
	return nil
}

// FrozenPattern compiles FrozenMarker. Validate has already vetted it.
func (s *Settings) FrozenPattern() *regexp.Regexp {
	return regexp.MustCompile(s.FrozenMarker)
}
