/* cmd/root.go */

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kramden/provision/cmd/erase"
	"github.com/kramden/provision/cmd/list"
	"github.com/kramden/provision/pkg/config"
	"github.com/kramden/provision/pkg/kramden_cli"
	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/kramden/provision/pkg/kramden_io"
	"github.com/kramden/provision/pkg/logger"
	"github.com/kramden/provision/pkg/telemetry"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var (
	cfgFile           string
	shutdownTelemetry = func(context.Context) error { return nil }
)

// RootCmd is the base command for kramden.
var RootCmd = &cobra.Command{
	Use:   "kramden",
	Short: "Kramden refurbishment bench tools",
	Long: `kramden prepares donated computers for their next owner.

Use "kramden list drives" to see which drives would be erased and
"kramden erase" to securely erase them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialize,
	RunE: kramden_cli.Wrap(func(rc *kramden_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		otelzap.Ctx(rc.Ctx).Info("No subcommand provided", zap.String("command", cmd.Use))
		return cmd.Help()
	}),
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default "+config.SystemConfDir+"/"+config.ConfigName+".yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write JSON logs to this file")
	pf.Bool("use-sudo", false, "run hdparm, nvme and lsblk through sudo")
	pf.Bool("telemetry", false, "write trace spans to the telemetry file")
	pf.StringP("output", "o", config.OutputText, "output format: text, json, yaml")

	RootCmd.AddCommand(list.ListCmd, erase.EraseCmd)
}

// initialize resolves configuration for the command about to run, then
// brings up logging and telemetry from it.
func initialize(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(config.DefaultEnvFile); err != nil {
		return err
	}

	v := config.New()
	if err := config.BindFlagsToViper(cmd, v); err != nil {
		return kramden_err.NewInternalError("could not bind command flags", err)
	}
	s, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger.SetLogger(logger.Initialize(logger.Config{Level: s.LogLevel, File: s.LogFile}))

	shutdown, err := telemetry.Init("kramden", telemetry.Config{Enabled: s.Telemetry, Path: s.TelemetryFile})
	if err != nil {
		logger.L().Warn("Telemetry disabled", zap.Error(err))
	} else {
		shutdownTelemetry = shutdown
	}

	kramden_cli.SetSettings(s)
	logger.L().Debug("Configuration resolved",
		zap.Bool("dry_run", s.DryRun),
		zap.Bool("use_sudo", s.UseSudo),
		zap.String("output", s.Output))
	return nil
}

// Execute runs the root command and exits with the code for its outcome.
func Execute() {
	// An interrupt cancels the command context. A running erase job ignores
	// that and finishes, so the signal must not kill the process outright.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := RootCmd.ExecuteContext(ctx)
	stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if terr := shutdownTelemetry(flushCtx); terr != nil {
		logger.L().Warn("Failed to flush telemetry", zap.Error(terr))
	}
	cancel()

	code := kramden_err.GetExitCode(err)
	switch {
	case err == nil:
	case kramden_err.IsExpectedUserError(err):
		logger.L().Warn("CLI completed with user error", zap.Error(err))
		fmt.Fprintln(os.Stderr, err.Error())
	default:
		logger.L().Error("CLI execution error", zap.Error(err), zap.Int("exit_code", code))
		fmt.Fprintf(os.Stderr, "Error: %s\n", cleanMessage(err))
	}

	if serr := logger.Sync(); serr != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", serr)
	}
	os.Exit(code)
}

// cleanMessage prefers the classified message over a stack-wrapped one.
func cleanMessage(err error) string {
	var classified *kramden_err.ClassifiedError
	if errors.As(err, &classified) {
		return classified.Error()
	}
	return err.Error()
}
