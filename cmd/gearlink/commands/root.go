package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gearlink/gearlink-go/pkg/config"
	"github.com/gearlink/gearlink-go/pkg/log"
	"github.com/gearlink/gearlink-go/pkg/version"
)

var (
	configPath string
	logLevel   string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gearlink",
	Short: "Accessory pairing and messaging toolkit",
	Long: `gearlink discovers accessories on the local network, opens a channel
multiplexed link to them and exchanges identified messages. It can also
simulate an accessory and analyze protocol log files.`,
	Version:      version.Current,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			if _, err := config.ParseLevel(logLevel); err != nil {
				return err
			}
			c.Log.Level = logLevel
		}
		cfg = c
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Log))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gearlink/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(accessoryCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// protocolLogger opens the protocol log file when one is configured. At debug
// level events are mirrored to the process logger as well. The returned close
// function is never nil.
func protocolLogger(lc config.LogConfig, logger *slog.Logger) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if lc.ProtocolFile != "" {
		fl, err := log.NewFileLogger(lc.ProtocolFile)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open protocol log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = func() { _ = fl.Close() }
	}
	if lc.Level == "debug" {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		m := log.NewMultiLogger(loggers...)
		return m, func() { _ = m.Close() }, nil
	}
}
