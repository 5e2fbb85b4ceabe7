package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	runcmd "github.com/rzbill/snaptail/internal/cmd/run"
	cfgpkg "github.com/rzbill/snaptail/internal/config"
	logpkg "github.com/rzbill/snaptail/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// initialize logger for CLI startup errors before config is parsed
	level := os.Getenv("SNAPTAIL_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "snaptail <logfile>",
		Short: "Maintain a rolling, size-bounded snapshot of piped input",
		Long: "snaptail reads an unbounded stream on stdin and keeps a line-exact,\n" +
			"size-bounded rolling snapshot of it on disk, continuously refreshed\n" +
			"and flushed one final time on shutdown.",
		Example: "  tail -f app.log | snaptail /var/tmp/app.tail\n" +
			"  journalctl -f | snaptail recent.log --max-size 16000 --write-interval 500\n" +
			"  some-service | snaptail live.log --immediate --atomic-writes",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg := cfgpkg.Default()
			if cfgPath != "" {
				loaded, err := cfgpkg.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			cfgpkg.FromEnv(&cfg)

			// explicit flags override file and env
			if cmd.Flags().Changed("max-size") {
				cfg.MaxSize, _ = cmd.Flags().GetInt64("max-size")
			}
			if cmd.Flags().Changed("write-interval") {
				ms, _ := cmd.Flags().GetInt("write-interval")
				if ms <= 0 {
					cfg.Immediate = true
					cfg.WriteIntervalMs = 0
				} else {
					cfg.WriteIntervalMs = ms
				}
			}
			if imm, _ := cmd.Flags().GetBool("immediate"); imm {
				cfg.Immediate = true
			}
			if at, _ := cmd.Flags().GetBool("atomic-writes"); at {
				cfg.AtomicWrites = true
			}
			if v, _ := cmd.Flags().GetString("log-level"); v != "" {
				cfg.LogLevel = v
			}
			if v, _ := cmd.Flags().GetString("log-format"); v != "" {
				cfg.LogFormat = v
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runcmd.Run(ctx, runcmd.Options{Target: args[0], Config: cfg})
		},
	}

	rootCmd.Flags().String("config", "", "Config file (JSON or YAML)")
	rootCmd.Flags().Int64("max-size", 10000, "Maximum snapshot size in bytes")
	rootCmd.Flags().Int("write-interval", 1000, "Write interval in milliseconds (<= 0 selects immediate mode)")
	rootCmd.Flags().Bool("immediate", false, "Write immediately on every line (ignores interval)")
	rootCmd.Flags().Bool("atomic-writes", false, "Use atomic write-then-rename persistence")
	rootCmd.Flags().String("log-level", os.Getenv("SNAPTAIL_LOG_LEVEL"), "Log level: debug|info|warn|error")
	rootCmd.Flags().String("log-format", os.Getenv("SNAPTAIL_LOG_FORMAT"), "Log format: text|json (default text)")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("snaptail failed", logpkg.Err(err))
		os.Exit(1)
	}
}
