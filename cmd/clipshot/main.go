package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/clipshot/clipshot/internal/clipboard"
	"github.com/clipshot/clipshot/internal/cliconfig"
	"github.com/clipshot/clipshot/internal/daemon"
	"github.com/clipshot/clipshot/internal/logging"
	"github.com/clipshot/clipshot/internal/platform"
	"github.com/clipshot/clipshot/internal/sink"
	"github.com/clipshot/clipshot/internal/source"
)

const helpDescription = `
clipshot watches the clipboard (and, on macOS, the screenshot folder) for
new images and relays each one to a local folder or a remote host over
ssh, then puts the resulting file path back on the clipboard so it can be
pasted as text.

The single argument picks the delivery target: the literal "local", or an
opaque ssh destination (user@host or a Host alias from ~/.ssh/config).

clipshot is meant to be started by a process manager and runs until it is
signalled. Set CLIPSHOT_NO_CONSOLE_LOG=1 when running detached to stop
log lines from being echoed to stdout.
`

var exampleUsage = strings.TrimSpace(`
  clipshot local
  clipshot alice@dev-box
  clipshot build-server --multiplex
  clipshot local --poll 500ms --config ~/.clipshot/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "clipshot <target>",
		Short:   "Relay clipboard screenshots to a folder or a remote host",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Args:    cobra.ExactArgs(1),
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Target = args[0]

			// Load config file first (default ~/.clipshot/config.toml), then
			// apply env and flag overrides in ascending precedence.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: ~/.clipshot/config.toml)")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "clipboard poll interval")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "minimum screenshot file age before delivery")
	root.Flags().DurationVar(&cfg.AcquireTimeout, "acquire-timeout", cfg.AcquireTimeout, "clipboard tool invocation timeout")
	root.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "clipboard write-back timeout")
	root.Flags().DurationVar(&cfg.RemoteTimeout, "remote-timeout", cfg.RemoteTimeout, "remote transfer timeout")
	root.Flags().StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "log directory (default: ~/.clipshot/logs)")
	root.Flags().DurationVar(&cfg.LogRotateAge, "log-rotate-age", cfg.LogRotateAge, "log session rotation age")
	root.Flags().StringVar(&cfg.LocalDir, "local-dir", cfg.LocalDir, "local delivery directory (default: ~/clipshot-screenshots)")
	root.Flags().StringVar(&cfg.ScreenshotDir, "screenshot-dir", cfg.ScreenshotDir, "macOS screenshot directory to watch (default: OS-configured)")
	root.Flags().BoolVar(&cfg.Multiplex, "multiplex", cfg.Multiplex, "reuse the ssh control channel across transfers")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("clipshot")
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config) error {
	// Logging must come up first; a daemon without its log is undiagnosable,
	// so this is the one startup failure that aborts.
	logger, logWriter, err := logging.New(cfg.LogDir, cfg.LogRotateAge)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logWriter.Close()

	env := platform.Detect()
	target := sink.ParseTarget(cfg.Target)

	logger.Info().
		Str("platform", env.String()).
		Str("target", target.String()).
		Msg("clipshot starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src := source.New(env, cfg.AcquireTimeout, logger)

	var shots source.Source
	if env == platform.MacOS {
		dir := cfg.ScreenshotDir
		if dir == "" {
			dir = source.DefaultScreenshotDir()
		}
		w := source.NewScreenshotWatcher(dir, cfg.Debounce, logger)
		w.Start(ctx)
		shots = w
		logger.Info().Str("dir", dir).Msg("watching screenshot directory")
	}

	snk := sink.New(target, sink.Options{
		LocalDir:      cfg.LocalDir,
		RemoteTimeout: cfg.RemoteTimeout,
		Multiplex:     cfg.Multiplex,
	})
	writer := clipboard.New(env, cfg.WriteTimeout)

	d := daemon.New(target, cfg.PollInterval, src, shots, snk, writer, logger)
	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("received signal, stopping")
	return nil
}
