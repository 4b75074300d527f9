package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/logger"
)

const appName = "skilltrend"

type rootFlags struct {
	DataDir  string
	Config   string
	LogLevel string
}

// app is what every subcommand gets after the persistent pre-run.
type app struct {
	cfg     config.Config
	cfgPath string
	log     logger.Logger
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	a := &app{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Track which technology skills job listings ask for",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.DataDir, "data-dir", "", "data directory (default $SKILLTREND_DATA_DIR or .)")
	pf.StringVar(&flags.Config, "config", "", "config file (default <data-dir>/config.yml)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "override app.log_level")

	root.AddCommand(
		newServeCmd(a),
		newAnalyzeCmd(a),
		newUsageCmd(a),
		newConfigCmd(a),
		newSecretCmd(a),
	)
	return root
}

func (a *app) init(flags rootFlags) error {
	dataDir := flags.DataDir
	if dataDir == "" {
		dataDir = os.Getenv("SKILLTREND_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "."
	}

	// Shell env wins over .env, and the working dir .env over the data dir one.
	if err := config.LoadDotEnv(".env", filepath.Join(dataDir, ".env")); err != nil {
		return err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	cfgPath := flags.Config
	if cfgPath == "" {
		p, err := config.EnsureUserConfig(dataDir)
		if err != nil {
			return fmt.Errorf("config bootstrap failed: %w", err)
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.App.DataDir = dataDir
	if flags.LogLevel != "" {
		cfg.App.LogLevel = flags.LogLevel
	}

	cfg, vr := config.NormalizeAndValidate(cfg)
	if err := vr.Err(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	for _, w := range vr.Warnings {
		log.WarnObj("config warning", "config_warning", map[string]any{"warning": w})
	}

	a.cfg = cfg
	a.cfgPath = cfgPath
	a.log = log
	return nil
}

// reload re-reads the config file with the same overrides init applied.
func (a *app) reload() (config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.App.DataDir = a.cfg.App.DataDir
	cfg.App.LogLevel = a.cfg.App.LogLevel
	cfg, vr := config.NormalizeAndValidate(cfg)
	if err := vr.Err(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func rolesOrDefault(args []string, cfg config.Config) []string {
	var out []string
	for _, a := range args {
		if s := strings.TrimSpace(a); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 && cfg.App.DefaultRole != "" {
		out = []string{cfg.App.DefaultRole}
	}
	return out
}
