package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skilltrend-engine/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				// EnsureUserConfig may have just created it; only refuse a user-edited file.
				cur, lerr := config.Load(a.cfgPath)
				if lerr == nil && !isDefault(cur) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", a.cfgPath)
				}
			}
			cfg := config.Default()
			cfg.App.DataDir = a.cfg.App.DataDir
			if err := config.SaveAtomic(a.cfgPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.cfgPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfgPath)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and print warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, vr := config.NormalizeAndValidate(a.cfg)
			for _, w := range vr.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			if err := vr.Err(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd, validateCmd)
	return cmd
}

func isDefault(cfg config.Config) bool {
	d := config.Default()
	d.App.DataDir = cfg.App.DataDir
	a, _ := config.NormalizeAndValidate(cfg)
	b, _ := config.NormalizeAndValidate(d)
	return fmt.Sprintf("%+v", a) == fmt.Sprintf("%+v", b)
}
