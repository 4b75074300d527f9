package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsageCmd(a *app) *cobra.Command {
	var localOnly bool
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show the local call counter and the provider's account usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			out := cmd.OutOrStdout()

			p, err := a.buildPipeline(cfg, nil)
			if err != nil {
				return err
			}
			defer p.Close()

			local, err := p.counter.Read(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "provider:     %s\n", cfg.Provider.Name)
			fmt.Fprintf(out, "local calls:  %d\n", local)

			if localOnly || p.account == nil {
				return nil
			}
			acc, err := p.account.Account(cmd.Context(), cfg.Usage.SearchLimit)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "account type: %s\n", acc.AccountType)
			fmt.Fprintf(out, "searches:     %d / %d\n", acc.TotalSearches, acc.SearchLimit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&localOnly, "local", false, "skip the provider account call")
	return cmd
}
