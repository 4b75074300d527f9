package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/secrets"
)

func newSecretCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store credentials in the OS keychain",
	}

	setKey := &cobra.Command{
		Use:   "set-api-key [key]",
		Short: "Store the API key for provider.name (reads stdin when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Provider.Name == config.ProviderMailbox {
				return errors.New("provider mailbox has no api key; use set-imap-password")
			}
			key, err := argOrStdin(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := secrets.SetAPIKey(a.cfg.Provider.Name, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s key in keychain\n", a.cfg.Provider.Name)
			return nil
		},
	}

	setIMAP := &cobra.Command{
		Use:   "set-imap-password [password]",
		Short: "Store the IMAP password for mailbox.username (reads stdin when none is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := argOrStdin(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := secrets.SetIMAPPassword(a.cfg, pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored IMAP password for %s\n", secrets.IMAPKeyringAccount(a.cfg))
			return nil
		},
	}

	deleteKey := &cobra.Command{
		Use:   "delete-api-key",
		Short: "Remove the API key for provider.name from the keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := secrets.DeleteAPIKey(a.cfg.Provider.Name)
			if errors.Is(err, keyring.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s key in keychain\n", a.cfg.Provider.Name)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s key from keychain\n", a.cfg.Provider.Name)
			return nil
		},
	}

	cmd.AddCommand(setKey, deleteKey, setIMAP)
	return cmd
}

func argOrStdin(args []string, in io.Reader) (string, error) {
	if len(args) == 1 {
		if v := strings.TrimSpace(args[0]); v != "" {
			return v, nil
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	v := strings.TrimSpace(line)
	if v == "" {
		return "", errors.New("empty value")
	}
	return v, nil
}
