package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"skilltrend-engine/internal/config"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "skilltrend"
)

func APIKeyAccount(provider string) string {
	return "skilltrend:api:" + strings.ToLower(strings.TrimSpace(provider))
}

func IMAPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf(
		"skilltrend:imap:%s@%s",
		cfg.Mailbox.Username,
		cfg.Mailbox.IMAPHost,
	)
}

func SetAPIKey(provider, key string) error {
	if strings.TrimSpace(provider) == "" {
		return errors.New("provider name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, APIKeyAccount(provider), key)
}

func DeleteAPIKey(provider string) error {
	return keyring.Delete(KeyringService, APIKeyAccount(provider))
}

// ResolveAPIKey looks the provider key up in config, then the provider's
// env var, then the keychain.
func ResolveAPIKey(cfg config.Config) (string, error) {
	if k := strings.TrimSpace(cfg.Provider.APIKey); k != "" {
		return k, nil
	}
	if name := config.ProviderEnvVar(cfg.Provider.Name); name != "" {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			return k, nil
		}
	}
	k, err := keyring.Get(KeyringService, APIKeyAccount(cfg.Provider.Name))
	if err == nil && strings.TrimSpace(k) != "" {
		return k, nil
	}
	return "", &config.ConfigError{
		Key: "provider.api_key",
		Msg: fmt.Sprintf("no key for %s (set it in config, %s or the keychain)", cfg.Provider.Name, config.ProviderEnvVar(cfg.Provider.Name)),
		Err: config.ErrMissingCredential,
	}
}

func GetIMAPPassword(cfg config.Config) (string, error) {
	pw, err := keyring.Get(KeyringService, IMAPKeyringAccount(cfg))
	if err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	return "", &config.ConfigError{
		Key: "mailbox.password",
		Msg: "IMAP password not found in keychain",
		Err: config.ErrMissingCredential,
	}
}

func SetIMAPPassword(cfg config.Config, password string) error {
	if strings.TrimSpace(cfg.Mailbox.Username) == "" || strings.TrimSpace(cfg.Mailbox.IMAPHost) == "" {
		return errors.New("mailbox.username and mailbox.imap_host must be set first")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, IMAPKeyringAccount(cfg), password)
}
