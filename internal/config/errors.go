package config

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is wrapped by the ConfigError returned when no API
// key or password could be resolved.
var ErrMissingCredential = errors.New("missing credential")

// ConfigError is fatal at startup.
type ConfigError struct {
	Key string
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Key, e.Msg, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Key, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }
