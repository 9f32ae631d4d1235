package cliconfig

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/statbank-go/statbank"
	"github.com/statbank-go/statbank/pkg/transfer"
)

// Config holds CLI configuration for statbank.
type Config struct {
	BaseURL  string
	LoadUser string
	Password string

	ShortUser string
	CC        string
	BCC       string
	Date      string

	Overwrite  string
	Approve    string
	Validation bool

	MessageFormat string
	Delimiter     string
	Header        bool

	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Overwrite:     string(transfer.OverwriteYes),
		Approve:       string(transfer.ApproveJIT),
		Validation:    true,
		MessageFormat: "english",
		Delimiter:     ";",
		HTTPTimeout:   2 * time.Minute,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		return fmt.Errorf("base-url is required")
	}
	if c.LoadUser == "" {
		return fmt.Errorf("loaduser is required")
	}

	if c.CC == "" {
		c.CC = c.ShortUser
	}
	if c.BCC == "" {
		c.BCC = c.CC
	}

	switch c.Overwrite {
	case string(transfer.OverwriteNo), string(transfer.OverwriteYes):
	default:
		return fmt.Errorf("overwrite must be 0 or 1, got %q", c.Overwrite)
	}
	switch c.Approve {
	case string(transfer.ApproveManual), string(transfer.ApproveImmediate), string(transfer.ApproveJIT):
	default:
		return fmt.Errorf("approve must be 0, 1 or 2, got %q", c.Approve)
	}

	if c.Date != "" {
		if _, err := time.Parse(transfer.DateLayout, c.Date); err != nil {
			return fmt.Errorf("date %q: want YYYY-MM-DD", c.Date)
		}
	}

	switch strings.ToLower(c.MessageFormat) {
	case "english", "norwegian":
	default:
		return fmt.Errorf("message-format must be english or norwegian, got %q", c.MessageFormat)
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return nil
}

// ClientConfig converts to the library configuration. Call Validate first.
func (c Config) ClientConfig() (statbank.Config, error) {
	cfg := statbank.Config{
		LoadUser:       c.LoadUser,
		ShortUser:      c.ShortUser,
		CC:             c.CC,
		BCC:            c.BCC,
		Overwrite:      transfer.Overwrite(c.Overwrite),
		Approve:        transfer.Approve(c.Approve),
		SkipValidation: !c.Validation,
	}
	if c.Date != "" {
		d, err := time.Parse(transfer.DateLayout, c.Date)
		if err != nil {
			return statbank.Config{}, fmt.Errorf("parse date: %w", err)
		}
		cfg.Date = d
	}
	return cfg, nil
}

// Format returns the response message markers selected by MessageFormat.
func (c Config) Format() transfer.MessageFormat {
	if strings.ToLower(c.MessageFormat) == "norwegian" {
		return transfer.NorwegianMessageFormat
	}
	return transfer.DefaultMessageFormat
}

// DelimiterRune returns the CSV delimiter. Call Validate first.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Masked returns a copy safe for logging.
func (c Config) Masked() Config {
	if c.Password != "" {
		c.Password = "*****"
	}
	return c
}

// ApplyUserFallback fills ShortUser from a JupyterHub user name such as
// "abc@example.org" when it is unset. CC and BCC are derived in Validate.
func ApplyUserFallback(cfg *Config, jupyterUser string) {
	short, _, _ := strings.Cut(jupyterUser, "@")
	if short == "" || cfg.ShortUser != "" {
		return
	}
	cfg.ShortUser = short
}

// configSetter applies values unless the matching flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
