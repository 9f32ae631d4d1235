package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BaseURL       string `toml:"base_url"`
	LoadUser      string `toml:"loaduser"`
	Password      string `toml:"password"`
	ShortUser     string `toml:"shortuser"`
	CC            string `toml:"cc"`
	BCC           string `toml:"bcc"`
	Date          string `toml:"date"`
	Overwrite     string `toml:"overwrite"`
	Approve       string `toml:"approve"`
	Validation    *bool  `toml:"validation"`
	MessageFormat string `toml:"message_format"`
	Delimiter     string `toml:"delimiter"`
	Header        *bool  `toml:"header"`
	HTTPTimeout   string `toml:"http_timeout"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.statbank/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".statbank", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("loaduser", fc.LoadUser, &cfg.LoadUser)
	s.setString("password", fc.Password, &cfg.Password)
	s.setString("shortuser", fc.ShortUser, &cfg.ShortUser)
	s.setString("cc", fc.CC, &cfg.CC)
	s.setString("bcc", fc.BCC, &cfg.BCC)
	s.setString("date", fc.Date, &cfg.Date)
	s.setString("overwrite", fc.Overwrite, &cfg.Overwrite)
	s.setString("approve", fc.Approve, &cfg.Approve)
	s.setString("message-format", fc.MessageFormat, &cfg.MessageFormat)
	s.setString("delimiter", fc.Delimiter, &cfg.Delimiter)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBool("validation", fc.Validation, &cfg.Validation)
	s.setBool("header", fc.Header, &cfg.Header)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
