package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (STATBANK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", os.Getenv("STATBANK_BASE_URL"), &cfg.BaseURL)
	s.setString("loaduser", os.Getenv("STATBANK_LOADUSER"), &cfg.LoadUser)
	s.setString("password", os.Getenv("STATBANK_PASSWORD"), &cfg.Password)
	s.setString("shortuser", os.Getenv("STATBANK_SHORTUSER"), &cfg.ShortUser)
	s.setString("cc", os.Getenv("STATBANK_CC"), &cfg.CC)
	s.setString("bcc", os.Getenv("STATBANK_BCC"), &cfg.BCC)
	s.setString("date", os.Getenv("STATBANK_DATE"), &cfg.Date)
	s.setString("overwrite", os.Getenv("STATBANK_OVERWRITE"), &cfg.Overwrite)
	s.setString("approve", os.Getenv("STATBANK_APPROVE"), &cfg.Approve)
	s.setString("message-format", os.Getenv("STATBANK_MESSAGE_FORMAT"), &cfg.MessageFormat)
	s.setString("delimiter", os.Getenv("STATBANK_DELIMITER"), &cfg.Delimiter)
	s.setString("log-level", os.Getenv("STATBANK_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("STATBANK_LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setDuration("timeout", os.Getenv("STATBANK_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBoolFromString("validation", os.Getenv("STATBANK_VALIDATION"), &cfg.Validation)
	s.setBoolFromString("header", os.Getenv("STATBANK_HEADER"), &cfg.Header)

	return nil
}
