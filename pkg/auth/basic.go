package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Default endpoint paths below the service base URL.
const (
	DefaultLoaderPath = "/statbank/sos/v1/DataLoader"
	DefaultGUIPath    = "/lastelogg/gui/"
	DefaultAPIPath    = "/lastelogg/api/"
)

var (
	// ErrMissingBaseURL is returned when no base URL is configured.
	ErrMissingBaseURL = errors.New("auth: base url is required")

	// ErrMissingCredentials is returned when the load user or password is empty.
	ErrMissingCredentials = errors.New("auth: load user and password are required")
)

// BasicConfig configures a Basic provider.
type BasicConfig struct {
	BaseURL  string
	LoadUser string
	Password string

	// Paths override the Default*Path constants when set.
	LoaderPath string
	GUIPath    string
	APIPath    string
}

// Basic builds endpoints from a base URL and a Basic authorization header
// from the load user credentials.
type Basic struct {
	cfg BasicConfig
}

// NewBasic validates cfg and creates a Basic provider.
func NewBasic(cfg BasicConfig) (*Basic, error) {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.LoaderPath == "" {
		cfg.LoaderPath = DefaultLoaderPath
	}
	if cfg.GUIPath == "" {
		cfg.GUIPath = DefaultGUIPath
	}
	if cfg.APIPath == "" {
		cfg.APIPath = DefaultAPIPath
	}
	return &Basic{cfg: cfg}, nil
}

// BuildURLs joins the base URL with the endpoint paths.
func (b *Basic) BuildURLs(ctx context.Context) (URLs, error) {
	return URLs{
		Loader: b.cfg.BaseURL + ensureSlash(b.cfg.LoaderPath),
		GUI:    b.cfg.BaseURL + ensureSlash(b.cfg.GUIPath),
		API:    b.cfg.BaseURL + ensureSlash(b.cfg.APIPath),
	}, nil
}

// BuildHeaders returns a new header holding the Basic credentials.
func (b *Basic) BuildHeaders(ctx context.Context) (http.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.cfg.LoadUser == "" || b.cfg.Password == "" {
		return nil, ErrMissingCredentials
	}
	token := base64.StdEncoding.EncodeToString([]byte(b.cfg.LoadUser + ":" + b.cfg.Password))
	h := http.Header{}
	h.Set("Authorization", "Basic "+token)
	return h, nil
}

// String never includes the password.
func (b *Basic) String() string {
	return fmt.Sprintf("auth.Basic(%s, loaduser=%s)", b.cfg.BaseURL, b.cfg.LoadUser)
}

func ensureSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
