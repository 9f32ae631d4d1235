package auth

import (
	"context"
	"net/http"
)

// URLs are the service endpoints used around a transfer.
type URLs struct {
	// Loader receives the transfer POST.
	Loader string

	// GUI is the load-log page prefix; append a job id.
	GUI string

	// API is the load-log API prefix; append a job id.
	API string
}

// Provider supplies endpoints and an authorization header.
type Provider interface {
	BuildURLs(ctx context.Context) (URLs, error)
	BuildHeaders(ctx context.Context) (http.Header, error)
}

// Static is a Provider returning fixed values.
type Static struct {
	URLs   URLs
	Header http.Header
}

// BuildURLs returns the configured URLs.
func (s Static) BuildURLs(ctx context.Context) (URLs, error) {
	return s.URLs, nil
}

// BuildHeaders returns a copy of the configured header.
func (s Static) BuildHeaders(ctx context.Context) (http.Header, error) {
	if s.Header == nil {
		return http.Header{}, nil
	}
	return s.Header.Clone(), nil
}
