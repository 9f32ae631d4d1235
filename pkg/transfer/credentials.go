package transfer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/statbank-go/statbank/pkg/auth"
)

// withCredentials acquires the authorization header, runs fn with it and
// clears it when fn returns or panics. A supplied header is copied, never
// cleared in place.
func withCredentials(ctx context.Context, provider auth.Provider, supplied http.Header, fn func(http.Header) error) error {
	var creds http.Header
	if len(supplied) > 0 {
		creds = supplied.Clone()
	} else {
		h, err := provider.BuildHeaders(ctx)
		if err != nil {
			return fmt.Errorf("build headers: %w", err)
		}
		creds = h
	}
	defer clear(creds)

	return fn(creds)
}
