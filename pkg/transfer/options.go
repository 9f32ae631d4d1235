package transfer

import (
	"net/http"
	"time"

	"github.com/statbank-go/statbank/pkg/log"
)

// Option configures an Executor.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     log.Logger
	boundary   string
	format     MessageFormat
	location   *time.Location
}

func defaultOptions() options {
	return options{
		httpClient: &http.Client{},
		logger:     log.NewNoopLogger(),
		boundary:   DefaultBoundary,
		format:     DefaultMessageFormat,
		location:   time.UTC,
	}
}

// WithHTTPClient sets the HTTP client used for the POST. Timeouts and
// proxies are configured on the client; the executor sets none.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBoundary overrides the body section boundary.
func WithBoundary(boundary string) Option {
	return func(o *options) {
		o.boundary = boundary
	}
}

// WithMessageFormat selects the markers used to parse the response.
func WithMessageFormat(format MessageFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithLocation sets the time zone of the publish timestamp.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}
