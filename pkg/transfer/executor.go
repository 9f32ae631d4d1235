package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/statbank-go/statbank/pkg/auth"
	"github.com/statbank-go/statbank/pkg/log"
)

// Executor sends transfers. It holds no per-transfer state and may be
// shared between goroutines.
type Executor struct {
	provider auth.Provider
	client   *resty.Client
	encoder  BodyEncoder
	parser   ResponseParser
	logger   log.Logger
}

// NewExecutor creates an Executor using provider for endpoints and
// credentials.
func NewExecutor(provider auth.Provider, opts ...Option) (*Executor, error) {
	if provider == nil {
		return nil, errors.New("transfer: auth provider is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	client := resty.NewWithClient(o.httpClient)
	client.SetLogger(restyLogger{logger: o.logger})
	client.SetDisableWarn(true)

	return &Executor{
		provider: provider,
		client:   client,
		encoder:  BodyEncoder{Boundary: o.boundary},
		parser:   ResponseParser{Format: o.format, Location: o.location},
		logger:   o.logger,
	}, nil
}

// Send posts t to the loader endpoint. headers, when non-empty, replaces
// the provider's authorization header for this call.
//
// Validation, encoding and credential failures leave t unsent. Once the
// POST is attempted t is sent, and any further Send returns ErrAlreadySent
// without touching the network.
func (e *Executor) Send(ctx context.Context, t *Transfer, headers http.Header) (*Result, error) {
	if t == nil {
		return nil, errors.New("transfer: nil transfer")
	}
	if t.State() == StateSent {
		return nil, t.alreadySent()
	}

	req := t.Request()
	if !req.SkipValidation {
		if err := req.Validate(); err != nil {
			return nil, err
		}
	}
	body, err := e.encoder.Encode(req.Datasets)
	if err != nil {
		return nil, err
	}

	urls, err := e.provider.BuildURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("build urls: %w", err)
	}
	target, err := loaderURL(urls.Loader, req.Params())
	if err != nil {
		return nil, err
	}

	var (
		status int
		raw    []byte
	)
	err = withCredentials(ctx, e.provider, headers, func(creds http.Header) error {
		r := e.client.R().SetContext(ctx).SetBody(body)
		defer scrub(r)
		for k, vs := range creds {
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}

		if err := t.claim(urls); err != nil {
			return err
		}
		e.logger.Debug("sending transfer",
			log.String("transfer_id", t.ID().String()),
			log.String("table_id", req.TableID),
			log.Int("datasets", len(req.Datasets)),
			log.Int("body_bytes", len(body)),
		)

		resp, err := r.Post(target)
		if err != nil {
			return fmt.Errorf("post transfer: %w", err)
		}
		status, raw = resp.StatusCode(), resp.Body()
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadySent) {
			e.logger.Error("transfer failed", log.String("transfer_id", t.ID().String()), log.Err(err))
		}
		return nil, err
	}

	if status != http.StatusOK {
		serr := newServiceError(status, raw)
		e.logger.Error("transfer rejected",
			log.String("transfer_id", t.ID().String()),
			log.Int("status", status),
			log.Err(serr),
		)
		return nil, serr
	}

	res, err := e.parser.Parse(raw)
	if err != nil {
		e.logger.Error("transfer response not understood",
			log.String("transfer_id", t.ID().String()),
			log.Err(err),
		)
		return nil, err
	}
	if urls.GUI != "" {
		res.LogURL = urls.GUI + res.JobID
	}
	if urls.API != "" {
		res.APIURL = urls.API + res.JobID
	}
	t.complete(res)

	e.logger.Info("transfer accepted",
		log.String("transfer_id", t.ID().String()),
		log.String("table_id", req.TableID),
		log.String("job_id", res.JobID),
		log.String("publish", res.Publish.Format("2006-01-02 15:04")),
		log.String("load_log", res.LogURL),
	)
	return res, nil
}

// scrub drops the authorization copies resty keeps on the request.
func scrub(r *resty.Request) {
	clear(r.Header)
	if r.RawRequest != nil {
		clear(r.RawRequest.Header)
	}
}

func loaderURL(loader string, params url.Values) (string, error) {
	u, err := url.Parse(loader)
	if err != nil {
		return "", fmt.Errorf("parse loader url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parse loader url: %q is not absolute", loader)
	}
	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	u.ForceQuery = false
	return u.String(), nil
}
