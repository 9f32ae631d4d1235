package transfer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statbank-go/statbank/pkg/auth"
	"github.com/statbank-go/statbank/pkg/dataset"
)

const acceptedBody = `{"TotalResult":{"Status":"Success","Message":"Data received, job number:98765 = queued. Publishing date '15.08.2024 00:00:00', Publishing time '08:00' done."}}`

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	auth   string
	body   string
}

type stubService struct {
	hits   atomic.Int32
	status int
	body   string

	mu   sync.Mutex
	last recordedRequest
}

func (s *stubService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	raw, _ := io.ReadAll(r.Body)
	q := map[string]string{}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	s.mu.Lock()
	s.last = recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		query:  q,
		auth:   r.Header.Get("Authorization"),
		body:   string(raw),
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	_, _ = io.WriteString(w, s.body)
}

func (s *stubService) lastRequest() recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func newStub(t *testing.T, status int, body string) (*stubService, auth.Static) {
	t.Helper()
	s := &stubService{status: status, body: body}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	provider := auth.Static{
		URLs: auth.URLs{
			Loader: ts.URL + "/statbank/sos/v1/DataLoader?",
			GUI:    ts.URL + "/lastelogg/gui/",
			API:    ts.URL + "/lastelogg/api/",
		},
		Header: http.Header{"Authorization": {"Basic c2VjcmV0"}},
	}
	return s, provider
}

func endToEndRequest() Request {
	return Request{
		Datasets: []dataset.Table{
			dataset.New("delfil1.dat",
				dataset.Row{"0301", 10},
				dataset.Row{"1103", 20},
			),
		},
		TableID:     "05300",
		LoadUser:    "LAST330",
		Initials:    "abc",
		Recipient1:  "abc",
		Recipient2:  "def",
		PublishDate: "2024-08-15",
		Overwrite:   OverwriteYes,
		Approve:     ApproveJIT,
	}
}

func TestSendEndToEnd(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	res, err := exec.Send(context.Background(), tr, nil)
	require.NoError(t, err)

	assert.Equal(t, "98765", res.JobID)
	assert.Equal(t, time.Date(2024, 8, 15, 8, 0, 0, 0, time.UTC), res.Publish)
	assert.True(t, strings.HasSuffix(res.LogURL, "/lastelogg/gui/98765"))
	assert.True(t, strings.HasSuffix(res.APIURL, "/lastelogg/api/98765"))
	assert.JSONEq(t, acceptedBody, string(res.Payload))

	assert.Equal(t, StateSent, tr.State())
	assert.Same(t, res, tr.Result())

	got := stub.lastRequest()
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/statbank/sos/v1/DataLoader", got.path)
	assert.Equal(t, "Basic c2VjcmV0", got.auth)
	assert.Equal(t, map[string]string{
		"initialier":          "abc",
		"hovedtabell":         "05300",
		"publiseringsdato":    "2024-08-15",
		"fagansvarlig1":       "abc",
		"fagansvarlig2":       "def",
		"auto_overskriv_data": "1",
		"auto_godkjenn_data":  "2",
	}, got.query)

	wantBody := "--12345\r\nContent-Disposition:form-data; filename=delfil1.dat\r\nContent-type:text/plain\r\n\r\n" +
		"0301;10\r\n1103;20\r\n\r\n--12345--"
	assert.Equal(t, wantBody, got.body)
}

func TestSendTwiceFailsWithoutNetwork(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	_, err = exec.Send(context.Background(), tr, nil)
	require.NoError(t, err)

	res, err := exec.Send(context.Background(), tr, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.Contains(t, err.Error(), "/lastelogg/gui/98765")
	assert.EqualValues(t, 1, stub.hits.Load())
}

func TestSendAfterServiceErrorStillSent(t *testing.T) {
	stub, provider := newStub(t, http.StatusInternalServerError, `{"Error":"table locked"}`)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	_, err = exec.Send(context.Background(), tr, nil)
	require.ErrorIs(t, err, ErrService)

	_, err = exec.Send(context.Background(), tr, nil)
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.EqualValues(t, 1, stub.hits.Load())
}

func TestSendServiceError(t *testing.T) {
	_, provider := newStub(t, http.StatusBadRequest, `{"Error":"unknown table 99999"}`)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	res, err := exec.Send(context.Background(), tr, nil)
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrService)

	var serr *ServiceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusBadRequest, serr.StatusCode)
	assert.Equal(t, `{"Error":"unknown table 99999"}`, string(serr.Body))
	assert.Equal(t, map[string]any{"Error": "unknown table 99999"}, serr.Payload)
	assert.Nil(t, tr.Result())
}

func TestSendNonJSONServiceError(t *testing.T) {
	_, provider := newStub(t, http.StatusBadGateway, "bad gateway")
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	_, err = exec.Send(context.Background(), New(endToEndRequest()), nil)
	var serr *ServiceError
	require.True(t, errors.As(err, &serr))
	assert.Nil(t, serr.Payload)
	assert.Equal(t, "bad gateway", string(serr.Body))
}

func TestSendUnexpectedMessage(t *testing.T) {
	_, provider := newStub(t, http.StatusOK, `{"TotalResult":{"Message":"job number:12a45 = x"}}`)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	res, err := exec.Send(context.Background(), tr, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Nil(t, tr.Result())
	assert.Equal(t, StateSent, tr.State())
}

func TestSendValidationFailureLeavesUnsent(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	req := endToEndRequest()
	req.Recipient1 = "abcd"
	tr := New(req)

	_, err = exec.Send(context.Background(), tr, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, StateUnsent, tr.State())
	assert.EqualValues(t, 0, stub.hits.Load())
}

func TestSendSkipValidation(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	req := endToEndRequest()
	req.Initials = "abcd"
	req.SkipValidation = true

	_, err = exec.Send(context.Background(), New(req), nil)
	require.NoError(t, err)
	assert.Equal(t, "abcd", stub.lastRequest().query["initialier"])
}

func TestSendNoDatasets(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	req := endToEndRequest()
	req.Datasets = nil
	req.SkipValidation = true

	_, err = exec.Send(context.Background(), New(req), nil)
	assert.ErrorIs(t, err, ErrNoDatasets)
	assert.EqualValues(t, 0, stub.hits.Load())
}

func TestSendSuppliedHeadersAreNotMutated(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	supplied := http.Header{"Authorization": {"Bearer override"}}
	_, err = exec.Send(context.Background(), New(endToEndRequest()), supplied)
	require.NoError(t, err)

	assert.Equal(t, "Bearer override", stub.lastRequest().auth)
	assert.Equal(t, "Bearer override", supplied.Get("Authorization"))
}

type countingProvider struct {
	auth.Static
	headers []http.Header
	err     error
}

func (p *countingProvider) BuildHeaders(ctx context.Context) (http.Header, error) {
	if p.err != nil {
		return nil, p.err
	}
	h, _ := p.Static.BuildHeaders(ctx)
	p.headers = append(p.headers, h)
	return h, nil
}

func TestSendClearsCredentials(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		_, static := newStub(t, status, acceptedBody)
		p := &countingProvider{Static: static}
		exec, err := NewExecutor(p)
		require.NoError(t, err)

		_, _ = exec.Send(context.Background(), New(endToEndRequest()), nil)

		require.Len(t, p.headers, 1)
		assert.Empty(t, p.headers[0], "status %d: header not cleared", status)
	}
}

func TestSendHeaderProviderError(t *testing.T) {
	stub, static := newStub(t, http.StatusOK, acceptedBody)
	p := &countingProvider{Static: static, err: errors.New("vault sealed")}
	exec, err := NewExecutor(p)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	_, err = exec.Send(context.Background(), tr, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault sealed")
	assert.EqualValues(t, 0, stub.hits.Load())
	assert.Equal(t, StateUnsent, tr.State())
	assert.Nil(t, tr.Result())

	p.err = nil
	res, err := exec.Send(context.Background(), tr, nil)
	require.NoError(t, err)
	assert.Equal(t, "98765", res.JobID)
	assert.EqualValues(t, 1, stub.hits.Load())
	assert.Equal(t, StateSent, tr.State())
}

func TestSendCancelledBeforeHeadersStaysUnsent(t *testing.T) {
	stub, static := newStub(t, http.StatusOK, acceptedBody)
	p := &ctxProvider{Static: static}
	exec, err := NewExecutor(p)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(endToEndRequest())
	_, err = exec.Send(ctx, tr, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, stub.hits.Load())
	assert.Equal(t, StateUnsent, tr.State())
}

// ctxProvider fails header acquisition once ctx is done.
type ctxProvider struct {
	auth.Static
}

func (p *ctxProvider) BuildHeaders(ctx context.Context) (http.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Static.BuildHeaders(ctx)
}

func TestSendConcurrentOnlyOneReachesNetwork(t *testing.T) {
	stub, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	var wg sync.WaitGroup
	var ok atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := exec.Send(context.Background(), tr, nil); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 1, stub.hits.Load())
}

func TestNewExecutorRequiresProvider(t *testing.T) {
	_, err := NewExecutor(nil)
	assert.Error(t, err)
}

func TestLoaderURL(t *testing.T) {
	params := endToEndRequest().Params()

	got, err := loaderURL("https://example.org/load?", params)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://example.org/load?"))
	assert.Contains(t, got, "hovedtabell=05300")
	assert.NotContains(t, got, "??")

	got, err = loaderURL("https://example.org/load?token=x", params)
	require.NoError(t, err)
	assert.Contains(t, got, "token=x")

	_, err = loaderURL("not a url", params)
	assert.Error(t, err)
}
