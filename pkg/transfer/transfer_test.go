package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statbank-go/statbank/pkg/auth"
	"github.com/statbank-go/statbank/pkg/dataset"
)

func TestNewTransferIsUnsent(t *testing.T) {
	tr := New(endToEndRequest())

	assert.Equal(t, StateUnsent, tr.State())
	assert.Nil(t, tr.Result())
	assert.NotEqual(t, uuid.Nil, tr.ID())
	assert.Contains(t, tr.String(), "Not transferred yet.")
}

func TestTransferRequestIsCopied(t *testing.T) {
	req := endToEndRequest()
	tr := New(req)

	req.Datasets[0] = dataset.New("changed.dat")
	assert.Equal(t, "delfil1.dat", tr.Request().Datasets[0].Name)

	got := tr.Request()
	got.Datasets[0] = dataset.New("changed.dat")
	assert.Equal(t, "delfil1.dat", tr.Request().Datasets[0].Name)
}

func TestClaimOnce(t *testing.T) {
	tr := New(endToEndRequest())

	require.NoError(t, tr.claim(testURLs()))
	assert.Equal(t, StateSent, tr.State())

	err := tr.claim(testURLs())
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.Contains(t, tr.String(), "Sent without an accepted result.")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unsent", StateUnsent.String())
	assert.Equal(t, "sent", StateSent.String())
	assert.Equal(t, "State(7)", State(7).String())
}

func TestTransferStringAndJSONAfterSend(t *testing.T) {
	_, provider := newStub(t, http.StatusOK, acceptedBody)
	exec, err := NewExecutor(provider)
	require.NoError(t, err)

	tr := New(endToEndRequest())
	_, err = exec.Send(context.Background(), tr, nil)
	require.NoError(t, err)

	s := tr.String()
	assert.Contains(t, s, "Transfer for statbank table 05300.")
	assert.Contains(t, s, "Publishing: 2024-08-15 08:00.")
	assert.True(t, strings.HasSuffix(s, "/lastelogg/gui/98765"))

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, tr.ID().String(), got["id"])
	assert.Equal(t, "sent", got["state"])
	assert.Equal(t, "05300", got["table_id"])
	assert.Equal(t, "98765", got["job_id"])
	assert.Equal(t, "2024-08-15T08:00:00Z", got["publish"])
	assert.Equal(t, []any{"delfil1.dat"}, got["datasets"])
	assert.Equal(t, true, got["validation"])
	assert.NotContains(t, string(raw), "0301")
	assert.NotContains(t, string(raw), "c2VjcmV0")
}

func TestTransferJSONUnsent(t *testing.T) {
	raw, err := json.Marshal(New(endToEndRequest()))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "unsent", got["state"])
	assert.NotContains(t, got, "job_id")
	assert.NotContains(t, got, "publish")
}

func testURLs() auth.URLs {
	return auth.URLs{Loader: "http://localhost/load", GUI: "http://localhost/gui/", API: "http://localhost/api/"}
}
