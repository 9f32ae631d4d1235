package transfer

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/statbank-go/statbank/pkg/auth"
)

// State is the lifecycle position of a Transfer.
type State int

const (
	// StateUnsent is the initial state.
	StateUnsent State = iota
	// StateSent is final. It is entered when the POST is attempted,
	// whether or not the service accepts it.
	StateSent
)

func (s State) String() string {
	switch s {
	case StateUnsent:
		return "unsent"
	case StateSent:
		return "sent"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transfer is a single upload of one Request. It moves from StateUnsent to
// StateSent exactly once; send a new Transfer to try again.
type Transfer struct {
	id  uuid.UUID
	req Request

	mu     sync.Mutex
	state  State
	urls   auth.URLs
	result *Result
}

// New wraps req in an unsent Transfer.
func New(req Request) *Transfer {
	return &Transfer{
		id:  uuid.New(),
		req: req.clone(),
	}
}

// ID identifies the transfer in logs and snapshots. It is never sent.
func (t *Transfer) ID() uuid.UUID {
	return t.id
}

// Request returns a copy of the request.
func (t *Transfer) Request() Request {
	return t.req.clone()
}

// State returns the current lifecycle state.
func (t *Transfer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the result of an accepted transfer, or nil.
func (t *Transfer) Result() *Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// claim performs the Unsent -> Sent transition.
func (t *Transfer) claim(urls auth.URLs) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateSent {
		return t.alreadySentLocked()
	}
	t.state = StateSent
	t.urls = urls
	return nil
}

func (t *Transfer) complete(res *Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = res
}

func (t *Transfer) alreadySent() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alreadySentLocked()
}

func (t *Transfer) alreadySentLocked() error {
	if t.result != nil {
		return fmt.Errorf("%w: table %s, load log %s; create a new transfer to send again",
			ErrAlreadySent, t.req.TableID, t.result.LogURL)
	}
	return fmt.Errorf("%w: table %s; create a new transfer to send again", ErrAlreadySent, t.req.TableID)
}

func (t *Transfer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.state == StateUnsent:
		return fmt.Sprintf("Transfer for statbank table %s.\nloaduser: %s.\nNot transferred yet.",
			t.req.TableID, t.req.LoadUser)
	case t.result == nil:
		return fmt.Sprintf("Transfer for statbank table %s.\nloaduser: %s.\nSent without an accepted result.",
			t.req.TableID, t.req.LoadUser)
	default:
		return fmt.Sprintf("Transfer for statbank table %s.\nloaduser: %s.\nPublishing: %s.\nLoad log: %s",
			t.req.TableID, t.req.LoadUser, t.result.Publish.Format("2006-01-02 15:04"), t.result.LogURL)
	}
}

// snapshot is the JSON form of a Transfer. Data and credentials are left out.
type snapshot struct {
	ID          string     `json:"id"`
	State       string     `json:"state"`
	TableID     string     `json:"table_id"`
	LoadUser    string     `json:"loaduser"`
	Initials    string     `json:"initials"`
	Recipient1  string     `json:"recipient1"`
	Recipient2  string     `json:"recipient2"`
	PublishDate string     `json:"publish_date"`
	Overwrite   Overwrite  `json:"overwrite"`
	Approve     Approve    `json:"approve"`
	Validation  bool       `json:"validation"`
	Datasets    []string   `json:"datasets"`
	LoaderURL   string     `json:"loader_url,omitempty"`
	JobID       string     `json:"job_id,omitempty"`
	Publish     *time.Time `json:"publish,omitempty"`
	LogURL      string     `json:"log_url,omitempty"`
	APIURL      string     `json:"api_url,omitempty"`
}

// MarshalJSON renders the transfer parameters and outcome.
func (t *Transfer) MarshalJSON() ([]byte, error) {
	t.mu.Lock()
	s := snapshot{
		ID:          t.id.String(),
		State:       t.state.String(),
		TableID:     t.req.TableID,
		LoadUser:    t.req.LoadUser,
		Initials:    t.req.Initials,
		Recipient1:  t.req.Recipient1,
		Recipient2:  t.req.Recipient2,
		PublishDate: t.req.PublishDate,
		Overwrite:   t.req.Overwrite,
		Approve:     t.req.Approve,
		Validation:  !t.req.SkipValidation,
		Datasets:    t.req.DatasetNames(),
		LoaderURL:   t.urls.Loader,
	}
	if t.result != nil {
		publish := t.result.Publish
		s.JobID = t.result.JobID
		s.Publish = &publish
		s.LogURL = t.result.LogURL
		s.APIURL = t.result.APIURL
	}
	t.mu.Unlock()

	return json.Marshal(s)
}
