package transfer

import (
	"net/url"
	"time"

	"github.com/statbank-go/statbank/pkg/dataset"
)

// DateLayout is the publish date format expected by the service.
const DateLayout = "2006-01-02"

// Overwrite controls how the service treats rows that already exist.
type Overwrite string

const (
	// OverwriteNo makes duplicates fail the load.
	OverwriteNo Overwrite = "0"
	// OverwriteYes replaces existing data.
	OverwriteYes Overwrite = "1"
)

// Approve controls when loaded data is approved for publishing.
type Approve string

const (
	ApproveManual    Approve = "0"
	ApproveImmediate Approve = "1"
	// ApproveJIT approves right before the publishing time.
	ApproveJIT Approve = "2"
)

// Request holds the parameters of one transfer. It is treated as a value:
// the executor never modifies it.
type Request struct {
	// Datasets are sent in order; names must be unique.
	Datasets []dataset.Table

	// TableID is the main table id, e.g. "05300".
	TableID string

	// LoadUser is the Statbank load user submitting the data.
	LoadUser string

	// Initials of the submitter and of the two people notified by email.
	Initials   string
	Recipient1 string
	Recipient2 string

	// PublishDate is formatted as DateLayout.
	PublishDate string

	Overwrite Overwrite
	Approve   Approve

	// SkipValidation disables the parameter checks in Validate.
	// Dataset checks always run.
	SkipValidation bool
}

// PublishOn formats t as a publish date.
func PublishOn(t time.Time) string {
	return t.Format(DateLayout)
}

// Params returns the query parameters of the transfer POST.
func (r Request) Params() url.Values {
	return url.Values{
		"initialier":          {r.Initials},
		"hovedtabell":         {r.TableID},
		"publiseringsdato":    {r.PublishDate},
		"fagansvarlig1":       {r.Recipient1},
		"fagansvarlig2":       {r.Recipient2},
		"auto_overskriv_data": {string(r.Overwrite)},
		"auto_godkjenn_data":  {string(r.Approve)},
	}
}

// DatasetNames lists the dataset names in send order.
func (r Request) DatasetNames() []string {
	names := make([]string, len(r.Datasets))
	for i, d := range r.Datasets {
		names[i] = d.Name
	}
	return names
}

func (r Request) clone() Request {
	c := r
	c.Datasets = append([]dataset.Table(nil), r.Datasets...)
	return c
}
