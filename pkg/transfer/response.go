package transfer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const publishDateLayout = "02.01.2006 15:04:05"

// MessageFormat names the markers scraped out of the response message.
type MessageFormat struct {
	// JobMarker precedes the job id, which runs until " =".
	JobMarker string
	// DateMarker precedes the publish date, which runs until "',".
	DateMarker string
	// TimeMarker precedes the publish time as HH:MM.
	TimeMarker string
}

var (
	// DefaultMessageFormat matches the English service message.
	DefaultMessageFormat = MessageFormat{
		JobMarker:  "job number:",
		DateMarker: "Publishing date '",
		TimeMarker: "Publishing time '",
	}

	// NorwegianMessageFormat matches the Norwegian service message.
	NorwegianMessageFormat = MessageFormat{
		JobMarker:  "lasteoppdragsnummer:",
		DateMarker: "Publiseringsdato '",
		TimeMarker: "Publiseringstid '",
	}
)

// Result is the outcome of an accepted transfer.
type Result struct {
	// JobID is the numeric load job assigned by the service.
	JobID string

	// Publish is when the data becomes public.
	Publish time.Time

	// Payload is the raw response body.
	Payload json.RawMessage

	// LogURL and APIURL point at the load log for JobID.
	LogURL string
	APIURL string
}

// ResponseParser extracts a Result from a success payload.
type ResponseParser struct {
	// Format defaults to DefaultMessageFormat.
	Format MessageFormat

	// Location is used for the publish timestamp, UTC when nil.
	Location *time.Location
}

// ParseResponse parses payload with the default message format in UTC.
func ParseResponse(payload []byte) (*Result, error) {
	return ResponseParser{}.Parse(payload)
}

// Parse reads TotalResult.Message from payload. It either returns a
// complete Result or a *ResponseError.
func (p ResponseParser) Parse(payload []byte) (*Result, error) {
	format := p.Format
	if format == (MessageFormat{}) {
		format = DefaultMessageFormat
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	var body struct {
		TotalResult struct {
			Message *string `json:"Message"`
		} `json:"TotalResult"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &ResponseError{Reason: "decode json: " + err.Error(), Payload: payload}
	}
	if body.TotalResult.Message == nil {
		return nil, &ResponseError{Reason: "missing TotalResult.Message", Payload: payload}
	}
	msg := *body.TotalResult.Message

	jobID, err := scrapeJobID(msg, format.JobMarker)
	if err != nil {
		return nil, &ResponseError{Reason: err.Error(), Payload: payload}
	}
	date, err := scrapeDate(msg, format.DateMarker, loc)
	if err != nil {
		return nil, &ResponseError{Reason: err.Error(), Payload: payload}
	}
	offset, err := scrapeTime(msg, format.TimeMarker)
	if err != nil {
		return nil, &ResponseError{Reason: err.Error(), Payload: payload}
	}

	return &Result{
		JobID:   jobID,
		Publish: date.Add(offset),
		Payload: append(json.RawMessage(nil), payload...),
	}, nil
}

func scrapeJobID(msg, marker string) (string, error) {
	rest, ok := after(msg, marker)
	if !ok {
		return "", fmt.Errorf("job marker %q not found", marker)
	}
	id := before(rest, " =")
	if !isDigits(id) {
		return "", fmt.Errorf("job id %q is not a plain number", id)
	}
	return id, nil
}

// scrapeDate returns midnight of the publish date.
func scrapeDate(msg, marker string, loc *time.Location) (time.Time, error) {
	rest, ok := after(msg, marker)
	if !ok {
		return time.Time{}, fmt.Errorf("publish date marker %q not found", marker)
	}
	raw := before(rest, "',")
	d, err := time.ParseInLocation(publishDateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse publish date %q: %w", raw, err)
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc), nil
}

// scrapeTime returns the publish time as an offset from midnight.
func scrapeTime(msg, marker string) (time.Duration, error) {
	rest, ok := after(msg, marker)
	if !ok {
		return 0, fmt.Errorf("publish time marker %q not found", marker)
	}
	parts := strings.Split(rest, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("publish time %q is not HH:MM", before(rest, "'"))
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("parse publish hour: %w", err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(before(parts[1], "'")))
	if err != nil {
		return 0, fmt.Errorf("parse publish minute: %w", err)
	}
	return time.Duration(hour*3600+minute*60) * time.Second, nil
}

func after(s, marker string) (string, bool) {
	i := strings.Index(s, marker)
	if i < 0 {
		return "", false
	}
	return s[i+len(marker):], true
}

func before(s, delim string) string {
	head, _, _ := strings.Cut(s, delim)
	return head
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
