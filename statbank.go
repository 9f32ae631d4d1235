// Package statbank sends tables to the Statbank transfer API.
//
// A Client carries the user defaults that notebook tooling used to
// read from the environment: load user, initials, notification recipients,
// publish date and the overwrite/approval flags. Callers resolve them up
// front and pass them in:
//
//	provider, err := auth.NewBasic(auth.BasicConfig{
//	    BaseURL:  "https://statbank.example.org",
//	    LoadUser: "LAST330",
//	    Password: password,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := statbank.NewClient(statbank.Config{
//	    LoadUser:  "LAST330",
//	    ShortUser: "abc",
//	}, provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t, err := client.Transfer(ctx, "05300", tbl)
package statbank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"

	"github.com/statbank-go/statbank/pkg/auth"
	"github.com/statbank-go/statbank/pkg/dataset"
	"github.com/statbank-go/statbank/pkg/transfer"
)

// Re-exported for callers that only import the root package.
type (
	Table    = dataset.Table
	Row      = dataset.Row
	Result   = transfer.Result
	Request  = transfer.Request
	Transfer = transfer.Transfer
)

// Config holds the defaults applied to every transfer made by a Client.
type Config struct {
	// LoadUser is the Statbank load user. Required.
	LoadUser string

	// ShortUser is the submitter's three-letter initials.
	ShortUser string

	// CC and BCC receive load notifications. CC defaults to ShortUser and
	// BCC to CC.
	CC  string
	BCC string

	// Date is the publish date. Zero means the day after the transfer is built.
	Date time.Time

	// Overwrite defaults to transfer.OverwriteYes.
	Overwrite transfer.Overwrite

	// Approve defaults to transfer.ApproveJIT.
	Approve transfer.Approve

	SkipValidation bool
}

// DefaultConfig returns a Config with the default overwrite and approval flags.
func DefaultConfig() Config {
	return Config{
		Overwrite: transfer.OverwriteYes,
		Approve:   transfer.ApproveJIT,
	}
}

// setDefaults fills unset fields from DefaultConfig, then derives CC from
// ShortUser and BCC from CC.
func (c *Config) setDefaults() error {
	if err := mergo.Merge(c, DefaultConfig()); err != nil {
		return fmt.Errorf("statbank: merge defaults: %w", err)
	}
	if c.CC == "" {
		c.CC = c.ShortUser
	}
	if c.BCC == "" {
		c.BCC = c.CC
	}
	return nil
}

// Client builds and sends transfers with a fixed set of defaults.
type Client struct {
	cfg  Config
	exec *transfer.Executor
	now  func() time.Time
}

// NewClient validates cfg and creates a Client. opts configure the
// underlying executor.
func NewClient(cfg Config, provider auth.Provider, opts ...transfer.Option) (*Client, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	if cfg.LoadUser == "" {
		return nil, errors.New("statbank: load user is required")
	}

	exec, err := transfer.NewExecutor(provider, opts...)
	if err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, exec: exec, now: time.Now}

	if !cfg.SkipValidation {
		if err := c.request("00000", nil).Validate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Config returns the resolved defaults.
func (c *Client) Config() Config {
	return c.cfg
}

// NewTransfer builds an unsent transfer for tableID. Send it later with
// Send.
func (c *Client) NewTransfer(tableID string, tables ...dataset.Table) *transfer.Transfer {
	return transfer.New(c.request(tableID, tables))
}

// Send sends a transfer built by NewTransfer.
func (c *Client) Send(ctx context.Context, t *transfer.Transfer) (*transfer.Result, error) {
	return c.exec.Send(ctx, t, nil)
}

// Transfer builds and sends a transfer. The transfer is returned even when
// sending fails so the caller can inspect its state.
func (c *Client) Transfer(ctx context.Context, tableID string, tables ...dataset.Table) (*transfer.Transfer, error) {
	t := c.NewTransfer(tableID, tables...)
	if _, err := c.Send(ctx, t); err != nil {
		return t, err
	}
	return t, nil
}

func (c *Client) request(tableID string, tables []dataset.Table) transfer.Request {
	date := c.cfg.Date
	if date.IsZero() {
		date = c.now().AddDate(0, 0, 1)
	}
	return transfer.Request{
		Datasets:       tables,
		TableID:        tableID,
		LoadUser:       c.cfg.LoadUser,
		Initials:       c.cfg.ShortUser,
		Recipient1:     c.cfg.CC,
		Recipient2:     c.cfg.BCC,
		PublishDate:    transfer.PublishOn(date),
		Overwrite:      c.cfg.Overwrite,
		Approve:        c.cfg.Approve,
		SkipValidation: c.cfg.SkipValidation,
	}
}
