// Package transfer uploads tables to the Statbank transfer API.
//
// A transfer is built from a [Request], wrapped in a [Transfer] and sent
// exactly once by an [Executor]:
//
//	exec, err := transfer.NewExecutor(provider, transfer.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	t := transfer.New(transfer.Request{
//	    Datasets:    []dataset.Table{tbl},
//	    TableID:     "05300",
//	    LoadUser:    "LAST330",
//	    Initials:    "abc",
//	    Recipient1:  "abc",
//	    Recipient2:  "abc",
//	    PublishDate: transfer.PublishOn(time.Now().AddDate(0, 0, 1)),
//	    Overwrite:   transfer.OverwriteYes,
//	    Approve:     transfer.ApproveJIT,
//	})
//	res, err := exec.Send(ctx, t, nil)
//
// # Wire format
//
// The request parameters travel in the query string. The body is a
// hand-rolled multipart text: one section per dataset, rows separated by
// semicolons, CRLF line endings. The service answers with a JSON object
// whose TotalResult.Message is scraped for the job id and publish time.
// Any change in that message shape is reported as ErrUnexpectedResponse
// and must not be retried.
//
// # Errors
//
// Failures can be classified with errors.Is against ErrInvalidParameter,
// ErrNoDatasets, ErrAlreadySent, ErrService and ErrUnexpectedResponse.
package transfer
