// Package log is the logging abstraction shared by the statbank packages.
//
// Library code logs through the Logger interface so callers can plug in
// their own logging stack. A zerolog adapter and a no-op logger are provided:
//
//	logger := log.NewZerologAdapter(os.Stderr, "info", "console")
//	logger.Info("transfer accepted", log.String("job_id", id))
//
// Tests and callers that want silence use log.NewNoopLogger().
package log
