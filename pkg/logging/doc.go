// Package logging provides structured logging configuration for talentflow.
//
// It wraps log/slog so the store, dispatcher, seeder and CLI all log the same
// way. Components accept a *slog.Logger in their constructor; a nil logger is
// replaced with Nop().
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("store opened", "path", path)
//	logger.Debug("dispatch", "method", "GET", "path", "/jobs", "status", 200)
package logging
