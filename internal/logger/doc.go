// Package logger provides structured logging built on the standard slog
// package: a factory with environment presets and nil-safe attribute helpers
// for the identifiers this service logs most (users, sessions, requests).
//
// Basic usage:
//
//	log := logger.New(logger.WithProduction("gatehouse"))
//	log.Info("user logged in",
//		logger.Component("auth"),
//		logger.UserID(user.ID),
//	)
package logger
