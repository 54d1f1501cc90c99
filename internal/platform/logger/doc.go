// Package logger provides structured logging for the application: a JSON
// slog handler configured from the server config, plus helpers for carrying
// a request-scoped logger through context.Context.
package logger
