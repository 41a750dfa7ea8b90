// Package http implements the HTTP handlers for the analysis read API.
//
// Handlers depend on the AnalysisServiceInterface and render JSON with
// chi/render. Service-level no-data and validation errors map to typed
// API errors from internal/errors; anything else becomes a logged 500.
package http
