// Package app assembles the HTTP server: configuration, structured
// logging, metrics, the analysis service primed from the data file, the
// chi router with its middleware chain, and graceful shutdown on
// interrupt.
package app
