// Package application provides application initialization and dependency wiring.
// It resolves the host override, builds the UI configuration snapshot, and
// creates the metrics, handlers, routers and HTTP server instances, keeping
// the main package focused on CLI parsing and orchestration.
package application
