// Package uiconfig builds the runtime settings snapshot handed to the web UI.
// A snapshot combines, in increasing precedence, the static defaults, flags
// derived from the build environment and an optional host-supplied override
// mapping. Snapshots are immutable once built.
package uiconfig
