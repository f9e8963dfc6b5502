// Package storage provides the host override sources merged over the UI
// defaults at startup: in-memory mappings, YAML/JSON files and chains of both.
package storage
