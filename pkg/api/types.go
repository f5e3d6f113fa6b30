package api

import "github.com/xybyte/journalback/pkg/export"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the gateway server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // empty disables authentication

	// Files are the journal export files served, scanned in order on
	// every request. The format has no random access, so a request is
	// always a fresh sequential decode.
	Files []string

	// DefaultOutput is the rendering used when a request names no
	// output mode.
	DefaultOutput export.OutputMode
}
