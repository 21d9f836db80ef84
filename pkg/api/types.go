package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// VariableRequest is the body of a variable write. Data travels as
// base64, which is what encoding/json does with byte slices.
type VariableRequest struct {
	Attributes uint32 `json:"attributes"`
	Data       []byte `json:"data"`
}

// VariableInfo describes one stored variable. List responses omit Data;
// single-variable reads include it.
type VariableInfo struct {
	GUID       string `json:"guid"`
	Name       string `json:"name"`
	Attributes uint32 `json:"attributes"`
	Size       int    `json:"size"`
	Data       []byte `json:"data,omitempty"`
	Revision   string `json:"revision,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string

	// Backend is one of "memory", "pebble" or "efivarfs".
	Backend   string
	PebbleDir string
	EfiVarDir string
	// SeedList is an optional variable list blob imported when the
	// store is opened.
	SeedList string
}
