// Package models defines the request/response shapes shared by the
// dispatcher and both transport surfaces.
package models

// Error codes returned in ToolError.Code.
const (
	ErrCodeUnknownTool = "UNKNOWN_TOOL"
	ErrCodeProcessing  = "PROCESSING_ERROR"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// ToolRequest is a single inbound tool invocation.
type ToolRequest struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// ToolError carries a human-readable message and a coarse error code.
type ToolError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ToolResponse is the single answer produced for every request. Result and
// Error are mutually exclusive.
type ToolResponse struct {
	ID     string     `json:"id,omitempty"`
	Result any        `json:"result,omitempty"`
	Error  *ToolError `json:"error,omitempty"`
}

// NewErrorResponse builds an error response for the given request ID.
func NewErrorResponse(id, message, code string) ToolResponse {
	return ToolResponse{
		ID:    id,
		Error: &ToolError{Message: message, Code: code},
	}
}
