package tools

// ToolError defines a structured error format for tool dispatch failures.
// It lets callers (the backend or UI layer) distinguish bad arguments
// from unknown discriminators without string matching.
type ToolError struct {
	ErrorType string `json:"error_type"` // e.g., "UnknownCalculation", "InvalidArguments", "EmptyData"
	Message   string `json:"message"`
}

// Error implements the error interface.
// Uses pointer receiver to avoid unnecessary copying and ensure consistency.
func (e *ToolError) Error() string {
	if e == nil {
		return "<nil ToolError>"
	}
	if e.ErrorType == "" && e.Message == "" {
		return "<empty ToolError>"
	}
	if e.ErrorType == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.ErrorType
	}
	return e.ErrorType + ": " + e.Message
}
