package agent

import "errors"

// Sentinel errors for transport failures. Callers check these with
// errors.Is; the same conditions are mirrored into the client's
// observable error state.
var (
	// ErrNoUser indicates no authenticated user is configured. Checked
	// before any network activity.
	ErrNoUser = errors.New("no authenticated user configured")

	// ErrEmptyMessage indicates the outbound message text was empty.
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrStream indicates the backend reported an error mid-stream.
	ErrStream = errors.New("stream error")
)
