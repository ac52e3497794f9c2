package conversation

import "errors"

var (
	// ErrTurnInFlight indicates SendMessage was called while a previous
	// turn is still streaming. Overlapping turns are rejected rather
	// than queued; the caller is free to resend after settlement.
	ErrTurnInFlight = errors.New("a message is already in flight")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("conversation store is closed")

	// ErrEmptyContent indicates the outbound message text was empty.
	ErrEmptyContent = errors.New("message content must not be empty")
)
