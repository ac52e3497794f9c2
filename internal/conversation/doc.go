// Package conversation owns the ordered message log of one AI copilot
// conversation.
//
// The Store layers persistence and streaming assembly on top of the
// agent transport: user turns are appended optimistically, streaming
// chunks grow a single provisional assistant entry in place, and the
// settled server response replaces the provisional entry with the
// definitive message carrying insights and suggestions.
//
// Lifecycle is explicit: New loads any persisted history, mutations
// persist best-effort after every change, and Close marks the store
// dead so late streaming callbacks from an abandoned request cannot
// touch it. There is no ambient global state.
package conversation
