// Package session provides stable per-profile conversation session identity.
//
// Responsibilities: produce or reuse the opaque session identifier that
// scopes a conversation thread on the agent backend.
//
// The identifier is created lazily on first use, persisted in local
// key-value storage, and never regenerated unless storage is cleared.
// When storage is unavailable the provider degrades to an in-memory
// identifier: session continuity across restarts is lost, but callers
// never see a failure.
package session
