// Package agent implements the HTTP transport to the Venturely AI
// copilot backend.
//
// The Client issues one logical request per call: a plain JSON exchange
// against POST /api/ai/chat, or a streaming exchange against
// POST /api/ai/chat/stream whose Server-Sent Events are surfaced
// chunk-by-chunk through a callback before settling into the same
// normalized Response shape.
//
// The client tracks observable in-flight and last-error state alongside
// the normal Go error returns, so a UI layer can render progress and
// failure without inspecting errors itself. Errors are never panicked.
//
// Architecture:
//
//	caller ──> Client.SendMessage ──> rate limiter ──> HTTP
//	                │                                   │
//	                │<── OnChunk (streaming) <── SSE ───┤
//	                └<── *Response <── normalize <──────┘
package agent
