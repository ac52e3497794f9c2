package conversation

import (
	"time"

	"github.com/venturely/venturely/internal/agent"
)

// Message roles. Closed enum.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StorageKey is the local storage key holding the serialized message
// log. Timestamps serialize as ISO strings through time.Time's standard
// JSON encoding.
const StorageKey = "conversation_history"

// Message is one conversational turn. Messages are totally ordered by
// insertion; a streaming assistant message is replaced in place until
// it settles and is never mutated afterwards.
type Message struct {
	ID          string          `json:"id"`
	Role        string          `json:"role"`
	Content     string          `json:"content"`
	Timestamp   time.Time       `json:"timestamp"`
	Insights    []agent.Insight `json:"insights,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}
