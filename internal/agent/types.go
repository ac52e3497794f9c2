package agent

import "time"

// Insight types. Closed enum; the backend is trusted to send one of
// these values.
const (
	InsightRecommendation = "recommendation"
	InsightWarning        = "warning"
	InsightOpportunity    = "opportunity"
	InsightRisk           = "risk"
)

// Insight priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Insight is a structured observation attached to an assistant
// response. Immutable once received.
type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Actionable  bool   `json:"actionable"`
}

// Response is the normalized agent answer. Timestamp is parsed from the
// backend's ISO representation; streaming and non-streaming exchanges
// settle into the same shape.
type Response struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	Agent       string         `json:"agent,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Insights    []Insight      `json:"insights,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// wireResponse is the backend's response body: identical to Response
// except the timestamp arrives as an ISO-formatted string.
type wireResponse struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	Agent       string         `json:"agent,omitempty"`
	Timestamp   string         `json:"timestamp"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Insights    []Insight      `json:"insights,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// normalize converts the wire shape into a Response. An absent or
// malformed timestamp falls back to the receipt time.
func (w *wireResponse) normalize() *Response {
	ts, err := time.Parse(time.RFC3339, w.Timestamp)
	if err != nil {
		ts = time.Now()
	}
	return &Response{
		ID:          w.ID,
		Content:     w.Content,
		Agent:       w.Agent,
		Timestamp:   ts,
		Suggestions: w.Suggestions,
		Insights:    w.Insights,
		Metadata:    w.Metadata,
	}
}

// request is the outbound payload for both chat endpoints.
type request struct {
	UserID    string         `json:"userId"`
	UserType  string         `json:"userType"`
	Message   string         `json:"message"`
	SessionID string         `json:"sessionId"`
	Streaming bool           `json:"streaming"`
	Context   map[string]any `json:"context,omitempty"`
}
