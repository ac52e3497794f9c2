package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/venturely/venturely/internal/agent"
	"github.com/venturely/venturely/internal/log"
	"github.com/venturely/venturely/internal/storage"
)

// Transport issues one logical agent request. Satisfied by
// *agent.Client.
type Transport interface {
	SendMessage(ctx context.Context, message string, opts *agent.Options) (*agent.Response, error)
}

// turnState tracks the lifecycle of the current in-flight turn.
// Settlement and failure both return the store to turnIdle.
type turnState int

const (
	turnIdle turnState = iota
	turnPending
	turnStreaming
)

// turn is the bookkeeping for one in-flight exchange. The provisional
// ID identifies the single assistant entry that grows as chunks arrive
// and is replaced on settlement.
type turn struct {
	provisionalID string
	assembled     strings.Builder
}

// Store owns the message log for one conversation.
//
// All state is guarded by mu. Streaming callbacks re-enter the store
// from the transport goroutine; each one revalidates liveness and that
// it belongs to the current turn before touching the log, so a closed
// store or a superseded turn ignores late callbacks.
type Store struct {
	transport Transport
	storage   storage.Store
	logger    log.Logger

	mu       sync.Mutex
	messages []Message
	state    turnState
	current  *turn
	closed   bool
	observer func(text string)
}

// SetChunkObserver registers a callback invoked with each incremental
// fragment after it is applied to the log, so a UI layer can render
// streaming output. Pass nil to remove the observer.
func (s *Store) SetChunkObserver(fn func(text string)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// New builds a conversation store and loads any persisted history.
// Corrupt or missing history is tolerated: the store starts empty and
// logs a warning.
func New(transport Transport, store storage.Store, logger log.Logger) (*Store, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	s := &Store{
		transport: transport,
		storage:   store,
		logger:    logger.With("component", "conversation"),
	}
	s.load()
	return s, nil
}

// Close marks the store dead. Late chunk or settlement callbacks from
// an in-flight request are ignored afterwards. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Messages returns a copy of the current log in conversational order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// InFlight reports whether a turn is currently pending or streaming.
func (s *Store) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != turnIdle
}

// SendMessage appends the user message optimistically, then drives one
// streaming exchange against the transport. Chunks grow a single
// provisional assistant entry in place; settlement replaces it with the
// definitive server message.
//
// A call while a previous turn is in flight fails with ErrTurnInFlight.
func (s *Store) SendMessage(ctx context.Context, content string, extra map[string]any) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != turnIdle {
		s.mu.Unlock()
		return ErrTurnInFlight
	}

	t := &turn{provisionalID: uuid.NewString()}
	s.state = turnPending
	s.current = t

	s.messages = append(s.messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.persistLocked()
	s.mu.Unlock()

	resp, err := s.transport.SendMessage(ctx, content, &agent.Options{
		Streaming: true,
		Context:   extra,
		OnChunk:   func(text string) { s.applyChunk(t, text) },
	})

	if err != nil {
		s.failTurn(t)
		return fmt.Errorf("send failed: %w", err)
	}

	s.settleTurn(t, resp)
	return nil
}

// applyChunk grows the provisional assistant entry with the cumulative
// streamed text. Exactly one assistant entry exists for the turn at
// every step: the first chunk appends it, later chunks replace it by
// provisional ID.
func (s *Store) applyChunk(t *turn, text string) {
	s.mu.Lock()

	if s.closed || s.current != t {
		s.mu.Unlock()
		return
	}

	t.assembled.WriteString(text)

	partial := Message{
		ID:        t.provisionalID,
		Role:      RoleAssistant,
		Content:   t.assembled.String(),
		Timestamp: time.Now(),
	}

	if s.state == turnPending {
		s.state = turnStreaming
		s.messages = append(s.messages, partial)
	} else {
		s.replaceLocked(t.provisionalID, partial)
	}
	s.persistLocked()

	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(text)
	}
}

// settleTurn replaces the provisional entry with the definitive server
// message and returns the store to idle.
func (s *Store) settleTurn(t *turn, resp *agent.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.current != t {
		return
	}

	final := Message{
		ID:          resp.ID,
		Role:        RoleAssistant,
		Content:     resp.Content,
		Timestamp:   resp.Timestamp,
		Insights:    resp.Insights,
		Suggestions: resp.Suggestions,
		Metadata:    resp.Metadata,
	}
	if final.ID == "" {
		final.ID = t.provisionalID
	}

	if s.state == turnStreaming {
		s.replaceLocked(t.provisionalID, final)
	} else {
		// No chunks arrived before settlement.
		s.messages = append(s.messages, final)
	}

	s.state = turnIdle
	s.current = nil
	s.persistLocked()
}

// failTurn drops any provisional partial for the failed turn. The user
// message stays so the caller can resend.
func (s *Store) failTurn(t *turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.current != t {
		return
	}

	if s.state == turnStreaming {
		s.removeLocked(t.provisionalID)
		s.persistLocked()
	}
	s.state = turnIdle
	s.current = nil
}

// ClearHistory empties the log and removes the persisted copy. Safe to
// call on an already-empty log.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	if err := s.storage.Delete(StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to remove persisted history", "error", err)
	}
}

// DeleteMessage removes exactly one message by identifier. Absent
// identifiers are a no-op.
func (s *Store) DeleteMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeLocked(id) {
		s.persistLocked()
	}
}

// RegenerateLastResponse discards the last answer and re-asks the most
// recent user question. Without a prior user message it is a no-op.
func (s *Store) RegenerateLastResponse(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != turnIdle {
		s.mu.Unlock()
		return ErrTurnInFlight
	}

	lastUser := -1
	lastAssistant := -1
	for i, msg := range s.messages {
		switch msg.Role {
		case RoleUser:
			lastUser = i
		case RoleAssistant:
			lastAssistant = i
		}
	}
	if lastUser < 0 {
		s.mu.Unlock()
		return nil
	}

	content := s.messages[lastUser].Content

	// Drop the answered-or-unanswered tail: everything from the most
	// recent assistant message onward, including the user message being
	// re-asked so SendMessage can append it fresh.
	cut := lastUser
	if lastAssistant >= 0 && lastAssistant < cut {
		cut = lastAssistant
	}
	s.messages = s.messages[:cut]
	s.persistLocked()
	s.mu.Unlock()

	return s.SendMessage(ctx, content, nil)
}

// replaceLocked swaps the message carrying id for replacement, in
// place. Caller holds mu.
func (s *Store) replaceLocked(id string, replacement Message) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i] = replacement
			return
		}
	}
}

// removeLocked deletes the message carrying id, reporting whether
// anything changed. Caller holds mu.
func (s *Store) removeLocked(id string) bool {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true
		}
	}
	return false
}

// persistLocked writes the log to storage when non-empty. Failures are
// logged, never surfaced; the conversation continues in memory.
// Caller holds mu.
func (s *Store) persistLocked() {
	if len(s.messages) == 0 {
		return
	}

	data, err := json.Marshal(s.messages)
	if err != nil {
		s.logger.Warn("failed to encode history", "error", err)
		return
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Warn("failed to persist history", "error", err)
	}
}

// load restores persisted history. Missing or corrupt data leaves the
// log empty.
func (s *Store) load() {
	data, err := s.storage.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read persisted history", "error", err)
		}
		return
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		s.logger.Warn("persisted history is corrupt, starting empty", "error", err)
		return
	}

	s.messages = messages
	s.logger.Debug("history restored", "messages", len(messages))
}
