package session

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/venturely/venturely/internal/log"
	"github.com/venturely/venturely/internal/storage"
)

// StorageKey is the key under which the session identifier is persisted.
const StorageKey = "ai_session_id"

// Provider produces the per-profile session identifier.
//
// Provider is safe for concurrent use. Repeated calls to GetOrCreate
// within one Provider always return the same value; with working
// storage the value also survives process restarts.
type Provider struct {
	store  storage.Store
	logger log.Logger

	mu     sync.Mutex
	cached string
}

// NewProvider creates a Provider backed by the given store.
//
// Parameters:
//   - store: Persistent key-value store (nil = in-memory only)
//   - logger: Logger for debugging (nil = use Nop)
func NewProvider(store storage.Store, logger log.Logger) *Provider {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Provider{store: store, logger: logger}
}

// GetOrCreate returns the session identifier, creating and persisting a
// new one on first use.
//
// Behavior:
//   - An identifier already in storage is returned unchanged.
//   - Otherwise a new UUID is generated, persisted, and returned.
//   - Storage failures degrade to an in-memory identifier for this
//     Provider; they are logged and never surfaced to the caller.
func (p *Provider) GetOrCreate() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	if id := p.load(); id != "" {
		p.cached = id
		return id
	}

	id := uuid.NewString()
	p.persist(id)
	p.cached = id

	p.logger.Debug("created session identifier", "session_id", id)
	return id
}

// Reset discards the cached and persisted identifier. The next
// GetOrCreate call generates a fresh one, which the backend treats as a
// brand-new conversation.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = ""
	if p.store == nil {
		return
	}
	if err := p.store.Delete(StorageKey); err != nil {
		p.logger.Warn("failed to clear session identifier", "error", err)
	}
}

// load reads a previously persisted identifier, tolerating missing or
// malformed values.
func (p *Provider) load() string {
	if p.store == nil {
		return ""
	}

	data, err := p.store.Get(StorageKey)
	if err != nil {
		return ""
	}

	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		p.logger.Warn("stored session identifier is malformed, regenerating", "error", err)
		return ""
	}
	return id
}

// persist writes the identifier best-effort.
func (p *Provider) persist(id string) {
	if p.store == nil {
		return
	}

	data, err := json.Marshal(id)
	if err != nil {
		p.logger.Warn("failed to encode session identifier", "error", err)
		return
	}
	if err := p.store.Set(StorageKey, data); err != nil {
		p.logger.Warn("failed to persist session identifier, continuing in-memory", "error", err)
	}
}
