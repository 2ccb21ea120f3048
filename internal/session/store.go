// Package session keeps per-browser page state and guards recipe generation
// so a session has at most one request in flight.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipe-companion/backend/internal/types"
)

// ErrGenerationInFlight is returned when a session already has a recipe request running
var ErrGenerationInFlight = errors.New("a recipe is already being generated for this session")

// DefaultInFlightTTL caps how long a stuck in-flight marker can block a session.
// Recipe requests must finish within it, see MaxGenerationTime.
const DefaultInFlightTTL = 2 * time.Minute

// MaxGenerationTime bounds a recipe request so it ends before its marker expires
const MaxGenerationTime = DefaultInFlightTTL - 10*time.Second

// Store persists PageState per session id
type Store interface {
	// Load returns the state for id, or a fresh state if none exists
	Load(ctx context.Context, id string) (*types.PageState, error)
	Save(ctx context.Context, id string, state *types.PageState) error
	// BeginGeneration marks id as generating and returns the owner token of the
	// marker. It returns ErrGenerationInFlight if a request is already running.
	BeginGeneration(ctx context.Context, id string) (string, error)
	// EndGeneration clears the marker only if it is still owned by token
	EndGeneration(ctx context.Context, id, token string) error
}

type inFlightMarker struct {
	token string
	until time.Time
}

type memoryEntry struct {
	state     types.PageState
	expiresAt time.Time
}

// MemoryStore is a Store held in process memory
type MemoryStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	inFlightTTL time.Duration
	states      map[string]memoryEntry
	inFlight    map[string]inFlightMarker
	now         func() time.Time
}

// NewMemoryStore creates a MemoryStore whose entries expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:         ttl,
		inFlightTTL: DefaultInFlightTTL,
		states:      make(map[string]memoryEntry),
		inFlight:    make(map[string]inFlightMarker),
		now:         time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*types.PageState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.states[id]
	if !ok || m.now().After(entry.expiresAt) {
		delete(m.states, id)
		return types.NewPageState(), nil
	}
	state := entry.state
	return &state, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, state *types.PageState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	state.UpdatedAt = now
	m.states[id] = memoryEntry{state: *state, expiresAt: now.Add(m.ttl)}
	m.sweep(now)
	return nil
}

func (m *MemoryStore) BeginGeneration(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if marker, ok := m.inFlight[id]; ok && now.Before(marker.until) {
		return "", ErrGenerationInFlight
	}
	token := uuid.NewString()
	m.inFlight[id] = inFlightMarker{token: token, until: now.Add(m.inFlightTTL)}
	return token, nil
}

func (m *MemoryStore) EndGeneration(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if marker, ok := m.inFlight[id]; ok && marker.token == token {
		delete(m.inFlight, id)
	}
	return nil
}

// sweep drops expired entries; callers hold mu
func (m *MemoryStore) sweep(now time.Time) {
	for id, entry := range m.states {
		if now.After(entry.expiresAt) {
			delete(m.states, id)
		}
	}
	for id, marker := range m.inFlight {
		if !now.Before(marker.until) {
			delete(m.inFlight, id)
		}
	}
}
