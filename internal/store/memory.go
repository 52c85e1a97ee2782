// internal/store/memory.go
//
// In-memory session store for running games.
// Persistence across restarts is out of scope, so this is the only backend.
//
// Characteristics:
//   - Stores *game.Engine objects keyed by ID in an LRU cache; once capacity
//     is reached the least recently used game is evicted.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update holds the write lock for the whole callback, so every engine sees
//     one event at a time even when many requests arrive together.
//   - Callers must not retain the *game.Engine outside View/Update.

package store

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/construction-wordle/internal/game"
)

// DefaultCapacity bounds the number of games kept when none is configured.
const DefaultCapacity = 10000

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// Store defines the interface for holding game sessions.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, e *game.Engine) error

	// View runs fn with shared access to the game.
	View(ctx context.Context, id string, fn func(*game.Engine) error) error

	// Update runs fn with exclusive access to the game.
	Update(ctx context.Context, id string, fn func(*game.Engine) error) error

	// Delete removes a game. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Len reports how many games are held.
	Len() int
}

// memory is an in-memory LRU-backed Store implementation.
type memory struct {
	mu    sync.RWMutex                     // guards every engine in games
	games *lru.Cache[string, *game.Engine] // keyed by Engine.ID()
}

// NewMemoryStore constructs a new in-memory Store holding at most capacity
// games. capacity <= 0 uses DefaultCapacity.
func NewMemoryStore(capacity int) Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	games, _ := lru.NewWithEvict(capacity, func(id string, _ *game.Engine) {
		log.Debug().Str("gameId", id).Msg("game evicted")
	})
	return &memory{games: games}
}

func (m *memory) Save(ctx context.Context, e *game.Engine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games.Add(e.ID(), e)
	return nil
}

func (m *memory) View(ctx context.Context, id string, fn func(*game.Engine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games.Get(id)
	if !ok {
		return ErrNotFound
	}
	return fn(e)
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Engine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games.Get(id)
	if !ok {
		return ErrNotFound
	}
	return fn(e)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.games.Remove(id) {
		return ErrNotFound
	}
	return nil
}

func (m *memory) Len() int {
	return m.games.Len()
}
