package memory

import (
	"context"
	"sync"

	"askgate/internal/models"
)

// Store is the keyed append-only conversation log read before dispatch and
// written after a text-shaped response. Acquire serializes dispatches for one
// conversation id so the read-modify-append cycle never interleaves; distinct
// ids proceed in parallel.
type Store interface {
	History(ctx context.Context, conversationID string) ([]models.Message, error)
	Append(ctx context.Context, conversationID string, msgs ...models.Message) error
	Acquire(conversationID string) (release func())
}

// keyedMutex hands out one mutex per conversation id. Mutexes are never
// reclaimed; conversation ids are retained for the life of the process anyway.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) acquire(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// InMemoryStore keeps histories in process memory, created on first use and
// never evicted. History is lost on restart and grows without bound; use
// RedisStore when either matters.
type InMemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]models.Message
	locks     keyedMutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{histories: make(map[string][]models.Message)}
}

func (s *InMemoryStore) History(_ context.Context, conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.histories[conversationID]
	out := make([]models.Message, len(history))
	copy(out, history)
	return out, nil
}

func (s *InMemoryStore) Append(_ context.Context, conversationID string, msgs ...models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	s.mu.Lock()
	s.histories[conversationID] = append(s.histories[conversationID], msgs...)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) Acquire(conversationID string) func() {
	return s.locks.acquire(conversationID)
}
