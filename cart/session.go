package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is the per-shopper state passed through a request: cart,
// wishlist and recently viewed products.
type Session struct {
	ID        string         `json:"id"`
	Cart      Cart           `json:"cart"`
	Wishlist  Wishlist       `json:"wishlist"`
	Recent    RecentlyViewed `json:"recentlyViewed"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Persister loads and saves sessions. Load returns an empty session when
// none is stored under id.
type Persister interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type RedisPersister struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisPersister(client redis.UniversalClient, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

func (p *RedisPersister) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := p.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSession(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	s.ID = id
	return &s, nil
}

func (p *RedisPersister) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := p.client.Set(ctx, sessionKey(s.ID), raw, p.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func (p *RedisPersister) Delete(ctx context.Context, id string) error {
	return p.client.Del(ctx, sessionKey(id)).Err()
}

// MemoryPersister stores encoded sessions in process, so callers never
// share a *Session between requests.
type MemoryPersister struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{sessions: make(map[string][]byte)}
}

func (p *MemoryPersister) Load(_ context.Context, id string) (*Session, error) {
	p.mu.RLock()
	raw, ok := p.sessions[id]
	p.mu.RUnlock()
	if !ok {
		return NewSession(id), nil
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (p *MemoryPersister) Save(_ context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	p.mu.Lock()
	p.sessions[s.ID] = raw
	p.mu.Unlock()
	return nil
}

func (p *MemoryPersister) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	delete(p.sessions, id)
	p.mu.Unlock()
	return nil
}
