package owonecall

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Slot receives the results of fire-and-forget fetches. Only successful
// responses are ever stored.
type Slot interface {
	Store(ctx context.Context, response *Response) error
}

// SlotFunc adapts a function to the Slot interface.
type SlotFunc func(ctx context.Context, response *Response) error

func (f SlotFunc) Store(ctx context.Context, response *Response) error {
	return f(ctx, response)
}

// Binding is an in-memory Slot holding the latest response.
type Binding struct {
	mu      sync.RWMutex
	value   *Response
	updated time.Time
}

// NewBinding returns a Binding holding initial, which may be nil.
func NewBinding(initial *Response) *Binding {
	return &Binding{value: initial}
}

func (b *Binding) Store(_ context.Context, response *Response) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = response
	b.updated = time.Now()
	return nil
}

// Load returns the latest stored response.
func (b *Binding) Load() *Response {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// UpdatedAt returns when the value was last stored, or the zero time.
func (b *Binding) UpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updated
}

// RedisSlot stores the latest response as JSON under a single Redis key.
type RedisSlot struct {
	client     *redis.Client
	key        string
	expiration time.Duration
}

// NewRedisSlot returns a slot writing to key. A zero expiration keeps the value forever.
func NewRedisSlot(client *redis.Client, key string, expiration time.Duration) *RedisSlot {
	return &RedisSlot{
		client:     client,
		key:        key,
		expiration: expiration,
	}
}

func (s *RedisSlot) Store(ctx context.Context, response *Response) error {
	p, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, p, s.expiration).Err()
}

// Load reads back the stored response. It returns redis.Nil when nothing was stored.
func (s *RedisSlot) Load(ctx context.Context) (*Response, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return nil, err
	}
	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode stored response: %w", err)
	}
	return &response, nil
}
