package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bus is an in-process emitter fanning events out to subscriber channels
// and, optionally, a structured log sink. Slow subscribers drop events
// rather than blocking the relay.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]chan Envelope
	buffer int
	logger *zap.Logger
}

// NewBus creates a bus whose subscriber channels hold up to buffer events.
func NewBus(buffer int, logger *zap.Logger) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		subs:   make(map[uuid.UUID]chan Envelope),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a watcher. Call the returned cancel func to stop
// receiving; the channel is closed afterwards.
func (b *Bus) Subscribe() (<-chan Envelope, func()) {
	id := uuid.New()
	ch := make(chan Envelope, b.buffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Emit publishes e to every subscriber and logs it.
func (b *Bus) Emit(e Event) {
	env := Envelope{
		ID:        uuid.New(),
		Kind:      e.Kind(),
		EmittedAt: time.Now().UTC(),
		Event:     e,
	}

	if b.logger != nil {
		b.logger.Info("event emitted",
			zap.String("event_id", env.ID.String()),
			zap.String("kind", env.Kind),
			zap.Any("payload", e),
		)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- env:
		default:
			// Subscriber is not keeping up; dropping beats stalling a relay call.
		}
	}
}
