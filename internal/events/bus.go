// Package events delivers backend notifications to the frontend.
//
// Emission is fire-and-forget: the bus hands each event to the registered
// listeners and returns without waiting for any acknowledgment. An error from
// Emit means the delivery channel itself is broken (the bus was closed while
// the frontend was torn down, or the payload cannot be serialized), never that
// a listener rejected the data.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Channel names an event stream the frontend listens on.
type Channel string

const (
	ChannelOpenWorkspace Channel = "open_workspace"
	ChannelOpenJSONFile  Channel = "open_json_file"
	ChannelNewMap        Channel = "new_map"
	ChannelSave          Channel = "save"
	ChannelExport        Channel = "export"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("event channel closed")

// Event is the envelope delivered to listeners.
type Event struct {
	ID      string          `json:"id"`
	Channel Channel         `json:"channel"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Time    time.Time       `json:"time"`
}

// Listener receives events. Listeners run on the emitting goroutine and
// must not block.
type Listener func(Event)

// Emitter is the subset of Bus the open flows depend on.
type Emitter interface {
	Emit(channel Channel, payload any) error
}

type subscription struct {
	id uint64
	fn Listener
}

// Bus is an in-process, goroutine-safe event bus.
type Bus struct {
	mu      sync.RWMutex
	typed   map[Channel][]subscription
	allSubs []subscription
	nextID  atomic.Uint64
	closed  atomic.Bool
	logger  *slog.Logger
	now     func() time.Time
}

// NewBus creates an event bus. A nil logger discards log output.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		typed:  make(map[Channel][]subscription),
		logger: logger,
		now:    time.Now,
	}
}

// Emit delivers payload on channel. A nil payload produces an event with no
// payload, which is how bare notifications such as save are sent.
func (b *Bus) Emit(channel Channel, payload any) error {
	if b.closed.Load() {
		return fmt.Errorf("emit %s: %w", channel, ErrClosed)
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("emit %s: failed to encode payload: %w", channel, err)
		}
		raw = data
	}

	at := b.now()
	event := Event{
		ID:      ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		Channel: channel,
		Payload: raw,
		Time:    at,
	}

	b.mu.RLock()
	typed := make([]subscription, len(b.typed[channel]))
	copy(typed, b.typed[channel])
	allSubs := make([]subscription, len(b.allSubs))
	copy(allSubs, b.allSubs)
	b.mu.RUnlock()

	for _, sub := range typed {
		b.deliver(event, sub)
	}
	for _, sub := range allSubs {
		b.deliver(event, sub)
	}

	b.logger.Debug("event emitted",
		slog.String("channel", string(channel)),
		slog.String("id", event.ID),
		slog.Int("listeners", len(typed)+len(allSubs)),
	)
	return nil
}

func (b *Bus) deliver(event Event, sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked",
				slog.String("channel", string(event.Channel)),
				slog.Any("panic", r),
			)
		}
	}()
	sub.fn(event)
}

// Subscribe registers a listener for one channel.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(channel Channel, fn Listener) func() {
	id := b.nextID.Add(1)

	b.mu.Lock()
	b.typed[channel] = append(b.typed[channel], subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.typed[channel]
		for i, s := range subs {
			if s.id == id {
				b.typed[channel] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeAll registers a listener that receives every event.
// Returns an unsubscribe function.
func (b *Bus) SubscribeAll(fn Listener) func() {
	id := b.nextID.Add(1)

	b.mu.Lock()
	b.allSubs = append(b.allSubs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.allSubs {
			if s.id == id {
				b.allSubs = append(b.allSubs[:i:i], b.allSubs[i+1:]...)
				return
			}
		}
	}
}

// Close marks the channel broken; subsequent Emit calls fail with ErrClosed.
// Close is idempotent.
func (b *Bus) Close() {
	b.closed.Store(true)
}

// Closed reports whether Close has been called.
func (b *Bus) Closed() bool {
	return b.closed.Load()
}
