package chat

import (
	"sync"

	"go.uber.org/zap"

	"tradelink-chat/pkg/logger"
)

// Handle is an open, addressable connection endpoint capable of
// receiving broadcast payloads.
type Handle interface {
	Key() string
	Deliver(payload []byte) error
}

// Registry maintains the live subscriber set per room. Membership is
// runtime-only: nothing is persisted and the registry starts empty on
// every process restart. All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[Handle]struct{}
	logger *logger.Logger
}

func NewRegistry(l *logger.Logger) *Registry {
	if l == nil {
		l = logger.NewNop()
	}
	return &Registry{
		rooms:  make(map[string]map[Handle]struct{}),
		logger: l,
	}
}

// Join subscribes a handle to a room. No-op if already subscribed.
func (r *Registry) Join(roomID string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, ok := r.rooms[roomID]
	if !ok {
		subscribers = make(map[Handle]struct{})
		r.rooms[roomID] = subscribers
	}
	subscribers[h] = struct{}{}
}

// Leave unsubscribes a handle. Idempotent: removing an absent handle
// leaves the set unchanged. An emptied room entry is pruned.
func (r *Registry) Leave(roomID string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(subscribers, h)
	if len(subscribers) == 0 {
		delete(r.rooms, roomID)
	}
}

// Broadcast delivers payload to every handle subscribed to the room at
// invocation time. The subscriber set is snapshotted under the read
// lock, so a concurrent Join or Leave never observes a torn set; a
// handle racing the snapshot may or may not receive this payload.
// Delivery failure to one handle is logged, does not abort delivery to
// the rest, and schedules that handle's removal.
func (r *Registry) Broadcast(roomID string, payload []byte) {
	r.mu.RLock()
	subscribers := r.rooms[roomID]
	snapshot := make([]Handle, 0, len(subscribers))
	for h := range subscribers {
		snapshot = append(snapshot, h)
	}
	r.mu.RUnlock()

	var failed []Handle
	for _, h := range snapshot {
		if err := h.Deliver(payload); err != nil {
			r.logger.Logger.Warn("broadcast delivery failed",
				zap.String("room_id", roomID),
				zap.String("handle", h.Key()),
				zap.Error(err))
			failed = append(failed, h)
		}
	}
	for _, h := range failed {
		r.Leave(roomID, h)
	}
}

// Subscribers returns the current size of a room's subscriber set.
func (r *Registry) Subscribers(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}
