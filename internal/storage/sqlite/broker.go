// ABOUTME: In-process change broker for account subscriptions
// ABOUTME: Publishes after every committed points update; slow subscribers drop changes
package sqlite

import (
	"sync"

	"github.com/harper/growth-tribe/internal/models"
)

// subscriberBuffer is how many undelivered changes a subscriber may hold
const subscriberBuffer = 16

// Broker fans committed account changes out to per-user subscribers
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.AccountChange
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan models.AccountChange)}
}

// Subscribe registers for changes to userID. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(userID string) (<-chan models.AccountChange, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan models.AccountChange, subscriberBuffer)
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[int]chan models.AccountChange)
	}
	b.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers change to every subscriber of change.UserID and returns
// how many subscribers missed it because their buffer was full
func (b *Broker) Publish(change models.AccountChange) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := 0
	for _, ch := range b.subs[change.UserID] {
		select {
		case ch <- change:
		default:
			dropped++
		}
	}
	return dropped
}

// Subscribers returns the number of live subscriptions for userID
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}
