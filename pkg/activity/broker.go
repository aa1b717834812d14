package activity

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

// subscriberBuffer is how many activities a subscriber may lag behind before activities are
// dropped for it.
const subscriberBuffer = 16

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger:      logger,
		subscribers: make(map[string]chan model.Activity),
	}
}

// Broker fans out recorded activities to the live feed subscribers. A slow subscriber never blocks
// publishing, activities it can't keep up with are dropped.
type Broker struct {
	logger      *slog.Logger
	lock        sync.Mutex
	subscribers map[string]chan model.Activity
}

// Subscribe registers a new subscriber. The channel is closed once the subscriber is
// unsubscribed.
func (b *Broker) Subscribe() (string, <-chan model.Activity) {
	b.lock.Lock()
	defer b.lock.Unlock()

	id := uuid.NewString()
	channel := make(chan model.Activity, subscriberBuffer)
	b.subscribers[id] = channel
	return id, channel
}

// Unsubscribe removes the subscriber. Unsubscribing twice is a no-op.
func (b *Broker) Unsubscribe(id string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	channel, ok := b.subscribers[id]
	if !ok {
		return
	}
	close(channel)
	delete(b.subscribers, id)
}

func (b *Broker) Subscribers() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subscribers)
}

func (b *Broker) Publish(activities ...model.Activity) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, activity := range activities {
		for id, channel := range b.subscribers {
			select {
			case channel <- activity:
			default:
				b.logger.Warn("Dropping activity for slow subscriber", "subscriber", id, "activity", activity.ID)
			}
		}
	}
}
