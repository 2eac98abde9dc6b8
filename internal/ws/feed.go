package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/PGMA10/rrak-website/internal/domain"
)

// Event is one message on the admin live feed.
type Event struct {
	Type   string        `json:"type"`
	Entity domain.Entity `json:"entity"`
	Data   interface{}   `json:"data"`
	At     time.Time     `json:"at"`
}

const recentSize = 20

// Feed streams newly created submissions to connected admin dashboards.
// It keeps the last few events so a freshly opened tab is not empty.
type Feed struct {
	*Hub
	mu     sync.RWMutex
	recent []Event
}

func NewFeed() *Feed {
	return &Feed{Hub: NewHub()}
}

func (f *Feed) PublishSubmission(entity domain.Entity, row interface{}) {
	ev := Event{
		Type:   domain.FeedEventSubmission,
		Entity: entity,
		Data:   row,
		At:     time.Now().UTC(),
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recent = append(f.recent, ev)
	if len(f.recent) > recentSize {
		f.recent = f.recent[len(f.recent)-recentSize:]
	}
	f.Broadcast(ev)
}

// Subscribe queues the backlog on c and registers it in one step, so every
// event reaches c exactly once: either in the backlog or live.
func (f *Feed) Subscribe(c *Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.recent {
		if data, err := json.Marshal(ev); err == nil {
			c.offer(data)
		}
	}
	f.Register(c)
}

// Recent returns buffered events, oldest first.
func (f *Feed) Recent() []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Event, len(f.recent))
	copy(out, f.recent)
	return out
}
