// Package notify keeps the in-memory notification list behind the
// header's bell icon. Never persisted; entries leave only by explicit
// per-item deletion.
package notify

import (
	"sync"

	"github.com/foodieshq/foodies-client/realtime"
)

// Inbox is an ordered notification list with an unread counter.
type Inbox struct {
	mu     sync.Mutex
	items  []realtime.Notification
	unread int
}

func NewInbox() *Inbox {
	return &Inbox{}
}

// Add appends a notification and bumps the unread counter.
func (in *Inbox) Add(n realtime.Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = append(in.items, n)
	in.unread++
}

// All returns the notifications in arrival order.
func (in *Inbox) All() []realtime.Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]realtime.Notification, len(in.items))
	copy(out, in.items)
	return out
}

// Delete removes the notification at index i. Out-of-range indexes are
// ignored.
func (in *Inbox) Delete(i int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if i < 0 || i >= len(in.items) {
		return
	}
	in.items = append(in.items[:i], in.items[i+1:]...)
}

// Unread reports how many notifications arrived since the last MarkRead.
func (in *Inbox) Unread() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.unread
}

// MarkRead resets the unread counter, as closing the sidebar does.
func (in *Inbox) MarkRead() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.unread = 0
}
