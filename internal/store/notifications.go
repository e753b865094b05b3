package store

import (
	"sync"

	"github.com/tgienger/taskdash/internal/models"
)

// Notifications keeps notifications together with their unread count.
// The count changes in the same critical section as the collection, so
// UnreadCount always equals the number of unread entries.
type Notifications struct {
	mu     sync.RWMutex
	items  *Collection[models.Notification]
	unread int
}

// NewNotifications creates an empty notification store
func NewNotifications() *Notifications {
	return &Notifications{
		items: NewCollection(func(n models.Notification) string { return n.ID }),
	}
}

// All returns a copy of the notifications, newest first
func (n *Notifications) All() []models.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.items.All()
}

// Len returns the number of notifications
func (n *Notifications) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.items.Len()
}

// Get returns the notification with id
func (n *Notifications) Get(id string) (models.Notification, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.items.Get(id)
}

// UnreadCount returns the number of unread notifications
func (n *Notifications) UnreadCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.unread
}

// ReplaceAll stores notifications and recounts unread ones
func (n *Notifications) ReplaceAll(notifications []models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items.ReplaceAll(notifications)
	n.unread = countUnread(n.items.All())
}

// InsertOne puts a notification first
func (n *Notifications) InsertOne(notification models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if prev, ok := n.items.Get(notification.ID); ok && !prev.Read {
		n.unread--
	}
	n.items.InsertOne(notification)
	if !notification.Read {
		n.unread++
	}
}

// MarkAsRead flips one notification to read; it reports whether it changed
func (n *Notifications) MarkAsRead(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	notification, ok := n.items.Get(id)
	if !ok || notification.Read {
		return false
	}
	notification.Read = true
	n.items.ReplaceOne(notification)
	n.unread--
	return true
}

// MarkAllAsRead flips every notification to read
func (n *Notifications) MarkAllAsRead() {
	n.mu.Lock()
	defer n.mu.Unlock()
	all := n.items.All()
	for i := range all {
		all[i].Read = true
	}
	n.items.ReplaceAll(all)
	n.unread = 0
}

// RemoveOne deletes a notification, adjusting the count if it was unread
func (n *Notifications) RemoveOne(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	removed, ok := n.items.RemoveOne(id)
	if ok && !removed.Read {
		n.unread--
	}
	return ok
}

func countUnread(notifications []models.Notification) int {
	c := 0
	for _, n := range notifications {
		if !n.Read {
			c++
		}
	}
	return c
}
