package sse

import "time"

// HubNotifier pushes store-change events out to connected clients.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyStoreChanged(store string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&StoreEvent{
		Event:     EventStoreChanged,
		Store:     store,
		Timestamp: time.Now(),
	})
}
