package realtime

import (
	"context"

	"github.com/spec-kit/bsm-service/internal/events"
)

// BindDispatcher forwards every domain event carrying a resource to the hub
// as a {resource, action, id} change notification.
func BindDispatcher(hub *Hub, dispatcher events.Dispatcher) {
	dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		if event.Resource == "" || event.Action == "" {
			return nil
		}
		hub.Broadcast(ChangeEvent{
			Resource: string(event.Resource),
			Action:   string(event.Action),
			ID:       event.EntityID,
		})
		return nil
	})
}
