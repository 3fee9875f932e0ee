package service

import (
	"log"

	"monotaskr/coordinator/internal/event"
)

// Notifier surfaces user-facing notifications for phase transitions and
// badge unlocks.
type Notifier interface {
	Notify(title, message string)
}

// EventNotifier publishes notifications on the event bus and mirrors them
// to the process log.
type EventNotifier struct {
	bus *event.Bus
}

func NewEventNotifier(bus *event.Bus) *EventNotifier {
	return &EventNotifier{bus: bus}
}

func (n *EventNotifier) Notify(title, message string) {
	log.Printf("notification: %s: %s", title, message)
	n.bus.Publish(event.Event{
		Type: event.TypeNotification,
		Payload: map[string]string{
			"title":   title,
			"message": message,
		},
	})
}
