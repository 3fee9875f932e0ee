package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"monotaskr/coordinator/internal/event"
)

// EventsHandler streams coordinator events (state changes, notifications,
// title updates) to readers over server-sent events.
type EventsHandler struct {
	bus *event.Bus
}

func NewEventsHandler(bus *event.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	ch, cancel := h.bus.Subscribe(32)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(evt.Type, evt.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
