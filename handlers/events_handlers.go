package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventsHandler streams relay events to watchers
type EventsHandler struct {
	common *CommonServices
	logger *zap.Logger
}

// NewEventsHandler creates an events handler
func NewEventsHandler(common *CommonServices, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = common.logger
	}
	return &EventsHandler{common: common, logger: logger}
}

// Stream serves relay events over server-sent events until the client
// disconnects. Slow consumers miss events instead of stalling the relay.
func (h *EventsHandler) Stream(c *gin.Context) {
	watch, cancel := h.common.bus.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case env, ok := <-watch:
			if !ok {
				return false
			}
			c.SSEvent(env.Kind, env)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
