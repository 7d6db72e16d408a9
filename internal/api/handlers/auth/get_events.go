package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/util"
)

// lifecycle topics forwarded to event stream subscribers
var streamedTopics = []string{
	connection.EventConnected,
	connection.EventDisconnected,
	connection.EventConnectionChanged,
	connection.EventConnectionError,
	connection.EventStateChanged,
}

func GetEventsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.GET("/events", getEventsHandler(s))
}

// getEventsHandler streams connection lifecycle events as server-sent
// events until the client goes away
func getEventsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set(echo.HeaderCacheControl, "no-cache")
		res.Header().Set(echo.HeaderConnection, "keep-alive")
		res.WriteHeader(http.StatusOK)
		res.Flush()

		events := make(chan streamEvent, 16)

		bus := s.Auth.Bus()
		handlers := make(map[string]interface{}, len(streamedTopics))
		for _, topic := range streamedTopics {
			topic := topic
			handler := func(args ...interface{}) {
				select {
				case events <- streamEvent{topic: topic, args: args}:
				default:
					// slow consumer, drop rather than block the bus
				}
			}
			handlers[topic] = handler
			if err := bus.SubscribeAsync(topic, handler, false); err != nil {
				return err
			}
		}
		defer func() {
			for topic, handler := range handlers {
				_ = bus.Unsubscribe(topic, handler)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("Event stream closed")
				return nil
			case event := <-events:
				if err := writeEvent(res, event); err != nil {
					return nil
				}
			}
		}
	}
}

type streamEvent struct {
	topic string
	args  []interface{}
}

func writeEvent(res *echo.Response, event streamEvent) error {
	payload := map[string]interface{}{"event": event.topic}
	if len(event.args) == 1 {
		payload["data"] = event.args[0]
	} else if len(event.args) > 1 {
		payload["data"] = event.args
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.topic, encoded); err != nil {
		return err
	}
	res.Flush()

	return nil
}
