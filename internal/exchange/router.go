package exchange

import (
	"context"
	"errors"
	"fmt"

	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
)

// HandlerFunc handles one inbound envelope
type HandlerFunc func(ctx context.Context, env *Envelope) error

// Router dispatches envelopes addressed to this bot by action and type
type Router struct {
	name   string
	routes map[string]HandlerFunc
}

func NewRouter(name string) *Router {
	return &Router{name: name, routes: make(map[string]HandlerFunc)}
}

func routeKey(action, actionType string) string {
	return action + "/" + actionType
}

// Handle registers fn for action and type. An empty type matches any type
// that has no exact route.
func (r *Router) Handle(action, actionType string, fn HandlerFunc) {
	r.routes[routeKey(action, actionType)] = fn
}

// Dispatch parses text and runs the matching handler. It reports false when
// the message is not for this bot or nothing handles it.
func (r *Router) Dispatch(ctx context.Context, text string) (bool, error) {
	env, err := Parse(text)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return false, nil
		}
		metrics.ExchangeErrors.Inc()
		return false, err
	}
	if !env.AddressedTo(r.name) {
		return false, nil
	}

	fn, ok := r.routes[routeKey(env.Action, env.Type)]
	if !ok {
		fn, ok = r.routes[routeKey(env.Action, "")]
	}
	if !ok {
		logger.Debugf("No exchange route for %s/%s from %s", env.Action, env.Type, env.From)
		return false, nil
	}

	metrics.ExchangeReceived.WithLabelValues(env.Action, env.Type).Inc()
	logger.Infof("Exchange %s/%s from %s", env.Action, env.Type, env.From)
	if err := fn(ctx, env); err != nil {
		return true, fmt.Errorf("exchange %s/%s: %w", env.Action, env.Type, err)
	}
	return true, nil
}
