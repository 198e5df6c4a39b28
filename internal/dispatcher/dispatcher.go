// Package dispatcher delivers store change notifications to registered
// consumers: the map renderer, the statistics monitor, anything else that
// mirrors annotation state. Consumers that tolerate lag can opt into a
// buffered queue; the store's own invariants never depend on a consumer.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pyroplan/siteplan/internal/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is one store change plus the time it was observed.
type Event struct {
	Change    store.Change
	Timestamp time.Time
}

// HandlerFunc processes a change event.
type HandlerFunc func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher fans change events out to the handlers registered per kind.
type Dispatcher struct {
	logger Logger

	// OTEL metrics
	queueSize metric.Int64ObservableGauge
	delivered metric.Int64Counter
	dropped   metric.Int64Counter

	mu       sync.RWMutex
	handlers map[store.ChangeKind][]HandlerFunc
	buffers  map[string]chan Event
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		logger:   logger,
		handlers: make(map[store.ChangeKind][]HandlerFunc),
		buffers:  make(map[string]chan Event),
	}

	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of change events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for name, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("handler", name)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.delivered, err = m.Int64Counter(
		"dispatcher.events.delivered",
		metric.WithDescription("Total change events delivered to handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating delivered counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Total change events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for one change kind with optional configuration.
// Multiple handlers per kind are allowed; they run in registration order.
func (d *Dispatcher) Register(kind store.ChangeKind, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	d.mu.RLock()
	name := fmt.Sprintf("%s#%d", kind, len(d.handlers[kind]))
	d.mu.RUnlock()

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(name, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(kind, handler)
	}

	d.mu.Lock()
	d.handlers[kind] = append(d.handlers[kind], handler)
	d.mu.Unlock()
}

// Dispatch delivers a change to every handler registered for its kind.
// Changes with no handler are dropped silently: the store does not care
// whether anyone listens.
func (d *Dispatcher) Dispatch(c store.Change) {
	d.mu.RLock()
	handlers := d.handlers[c.Kind]
	d.mu.RUnlock()

	e := Event{Change: c, Timestamp: time.Now()}
	kindAttr := attribute.String("kind", string(c.Kind))
	for _, h := range handlers {
		if err := h(e); err != nil && d.logger != nil {
			d.logger.Error("change handler failed", "kind", c.Kind, "id", c.ID, "error", err)
		}
		d.delivered.Add(context.Background(), 1, metric.WithAttributes(kindAttr))
	}
}

// ChangeFunc adapts the dispatcher to the store's notification hook.
func (d *Dispatcher) ChangeFunc() store.ChangeFunc {
	return func(c store.Change) {
		d.Dispatch(c)
	}
}

// HasHandler returns true if at least one handler is registered for the kind.
func (d *Dispatcher) HasHandler(kind store.ChangeKind) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[kind]) > 0
}

func (d *Dispatcher) withBuffer(name string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan Event, size)

	d.mu.Lock()
	d.buffers[name] = buffer
	d.mu.Unlock()

	nameAttr := attribute.String("handler", name)

	go func() {
		for e := range buffer {
			_ = h(e)
		}
	}()

	if blocking {
		return func(e Event) error {
			buffer <- e
			return nil
		}
	}

	return func(e Event) error {
		select {
		case buffer <- e:
			return nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(nameAttr))
			return fmt.Errorf("queue full: %s", name)
		}
	}
}

func (d *Dispatcher) withLogging(kind store.ChangeKind, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		d.logger.Debug("handling change", "kind", kind, "id", e.Change.ID)

		err := h(e)

		if err != nil {
			d.logger.Error("change handler failed", "kind", kind, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("change handled", "kind", kind, "duration", time.Since(start))
		}

		return err
	}
}
