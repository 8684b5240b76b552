package events

import (
	"fmt"
	"sync"

	"github.com/civicpulse/civicpulse/internal/shared/goroutine"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// ErrDispatcherNotRunning is returned by Publish before Start or after Stop.
var ErrDispatcherNotRunning = fmt.Errorf("event dispatcher is not running")

// InMemoryEventDispatcher queues events on a buffered channel and runs every
// matching handler in its own goroutine. Delivery is best effort: a full
// queue rejects the event and nothing is persisted across restarts.
type InMemoryEventDispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	running  bool
	stopCh   chan struct{}
	eventCh  chan DomainEvent
	loopWG   sync.WaitGroup
	workWG   sync.WaitGroup
	logger   logger.Interface
}

// NewInMemoryEventDispatcher creates a new in-memory event dispatcher
func NewInMemoryEventDispatcher(bufferSize int, log logger.Interface) *InMemoryEventDispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &InMemoryEventDispatcher{
		handlers: make(map[string][]EventHandler),
		stopCh:   make(chan struct{}),
		eventCh:  make(chan DomainEvent, bufferSize),
		logger:   log.Named("event_dispatcher"),
	}
}

// Publish enqueues a single event without blocking.
func (d *InMemoryEventDispatcher) Publish(event DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrDispatcherNotRunning
	}

	select {
	case d.eventCh <- event:
		return nil
	default:
		return fmt.Errorf("event channel is full")
	}
}

func (d *InMemoryEventDispatcher) Subscribe(eventType string, handler EventHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d.handlers[eventType] = append(d.handlers[eventType], handler)
	return nil
}

func (d *InMemoryEventDispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("event dispatcher is already running")
	}

	d.running = true
	d.loopWG.Add(1)

	go func() {
		defer d.loopWG.Done()
		d.processEvents()
	}()

	return nil
}

func (d *InMemoryEventDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherNotRunning
	}

	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.loopWG.Wait()
	d.workWG.Wait()

	return nil
}

func (d *InMemoryEventDispatcher) processEvents() {
	for {
		select {
		case <-d.stopCh:
			// drain what was accepted before Stop
			for {
				select {
				case event := <-d.eventCh:
					d.handleEvent(event)
				default:
					return
				}
			}
		case event := <-d.eventCh:
			d.handleEvent(event)
		}
	}
}

func (d *InMemoryEventDispatcher) handleEvent(event DomainEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.GetEventType()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.GetEventType()) {
			continue
		}

		h, e := handler, event
		d.workWG.Add(1)
		goroutine.SafeGo(d.logger, "event:"+e.GetEventType(), func() {
			defer d.workWG.Done()
			if err := h.Handle(e); err != nil {
				d.logger.Errorw("event handler failed",
					"event_type", e.GetEventType(),
					"aggregate_id", e.GetAggregateID(),
					"error", err,
				)
			}
		})
	}
}
