package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const asyncPublishTimeout = 5 * time.Second

// AsyncPublisher decouples event producers from a slow sink. Publish never
// blocks the caller: events queue into a buffer and a background worker
// drains them; when the buffer is full the event is dropped and logged.
type AsyncPublisher struct {
	sink   Publisher
	inbox  chan Event
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewAsyncPublisher starts the background worker. buffer <= 0 gets a sane
// default.
func NewAsyncPublisher(sink Publisher, buffer int, logger *slog.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &AsyncPublisher{
		sink:   sink,
		inbox:  make(chan Event, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		if err := p.sink.Publish(ctx, event); err != nil {
			p.logger.Warn("audit event publish failed", "action", event.Action, "error", err)
		}
		cancel()
	}
}

func (p *AsyncPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event", "action", event.Action, "lead_id", event.LeadID)
	}
	return nil
}

// Close drains queued events, then closes the sink.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()

	<-p.done
	return p.sink.Close()
}
