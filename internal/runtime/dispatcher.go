package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexus-ai/nexus/internal/logging"
)

const handlerErrorReply = "Something went wrong handling that message. Check the logs for details."

// Dispatcher serializes turns: queued messages run against the Handler one
// at a time, in arrival order. Turns are short-lived, so this single
// boundary is all the mutual exclusion the conversation state needs.
type Dispatcher struct {
	handler Handler

	queue chan queuedTurn
	done  chan struct{}

	mu       sync.Mutex
	started  bool
	root     context.Context
	inFlight int
}

type queuedTurn struct {
	msg    *Message
	writer ResponseWriter
}

// NewDispatcher creates a dispatcher with a bounded queue.
func NewDispatcher(handler Handler, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		handler: handler,
		queue:   make(chan queuedTurn, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the dispatch loop. It may be started once.
func (d *Dispatcher) Start(ctx context.Context) error {
	if d.handler == nil {
		return errors.New("handler is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return errors.New("dispatcher already started")
	}
	d.started = true
	d.root = ctx
	d.mu.Unlock()

	go d.run(ctx)
	return nil
}

// Enqueue submits one turn for FIFO processing.
func (d *Dispatcher) Enqueue(ctx context.Context, msg *Message, writer ResponseWriter) error {
	if msg == nil {
		return errors.New("message is required")
	}
	if writer == nil {
		return errors.New("response writer is required")
	}

	d.mu.Lock()
	started := d.started
	root := d.root
	d.mu.Unlock()
	if !started {
		return errors.New("dispatcher is not started")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.addInFlight(1)
	select {
	case d.queue <- queuedTurn{msg: msg, writer: writer}:
		return nil
	case <-root.Done():
		d.addInFlight(-1)
		return root.Err()
	case <-ctx.Done():
		d.addInFlight(-1)
		return ctx.Err()
	}
}

// WaitUntilIdle blocks until no turn is queued or running.
func (d *Dispatcher) WaitUntilIdle(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		d.mu.Lock()
		idle := !d.started || d.inFlight == 0
		d.mu.Unlock()
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Wait blocks until the dispatch loop exits.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case turn := <-d.queue:
			d.handle(ctx, turn)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, turn queuedTurn) {
	defer d.addInFlight(-1)

	err := d.handler.HandleMessage(ctx, turn.writer, turn.msg)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	logging.Logger().Error("turn handling failed", "err", err)
	if writeErr := turn.writer.WriteMessage(ctx, handlerErrorReply); writeErr != nil {
		logging.Logger().Warn("failed to report handler error", "err", writeErr)
	}
}

func (d *Dispatcher) addInFlight(delta int) {
	d.mu.Lock()
	d.inFlight += delta
	d.mu.Unlock()
}
