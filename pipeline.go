package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/atomic"
)

// ErrTerminated is returned (or carried by the panic value on enqueue) once
// the pipeline has shut down. There is no restart path: a terminated
// pipeline stays terminated.
var ErrTerminated = errors.New("journal: pipeline terminated")

// Pipeline lifecycle. The consumer goroutine owns the transition into
// stateTerminated; stateDraining is entered either by Close or by the
// consumer observing a panic message.
const (
	stateUninitialized int32 = iota
	stateRunning
	stateDraining
	stateTerminated
)

// Pipeline owns the mailbox and the background consumer. Construct one with
// New and inject it into the subsystems that need logging, or use the
// package-level Get/Topic accessors for a process-wide shared instance.
type Pipeline struct {
	cfg *Config
	mb  *mailbox

	state   atomic.Int32
	failure atomic.Error
	done    chan struct{}

	closeOnce sync.Once

	obsMu     sync.Mutex
	observers []PanicObserver
}

// New validates cfg (nil selects DefaultConfig), rotates and recreates the
// persistence document, and starts the consumer. The pipeline's own
// durable-flush panic observer is registered first; see Guard.
func New(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Directory, os.ModePerm); err != nil {
		return nil, fmt.Errorf("journal: create log directory: %w", err)
	}

	p := &Pipeline{
		cfg:  cfg,
		mb:   newMailbox(),
		done: make(chan struct{}),
	}
	p.observers = []PanicObserver{p.persistPanic}

	c, err := newConsumer(cfg, p.mb)
	if err != nil {
		return nil, err
	}

	p.state.Store(stateRunning)
	go c.run(p)
	return p, nil
}

// Logger returns a handle bound to topic (the configured default if empty).
// It fails fast once the pipeline has terminated.
func (p *Pipeline) Logger(topic string) (*Logger, error) {
	if p.state.Load() == stateTerminated {
		return nil, fmt.Errorf("journal: acquire handle: %w", ErrTerminated)
	}
	if topic == emptyString {
		topic = p.cfg.DefaultTopic
	}
	return &Logger{pipeline: p, topic: topic}, nil
}

func (p *Pipeline) enqueue(msg Message) error {
	if p.state.Load() == stateTerminated {
		if err := p.failure.Load(); err != nil {
			return fmt.Errorf("%w: consumer failed: %w", ErrTerminated, err)
		}
		return ErrTerminated
	}
	return p.mb.push(msg)
}

// Close drains the mailbox, forces a final flush and joins the consumer.
// It is idempotent and bounded by ctx and the configured shutdown timeout.
func (p *Pipeline) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.state.CompareAndSwap(stateRunning, stateDraining)
		p.mb.close()
	})

	if t := p.cfg.shutdownTimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	select {
	case <-p.done:
	case <-ctx.Done():
		return fmt.Errorf("journal: close: %w", ctx.Err())
	}
	return p.failure.Load()
}

// Err returns the consumer's fatal error, if any.
func (p *Pipeline) Err() error {
	return p.failure.Load()
}

// Shared process-wide pipeline, created lazily on first use. The first
// caller's acquisition wins; after Shutdown (or a panic-induced drain) all
// further acquisitions fail fast.
var (
	sharedMu sync.Mutex
	shared   *Pipeline
)

// Get returns a handle on the shared pipeline bound to the default topic,
// initializing the pipeline with DefaultConfig on first use.
func Get() (*Logger, error) {
	return Topic(emptyString)
}

// Topic returns a handle on the shared pipeline bound to the given topic.
func Topic(topic string) (*Logger, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		p, err := New(nil)
		if err != nil {
			return nil, err
		}
		shared = p
	}
	return shared.Logger(topic)
}

// Shutdown closes the shared pipeline if it was ever created.
func Shutdown(ctx context.Context) error {
	sharedMu.Lock()
	p := shared
	sharedMu.Unlock()
	if p == nil {
		return nil
	}
	return p.Close(ctx)
}
