package journal

import "sync"

// mailbox is an unbounded multi-producer single-consumer queue. Producers
// append under a short critical section and never block; the consumer drains
// with pop and parks on the wake channel when the queue is empty.
type mailbox struct {
	mu     sync.Mutex
	items  []Message
	wake   chan struct{}
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{wake: make(chan struct{}, 1)}
}

// push enqueues a message. It fails only after close.
func (m *mailbox) push(msg Message) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrTerminated
	}
	m.items = append(m.items, msg)
	m.mu.Unlock()
	m.signal()
	return nil
}

// pop removes the oldest message. The second return value reports whether a
// message was taken; the third reports that the mailbox is closed and fully
// drained.
func (m *mailbox) pop() (Message, bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return Message{}, false, m.closed
	}
	msg := m.items[0]
	m.items = m.items[1:]
	return msg, true, false
}

// close marks the mailbox closed. Queued messages remain poppable; further
// pushes fail.
func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
