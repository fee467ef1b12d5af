package session

import "sync"

// Mailbox is a single-slot queue where a new value replaces an
// undelivered old one. State snapshots go through it so a slow reader
// only ever sees the newest state instead of a growing backlog.
type Mailbox[T any] struct {
	mu sync.Mutex
	ch chan T
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores v, discarding any value not yet taken.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.ch:
	default:
	}
	m.ch <- v
}

// C delivers stored values.
func (m *Mailbox[T]) C() <-chan T { return m.ch }
