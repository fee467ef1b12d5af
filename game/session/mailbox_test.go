package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailboxLatestWins(t *testing.T) {
	m := NewMailbox[int]()
	m.Put(1)
	m.Put(2)
	m.Put(3)

	assert.Equal(t, 3, <-m.C())
	select {
	case v := <-m.C():
		t.Fatalf("unexpected value %d, older entries must be discarded", v)
	default:
	}
}

func TestMailboxDeliversInOrderWhenDrained(t *testing.T) {
	m := NewMailbox[string]()
	m.Put("a")
	assert.Equal(t, "a", <-m.C())
	m.Put("b")
	assert.Equal(t, "b", <-m.C())
}
