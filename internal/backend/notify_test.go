package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifierDeliversInSubscriptionOrder(t *testing.T) {
	n := NewNotifier()

	var got []string
	n.Subscribe(func(*Session) { got = append(got, "first") })
	n.Subscribe(func(*Session) { got = append(got, "second") })

	n.Publish(nil)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := NewNotifier()

	calls := 0
	sub := n.Subscribe(func(*Session) { calls++ })

	n.Publish(nil)
	sub.Unsubscribe()
	n.Publish(nil)

	assert.Equal(t, 1, calls)

	// Idempotent.
	sub.Unsubscribe()
	n.Publish(nil)
	assert.Equal(t, 1, calls)
}

func TestSessionEqual(t *testing.T) {
	now := time.Now()
	a := &Session{Identity: Identity{ID: "u1", Email: "a@x.test"}, ExpiresAt: now, RawCredential: "tok"}
	b := &Session{Identity: Identity{ID: "u1", Email: "a@x.test"}, ExpiresAt: now, RawCredential: "tok"}

	assert.True(t, a.Equal(b))
	assert.True(t, (*Session)(nil).Equal(nil))
	assert.False(t, a.Equal(nil))

	b.RawCredential = "other"
	assert.False(t, a.Equal(b))
}
