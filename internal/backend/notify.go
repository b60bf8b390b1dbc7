package backend

import "sync"

// Notifier fans session-change notifications out to subscribers in
// registration order. Implementations of Auth embed one and publish on
// every sign-in, sign-out, refresh and expiry.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(*Session)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(*Session))}
}

// Subscribe registers fn and returns its cancellation handle.
func (n *Notifier) Subscribe(fn func(*Session)) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return &subscription{notifier: n, id: id}
}

// Publish delivers the payload to every live subscriber. Callbacks run on
// the publishing goroutine, in subscription order.
func (n *Notifier) Publish(s *Session) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	// map order is random; deliver in subscription order
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	fns := make([]func(*Session), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

type subscription struct {
	notifier *Notifier
	id       int
	once     sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.notifier.mu.Lock()
		delete(s.notifier.subs, s.id)
		s.notifier.mu.Unlock()
	})
}
