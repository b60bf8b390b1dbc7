// Package gate decides whether protected views may be shown. It consumes
// the session store's state only; it performs no backend calls of its own.
package gate

import (
	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/client/session"
)

// State is the gate's view of the authentication lifecycle.
type State int

const (
	// StateLoading holds until the session store's initial lookup
	// resolves. No redirect may happen in this state, so a page reload
	// with a valid credential never flashes through the sign-in view.
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Outcome is the routing decision for a protected view.
type Outcome int

const (
	// OutcomePlaceholder renders a neutral placeholder while loading.
	OutcomePlaceholder Outcome = iota
	// OutcomeRender shows the protected content.
	OutcomeRender
	// OutcomeRedirect sends the user to sign-in. The navigation must be
	// replace-style: the protected location is not left in history.
	OutcomeRedirect
)

type Gate struct {
	sessions *session.Store
}

func New(sessions *session.Store) *Gate {
	return &Gate{sessions: sessions}
}

// State derives the lifecycle state from the session store.
func (g *Gate) State() State {
	if !g.sessions.Initialized() {
		return StateLoading
	}
	if g.sessions.Current() != nil {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// Route returns the decision for navigating to a protected view right now.
func (g *Gate) Route() Outcome {
	switch g.State() {
	case StateLoading:
		return OutcomePlaceholder
	case StateAuthenticated:
		return OutcomeRender
	default:
		return OutcomeRedirect
	}
}

// Watch invokes redirect the moment the session disappears, so a sign-out
// never waits for the next render of a protected view. The returned
// function cancels the watch.
func (g *Gate) Watch(redirect func()) func() {
	return g.sessions.OnChange(func(s *backend.Session) {
		if s == nil {
			redirect()
		}
	})
}
