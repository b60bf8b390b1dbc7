package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/backend/rest"
	"github.com/dkarklins/jobfolio/internal/client/apply"
	"github.com/dkarklins/jobfolio/internal/client/config"
	"github.com/dkarklins/jobfolio/internal/client/credcache"
	"github.com/dkarklins/jobfolio/internal/client/gate"
	"github.com/dkarklins/jobfolio/internal/client/session"
	"github.com/dkarklins/jobfolio/internal/client/syncer"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	backend  backend.Backend
	cache    *credcache.Store
	sessions *session.Store
	guard    *gate.Gate
	sync     *syncer.Synchronizer
	machine  *apply.Machine
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	cache, err := credcache.Open(ctx, c.CredentialCachePath)
	if err != nil {
		return nil, fmt.Errorf("opening credential cache: %w", err)
	}

	client := rest.New(c.ServerBaseURL, c.RequestTimeout, cache)
	if _, err := client.RestoreFromCache(ctx); err != nil {
		log.Printf("could not restore cached session: %s", err.Error())
	}

	a := newApp(c, client)
	a.cache = cache
	return a, nil
}

// newApp wires the client core over any backend. Tests use it with the
// in-memory backend.
func newApp(c *config.Config, b backend.Backend) *App {
	sessions := session.NewStore(b)
	sync := syncer.New(b)
	return &App{
		config:   c,
		backend:  b,
		sessions: sessions,
		guard:    gate.New(sessions),
		sync:     sync,
		machine:  apply.NewMachine(sync),
		reader:   bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) error {
	if err := a.sessions.Initialize(ctx); err != nil {
		return err
	}
	defer a.sessions.Teardown()

	unwatch := a.guard.Watch(func() {
		a.sync.Reset()
		printlnFn("Session ended, please login again.")
	})
	defer unwatch()

	if s := a.sessions.Current(); s != nil {
		log.Printf("Restored session for %s", s.Identity.Email)
		a.loadAll(ctx, s.Identity)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return a.Close()
}

func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

func (a *App) identity() (backend.Identity, bool) {
	s := a.sessions.Current()
	if s == nil {
		return backend.Identity{}, false
	}
	return s.Identity, true
}

// requireAuth gates protected commands. While the initial session lookup
// is still unresolved it neither renders nor redirects.
func (a *App) requireAuth() (backend.Identity, bool) {
	switch a.guard.Route() {
	case gate.OutcomeRender:
		id, _ := a.identity()
		return id, true
	case gate.OutcomePlaceholder:
		printlnFn("Checking cached session, try again in a moment.")
	default:
		printlnFn("Please login first.")
	}
	return backend.Identity{}, false
}

func (a *App) status() string {
	if s := a.sessions.Current(); s != nil {
		return fmt.Sprintf("(%s)", s.Identity.Email)
	}
	return ""
}

// loadAll pulls the profile document and the tracked links after a
// session becomes available.
func (a *App) loadAll(ctx context.Context, id backend.Identity) {
	if _, err := a.sync.LoadProfile(ctx, id); err != nil {
		log.Printf("error loading profile: %s", err.Error())
	}
	if _, err := a.sync.LoadRecords(ctx, id); err != nil {
		log.Printf("error loading links: %s", err.Error())
	}
}
