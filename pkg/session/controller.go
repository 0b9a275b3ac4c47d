package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trailquest/trailquest-go/pkg/authapi"
	"github.com/trailquest/trailquest-go/pkg/credential"
	"github.com/trailquest/trailquest-go/pkg/observability"
	"github.com/trailquest/trailquest-go/pkg/store"
)

// ErrClosed is returned by Token and Refresh after Close
var ErrClosed = errors.New("session controller closed")

const (
	// DefaultRefreshWindow is how close to expiry a credential may get
	// before a proactive renewal runs
	DefaultRefreshWindow = 300 * time.Second
	// DefaultCheckInterval is the period of the background expiry check
	DefaultCheckInterval = 60 * time.Second
	// renewalTimeout bounds a single renewal request. Renewals run on a
	// background context so one caller's cancellation cannot kill a
	// renewal other callers are waiting on.
	renewalTimeout = 30 * time.Second
)

// AuthService is the auth endpoints the controller depends on. Satisfied by
// *authapi.Client.
type AuthService interface {
	Login(ctx context.Context, req authapi.LoginRequest) (*authapi.LoginResponse, error)
	Register(ctx context.Context, req authapi.RegisterRequest) (*authapi.Account, error)
	Refresh(ctx context.Context, req authapi.RefreshRequest) (*authapi.RefreshResponse, error)
	Logout(ctx context.Context, accessCredential string) error
}

// Config carries the controller's dependencies and policy knobs
type Config struct {
	// Auth is required
	Auth AuthService
	// Store defaults to an in-memory session store
	Store *store.SessionStore
	// Validator defaults to credential.NewValidator()
	Validator *credential.Validator
	// RefreshWindow defaults to DefaultRefreshWindow
	RefreshWindow time.Duration
	// CheckInterval defaults to DefaultCheckInterval
	CheckInterval time.Duration

	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// Controller owns the session state machine. It is the only component that
// may call the renewal endpoint, and it guarantees at most one renewal in
// flight regardless of how many callers need a credential concurrently.
type Controller struct {
	auth      AuthService
	store     *store.SessionStore
	validator *credential.Validator

	refreshWindow time.Duration
	checkInterval time.Duration
	logger        *observability.Logger
	metrics       *observability.Metrics

	mu       sync.Mutex
	phase    Phase
	user     *credential.UserProfile
	access   string
	refresh  string
	renewing bool
	closed   bool
	// gen marks ownership of the session records: login, logout and a
	// terminal renewal failure bump it, and a renewal that started under
	// an older gen discards its result instead of resurrecting state the
	// user already replaced
	gen uint64

	renewal singleflight.Group

	lmu          sync.Mutex
	listeners    map[int]func(State)
	nextListener int

	bgOnce   sync.Once
	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a session controller. Call Restore to hydrate persisted state
// and start the background check, and Close when done with it.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	logger = logger.WithField("component", "session")

	sessions := cfg.Store
	if sessions == nil {
		sessions = store.NewSessionStore(store.NewMemoryStore(), logger, cfg.Metrics)
	}
	validator := cfg.Validator
	if validator == nil {
		validator = credential.NewValidator()
	}
	refreshWindow := cfg.RefreshWindow
	if refreshWindow <= 0 {
		refreshWindow = DefaultRefreshWindow
	}
	checkInterval := cfg.CheckInterval
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}

	return &Controller{
		auth:          cfg.Auth,
		store:         sessions,
		validator:     validator,
		refreshWindow: refreshWindow,
		checkInterval: checkInterval,
		logger:        logger,
		metrics:       cfg.Metrics,
		phase:         PhaseUninitialized,
		listeners:     make(map[int]func(State)),
		stopCh:        make(chan struct{}),
	}
}

// State returns a consistent snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a listener called after every state change. The
// returned function removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.lmu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.lmu.Unlock()

	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

// Restore hydrates the session from the store: straight to Authenticated
// when the persisted access credential is still fresh, one renewal attempt
// when it is stale but a refresh credential exists, Unauthenticated
// otherwise. It also starts the background expiry check. Calling it again
// just reports the current state.
func (c *Controller) Restore(ctx context.Context) State {
	c.mu.Lock()
	if c.phase != PhaseUninitialized {
		st := c.snapshotLocked()
		c.mu.Unlock()
		return st
	}
	c.phase = PhaseRestoring
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)
	defer c.startBackground()

	snap := c.store.Load()
	if !snap.Complete() {
		c.logger.Debug("no persisted session")
		c.mu.Lock()
		st = c.clearLocked()
		c.mu.Unlock()
		c.metrics.SetAuthenticated(false)
		c.notify(st)
		return st
	}

	c.mu.Lock()
	c.user = snap.User
	c.access = snap.AccessCredential
	c.refresh = snap.RefreshCredential
	if c.validator.IsValid(snap.AccessCredential) &&
		!c.validator.IsExpiringSoon(snap.AccessCredential, c.refreshWindow) {
		c.phase = PhaseAuthenticated
		st = c.snapshotLocked()
		c.mu.Unlock()
		c.metrics.SetAuthenticated(true)
		c.logger.WithField("user", snap.User.Username).Info("session restored")
		c.notify(st)
		return st
	}
	c.mu.Unlock()

	// stale access credential with a refresh credential on hand
	c.logger.Info("persisted credential stale, attempting renewal")
	if _, err := c.renew(ctx); err != nil {
		c.logger.WithError(err).Warn("restore interrupted")
	}
	return c.State()
}

// Login exchanges user credentials for a session. Failures are propagated
// verbatim so the UI can display the reason; the session stays
// Unauthenticated.
func (c *Controller) Login(ctx context.Context, identifier, secret string) (State, error) {
	resp, err := c.auth.Login(ctx, authapi.LoginRequest{Identifier: identifier, Secret: secret})
	if err != nil {
		return c.State(), err
	}

	c.mu.Lock()
	c.user = resp.User
	c.access = resp.AccessCredential
	c.refresh = resp.RefreshCredential
	c.phase = PhaseAuthenticated
	c.gen++
	c.store.SaveSession(resp.User, resp.AccessCredential, resp.RefreshCredential)
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.metrics.SetAuthenticated(true)
	c.logger.WithField("user", resp.User.Username).Info("login succeeded")
	c.notify(st)
	return st, nil
}

// Register creates an account. It does not log in; a separate Login call is
// required.
func (c *Controller) Register(ctx context.Context, email, username, secret string) (*authapi.Account, error) {
	return c.auth.Register(ctx, authapi.RegisterRequest{
		Email:    email,
		Username: username,
		Secret:   secret,
	})
}

// Logout invalidates the session server-side (best effort) and
// unconditionally clears local state and the store. Safe to call in any
// phase; logging out twice is a no-op.
func (c *Controller) Logout(ctx context.Context) State {
	c.mu.Lock()
	access := c.access
	c.mu.Unlock()

	if access != "" {
		if err := c.auth.Logout(ctx, access); err != nil {
			c.logger.WithError(err).Warn("server-side logout failed, clearing local session anyway")
		}
	}

	c.mu.Lock()
	st := c.clearLocked()
	c.mu.Unlock()
	c.metrics.SetAuthenticated(false)
	c.logger.Info("logged out")
	c.notify(st)
	return st
}

// Token returns a currently valid access credential. While the held
// credential is fresh this does no I/O. Otherwise it joins (or starts) the
// single renewal in flight. An empty credential with a nil error means
// there is no session; the error is non-nil only when the caller's context
// ends or the controller is closed.
func (c *Controller) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	access, refresh := c.access, c.refresh
	c.mu.Unlock()

	if access != "" && c.validator.IsValid(access) &&
		!c.validator.IsExpiringSoon(access, c.refreshWindow) {
		return access, nil
	}
	if refresh == "" {
		return "", nil
	}
	return c.renew(ctx)
}

// Expiry reports when the held access credential expires, if one is held
// and it decodes.
func (c *Controller) Expiry() (time.Time, bool) {
	c.mu.Lock()
	access := c.access
	c.mu.Unlock()
	if access == "" {
		return time.Time{}, false
	}
	return c.validator.Expiry(access)
}

// Refresh forces a renewal even if the held credential still looks valid
// locally. The request gateway uses this when the server rejects a
// credential; it joins any renewal already in flight rather than starting a
// second one.
func (c *Controller) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	closed, refresh := c.closed, c.refresh
	c.mu.Unlock()

	if closed {
		return "", ErrClosed
	}
	if refresh == "" {
		return "", nil
	}
	return c.renew(ctx)
}

// Close stops the background check and marks the controller unusable. An
// in-flight renewal is not cancelled; its late result is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// renew funnels every renewal trigger (stale token, gateway 401, background
// check, restore) through one single-flight slot. All concurrent callers
// get the result of the one request that actually ran.
func (c *Controller) renew(ctx context.Context) (string, error) {
	ch := c.renewal.DoChan("renew", c.doRenew)
	select {
	case <-ctx.Done():
		// the renewal keeps running for the other callers
		return "", ctx.Err()
	case res := <-ch:
		token, _ := res.Val.(string)
		return token, nil
	}
}

// doRenew performs one renewal. Failure is terminal for the session: state
// and store are cleared and callers see an empty credential. The error
// return is always nil; failures resolve to a state transition instead.
func (c *Controller) doRenew() (interface{}, error) {
	c.mu.Lock()
	if c.user == nil || c.refresh == "" {
		c.mu.Unlock()
		return "", nil
	}
	req := authapi.RefreshRequest{
		RenewalKey:        c.user.RenewalKey,
		RefreshCredential: c.refresh,
	}
	gen := c.gen
	c.renewing = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), renewalTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.auth.Refresh(ctx, req)
	if err != nil {
		c.metrics.ObserveRenewal("failure", time.Since(start).Seconds())
		if errors.Is(err, authapi.ErrCredentialRejected) {
			c.logger.WithError(err).Info("refresh credential rejected, session over")
		} else {
			c.logger.WithError(err).Warn("renewal failed, clearing session")
		}
		c.clearAfterRenewal(gen)
		return "", nil
	}
	c.metrics.ObserveRenewal("success", time.Since(start).Seconds())

	c.mu.Lock()
	c.renewing = false
	if c.closed || c.gen != gen {
		// logout or a new login happened mid-flight; it is the last writer
		c.mu.Unlock()
		c.logger.Debug("discarding renewal result, session changed mid-flight")
		return "", nil
	}
	c.access = resp.AccessCredential
	if resp.RefreshCredential != "" {
		c.refresh = resp.RefreshCredential
	}
	c.phase = PhaseAuthenticated
	c.store.SaveTokens(resp.AccessCredential, resp.RefreshCredential)
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.metrics.SetAuthenticated(true)
	c.logger.Debug("credential renewed")
	c.notify(st)
	return resp.AccessCredential, nil
}

func (c *Controller) clearAfterRenewal(gen uint64) {
	c.mu.Lock()
	c.renewing = false
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	st := c.clearLocked()
	c.mu.Unlock()
	c.metrics.SetAuthenticated(false)
	c.notify(st)
}

// clearLocked resets to Unauthenticated and empties the store. Caller holds
// c.mu.
func (c *Controller) clearLocked() State {
	c.user = nil
	c.access = ""
	c.refresh = ""
	c.phase = PhaseUnauthenticated
	c.gen++
	c.store.Clear()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	st := State{
		Phase:            c.phase,
		AccessCredential: c.access,
		Renewing:         c.renewing,
	}
	if c.user != nil {
		u := *c.user
		st.User = &u
	}
	return st
}

func (c *Controller) startBackground() {
	c.bgOnce.Do(func() {
		go c.backgroundLoop()
	})
}

// backgroundLoop converts "expiring soon" into an actual renewal before any
// request needs it. Token holds the whole policy, so the loop just calls it.
func (c *Controller) backgroundLoop() {
	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			st := c.State()
			if !st.IsAuthenticated() || st.Renewing {
				continue
			}
			if _, err := c.Token(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
				c.logger.WithError(err).Warn("background credential check failed")
			}
		}
	}
}

func (c *Controller) notify(st State) {
	c.lmu.Lock()
	fns := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.lmu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
