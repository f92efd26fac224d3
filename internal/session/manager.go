package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ethos/internal/reconcile"
	"ethos/internal/session/metrics"
	"ethos/internal/userstate"
	"ethos/internal/userstate/cache"
	"ethos/internal/userstate/store"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/sentinel"
)

// Manager tracks one Session per signed-in account and runs the three-way
// reconciliation at sign-in.
type Manager struct {
	remote    store.Remote
	cache     cache.Cache
	persister Persister
	feed      FeedPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	tracer    trace.Tracer

	mu       sync.Mutex
	sessions map[id.UserID]*Session
}

type Option func(m *Manager)

// WithFeedPublisher attaches the community feed broker.
func WithFeedPublisher(feed FeedPublisher) Option {
	return func(m *Manager) {
		m.feed = feed
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager constructs a Manager.
func NewManager(remote store.Remote, c cache.Cache, p Persister, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Manager {
	mgr := &Manager{
		remote:    remote,
		cache:     c,
		persister: p,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		tracer:    otel.Tracer(tracerName),
		sessions:  make(map[id.UserID]*Session),
	}
	for _, opt := range opts {
		opt(mgr)
	}
	return mgr
}

// SignIn resolves the authoritative state for the account and returns its
// controller. A remote snapshot with real data wins; otherwise a locally
// cached state migrates upward; otherwise a first-run default is created.
// Signing in an already-active account returns the existing controller.
func (m *Manager) SignIn(ctx context.Context, ident reconcile.Identity) (*Session, error) {
	ctx, span := m.tracer.Start(ctx, "session.SignIn",
		trace.WithAttributes(attribute.String("user.uid", ident.UID.String())))
	defer span.End()

	if ident.UID.IsNil() || ident.Email == "" {
		return nil, derrors.New(derrors.CodeUnauthorized, "sign-in requires a resolved identity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[ident.UID]; ok {
		return existing, nil
	}

	remote := m.loadRemote(ctx, ident.UID)
	local := m.loadLocal(ctx, ident.Email)

	res := reconcile.Reconcile(remote, local, ident, m.now())
	span.SetAttributes(attribute.String("reconcile.source", string(res.Source)))
	m.logger.InfoContext(ctx, "session reconciled",
		"uid", ident.UID,
		"source", res.Source,
		"push_remote", res.PushRemote)

	sess := newSession(res.State, m.persister, m.feed, m.logger, m.metrics, m.now)
	m.installState(ctx, sess, res)

	m.sessions[ident.UID] = sess
	m.metrics.SignIns.Inc()
	m.metrics.ActiveSessions.Inc()
	return sess, nil
}

// Get returns the controller for a signed-in account.
func (m *Manager) Get(uid id.UserID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[uid]
	if !ok {
		return nil, derrors.New(derrors.CodeNotFound, "no active session for account")
	}
	return sess, nil
}

// SignOut stops the account's step tracking and releases its controller.
// Safe to call for accounts that are not signed in.
func (m *Manager) SignOut(ctx context.Context, uid id.UserID) {
	m.mu.Lock()
	sess, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()

	if !ok {
		return
	}
	sess.StopStepTracking()
	m.metrics.SignOuts.Inc()
	m.metrics.ActiveSessions.Dec()
	m.logger.InfoContext(ctx, "session closed", "uid", uid)
}

// Close signs out every active session. Call on shutdown.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	uids := make([]id.UserID, 0, len(m.sessions))
	for uid := range m.sessions {
		uids = append(uids, uid)
	}
	m.mu.Unlock()

	for _, uid := range uids {
		m.SignOut(ctx, uid)
	}
}

// loadRemote fetches the remote snapshot. Absence and unavailability both
// resolve to nil; unavailability is logged so the local fallback is visible.
func (m *Manager) loadRemote(ctx context.Context, uid id.UserID) *store.Snapshot {
	snap, err := m.remote.Load(ctx, uid)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			m.logger.WarnContext(ctx, "remote load failed, falling back to local",
				"uid", uid,
				"error", err)
		}
		return nil
	}
	return snap
}

// loadLocal fetches and decodes the cached state. A corrupt entry is
// treated as absent.
func (m *Manager) loadLocal(ctx context.Context, email string) *userstate.State {
	data, err := m.cache.Get(ctx, email)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			m.logger.WarnContext(ctx, "local cache read failed", "error", err)
		}
		return nil
	}
	state, err := userstate.DecodeSnapshot(data)
	if err != nil {
		m.logger.WarnContext(ctx, "discarding undecodable cache entry", "error", err)
		return nil
	}
	return &state
}

// installState performs the writes the reconciliation decided on. This is
// the only load-time persistence; the session itself never writes until a
// mutation is accepted.
func (m *Manager) installState(ctx context.Context, sess *Session, res reconcile.Result) {
	if res.PushRemote {
		if _, err := m.persister.Persist(ctx, res.State); err != nil {
			m.logger.ErrorContext(ctx, "migration write failed", "error", err)
		}
		return
	}
	if res.MirrorLocal {
		if err := m.persister.WriteLocal(ctx, res.State); err != nil {
			m.logger.ErrorContext(ctx, "cache mirror write failed", "error", err)
		}
	}
}
