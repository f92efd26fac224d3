// Package persist is the dual-write gateway: every accepted state change is
// written to the local cache synchronously and pushed to the remote document
// store asynchronously. The local write is authoritative for liveness; a
// remote failure is logged and counted but never surfaces to the caller.
package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ethos/internal/persist/metrics"
	"ethos/internal/userstate"
	"ethos/internal/userstate/cache"
	"ethos/internal/userstate/store"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/sentinel"
)

const tracerName = "ethos/internal/persist"

// Gateway fans a state write out to the local cache and the remote store.
type Gateway struct {
	cache   cache.Cache
	remote  store.Remote
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	tracer  trace.Tracer

	wg sync.WaitGroup
}

// New creates a Gateway. timeout bounds each remote write attempt.
func New(c cache.Cache, remote store.Remote, logger *slog.Logger, m *metrics.Metrics, timeout time.Duration) *Gateway {
	return &Gateway{
		cache:   c,
		remote:  remote,
		logger:  logger,
		metrics: m,
		timeout: timeout,
		tracer:  otel.Tracer(tracerName),
	}
}

// Persist writes the full state to the local cache, then schedules a remote
// merge write of the allow-listed document fields. The returned channel
// receives the remote outcome (buffered, never blocks the writer) and may be
// ignored; the error return covers only the local write.
func (g *Gateway) Persist(ctx context.Context, state userstate.State) (<-chan error, error) {
	if state.Auth == nil || state.Auth.UID.IsNil() {
		return nil, derrors.New(derrors.CodeInvariantViolation, "cannot persist state without a bound account")
	}

	if err := g.WriteLocal(ctx, state); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		// Detached from the request context on purpose: the remote write
		// must survive the HTTP request that triggered it.
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()
		done <- g.WriteRemote(wctx, state)
	}()
	return done, nil
}

// WriteLocal serializes the full state and overwrites the account's cache
// entry.
func (g *Gateway) WriteLocal(ctx context.Context, state userstate.State) error {
	data, err := userstate.Encode(state)
	if err != nil {
		g.metrics.CacheWriteFailures.Inc()
		return derrors.Wrap(err, derrors.CodeInternal, "encode state")
	}
	if err := g.cache.Set(ctx, state.Auth.Email, data); err != nil {
		g.metrics.CacheWriteFailures.Inc()
		return derrors.Wrap(err, derrors.CodeUnavailable, "write local cache")
	}
	g.metrics.CacheWrites.Inc()
	return nil
}

// WriteRemote performs one merge write of the allow-listed document fields.
// Failures are logged and counted here so fire-and-forget callers still get
// observability; the error is returned for callers that need to block on it.
func (g *Gateway) WriteRemote(ctx context.Context, state userstate.State) error {
	ctx, span := g.tracer.Start(ctx, "persist.WriteRemote",
		trace.WithAttributes(attribute.String("user.uid", state.Auth.UID.String())))
	defer span.End()

	start := time.Now()
	err := g.remote.MergeWrite(ctx, state.Auth.UID, userstate.RemoteDocFrom(state))
	g.metrics.ObserveRemoteWrite(start)
	if err != nil {
		g.metrics.RemoteWriteFailures.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "merge write failed")
		g.logger.Warn("remote write failed",
			"uid", state.Auth.UID,
			"error", err)
		return derrors.Wrap(err, derrors.CodeUnavailable, "remote merge write")
	}
	g.metrics.RemoteWrites.Inc()
	return nil
}

// Purge removes all persisted traces of an account: the cache entry and the
// remote document. Used by the data deletion operation.
func (g *Gateway) Purge(ctx context.Context, state userstate.State) error {
	if state.Auth == nil {
		return derrors.New(derrors.CodeInvariantViolation, "cannot purge state without a bound account")
	}
	if err := g.cache.Delete(ctx, state.Auth.Email); err != nil {
		return derrors.Wrap(err, derrors.CodeUnavailable, "delete local cache entry")
	}
	if err := g.remote.Delete(ctx, state.Auth.UID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return derrors.Wrap(err, derrors.CodeUnavailable, "delete remote document")
	}
	return nil
}

// Close waits for in-flight remote writes to drain. Call on shutdown.
func (g *Gateway) Close() {
	g.wg.Wait()
}
