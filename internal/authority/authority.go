// Package authority implements the decision engine (spec.md §4.5): the
// default → groups → user resolution across an ordered StoreSet, and the
// lifecycle (init/construct/finalize) that owns the StoreSet and its
// change monitor.
package authority

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/polkit-go/localauthority/internal/admin"
	"github.com/polkit-go/localauthority/internal/config"
	"github.com/polkit-go/localauthority/internal/identity"
	"github.com/polkit-go/localauthority/internal/rule"
	"github.com/polkit-go/localauthority/internal/storeset"
)

// Authority owns the StoreSet, the configured top-level paths, and (once
// Construct has run) the change monitor. It is the sole caller of
// storeset.Watch and the only owner of a live StoreSet (spec.md §3:
// "Authority exclusively owns StoreSet and monitors"); the validate command
// also calls storeset.Build, for a one-shot parse it discards.
type Authority struct {
	logger    *slog.Logger
	topLevels []string

	snapshot atomic.Value // holds *storeset.StoreSet
	monitor  *storeset.Monitor
	rebuildM sync.Mutex // serializes concurrent rebuild triggers only

	cache   *resultCache
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures an Authority at construction time.
type Option func(*Authority)

// WithCacheSize overrides the default decision-cache capacity.
func WithCacheSize(size int) Option {
	return func(a *Authority) { a.cache = newResultCache(size) }
}

// WithMetrics makes the Authority record against m instead of the
// private-registry Metrics that New creates.
func WithMetrics(m *Metrics) Option {
	return func(a *Authority) { a.metrics = m }
}

// New performs "init" (spec.md §3): it records the ordered top-level
// authorization paths but touches no filesystem state. Call Construct to
// build the initial StoreSet and start the monitor.
func New(logger *slog.Logger, topLevels []string, opts ...Option) *Authority {
	a := &Authority{
		logger:    logger,
		topLevels: append([]string(nil), topLevels...),
		cache:     newResultCache(1000),
		metrics:   NewMetrics(nil),
		tracer:    otel.Tracer("github.com/polkit-go/localauthority/internal/authority"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Construct builds the StoreSet from the configured paths and starts the
// change monitor (spec.md §3's "construct builds the store set and starts
// monitors"). Between Construct and Finalize the Authority is safe to
// query concurrently.
func (a *Authority) Construct(ctx context.Context) error {
	set := storeset.Build(ctx, a.logger, a.topLevels)
	a.snapshot.Store(set)

	monitor, err := storeset.Watch(a.logger, a.topLevels, func() { a.rebuild(ctx) })
	if err != nil {
		a.logger.Warn("authority: failed to start change monitor, running without live reload", "error", err)
		return nil
	}
	a.monitor = monitor
	return nil
}

// Finalize stops the change monitor and releases the StoreSet (spec.md
// §3's "finalize stops monitors and releases stores").
func (a *Authority) Finalize() {
	if a.monitor != nil {
		a.monitor.Stop()
		a.monitor = nil
	}
	a.snapshot.Store((*storeset.StoreSet)(nil))
	a.cache.Clear()
}

// rebuild tears down the current StoreSet's rules and rebuilds from
// scratch (spec.md §4.4), then publishes the new snapshot atomically and
// clears the decision cache so no query can observe a decision computed
// against the stale set. It also refreshes the monitor's watch set so any
// subdirectory created since the last rebuild gets its own watch — without
// this, edits to files inside a newly created subdirectory would never
// produce an fsnotify event (the top-level watch only fires once, for the
// subdirectory's own creation).
func (a *Authority) rebuild(ctx context.Context) {
	a.rebuildM.Lock()
	defer a.rebuildM.Unlock()

	set := storeset.Build(ctx, a.logger, a.topLevels)
	a.snapshot.Store(set)
	a.cache.Clear()
	if a.monitor != nil {
		a.monitor.Refresh(a.topLevels)
	}
	a.metrics.StoreRebuildsTotal.Inc()
	a.logger.Info("authority: store set rebuilt", "stores", set.Len(), "rules", set.RuleCount())
}

func (a *Authority) loadSnapshot() *storeset.StoreSet {
	v, _ := a.snapshot.Load().(*storeset.StoreSet)
	return v
}

// CheckAuthorization implements the three-pass default → groups → user
// resolution from spec.md §4.5. ret starts from implicit, the host-supplied
// default (the library-authoritative starting value per spec.md §9's
// resolved open question, not unknown as the standalone CLI variant used).
func (a *Authority) CheckAuthorization(
	ctx context.Context,
	userForSubject identity.Identity,
	subjectIsLocal, subjectIsActive bool,
	actionID string,
	details map[string]string,
	implicit rule.ImplicitAuthorization,
) rule.ImplicitAuthorization {
	ctx, span := a.tracer.Start(ctx, "CheckAuthorization")
	defer span.End()

	start := time.Now()
	defer func() { a.metrics.LookupDuration.Observe(time.Since(start).Seconds()) }()

	key := cacheKey(userForSubject.String(), actionID, subjectIsLocal, subjectIsActive, implicit, details)
	if cached, ok := a.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("authority.cache_hit", true))
		return cached
	}

	set := a.loadSnapshot()
	ret := implicit

	probes := make([]string, 0, 2+1)
	probes = append(probes, rule.DefaultIdentity)
	for _, g := range identity.GroupsOfUser(ctx, a.logger, userForSubject) {
		probes = append(probes, g.String())
	}
	probes = append(probes, userForSubject.String())

	passes := 0
	for _, probe := range probes {
		pick, matched := set.Resolve(probe, actionID, details, subjectIsLocal, subjectIsActive)
		if !matched {
			continue
		}
		passes++
		if pick != rule.Unknown {
			ret = pick
		}
	}

	a.cache.Put(key, ret)
	a.metrics.DecisionsTotal.WithLabelValues(ret.String()).Inc()
	span.SetAttributes(
		attribute.String("authority.outcome", ret.String()),
		attribute.Int("authority.passes_matched", passes),
	)
	return ret
}

// GetAdminIdentities resolves the administrator identity list from src
// (spec.md §4.6). It is a sibling entry point, independent of the
// StoreSet/CheckAuthorization path.
func (a *Authority) GetAdminIdentities(ctx context.Context, src config.Source) []identity.Identity {
	return admin.Resolve(ctx, a.logger, src)
}
