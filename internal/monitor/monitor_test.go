package monitor

import (
	"context"
	"errors"
	"fmt"
	"stockalert/internal/components/chrono"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/notifier"
	"stockalert/internal/product"
	"stockalert/internal/resolver"
	"stockalert/internal/snapshotstore"
	"stockalert/internal/transition"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	store   product.StoreID
	inStock map[string]bool
	delay   time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

func (r *stubResolver) Store() product.StoreID {
	return r.store
}

func (r *stubResolver) Resolve(ctx context.Context, target product.Target) resolver.Result {
	active := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		peak := r.maxActive.Load()
		if active <= peak || r.maxActive.CompareAndSwap(peak, active) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	inStock, ok := r.inStock[target.ProductID]
	if !ok {
		return resolver.Result{
			Snapshot: product.Fallback(target),
			Failure:  fmt.Errorf("%w: page unavailable", resolver.ErrResolution),
		}
	}
	return resolver.Result{
		Snapshot: product.New(
			target.Key(),
			target.Title,
			target.URL,
			decimal.NewNullDecimal(decimal.RequireFromString("999.99")),
			inStock,
		),
	}
}

type recordingNotifier struct {
	mu   sync.Mutex
	err  error
	sent []notifier.Message
}

func (n *recordingNotifier) Send(_ context.Context, message notifier.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, message)
	return n.err
}

func (n *recordingNotifier) messages() []notifier.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifier.Message(nil), n.sent...)
}

func newTarget(id string, store product.StoreID) product.Target {
	return product.Target{
		ProductID: id,
		Store:     store,
		URL:       fmt.Sprintf("https://example.com/%s", id),
		Title:     id,
	}
}

func snapshot(t product.Target, inStock bool) product.Snapshot {
	return product.New(t.Key(), t.Title, t.URL, decimal.NullDecimal{}, inStock)
}

var clock = chrono.FixedImpl{Time: time.Date(2024, 11, 2, 13, 0, 0, 0, time.UTC)}

func TestRunTransitions(t *testing.T) {
	newListing := newTarget("new-listing", product.AMAZON)
	newOutOfStock := newTarget("new-out-of-stock", product.AMAZON)
	restocked := newTarget("restocked", product.NEWEGG)
	soldOut := newTarget("sold-out", product.NEWEGG)
	stillInStock := newTarget("still-in-stock", product.CANADA_COMPUTERS)
	stillOutOfStock := newTarget("still-out-of-stock", product.CANADA_COMPUTERS)

	store := snapshotstore.NewMemoryStore(
		snapshot(restocked, false),
		snapshot(soldOut, true),
		snapshot(stillInStock, true),
		snapshot(stillOutOfStock, false),
	)
	registry := resolver.NewStaticRegistry(
		&stubResolver{store: product.AMAZON, inStock: map[string]bool{"new-listing": true, "new-out-of-stock": false}},
		&stubResolver{store: product.NEWEGG, inStock: map[string]bool{"restocked": true, "sold-out": false}},
		&stubResolver{store: product.CANADA_COMPUTERS, inStock: map[string]bool{"still-in-stock": true, "still-out-of-stock": false}},
	)
	notify := &recordingNotifier{}
	tel := telemetry.NewRecorder()

	targets := []product.Target{newListing, newOutOfStock, restocked, soldOut, stillInStock, stillOutOfStock}
	m := New(targets, store, registry, notify, tel, clock, Options{})
	report := m.Run(context.Background())

	require.Equal(t, 0, report.Failed())
	require.Len(t, report.Outcomes, len(targets))

	expected := []transition.Case{
		transition.FirstSeenInStock,
		transition.FirstSeenOutOfStock,
		transition.BackInStock,
		transition.WentOutOfStock,
		transition.SteadyInStock,
		transition.SteadyOutOfStock,
	}
	for i, outcome := range report.Outcomes {
		require.Equal(t, targets[i], outcome.Target)
		require.Equal(t, expected[i], outcome.Directive.Case, outcome.Target.ProductID)
		require.Equal(t, StageDone, outcome.Stage)
		require.NoError(t, outcome.ResolutionFailure)
		require.Equal(t, outcome.Directive.Persist, outcome.Persisted)
		require.Equal(t, outcome.Directive.Notify, outcome.Notified)
	}

	require.Equal(t, 4, store.Puts())

	sent := notify.messages()
	require.Len(t, sent, 2)
	titles := []string{sent[0].Title, sent[1].Title}
	require.ElementsMatch(t, []string{"new-listing", "restocked"}, titles)

	{
		got, ok, err := store.Get(context.Background(), soldOut.Key())
		if err != nil {
			t.Fatal(err)
		}
		require.True(t, ok)
		require.False(t, got.InStock())
	}

	require.Empty(t, tel.Reports("broken"))
	require.NotEmpty(t, tel.Reports("count"))
}

func TestRunIsolatesStoreFailures(t *testing.T) {
	a := newTarget("a", product.AMAZON)
	b := newTarget("b", product.AMAZON)

	store := snapshotstore.NewMemoryStore()
	store.FailGet(a.Key(), errors.New("connection reset"))

	registry := resolver.NewStaticRegistry(&stubResolver{
		store:   product.AMAZON,
		inStock: map[string]bool{"a": true, "b": true},
	})
	notify := &recordingNotifier{}
	tel := telemetry.NewRecorder()

	report := New([]product.Target{a, b}, store, registry, notify, tel, clock, Options{}).
		Run(context.Background())

	require.Equal(t, 1, report.Failed())

	failed := report.Outcomes[0]
	require.True(t, errors.Is(failed.Err, snapshotstore.ErrStoreUnavailable))
	require.Equal(t, StageLoad, failed.Stage)
	require.False(t, failed.Persisted)
	require.False(t, failed.Notified)

	succeeded := report.Outcomes[1]
	require.NoError(t, succeeded.Err)
	require.True(t, succeeded.Persisted)
	require.True(t, succeeded.Notified)

	sent := notify.messages()
	require.Len(t, sent, 1)
	require.Equal(t, "b", sent[0].Title)

	require.Len(t, tel.Broken(report_load), 1)
}

func TestRunAbortsBeforeNotifyWhenPersistFails(t *testing.T) {
	a := newTarget("a", product.NEWEGG)

	store := snapshotstore.NewMemoryStore()
	store.FailPut(a.Key(), errors.New("disk full"))

	registry := resolver.NewStaticRegistry(&stubResolver{
		store:   product.NEWEGG,
		inStock: map[string]bool{"a": true},
	})
	notify := &recordingNotifier{}
	tel := telemetry.NewRecorder()

	report := New([]product.Target{a}, store, registry, notify, tel, clock, Options{}).
		Run(context.Background())

	require.Equal(t, 1, report.Failed())
	require.Equal(t, StagePersist, report.Outcomes[0].Stage)
	require.True(t, report.Outcomes[0].Directive.Notify)
	require.False(t, report.Outcomes[0].Notified)
	require.Empty(t, notify.messages())
	require.Len(t, tel.Broken(report_persist), 1)
}

func TestRunKeepsWriteWhenNotifyFails(t *testing.T) {
	a := newTarget("a", product.CANADA_COMPUTERS)

	store := snapshotstore.NewMemoryStore(snapshot(a, false))
	registry := resolver.NewStaticRegistry(&stubResolver{
		store:   product.CANADA_COMPUTERS,
		inStock: map[string]bool{"a": true},
	})
	notify := &recordingNotifier{err: fmt.Errorf("%w: discord: 502", notifier.ErrNotifier)}
	tel := telemetry.NewRecorder()

	report := New([]product.Target{a}, store, registry, notify, tel, clock, Options{}).
		Run(context.Background())

	outcome := report.Outcomes[0]
	require.True(t, errors.Is(outcome.Err, notifier.ErrNotifier))
	require.Equal(t, StageNotify, outcome.Stage)
	require.Equal(t, transition.BackInStock, outcome.Directive.Case)
	require.True(t, outcome.Persisted)

	got, ok, err := store.Get(context.Background(), a.Key())
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, ok)
	require.True(t, got.InStock())
	require.Len(t, tel.Broken(report_notify), 1)
}

func TestRunPersistsResolutionFailureAsOutOfStock(t *testing.T) {
	a := newTarget("a", product.AMAZON)

	store := snapshotstore.NewMemoryStore(snapshot(a, true))
	// the stub has no entry for "a" so resolving it fails
	registry := resolver.NewStaticRegistry(&stubResolver{store: product.AMAZON})
	notify := &recordingNotifier{}

	report := New([]product.Target{a}, store, registry, notify, telemetry.NewRecorder(), clock, Options{}).
		Run(context.Background())

	outcome := report.Outcomes[0]
	require.NoError(t, outcome.Err)
	require.True(t, errors.Is(outcome.ResolutionFailure, resolver.ErrResolution))
	require.Equal(t, transition.WentOutOfStock, outcome.Directive.Case)
	require.True(t, outcome.Persisted)
	require.Empty(t, notify.messages())

	got, _, err := store.Get(context.Background(), a.Key())
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, got.InStock())
	require.False(t, got.Price().Valid)
}

func TestRunMissingResolver(t *testing.T) {
	a := newTarget("a", product.NEWEGG)

	tel := telemetry.NewRecorder()
	report := New(
		[]product.Target{a},
		snapshotstore.NewMemoryStore(),
		resolver.NewStaticRegistry(),
		&recordingNotifier{},
		tel,
		clock,
		Options{},
	).Run(context.Background())

	require.Equal(t, 1, report.Failed())
	require.Equal(t, StageResolve, report.Outcomes[0].Stage)
	require.Len(t, tel.Broken(report_resolve), 1)
}

func TestRunBoundsConcurrency(t *testing.T) {
	stub := &stubResolver{
		store:   product.AMAZON,
		inStock: map[string]bool{},
		delay:   time.Millisecond * 20,
	}
	var targets []product.Target
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p%d", i)
		stub.inStock[id] = false
		targets = append(targets, newTarget(id, product.AMAZON))
	}

	report := New(
		targets,
		snapshotstore.NewMemoryStore(),
		resolver.NewStaticRegistry(stub),
		&recordingNotifier{},
		telemetry.NewRecorder(),
		clock,
		Options{Concurrency: 3},
	).Run(context.Background())

	require.Equal(t, 0, report.Failed())
	require.LessOrEqual(t, stub.maxActive.Load(), int32(3))
	require.GreaterOrEqual(t, stub.maxActive.Load(), int32(1))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTarget("a", product.AMAZON)
	store := snapshotstore.NewMemoryStore()
	report := New(
		[]product.Target{a},
		store,
		resolver.NewStaticRegistry(&stubResolver{store: product.AMAZON, inStock: map[string]bool{"a": true}}),
		&recordingNotifier{},
		telemetry.NewRecorder(),
		clock,
		Options{},
	).Run(ctx)

	require.Equal(t, 1, report.Failed())
	require.Equal(t, StagePending, report.Outcomes[0].Stage)
	require.True(t, errors.Is(report.Outcomes[0].Err, context.Canceled))
	require.Equal(t, 0, store.Puts())
}
