// Package monitor runs one check cycle over every tracked product.
package monitor

import (
	"context"
	"fmt"
	"stockalert/internal/components/assert"
	"stockalert/internal/components/chrono"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/notifier"
	"stockalert/internal/product"
	"stockalert/internal/resolver"
	"stockalert/internal/snapshotstore"
	"stockalert/internal/transition"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("monitor")

const (
	report_load      = "monitor.load"
	report_persist   = "monitor.persist"
	report_notify    = "monitor.notify"
	report_resolve   = "monitor.resolve"
	report_failed    = "monitor.run-failed"
	report_notified  = "monitor.run-notified"
	report_persisted = "monitor.run-persisted"
)

const defaultConcurrency = 2

type Options struct {
	// Concurrency is the number of pairs checked at the same time, defaults to 2.
	Concurrency int
}

type Monitor struct {
	targets   []product.Target
	store     snapshotstore.Store
	resolvers resolver.Registry
	notifier  notifier.Notifier
	tel       telemetry.API
	time      chrono.API
	opts      Options
}

func New(
	targets []product.Target,
	store snapshotstore.Store,
	resolvers resolver.Registry,
	notify notifier.Notifier,
	tel telemetry.API,
	time chrono.API,
	opts Options,
) Monitor {
	assert.NotNil(store)
	assert.NotNil(notify)
	assert.NotNil(tel)
	assert.NotNil(time)

	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}

	return Monitor{
		targets:   targets,
		store:     store,
		resolvers: resolvers,
		notifier:  notify,
		tel:       tel,
		time:      time,
		opts:      opts,
	}
}

// Run checks every target once. Failures of one pair never affect another,
// they are recorded in the returned Report instead.
func (m Monitor) Run(ctx context.Context) Report {
	ctx, span := tracer.Start(ctx, "monitor.run")
	defer span.End()

	report := Report{
		Started:  m.time.Now(),
		Outcomes: make([]Outcome, len(m.targets)),
	}

	group := errgroup.Group{}
	group.SetLimit(m.opts.Concurrency)
	for i, target := range m.targets {
		if ctx.Err() != nil {
			report.Outcomes[i] = Outcome{
				Target: target,
				Stage:  StagePending,
				Err:    fmt.Errorf("skipped: %w", ctx.Err()),
			}
			continue
		}
		group.Go(func() error {
			report.Outcomes[i] = m.check(ctx, target)
			return nil
		})
	}
	group.Wait()

	report.Finished = m.time.Now()

	failed := report.Failed()
	span.SetAttributes(
		attribute.Int("targets", len(m.targets)),
		attribute.Int("failed", failed),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d pairs failed", failed))
	}

	m.tel.ReportCount(report_failed, int64(failed))
	m.tel.ReportCount(report_persisted, int64(report.count(func(o Outcome) bool { return o.Persisted })))
	m.tel.ReportCount(report_notified, int64(report.count(func(o Outcome) bool { return o.Notified })))

	return report
}

// check runs the pipeline of a single pair, stages are strictly sequential.
func (m Monitor) check(ctx context.Context, target product.Target) Outcome {
	ctx, span := tracer.Start(ctx, "monitor.pair")
	defer span.End()
	span.SetAttributes(
		attribute.String("product_id", target.ProductID),
		attribute.String("store_id", target.Store.String()),
	)

	out := Outcome{Target: target}
	fail := func(id string, err error) Outcome {
		out.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed at %s", out.Stage))
		m.tel.ReportBroken(
			id,
			telemetry.KV{Key: "product_id", Value: target.ProductID},
			telemetry.KV{Key: "store_id", Value: target.Store.String()},
			telemetry.KV{Key: "stage", Value: out.Stage.String()},
			err,
		)
		return out
	}

	out.Stage = StageResolve
	res, ok := m.resolvers.For(target.Store)
	if !ok {
		return fail(report_resolve, fmt.Errorf("no resolver for store %s", target.Store))
	}
	result := res.Resolve(ctx, target)
	current := result.Snapshot
	out.ResolutionFailure = result.Failure

	out.Stage = StageLoad
	previous, found, err := m.store.Get(ctx, target.Key())
	if err != nil {
		return fail(report_load, err)
	}

	out.Stage = StageDecide
	var prev *product.Snapshot
	if found {
		prev = &previous
	}
	out.Directive = transition.Decide(prev, current)
	span.SetAttributes(attribute.String("case", out.Directive.Case.String()))
	m.tel.ReportDebug(
		"decided",
		telemetry.KV{Key: "key", Value: target.Key().String()},
		telemetry.KV{Key: "case", Value: out.Directive.Case.String()},
	)

	if out.Directive.Persist {
		out.Stage = StagePersist
		err = m.store.Put(ctx, current)
		if err != nil {
			return fail(report_persist, err)
		}
		out.Persisted = true
	}
	span.SetAttributes(attribute.Bool("persisted", out.Persisted))

	if out.Directive.Notify {
		out.Stage = StageNotify
		err = m.notifier.Send(ctx, notifier.Render(current))
		if err != nil {
			return fail(report_notify, err)
		}
		out.Notified = true
	}
	span.SetAttributes(attribute.Bool("notified", out.Notified))

	out.Stage = StageDone
	return out
}
