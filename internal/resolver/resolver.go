package resolver

import (
	"context"
	"errors"
	"fmt"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/product"
	"stockalert/lib/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("resolver")

// ErrResolution is wrapped by every Result.Failure.
var ErrResolution = errors.New("resolution failed")

// Result is the outcome of a resolution. Snapshot is always usable, when
// Failure is set it is the fallback snapshot (out of stock, no price).
type Result struct {
	Snapshot product.Snapshot
	Failure  error
}

// Resolver fetches the current state of a product from a single store.
type Resolver interface {
	Store() product.StoreID
	Resolve(ctx context.Context, target product.Target) Result
}

const (
	report_resolve = "resolve"
)

type htmlResolver struct {
	store   product.StoreID
	client  pageClient
	extract extractor
	tel     telemetry.API
}

func newHTMLResolver(store product.StoreID, opts ClientOptions, extract extractor, tel telemetry.API) (htmlResolver, error) {
	tel = telemetry.NewScopedAPI(fmt.Sprintf("resolver.%s", store.String()), tel)
	client, err := newPageClient(opts, tel)
	if err != nil {
		return htmlResolver{}, err
	}
	return htmlResolver{
		store:   store,
		client:  client,
		extract: extract,
		tel:     tel,
	}, nil
}

func (r htmlResolver) Store() product.StoreID {
	return r.store
}

func (r htmlResolver) Resolve(ctx context.Context, target product.Target) (result Result) {
	ctx, span := tracer.Start(ctx, "resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("product", target.ProductID),
		attribute.String("store", r.store.String()),
	)

	failed := func(err error) Result {
		err = fmt.Errorf("%w: %s: %w", ErrResolution, target.Key(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution failed")
		r.tel.ReportWarning(report_resolve, err)
		return Result{Snapshot: product.Fallback(target), Failure: err}
	}
	// hooks installed on the http client run inside resolve
	defer func() {
		if p := recover(); p != nil {
			result = failed(fmt.Errorf("panic: %v", p))
		}
	}()

	snapshot, err := r.resolve(ctx, target)
	if err != nil {
		return failed(err)
	}
	return Result{Snapshot: snapshot}
}

func (r htmlResolver) resolve(ctx context.Context, target product.Target) (product.Snapshot, error) {
	if target.Store != r.store {
		return product.Snapshot{}, fmt.Errorf("target belongs to %s", target.Store)
	}
	if target.URL == "" {
		return product.Snapshot{}, fmt.Errorf("target has no url")
	}

	doc, err := r.client.fetch(ctx, target.URL)
	if err != nil {
		return product.Snapshot{}, err
	}

	price := r.extract.price(doc)
	avail := r.extract.availability(doc)
	if !avail.known && !price.Valid {
		return product.Snapshot{}, fmt.Errorf("unrecognized page")
	}

	title := target.Title
	if title == "" {
		title = htmlutil.Text(doc.Find("title"))
	}
	return product.New(target.Key(), title, target.URL, price, avail.inStock), nil
}
