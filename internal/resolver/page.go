package resolver

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"stockalert/internal/components/telemetry"
	"stockalert/lib/restyutil"
	libtelemetry "stockalert/lib/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// ClientOptions configures the HTTP client shared by all resolutions of a store.
type ClientOptions struct {
	// Timeout is the ceiling for a single page load, defaults to 10 seconds.
	Timeout time.Duration
	// RequestsPerSecond limits requests to the store, defaults to 1.
	RequestsPerSecond float64
	// UserAgent defaults to a desktop chrome user agent.
	UserAgent string
	// Dump receives every http exchange when set.
	Dump restyutil.Output
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = time.Second * 10
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 1
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

type pageClient struct {
	http *resty.Client
	tel  telemetry.API
}

func newPageClient(opts ClientOptions, tel telemetry.API) (pageClient, error) {
	opts = opts.withDefaults()

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return pageClient{}, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("accept-language", "en-CA,en;q=0.9")
	httpClient.SetTimeout(opts.Timeout)

	// burst 1 means requests queue instead of being dropped
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	libtelemetry.InstrumentResty(httpClient, "resolver")
	if opts.Dump != nil {
		restyutil.Dump(httpClient, opts.Dump)
	}

	return pageClient{http: httpClient, tel: tel}, nil
}

// fetch loads link and parses it as html, non-2xx responses are errors.
func (c pageClient) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch: unexpected status %s", res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}
