package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

type instrumentResty struct {
	tel       API
	idcounter *uint64
}

// InstrumentResty reports every request, response and transport error going through client.
func InstrumentResty(client *resty.Client, tel API) {
	var idcounter uint64
	i := instrumentResty{tel: tel, idcounter: &idcounter}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id uint64
	// startTime does not need to rely on chrono because it does not depend on the
	// absolute time, just the difference in time.
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentResty) elapsed(ctx context.Context) (uint64, time.Duration) {
	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return 0, 0
	}
	return rc.id, time.Since(rc.startTime)
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id, duration := i.elapsed(res.Request.Context())

	if res.IsError() {
		i.tel.ReportWarning(
			report_resty_response,
			id,
			res.Request.Method,
			res.Request.URL,
			res.Status(),
			duration.String(),
		)
		return nil
	}
	i.tel.ReportDebug(
		report_resty_response,
		id,
		duration.String(),
		res.Status(),
	)
	return nil
}

// transport errors are warnings, the caller decides whether they break anything
func (i instrumentResty) onError(req *resty.Request, err error) {
	id, duration := i.elapsed(req.Context())

	i.tel.ReportWarning(
		report_resty_response,
		err,
		id,
		req.Method,
		req.URL,
		duration.String(),
	)
}
