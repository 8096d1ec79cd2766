package telemetry

import (
	"fmt"
)

// API is how components log and count things, tests swap it for a Recorder
// to assert that failures were reported.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that failed in a way someone should look at.
	//
	// `id` names the component that broke, not the line that broke. A failed write
	// while the monitor persists a snapshot is `monitor.persist`, which product or
	// query it was goes into params. Ids are lowercase, dots separate components and
	// dashes separate words of a method name (`sql-store.decode`). The `report_...`
	// constants in each package are the ids it uses.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that did not break anything, like a
	// page that could not be resolved. `id` follows the rules of ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only shown with verbose logging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the value of a counter at this point in time, consecutive
	// counts are samples and should not be summed.
	ReportCount(id string, count int64)
}

// KV is a named param, it renders as `key` instead of `params.<n>` in structured output.
type KV struct {
	Key   string
	Value any
}

// ScopedAPI prefixes every id with a namespace before handing it to inner.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
