// Package restyutil dumps the full http exchanges of a resty client, it is
// meant for inspecting what a store actually served when extraction breaks.
package restyutil

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string) error
}

// Dump writes every response received by client to output, files are named
// "<n>-<host>.txt" in the order responses arrive.
func Dump(client *resty.Client, output Output) {
	var counter atomic.Uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := counter.Add(1)

		host := "unknown"
		if res.Request.RawRequest != nil {
			host = strings.ReplaceAll(res.Request.RawRequest.URL.Host, ":", "_")
		}
		id := fmt.Sprintf("%03d-%s.txt", n, host)

		err := output.Write(id, formatHttpMessage(res))
		if err != nil {
			slog.Warn("failed to write http exchange", "id", id, "err", err)
		}
		return nil
	})
}
