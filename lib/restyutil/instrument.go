package restyutil

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient dumps every response the client receives to `output`,
// numbered in the order they arrive. `name` prefixes the dump ids.
// `output` can be nil, in which case this is a no-op.
func InstrumentClient(client *resty.Client, name string, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%s-%04d", name, atomic.AddUint64(&idcounter, 1))
		output.Write(id, formatHttpMessage(res))
		slog.DebugContext(res.Request.Context(), "dumped http message", "id", id)
		return nil
	})
}
