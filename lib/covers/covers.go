// Package covers downloads the cover images of listing rows.
package covers

import (
	"context"
	"errors"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/restyutil"
	"goldenbough/lib/telemetry"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("goldenbough/covers")

// ErrNoCover is the result error of a row without a cover url.
var ErrNoCover = errors.New("row has no cover url")

type LoaderOptions struct {
	// Concurrency bounds the amount of downloads in flight, defaults to 8.
	Concurrency int
	// CacheSize is how many images are kept in memory, defaults to 256.
	CacheSize int
	// CacheLifetime defaults to 30 minutes.
	CacheLifetime time.Duration
	Dump          restyutil.InstrumentOutput
}

type Loader struct {
	http        *resty.Client
	images      *expirable.LRU[string, []byte]
	concurrency int
}

func NewLoader(opts LoaderOptions) Loader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheLifetime <= 0 {
		opts.CacheLifetime = time.Minute * 30
	}

	client := resty.New()
	telemetry.InstrumentResty(client, "goldenbough/covers/http")
	restyutil.InstrumentClient(client, "cover", opts.Dump)

	return Loader{
		http:        client,
		images:      expirable.NewLRU[string, []byte](opts.CacheSize, nil, opts.CacheLifetime),
		concurrency: opts.Concurrency,
	}
}

// Result is the outcome of one row, Index is the row's position in the
// slice given to LoadAll.
type Result struct {
	Index int
	Url   string
	Image []byte
	Err   error
}

// Load downloads a single image, repeated urls are served from memory.
func (l Loader) Load(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	cached, hit := l.images.Get(url)
	if hit {
		span.SetAttributes(attribute.Bool("cached", true))
		return cached, nil
	}

	res, err := l.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download cover")
		return nil, &bestseller.NetworkError{Url: url, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status code")
		return nil, &bestseller.HttpStatusError{StatusCode: res.StatusCode()}
	}

	image := res.Body()
	l.images.Add(url, image)
	span.SetAttributes(attribute.Int("bytes", len(image)))
	return image, nil
}

// LoadAll downloads the cover of every row concurrently. A failing row only
// fails its own Result, the results are in row order.
func (l Loader) LoadAll(ctx context.Context, rows []bestseller.BookItem) []Result {
	ctx, span := tracer.Start(ctx, "LoadAll")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	results := make([]Result, len(rows))
	group := errgroup.Group{}
	group.SetLimit(l.concurrency)
	for i, row := range rows {
		i := i
		url := bestseller.Value(row.CoverUrl)
		results[i] = Result{Index: i, Url: url}
		if url == "" {
			results[i].Err = ErrNoCover
			continue
		}
		group.Go(func() error {
			results[i].Image, results[i].Err = l.Load(ctx, url)
			return nil
		})
	}
	group.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("failed", failed))
	return results
}
