// Package listing coordinates the fetch, normalize and cache pipeline of a
// weekly bestseller listing.
package listing

import (
	"context"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/weeklycache"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

var (
	tracer = otel.Tracer("goldenbough/services/listing")
	meter  = otel.Meter("goldenbough/services/listing")
)

// Cache is the storage the service reads through, weeklycache.Cache
// implements it.
type Cache interface {
	Exists(ctx context.Context, key bestseller.WeeklyKey) (bool, error)
	Load(ctx context.Context, key bestseller.WeeklyKey) (weeklycache.CacheRecord, error)
	Save(ctx context.Context, key bestseller.WeeklyKey, rows []bestseller.BookItem) error
}

type Service struct {
	fetcher bestseller.Fetcher
	cache   Cache

	hits    metric.Int64Counter
	misses  metric.Int64Counter
	fetches metric.Int64Counter
}

func NewService(fetcher bestseller.Fetcher, cache Cache) (Service, error) {
	hits, err := meter.Int64Counter(
		"listing_cache_hits_total",
		metric.WithDescription("The total amount of pages served from the cache."),
	)
	if err != nil {
		return Service{}, err
	}
	misses, err := meter.Int64Counter(
		"listing_cache_misses_total",
		metric.WithDescription("The total amount of pages that were not cached yet."),
	)
	if err != nil {
		return Service{}, err
	}
	fetches, err := meter.Int64Counter(
		"listing_fetches_total",
		metric.WithDescription("The total amount of upstream fetches made."),
	)
	if err != nil {
		return Service{}, err
	}

	return Service{
		fetcher: fetcher,
		cache:   cache,
		hits:    hits,
		misses:  misses,
		fetches: fetches,
	}, nil
}

// Exists reports whether the page addressed by key is already cached.
func (s Service) Exists(ctx context.Context, key bestseller.WeeklyKey) (bool, error) {
	return s.cache.Exists(ctx, key)
}

// Resolve returns the rows of the page addressed by key. A cached page is
// returned as stored, otherwise q is fetched, normalized and saved under key
// before being returned. Errors from the fetcher and the cache are returned
// as is and nothing is saved when any step fails.
//
// Concurrent misses on the same key each fetch and each save, the last save
// wins.
func (s Service) Resolve(ctx context.Context, key bestseller.WeeklyKey, q bestseller.Query) ([]bestseller.BookItem, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("key", key.String()))

	cached, err := s.cache.Exists(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check cache")
		return nil, err
	}

	if cached {
		record, err := s.cache.Load(ctx, key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load cached page")
			return nil, err
		}
		s.hits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cached", true))
		slog.DebugContext(ctx, "cache hit", "key", key.String(), "rows", len(record.Rows))
		return record.Rows, nil
	}

	s.misses.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cached", false))
	slog.DebugContext(ctx, "cache miss, fetching", "key", key.String())

	s.fetches.Add(ctx, 1)
	rows, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}

	rows = bestseller.Normalize(rows)
	err = s.cache.Save(ctx, key, rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save page")
		return nil, err
	}

	slog.DebugContext(ctx, "cached page", "key", key.String(), "rows", len(rows))
	return rows, nil
}

// ResolvePages resolves pages 1 through pages of the week key belongs to,
// each page concurrently under its own key. The result holds one slice per
// page in page order, the first error cancels the rest.
func (s Service) ResolvePages(ctx context.Context, key bestseller.WeeklyKey, pages int, q bestseller.Query) ([][]bestseller.BookItem, error) {
	ctx, span := tracer.Start(ctx, "ResolvePages")
	defer span.End()
	span.SetAttributes(
		attribute.String("key", key.String()),
		attribute.Int("pages", pages),
	)

	results := make([][]bestseller.BookItem, pages)
	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < pages; i++ {
		page := i + 1
		group.Go(func() error {
			rows, err := s.Resolve(groupCtx, key.WithPage(page), q.StartPage(page))
			if err != nil {
				return err
			}
			results[page-1] = rows
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve pages")
		return nil, err
	}
	return results, nil
}
