// Package weeklycache persists normalized listing pages, one entry per
// WeeklyKey. Entries never expire and are overwritten unconditionally.
package weeklycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goldenbough/lib/bestseller"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("goldenbough/weeklycache")

// CacheRecord is what one entry holds, the key is stored alongside the rows
// so a misplaced entry is detected on load.
type CacheRecord struct {
	Key  bestseller.WeeklyKey  `json:"key"`
	Rows []bestseller.BookItem `json:"rows"`
}

type Cache struct {
	storage Storage
}

func New(storage Storage) Cache {
	return Cache{storage: storage}
}

func (c Cache) Exists(ctx context.Context, key bestseller.WeeklyKey) (bool, error) {
	ctx, span := tracer.Start(ctx, "cache:exists")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	exists, err := c.storage.Exists(ctx, key.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check cache entry")
		return false, err
	}
	span.SetAttributes(attribute.Bool("exists", exists))
	return exists, nil
}

// Load returns ErrNotCached when nothing was saved under key and a
// *bestseller.CacheCorruptionError when the entry cannot be decoded.
func (c Cache) Load(ctx context.Context, key bestseller.WeeklyKey) (CacheRecord, error) {
	ctx, span := tracer.Start(ctx, "cache:load")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	contents, err := c.storage.Read(ctx, key.String())
	if err != nil {
		if !errors.Is(err, ErrNotCached) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read cache entry")
		}
		return CacheRecord{}, err
	}

	var record CacheRecord
	err = json.Unmarshal(contents, &record)
	if err == nil && record.Key != key {
		err = fmt.Errorf("entry holds key %s", record.Key)
	}
	if err != nil {
		err = &bestseller.CacheCorruptionError{Key: key, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "corrupt cache entry")
		return CacheRecord{}, err
	}
	if record.Rows == nil {
		record.Rows = []bestseller.BookItem{}
	}

	span.SetAttributes(attribute.Int("rows", len(record.Rows)))
	return record, nil
}

func (c Cache) Save(ctx context.Context, key bestseller.WeeklyKey, rows []bestseller.BookItem) error {
	ctx, span := tracer.Start(ctx, "cache:save")
	defer span.End()
	span.SetAttributes(
		attribute.String("cache_key", key.String()),
		attribute.Int("rows", len(rows)),
	)

	if rows == nil {
		rows = []bestseller.BookItem{}
	}
	serialized, err := json.Marshal(CacheRecord{Key: key, Rows: rows})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize rows")
		return err
	}

	err = c.storage.Write(ctx, key.String(), serialized)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache entry")
		return err
	}
	return nil
}
