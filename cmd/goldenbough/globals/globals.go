package globals

import (
	"context"
	"goldenbough/lib/restyutil"
	"goldenbough/services/listing"
)

type key struct{}

type Value struct {
	Config listing.Config
	// Dump is nil unless --dump-http was given.
	Dump restyutil.InstrumentOutput
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
