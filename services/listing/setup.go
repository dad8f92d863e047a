package listing

import (
	"context"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/platforms/aladin"
	"goldenbough/lib/platforms/nyt"
	"goldenbough/lib/restyutil"
	"goldenbough/lib/weeklycache"
)

// NewFetcher builds the client of the configured upstream. dump may be nil.
func NewFetcher(config Config, dump restyutil.InstrumentOutput) (bestseller.Fetcher, error) {
	if config.Upstream == UpstreamNyt {
		client, err := nyt.NewClient(nyt.ClientOptions{
			ApiKey: config.EngSecretKey,
			Dump:   dump,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := aladin.NewClient(aladin.ClientOptions{
		TTBKey:         config.SecretKey,
		RequestsPerDay: config.RequestPerDay,
		Dump:           dump,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenStorage opens the configured cache backend, the returned function
// releases it.
func OpenStorage(ctx context.Context, config CacheConfig) (weeklycache.Storage, func() error, error) {
	if config.Backend == BackendSqlite {
		storage, err := weeklycache.OpenSqliteStorage(ctx, config.SqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return storage, storage.Close, nil
	}
	storage, err := weeklycache.NewFilesystemStorage(config.Dir)
	if err != nil {
		return nil, nil, err
	}
	return storage, func() error { return nil }, nil
}

// Open wires a Service from config. Every upstream gets its own namespace of
// the cache storage so switching upstreams never serves the other's rows.
func Open(ctx context.Context, config Config, dump restyutil.InstrumentOutput) (Service, func() error, error) {
	err := config.Validate()
	if err != nil {
		return Service{}, nil, err
	}

	fetcher, err := NewFetcher(config, dump)
	if err != nil {
		return Service{}, nil, err
	}
	storage, closeStorage, err := OpenStorage(ctx, config.Cache)
	if err != nil {
		return Service{}, nil, err
	}

	cache := weeklycache.New(weeklycache.Namespace(storage, config.Upstream))
	service, err := NewService(fetcher, cache)
	if err != nil {
		closeStorage()
		return Service{}, nil, err
	}
	return service, closeStorage, nil
}
