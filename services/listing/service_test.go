package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/platforms/aladin"
	"goldenbough/lib/telemetry"
	"goldenbough/lib/testutil"
	"goldenbough/lib/weeklycache"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	rows    map[int][]bestseller.BookItem
	err     error
	queries []bestseller.Query
}

func (f *fakeFetcher) Fetch(ctx context.Context, q bestseller.Query) ([]bestseller.BookItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[q.Page()], nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// blockingFetcher holds every fetch until release is closed.
type blockingFetcher struct {
	fakeFetcher
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, q bestseller.Query) ([]bestseller.BookItem, error) {
	f.started <- struct{}{}
	<-f.release
	return f.fakeFetcher.Fetch(ctx, q)
}

func setup(t *testing.T, fetcher bestseller.Fetcher) (Service, string) {
	t.Cleanup(telemetry.SetupForTesting(t, "test:services/listing"))

	dir := filepath.Join(t.TempDir(), "cache")
	storage, err := weeklycache.NewFilesystemStorage(dir)
	require.NoError(t, err)
	service, err := NewService(fetcher, weeklycache.New(storage))
	require.NoError(t, err)
	return service, dir
}

var key = bestseller.WeeklyKey{Year: 2024, Month: 5, Week: 3, Page: 1}

func TestResolveCachesFetchedPage(t *testing.T) {
	lightNovel := testutil.Book(2, "국내도서>소설/시/희곡>라이트 노벨")
	soldOut := testutil.Book(3, "국내도서>소설/시/희곡")
	soldOut.StockStatus = "품절"
	fetcher := &fakeFetcher{rows: map[int][]bestseller.BookItem{
		1: {testutil.Book(1, "국내도서>소설/시/희곡"), lightNovel, soldOut},
	}}
	service, dir := setup(t, fetcher)
	ctx := context.Background()

	exists, err := service.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, exists)

	rows, err := service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls())

	first := testutil.Book(1, "국내도서>소설/시/희곡")
	first.StockStatus = bestseller.AvailableStock
	require.Empty(t, cmp.Diff([]bestseller.BookItem{first, soldOut}, rows))

	exists, err = service.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, exists)

	contents, err := os.ReadFile(filepath.Join(dir, "2024-5-3-1.json"))
	require.NoError(t, err)
	var record weeklycache.CacheRecord
	require.NoError(t, json.Unmarshal(contents, &record))
	require.Empty(t, cmp.Diff(rows, record.Rows))

	again, err := service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls())
	require.Empty(t, cmp.Diff(rows, again))
}

func TestResolveHitSkipsNormalization(t *testing.T) {
	storageDir := filepath.Join(t.TempDir(), "cache")
	storage, err := weeklycache.NewFilesystemStorage(storageDir)
	require.NoError(t, err)
	cache := weeklycache.New(storage)

	// rows saved by an older version of the filter are served as stored
	stored := []bestseller.BookItem{testutil.Book(1, "국내도서>라이트 노벨")}
	require.NoError(t, cache.Save(context.Background(), key, stored))

	fetcher := &fakeFetcher{}
	service, err := NewService(fetcher, cache)
	require.NoError(t, err)

	rows, err := service.Resolve(context.Background(), key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Equal(t, 0, fetcher.calls())
	require.Empty(t, cmp.Diff(stored, rows))
}

func TestResolveEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[int][]bestseller.BookItem{}}
	service, _ := setup(t, fetcher)
	ctx := context.Background()

	rows, err := service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Len(t, rows, 0)

	exists, err := service.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, exists)

	_, err = service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls())
}

func TestResolveFetchErrorSavesNothing(t *testing.T) {
	fetchErr := &bestseller.HttpStatusError{StatusCode: http.StatusBadGateway}
	fetcher := &fakeFetcher{err: fetchErr}
	service, dir := setup(t, fetcher)
	ctx := context.Background()

	_, err := service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.Same(t, fetchErr, err)

	exists, err := service.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, exists)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 0)
}

func TestResolveCorruptEntry(t *testing.T) {
	fetcher := &fakeFetcher{}
	service, dir := setup(t, fetcher)
	err := os.WriteFile(filepath.Join(dir, "2024-5-3-1.json"), []byte(`{"rows": [`), 0644)
	require.NoError(t, err)

	_, err = service.Resolve(context.Background(), key, bestseller.QueryForKey(key, 50))
	var corrupt *bestseller.CacheCorruptionError
	require.True(t, errors.As(err, &corrupt))
	require.Equal(t, 0, fetcher.calls())
}

type failingCache struct {
	weeklycache.Cache
	err error
}

func (c failingCache) Save(ctx context.Context, key bestseller.WeeklyKey, rows []bestseller.BookItem) error {
	return c.err
}

func TestResolveSaveError(t *testing.T) {
	storage, err := weeklycache.NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	saveErr := errors.New("disk full")
	fetcher := &fakeFetcher{rows: map[int][]bestseller.BookItem{1: {testutil.Book(1, "소설")}}}
	service, err := NewService(fetcher, failingCache{Cache: weeklycache.New(storage), err: saveErr})
	require.NoError(t, err)

	rows, err := service.Resolve(context.Background(), key, bestseller.QueryForKey(key, 50))
	require.ErrorIs(t, err, saveErr)
	require.Nil(t, rows)
}

func TestResolvePages(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[int][]bestseller.BookItem{}}
	for page := 1; page <= 3; page++ {
		fetcher.rows[page] = []bestseller.BookItem{
			testutil.Book(page*10+1, "소설"),
			testutil.Book(page*10+2, "소설"),
		}
	}
	service, dir := setup(t, fetcher)

	pages, err := service.ResolvePages(context.Background(), key, 3, bestseller.QueryForKey(key, 2))
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, rows := range pages {
		require.Len(t, rows, 2)
		require.Equal(t, (i+1)*10+1, *rows[0].ListRank)
	}
	require.Equal(t, 3, fetcher.calls())

	for page := 1; page <= 3; page++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("2024-5-3-%d.json", page)))
		require.NoError(t, err)
	}
}

func TestResolveWithAladin(t *testing.T) {
	upstream := testutil.NewUpstream(t, http.StatusOK, `{
		"startIndex": 1,
		"item": [
			{"title": "A", "itemId": 1, "categoryName": "국내도서>소설/시/희곡", "stockStatus": "", "bestRank": 1},
			{"title": "B", "itemId": 2, "categoryName": "국내도서>라이트 노벨", "stockStatus": "", "bestRank": 2},
			{"title": "C", "itemId": 3, "categoryName": "국내도서>소설/시/희곡", "stockStatus": "품절", "bestRank": 3}
		]
	}`)
	client, err := aladin.NewClient(aladin.ClientOptions{
		TTBKey:  "ttbtest",
		BaseUrl: upstream.URL,
	})
	require.NoError(t, err)
	service, _ := setup(t, client)
	ctx := context.Background()

	rows, err := service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "A", *rows[0].Title)
	require.Equal(t, bestseller.AvailableStock, rows[0].StockStatus)
	require.Equal(t, "C", *rows[1].Title)
	require.Equal(t, "품절", rows[1].StockStatus)

	query := upstream.LastQuery()
	require.Equal(t, "2024", query.Get("Year"))
	require.Equal(t, "5", query.Get("Month"))
	require.Equal(t, "3", query.Get("Week"))
	require.Equal(t, "1", query.Get("start"))

	_, err = service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Equal(t, 1, upstream.Requests())

	_, err = service.Resolve(ctx, key.WithPage(2), bestseller.QueryForKey(key.WithPage(2), 50))
	require.NoError(t, err)
	require.Equal(t, 2, upstream.Requests())
	require.Equal(t, "2", upstream.LastQuery().Get("start"))
}

func TestResolveConcurrentMisses(t *testing.T) {
	fetcher := &blockingFetcher{
		fakeFetcher: fakeFetcher{rows: map[int][]bestseller.BookItem{
			1: {testutil.Book(1, "소설")},
			2: {testutil.Book(51, "소설")},
		}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	service, dir := setup(t, fetcher)
	ctx := context.Background()

	keys := []bestseller.WeeklyKey{key, key, key.WithPage(2)}
	results := make([][]bestseller.BookItem, len(keys))
	errs := make([]error, len(keys))
	var wg sync.WaitGroup
	for i, k := range keys {
		i, k := i, k
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = service.Resolve(ctx, k, bestseller.QueryForKey(k, 50))
		}()
	}

	// every call has missed the cache before any of them saves
	for range keys {
		<-fetcher.started
	}
	close(fetcher.release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 3, fetcher.calls())
	require.Empty(t, cmp.Diff(results[0], results[1]))
	require.Equal(t, 51, *results[2][0].ListRank)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.ElementsMatch(t, []string{"2024-5-3-1.json", "2024-5-3-2.json"}, names)

	rows, err := service.Resolve(ctx, key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Equal(t, 3, fetcher.calls())
	require.Empty(t, cmp.Diff(results[0], rows))
}

func TestResolveDropsLightNovelAndDefaultsStock(t *testing.T) {
	upstream := testutil.NewUpstream(t, http.StatusOK, `{
		"startIndex": 1,
		"item": [
			{"title": "A", "itemId": 1, "categoryName": "국내도서>소설/시/희곡>라이트 노벨", "stockStatus": "", "bestRank": 1},
			{"title": "B", "itemId": 2, "categoryName": "국내도서>소설/시/희곡>한국소설", "stockStatus": "", "bestRank": 2}
		]
	}`)
	client, err := aladin.NewClient(aladin.ClientOptions{TTBKey: "ttbtest", BaseUrl: upstream.URL})
	require.NoError(t, err)
	service, dir := setup(t, client)

	rows, err := service.Resolve(context.Background(), key, bestseller.QueryForKey(key, 50))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "B", *rows[0].Title)
	require.Equal(t, "구매 가능", rows[0].StockStatus)

	contents, err := os.ReadFile(filepath.Join(dir, "2024-5-3-1.json"))
	require.NoError(t, err)
	var record weeklycache.CacheRecord
	require.NoError(t, json.Unmarshal(contents, &record))
	require.Equal(t, key, record.Key)
	require.Empty(t, cmp.Diff(rows, record.Rows))
}
