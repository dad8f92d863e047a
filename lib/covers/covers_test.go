package covers

import (
	"context"
	"errors"
	"goldenbough/lib/bestseller"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newImageServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg:" + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func row(url string) bestseller.BookItem {
	if url == "" {
		return bestseller.BookItem{Title: bestseller.Ptr("no cover")}
	}
	return bestseller.BookItem{CoverUrl: bestseller.Ptr(url)}
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	server, _ := newImageServer(t)
	loader := NewLoader(LoaderOptions{Concurrency: 2})

	rows := []bestseller.BookItem{
		row(server.URL + "/a.jpg"),
		row(server.URL + "/missing.jpg"),
		row(""),
		row("http://127.0.0.1:1/unreachable.jpg"),
		row(server.URL + "/b.jpg"),
	}
	results := loader.LoadAll(context.Background(), rows)
	require.Len(t, results, len(rows))

	for i, r := range results {
		require.Equal(t, i, r.Index)
	}

	require.NoError(t, results[0].Err)
	require.Equal(t, "jpeg:/a.jpg", string(results[0].Image))

	var statusErr *bestseller.HttpStatusError
	require.True(t, errors.As(results[1].Err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	require.ErrorIs(t, results[2].Err, ErrNoCover)

	var netErr *bestseller.NetworkError
	require.True(t, errors.As(results[3].Err, &netErr))

	require.NoError(t, results[4].Err)
	require.Equal(t, "jpeg:/b.jpg", string(results[4].Image))
}

func TestLoadMemoizes(t *testing.T) {
	server, requests := newImageServer(t)
	loader := NewLoader(LoaderOptions{})

	for i := 0; i < 3; i++ {
		image, err := loader.Load(context.Background(), server.URL+"/a.jpg")
		require.NoError(t, err)
		require.Equal(t, "jpeg:/a.jpg", string(image))
	}
	require.Equal(t, int64(1), requests.Load())

	_, err := loader.Load(context.Background(), server.URL+"/missing.jpg")
	require.Error(t, err)
	_, err = loader.Load(context.Background(), server.URL+"/missing.jpg")
	require.Error(t, err)
	require.Equal(t, int64(3), requests.Load())
}
