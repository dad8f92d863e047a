package telemetry

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactUrl(t *testing.T) {
	testCases := []struct {
		url    string
		expect string
	}{
		{
			url:    "http://www.aladin.co.kr/ttb/api/ItemList.aspx?ttbkey=secret&QueryType=Bestseller",
			expect: "http://www.aladin.co.kr/ttb/api/ItemList.aspx?QueryType=Bestseller&ttbkey=REDACTED",
		},
		{
			url:    "https://api.nytimes.com/svc/books/v3/lists/current/hardcover-fiction.json?api-key=secret",
			expect: "https://api.nytimes.com/svc/books/v3/lists/current/hardcover-fiction.json?api-key=REDACTED",
		},
		{
			url:    "https://image.aladin.co.kr/product/cover.jpg",
			expect: "https://image.aladin.co.kr/product/cover.jpg",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, RedactUrl(test.url))
	}
}

func TestRedactError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &url.Error{
		Op:  "Get",
		URL: "http://127.0.0.1:1/ItemList.aspx?ttbkey=secret",
		Err: errors.New("connection refused"),
	})
	redacted := RedactError(err)
	require.NotContains(t, redacted.Error(), "secret")
	require.Contains(t, redacted.Error(), "connection refused")

	var urlErr *url.Error
	require.True(t, errors.As(redacted, &urlErr))
}
