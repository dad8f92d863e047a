// Package aladin fetches listing pages from the Aladin open api (ItemList).
package aladin

import (
	"context"
	"encoding/json"
	"fmt"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/restyutil"
	"goldenbough/lib/telemetry"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("goldenbough/platforms/aladin")

const DefaultBaseUrl = "http://www.aladin.co.kr/ttb/api/ItemList.aspx"

type ClientOptions struct {
	TTBKey  string
	BaseUrl string
	// RequestsPerDay caps how many requests this client sends per day, 0
	// disables the cap.
	RequestsPerDay int
	// Dump receives every raw response when set.
	Dump restyutil.InstrumentOutput
}

type Client struct {
	http    *resty.Client
	baseUrl string
	ttbKey  string
	quota   *rate.Limiter
}

func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.TTBKey) == "" {
		return nil, &bestseller.ConfigurationError{
			Field:  "secret_key",
			Reason: "aladin TTB key is empty",
		}
	}
	if opts.RequestsPerDay < 0 {
		return nil, &bestseller.ConfigurationError{
			Field:  "request_per_day",
			Reason: fmt.Sprintf("must not be negative, got %d", opts.RequestsPerDay),
		}
	}

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	telemetry.InstrumentResty(client, "goldenbough/platforms/aladin/http")
	restyutil.InstrumentClient(client, "aladin", opts.Dump)

	var quota *rate.Limiter
	if opts.RequestsPerDay > 0 {
		// a full day's worth of requests may be spent at once, the bucket
		// then refills evenly over the day
		quota = rate.NewLimiter(
			rate.Every(24*time.Hour/time.Duration(opts.RequestsPerDay)),
			opts.RequestsPerDay,
		)
	}

	return &Client{
		http:    client,
		baseUrl: baseUrl,
		ttbKey:  opts.TTBKey,
		quota:   quota,
	}, nil
}

func (c *Client) Fetch(ctx context.Context, q bestseller.Query) ([]bestseller.BookItem, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	values := q.Combine()
	span.SetAttributes(attribute.String("query", values.Encode()))
	values.Set("ttbkey", c.ttbKey)

	if c.quota != nil && !c.quota.Allow() {
		span.SetStatus(codes.Error, "quota exceeded")
		return nil, bestseller.ErrQuotaExceeded
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(values).
		Get(c.baseUrl)
	if err != nil {
		err = telemetry.RedactError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch item list")
		return nil, &bestseller.NetworkError{Url: c.baseUrl, Err: err}
	}

	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status code")
		return nil, &bestseller.HttpStatusError{StatusCode: res.StatusCode()}
	}

	items, err := decodeItemList(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream returned an error")
		return nil, err
	}
	span.SetAttributes(attribute.Int("items", len(items)))

	return items, nil
}

func decodeItemList(body []byte) ([]bestseller.BookItem, error) {
	var parsed itemListResponse
	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, &bestseller.ApiDomainError{
			Message: fmt.Sprintf("malformed response body: %s", err.Error()),
		}
	}

	if parsed.ErrorMessage != nil || parsed.ErrorCode != nil {
		return nil, &bestseller.ApiDomainError{
			Code:    bestseller.Value(parsed.ErrorCode),
			Message: bestseller.Value(parsed.ErrorMessage),
		}
	}

	items := make([]bestseller.BookItem, len(parsed.Item))
	for i, w := range parsed.Item {
		items[i] = w.toBookItem()
	}
	return items, nil
}
