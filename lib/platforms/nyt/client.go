// Package nyt fetches best-seller lists from the New York Times Books api, an
// alternate upstream to aladin that only knows about whole weekly lists.
package nyt

import (
	"context"
	"encoding/json"
	"fmt"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/restyutil"
	"goldenbough/lib/telemetry"
	"goldenbough/lib/timezone"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("goldenbough/platforms/nyt")

const (
	DefaultBaseUrl = "https://api.nytimes.com/svc/books/v3/lists"
	DefaultList    = "hardcover-fiction"
)

type ClientOptions struct {
	ApiKey  string
	BaseUrl string
	// List is the encoded list name, eg. "hardcover-fiction".
	List string
	Dump restyutil.InstrumentOutput
}

type Client struct {
	http    *resty.Client
	baseUrl string
	apiKey  string
	list    string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.ApiKey) == "" {
		return nil, &bestseller.ConfigurationError{
			Field:  "eng_secret_key",
			Reason: "new york times api key is empty",
		}
	}

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	list := opts.List
	if list == "" {
		list = DefaultList
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	telemetry.InstrumentResty(client, "goldenbough/platforms/nyt/http")
	restyutil.InstrumentClient(client, "nyt", opts.Dump)

	return &Client{
		http:    client,
		baseUrl: baseUrl,
		apiKey:  opts.ApiKey,
		list:    list,
	}, nil
}

// listDate renders the published date the list is requested for, "current"
// when the query has no week.
func listDate(q bestseller.Query) string {
	year, month, week, ok := q.Date()
	if !ok {
		return "current"
	}
	return timezone.WeekStart(year, time.Month(month), week).Format(time.DateOnly)
}

// Fetch requests the whole list for the query's week. The api is not paged,
// every page other than the first is empty.
func (c *Client) Fetch(ctx context.Context, q bestseller.Query) ([]bestseller.BookItem, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	if q.Page() > 1 {
		return []bestseller.BookItem{}, nil
	}

	date := listDate(q)
	span.SetAttributes(
		attribute.String("list", c.list),
		attribute.String("date", date),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"date": date,
			"list": c.list,
		}).
		SetQueryParam("api-key", c.apiKey).
		Get("/{date}/{list}.json")
	if err != nil {
		err = telemetry.RedactError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch list")
		return nil, &bestseller.NetworkError{Url: c.baseUrl, Err: err}
	}

	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status code")
		return nil, &bestseller.HttpStatusError{StatusCode: res.StatusCode()}
	}

	items, err := decodeList(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream returned an error")
		return nil, err
	}

	if limit := q.MaxResults(); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

func decodeList(body []byte) ([]bestseller.BookItem, error) {
	var parsed listResponse
	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, &bestseller.ApiDomainError{
			Message: fmt.Sprintf("malformed response body: %s", err.Error()),
		}
	}

	if parsed.Fault != nil {
		return nil, &bestseller.ApiDomainError{Message: parsed.Fault.FaultString}
	}
	if parsed.Status == "ERROR" {
		message := "unknown error"
		if len(parsed.Errors) > 0 {
			message = parsed.Errors[0]
		}
		return nil, &bestseller.ApiDomainError{Message: message}
	}

	if len(parsed.Results) == 0 || string(parsed.Results) == "null" {
		return []bestseller.BookItem{}, nil
	}
	var list results
	err = json.Unmarshal(parsed.Results, &list)
	if err != nil {
		return nil, &bestseller.ApiDomainError{
			Message: fmt.Sprintf("malformed results: %s", err.Error()),
		}
	}

	items := make([]bestseller.BookItem, len(list.Books))
	for i, b := range list.Books {
		items[i] = b.toBookItem(list.DisplayName)
	}
	return items, nil
}
