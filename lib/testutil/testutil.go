package testutil

import (
	"fmt"
	"goldenbough/lib/bestseller"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Upstream is a fake listing api, it answers every request with the
// configured status and body and records what it was asked.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []*http.Request
}

func NewUpstream(t testing.TB, status int, body string) *Upstream {
	u := &Upstream{status: status, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.handle))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) handle(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r)
	status, body := u.status, u.body
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// Respond changes the answer to all following requests.
func (u *Upstream) Respond(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.body = body
}

func (u *Upstream) Requests() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *Upstream) LastRequest() *http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return nil
	}
	return u.requests[len(u.requests)-1]
}

func (u *Upstream) LastQuery() url.Values {
	req := u.LastRequest()
	if req == nil {
		return nil
	}
	return req.URL.Query()
}

// Book returns a fully populated row, ranks and ids are derived from `rank`.
func Book(rank int, category string) bestseller.BookItem {
	return bestseller.BookItem{
		Title:              bestseller.Ptr(fmt.Sprintf("책 %d", rank)),
		Author:             bestseller.Ptr(fmt.Sprintf("저자 %d", rank)),
		Publisher:          bestseller.Ptr("민음사"),
		PublishDate:        bestseller.Ptr("2024-04-30"),
		Isbn:               bestseller.Ptr(fmt.Sprintf("89%08d", rank)),
		Isbn13:             bestseller.Ptr(fmt.Sprintf("97889%08d", rank)),
		ItemId:             bestseller.Ptr(int64(330000000 + rank)),
		SalesPrice:         bestseller.Ptr(15120),
		StandardPrice:      bestseller.Ptr(16800),
		FixedPrice:         bestseller.Ptr(true),
		MallType:           bestseller.Ptr("BOOK"),
		StockStatus:        "",
		Mileage:            bestseller.Ptr(840),
		CategoryId:         bestseller.Ptr(50993),
		CategoryName:       bestseller.Ptr(category),
		SalesPoint:         bestseller.Ptr(100000 - rank),
		AdultFlag:          bestseller.Ptr(false),
		CoverUrl:           bestseller.Ptr(fmt.Sprintf("https://image.aladin.co.kr/product/%d/cover.jpg", rank)),
		Description:        bestseller.Ptr("소설 설명"),
		DetailLink:         bestseller.Ptr(fmt.Sprintf("http://www.aladin.co.kr/shop/wproduct.aspx?ItemId=%d", 330000000+rank)),
		ListRank:           bestseller.Ptr(rank),
		CustomerReviewRank: bestseller.Ptr(9),
	}
}
