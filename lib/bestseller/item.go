// Package bestseller holds the domain of a weekly bestseller listing: the rows
// themselves, the key a page of rows is addressed by, the query used to fetch
// it and the normalization applied to freshly fetched rows.
package bestseller

import (
	"context"
	"fmt"
)

// BookItem is one catalog entry of a listing. Every pointer field is nil when
// the upstream entry did not carry it, StockStatus is the only field that is
// always present (it is defaulted by Normalize).
type BookItem struct {
	Title              *string `json:"title,omitempty"`
	Author             *string `json:"author,omitempty"`
	Publisher          *string `json:"publisher,omitempty"`
	PublishDate        *string `json:"publishDate,omitempty"`
	Isbn               *string `json:"isbn,omitempty"`
	Isbn13             *string `json:"isbn13,omitempty"`
	ItemId             *int64  `json:"itemId,omitempty"`
	SalesPrice         *int    `json:"salesPrice,omitempty"`
	StandardPrice      *int    `json:"standardPrice,omitempty"`
	FixedPrice         *bool   `json:"fixedPrice,omitempty"`
	MallType           *string `json:"mallType,omitempty"`
	StockStatus        string  `json:"stockStatus"`
	Mileage            *int    `json:"mileage,omitempty"`
	CategoryId         *int    `json:"categoryId,omitempty"`
	CategoryName       *string `json:"categoryName,omitempty"`
	SalesPoint         *int    `json:"salesPoint,omitempty"`
	AdultFlag          *bool   `json:"adultFlag,omitempty"`
	CoverUrl           *string `json:"coverUrl,omitempty"`
	Description        *string `json:"description,omitempty"`
	DetailLink         *string `json:"detailLink,omitempty"`
	ListRank           *int    `json:"listRank,omitempty"`
	CustomerReviewRank *int    `json:"customerReviewRank,omitempty"`
}

// Ptr returns a pointer to a copy of v, it is mostly useful when building
// BookItem literals.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value of T when p is unset.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fetcher retrieves one page of a listing from an upstream. Implementations
// perform exactly one request per call and never retry.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]BookItem, error)
}

// WeeklyKey addresses one page of one week's listing snapshot.
type WeeklyKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Week  int `json:"week"`
	Page  int `json:"page"`
}

// String renders the key as year-month-week-page, the same name the cache
// stores it under.
func (k WeeklyKey) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", k.Year, k.Month, k.Week, k.Page)
}

// WithPage returns the key of another page in the same week.
func (k WeeklyKey) WithPage(page int) WeeklyKey {
	k.Page = page
	return k
}

func (k WeeklyKey) Validate() error {
	if k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("month must be in [1, 12], got %d", k.Month)
	}
	if k.Week < 1 || k.Week > 5 {
		return fmt.Errorf("week must be in [1, 5], got %d", k.Week)
	}
	if k.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", k.Page)
	}
	return nil
}
