package nyt

import (
	"encoding/json"
	"goldenbough/lib/bestseller"
)

type listResponse struct {
	Status  string   `json:"status"`
	Errors  []string `json:"errors"`
	Fault   *fault   `json:"fault"`
	// an object on success, an empty array on errors
	Results json.RawMessage `json:"results"`
}

type fault struct {
	FaultString string `json:"faultstring"`
}

type results struct {
	ListName      string     `json:"list_name"`
	DisplayName   string     `json:"display_name"`
	PublishedDate string     `json:"published_date"`
	Books         []wireBook `json:"books"`
}

type wireBook struct {
	Rank             *int    `json:"rank"`
	Title            *string `json:"title"`
	Author           *string `json:"author"`
	Publisher        *string `json:"publisher"`
	Description      *string `json:"description"`
	PrimaryIsbn10    *string `json:"primary_isbn10"`
	PrimaryIsbn13    *string `json:"primary_isbn13"`
	BookImage        *string `json:"book_image"`
	AmazonProductUrl *string `json:"amazon_product_url"`
	WeeksOnList      *int    `json:"weeks_on_list"`
}

func (b wireBook) toBookItem(listName string) bestseller.BookItem {
	item := bestseller.BookItem{
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		Description: b.Description,
		Isbn:        b.PrimaryIsbn10,
		Isbn13:      b.PrimaryIsbn13,
		CoverUrl:    b.BookImage,
		DetailLink:  b.AmazonProductUrl,
		ListRank:    b.Rank,
	}
	if listName != "" {
		item.CategoryName = bestseller.Ptr(listName)
	}
	return item
}
