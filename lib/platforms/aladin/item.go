package aladin

import "goldenbough/lib/bestseller"

type itemListResponse struct {
	ErrorCode    *int    `json:"errorCode"`
	ErrorMessage *string `json:"errorMessage"`

	StartIndex   int        `json:"startIndex"`
	TotalResults int        `json:"totalResults"`
	ItemsPerPage int        `json:"itemsPerPage"`
	Item         []wireItem `json:"item"`
}

// wireItem is an entry of the ItemList api, field names are the api's own.
type wireItem struct {
	Title              *string `json:"title"`
	Link               *string `json:"link"`
	Author             *string `json:"author"`
	PubDate            *string `json:"pubDate"`
	Description        *string `json:"description"`
	Isbn               *string `json:"isbn"`
	Isbn13             *string `json:"isbn13"`
	ItemId             *int64  `json:"itemId"`
	PriceSales         *int    `json:"priceSales"`
	PriceStandard      *int    `json:"priceStandard"`
	MallType           *string `json:"mallType"`
	StockStatus        *string `json:"stockStatus"`
	Mileage            *int    `json:"mileage"`
	Cover              *string `json:"cover"`
	CategoryId         *int    `json:"categoryId"`
	CategoryName       *string `json:"categoryName"`
	Publisher          *string `json:"publisher"`
	SalesPoint         *int    `json:"salesPoint"`
	Adult              *bool   `json:"adult"`
	FixedPrice         *bool   `json:"fixedPrice"`
	CustomerReviewRank *int    `json:"customerReviewRank"`
	BestRank           *int    `json:"bestRank"`
}

func (w wireItem) toBookItem() bestseller.BookItem {
	return bestseller.BookItem{
		Title:              w.Title,
		Author:             w.Author,
		Publisher:          w.Publisher,
		PublishDate:        w.PubDate,
		Isbn:               w.Isbn,
		Isbn13:             w.Isbn13,
		ItemId:             w.ItemId,
		SalesPrice:         w.PriceSales,
		StandardPrice:      w.PriceStandard,
		FixedPrice:         w.FixedPrice,
		MallType:           w.MallType,
		StockStatus:        bestseller.Value(w.StockStatus),
		Mileage:            w.Mileage,
		CategoryId:         w.CategoryId,
		CategoryName:       w.CategoryName,
		SalesPoint:         w.SalesPoint,
		AdultFlag:          w.Adult,
		CoverUrl:           w.Cover,
		Description:        w.Description,
		DetailLink:         w.Link,
		ListRank:           w.BestRank,
		CustomerReviewRank: w.CustomerReviewRank,
	}
}
