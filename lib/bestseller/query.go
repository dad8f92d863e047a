package bestseller

import (
	"net/url"
	"strconv"
)

// Unset marks an optional date field of a Query that is left out of the
// request entirely.
const Unset = -1

const (
	DefaultQueryType    = "Bestseller"
	DefaultVersion      = "20131101"
	DefaultSearchTarget = "Book"
	DefaultMaxResults   = 50
	DefaultCoverSize    = "Big"
	DefaultOutputFormat = "js"
	DefaultCategoryId   = 1
)

// Query describes the request for one page of a listing. It is a value: every
// setter returns a modified copy and leaves the receiver untouched, so setters
// can be chained in any order.
type Query struct {
	queryType     string
	version       string
	searchTarget  string
	maxResults    int
	start         int
	coverSize     string
	outputFormat  string
	categoryId    int
	filterSoldOut bool

	year  int
	month int
	week  int
}

func NewQuery() Query {
	return Query{
		queryType:    DefaultQueryType,
		version:      DefaultVersion,
		searchTarget: DefaultSearchTarget,
		maxResults:   DefaultMaxResults,
		start:        1,
		coverSize:    DefaultCoverSize,
		outputFormat: DefaultOutputFormat,
		categoryId:   DefaultCategoryId,
		year:         Unset,
		month:        Unset,
		week:         Unset,
	}
}

// QueryForKey builds the query that fetches exactly the page addressed by key.
func QueryForKey(key WeeklyKey, maxResults int) Query {
	return NewQuery().
		SpecificDate(key.Year, key.Month, key.Week).
		StartPage(key.Page).
		ResultPerPage(maxResults)
}

func (q Query) FilterSoldOut(value bool) Query {
	q.filterSoldOut = value
	return q
}

func (q Query) SpecificDate(year, month, week int) Query {
	q.year = year
	q.month = month
	q.week = week
	return q
}

func (q Query) QueryType(queryType string) Query {
	q.queryType = queryType
	return q
}

func (q Query) StartPage(start int) Query {
	q.start = start
	return q
}

func (q Query) SearchCategory(categoryId int) Query {
	q.categoryId = categoryId
	return q
}

func (q Query) ResultPerPage(maxResults int) Query {
	q.maxResults = maxResults
	return q
}

func (q Query) SearchTarget(target string) Query {
	q.searchTarget = target
	return q
}

func (q Query) CoverSize(size string) Query {
	q.coverSize = size
	return q
}

func (q Query) OutputFormat(format string) Query {
	q.outputFormat = format
	return q
}

// Date returns the requested week, ok is false unless all three fields are set.
func (q Query) Date() (year, month, week int, ok bool) {
	ok = q.year != Unset && q.month != Unset && q.week != Unset
	return q.year, q.month, q.week, ok
}

func (q Query) Page() int {
	return q.start
}

func (q Query) MaxResults() int {
	return q.maxResults
}

// Combine renders the request parameters. Date fields left Unset are omitted,
// never sent as -1. The api key is not part of a Query, clients add it.
func (q Query) Combine() url.Values {
	values := url.Values{}
	values.Set("QueryType", q.queryType)
	values.Set("Version", q.version)
	values.Set("SearchTarget", q.searchTarget)
	values.Set("MaxResults", strconv.Itoa(q.maxResults))
	values.Set("start", strconv.Itoa(q.start))
	values.Set("Output", q.outputFormat)
	values.Set("CategoryId", strconv.Itoa(q.categoryId))
	values.Set("Cover", q.coverSize)

	if q.year != Unset {
		values.Set("Year", strconv.Itoa(q.year))
	}
	if q.month != Unset {
		values.Set("Month", strconv.Itoa(q.month))
	}
	if q.week != Unset {
		values.Set("Week", strconv.Itoa(q.week))
	}
	if q.filterSoldOut {
		values.Set("outStockfilter", "1")
	}
	return values
}
