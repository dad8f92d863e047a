package commands

import (
	"context"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/timezone"

	"github.com/spf13/cobra"
)

// weekFlags selects one page of one week's listing, the week defaults to the
// current week in korean time.
type weekFlags struct {
	year     int
	month    int
	week     int
	page     int
	pages    int
	perPage  int
	category int
	soldOut  bool
}

func addWeekFlags(cmd *cobra.Command, withQuery bool) *weekFlags {
	year, month, week := timezone.MonthWeek(timezone.Now())

	f := &weekFlags{}
	flags := cmd.Flags()
	flags.IntVar(&f.year, "year", year, "The year of the listing.")
	flags.IntVar(&f.month, "month", int(month), "The month of the listing.")
	flags.IntVar(&f.week, "week", week, "The week of the month, 1 to 5.")
	flags.IntVar(&f.page, "page", 1, "The page of the listing.")
	if withQuery {
		flags.IntVar(&f.pages, "pages", 1, "Resolve this many pages starting from 1, overrides --page.")
		flags.IntVar(&f.perPage, "per-page", bestseller.DefaultMaxResults, "Rows per page.")
		flags.IntVar(&f.category, "category", bestseller.DefaultCategoryId, "The Aladin category id.")
		flags.BoolVar(&f.soldOut, "sold-out", false, "Ask the upstream to leave out sold out items.")
	}
	return f
}

func (f *weekFlags) key() (bestseller.WeeklyKey, error) {
	key := bestseller.WeeklyKey{
		Year:  f.year,
		Month: f.month,
		Week:  f.week,
		Page:  f.page,
	}
	return key, key.Validate()
}

func (f *weekFlags) query(key bestseller.WeeklyKey) bestseller.Query {
	return bestseller.QueryForKey(key, f.perPage).
		SearchCategory(f.category).
		FilterSoldOut(f.soldOut)
}

// resolve resolves the selected page, or pages 1 to --pages when it is
// greater than one, and returns all rows in page order.
func (f *weekFlags) resolve(ctx context.Context) ([]bestseller.BookItem, error) {
	key, err := f.key()
	if err != nil {
		return nil, err
	}

	service, closeService := openService(ctx)
	defer closeService()

	if f.pages <= 1 {
		return service.Resolve(ctx, key, f.query(key))
	}

	key = key.WithPage(1)
	pages, err := service.ResolvePages(ctx, key, f.pages, f.query(key))
	if err != nil {
		return nil, err
	}
	var rows []bestseller.BookItem
	for _, p := range pages {
		rows = append(rows, p...)
	}
	return rows, nil
}
