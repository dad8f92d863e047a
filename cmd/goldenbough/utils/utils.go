package utils

import (
	"fmt"
	"goldenbough/lib/bestseller"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var bookHeaders = map[string]table.Row{
	"ko": {"순위", "제목", "저자", "출판사", "판매가", "재고", "분류", "링크"},
	"en": {"Rank", "Title", "Author", "Publisher", "Price", "Stock", "Category", "Link"},
}

func headers(lang string) table.Row {
	h, ok := bookHeaders[lang]
	if !ok {
		return bookHeaders["en"]
	}
	return h
}

func optional[T any](p *T) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

// BookTable lays out rows with headers in the given language ("ko" or
// "en").
func BookTable(lang string, rows []bestseller.BookItem) table.Writer {
	t := NewTable()
	t.AppendHeader(headers(lang))
	for _, r := range rows {
		t.AppendRow(table.Row{
			optional(r.ListRank),
			optional(r.Title),
			optional(r.Author),
			optional(r.Publisher),
			optional(r.SalesPrice),
			r.StockStatus,
			optional(r.CategoryName),
			optional(r.DetailLink),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 40},
		{Number: 3, WidthMax: 24},
		{Number: 5, Align: text.AlignRight},
		{Number: 7, WidthMax: 36},
		{Number: 8, WidthMax: 48},
	})
	t.SetCaption("%d rows", len(rows))
	return t
}

// WriteCSV renders t as csv into the file at path. The file starts with a
// byte order mark so spreadsheet programs detect utf-8.
func WriteCSV(t table.Writer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = f.WriteString("\ufeff")
	if err != nil {
		f.Close()
		return err
	}
	t.SetCaption("")
	t.SetOutputMirror(f)
	t.RenderCSV()
	t.SetOutputMirror(os.Stdout)
	return f.Close()
}
