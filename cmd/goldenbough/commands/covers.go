package commands

import (
	"goldenbough/cmd/goldenbough/globals"
	"goldenbough/cmd/goldenbough/utils"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/covers"
	"goldenbough/lib/serviceutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	coversFlags       *weekFlags
	coversOut         string
	coversConcurrency int
)

func coverFilename(row bestseller.BookItem, index int) string {
	if isbn := bestseller.Value(row.Isbn13); isbn != "" {
		return isbn + ".jpg"
	}
	return strconv.Itoa(index+1) + ".jpg"
}

var coversCmd = &cobra.Command{
	Use:   "covers [--out <dir>]",
	Short: "Downloads the cover of every row of a listing.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		rows, err := coversFlags.resolve(ctx)
		if err != nil {
			serviceutil.Fatal("failed to resolve listing", err)
		}

		if coversOut != "" {
			err = os.MkdirAll(coversOut, 0755)
			if err != nil {
				serviceutil.Fatal("failed to create output directory", err)
			}
		}

		loader := covers.NewLoader(covers.LoaderOptions{
			Concurrency: coversConcurrency,
			Dump:        globals.Get(ctx).Dump,
		})
		results := loader.LoadAll(ctx, rows)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"#", "Title", "Bytes", "Result"})
		failed := 0
		for _, r := range results {
			row := rows[r.Index]
			status := "ok"
			if r.Err != nil {
				failed++
				status = r.Err.Error()
			} else if coversOut != "" {
				path := filepath.Join(coversOut, coverFilename(row, r.Index))
				err := os.WriteFile(path, r.Image, 0644)
				if err != nil {
					status = err.Error()
				} else {
					status = path
				}
			}
			t.AppendRow(table.Row{r.Index + 1, bestseller.Value(row.Title), len(r.Image), status})
		}
		t.SetCaption("%d of %d covers failed", failed, len(results))
		t.Render()
	},
}

func init() {
	coversFlags = addWeekFlags(coversCmd, true)
	coversCmd.Flags().StringVarP(&coversOut, "out", "o", "", "Save the covers into this directory.")
	coversCmd.Flags().IntVar(&coversConcurrency, "concurrency", 8, "How many covers to download at once.")
	rootCmd.AddCommand(coversCmd)
}
