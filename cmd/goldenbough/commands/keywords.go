package commands

import (
	"goldenbough/cmd/goldenbough/utils"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/serviceutil"
	"goldenbough/lib/textutil"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	keywordsFlags *weekFlags
	keywordsMatch []string
	keywordsTop   int
	keywordsOut   string
)

// descriptions joins the descriptions of the rows whose category matches any
// of matchers, every row matches when there are none.
func descriptions(rows []bestseller.BookItem, matchers []string) (string, int) {
	var parts []string
	for _, r := range rows {
		if len(matchers) > 0 && !textutil.MatchName(bestseller.Value(r.CategoryName), matchers) {
			continue
		}
		if d := bestseller.Value(r.Description); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " "), len(parts)
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords [--match <category>...] [--top <n>] [--out <keywords.csv>]",
	Short: "Counts the keywords in the descriptions of a listing.",
	Run: func(cmd *cobra.Command, args []string) {
		rows, err := keywordsFlags.resolve(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to resolve listing", err)
		}

		text, matched := descriptions(rows, keywordsMatch)
		slog.Debug("analyzing descriptions", "rows", len(rows), "matched", matched)
		frequencies := textutil.Analyze(text)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Word", "Frequency"})
		for i, f := range frequencies {
			if keywordsTop > 0 && i >= keywordsTop {
				break
			}
			t.AppendRow(table.Row{f.Word, f.Count})
		}

		if keywordsOut != "" {
			err = utils.WriteCSV(t, keywordsOut)
			if err != nil {
				serviceutil.Fatal("failed to write csv", err)
			}
			slog.Info("exported keywords", "path", keywordsOut, "words", len(frequencies))
			return
		}
		t.Render()
	},
}

func init() {
	keywordsFlags = addWeekFlags(keywordsCmd, true)
	keywordsCmd.Flags().StringSliceVarP(&keywordsMatch, "match", "m", nil, "Only analyze rows whose category contains one of these.")
	keywordsCmd.Flags().IntVar(&keywordsTop, "top", 30, "How many words to show, 0 shows all of them.")
	keywordsCmd.Flags().StringVarP(&keywordsOut, "out", "o", "", "Write the table as csv to this file instead.")
	rootCmd.AddCommand(keywordsCmd)
}
