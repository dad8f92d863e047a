package commands

import (
	"goldenbough/cmd/goldenbough/globals"
	"goldenbough/cmd/goldenbough/utils"
	"goldenbough/lib/serviceutil"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	exportFlags *weekFlags
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export [--out <books.csv>]",
	Short: "Resolves a listing and writes it as csv.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		rows, err := exportFlags.resolve(ctx)
		if err != nil {
			serviceutil.Fatal("failed to resolve listing", err)
		}

		t := utils.BookTable(globals.Get(ctx).Config.Lang, rows)
		err = utils.WriteCSV(t, exportOut)
		if err != nil {
			serviceutil.Fatal("failed to write csv", err)
		}
		slog.Info("exported listing", "path", exportOut, "rows", len(rows))
	},
}

func init() {
	exportFlags = addWeekFlags(exportCmd, true)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "books.csv", "The csv file to write.")
	rootCmd.AddCommand(exportCmd)
}
