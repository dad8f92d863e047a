package commands

import (
	"goldenbough/cmd/goldenbough/globals"
	"goldenbough/cmd/goldenbough/utils"
	"goldenbough/lib/serviceutil"

	"github.com/spf13/cobra"
)

var resolveFlags *weekFlags

var resolveCmd = &cobra.Command{
	Use:   "resolve [--year <y>] [--month <m>] [--week <w>] [--page <p>]",
	Short: "Prints one week's bestseller page, fetching and caching it if needed.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		rows, err := resolveFlags.resolve(ctx)
		if err != nil {
			serviceutil.Fatal("failed to resolve listing", err)
		}
		utils.BookTable(globals.Get(ctx).Config.Lang, rows).Render()
	},
}

func init() {
	resolveFlags = addWeekFlags(resolveCmd, true)
	rootCmd.AddCommand(resolveCmd)
}
