package commands

import (
	"fmt"
	"goldenbough/lib/serviceutil"

	"github.com/spf13/cobra"
)

var existsFlags *weekFlags

var existsCmd = &cobra.Command{
	Use:   "exists [--year <y>] [--month <m>] [--week <w>] [--page <p>]",
	Short: "Reports whether a page is already cached.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		key, err := existsFlags.key()
		if err != nil {
			serviceutil.Fatal("invalid week", err)
		}

		service, closeService := openService(ctx)
		defer closeService()

		exists, err := service.Exists(ctx, key)
		if err != nil {
			serviceutil.Fatal("failed to check cache", err)
		}
		if exists {
			fmt.Printf("%s: hit\n", key)
			return
		}
		fmt.Printf("%s: miss\n", key)
	},
}

func init() {
	existsFlags = addWeekFlags(existsCmd, false)
	rootCmd.AddCommand(existsCmd)
}
