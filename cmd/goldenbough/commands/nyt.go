package commands

import (
	"goldenbough/cmd/goldenbough/globals"
	"goldenbough/cmd/goldenbough/utils"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/platforms/nyt"
	"goldenbough/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	nytFlags   *weekFlags
	nytList    string
	nytCurrent bool
)

var nytCmd = &cobra.Command{
	Use:   "nyt [--list <hardcover-fiction>] [--current]",
	Short: "Prints a New York Times best-seller list, it is never cached.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		value := globals.Get(ctx)

		client, err := nyt.NewClient(nyt.ClientOptions{
			ApiKey: value.Config.EngSecretKey,
			List:   nytList,
			Dump:   value.Dump,
		})
		if err != nil {
			serviceutil.Fatal("failed to create nyt client", err)
		}

		q := bestseller.NewQuery().ResultPerPage(nytFlags.perPage)
		if !nytCurrent {
			key, err := nytFlags.key()
			if err != nil {
				serviceutil.Fatal("invalid week", err)
			}
			q = bestseller.QueryForKey(key, nytFlags.perPage)
		}

		rows, err := client.Fetch(ctx, q)
		if err != nil {
			serviceutil.Fatal("failed to fetch nyt list", err)
		}
		utils.BookTable("en", rows).Render()
	},
}

func init() {
	nytFlags = addWeekFlags(nytCmd, true)
	nytCmd.Flags().StringVar(&nytList, "list", nyt.DefaultList, "The encoded name of the list.")
	nytCmd.Flags().BoolVar(&nytCurrent, "current", false, "Fetch the latest published list, ignoring the week flags.")
	rootCmd.AddCommand(nytCmd)
}
