package cmd

import (
	"context"
	"fmt"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/connectivity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	fetchPages int
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Refresh the directory and fetch a number of pages",
	Long:  `Refreshes the directory from the person provider, fetches the requested number of pages and persists the resulting state.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		// Load the config and set up logging
		commonSetUp()

		ctx := context.Background()
		rt, err := openRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		probe, err := connectivity.NewProbe(appCfg.Provider.URL, appCfg.Connectivity.Interval,
			appCfg.Connectivity.Timeout, &log.Logger)
		if err != nil {
			return err
		}
		if !probe.Check(ctx) && !fetchForce {
			return fmt.Errorf("provider %s is unreachable", probe.Addr())
		}

		if err := rt.store.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to fetch page 1: %w", err)
		}
		for i := 1; i < fetchPages; i++ {
			if err := rt.store.RequestNextPage(ctx); err != nil {
				return fmt.Errorf("failed to fetch page %d: %w", rt.store.NextPage(), err)
			}
		}
		rt.store.Flush(ctx)

		d := rt.store.Directory()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "people: %d, next page: %d\n", len(d.People), d.Page)
		for _, dept := range rt.store.Departments() {
			fmt.Fprintf(out, "  %-12s %d\n", dept.Name, dept.Count)
		}
		fmt.Fprintf(out, "team: %d, projects: %d\n", len(rt.store.Team()), len(rt.store.Projects()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().IntVar(&fetchPages, "pages", 1, "number of pages to fetch")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "fetch even when the probe reports the provider unreachable")
}
