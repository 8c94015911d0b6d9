package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/bugbounty-agent/pkg/config"
	"github.com/user/bugbounty-agent/pkg/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently recorded scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg := fileCfg.WithEnv()
		if cfg.History.DatabaseURL == "" {
			return fmt.Errorf("no history database configured, set DATABASE_URL")
		}

		ctx := cmd.Context()
		store, err := history.Open(ctx, cfg.History.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCANNED\tTARGET\tFINDINGS\tCRITICAL\tSCORE\tDECISION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%s\n",
				e.ScannedAt.Format("2006-01-02 15:04"), e.Target, e.Summary.Total, e.Summary.Critical, e.Summary.RiskScore, e.Action)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of scans to show")
	rootCmd.AddCommand(historyCmd)
}
