package cli

import (
	"github.com/spf13/cobra"

	"bondfeed/internal/app"
)

var (
	refreshSets []string
	refreshJSON bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one enrichment pass and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(refreshSets)
		if err != nil {
			return err
		}
		return getApp().Refresh(cmd.Context(), app.RefreshOptions{Sets: sets, JSON: refreshJSON})
	},
}

func init() {
	refreshCmd.Flags().StringSliceVar(&refreshSets, "set", nil, "Record sets to refresh (default all)")
	refreshCmd.Flags().BoolVar(&refreshJSON, "json", false, "Print JSON instead of tables")
}
