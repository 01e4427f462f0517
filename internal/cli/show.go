package cli

import (
	"github.com/spf13/cobra"

	"bondfeed/internal/app"
)

var (
	showSets    []string
	showRefresh bool
	showJSON    bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the dashboard dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(showSets)
		if err != nil {
			return err
		}

		opts := app.ShowOptions{
			Sets:    sets,
			Refresh: showRefresh,
			JSON:    showJSON,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringSliceVar(&showSets, "set", nil, "Record sets to display (default all)")
	showCmd.Flags().BoolVar(&showRefresh, "refresh", false, "Enrich before displaying")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print JSON instead of tables")
}
