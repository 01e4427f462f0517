package cli

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the durable response cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached entries with their age",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().CacheList(cmd.Context())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().CacheClear(cmd.Context())
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
