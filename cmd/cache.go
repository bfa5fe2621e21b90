package cmd

import (
	"fmt"

	"excel-comparator/core/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the CSV caches written next to spreadsheets",
}

// cacheClearCmd represents the cache clear command
var cacheClearCmd = &cobra.Command{
	Use:   "clear [spreadsheet...]",
	Short: "Delete cached CSV files so spreadsheets are read again",
	Long:  `Deletes the caches of the given spreadsheets, or of every configured profile when none are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		paths := args
		if len(paths) == 0 {
			paths = a.profilePaths()
		}
		removed, err := source.ClearCache(paths...)
		for _, path := range removed {
			a.logger.Info("Cache removed", zap.String("file", path))
		}
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached file(s)\n", len(removed))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
