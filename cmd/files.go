package cmd

import (
	"fmt"

	"excel-comparator/core/storage"

	"github.com/spf13/cobra"
)

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List source exports available in the storage bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		client, err := a.storage()
		if err != nil {
			return err
		}
		keys, err := storage.List(cmd.Context(), client, a.cfg.Storage.Bucket, a.cfg.Files.Prefix, ".xlsx", ".csv")
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(filesCmd)
}
