package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/store"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Shows storage metrics for the database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(db *store.Store) error {
			info, err := db.GetStorageInfo()
			if err != nil {
				return err
			}

			fmt.Printf("Database: %s\n", info.Path)
			fmt.Printf("Sessions: %d\n", info.SessionCount)
			fmt.Printf("Weekly stats: %d\n", info.WeeklyStatsCount)
			fmt.Printf("Database size: %d bytes (%d on disk)\n", info.DatabaseSizeBytes, info.FileSizeBytes)
			if !info.OldestSessionStart.IsZero() {
				fmt.Printf("Session range: %s to %s\n",
					info.OldestSessionStart.Format("2006-01-02"),
					info.NewestSessionStart.Format("2006-01-02"))
			}
			return nil
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
