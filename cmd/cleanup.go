package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/store"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Removes listening data older than two years",
	Long: `Deletes sessions and weekly stats past the retention period.
Removing nothing is success.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(db *store.Store) error {
			result, err := db.PerformCleanup()
			fmt.Printf("Removed %d sessions and %d weekly stats records\n",
				result.SessionsRemoved, result.WeeklyStatsRemoved)
			return err
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
