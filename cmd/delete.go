package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [from] [to (optional)]",
	Short: "Deletes listening sessions in a date range",
	Long: `Removes every session with a start time in the specified date or
date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.
Weekly stats are untouched; regenerate them afterwards if needed.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deleteSessions(args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func deleteSessions(args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	return withStore(func(db *store.Store) error {
		if err := db.DeleteListeningSessions(start, end); err != nil {
			return err
		}
		fmt.Printf("Deleted sessions from %s to %s\n",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
		return nil
	})
}
