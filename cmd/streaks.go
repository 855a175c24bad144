package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Lists listening streaks",
	Long: `Shows runs of 3 or more consecutive calendar days with listening
activity, longest first. Any missed day ends the run.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := printStreaks(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(streaksCmd)
}

func printStreaks() error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	streaks, err := db.GetListeningStreaks()
	if err != nil {
		return err
	}

	analysis := Analysis{
		results: [][]string{{"Start", "End", "Days", "Play time"}},
	}
	for _, streak := range streaks {
		analysis.results = append(analysis.results, []string{
			streak.StartDate.Format("2006-01-02"),
			streak.EndDate.Format("2006-01-02"),
			strconv.Itoa(streak.DaysCount),
			formatPlayTime(streak.TotalPlayTime),
		})
	}
	analysis.summary = fmt.Sprintf("Found %d streaks", len(streaks))

	fmt.Println(analysis)
	return nil
}
