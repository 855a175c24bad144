package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/stats"
	"github.com/jacobreesgit/music-tracking/internal/store"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Manages weekly listening statistics",
}

var weeklyGenerateCmd = &cobra.Command{
	Use:   "generate [date]",
	Short: "Generates stats for the week containing the given date",
	Long: `Recomputes the weekly stats record from stored sessions and replaces
any existing record for that week. With no date, uses the current week.
A week with no sessions writes nothing.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateWeekly(args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var weeklyUpdateAllCmd = &cobra.Command{
	Use:   "update-all",
	Short: "Regenerates stats for every week in the past year",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := updateAllWeekly(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var weeklyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every stored week",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listWeekly(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
	weeklyCmd.AddCommand(weeklyGenerateCmd)
	weeklyCmd.AddCommand(weeklyUpdateAllCmd)
	weeklyCmd.AddCommand(weeklyListCmd)
}

func generateWeekly(args []string) error {
	date := time.Now()
	if len(args) == 1 {
		parsed, _, err := parseDatestring(args[0])
		if err != nil {
			return err
		}
		date = parsed
	}

	return withStore(func(db *store.Store) error {
		generator := stats.NewGenerator(db, db.Calendar())
		weekly, err := generator.GenerateWeeklyStatsForWeek(date)
		if err != nil {
			return err
		}
		if weekly == nil {
			fmt.Printf("No sessions in the week of %s, nothing generated\n",
				db.Calendar().StartOfWeek(date).Format("2006-01-02"))
			return nil
		}
		fmt.Printf("Generated stats for the week of %s: %s across %d songs\n",
			weekly.WeekStartDate.Format("2006-01-02"),
			formatPlayTime(weekly.TotalPlayTime),
			weekly.UniqueSongsCount)
		return nil
	})
}

func updateAllWeekly() error {
	return withStore(func(db *store.Store) error {
		generator := stats.NewGenerator(db, db.Calendar())
		if err := generator.UpdateAllWeeklyStats(); err != nil {
			return err
		}
		fmt.Println("Regenerated weekly stats for the past year")
		return nil
	})
}

func listWeekly() error {
	return withStore(func(db *store.Store) error {
		all, err := db.FetchAllWeeklyStats()
		if err != nil {
			return err
		}

		analysis := Analysis{
			results: [][]string{{"Week", "Play time", "Unique songs", "Top song"}},
		}
		for _, weekly := range all {
			topSong := ""
			if len(weekly.TopSongs) > 0 {
				topSong = fmt.Sprintf("%s - %s", weekly.TopSongs[0].Title, weekly.TopSongs[0].ArtistName)
			}
			analysis.results = append(analysis.results, []string{
				weekly.WeekStartDate.Format("2006-01-02"),
				formatPlayTime(weekly.TotalPlayTime),
				strconv.Itoa(weekly.UniqueSongsCount),
				topSong,
			})
		}
		analysis.summary = fmt.Sprintf("%d weeks stored", len(all))

		fmt.Println(analysis)
		return nil
	})
}
