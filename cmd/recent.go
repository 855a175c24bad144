package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

var recentNumber int
var recentSongID string

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Lists the most recent listening sessions",
	Long:  `Shows the newest sessions first, across all songs or for one song id.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printRecentSessions(recentNumber, recentSongID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().IntVarP(&recentNumber, "number", "n", 20, "number of sessions to show")
	recentCmd.Flags().StringVar(&recentSongID, "song", "", "only show sessions for this song id")
}

func printRecentSessions(limit int, songID string) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var sessions []domain.ListeningSession
	if songID != "" {
		sessions, err = db.FetchListeningSessionsForSong(songID, limit)
	} else {
		sessions, err = db.FetchRecentListeningSessions(limit)
	}
	if err != nil {
		return err
	}

	analysis := Analysis{
		results: [][]string{{"Started", "Title", "Artist", "Played", "Skipped"}},
	}
	for _, session := range sessions {
		skipped := ""
		if session.WasSkipped {
			skipped = fmt.Sprintf("at %s", formatPlayTime(session.SkipTime))
		}
		analysis.results = append(analysis.results, []string{
			session.StartTime.Format("2006-01-02 15:04"),
			session.Song.Title,
			session.Song.ArtistName,
			formatPlayTime(session.ActualDuration()),
			skipped,
		})
	}
	analysis.summary = fmt.Sprintf("Showing %d sessions", len(sessions))

	fmt.Println(analysis)
	return nil
}
