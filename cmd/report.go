/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/store"
)

var (
	reportSongs   int
	reportArtists int
)

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Generates a listening summary for a period",
	Long:  `Shows total play time, unique song count, and the top songs and artists over the specified date or date range.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		start, end, err := parseDateRangeFromArgs(args)
		if err == nil {
			err = withStore(func(db *store.Store) error {
				return printReport(os.Stdout, db, start, end)
			})
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportSongs, "songs", 10, "Number of top songs to show")
	reportCmd.Flags().IntVar(&reportArtists, "artists", 10, "Number of top artists to show")
}

func withStore(fn func(db *store.Store) error) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func printReport(out io.Writer, db *store.Store, start, end time.Time) error {
	totalPlayTime, err := db.GetTotalListeningTime(start, end)
	if err != nil {
		return err
	}
	uniqueSongs, err := db.GetUniqueSongsCount(start, end)
	if err != nil {
		return err
	}

	const dateFormat = "2006-01-02"
	fmt.Fprintf(out, "Listening Report\n")
	fmt.Fprintf(out, "Period: %s to %s\n", start.Format(dateFormat), end.Format(dateFormat))
	fmt.Fprintf(out, "Total play time: %s\n", formatPlayTime(totalPlayTime))
	fmt.Fprintf(out, "Unique songs: %d\n\n", uniqueSongs)

	if reportSongs > 0 {
		songs, err := db.GetTopSongs(start, end, reportSongs)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "## Top %d Songs\n", reportSongs)
		for i, spc := range songs {
			fmt.Fprintf(out, "%d. %s - %s (%d)\n", i+1, spc.Song.Title, spc.Song.ArtistName, spc.PlayCount)
		}
		fmt.Fprintln(out)
	}

	if reportArtists > 0 {
		artists, err := db.GetTopArtists(start, end, reportArtists)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "## Top %d Artists\n", reportArtists)
		for i, apc := range artists {
			fmt.Fprintf(out, "%d. %s (%s)\n", i+1, apc.Artist, strconv.FormatInt(apc.PlayCount, 10))
		}
		fmt.Fprintln(out)
	}

	return nil
}
