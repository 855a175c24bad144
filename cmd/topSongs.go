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
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var topSongsNumber int
var topSongsCmd = &cobra.Command{
	Use:   "top-songs [from] [to (optional)]",
	Short: "Gets the most played songs",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopSongs(topSongsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topSongsCmd)

	topSongsCmd.Flags().IntVarP(&topSongsNumber, "number", "n", 10, "number of results to return")
}

func printTopSongs(limit int, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	songs, err := db.GetTopSongs(start, end, limit)
	if err != nil {
		return err
	}

	analysis := Analysis{
		results: [][]string{{"Title", "Artist", "Plays"}},
	}
	for _, spc := range songs {
		analysis.results = append(analysis.results, []string{
			spc.Song.Title,
			spc.Song.ArtistName,
			strconv.FormatInt(spc.PlayCount, 10),
		})
	}

	const dateFormat = "2006-01-02"
	analysis.summary = fmt.Sprintf("Top %d songs from %s to %s",
		len(songs), start.Format(dateFormat), end.Format(dateFormat))

	fmt.Println(analysis)
	return nil
}
