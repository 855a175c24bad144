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
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/lastfm-go/lastfm"

	"github.com/jacobreesgit/music-tracking/internal/domain"
	"github.com/jacobreesgit/music-tracking/internal/store"
)

// scrobbleNamespace makes session ids a pure function of the scrobble, so
// re-running update upserts instead of duplicating.
var scrobbleNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

type UpdateConfig struct {
	DbPath          string
	User            string
	After           string
	Force           bool
	AssumedDuration float64
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches listening data from last.fm",
	Long: `Imports the user's recent last.fm tracks as listening sessions.
Scrobbles carry no play duration, so each imported session gets the nominal
duration from --assumed_duration.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("api_key") == "" || viper.GetString("secret") == "" || viper.GetString("user") == "" {
			return fmt.Errorf("api_key, secret, and user must be set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := UpdateConfig{
			DbPath:          viper.GetString("database"),
			User:            viper.GetString("user"),
			After:           viper.GetString("after"),
			Force:           viper.GetBool("force"),
			AssumedDuration: viper.GetFloat64("assumed_duration"),
		}

		err := updateDatabase(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var afterString string
	updateCmd.Flags().StringVar(&afterString, "after", "", "Only get listening data after this date, in yyyy-mm-dd format")
	viper.BindPFlag("after", updateCmd.Flags().Lookup("after"))

	var force bool
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Get all listening data, regardless of what's already present (idempotent)")
	viper.BindPFlag("force", updateCmd.Flags().Lookup("force"))

	var assumedDuration float64
	updateCmd.Flags().Float64Var(&assumedDuration, "assumed_duration", 210, "Nominal play duration in seconds for imported scrobbles")
	viper.BindPFlag("assumed_duration", updateCmd.Flags().Lookup("assumed_duration"))
}

func updateDatabase(config UpdateConfig) error {
	var after time.Time
	var err error
	if len(config.After) > 0 {
		after, err = time.Parse("2006-01-02", config.After)
		if err != nil {
			return fmt.Errorf("--after: %w", err)
		}
	}

	user := strings.ToLower(config.User)
	calendar, err := appCalendar()
	if err != nil {
		return err
	}
	db, err := store.New(config.DbPath, calendar)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	lastfmClient := lastfm.New(viper.GetString("api_key"), viper.GetString("secret"))
	lastfmClient.SetUserAgent("music-tracking/1.0")

	latestSession, err := latestSessionStart(db)
	if err != nil {
		return err
	}
	if !latestSession.IsZero() {
		fmt.Printf("Latest local listening data is from: %s\n", latestSession.Format("2006-01-02"))
	}

	fmt.Printf("Updating database for %q\n", user)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)
	page := 1 // First page is 1
	pages := 0
	for {
		var recentTracks lastfm.UserGetRecentTracks
		err := retry.Do(
			func() error {
				var err error
				recentTracks, err = lastfmClient.User.GetRecentTracks(lastfm.P{
					"limit": 200,
					"page":  page,
					"user":  user,
				})
				return err
			},
			retry.RetryIf(func(err error) bool {
				if lerr, ok := err.(*lastfm.LastfmError); ok {
					if lerr.Code/100 == 5 {
						fmt.Printf("last.fm errored, retrying: %v\n", lerr)
						return true
					}
					return false
				}
				return false
			}),
		)
		if err != nil {
			return fmt.Errorf("fetching recent tracks: %w", err)
		}
		if len(recentTracks.Tracks) == 0 {
			break
		}

		if pages == 0 {
			pages = recentTracks.TotalPages
		}

		var oldest time.Time
		for _, t := range recentTracks.Tracks {
			// A scrobble without a date is the now-playing track.
			if t.Date.Uts == "" {
				continue
			}
			session, err := scrobbleToSession(user, t.Artist.Name, t.Album.Name, t.Name, t.Date.Uts, config.AssumedDuration)
			if err != nil {
				return err
			}
			if err := db.SaveListeningSession(session); err != nil {
				return fmt.Errorf("saving scrobble (page %d): %w", page, err)
			}
			oldest = session.StartTime
		}

		if oldest.IsZero() {
			fmt.Printf("Downloaded page %v of %v\n", page, pages)
		} else {
			fmt.Printf("Downloaded page %v of %v (oldest: %s)\n", page, pages, oldest.Format("2006-01-02"))
		}
		page += 1

		if pastTarget(oldest, after) {
			break
		}
		if page > pages {
			break
		}
		if !config.Force && !latestSession.IsZero() && pastTarget(oldest, latestSession.AddDate(0, 0, -7)) {
			fmt.Println("Refreshed back to existing data")
			break
		}

		limiter.Wait(context.Background())
	}

	return nil
}

// pastTarget reports whether the page walk has reached sessions older than
// target. A zero oldest means the page held only the dateless now-playing
// track and says nothing about how far back the walk has gone.
func pastTarget(oldest, target time.Time) bool {
	return !oldest.IsZero() && !target.IsZero() && oldest.Before(target)
}

func latestSessionStart(db *store.Store) (time.Time, error) {
	recent, err := db.FetchRecentListeningSessions(1)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetching latest session: %w", err)
	}
	if len(recent) == 0 {
		return time.Time{}, nil
	}
	return recent[0].StartTime, nil
}

func scrobbleToSession(user, artist, album, track, uts string, assumedDuration float64) (domain.ListeningSession, error) {
	dateUts, err := strconv.ParseInt(uts, 10, 64)
	if err != nil {
		return domain.ListeningSession{}, fmt.Errorf("parsing scrobble date %q: %w", uts, err)
	}
	startTime := time.Unix(dateUts, 0)

	key := strings.Join([]string{user, uts, artist, track}, "\x00")
	return domain.ListeningSession{
		ID: uuid.NewSHA1(scrobbleNamespace, []byte(key)),
		Song: domain.Song{
			ID:         strings.ToLower(artist + " - " + track),
			Title:      track,
			ArtistName: artist,
			AlbumTitle: album,
		},
		StartTime: startTime,
		Duration:  assumedDuration,
		PlayCount: 1,
		CreatedAt: startTime,
	}, nil
}
