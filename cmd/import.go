package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <sessions.json>",
	Short: "Imports listening sessions from a JSON export",
	Long: `Reads a JSON array of listening sessions, as produced by a playback
observer, and upserts them into the database. Re-importing the same file is
idempotent: sessions are keyed by id.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := importSessions(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

type songImport struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ArtistName  string     `json:"artistName"`
	AlbumTitle  string     `json:"albumTitle"`
	Duration    float64    `json:"duration"`
	IsExplicit  bool       `json:"isExplicit"`
	GenreNames  []string   `json:"genreNames"`
	ReleaseDate *time.Time `json:"releaseDate"`
	ArtworkURL  string     `json:"artworkURL"`
}

type sessionImport struct {
	ID         string     `json:"id"`
	Song       songImport `json:"song"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	Duration   float64    `json:"duration"`
	PlayCount  int        `json:"playCount"`
	WasSkipped bool       `json:"wasSkipped"`
	SkipTime   float64    `json:"skipTime"`
}

func (si sessionImport) toDomain() (domain.ListeningSession, error) {
	session := domain.ListeningSession{
		Song: domain.Song{
			ID:          si.Song.ID,
			Title:       si.Song.Title,
			ArtistName:  si.Song.ArtistName,
			AlbumTitle:  si.Song.AlbumTitle,
			Duration:    si.Song.Duration,
			IsExplicit:  si.Song.IsExplicit,
			GenreNames:  si.Song.GenreNames,
			ReleaseDate: si.Song.ReleaseDate,
			ArtworkURL:  si.Song.ArtworkURL,
		},
		StartTime:  si.StartTime,
		EndTime:    si.EndTime,
		Duration:   si.Duration,
		PlayCount:  si.PlayCount,
		WasSkipped: si.WasSkipped,
		SkipTime:   si.SkipTime,
	}

	if si.ID == "" {
		session.ID = uuid.New()
	} else {
		id, err := uuid.Parse(si.ID)
		if err != nil {
			return session, fmt.Errorf("parsing session id %q: %w", si.ID, err)
		}
		session.ID = id
	}

	if session.PlayCount == 0 {
		session.PlayCount = 1
	}

	return session, nil
}

func importSessions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var imports []sessionImport
	if err := json.Unmarshal(data, &imports); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	saved := 0
	for i, si := range imports {
		session, err := si.toDomain()
		if err != nil {
			return fmt.Errorf("session %d: %w", i, err)
		}
		if err := db.SaveListeningSession(session); err != nil {
			return fmt.Errorf("session %d: %w", i, err)
		}
		saved++
	}

	fmt.Printf("Imported %d sessions from %s\n", saved, path)
	return nil
}
