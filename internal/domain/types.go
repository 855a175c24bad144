package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Song is a snapshot of catalog metadata for one track. Identity is the
// catalog id only: two Song values with the same ID are interchangeable even
// when the rest of the metadata differs, since catalog data may be refreshed
// independently of stored sessions.
type Song struct {
	ID          string
	Title       string
	ArtistName  string
	AlbumTitle  string
	Duration    float64 // seconds; 0 when unknown
	IsExplicit  bool
	GenreNames  []string
	ReleaseDate *time.Time
	ArtworkURL  string
}

// ListeningSession is one recorded act of listening to a song. The embedded
// Song is a snapshot taken at record time. Duration is the nominal play
// duration in seconds; EndTime, when present, supersedes it.
type ListeningSession struct {
	ID         uuid.UUID
	Song       Song
	StartTime  time.Time
	EndTime    *time.Time
	Duration   float64 // seconds
	PlayCount  int
	WasSkipped bool
	SkipTime   float64 // seconds into playback, meaningful only when WasSkipped
	CreatedAt  time.Time
}

// NewListeningSession builds a session with a fresh id and a play count of 1.
func NewListeningSession(song Song, startTime time.Time, duration float64) ListeningSession {
	return ListeningSession{
		ID:        uuid.New(),
		Song:      song,
		StartTime: startTime,
		Duration:  duration,
		PlayCount: 1,
		CreatedAt: time.Now(),
	}
}

// IsComplete reports whether the session recorded an end time.
func (s ListeningSession) IsComplete() bool {
	return s.EndTime != nil
}

// ActualDuration is the elapsed time between start and end when an end time
// exists, otherwise the nominal duration.
func (s ListeningSession) ActualDuration() float64 {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime).Seconds()
	}
	return s.Duration
}

// Validate rejects sessions that must never reach storage.
func (s ListeningSession) Validate() error {
	if s.ID == uuid.Nil {
		return fmt.Errorf("session is missing an id")
	}
	if s.Song.ID == "" {
		return fmt.Errorf("session %s is missing a song id", s.ID)
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("session %s is missing a start time", s.ID)
	}
	if s.Duration < 0 {
		return fmt.Errorf("session %s has negative duration %f", s.ID, s.Duration)
	}
	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("session %s ends before it starts", s.ID)
	}
	if s.WasSkipped && s.SkipTime > s.Duration {
		return fmt.Errorf("session %s has skip time %f beyond duration %f", s.ID, s.SkipTime, s.Duration)
	}
	return nil
}

// TopSongData is one ranked entry in a week's top songs list.
type TopSongData struct {
	SongID        string  `json:"song_id"`
	Title         string  `json:"title"`
	ArtistName    string  `json:"artist_name"`
	PlayCount     int     `json:"play_count"`
	TotalPlayTime float64 `json:"total_play_time"`
}

// TopArtistData is one ranked entry in a week's top artists list.
type TopArtistData struct {
	ArtistName       string  `json:"artist_name"`
	PlayCount        int     `json:"play_count"`
	TotalPlayTime    float64 `json:"total_play_time"`
	UniqueSongsCount int     `json:"unique_songs_count"`
}

// WeeklyStats is the aggregate record for one canonical week, keyed by the
// normalized week start date. Recomputing a week replaces the record whole.
type WeeklyStats struct {
	WeekStartDate    time.Time
	TotalPlayTime    float64 // seconds
	UniqueSongsCount int
	TopSongs         []TopSongData
	TopArtists       []TopArtistData
}

// ListeningStreak is a derived read model: a run of 3 or more distinct
// calendar days with listening activity, where consecutive active days are at
// most one day apart. Never persisted.
type ListeningStreak struct {
	StartDate     time.Time
	EndDate       time.Time
	DaysCount     int
	TotalPlayTime float64 // seconds
}
