package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

// retentionPeriod is how long sessions and weekly stats are kept. Records
// strictly older than now minus this period are removed by PerformCleanup;
// a record exactly at the cutoff is retained.
const retentionPeriod = 2 // years

// SaveListeningSession upserts the session keyed by its id. A new id inserts;
// an existing id overwrites every mutable field in place while keeping the
// original creation timestamp. The single-statement upsert makes concurrent
// saves for the same id last-write-wins with no duplicate-insert window.
func (s *Store) SaveListeningSession(session domain.ListeningSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validating session: %w", err)
	}

	genres, err := json.Marshal(session.Song.GenreNames)
	if err != nil {
		return fmt.Errorf("encoding genres for session %s: %w", session.ID, err)
	}

	var releaseDate sql.NullInt64
	if session.Song.ReleaseDate != nil {
		releaseDate = sql.NullInt64{Int64: session.Song.ReleaseDate.Unix(), Valid: true}
	}
	var endTime sql.NullInt64
	if session.EndTime != nil {
		endTime = sql.NullInt64{Int64: session.EndTime.Unix(), Valid: true}
	}
	var skipTime sql.NullFloat64
	if session.WasSkipped {
		skipTime = sql.NullFloat64{Float64: session.SkipTime, Valid: true}
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
	INSERT INTO ListeningSession (
	  id, song_id, title, artist_name, album_title, song_duration, is_explicit,
	  genre_names, release_date, artwork_url, start_time, end_time, duration,
	  play_count, was_skipped, skip_time, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	  song_id = excluded.song_id,
	  title = excluded.title,
	  artist_name = excluded.artist_name,
	  album_title = excluded.album_title,
	  song_duration = excluded.song_duration,
	  is_explicit = excluded.is_explicit,
	  genre_names = excluded.genre_names,
	  release_date = excluded.release_date,
	  artwork_url = excluded.artwork_url,
	  start_time = excluded.start_time,
	  end_time = excluded.end_time,
	  duration = excluded.duration,
	  play_count = excluded.play_count,
	  was_skipped = excluded.was_skipped,
	  skip_time = excluded.skip_time
	`
	_, err = s.db.Exec(query,
		session.ID.String(),
		session.Song.ID,
		session.Song.Title,
		session.Song.ArtistName,
		session.Song.AlbumTitle,
		session.Song.Duration,
		session.Song.IsExplicit,
		string(genres),
		releaseDate,
		session.Song.ArtworkURL,
		session.StartTime.Unix(),
		endTime,
		session.Duration,
		session.PlayCount,
		session.WasSkipped,
		skipTime,
		createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	return nil
}

// DeleteListeningSession removes the session with the given id. Deleting an
// id that is not stored is a no-op, not an error.
func (s *Store) DeleteListeningSession(id uuid.UUID) error {
	if _, err := s.db.Exec("DELETE FROM ListeningSession WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// DeleteListeningSessions removes every session with a start time in the
// inclusive range [from, to].
func (s *Store) DeleteListeningSessions(from, to time.Time) error {
	_, err := s.db.Exec("DELETE FROM ListeningSession WHERE start_time BETWEEN ? AND ?", from.Unix(), to.Unix())
	if err != nil {
		return fmt.Errorf("deleting sessions in range: %w", err)
	}
	return nil
}

// DeleteAllListeningSessions clears the session store.
func (s *Store) DeleteAllListeningSessions() error {
	if _, err := s.db.Exec("DELETE FROM ListeningSession"); err != nil {
		return fmt.Errorf("deleting all sessions: %w", err)
	}
	return nil
}

// SaveWeeklyStats upserts the stats record for the week containing
// stats.WeekStartDate. The raw date is snapped to the canonical week start
// before keying, and an existing week's record is replaced whole.
func (s *Store) SaveWeeklyStats(stats domain.WeeklyStats) error {
	weekStart := s.calendar.StartOfWeek(stats.WeekStartDate)

	topSongs, err := json.Marshal(stats.TopSongs)
	if err != nil {
		return fmt.Errorf("encoding top songs for week %s: %w", weekStart.Format("2006-01-02"), err)
	}
	topArtists, err := json.Marshal(stats.TopArtists)
	if err != nil {
		return fmt.Errorf("encoding top artists for week %s: %w", weekStart.Format("2006-01-02"), err)
	}

	query := `
	INSERT INTO WeeklyStats (week_start, total_play_time, unique_songs_count, top_songs, top_artists, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(week_start) DO UPDATE SET
	  total_play_time = excluded.total_play_time,
	  unique_songs_count = excluded.unique_songs_count,
	  top_songs = excluded.top_songs,
	  top_artists = excluded.top_artists,
	  updated_at = excluded.updated_at
	`
	_, err = s.db.Exec(query,
		weekStart.Unix(),
		stats.TotalPlayTime,
		stats.UniqueSongsCount,
		string(topSongs),
		string(topArtists),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving weekly stats for %s: %w", weekStart.Format("2006-01-02"), err)
	}
	return nil
}

// DeleteWeeklyStats removes the stats record for the week containing
// weekStartDate, if one exists.
func (s *Store) DeleteWeeklyStats(weekStartDate time.Time) error {
	weekStart := s.calendar.StartOfWeek(weekStartDate)
	if _, err := s.db.Exec("DELETE FROM WeeklyStats WHERE week_start = ?", weekStart.Unix()); err != nil {
		return fmt.Errorf("deleting weekly stats for %s: %w", weekStart.Format("2006-01-02"), err)
	}
	return nil
}

// DeleteAllWeeklyStats clears every stored week.
func (s *Store) DeleteAllWeeklyStats() error {
	if _, err := s.db.Exec("DELETE FROM WeeklyStats"); err != nil {
		return fmt.Errorf("deleting all weekly stats: %w", err)
	}
	return nil
}

// CleanupResult reports how many records a retention pass removed.
type CleanupResult struct {
	SessionsRemoved    int64
	WeeklyStatsRemoved int64
}

// PerformCleanup removes sessions and weekly stats older than the retention
// period. Matching nothing is success; a failure on one table still reports
// the progress made on the other.
func (s *Store) PerformCleanup() (CleanupResult, error) {
	cutoff := time.Now().AddDate(-retentionPeriod, 0, 0)
	return s.cleanupBefore(cutoff)
}

func (s *Store) cleanupBefore(cutoff time.Time) (CleanupResult, error) {
	var result CleanupResult

	sessions, sessionsErr := s.db.Exec("DELETE FROM ListeningSession WHERE start_time < ?", cutoff.Unix())
	if sessionsErr == nil {
		result.SessionsRemoved, _ = sessions.RowsAffected()
	}

	stats, statsErr := s.db.Exec("DELETE FROM WeeklyStats WHERE week_start < ?", cutoff.Unix())
	if statsErr == nil {
		result.WeeklyStatsRemoved, _ = stats.RowsAffected()
	}

	if sessionsErr != nil {
		return result, fmt.Errorf("deleting expired sessions: %w", sessionsErr)
	}
	if statsErr != nil {
		return result, fmt.Errorf("deleting expired weekly stats: %w", statsErr)
	}

	s.logger.WithFields(logrus.Fields{
		"cutoff":               cutoff.Format("2006-01-02"),
		"sessions_removed":     result.SessionsRemoved,
		"weekly_stats_removed": result.WeeklyStatsRemoved,
	}).Info("Retention cleanup finished")

	return result, nil
}
