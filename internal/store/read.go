package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

const sessionColumns = `id, song_id, title, artist_name, album_title, song_duration, is_explicit,
	genre_names, release_date, artwork_url, start_time, end_time, duration,
	play_count, was_skipped, skip_time, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession is the total mapping from a durable row to the domain value.
// Round-tripping a session through SaveListeningSession and back yields an
// equal record (at second precision for timestamps).
func scanSession(row rowScanner) (domain.ListeningSession, error) {
	var (
		session     domain.ListeningSession
		id          string
		genres      string
		releaseDate sql.NullInt64
		startTime   int64
		endTime     sql.NullInt64
		skipTime    sql.NullFloat64
		createdAt   int64
	)
	err := row.Scan(
		&id,
		&session.Song.ID,
		&session.Song.Title,
		&session.Song.ArtistName,
		&session.Song.AlbumTitle,
		&session.Song.Duration,
		&session.Song.IsExplicit,
		&genres,
		&releaseDate,
		&session.Song.ArtworkURL,
		&startTime,
		&endTime,
		&session.Duration,
		&session.PlayCount,
		&session.WasSkipped,
		&skipTime,
		&createdAt,
	)
	if err != nil {
		return session, err
	}

	session.ID, err = uuid.Parse(id)
	if err != nil {
		return session, fmt.Errorf("parsing session id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(genres), &session.Song.GenreNames); err != nil {
		return session, fmt.Errorf("decoding genres for session %s: %w", id, err)
	}
	if releaseDate.Valid {
		t := time.Unix(releaseDate.Int64, 0)
		session.Song.ReleaseDate = &t
	}
	session.StartTime = time.Unix(startTime, 0)
	if endTime.Valid {
		t := time.Unix(endTime.Int64, 0)
		session.EndTime = &t
	}
	if skipTime.Valid {
		session.SkipTime = skipTime.Float64
	}
	session.CreatedAt = time.Unix(createdAt, 0)

	return session, nil
}

func (s *Store) querySessions(query string, args ...any) ([]domain.ListeningSession, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ListeningSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// FetchListeningSessions returns every session with a start time in the
// inclusive range [from, to], ascending by start time.
func (s *Store) FetchListeningSessions(from, to time.Time) ([]domain.ListeningSession, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM ListeningSession
	WHERE start_time BETWEEN ? AND ?
	ORDER BY start_time ASC, id ASC
	`, sessionColumns)
	sessions, err := s.querySessions(query, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("fetching sessions in range: %w", err)
	}
	return sessions, nil
}

// FetchListeningSessionsForSong returns the most recent sessions for one
// song, newest first, capped at limit.
func (s *Store) FetchListeningSessionsForSong(songID string, limit int) ([]domain.ListeningSession, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM ListeningSession
	WHERE song_id = ?
	ORDER BY start_time DESC, id ASC
	LIMIT ?
	`, sessionColumns)
	sessions, err := s.querySessions(query, songID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching sessions for song %q: %w", songID, err)
	}
	return sessions, nil
}

// FetchRecentListeningSessions returns the most recent sessions across all
// songs, newest first, capped at limit.
func (s *Store) FetchRecentListeningSessions(limit int) ([]domain.ListeningSession, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM ListeningSession
	ORDER BY start_time DESC, id ASC
	LIMIT ?
	`, sessionColumns)
	sessions, err := s.querySessions(query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent sessions: %w", err)
	}
	return sessions, nil
}

func scanWeeklyStats(row rowScanner) (domain.WeeklyStats, error) {
	var (
		stats      domain.WeeklyStats
		weekStart  int64
		topSongs   string
		topArtists string
	)
	err := row.Scan(&weekStart, &stats.TotalPlayTime, &stats.UniqueSongsCount, &topSongs, &topArtists)
	if err != nil {
		return stats, err
	}

	stats.WeekStartDate = time.Unix(weekStart, 0)
	if err := json.Unmarshal([]byte(topSongs), &stats.TopSongs); err != nil {
		return stats, fmt.Errorf("decoding top songs: %w", err)
	}
	if err := json.Unmarshal([]byte(topArtists), &stats.TopArtists); err != nil {
		return stats, fmt.Errorf("decoding top artists: %w", err)
	}
	return stats, nil
}

// FetchWeeklyStats returns the stats record for the week containing
// weekStartDate, or nil when none is stored.
func (s *Store) FetchWeeklyStats(weekStartDate time.Time) (*domain.WeeklyStats, error) {
	weekStart := s.calendar.StartOfWeek(weekStartDate)
	row := s.db.QueryRow(`
	SELECT week_start, total_play_time, unique_songs_count, top_songs, top_artists
	FROM WeeklyStats WHERE week_start = ?
	`, weekStart.Unix())

	stats, err := scanWeeklyStats(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching weekly stats for %s: %w", weekStart.Format("2006-01-02"), err)
	}
	return &stats, nil
}

// FetchAllWeeklyStats returns every stored week, oldest first.
func (s *Store) FetchAllWeeklyStats() ([]domain.WeeklyStats, error) {
	rows, err := s.db.Query(`
	SELECT week_start, total_play_time, unique_songs_count, top_songs, top_artists
	FROM WeeklyStats ORDER BY week_start ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("fetching all weekly stats: %w", err)
	}
	defer rows.Close()

	var all []domain.WeeklyStats
	for rows.Next() {
		stats, err := scanWeeklyStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning weekly stats: %w", err)
		}
		all = append(all, stats)
	}
	return all, rows.Err()
}

// StorageInfo reports record counts and on-disk size of the store.
type StorageInfo struct {
	Path               string
	SessionCount       int64
	WeeklyStatsCount   int64
	DatabaseSizeBytes  int64
	FileSizeBytes      int64
	OldestSessionStart time.Time
	NewestSessionStart time.Time
}

// GetStorageInfo reports size and record-count metrics for the store.
func (s *Store) GetStorageInfo() (StorageInfo, error) {
	info := StorageInfo{Path: s.path}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM ListeningSession").Scan(&info.SessionCount); err != nil {
		return info, fmt.Errorf("counting sessions: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM WeeklyStats").Scan(&info.WeeklyStatsCount); err != nil {
		return info, fmt.Errorf("counting weekly stats: %w", err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return info, fmt.Errorf("reading page count: %w", err)
	}
	if err := s.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return info, fmt.Errorf("reading page size: %w", err)
	}
	info.DatabaseSizeBytes = pageCount * pageSize

	// In-memory databases have no backing file.
	if stat, err := os.Stat(s.path); err == nil {
		info.FileSizeBytes = stat.Size()
	}

	var oldest, newest sql.NullInt64
	err := s.db.QueryRow("SELECT MIN(start_time), MAX(start_time) FROM ListeningSession").Scan(&oldest, &newest)
	if err != nil {
		return info, fmt.Errorf("reading session time bounds: %w", err)
	}
	if oldest.Valid {
		info.OldestSessionStart = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		info.NewestSessionStart = time.Unix(newest.Int64, 0)
	}

	return info, nil
}
