package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

// SongPlayCount pairs a song snapshot with how many sessions it appeared in.
// The snapshot comes from one of the grouped sessions; ranking ties order by
// song id ascending so repeated queries return identical lists.
type SongPlayCount struct {
	Song      domain.Song
	PlayCount int64
}

// ArtistPlayCount pairs an artist name with how many sessions it appeared in.
// Ties order by artist name ascending.
type ArtistPlayCount struct {
	Artist    string
	PlayCount int64
}

// GetTotalListeningTime sums session durations over the inclusive range
// [from, to], in seconds. An empty range sums to zero.
func (s *Store) GetTotalListeningTime(from, to time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRow(`
	SELECT COALESCE(SUM(duration), 0)
	FROM ListeningSession
	WHERE start_time BETWEEN ? AND ?
	`, from.Unix(), to.Unix()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing listening time: %w", err)
	}
	return total, nil
}

// GetUniqueSongsCount counts distinct song ids among sessions in the
// inclusive range [from, to].
func (s *Store) GetUniqueSongsCount(from, to time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
	SELECT COUNT(DISTINCT song_id)
	FROM ListeningSession
	WHERE start_time BETWEEN ? AND ?
	`, from.Unix(), to.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unique songs: %w", err)
	}
	return count, nil
}

// GetTopSongs ranks songs by session count over [from, to], most played
// first, truncated to limit.
func (s *Store) GetTopSongs(from, to time.Time, limit int) ([]SongPlayCount, error) {
	query := `
	SELECT song_id, title, artist_name, album_title, song_duration, is_explicit,
	  genre_names, artwork_url, COUNT(*)
	FROM ListeningSession
	WHERE start_time BETWEEN ? AND ?
	GROUP BY song_id
	ORDER BY COUNT(*) DESC, song_id ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, from.Unix(), to.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top songs: %w", err)
	}
	defer rows.Close()

	var results []SongPlayCount
	for rows.Next() {
		var spc SongPlayCount
		var genres string
		err := rows.Scan(
			&spc.Song.ID,
			&spc.Song.Title,
			&spc.Song.ArtistName,
			&spc.Song.AlbumTitle,
			&spc.Song.Duration,
			&spc.Song.IsExplicit,
			&genres,
			&spc.Song.ArtworkURL,
			&spc.PlayCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning top song: %w", err)
		}
		if err := json.Unmarshal([]byte(genres), &spc.Song.GenreNames); err != nil {
			return nil, fmt.Errorf("decoding genres for song %q: %w", spc.Song.ID, err)
		}
		results = append(results, spc)
	}
	return results, rows.Err()
}

// GetTopArtists ranks artists by session count over [from, to], most played
// first, truncated to limit. Artists group by the raw name string.
func (s *Store) GetTopArtists(from, to time.Time, limit int) ([]ArtistPlayCount, error) {
	query := `
	SELECT artist_name, COUNT(*)
	FROM ListeningSession
	WHERE start_time BETWEEN ? AND ?
	GROUP BY artist_name
	ORDER BY COUNT(*) DESC, artist_name ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, from.Unix(), to.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var results []ArtistPlayCount
	for rows.Next() {
		var apc ArtistPlayCount
		if err := rows.Scan(&apc.Artist, &apc.PlayCount); err != nil {
			return nil, fmt.Errorf("scanning top artist: %w", err)
		}
		results = append(results, apc)
	}
	return results, rows.Err()
}
