package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

// Store is the sole gateway to the durable session and weekly-stats records.
// The underlying *sql.DB is safe for concurrent use; WAL mode lets readers
// proceed while a writer commits, and single-statement upserts serialize
// writers for the same id.
type Store struct {
	db       *sql.DB
	path     string
	calendar domain.Calendar
	logger   *logrus.Logger
}

func New(dbPath string, calendar domain.Calendar) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Store{db: db, path: dbPath, calendar: calendar, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Calendar returns the calendar configuration the store normalizes weeks with.
func (s *Store) Calendar() domain.Calendar {
	return s.calendar
}

func createTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS ListeningSession (
  id TEXT PRIMARY KEY,
  song_id TEXT NOT NULL,
  title TEXT NOT NULL,
  artist_name TEXT NOT NULL,
  album_title TEXT NOT NULL DEFAULT '',
  song_duration REAL NOT NULL DEFAULT 0,
  is_explicit INTEGER NOT NULL DEFAULT 0,
  genre_names TEXT NOT NULL DEFAULT '[]',
  release_date INTEGER,
  artwork_url TEXT NOT NULL DEFAULT '',
  start_time INTEGER NOT NULL,
  end_time INTEGER,
  duration REAL NOT NULL,
  play_count INTEGER NOT NULL DEFAULT 1,
  was_skipped INTEGER NOT NULL DEFAULT 0,
  skip_time REAL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS ListeningSession_start_time ON ListeningSession(start_time);
CREATE INDEX IF NOT EXISTS ListeningSession_song ON ListeningSession(song_id, start_time);
CREATE INDEX IF NOT EXISTS ListeningSession_artist ON ListeningSession(artist_name, start_time);

CREATE TABLE IF NOT EXISTS WeeklyStats (
  week_start INTEGER PRIMARY KEY,
  total_play_time REAL NOT NULL,
  unique_songs_count INTEGER NOT NULL,
  top_songs TEXT NOT NULL,
  top_artists TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}
