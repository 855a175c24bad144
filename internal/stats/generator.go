// Package stats derives weekly aggregate records from raw listening sessions.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

// topListSize caps the ranked song and artist lists stored per week.
const topListSize = 10

// Repository is the slice of the session store the generator needs.
type Repository interface {
	FetchListeningSessions(from, to time.Time) ([]domain.ListeningSession, error)
	SaveWeeklyStats(stats domain.WeeklyStats) error
}

// Generator builds weekly stats snapshots from stored sessions. Aggregates
// are always re-derived from scratch, never merged into prior records.
type Generator struct {
	repo     Repository
	calendar domain.Calendar
}

func NewGenerator(repo Repository, calendar domain.Calendar) *Generator {
	return &Generator{repo: repo, calendar: calendar}
}

// GenerateWeeklyStatsForWeek computes and upserts the stats record for the
// week containing weekStartDate. A week with no sessions writes nothing and
// returns nil stats; any previously stored record for that week is left
// untouched.
func (g *Generator) GenerateWeeklyStatsForWeek(weekStartDate time.Time) (*domain.WeeklyStats, error) {
	weekStart := g.calendar.StartOfWeek(weekStartDate)
	weekEnd := g.calendar.EndOfWeek(weekStartDate)

	sessions, err := g.repo.FetchListeningSessions(weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("fetching sessions for week %s: %w", weekStart.Format("2006-01-02"), err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	stats := domain.WeeklyStats{
		WeekStartDate:    weekStart,
		TotalPlayTime:    totalPlayTime(sessions),
		UniqueSongsCount: uniqueSongsCount(sessions),
		TopSongs:         topSongs(sessions),
		TopArtists:       topArtists(sessions),
	}

	if err := g.repo.SaveWeeklyStats(stats); err != nil {
		return nil, fmt.Errorf("saving stats for week %s: %w", weekStart.Format("2006-01-02"), err)
	}
	return &stats, nil
}

// UpdateAllWeeklyStats regenerates stats for every week represented in the
// past year of sessions, oldest week first.
func (g *Generator) UpdateAllWeeklyStats() error {
	now := time.Now()
	sessions, err := g.repo.FetchListeningSessions(now.AddDate(-1, 0, 0), now)
	if err != nil {
		return fmt.Errorf("fetching past year of sessions: %w", err)
	}

	seen := map[int64]time.Time{}
	for _, session := range sessions {
		weekStart := g.calendar.StartOfWeek(session.StartTime)
		seen[weekStart.Unix()] = weekStart
	}

	weeks := make([]time.Time, 0, len(seen))
	for _, weekStart := range seen {
		weeks = append(weeks, weekStart)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	for _, weekStart := range weeks {
		if _, err := g.GenerateWeeklyStatsForWeek(weekStart); err != nil {
			return err
		}
	}
	return nil
}

func totalPlayTime(sessions []domain.ListeningSession) float64 {
	var total float64
	for _, session := range sessions {
		total += session.Duration
	}
	return total
}

func uniqueSongsCount(sessions []domain.ListeningSession) int {
	songs := map[string]bool{}
	for _, session := range sessions {
		songs[session.Song.ID] = true
	}
	return len(songs)
}

// topSongs groups sessions by song id, counting one play per session. The
// first session encountered for a song supplies the title and artist
// snapshot. Equal play counts order by song id ascending.
func topSongs(sessions []domain.ListeningSession) []domain.TopSongData {
	grouped := map[string]*domain.TopSongData{}
	for _, session := range sessions {
		entry, ok := grouped[session.Song.ID]
		if !ok {
			entry = &domain.TopSongData{
				SongID:     session.Song.ID,
				Title:      session.Song.Title,
				ArtistName: session.Song.ArtistName,
			}
			grouped[session.Song.ID] = entry
		}
		entry.PlayCount++
		entry.TotalPlayTime += session.Duration
	}

	ranked := make([]domain.TopSongData, 0, len(grouped))
	for _, entry := range grouped {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PlayCount != ranked[j].PlayCount {
			return ranked[i].PlayCount > ranked[j].PlayCount
		}
		return ranked[i].SongID < ranked[j].SongID
	})

	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}

// topArtists groups sessions by the raw artist name string. Equal play
// counts order by artist name ascending.
func topArtists(sessions []domain.ListeningSession) []domain.TopArtistData {
	type artistGroup struct {
		data  domain.TopArtistData
		songs map[string]bool
	}

	grouped := map[string]*artistGroup{}
	for _, session := range sessions {
		group, ok := grouped[session.Song.ArtistName]
		if !ok {
			group = &artistGroup{
				data:  domain.TopArtistData{ArtistName: session.Song.ArtistName},
				songs: map[string]bool{},
			}
			grouped[session.Song.ArtistName] = group
		}
		group.data.PlayCount++
		group.data.TotalPlayTime += session.Duration
		group.songs[session.Song.ID] = true
	}

	ranked := make([]domain.TopArtistData, 0, len(grouped))
	for _, group := range grouped {
		group.data.UniqueSongsCount = len(group.songs)
		ranked = append(ranked, group.data)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PlayCount != ranked[j].PlayCount {
			return ranked[i].PlayCount > ranked[j].PlayCount
		}
		return ranked[i].ArtistName < ranked[j].ArtistName
	})

	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}
