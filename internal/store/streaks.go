package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/jacobreesgit/music-tracking/internal/domain"
)

// minStreakDays is the smallest number of distinct active days that counts
// as a streak.
const minStreakDays = 3

// GetListeningStreaks walks every stored session in ascending time order and
// collects runs of distinct calendar days with listening activity. A gap of
// one calendar day between consecutive sessions is contiguous; a gap of two
// or more days ends the run. Runs spanning at least three distinct days are
// returned, sorted by days count descending.
func (s *Store) GetListeningStreaks() ([]domain.ListeningStreak, error) {
	rows, err := s.db.Query(`
	SELECT start_time, duration FROM ListeningSession
	ORDER BY start_time ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions for streaks: %w", err)
	}
	defer rows.Close()

	cal := s.calendar
	var (
		streaks     []domain.ListeningStreak
		streakStart time.Time
		streakDays  map[string]bool
		playTime    float64
		prev        time.Time
	)

	flush := func(end time.Time) {
		if len(streakDays) >= minStreakDays {
			streaks = append(streaks, domain.ListeningStreak{
				StartDate:     streakStart,
				EndDate:       end,
				DaysCount:     len(streakDays),
				TotalPlayTime: playTime,
			})
		}
	}

	for rows.Next() {
		var startUnix int64
		var duration float64
		if err := rows.Scan(&startUnix, &duration); err != nil {
			return nil, fmt.Errorf("scanning session for streaks: %w", err)
		}
		current := time.Unix(startUnix, 0)

		if streakDays == nil || cal.DaysBetween(prev, current) > 1 {
			if streakDays != nil {
				flush(prev)
			}
			streakStart = cal.StartOfDay(current)
			streakDays = map[string]bool{}
			playTime = 0
		}

		streakDays[cal.DayKey(current)] = true
		playTime += duration
		prev = current
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions for streaks: %w", err)
	}
	if streakDays != nil {
		flush(prev)
	}

	sort.SliceStable(streaks, func(i, j int) bool {
		if streaks[i].DaysCount != streaks[j].DaysCount {
			return streaks[i].DaysCount > streaks[j].DaysCount
		}
		return streaks[i].StartDate.Before(streaks[j].StartDate)
	})

	return streaks, nil
}
