package store

import (
	"testing"
	"time"
)

func saveSessionsOnDays(t *testing.T, s *Store, days ...time.Time) {
	t.Helper()
	for _, day := range days {
		if err := s.SaveListeningSession(testSession("song-a", day, 100)); err != nil {
			t.Fatalf("SaveListeningSession: %v", err)
		}
	}
}

func TestStreaksThreeConsecutiveDays(t *testing.T) {
	s := createTestDb(t)

	day := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	saveSessionsOnDays(t, s, day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))

	streaks, err := s.GetListeningStreaks()
	if err != nil {
		t.Fatalf("GetListeningStreaks: %v", err)
	}
	if len(streaks) != 1 {
		t.Fatalf("Expected 1 streak, got %d", len(streaks))
	}
	if streaks[0].DaysCount != 3 {
		t.Errorf("DaysCount = %d, want 3", streaks[0].DaysCount)
	}
	wantStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !streaks[0].StartDate.Equal(wantStart) {
		t.Errorf("StartDate = %v, want %v", streaks[0].StartDate, wantStart)
	}
	if !streaks[0].EndDate.Equal(day.AddDate(0, 0, 2)) {
		t.Errorf("EndDate = %v, want last session time", streaks[0].EndDate)
	}
	if streaks[0].TotalPlayTime != 300 {
		t.Errorf("TotalPlayTime = %f, want 300", streaks[0].TotalPlayTime)
	}
}

func TestStreaksTwoDayGapBreaks(t *testing.T) {
	s := createTestDb(t)

	day := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	// D and D+2 on their own never reach the 3-day minimum.
	saveSessionsOnDays(t, s, day, day.AddDate(0, 0, 2))

	streaks, err := s.GetListeningStreaks()
	if err != nil {
		t.Fatalf("GetListeningStreaks: %v", err)
	}
	if len(streaks) != 0 {
		t.Errorf("Expected no streaks, got %d", len(streaks))
	}
}

func TestStreaksMissedDaySplitsRuns(t *testing.T) {
	s := createTestDb(t)

	day := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	// Active on D, D+1, D+3, D+4: the missed day D+2 splits this into two
	// two-day runs, neither of which reaches the three-day minimum.
	saveSessionsOnDays(t, s, day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 3), day.AddDate(0, 0, 4))

	streaks, err := s.GetListeningStreaks()
	if err != nil {
		t.Fatalf("GetListeningStreaks: %v", err)
	}
	if len(streaks) != 0 {
		t.Errorf("Expected no streaks, got %d", len(streaks))
	}
}

func TestStreaksClosesAfterTwoDayGap(t *testing.T) {
	s := createTestDb(t)

	day := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	// D, D+1, D+2 then a 2-day gap to D+4: the streak must close at D+2.
	saveSessionsOnDays(t, s, day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2), day.AddDate(0, 0, 4))

	streaks, err := s.GetListeningStreaks()
	if err != nil {
		t.Fatalf("GetListeningStreaks: %v", err)
	}
	if len(streaks) != 1 {
		t.Fatalf("Expected 1 streak, got %d", len(streaks))
	}
	if !streaks[0].EndDate.Equal(day.AddDate(0, 0, 2)) {
		t.Errorf("EndDate = %v, want the session before the gap", streaks[0].EndDate)
	}
	if streaks[0].DaysCount != 3 {
		t.Errorf("DaysCount = %d, want 3", streaks[0].DaysCount)
	}
}

func TestStreaksMultipleSessionsPerDay(t *testing.T) {
	s := createTestDb(t)

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	// Two sessions on the first day count it once but sum both durations.
	saveSessionsOnDays(t, s, day, day.Add(2*time.Hour), day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))

	streaks, err := s.GetListeningStreaks()
	if err != nil {
		t.Fatalf("GetListeningStreaks: %v", err)
	}
	if len(streaks) != 1 {
		t.Fatalf("Expected 1 streak, got %d", len(streaks))
	}
	if streaks[0].DaysCount != 3 {
		t.Errorf("DaysCount = %d, want 3", streaks[0].DaysCount)
	}
	if streaks[0].TotalPlayTime != 400 {
		t.Errorf("TotalPlayTime = %f, want 400", streaks[0].TotalPlayTime)
	}
}

func TestStreaksSortedByLength(t *testing.T) {
	s := createTestDb(t)

	short := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	long := time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)
	saveSessionsOnDays(t, s,
		short, short.AddDate(0, 0, 1), short.AddDate(0, 0, 2),
		long, long.AddDate(0, 0, 1), long.AddDate(0, 0, 2), long.AddDate(0, 0, 3), long.AddDate(0, 0, 4),
	)

	streaks, err := s.GetListeningStreaks()
	if err != nil {
		t.Fatalf("GetListeningStreaks: %v", err)
	}
	if len(streaks) != 2 {
		t.Fatalf("Expected 2 streaks, got %d", len(streaks))
	}
	if streaks[0].DaysCount != 5 || streaks[1].DaysCount != 3 {
		t.Errorf("Expected longest first, got %d then %d", streaks[0].DaysCount, streaks[1].DaysCount)
	}
}
