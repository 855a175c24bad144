package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func validSession() ListeningSession {
	return NewListeningSession(Song{
		ID:         "song-a",
		Title:      "A",
		ArtistName: "X",
	}, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), 120)
}

func TestNewListeningSessionDefaults(t *testing.T) {
	session := validSession()

	if session.ID == uuid.Nil {
		t.Error("Expected a generated id")
	}
	if session.PlayCount != 1 {
		t.Errorf("PlayCount = %d, want 1", session.PlayCount)
	}
	if session.IsComplete() {
		t.Error("Session without end time should not be complete")
	}
	if session.ActualDuration() != 120 {
		t.Errorf("ActualDuration = %f, want nominal 120", session.ActualDuration())
	}
}

func TestActualDurationPrefersEndTime(t *testing.T) {
	session := validSession()
	end := session.StartTime.Add(90 * time.Second)
	session.EndTime = &end

	if !session.IsComplete() {
		t.Error("Expected complete session")
	}
	if session.ActualDuration() != 90 {
		t.Errorf("ActualDuration = %f, want 90", session.ActualDuration())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ListeningSession)
		wantErr bool
	}{
		{"valid", func(s *ListeningSession) {}, false},
		{"zero duration", func(s *ListeningSession) { s.Duration = 0 }, false},
		{"missing id", func(s *ListeningSession) { s.ID = uuid.Nil }, true},
		{"missing song id", func(s *ListeningSession) { s.Song.ID = "" }, true},
		{"missing start time", func(s *ListeningSession) { s.StartTime = time.Time{} }, true},
		{"negative duration", func(s *ListeningSession) { s.Duration = -1 }, true},
		{"end before start", func(s *ListeningSession) {
			end := s.StartTime.Add(-time.Second)
			s.EndTime = &end
		}, true},
		{"skip beyond duration", func(s *ListeningSession) {
			s.WasSkipped = true
			s.SkipTime = s.Duration + 1
		}, true},
		{"skip within duration", func(s *ListeningSession) {
			s.WasSkipped = true
			s.SkipTime = s.Duration - 1
		}, false},
		{"skip time without skip flag is ignored", func(s *ListeningSession) {
			s.SkipTime = s.Duration + 100
		}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			session := validSession()
			c.mutate(&session)
			err := session.Validate()
			if c.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !c.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
