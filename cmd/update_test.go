/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"testing"
	"time"
)

func TestPastTarget(t *testing.T) {
	target := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		oldest time.Time
		target time.Time
		want   bool
	}{
		{"older than target", target.AddDate(0, 0, -1), target, true},
		{"newer than target", target.AddDate(0, 0, 1), target, false},
		{"exactly at target", target, target, false},
		{"zero oldest keeps paging", time.Time{}, target, false},
		{"zero target never stops", target.AddDate(0, 0, -1), time.Time{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := pastTarget(c.oldest, c.target); got != c.want {
				t.Errorf("pastTarget(%v, %v) = %v, want %v", c.oldest, c.target, got, c.want)
			}
		})
	}
}

func TestScrobbleToSessionDeterministicId(t *testing.T) {
	first, err := scrobbleToSession("listener", "Artist X", "Album", "Track", "1741600800", 210)
	if err != nil {
		t.Fatalf("scrobbleToSession: %v", err)
	}
	second, err := scrobbleToSession("listener", "Artist X", "Album", "Track", "1741600800", 210)
	if err != nil {
		t.Fatalf("scrobbleToSession: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected identical ids for the same scrobble, got %s and %s", first.ID, second.ID)
	}

	other, err := scrobbleToSession("listener", "Artist X", "Album", "Track", "1741600801", 210)
	if err != nil {
		t.Fatalf("scrobbleToSession: %v", err)
	}
	if first.ID == other.ID {
		t.Error("Expected a different id for a different scrobble time")
	}
}
