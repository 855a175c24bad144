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
	"strings"
	"testing"
)

const dateTestLayout = "2006-01-02"

func TestParseDateRangeSingleArg(t *testing.T) {
	cases := []struct {
		arg   string
		start string
		end   string
	}{
		{"2020", "2020-01-01", "2021-01-01"},
		{"2020-03", "2020-03-01", "2020-04-01"},
		{"2020-12", "2020-12-01", "2021-01-01"},
		{"2020-03-14", "2020-03-14", "2020-03-15"},
	}
	for _, c := range cases {
		t.Run(c.arg, func(t *testing.T) {
			start, end, err := parseDateRangeFromArgs([]string{c.arg})
			if err != nil {
				t.Fatalf("parseDateRangeFromArgs(%q): %v", c.arg, err)
			}
			if got := start.Format(dateTestLayout); got != c.start {
				t.Errorf("start = %s, want %s", got, c.start)
			}
			if got := end.Format(dateTestLayout); got != c.end {
				t.Errorf("end = %s, want %s", got, c.end)
			}
		})
	}
}

func TestParseDateRangeTwoArgs(t *testing.T) {
	start, end, err := parseDateRangeFromArgs([]string{"2020-01", "2020-06-15"})
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs: %v", err)
	}
	if got := start.Format(dateTestLayout); got != "2020-01-01" {
		t.Errorf("start = %s, want 2020-01-01", got)
	}
	if got := end.Format(dateTestLayout); got != "2020-06-15" {
		t.Errorf("end = %s, want 2020-06-15", got)
	}
}

func TestParseDateRangeInvalid(t *testing.T) {
	for _, arg := range []string{"20", "2020-1", "2020-01-1", "notadate", "2020/01/01"} {
		t.Run(arg, func(t *testing.T) {
			_, _, err := parseDateRangeFromArgs([]string{arg})
			if err == nil {
				t.Fatalf("Expected error for %q", arg)
			}
			if !strings.Contains(err.Error(), arg) {
				t.Errorf("Error %q does not name the bad input %q", err, arg)
			}
		})
	}
}
