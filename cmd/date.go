package cmd

import (
	"fmt"
	"regexp"
	"time"
)

// dateFormat is one accepted datestring precision. advance moves a parsed
// date forward by the span that precision covers, which is what a single
// date argument implicitly ranges over.
type dateFormat struct {
	pattern *regexp.Regexp
	layout  string
	advance func(time.Time) time.Time
}

var dateFormats = []dateFormat{
	{regexp.MustCompile(`^\d{4}$`), "2006",
		func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "2006-01",
		func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02",
		func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
}

// parseDateRangeFromArgs turns one or two datestring arguments into a time
// range. A single argument spans its own precision: '2020' covers the whole
// year, '2020-03' the month, '2020-03-14' the day.
func parseDateRangeFromArgs(args []string) (time.Time, time.Time, error) {
	switch len(args) {
	case 1:
		start, format, err := parseDatestring(args[0])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, format.advance(start), nil

	case 2:
		start, _, err := parseDatestring(args[0])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, _, err := parseDatestring(args[1])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil

	default:
		return time.Time{}, time.Time{}, fmt.Errorf("expected one or two date arguments")
	}
}

func parseDatestring(ds string) (time.Time, *dateFormat, error) {
	for i := range dateFormats {
		format := &dateFormats[i]
		if !format.pattern.MatchString(ds) {
			continue
		}
		date, err := time.Parse(format.layout, ds)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("parsing datestring %q: %w", ds, err)
		}
		return date, format, nil
	}
	return time.Time{}, nil, fmt.Errorf("invalid date format: %q", ds)
}
