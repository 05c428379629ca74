package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// DateLayout is the layout of calendar dates exchanged with clients.
const DateLayout = "2006-01-02"

// deviceTimeLayout is the FoxESS timestamp without its zone abbreviation.
const deviceTimeLayout = "2006-01-02 15:04:05-0700"

// IntegrationLeadTolerance widens the start of an integration window so the
// first reading of a window, which usually lands a few minutes after the
// boundary, still opens an interval.
const IntegrationLeadTolerance = 270 * time.Second

// PowerSample is one instantaneous power reading in kW.
type PowerSample struct {
	Time  time.Time
	Value float64
}

// PowerSeries is the history of one inverter variable.
type PowerSeries struct {
	// Variable is the API variable identifier (e.g. "pvPower").
	Variable string

	// Name is the display name reported by the API (e.g. "PVPower").
	Name string

	// Unit is the reported unit, normally "kW".
	Unit string

	// Samples are the readings in the order the API returned them.
	Samples []PowerSample
}

// ParseDeviceTime parses a FoxESS timestamp such as
// "2024-05-01 12:04:40 CEST+0200". Only the trailing numeric offset of the
// zone token is used; the abbreviation is ignored.
func ParseDeviceTime(s string) (time.Time, error) {
	idx := strings.LastIndex(s, " ")
	if idx <= 0 {
		return time.Time{}, fmt.Errorf("%w: device time %q has no zone", ErrInvalidInput, s)
	}

	clock, zone := s[:idx], s[idx+1:]
	if len(zone) < 5 {
		return time.Time{}, fmt.Errorf("%w: device time %q has no offset", ErrInvalidInput, s)
	}

	t, err := time.Parse(deviceTimeLayout, clock+zone[len(zone)-5:])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: device time %q: %v", ErrInvalidInput, s, err)
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DayBounds returns 00:00:00 and 23:59:59 of day in its location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d, 23, 59, 59, 0, loc)
}

// HourBounds returns HH:00:00 and HH:59:59 of the given hour of day.
func HourBounds(day time.Time, hour int) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, hour, 0, 0, 0, loc), time.Date(y, m, d, hour, 59, 59, 0, loc)
}

// SortSamples returns a copy of samples ordered by time.
func SortSamples(samples []PowerSample) []PowerSample {
	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b PowerSample) int {
		return a.Time.Compare(b.Time)
	})
	return sorted
}

// WithHourStart returns samples preceded by a zero reading at the top of
// the hour of the earliest sample. Without it the interval between the hour
// boundary and the first reading of the day is never counted.
func WithHourStart(samples []PowerSample) []PowerSample {
	if len(samples) == 0 {
		return samples
	}

	first := samples[0].Time
	for _, s := range samples[1:] {
		if s.Time.Before(first) {
			first = s.Time
		}
	}

	y, m, d := first.Date()
	start := PowerSample{
		Time: time.Date(y, m, d, first.Hour(), 0, 0, 0, first.Location()),
	}

	out := make([]PowerSample, 0, len(samples)+1)
	out = append(out, start)
	return append(out, samples...)
}

// IntegrateKWh converts power readings into energy over a window.
//
// Each interval between consecutive readings (a, b) contributes
// b.Value * (b.Time - a.Time) when a is no earlier than
// start - IntegrationLeadTolerance and b is no later than end.
// start and end are wall-clock times, re-read in the zone of the earliest
// sample so a window built in the site timezone matches the device clock.
func IntegrateKWh(samples []PowerSample, start, end time.Time) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := SortSamples(samples)
	zone := sorted[0].Time.Location()
	start = inZone(start, zone)
	end = inZone(end, zone)
	lead := start.Add(-IntegrationLeadTolerance)

	total := 0.0
	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.Time.Before(lead) || next.Time.After(end) {
			continue
		}
		hours := next.Time.Sub(cur.Time).Hours()
		total += next.Value * hours
	}
	return total
}

// Round3 rounds to three decimal places (watt-hour resolution for kWh).
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func inZone(t time.Time, zone *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone)
}
