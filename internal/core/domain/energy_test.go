package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cest = time.FixedZone("", 2*60*60)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, cest)
}

func sampleDay() []PowerSample {
	return []PowerSample{
		{Time: at(0, 15), Value: 3},
		{Time: at(0, 5), Value: 1},
		{Time: at(0, 10), Value: 2},
	}
}

func TestParseDeviceTime(t *testing.T) {
	got, err := ParseDeviceTime("2024-05-01 12:04:40 CEST+0200")
	require.NoError(t, err)

	assert.True(t, got.Equal(time.Date(2024, 5, 1, 10, 4, 40, 0, time.UTC)))
	_, offset := got.Zone()
	assert.Equal(t, 7200, offset)
}

func TestParseDeviceTime_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no zone", input: "2024-05-01"},
		{name: "short zone", input: "2024-05-01 12:04:40 Z"},
		{name: "bad clock", input: "2024-05-01 xx:04:40 CEST+0200"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeviceTime(tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-05-01", cest)
	require.NoError(t, err)
	assert.Equal(t, at(0, 0), got)

	_, err = ParseDate("01/05/2024", cest)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(at(13, 37))

	assert.Equal(t, at(0, 0), start)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, 0, cest), end)
}

func TestHourBounds(t *testing.T) {
	start, end := HourBounds(at(0, 0), 14)

	assert.Equal(t, at(14, 0), start)
	assert.Equal(t, time.Date(2024, 5, 1, 14, 59, 59, 0, cest), end)
}

func TestIntegrateKWh_FullDay(t *testing.T) {
	start, end := DayBounds(at(0, 0))

	got := IntegrateKWh(sampleDay(), start, end)

	// 2 kW for 5 min + 3 kW for 5 min
	assert.InDelta(t, 2.0/12+3.0/12, got, 1e-9)
}

func TestIntegrateKWh_WithHourStart(t *testing.T) {
	start, end := DayBounds(at(0, 0))

	got := IntegrateKWh(WithHourStart(sampleDay()), start, end)

	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestIntegrateKWh_Window(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{name: "start excludes earlier interval", start: at(0, 10), end: at(0, 15), want: 0.25},
		{name: "lead tolerance keeps interval", start: at(0, 9), end: at(0, 15), want: 2.0/12 + 0.25},
		{name: "end cuts trailing interval", start: at(0, 0), end: at(0, 12), want: 2.0 / 12},
		{name: "window before data", start: at(22, 0), end: at(23, 0), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IntegrateKWh(sampleDay(), tt.start, tt.end), 1e-9)
		})
	}
}

func TestIntegrateKWh_WindowReadInSampleZone(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)

	got := IntegrateKWh(sampleDay(), start, end)

	assert.InDelta(t, 2.0/12+3.0/12, got, 1e-9)
}

func TestIntegrateKWh_Degenerate(t *testing.T) {
	start, end := DayBounds(at(0, 0))

	assert.Zero(t, IntegrateKWh(nil, start, end))
	assert.Zero(t, IntegrateKWh([]PowerSample{{Time: at(1, 0), Value: 5}}, start, end))
}

func TestWithHourStart(t *testing.T) {
	got := WithHourStart(sampleDay())

	require.Len(t, got, 4)
	assert.Equal(t, at(0, 0), got[0].Time)
	assert.Zero(t, got[0].Value)
	assert.Empty(t, WithHourStart(nil))
}

func TestSortSamples_DoesNotMutate(t *testing.T) {
	in := sampleDay()
	sorted := SortSamples(in)

	assert.Equal(t, at(0, 5), sorted[0].Time)
	assert.Equal(t, at(0, 15), in[0].Time)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 1.235, Round3(1.23456))
	assert.Equal(t, -0.5, Round3(-0.5))
	assert.Equal(t, 0.0, Round3(0.0001))
}
