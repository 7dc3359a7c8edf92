package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday; fixtures below lean on that week.
func date(day int, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestParseDaySet(t *testing.T) {
	set, err := ParseDaySet([]string{"Monday", "thursday", "MONDAY"})
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains(time.Monday))
	assert.True(t, set.Contains(time.Thursday))
	assert.False(t, set.Contains(time.Friday))
}

func TestParseDaySetEmpty(t *testing.T) {
	_, err := ParseDaySet(nil)
	var dayErr *InvalidDeliveryDayError
	require.ErrorAs(t, err, &dayErr)
}

func TestParseDaySetUnknownToken(t *testing.T) {
	_, err := ParseDaySet([]string{"monday", "funday"})
	var dayErr *InvalidDeliveryDayError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, "funday", dayErr.Value)
}

func TestCutoffPolicyClock(t *testing.T) {
	cases := []struct {
		raw    string
		ok     bool
		hour   int
		minute int
	}{
		{raw: "14:00", ok: true, hour: 14},
		{raw: "00:00", ok: true},
		{raw: "23:59", ok: true, hour: 23, minute: 59},
		{raw: " 9:30 ", ok: true, hour: 9, minute: 30},
		{raw: "24:00"},
		{raw: "12:60"},
		{raw: "noon"},
		{raw: "12"},
		{raw: ""},
	}
	for _, tc := range cases {
		hour, minute, err := CutoffPolicy{CutoffTime: tc.raw}.Clock()
		if !tc.ok {
			var cutoffErr *InvalidCutoffFormatError
			require.ErrorAs(t, err, &cutoffErr, "raw=%q", tc.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tc.raw)
		assert.Equal(t, tc.hour, hour)
		assert.Equal(t, tc.minute, minute)
	}
}

func TestNextDeliveryDateBeforeCutoff(t *testing.T) {
	// Wednesday 10:00 is before the 14:00 cutoff for Thursday delivery.
	got, err := NextDeliveryDate(
		[]string{"monday", "thursday"},
		CutoffPolicy{CutoffTime: "14:00", DayOffset: 1},
		date(3, 10, 0),
	)
	require.NoError(t, err)
	assert.Equal(t, date(4, 0, 0), got)
}

func TestNextDeliveryDateAfterCutoff(t *testing.T) {
	// Wednesday 15:00 missed Thursday's cutoff; next Monday wins.
	got, err := NextDeliveryDate(
		[]string{"monday", "thursday"},
		CutoffPolicy{CutoffTime: "14:00", DayOffset: 1},
		date(3, 15, 0),
	)
	require.NoError(t, err)
	assert.Equal(t, date(8, 0, 0), got)
}

func TestNextDeliveryDateAtExactCutoffIsTooLate(t *testing.T) {
	// Equality at the cutoff instant counts as missed.
	got, err := NextDeliveryDate(
		[]string{"monday", "thursday"},
		CutoffPolicy{CutoffTime: "14:00", DayOffset: 1},
		date(3, 14, 0),
	)
	require.NoError(t, err)
	assert.Equal(t, date(8, 0, 0), got)
}

func TestNextDeliveryDateNeverSameDay(t *testing.T) {
	// Monday 08:00 with a zero-offset 09:00 cutoff: today's weekday always
	// rolls to the following week, so the result is next Monday.
	got, err := NextDeliveryDate(
		[]string{"monday"},
		CutoffPolicy{CutoffTime: "09:00", DayOffset: 0},
		date(1, 8, 0),
	)
	require.NoError(t, err)
	assert.Equal(t, date(8, 0, 0), got)
}

func TestNextDeliveryDateEmptyDays(t *testing.T) {
	_, err := NextDeliveryDate(nil, CutoffPolicy{CutoffTime: "12:00"}, date(1, 8, 0))
	var dayErr *InvalidDeliveryDayError
	require.ErrorAs(t, err, &dayErr)
}

func TestNextDeliveryDateInvalidCutoff(t *testing.T) {
	_, err := NextDeliveryDate([]string{"monday"}, CutoffPolicy{CutoffTime: "25:61"}, date(1, 8, 0))
	var cutoffErr *InvalidCutoffFormatError
	require.ErrorAs(t, err, &cutoffErr)
}

func TestNextDeliveryDateHorizonExhausted(t *testing.T) {
	// A 60-day offset puts every cutoff in the past for the whole horizon.
	_, err := NextDeliveryDate(
		[]string{"monday"},
		CutoffPolicy{CutoffTime: "12:00", DayOffset: 60},
		date(1, 8, 0),
	)
	require.True(t, errors.Is(err, ErrNoDeliveryDate))
}

func TestNextDeliveryDateReturnsConfiguredWeekday(t *testing.T) {
	days := []string{"tuesday", "friday"}
	set, err := ParseDaySet(days)
	require.NoError(t, err)
	policy := CutoffPolicy{CutoffTime: "10:00", DayOffset: 2}
	for hour := 0; hour < 24; hour++ {
		now := date(5, hour, 17)
		got, err := NextDeliveryDate(days, policy, now)
		require.NoError(t, err)
		assert.True(t, set.Contains(got.Weekday()), "now=%s got=%s", now, got)
		assert.True(t, got.After(now), "result must be strictly in the future")
	}
}

func TestNextDeliveryDateDeterministic(t *testing.T) {
	now := date(10, 11, 30)
	policy := CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	first, err := NextDeliveryDate([]string{"monday", "thursday"}, policy, now)
	require.NoError(t, err)
	second, err := NextDeliveryDate([]string{"monday", "thursday"}, policy, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNextDeliveryDateMonotonicInOffset(t *testing.T) {
	now := date(3, 9, 45)
	prev := time.Time{}
	for offset := 0; offset <= 10; offset++ {
		got, err := NextDeliveryDate(
			[]string{"monday", "wednesday", "saturday"},
			CutoffPolicy{CutoffTime: "08:00", DayOffset: offset},
			now,
		)
		require.NoError(t, err)
		if !prev.IsZero() {
			assert.False(t, got.Before(prev), "offset %d moved delivery date backwards", offset)
		}
		prev = got
	}
}

func TestDeadline(t *testing.T) {
	policy := CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	deadline, err := Deadline(date(4, 0, 0), policy)
	require.NoError(t, err)
	assert.Equal(t, date(3, 14, 0), deadline)

	// Zero offset puts the cutoff on the delivery date itself.
	deadline, err = Deadline(date(4, 0, 0), CutoffPolicy{CutoffTime: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, date(4, 9, 0), deadline)
}

func TestDeadlineInvalidPolicy(t *testing.T) {
	_, err := Deadline(date(4, 0, 0), CutoffPolicy{CutoffTime: "later"})
	var cutoffErr *InvalidCutoffFormatError
	require.ErrorAs(t, err, &cutoffErr)
}
