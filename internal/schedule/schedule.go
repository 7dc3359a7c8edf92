package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// searchWeeks bounds the candidate search to six calendar weeks. A cutoff
// offset that reaches past this horizon makes every candidate stale and
// surfaces ErrNoDeliveryDate, which signals a configuration problem rather
// than a transient condition.
const searchWeeks = 6

var (
	// ErrNoDeliveryDate indicates the search horizon was exhausted without a
	// candidate whose cutoff is still open.
	ErrNoDeliveryDate = errors.New("schedule: no valid delivery date within search horizon")
)

// InvalidCutoffFormatError reports a cutoff time that does not parse as HH:mm.
type InvalidCutoffFormatError struct {
	Value string
}

func (e *InvalidCutoffFormatError) Error() string {
	return fmt.Sprintf("schedule: invalid cutoff time %q, expected HH:mm", e.Value)
}

// InvalidDeliveryDayError reports an unknown or missing weekday token.
type InvalidDeliveryDayError struct {
	Value string
}

func (e *InvalidDeliveryDayError) Error() string {
	if e.Value == "" {
		return "schedule: delivery day set is empty"
	}
	return fmt.Sprintf("schedule: unknown delivery day %q", e.Value)
}

// weekdayNames is the canonical name-to-index table (Sunday=0 .. Saturday=6).
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DaySet is a deduplicated, non-empty set of delivery weekdays.
type DaySet []time.Weekday

// ParseDaySet resolves weekday names into a DaySet. Matching is
// case-insensitive; duplicates collapse. An empty input or an unknown token
// yields an InvalidDeliveryDayError carrying the offending value.
func ParseDaySet(names []string) (DaySet, error) {
	if len(names) == 0 {
		return nil, &InvalidDeliveryDayError{}
	}
	seen := make(map[time.Weekday]struct{}, len(names))
	set := make(DaySet, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, &InvalidDeliveryDayError{Value: name}
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		set = append(set, day)
	}
	return set, nil
}

// Contains reports whether the set includes the given weekday.
func (s DaySet) Contains(day time.Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// CutoffPolicy describes the organization-wide order cutoff: orders for a
// delivery date must be placed before CutoffTime on (date - DayOffset days).
type CutoffPolicy struct {
	CutoffTime string
	DayOffset  int
}

// Clock parses CutoffTime into 24h hour/minute components.
func (p CutoffPolicy) Clock() (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(p.CutoffTime), ":", 2)
	if len(parts) != 2 {
		return 0, 0, &InvalidCutoffFormatError{Value: p.CutoffTime}
	}
	hour, errH := strconv.Atoi(parts[0])
	minute, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, &InvalidCutoffFormatError{Value: p.CutoffTime}
	}
	return hour, minute, nil
}

// Validate checks the policy shape without evaluating it against a date.
func (p CutoffPolicy) Validate() error {
	if _, _, err := p.Clock(); err != nil {
		return err
	}
	if p.DayOffset < 0 {
		return &InvalidCutoffFormatError{Value: fmt.Sprintf("day offset %d", p.DayOffset)}
	}
	return nil
}

type candidate struct {
	delivery time.Time
	cutoff   time.Time
}

// NextDeliveryDate computes the earliest delivery date whose cutoff is still
// open at now. Candidates are the next occurrences of each configured weekday
// across the six-week horizon; a weekday matching today always rolls to the
// following week, so the result is strictly after now's calendar day. The
// returned time is truncated to start of day in now's location.
func NextDeliveryDate(dayNames []string, policy CutoffPolicy, now time.Time) (time.Time, error) {
	hour, minute, err := policy.Clock()
	if err != nil {
		return time.Time{}, err
	}
	if policy.DayOffset < 0 {
		return time.Time{}, &InvalidCutoffFormatError{Value: fmt.Sprintf("day offset %d", policy.DayOffset)}
	}
	days, err := ParseDaySet(dayNames)
	if err != nil {
		return time.Time{}, err
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	candidates := make([]candidate, 0, len(days)*searchWeeks)
	for week := 0; week < searchWeeks; week++ {
		for _, day := range days {
			ahead := int(day-today.Weekday()+7) % 7
			if ahead == 0 {
				ahead = 7
			}
			delivery := today.AddDate(0, 0, ahead+week*7)
			cutoffDay := delivery.AddDate(0, 0, -policy.DayOffset)
			cutoff := time.Date(cutoffDay.Year(), cutoffDay.Month(), cutoffDay.Day(), hour, minute, 0, 0, loc)
			candidates = append(candidates, candidate{delivery: delivery, cutoff: cutoff})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].delivery.Equal(candidates[j].delivery) {
			return candidates[i].cutoff.Before(candidates[j].cutoff)
		}
		return candidates[i].delivery.Before(candidates[j].delivery)
	})

	for _, c := range candidates {
		if now.Before(c.cutoff) {
			return c.delivery, nil
		}
	}
	return time.Time{}, ErrNoDeliveryDate
}

// Deadline returns the cutoff instant for an order already assigned a
// delivery date: CutoffTime on (deliveryDate - DayOffset days), evaluated in
// the delivery date's location.
func Deadline(deliveryDate time.Time, policy CutoffPolicy) (time.Time, error) {
	hour, minute, err := policy.Clock()
	if err != nil {
		return time.Time{}, err
	}
	day := deliveryDate.AddDate(0, 0, -policy.DayOffset)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, deliveryDate.Location()), nil
}
