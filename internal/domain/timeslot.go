package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PeriodsPerDay is the number of teaching periods in a day; periods 1-4
// are morning, 5-8 afternoon.
const PeriodsPerDay = 8

// LunchBoundaryPeriod is the last morning period. No single session may
// span the boundary between LunchBoundaryPeriod and the next period.
const LunchBoundaryPeriod = 4

var dayCodes = [5]string{"MON", "TUE", "WED", "THU", "FRI"}

// TimeSlot identifies a (day, period) teaching unit and doubles as the
// unit of resource occupancy for faculty, rooms and sections.
type TimeSlot struct {
	ID       TimeSlotID
	DayIndex int // 0=Mon .. 4=Fri
	Period   int // 1..8
}

// String renders the slot in the persisted textual form, e.g. "MON-3".
func (t TimeSlot) String() string {
	return fmt.Sprintf("%s-%d", dayCodes[t.DayIndex], t.Period)
}

// IsMorning reports whether the slot falls before the lunch discontinuity.
func (t TimeSlot) IsMorning() bool {
	return t.Period <= LunchBoundaryPeriod
}

// IsValidLabStart reports whether a laboratory block may begin here: the
// period must be odd (1,3,5,7) so the implied second period never
// straddles the lunch boundary and stays within one half of the day.
func (t TimeSlot) IsValidLabStart() bool {
	return t.Period%2 == 1
}

// ParseTimeSlotCode parses the "DDD-P" textual form used at the
// persistence boundary, e.g. "MON-3" -> (0, 3).
func ParseTimeSlotCode(code string) (dayIndex, period int, err error) {
	parts := strings.SplitN(code, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed timeslot code %q", code)
	}
	day := strings.ToUpper(strings.TrimSpace(parts[0]))
	dayIndex = -1
	for i, candidate := range dayCodes {
		if candidate == day {
			dayIndex = i
			break
		}
	}
	if dayIndex < 0 {
		return 0, 0, fmt.Errorf("unknown day code %q in timeslot %q", day, code)
	}
	period, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed period in timeslot %q: %w", code, err)
	}
	return dayIndex, period, nil
}
