package schedule

import (
	"sort"
	"time"
)

// Shift is one entry of the static shift catalog.
type Shift struct {
	Code            string
	Group           string
	Start           string // "HH:MM", empty for OFF
	End             string
	CrossesMidnight bool
}

// IsOff reports a day-off code without a working window.
func (s Shift) IsOff() bool {
	return s.Start == "" && s.End == ""
}

// Window returns the shift's start and end on the given calendar date.
// The end is moved to the next day for shifts that cross midnight.
func (s Shift) Window(date time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	if s.IsOff() {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date.Format("2006-01-02")+" "+s.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", date.Format("2006-01-02")+" "+s.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if s.CrossesMidnight {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

const ShiftCodeOff = "OFF"

var catalog = map[string]Shift{
	"1T13":       {Code: "1T13", Group: "Shift 1", Start: "07:00", End: "15:00"},
	"1T14":       {Code: "1T14", Group: "Shift 1", Start: "06:00", End: "14:00"},
	"2T13":       {Code: "2T13", Group: "Shift 2", Start: "15:00", End: "23:00"},
	"2T14":       {Code: "2T14", Group: "Shift 2", Start: "14:00", End: "22:00"},
	"3T13":       {Code: "3T13", Group: "Shift 3", Start: "23:00", End: "07:00", CrossesMidnight: true},
	"3T14":       {Code: "3T14", Group: "Shift 3", Start: "22:00", End: "06:00", CrossesMidnight: true},
	"NS08":       {Code: "NS08", Group: "Non Shift", Start: "08:00", End: "17:00"},
	"NS07":       {Code: "NS07", Group: "Non Shift", Start: "07:30", End: "16:30"},
	ShiftCodeOff: {Code: ShiftCodeOff, Group: "Libur"},
}

// LookupShift resolves a shift code against the catalog.
func LookupShift(code string) (Shift, bool) {
	s, ok := catalog[code]
	return s, ok
}

// Shifts returns the whole catalog ordered by code.
func Shifts() []Shift {
	shifts := make([]Shift, 0, len(catalog))
	for _, s := range catalog {
		shifts = append(shifts, s)
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Code < shifts[j].Code })
	return shifts
}
