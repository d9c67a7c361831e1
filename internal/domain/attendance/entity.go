package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type LocationType string

const (
	LocationOnSite   LocationType = "Bekerja di Pabrik" // factory floor, device-bound
	LocationHome     LocationType = "Bekerja di Rumah"
	LocationOffField LocationType = "Dinas Luar"
)

var LocationTypeValues = []string{
	string(LocationOnSite),
	string(LocationHome),
	string(LocationOffField),
}

// IsOnSite reports whether the location requires device binding.
func (l LocationType) IsOnSite() bool {
	return l == LocationOnSite
}

// ClockEvent is the clock-in or clock-out half of a daily record.
type ClockEvent struct {
	At           time.Time
	HealthStatus string
	LocationType LocationType
	Workplace    string
	Notes        *string
	Latitude     *float64
	Longitude    *float64
}

// Attendance is the single daily record per (employee NIK, date).
type Attendance struct {
	ID          string
	EmployeeNIK string
	UserID      string
	Date        time.Time
	ShiftCode   *string
	ClockIn     *ClockEvent
	ClockOut    *ClockEvent
	TotalHours  *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type State string

const (
	StateNoRecord   State = "no_record"
	StateClockedIn  State = "clocked_in"
	StateClockedOut State = "clocked_out"
)

// StateOf derives the day state; a nil record is NoRecord.
func StateOf(a *Attendance) State {
	switch {
	case a == nil || a.ClockIn == nil:
		return StateNoRecord
	case a.ClockOut == nil:
		return StateClockedIn
	default:
		return StateClockedOut
	}
}

var hour = decimal.NewFromInt(int64(time.Hour))

// TotalHours is the worked duration in hours rounded to two decimals.
// Negative durations (clock skew) are floored at zero.
func TotalHours(clockIn, clockOut time.Time) decimal.Decimal {
	d := clockOut.Sub(clockIn)
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d)).Div(hour).Round(2)
}

// LocalDate truncates t to its calendar date in loc.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
