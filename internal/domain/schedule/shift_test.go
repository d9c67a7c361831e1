package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupShift(t *testing.T) {
	s, ok := LookupShift("1T13")
	require.True(t, ok)
	assert.Equal(t, "Shift 1", s.Group)

	off, ok := LookupShift("OFF")
	require.True(t, ok)
	assert.True(t, off.IsOff())

	_, ok = LookupShift("9X99")
	assert.False(t, ok)
}

func TestShifts_SortedByCode(t *testing.T) {
	shifts := Shifts()
	require.NotEmpty(t, shifts)
	for i := 1; i < len(shifts); i++ {
		assert.Less(t, shifts[i-1].Code, shifts[i].Code)
	}
}

func TestShift_WindowCrossesMidnight(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	date := time.Date(2025, 11, 6, 0, 0, 0, 0, loc)

	s, _ := LookupShift("3T13")
	start, end, ok := s.Window(date, loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 11, 6, 23, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 11, 7, 7, 0, 0, 0, loc), end)

	off, _ := LookupShift(ShiftCodeOff)
	_, _, ok = off.Window(date, loc)
	assert.False(t, ok)
}

func TestNewAssignmentResponse_DisplayDate(t *testing.T) {
	resp := NewAssignmentResponse(ShiftAssignment{
		EmployeeNIK: "00005950",
		Date:        time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC),
		ShiftCode:   "NS08",
	})
	assert.Equal(t, "06 Nov 2025", resp.Date)
	assert.Equal(t, "Non Shift", resp.ShiftGroup)
	require.NotNil(t, resp.ShiftStart)
	assert.Equal(t, "08:00", *resp.ShiftStart)
}
