package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/schedule"
)

type scheduleServiceImpl struct {
	assignmentRepo schedule.ShiftAssignmentRepository
	directory      employee.Directory
	loc            *time.Location
}

func NewScheduleService(assignmentRepo schedule.ShiftAssignmentRepository, directory employee.Directory, loc *time.Location) schedule.ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &scheduleServiceImpl{
		assignmentRepo: assignmentRepo,
		directory:      directory,
		loc:            loc,
	}
}

// Shifts implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Shifts(ctx context.Context) []schedule.ShiftResponse {
	shifts := schedule.Shifts()
	out := make([]schedule.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		out[i] = schedule.NewShiftResponse(shift)
	}
	return out
}

// Assign implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Assign(ctx context.Context, req schedule.AssignShiftRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}
	if _, ok := schedule.LookupShift(req.ShiftCode); !ok {
		return schedule.AssignmentResponse{}, schedule.ErrInvalidShift
	}

	emp, err := s.directory.GetByNIK(ctx, req.EmployeeNIK)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.loc)

	saved, err := s.assignmentRepo.Upsert(ctx, schedule.ShiftAssignment{
		EmployeeNIK:  emp.NIK,
		Date:         date,
		ShiftCode:    req.ShiftCode,
		EmployeeName: emp.FullName,
		Section:      emp.Section,
	})
	if err != nil {
		return schedule.AssignmentResponse{}, fmt.Errorf("failed to save shift assignment: %w", err)
	}
	return schedule.NewAssignmentResponse(saved), nil
}

// GetForEmployee implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetForEmployee(ctx context.Context, employeeNIK string) ([]schedule.AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.GetByEmployeeNIK(ctx, employeeNIK)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift assignments: %w", err)
	}
	return toAssignmentResponses(assignments), nil
}

// GetAll implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetAll(ctx context.Context) ([]schedule.AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift assignments: %w", err)
	}
	return toAssignmentResponses(assignments), nil
}

// GetForDate implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetForDate(ctx context.Context, employeeNIK string, date time.Time) (schedule.ShiftAssignment, error) {
	return s.assignmentRepo.GetByEmployeeAndDate(ctx, employeeNIK, date)
}

func toAssignmentResponses(assignments []schedule.ShiftAssignment) []schedule.AssignmentResponse {
	out := make([]schedule.AssignmentResponse, len(assignments))
	for i, a := range assignments {
		out[i] = schedule.NewAssignmentResponse(a)
	}
	return out
}
