package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yuqie6/AccomTrack/internal/eventbus"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

// DefaultWeekDays Monday–Thursday
const DefaultWeekDays = 4

// AccommodationTracking an accommodation with its logged dates (YYYY-MM-DD → provided)
type AccommodationTracking struct {
	schema.Accommodation
	Logs map[string]bool `json:"logs"`
}

// StudentTracking a student's accommodations with their logs
type StudentTracking struct {
	schema.Student
	Accommodations []AccommodationTracking `json:"accommodations"`
}

// ClassTracking the tracking grid of one class over a date range
type ClassTracking struct {
	Class    schema.Class      `json:"class"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Dates    []string          `json:"dates"`
	Students []StudentTracking `json:"students"`
}

// Student returns the row for studentID, or nil.
func (c *ClassTracking) Student(studentID int64) *StudentTracking {
	for i := range c.Students {
		if c.Students[i].ID == studentID {
			return &c.Students[i]
		}
	}
	return nil
}

// TrackingServiceConfig tracking options
type TrackingServiceConfig struct {
	WeekDays int
}

// TrackingService records and reads per-accommodation service logs
type TrackingService struct {
	classes        ClassRepository
	enrollments    EnrollmentRepository
	accommodations AccommodationRepository
	logs           ServiceLogRepository
	periods        PeriodRepository
	publisher      Publisher
	cfg            TrackingServiceConfig
}

func NewTrackingService(
	classes ClassRepository,
	enrollments EnrollmentRepository,
	accommodations AccommodationRepository,
	logs ServiceLogRepository,
	periods PeriodRepository,
	publisher Publisher,
	cfg *TrackingServiceConfig,
) *TrackingService {
	c := TrackingServiceConfig{WeekDays: DefaultWeekDays}
	if cfg != nil && cfg.WeekDays > 0 {
		c.WeekDays = cfg.WeekDays
	}
	return &TrackingService{
		classes:        classes,
		enrollments:    enrollments,
		accommodations: accommodations,
		logs:           logs,
		periods:        periods,
		publisher:      publisher,
		cfg:            c,
	}
}

// Record sets whether an accommodation was provided; repeated calls for the same
// class, accommodation and date update one row.
func (s *TrackingService) Record(ctx context.Context, classID, accommodationID int64, date string, provided bool) (int64, error) {
	id, err := s.logs.Upsert(ctx, classID, accommodationID, date, provided)
	if err != nil {
		return 0, err
	}
	s.publish(classID, accommodationID, date, provided)
	return id, nil
}

// Toggle flips the provided flag, creating the log as provided when absent.
func (s *TrackingService) Toggle(ctx context.Context, classID, accommodationID int64, date string) (*schema.AccommodationServiceLog, error) {
	l, err := s.logs.Toggle(ctx, classID, accommodationID, date)
	if err != nil {
		return nil, err
	}
	s.publish(classID, accommodationID, date, l.Provided)
	return l, nil
}

func (s *TrackingService) publish(classID, accommodationID int64, date string, provided bool) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(eventbus.Event{
		Type: eventbus.TypeServiceLogUpdated,
		Data: map[string]any{
			"class_id":         classID,
			"accommodation_id": accommodationID,
			"service_date":     date,
			"provided":         provided,
		},
	})
}

// MaxTrackingDays caps the span of a ranged grid at one school year.
const MaxTrackingDays = 366

// ClassTracking builds the grid for classID over [from, to], both YYYY-MM-DD, every
// calendar day included.
func (s *TrackingService) ClassTracking(ctx context.Context, classID int64, from, to string) (*ClassTracking, error) {
	start, end, err := parseRange("class tracking", from, to)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, classID, DatesInRange(start, end))
}

// WeekdayTracking is ClassTracking limited to Monday through Friday.
func (s *TrackingService) WeekdayTracking(ctx context.Context, classID int64, from, to string) (*ClassTracking, error) {
	start, end, err := parseRange("weekday tracking", from, to)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, classID, WeekdaysInRange(start, end))
}

func parseRange(op, from, to string) (time.Time, time.Time, error) {
	start, err := ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w: %v", op, repository.ErrConstraintViolation, err)
	}
	end, err := ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w: %v", op, repository.ErrConstraintViolation, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w: %s is after %s", op, repository.ErrConstraintViolation, from, to)
	}
	if end.Sub(start) >= MaxTrackingDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w: range %s..%s exceeds %d days", op, repository.ErrConstraintViolation, from, to, MaxTrackingDays)
	}
	return start, end, nil
}

// WeekTracking builds the grid for the week containing date, limited to the configured
// number of weekdays starting Monday.
func (s *TrackingService) WeekTracking(ctx context.Context, classID int64, date string) (*ClassTracking, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("week tracking: %w: %v", repository.ErrConstraintViolation, err)
	}
	return s.build(ctx, classID, WeekDates(MondayOf(d), s.cfg.WeekDays))
}

// PeriodTracking builds the grid for every weekday of a six-week period.
func (s *TrackingService) PeriodTracking(ctx context.Context, classID, periodID int64) (*ClassTracking, *schema.SixWeekPeriod, error) {
	p, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, nil, err
	}
	grid, err := s.WeekdayTracking(ctx, classID, p.StartDate, p.EndDate)
	if err != nil {
		return nil, nil, err
	}
	return grid, p, nil
}

func (s *TrackingService) build(ctx context.Context, classID int64, dates []time.Time) (*ClassTracking, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	out := &ClassTracking{Class: *class, Dates: formatDates(dates)}
	if len(out.Dates) > 0 {
		out.From = out.Dates[0]
		out.To = out.Dates[len(out.Dates)-1]
	}

	students, err := s.enrollments.ListStudentsInClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	byStudent, err := s.accommodations.ListByStudents(ctx, studentIDs(students))
	if err != nil {
		return nil, err
	}

	byAccommodation := map[int64]map[string]bool{}
	if len(out.Dates) > 0 {
		logs, err := s.logs.List(ctx, repository.ServiceLogFilter{ClassID: classID, From: out.From, To: out.To})
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			m := byAccommodation[l.AccommodationID]
			if m == nil {
				m = map[string]bool{}
				byAccommodation[l.AccommodationID] = m
			}
			m[l.ServiceDate] = l.Provided
		}
	}

	out.Students = make([]StudentTracking, 0, len(students))
	for _, st := range students {
		row := StudentTracking{Student: st}
		for _, acc := range byStudent[st.ID] {
			logs := byAccommodation[acc.ID]
			if logs == nil {
				logs = map[string]bool{}
			}
			row.Accommodations = append(row.Accommodations, AccommodationTracking{Accommodation: acc, Logs: logs})
		}
		out.Students = append(out.Students, row)
	}
	return out, nil
}
