package service

import (
	"context"
	"fmt"

	"github.com/yuqie6/AccomTrack/internal/schema"
)

// StudentWithAccommodations a student and their accommodations
type StudentWithAccommodations struct {
	schema.Student
	Accommodations []schema.Accommodation `json:"accommodations"`
}

// ClassSummary a class with every enrolled student and their accommodations
type ClassSummary struct {
	schema.Class
	Students []StudentWithAccommodations `json:"students"`
}

// RosterService read models over classes, enrollments and accommodations
type RosterService struct {
	classes        ClassRepository
	students       StudentRepository
	enrollments    EnrollmentRepository
	accommodations AccommodationRepository
}

func NewRosterService(classes ClassRepository, students StudentRepository, enrollments EnrollmentRepository, accommodations AccommodationRepository) *RosterService {
	return &RosterService{
		classes:        classes,
		students:       students,
		enrollments:    enrollments,
		accommodations: accommodations,
	}
}

// StudentWithAccommodations loads one student with their accommodations.
func (s *RosterService) StudentWithAccommodations(ctx context.Context, studentID int64) (*StudentWithAccommodations, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	accs, err := s.accommodations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &StudentWithAccommodations{Student: *st, Accommodations: accs}, nil
}

// ClassSummary loads a class, its students (last, first) and each student's accommodations.
func (s *RosterService) ClassSummary(ctx context.Context, classID int64) (*ClassSummary, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.enrollments.ListStudentsInClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	byStudent, err := s.accommodations.ListByStudents(ctx, studentIDs(students))
	if err != nil {
		return nil, fmt.Errorf("load accommodations for class %d: %w", classID, err)
	}

	out := &ClassSummary{Class: *class, Students: make([]StudentWithAccommodations, 0, len(students))}
	for _, st := range students {
		out.Students = append(out.Students, StudentWithAccommodations{
			Student:        st,
			Accommodations: byStudent[st.ID],
		})
	}
	return out, nil
}

func studentIDs(students []schema.Student) []int64 {
	ids := make([]int64, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	return ids
}
