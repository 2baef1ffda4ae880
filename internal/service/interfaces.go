package service

import (
	"context"

	"github.com/yuqie6/AccomTrack/internal/eventbus"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

// Minimal repository surfaces the services depend on.

type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*schema.Class, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*schema.Student, error)
}

type AccommodationRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]schema.Accommodation, error)
	ListByStudents(ctx context.Context, studentIDs []int64) (map[int64][]schema.Accommodation, error)
}

type EnrollmentRepository interface {
	ListStudentsInClass(ctx context.Context, classID int64) ([]schema.Student, error)
}

type PeriodRepository interface {
	GetByID(ctx context.Context, id int64) (*schema.SixWeekPeriod, error)
}

type ServiceLogRepository interface {
	List(ctx context.Context, filter repository.ServiceLogFilter) ([]schema.AccommodationServiceLog, error)
	Upsert(ctx context.Context, classID, accommodationID int64, date string, provided bool) (int64, error)
	Toggle(ctx context.Context, classID, accommodationID int64, date string) (*schema.AccommodationServiceLog, error)
}

// Publisher receives change notifications; *eventbus.Hub satisfies it.
type Publisher interface {
	Publish(evt eventbus.Event)
}
