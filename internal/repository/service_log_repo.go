package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceLogFilter narrows List; zero fields are ignored. From/To are inclusive YYYY-MM-DD bounds.
type ServiceLogFilter struct {
	ClassID         int64
	AccommodationID int64
	From            string
	To              string
	Provided        *bool
}

// ServiceLogRepository per-accommodation service logs
type ServiceLogRepository struct {
	db *gorm.DB
}

func NewServiceLogRepository(db *gorm.DB) *ServiceLogRepository {
	return &ServiceLogRepository{db: db}
}

var serviceLogKey = []clause.Column{{Name: "class_id"}, {Name: "accommodation_id"}, {Name: "service_date"}}

// Create inserts a new log row. A second row for the same class, accommodation and date
// fails with ErrConstraintViolation; use Upsert to record idempotently.
func (r *ServiceLogRepository) Create(ctx context.Context, l *schema.AccommodationServiceLog) (int64, error) {
	const op = "create service log"
	if l == nil {
		return 0, validateStruct(op, schema.AccommodationServiceLog{})
	}
	if err := validateStruct(op, l); err != nil {
		return 0, err
	}
	err := inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		if err := requireEnrollment(tx, op, l.ClassID, l.AccommodationID); err != nil {
			return err
		}
		l.ID = 0
		if err := tx.Create(l).Error; err != nil {
			return classifyError(op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return l.ID, nil
}

func (r *ServiceLogRepository) GetByID(ctx context.Context, id int64) (*schema.AccommodationServiceLog, error) {
	var l schema.AccommodationServiceLog
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, classifyError("get service log", err)
	}
	return &l, nil
}

// Get returns the log for one (class, accommodation, date) triple.
func (r *ServiceLogRepository) Get(ctx context.Context, classID, accommodationID int64, date string) (*schema.AccommodationServiceLog, error) {
	var l schema.AccommodationServiceLog
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND accommodation_id = ? AND service_date = ?", classID, accommodationID, date).
		First(&l).Error
	if err != nil {
		return nil, classifyError("get service log", err)
	}
	return &l, nil
}

// List returns matching logs ordered by date then accommodation.
func (r *ServiceLogRepository) List(ctx context.Context, filter ServiceLogFilter) ([]schema.AccommodationServiceLog, error) {
	const op = "list service logs"
	q := r.db.WithContext(ctx).Model(&schema.AccommodationServiceLog{})
	if filter.ClassID > 0 {
		q = q.Where("class_id = ?", filter.ClassID)
	}
	if filter.AccommodationID > 0 {
		q = q.Where("accommodation_id = ?", filter.AccommodationID)
	}
	if filter.From != "" {
		if err := validateDate(op, filter.From); err != nil {
			return nil, err
		}
		q = q.Where("service_date >= ?", filter.From)
	}
	if filter.To != "" {
		if err := validateDate(op, filter.To); err != nil {
			return nil, err
		}
		q = q.Where("service_date <= ?", filter.To)
	}
	if filter.Provided != nil {
		q = q.Where("provided = ?", *filter.Provided)
	}
	var out []schema.AccommodationServiceLog
	if err := q.Order("service_date ASC, accommodation_id ASC").Find(&out).Error; err != nil {
		return nil, classifyError(op, err)
	}
	return out, nil
}

func (r *ServiceLogRepository) Update(ctx context.Context, id int64, patch schema.ServiceLogPatch) error {
	if err := validateStruct("update service log", patch); err != nil {
		return err
	}
	return updateColumns(ctx, r.db, "update service log", &schema.AccommodationServiceLog{}, id, patch.Columns())
}

func (r *ServiceLogRepository) Delete(ctx context.Context, id int64) error {
	const op = "delete service log"
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		return deleteByID(tx, op, &schema.AccommodationServiceLog{}, id)
	})
}

// Upsert records whether an accommodation was provided in a class on a date. Repeated
// calls for the same triple update the one row; the row's id is returned.
func (r *ServiceLogRepository) Upsert(ctx context.Context, classID, accommodationID int64, date string, provided bool) (int64, error) {
	const op = "upsert service log"
	row := schema.AccommodationServiceLog{
		ClassID:         classID,
		AccommodationID: accommodationID,
		ServiceDate:     date,
		Provided:        provided,
	}
	if err := validateStruct(op, row); err != nil {
		return 0, err
	}

	var id int64
	err := inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		if err := requireEnrollment(tx, op, classID, accommodationID); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   serviceLogKey,
			DoUpdates: clause.AssignmentColumns([]string{"provided"}),
		}).Create(&row).Error
		if err != nil {
			return classifyError(op, err)
		}
		// last_insert_rowid is stale when the conflict branch ran; read the key back.
		var stored schema.AccommodationServiceLog
		err = tx.Where("class_id = ? AND accommodation_id = ? AND service_date = ?", classID, accommodationID, date).
			First(&stored).Error
		if err != nil {
			return classifyError(op, err)
		}
		id = stored.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Toggle flips the provided flag for the triple, creating the row as provided when absent.
func (r *ServiceLogRepository) Toggle(ctx context.Context, classID, accommodationID int64, date string) (*schema.AccommodationServiceLog, error) {
	const op = "toggle service log"
	if err := validateDate(op, date); err != nil {
		return nil, err
	}

	var out schema.AccommodationServiceLog
	err := inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		if err := requireEnrollment(tx, op, classID, accommodationID); err != nil {
			return err
		}
		err := tx.Where("class_id = ? AND accommodation_id = ? AND service_date = ?", classID, accommodationID, date).
			First(&out).Error
		switch {
		case err == nil:
			out.Provided = !out.Provided
			if err := tx.Model(&schema.AccommodationServiceLog{}).Where("id = ?", out.ID).
				Update("provided", out.Provided).Error; err != nil {
				return classifyError(op, err)
			}
			return nil
		case classifyErrorIs(err, ErrNotFound):
			out = schema.AccommodationServiceLog{
				ClassID:         classID,
				AccommodationID: accommodationID,
				ServiceDate:     date,
				Provided:        true,
			}
			if err := tx.Create(&out).Error; err != nil {
				return classifyError(op, err)
			}
			return nil
		default:
			return classifyError(op, err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// requireEnrollment rejects logs whose accommodation belongs to a student who is not
// enrolled in the class.
func requireEnrollment(tx *gorm.DB, op string, classID, accommodationID int64) error {
	var acc schema.Accommodation
	if err := tx.Select("id", "student_id").First(&acc, accommodationID).Error; err != nil {
		if classifyErrorIs(err, ErrNotFound) {
			return fmt.Errorf("%s: %w: accommodation %d does not exist", op, ErrConstraintViolation, accommodationID)
		}
		return classifyError(op, err)
	}
	var count int64
	err := tx.Model(&schema.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", classID, acc.StudentID).
		Count(&count).Error
	if err != nil {
		return classifyError(op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: class=%d student=%d: %w", op, classID, acc.StudentID, ErrNotEnrolled)
	}
	return nil
}
