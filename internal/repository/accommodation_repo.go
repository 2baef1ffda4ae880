package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
)

// AccommodationRepository accommodations
type AccommodationRepository struct {
	db *gorm.DB
}

func NewAccommodationRepository(db *gorm.DB) *AccommodationRepository {
	return &AccommodationRepository{db: db}
}

// Create inserts a and sets a.ID. The owning student must exist.
func (r *AccommodationRepository) Create(ctx context.Context, a *schema.Accommodation) (int64, error) {
	const op = "create accommodation"
	if a == nil {
		return 0, validateStruct(op, schema.Accommodation{})
	}
	if err := validateStruct(op, a); err != nil {
		return 0, err
	}
	a.ID = 0
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, classifyError(op, err)
	}
	return a.ID, nil
}

func (r *AccommodationRepository) GetByID(ctx context.Context, id int64) (*schema.Accommodation, error) {
	var a schema.Accommodation
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, classifyError("get accommodation", err)
	}
	return &a, nil
}

// ListByStudent returns a student's accommodations ordered by category, description.
func (r *AccommodationRepository) ListByStudent(ctx context.Context, studentID int64) ([]schema.Accommodation, error) {
	var out []schema.Accommodation
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("category ASC, description ASC").
		Find(&out).Error
	if err != nil {
		return nil, classifyError("list accommodations", err)
	}
	return out, nil
}

// ListByStudents groups accommodations of several students in one query.
func (r *AccommodationRepository) ListByStudents(ctx context.Context, studentIDs []int64) (map[int64][]schema.Accommodation, error) {
	out := make(map[int64][]schema.Accommodation, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []schema.Accommodation
	err := r.db.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Order("category ASC, description ASC").
		Find(&rows).Error
	if err != nil {
		return nil, classifyError("list accommodations", err)
	}
	for _, a := range rows {
		out[a.StudentID] = append(out[a.StudentID], a)
	}
	return out, nil
}

// Update applies patch. Moving the accommodation to another student fails with
// ErrNotEnrolled while it has service logs in a class the new owner is not enrolled in.
func (r *AccommodationRepository) Update(ctx context.Context, id int64, patch schema.AccommodationPatch) error {
	const op = "update accommodation"
	if err := validateStruct(op, patch); err != nil {
		return err
	}
	if patch.StudentID == nil {
		return updateColumns(ctx, r.db, op, &schema.Accommodation{}, id, patch.Columns())
	}
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		var stranded int64
		err := tx.Model(&schema.AccommodationServiceLog{}).
			Where("accommodation_id = ?", id).
			Where("class_id NOT IN (?)", tx.Model(&schema.ClassStudent{}).Select("class_id").Where("student_id = ?", *patch.StudentID)).
			Count(&stranded).Error
		if err != nil {
			return classifyError(op, err)
		}
		if stranded > 0 {
			return fmt.Errorf("%s id=%d: %d service logs in classes student %d is not enrolled in: %w",
				op, id, stranded, *patch.StudentID, ErrNotEnrolled)
		}
		return updateColumns(ctx, tx, op, &schema.Accommodation{}, id, patch.Columns())
	})
}

// Delete removes the accommodation and every service log recorded against it.
func (r *AccommodationRepository) Delete(ctx context.Context, id int64) error {
	const op = "delete accommodation"
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		if err := tx.Where("accommodation_id = ?", id).Delete(&schema.AccommodationServiceLog{}).Error; err != nil {
			return classifyError(op, err)
		}
		return deleteByID(tx, op, &schema.Accommodation{}, id)
	})
}
