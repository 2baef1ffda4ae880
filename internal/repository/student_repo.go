package repository

import (
	"context"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
)

// StudentRepository students
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts s and sets s.ID. A duplicate external student_id or an unknown
// plan type fails with ErrConstraintViolation and writes nothing.
func (r *StudentRepository) Create(ctx context.Context, s *schema.Student) (int64, error) {
	if s == nil {
		return 0, validateStruct("create student", schema.Student{})
	}
	if err := validateStruct("create student", s); err != nil {
		return 0, err
	}
	s.ID = 0
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return 0, classifyError("create student", err)
	}
	return s.ID, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*schema.Student, error) {
	var s schema.Student
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, classifyError("get student", err)
	}
	return &s, nil
}

// GetByStudentID looks a student up by external (district) id.
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*schema.Student, error) {
	var s schema.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&s).Error; err != nil {
		return nil, classifyError("get student by student_id", err)
	}
	return &s, nil
}

// List returns students ordered by last name, first name.
func (r *StudentRepository) List(ctx context.Context) ([]schema.Student, error) {
	var students []schema.Student
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&students).Error; err != nil {
		return nil, classifyError("list students", err)
	}
	return students, nil
}

func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&schema.Student{}).Count(&count).Error; err != nil {
		return 0, classifyError("count students", err)
	}
	return count, nil
}

func (r *StudentRepository) Update(ctx context.Context, id int64, patch schema.StudentPatch) error {
	if err := validateStruct("update student", patch); err != nil {
		return err
	}
	return updateColumns(ctx, r.db, "update student", &schema.Student{}, id, patch.Columns())
}

// Delete removes the student, their accommodations (and those accommodations' service
// logs) and their enrollments.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	const op = "delete student"
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		owned := tx.Model(&schema.Accommodation{}).Select("id").Where("student_id = ?", id)
		if err := tx.Where("accommodation_id IN (?)", owned).Delete(&schema.AccommodationServiceLog{}).Error; err != nil {
			return classifyError(op, err)
		}
		if err := tx.Where("student_id = ?", id).Delete(&schema.Accommodation{}).Error; err != nil {
			return classifyError(op, err)
		}
		if err := tx.Where("student_id = ?", id).Delete(&schema.ClassStudent{}).Error; err != nil {
			return classifyError(op, err)
		}
		return deleteByID(tx, op, &schema.Student{}, id)
	})
}
