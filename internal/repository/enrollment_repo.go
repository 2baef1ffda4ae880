package repository

import (
	"context"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
)

// EnrollmentFilter narrows List; zero fields are ignored.
type EnrollmentFilter struct {
	ClassID   int64
	StudentID int64
}

// EnrollmentRepository class_students rows
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create enrolls a student in a class. Enrolling the same pair twice fails with
// ErrConstraintViolation.
func (r *EnrollmentRepository) Create(ctx context.Context, cs *schema.ClassStudent) (int64, error) {
	const op = "create enrollment"
	if cs == nil {
		return 0, validateStruct(op, schema.ClassStudent{})
	}
	if err := validateStruct(op, cs); err != nil {
		return 0, err
	}
	cs.ID = 0
	if err := r.db.WithContext(ctx).Create(cs).Error; err != nil {
		return 0, classifyError(op, err)
	}
	return cs.ID, nil
}

// Add is Create for a (class, student) pair.
func (r *EnrollmentRepository) Add(ctx context.Context, classID, studentID int64) (int64, error) {
	return r.Create(ctx, &schema.ClassStudent{ClassID: classID, StudentID: studentID})
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*schema.ClassStudent, error) {
	var cs schema.ClassStudent
	if err := r.db.WithContext(ctx).First(&cs, id).Error; err != nil {
		return nil, classifyError("get enrollment", err)
	}
	return &cs, nil
}

func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]schema.ClassStudent, error) {
	q := r.db.WithContext(ctx).Model(&schema.ClassStudent{})
	if filter.ClassID > 0 {
		q = q.Where("class_id = ?", filter.ClassID)
	}
	if filter.StudentID > 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	var out []schema.ClassStudent
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, classifyError("list enrollments", err)
	}
	return out, nil
}

// Update moves an enrollment to another class and/or student.
func (r *EnrollmentRepository) Update(ctx context.Context, id int64, classID, studentID int64) error {
	updates := map[string]interface{}{}
	if classID > 0 {
		updates["class_id"] = classID
	}
	if studentID > 0 {
		updates["student_id"] = studentID
	}
	return updateColumns(ctx, r.db, "update enrollment", &schema.ClassStudent{}, id, updates)
}

func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	const op = "delete enrollment"
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		return deleteByID(tx, op, &schema.ClassStudent{}, id)
	})
}

// Remove drops the enrollment of studentID in classID. Service logs already recorded
// for the pair are kept.
func (r *EnrollmentRepository) Remove(ctx context.Context, classID, studentID int64) error {
	res := r.db.WithContext(ctx).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Delete(&schema.ClassStudent{})
	if res.Error != nil {
		return classifyError("remove enrollment", res.Error)
	}
	if res.RowsAffected == 0 {
		return classifyError("remove enrollment", ErrNotFound)
	}
	return nil
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, classID, studentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	if err != nil {
		return false, classifyError("check enrollment", err)
	}
	return count > 0, nil
}

// ListStudentsInClass returns the enrolled students ordered by last name, first name.
func (r *EnrollmentRepository) ListStudentsInClass(ctx context.Context, classID int64) ([]schema.Student, error) {
	var students []schema.Student
	err := r.db.WithContext(ctx).
		Model(&schema.Student{}).
		Joins("INNER JOIN class_students cs ON students.id = cs.student_id").
		Where("cs.class_id = ?", classID).
		Order("students.last_name ASC, students.first_name ASC").
		Find(&students).Error
	if err != nil {
		return nil, classifyError("list class students", err)
	}
	return students, nil
}

// ListClassesForStudent returns the classes a student is enrolled in.
func (r *EnrollmentRepository) ListClassesForStudent(ctx context.Context, studentID int64) ([]schema.Class, error) {
	var classes []schema.Class
	err := r.db.WithContext(ctx).
		Model(&schema.Class{}).
		Joins("INNER JOIN class_students cs ON classes.id = cs.class_id").
		Where("cs.student_id = ?", studentID).
		Order("classes.period ASC, classes.name ASC").
		Find(&classes).Error
	if err != nil {
		return nil, classifyError("list student classes", err)
	}
	return classes, nil
}
