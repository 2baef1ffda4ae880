package repository

import (
	"context"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
)

// ClassRepository classes
type ClassRepository struct {
	db *gorm.DB
}

// NewClassRepository creates the repository
func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts c and sets c.ID.
func (r *ClassRepository) Create(ctx context.Context, c *schema.Class) (int64, error) {
	if c == nil {
		return 0, validateStruct("create class", schema.Class{})
	}
	if err := validateStruct("create class", c); err != nil {
		return 0, err
	}
	c.ID = 0
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return 0, classifyError("create class", err)
	}
	return c.ID, nil
}

func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*schema.Class, error) {
	var c schema.Class
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, classifyError("get class", err)
	}
	return &c, nil
}

// List returns all classes ordered by period then name.
func (r *ClassRepository) List(ctx context.Context) ([]schema.Class, error) {
	var classes []schema.Class
	if err := r.db.WithContext(ctx).Order("period ASC, name ASC").Find(&classes).Error; err != nil {
		return nil, classifyError("list classes", err)
	}
	return classes, nil
}

func (r *ClassRepository) Update(ctx context.Context, id int64, patch schema.ClassPatch) error {
	if err := validateStruct("update class", patch); err != nil {
		return err
	}
	return updateColumns(ctx, r.db, "update class", &schema.Class{}, id, patch.Columns())
}

// Delete removes the class together with its enrollments and service logs.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	const op = "delete class"
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&schema.AccommodationServiceLog{}).Error; err != nil {
			return classifyError(op, err)
		}
		if err := tx.Where("class_id = ?", id).Delete(&schema.ClassStudent{}).Error; err != nil {
			return classifyError(op, err)
		}
		return deleteByID(tx, op, &schema.Class{}, id)
	})
}
