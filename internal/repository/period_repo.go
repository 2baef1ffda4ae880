package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
)

// PeriodRepository six-week grading periods
type PeriodRepository struct {
	db *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

func (r *PeriodRepository) Create(ctx context.Context, p *schema.SixWeekPeriod) (int64, error) {
	const op = "create period"
	if p == nil {
		return 0, validateStruct(op, schema.SixWeekPeriod{})
	}
	if err := validateStruct(op, p); err != nil {
		return 0, err
	}
	if err := checkDateOrder(op, p.StartDate, p.EndDate); err != nil {
		return 0, err
	}
	p.ID = 0
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return 0, classifyError(op, err)
	}
	return p.ID, nil
}

func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*schema.SixWeekPeriod, error) {
	var p schema.SixWeekPeriod
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, classifyError("get period", err)
	}
	return &p, nil
}

// List returns the periods of year in calendar order, or every period newest first
// when year is empty.
func (r *PeriodRepository) List(ctx context.Context, year string) ([]schema.SixWeekPeriod, error) {
	q := r.db.WithContext(ctx)
	if year != "" {
		q = q.Where("year = ?", year).Order("start_date ASC")
	} else {
		q = q.Order("start_date DESC")
	}
	var out []schema.SixWeekPeriod
	if err := q.Find(&out).Error; err != nil {
		return nil, classifyError("list periods", err)
	}
	return out, nil
}

// FindContaining returns the period covering date, ErrNotFound if none does.
func (r *PeriodRepository) FindContaining(ctx context.Context, date string) (*schema.SixWeekPeriod, error) {
	const op = "find period"
	if err := validateDate(op, date); err != nil {
		return nil, err
	}
	var p schema.SixWeekPeriod
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Order("start_date DESC").
		First(&p).Error
	if err != nil {
		return nil, classifyError(op, err)
	}
	return &p, nil
}

// Update applies patch; the resulting start/end dates must still be ordered.
func (r *PeriodRepository) Update(ctx context.Context, id int64, patch schema.SixWeekPeriodPatch) error {
	const op = "update period"
	if err := validateStruct(op, patch); err != nil {
		return err
	}
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		if patch.StartDate != nil || patch.EndDate != nil {
			var cur schema.SixWeekPeriod
			if err := tx.First(&cur, id).Error; err != nil {
				return classifyError(op, err)
			}
			start, end := cur.StartDate, cur.EndDate
			if patch.StartDate != nil {
				start = *patch.StartDate
			}
			if patch.EndDate != nil {
				end = *patch.EndDate
			}
			if err := checkDateOrder(op, start, end); err != nil {
				return err
			}
		}
		return updateColumns(ctx, tx, op, &schema.SixWeekPeriod{}, id, patch.Columns())
	})
}

func (r *PeriodRepository) Delete(ctx context.Context, id int64) error {
	const op = "delete period"
	return inTx(ctx, r.db, op, func(tx *gorm.DB) error {
		return deleteByID(tx, op, &schema.SixWeekPeriod{}, id)
	})
}

func checkDateOrder(op, start, end string) error {
	if start > end {
		return fmt.Errorf("%s: %w: start_date %s is after end_date %s", op, ErrConstraintViolation, start, end)
	}
	return nil
}
