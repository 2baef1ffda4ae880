package repository

import (
	"context"

	"gorm.io/gorm"
)

// exists reports whether a row with id is present in model's table.
func exists(ctx context.Context, db *gorm.DB, model interface{}, id int64) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateColumns applies updates to the row with id. An empty update only checks existence.
func updateColumns(ctx context.Context, db *gorm.DB, op string, model interface{}, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		ok, err := exists(ctx, db, model, id)
		if err != nil {
			return classifyError(op, err)
		}
		if !ok {
			return notFound(op, id)
		}
		return nil
	}

	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return classifyError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, id)
	}
	return nil
}

// deleteByID removes one row inside tx and reports NotFound when nothing matched.
func deleteByID(tx *gorm.DB, op string, model interface{}, id int64) error {
	res := tx.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return classifyError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, id)
	}
	return nil
}

// inTx runs fn in one transaction; fn's error is returned unchanged so taxonomy wrapping survives.
func inTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	var fnErr error
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(tx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return classifyError(op, err)
	}
	return nil
}
