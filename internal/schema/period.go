package schema

// SixWeekPeriod a grading period. Standalone reference data: nothing points at it.
type SixWeekPeriod struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null" json:"name" validate:"required"`
	StartDate string `gorm:"not null" json:"start_date" validate:"datetime=2006-01-02"` // YYYY-MM-DD
	EndDate   string `gorm:"not null" json:"end_date" validate:"datetime=2006-01-02"`   // YYYY-MM-DD
	Year      string `gorm:"not null" json:"year"`
}

func (SixWeekPeriod) TableName() string {
	return "six_week_periods"
}

// Contains reports whether date (YYYY-MM-DD) falls inside the period, bounds included.
func (p SixWeekPeriod) Contains(date string) bool {
	return date >= p.StartDate && date <= p.EndDate
}

// SixWeekPeriodPatch partial update; nil fields are left untouched
type SixWeekPeriodPatch struct {
	Name      *string `validate:"omitempty,min=1"`
	StartDate *string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `validate:"omitempty,datetime=2006-01-02"`
	Year      *string
}

func (p SixWeekPeriodPatch) Columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.StartDate != nil {
		updates["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		updates["end_date"] = *p.EndDate
	}
	if p.Year != nil {
		updates["year"] = *p.Year
	}
	return updates
}
