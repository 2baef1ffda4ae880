package schema

// Class a class section taught in a given period and school year
type Class struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null" json:"name" validate:"required"`
	Subject string `gorm:"not null" json:"subject"`
	Period  string `gorm:"not null" json:"period"`
	Year    string `gorm:"not null" json:"year"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassPatch partial update; nil fields are left untouched
type ClassPatch struct {
	Name    *string `validate:"omitempty,min=1"`
	Subject *string
	Period  *string
	Year    *string
}

// Columns returns the column/value pairs to update.
func (p ClassPatch) Columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Subject != nil {
		updates["subject"] = *p.Subject
	}
	if p.Period != nil {
		updates["period"] = *p.Period
	}
	if p.Year != nil {
		updates["year"] = *p.Year
	}
	return updates
}
