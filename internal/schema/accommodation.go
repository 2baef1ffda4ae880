package schema

// Accommodation a support measure assigned to exactly one student (e.g. extended time)
type Accommodation struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID   int64  `gorm:"not null;index" json:"student_id" validate:"gt=0"`
	Description string `gorm:"not null" json:"description" validate:"required"`
	Category    string `gorm:"not null" json:"category"`
}

func (Accommodation) TableName() string {
	return "accommodations"
}

// AccommodationPatch partial update; nil fields are left untouched
type AccommodationPatch struct {
	StudentID   *int64  `validate:"omitempty,gt=0"`
	Description *string `validate:"omitempty,min=1"`
	Category    *string
}

func (p AccommodationPatch) Columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.StudentID != nil {
		updates["student_id"] = *p.StudentID
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Category != nil {
		updates["category"] = *p.Category
	}
	return updates
}
