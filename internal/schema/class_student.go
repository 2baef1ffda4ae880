package schema

// ClassStudent enrollment of a student in a class; (class_id, student_id) is unique
type ClassStudent struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID   int64 `gorm:"not null" json:"class_id" validate:"gt=0"`
	StudentID int64 `gorm:"not null" json:"student_id" validate:"gt=0"`
}

func (ClassStudent) TableName() string {
	return "class_students"
}
