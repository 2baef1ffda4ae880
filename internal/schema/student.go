package schema

// Plan types accepted by the students.plan_type check constraint.
const (
	PlanType504 = "504"
	PlanTypeIEP = "IEP"
)

// Student a student on a formal accommodation plan.
// StudentID is the district-issued identifier and is unique across the store.
type Student struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	StudentID string `gorm:"not null;uniqueIndex" json:"student_id" validate:"required"`
	PlanType  string `gorm:"not null" json:"plan_type" validate:"oneof=504 IEP"`
}

func (Student) TableName() string {
	return "students"
}

// StudentPatch partial update; nil fields are left untouched
type StudentPatch struct {
	FirstName *string
	LastName  *string
	StudentID *string `validate:"omitempty,min=1"`
	PlanType  *string `validate:"omitempty,oneof=504 IEP"`
}

func (p StudentPatch) Columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.FirstName != nil {
		updates["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		updates["last_name"] = *p.LastName
	}
	if p.StudentID != nil {
		updates["student_id"] = *p.StudentID
	}
	if p.PlanType != nil {
		updates["plan_type"] = *p.PlanType
	}
	return updates
}
