package schema

// AccommodationServiceLog whether an accommodation was provided in a class on a date.
// At most one row per (class_id, accommodation_id, service_date). ServiceDate is
// YYYY-MM-DD; Provided is stored as 0/1.
type AccommodationServiceLog struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID         int64  `gorm:"not null;index" json:"class_id" validate:"gt=0"`
	AccommodationID int64  `gorm:"not null;index" json:"accommodation_id" validate:"gt=0"`
	ServiceDate     string `gorm:"not null;index" json:"service_date" validate:"datetime=2006-01-02"`
	Provided        bool   `gorm:"not null" json:"provided"`
}

func (AccommodationServiceLog) TableName() string {
	return "accommodation_service_logs"
}

// ServiceLogPatch partial update; nil fields are left untouched
type ServiceLogPatch struct {
	ServiceDate *string `validate:"omitempty,datetime=2006-01-02"`
	Provided    *bool
}

func (p ServiceLogPatch) Columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.ServiceDate != nil {
		updates["service_date"] = *p.ServiceDate
	}
	if p.Provided != nil {
		updates["provided"] = *p.Provided
	}
	return updates
}
