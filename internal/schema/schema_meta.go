package schema

import "time"

// SchemaMeta records the store's schema version so upgrades are gated on an explicit number.
// The table holds a single row (ID=1).
type SchemaMeta struct {
	ID            int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}

// SchemaMigration is one applied migration in the history table.
type SchemaMigration struct {
	Version     int       `gorm:"primaryKey;autoIncrement:false" json:"version"`
	Description string    `gorm:"not null" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}
