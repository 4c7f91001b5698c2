package models

import "time"

// SystemSetting is a single key/value configuration row
type SystemSetting struct {
	Key       string    `gorm:"size:100;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// EntitySystemSetting is the audit entity type for settings writes
const EntitySystemSetting = "SystemSetting"
