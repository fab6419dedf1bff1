package models

import "time"

// SettingAvatar holds the public URL of the profile picture.
const SettingAvatar = "avatar"

// Setting is a single site-wide key/value pair.
type Setting struct {
	Key       string    `json:"key" bson:"_id" gorm:"column:key;type:text;primaryKey"`
	Value     string    `json:"value" bson:"value" gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at" gorm:"column:updated_at;not null"`
}

func (Setting) TableName() string {
	return "settings"
}
