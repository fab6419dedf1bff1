package models

import "time"

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID          string    `json:"id" bson:"_id" gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `json:"name" bson:"name" gorm:"column:name;type:text;not null"`
	Email       string    `json:"email" bson:"email" gorm:"column:email;type:text;not null"`
	Message     string    `json:"message" bson:"message" gorm:"column:message;type:text;not null"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submitted_at" gorm:"column:submitted_at;not null;index:idx_contact_messages_submitted_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
