package models

import "time"

// Message is an append-only chat entry on an issue
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IssueID     uint      `gorm:"not null;index" json:"issue_id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	SenderType  Role      `gorm:"size:16;not null" json:"sender_type"`
	MessageText string    `gorm:"type:text;not null" json:"message_text"`
	SentAt      time.Time `gorm:"not null;index" json:"sent_at"`
}

// TableName overrides the table name for Message
func (Message) TableName() string {
	return "messages"
}
