package models

import "time"

// Notification is a per-recipient record of a domain event.
// (UserID, EventKey) is unique so a recipient never receives the same event twice.
type Notification struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;uniqueIndex:idx_notification_event;index:idx_notification_unread,priority:1" json:"user_id"`
	EventKey         string           `gorm:"size:64;not null;uniqueIndex:idx_notification_event" json:"-"`
	Type             NotificationType `gorm:"size:32;not null" json:"type"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	Message          string           `gorm:"type:text;not null" json:"message"`
	IssueID          *uint            `gorm:"index" json:"issue_id"`
	Issue            *Issue           `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
	RelatedMessageID *uint            `json:"related_message_id"`
	RelatedMessage   *Message         `gorm:"foreignKey:RelatedMessageID" json:"relatedMessage,omitempty"`
	IsRead           bool             `gorm:"not null;default:false;index:idx_notification_unread,priority:2" json:"is_read"`
	ReadAt           *time.Time       `json:"read_at"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
