package models

import "time"

// Issue is a maintenance request reported by a tenant
type Issue struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    string   `gorm:"size:50;not null;index" json:"category"`
	Priority    Priority `gorm:"size:16;not null;default:MEDIUM" json:"priority"`
	Status      Status   `gorm:"size:16;not null;default:OPEN;index" json:"status"`
	Location    string   `gorm:"size:255" json:"location"`

	UserID    uint     `gorm:"not null;index" json:"user_id"`
	User      *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ComplexID uint     `gorm:"not null;index" json:"complex_id"`
	Complex   *Complex `gorm:"foreignKey:ComplexID" json:"complex,omitempty"`

	// Lifecycle timestamps, set on first entry to their status within a cycle
	AcknowledgedDate *time.Time `json:"acknowledged_date"`
	ResolvedDate     *time.Time `json:"resolved_date"`
	ClosedDate       *time.Time `json:"closed_date"`

	TenantConfirmed         *bool      `json:"tenant_confirmed"`
	TenantConfirmationNotes *string    `gorm:"type:text" json:"tenant_confirmation_notes"`
	TenantConfirmationDate  *time.Time `json:"tenant_confirmation_date"`
	// TenantFirstConfirmation keeps the first decision ever recorded for reporting
	TenantFirstConfirmation *bool `json:"tenant_first_confirmation"`
	DisputeCount            int   `gorm:"not null;default:0" json:"dispute_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:IssueID" json:"messages,omitempty"`
	Photos   []Photo   `gorm:"foreignKey:IssueID" json:"photos,omitempty"`
}

// TableName overrides the table name for Issue
func (Issue) TableName() string {
	return "issues"
}

// Photo is an uploaded image reference attached to an issue
type Photo struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IssueID    uint      `gorm:"not null;index" json:"issue_id"`
	URL        string    `gorm:"size:1024;not null" json:"url"`
	UploadedBy uint      `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the table name for Photo
func (Photo) TableName() string {
	return "photos"
}
