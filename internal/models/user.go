package models

import (
	"encoding/json"
	"time"
)

// PreferenceEmailNotifications is the preferences key gating email fan-out
const PreferenceEmailNotifications = "emailNotifications"

// User is an identity affiliated with a complex
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	Role            Role       `gorm:"size:16;not null;index" json:"role"`
	FirstName       string     `gorm:"size:100" json:"first_name"`
	LastName        string     `gorm:"size:100" json:"last_name"`
	Phone           string     `gorm:"size:50" json:"phone,omitempty"`
	ApartmentNumber string     `gorm:"size:50" json:"apartment_number,omitempty"`
	BuildingName    string     `gorm:"size:100" json:"building_name,omitempty"`
	ComplexID       *uint      `gorm:"index" json:"complex_id"`
	Complex         *Complex   `gorm:"foreignKey:ComplexID" json:"complex,omitempty"`
	MoveInDate      *time.Time `json:"move_in_date,omitempty"`
	Preferences     JSON       `json:"preferences"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// PreferenceMap decodes the stored preferences, returning an empty map when unset or malformed
func (u *User) PreferenceMap() map[string]interface{} {
	prefs := make(map[string]interface{})
	if len(u.Preferences.JSON) == 0 {
		return prefs
	}
	if err := json.Unmarshal(u.Preferences.JSON, &prefs); err != nil || prefs == nil {
		return make(map[string]interface{})
	}
	return prefs
}

// EmailNotificationsEnabled is true unless the user explicitly stored false
func (u *User) EmailNotificationsEnabled() bool {
	v, ok := u.PreferenceMap()[PreferenceEmailNotifications]
	if !ok {
		return true
	}
	enabled, isBool := v.(bool)
	return !isBool || enabled
}

// DefaultPreferences is stored for every newly registered user
func DefaultPreferences() JSON {
	prefs, _ := NewJSON(map[string]interface{}{PreferenceEmailNotifications: true})
	return prefs
}
