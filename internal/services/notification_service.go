package services

import (
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// DefaultNotificationLimit caps a notification listing when no limit is given
const DefaultNotificationLimit = 50

// ListNotifications returns the actor's notifications, newest first, with an issue summary
func ListNotifications(db *gorm.DB, actor access.Actor, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = DefaultNotificationLimit
	}

	query := quiet(db).
		Clauses(hints.Comment("select", "notification_list")).
		Preload("Issue", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "status", "priority", "user_id", "complex_id")
		}).
		Preload("RelatedMessage").
		Where("user_id = ?", actor.ID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications := []models.Notification{}
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, types.Dependency("notification.list", err)
	}
	return notifications, nil
}

// CountUnread returns how many of the actor's notifications are unread
func CountUnread(db *gorm.DB, actor access.Actor) (int64, error) {
	var count int64
	err := quiet(db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.ID, false).
		Count(&count).Error
	if err != nil {
		return 0, types.Dependency("notification.count", err)
	}
	return count, nil
}

func loadNotification(db *gorm.DB, actor access.Actor, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		return nil, storeError("notification.lookup", err, "Notification %d not found", id)
	}
	if err := access.CanTouchNotification(actor, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkNotificationRead flips one notification to read. Already-read rows keep their read_at.
func MarkNotificationRead(db *gorm.DB, actor access.Actor, id uint) (*models.Notification, error) {
	n, err := loadNotification(db, actor, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	now := time.Now().UTC()
	err = db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		return nil, types.Dependency("notification.read", err)
	}
	n.IsRead = true
	n.ReadAt = &now
	return n, nil
}

// MarkAllRead flips every unread notification of the actor and returns how many changed
func MarkAllRead(db *gorm.DB, actor access.Actor) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now().UTC()})
	if res.Error != nil {
		return 0, types.Dependency("notification.read", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteNotification removes one of the actor's notifications
func DeleteNotification(db *gorm.DB, actor access.Actor, id uint) error {
	if _, err := loadNotification(db, actor, id); err != nil {
		return err
	}
	if err := db.Delete(&models.Notification{}, id).Error; err != nil {
		return types.Dependency("notification.delete", err)
	}
	return nil
}
