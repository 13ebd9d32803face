package services

import (
	"strings"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
)

// SendMessage appends a message to an issue's thread
func SendMessage(db *gorm.DB, actor access.Actor, issueID uint, text string) (*models.Message, []lifecycle.Event, error) {
	issue, err := AuthorizeIssue(db, actor, issueID, access.ActionMessage)
	if err != nil {
		return nil, nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, types.Validation("message.validation", "Message text is required")
	}

	msg := models.Message{
		IssueID:     issue.ID,
		SenderID:    actor.ID,
		SenderType:  actor.Role,
		MessageText: text,
		SentAt:      time.Now().UTC(),
	}
	if err := db.Create(&msg).Error; err != nil {
		return nil, nil, types.Dependency("message.create", err)
	}
	if err := db.Preload("Sender").First(&msg, msg.ID).Error; err != nil {
		return nil, nil, types.Dependency("message.create", err)
	}

	return &msg, []lifecycle.Event{lifecycle.MessageSent(issue, &msg)}, nil
}

// ListMessages returns an issue's thread, oldest first
func ListMessages(db *gorm.DB, actor access.Actor, issueID uint) ([]models.Message, error) {
	if _, err := AuthorizeIssue(db, actor, issueID, access.ActionRead); err != nil {
		return nil, err
	}

	messages := []models.Message{}
	err := quiet(db).
		Preload("Sender").
		Where("issue_id = ?", issueID).
		Order("sent_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, types.Dependency("message.list", err)
	}
	return messages, nil
}

// DeleteMessage removes a message. Notifications that pointed at it keep their text.
func DeleteMessage(db *gorm.DB, actor access.Actor, id uint) error {
	var msg models.Message
	if err := db.First(&msg, id).Error; err != nil {
		return storeError("message.lookup", err, "Message %d not found", id)
	}
	if err := access.CanDeleteMessage(actor, &msg); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).
			Where("related_message_id = ?", id).
			Update("related_message_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
	if err != nil {
		return types.Dependency("message.delete", err)
	}
	return nil
}
