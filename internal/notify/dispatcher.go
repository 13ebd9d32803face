// dispatcher.go
//
// Apartment maintenance tracker API
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of apartment-maintenance-tracker.
// apartment-maintenance-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// apartment-maintenance-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with apartment-maintenance-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package notify turns domain events into per-recipient notification rows,
// live pushes and, for landlord replies, an optional email.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/mail"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Live event names
const (
	EventNewMessage      = "new-message"
	EventNewNotification = "new-notification"
)

const emailTimeout = 30 * time.Second

// Mailer is the email side channel
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Publisher is the live transport. Pushes are best-effort and report nothing.
type Publisher interface {
	PublishUser(userID uint, event string, payload interface{})
	PublishIssue(issueID uint, event string, payload interface{})
}

// Dispatcher consumes the events returned by mutations
type Dispatcher struct {
	DB        *gorm.DB
	Mailer    Mailer // nil disables email
	Publisher Publisher
	ClientURL string
	Logger    *zap.Logger

	wg sync.WaitGroup
}

// New creates a dispatcher
func New(db *gorm.DB, mailer Mailer, publisher Publisher, clientURL string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Dispatcher{DB: db, Mailer: mailer, Publisher: publisher, ClientURL: clientURL, Logger: logger}
}

// Wait blocks until in-flight emails finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Dispatch fans each event out and returns how many notification rows were created.
// Every failure past the primary mutation is logged and swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...lifecycle.Event) int {
	created := 0
	for _, e := range events {
		created += d.dispatch(ctx, e)
	}
	return created
}

func (d *Dispatcher) dispatch(ctx context.Context, e lifecycle.Event) int {
	log := d.Logger.With(
		zap.String("event", string(e.Kind)),
		zap.String("event_id", e.ID.String()),
		zap.Uint("issue_id", e.Issue.ID),
	)

	if e.Kind == lifecycle.EventMessageSent && e.Message != nil && d.Publisher != nil {
		d.Publisher.PublishIssue(e.Issue.ID, EventNewMessage, e.Message)
		livePushes.WithLabelValues(EventNewMessage).Inc()
	}

	recipients, err := d.recipients(ctx, e)
	if err != nil {
		log.Warn("failed to resolve notification recipients", zap.Error(err))
		return 0
	}

	title, body := describe(e)
	created := 0
	for _, r := range recipients {
		if r.ID == e.ActorID {
			continue
		}
		n, ok := d.persist(ctx, log, e, r.ID, title, body)
		if !ok {
			continue
		}
		created++
		if d.Publisher != nil {
			d.Publisher.PublishUser(r.ID, EventNewNotification, n)
			livePushes.WithLabelValues(EventNewNotification).Inc()
		}
		if d.wantsEmail(e, &r) {
			d.sendEmail(ctx, log, e, r)
		}
	}
	return created
}

// recipients is the routing table for the four domain events
func (d *Dispatcher) recipients(ctx context.Context, e lifecycle.Event) ([]models.User, error) {
	db := d.DB.WithContext(ctx)
	switch e.Kind {
	case lifecycle.EventIssueCreated:
		return d.landlords(db, e.Issue.ComplexID)
	case lifecycle.EventIssueUpdated:
		return d.owner(db, e.Issue.UserID)
	case lifecycle.EventMessageSent:
		if e.ActorRole == models.RoleTenant {
			return d.landlords(db, e.Issue.ComplexID)
		}
		return d.owner(db, e.Issue.UserID)
	}
	return nil, fmt.Errorf("unknown event kind %q", e.Kind)
}

func (d *Dispatcher) landlords(db *gorm.DB, complexID uint) ([]models.User, error) {
	var users []models.User
	err := db.Where("role = ? AND complex_id = ?", models.RoleLandlord, complexID).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (d *Dispatcher) owner(db *gorm.DB, userID uint) ([]models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return []models.User{user}, nil
}

// persist writes one recipient's row. The (user, event) unique key makes a
// replayed event a no-op.
func (d *Dispatcher) persist(ctx context.Context, log *zap.Logger, e lifecycle.Event, userID uint, title, body string) (*models.Notification, bool) {
	issueID := e.Issue.ID
	n := &models.Notification{
		UserID:   userID,
		EventKey: e.ID.String(),
		Type:     e.Type,
		Title:    title,
		Message:  body,
		IssueID:  &issueID,
	}
	if e.Message != nil {
		messageID := e.Message.ID
		n.RelatedMessageID = &messageID
	}

	res := d.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if res.Error != nil {
		notificationFailures.Inc()
		log.Warn("failed to create notification", zap.Uint("user_id", userID), zap.Error(res.Error))
		return nil, false
	}
	if res.RowsAffected == 0 {
		log.Debug("notification already delivered", zap.Uint("user_id", userID))
		return nil, false
	}
	notificationsCreated.WithLabelValues(string(e.Type)).Inc()
	n.Issue = &models.Issue{ID: e.Issue.ID, Title: e.Issue.Title, Status: e.Issue.Status, Priority: e.Issue.Priority}
	return n, true
}

// wantsEmail is true only for a landlord or admin reply to a tenant who has not opted out
func (d *Dispatcher) wantsEmail(e lifecycle.Event, recipient *models.User) bool {
	return d.Mailer != nil &&
		e.Kind == lifecycle.EventMessageSent &&
		e.ActorRole != models.RoleTenant &&
		recipient.Role == models.RoleTenant &&
		recipient.EmailNotificationsEnabled()
}

// sendEmail renders and sends in the background; the request never waits on it
func (d *Dispatcher) sendEmail(ctx context.Context, log *zap.Logger, e lifecycle.Event, recipient models.User) {
	senderName := string(e.ActorRole)
	if e.Message.Sender != nil {
		senderName = e.Message.Sender.FullName()
	}
	subject, html, err := mail.RenderNewMessage(mail.NewMessageData{
		RecipientName: recipient.FirstName,
		SenderName:    senderName,
		IssueID:       e.Issue.ID,
		IssueTitle:    e.Issue.Title,
		MessageText:   e.Message.MessageText,
		ClientURL:     d.ClientURL,
	})
	if err != nil {
		emailsSent.WithLabelValues("error").Inc()
		log.Warn("failed to render email", zap.Error(err))
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
		defer cancel()
		if err := d.Mailer.Send(sendCtx, recipient.Email, subject, html); err != nil {
			emailsSent.WithLabelValues("error").Inc()
			log.Warn("failed to send notification email", zap.Uint("user_id", recipient.ID), zap.Error(err))
			return
		}
		emailsSent.WithLabelValues("sent").Inc()
	}()
}
