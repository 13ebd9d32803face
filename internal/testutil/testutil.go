// Package testutil provides an in-memory record store, fixtures and
// recording collaborators for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/database"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Uint64

// NewDB opens a migrated, private in-memory SQLite database
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateComplex inserts a complex
func CreateComplex(t *testing.T, db *gorm.DB, name string) *models.Complex {
	t.Helper()
	c := &models.Complex{Name: name, Address: name + " Address"}
	require.NoError(t, db.Create(c).Error)
	return c
}

// UserOption customizes a fixture user
type UserOption func(*models.User)

// WithEmailNotifications stores an explicit email preference
func WithEmailNotifications(enabled bool) UserOption {
	return func(u *models.User) {
		prefs, _ := models.NewJSON(map[string]interface{}{models.PreferenceEmailNotifications: enabled})
		u.Preferences = prefs
	}
}

// CreateUser inserts a user with a unique email
func CreateUser(t *testing.T, db *gorm.DB, role models.Role, complexID *uint, opts ...UserOption) *models.User {
	t.Helper()
	n := seq.Add(1)
	u := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		FirstName:    string(role),
		LastName:     fmt.Sprintf("%d", n),
		ComplexID:    complexID,
		Preferences:  models.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateIssue inserts an OPEN issue reported by tenant
func CreateIssue(t *testing.T, db *gorm.DB, tenant *models.User, title string) *models.Issue {
	t.Helper()
	require.NotNil(t, tenant.ComplexID, "tenant fixture needs a complex")
	issue := &models.Issue{
		Title:       title,
		Description: title + " description",
		Category:    "PLUMBING",
		Priority:    models.PriorityMedium,
		Status:      models.StatusOpen,
		Location:    "Kitchen",
		UserID:      tenant.ID,
		ComplexID:   *tenant.ComplexID,
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}

// Actor builds the request actor for a fixture user
func Actor(u *models.User) access.Actor {
	return access.ActorFromUser(u)
}

// SentMail is one recorded email
type SentMail struct {
	To      string
	Subject string
	HTML    string
}

// FakeMailer records every email and optionally fails
type FakeMailer struct {
	mu   sync.Mutex
	sent []SentMail
	Err  error
}

func (m *FakeMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, HTML: html})
	return m.Err
}

// Sent returns a copy of the recorded emails
func (m *FakeMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}

// Push is one recorded live push
type Push struct {
	Room    string
	Event   string
	Payload interface{}
}

// FakePublisher records live pushes
type FakePublisher struct {
	mu     sync.Mutex
	pushes []Push
}

func (p *FakePublisher) PublishUser(userID uint, event string, payload interface{}) {
	p.record(fmt.Sprintf("user-%d", userID), event, payload)
}

func (p *FakePublisher) PublishIssue(issueID uint, event string, payload interface{}) {
	p.record(fmt.Sprintf("issue-%d", issueID), event, payload)
}

func (p *FakePublisher) record(room, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, Push{Room: room, Event: event, Payload: payload})
}

// Pushes returns a copy of the recorded pushes
func (p *FakePublisher) Pushes() []Push {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Push(nil), p.pushes...)
}
