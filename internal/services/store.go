package services

import (
	"errors"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storeError maps a record store error to an AppError.
// A missing record becomes NotFound with the given message, anything else a DependencyFailure.
func storeError(errorType string, err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(errorType, format, args...)
	}
	return types.Dependency(errorType, err)
}

// quiet returns a session that does not log SQL, used for list reads
func quiet(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
}

// loadIssue fetches a bare issue row
func loadIssue(db *gorm.DB, id uint) (*models.Issue, error) {
	var issue models.Issue
	if err := db.First(&issue, id).Error; err != nil {
		return nil, storeError("issue.lookup", err, "Issue %d not found", id)
	}
	return &issue, nil
}

// AuthorizeIssue loads an issue and checks that actor may perform action on it.
// Missing issues are NotFound; out-of-scope issues are Forbidden.
func AuthorizeIssue(db *gorm.DB, actor access.Actor, id uint, action access.Action) (*models.Issue, error) {
	issue, err := loadIssue(db, id)
	if err != nil {
		return nil, err
	}
	if err := access.Allow(actor, action, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// scopeIssues restricts an issue query to what actor may list
func scopeIssues(actor access.Actor) func(*gorm.DB) *gorm.DB {
	scope := access.IssueScope(actor)
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case scope.All:
			return db
		case scope.UserID != nil:
			return db.Where("issues.user_id = ?", *scope.UserID)
		case scope.ComplexID != nil:
			return db.Where("issues.complex_id = ?", *scope.ComplexID)
		}
		return db.Where("1 = 0")
	}
}
