package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/config"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Mail         string            `json:"mail"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck pings the record store and, when configured, the mail relay
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}
	var failures []string

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		failures = append(failures, fmt.Sprintf("Database connection error: %v", err))
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			failures = append(failures, fmt.Sprintf("Database ping failed: %v", err))
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Mail is a side channel: an unreachable relay degrades but does not fail the service
	if !cfg.MailEnabled() {
		result.Mail = "disabled"
	} else if err := utils.PingSMTP(cfg.SMTPHost, cfg.SMTPPort); err != nil {
		result.Mail = "unreachable"
		result.Details["mail_error"] = err.Error()
		if result.Status == "healthy" {
			result.Status = "degraded"
		}
		zap.L().Warn("health check: mail relay unreachable", zap.Error(err))
	} else {
		result.Mail = "ok"
		result.Details["mail_host"] = cfg.SMTPHost
	}

	if len(failures) > 0 {
		result.ErrorMessage = strings.Join(failures, "; ")
		zap.L().Error("health check failed", zap.String("error", result.ErrorMessage))
	} else {
		zap.L().Debug("health check passed")
	}

	return result
}
