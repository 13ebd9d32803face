package services

import (
	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// IssueMetrics summarizes the issues in an actor's scope
type IssueMetrics struct {
	Total    int64                   `json:"total"`
	ByStatus map[models.Status]int64 `json:"by_status"`
	// First decisions only: a later confirm does not erase an earlier dispute
	FirstConfirmed   int64   `json:"first_confirmed"`
	FirstDisputed    int64   `json:"first_disputed"`
	ConfirmationRate float64 `json:"confirmation_rate"`
	Disputes         int64   `json:"disputes"`
}

// GetIssueMetrics counts issues by status and reports the tenant confirmation rate
func GetIssueMetrics(db *gorm.DB, actor access.Actor) (*IssueMetrics, error) {
	scoped := func() *gorm.DB {
		return quiet(db).Model(&models.Issue{}).
			Clauses(hints.Comment("select", "issue_metrics")).
			Scopes(scopeIssues(actor))
	}

	out := &IssueMetrics{ByStatus: make(map[models.Status]int64, len(models.Statuses))}
	for _, s := range models.Statuses {
		out.ByStatus[s] = 0
	}

	var rows []struct {
		Status models.Status
		Count  int64
	}
	if err := scoped().Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, types.Dependency("issue.metrics", err)
	}
	for _, r := range rows {
		out.ByStatus[r.Status] = r.Count
		out.Total += r.Count
	}

	if err := scoped().Where("tenant_first_confirmation = ?", true).Count(&out.FirstConfirmed).Error; err != nil {
		return nil, types.Dependency("issue.metrics", err)
	}
	if err := scoped().Where("tenant_first_confirmation = ?", false).Count(&out.FirstDisputed).Error; err != nil {
		return nil, types.Dependency("issue.metrics", err)
	}
	if err := scoped().Select("COALESCE(SUM(dispute_count), 0)").Row().Scan(&out.Disputes); err != nil {
		return nil, types.Dependency("issue.metrics", err)
	}

	if decided := out.FirstConfirmed + out.FirstDisputed; decided > 0 {
		out.ConfirmationRate = float64(out.FirstConfirmed) / float64(decided)
	}
	return out, nil
}
