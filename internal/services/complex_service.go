package services

import (
	"strings"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
)

// ComplexSummary is a complex with the number of issues reported in it
type ComplexSummary struct {
	models.Complex
	IssueCount int64 `json:"issue_count"`
}

// ComplexInput holds the fields of a new complex
type ComplexInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ListComplexes returns every complex ordered by name, with issue counts
func ListComplexes(db *gorm.DB) ([]ComplexSummary, error) {
	var complexes []models.Complex
	if err := quiet(db).Order("name ASC").Find(&complexes).Error; err != nil {
		return nil, types.Dependency("complex.list", err)
	}

	var counts []struct {
		ComplexID uint
		Count     int64
	}
	err := quiet(db).Model(&models.Issue{}).
		Select("complex_id, COUNT(*) AS count").
		Group("complex_id").
		Scan(&counts).Error
	if err != nil {
		return nil, types.Dependency("complex.list", err)
	}
	byComplex := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byComplex[c.ComplexID] = c.Count
	}

	out := make([]ComplexSummary, 0, len(complexes))
	for _, c := range complexes {
		out = append(out, ComplexSummary{Complex: c, IssueCount: byComplex[c.ID]})
	}
	return out, nil
}

// GetComplex returns one complex
func GetComplex(db *gorm.DB, id uint) (*models.Complex, error) {
	var c models.Complex
	if err := db.First(&c, id).Error; err != nil {
		return nil, storeError("complex.lookup", err, "Complex %d not found", id)
	}
	return &c, nil
}

// CreateComplex adds a property record. A landlord without a complex is
// affiliated with the one they create.
func CreateComplex(db *gorm.DB, actor access.Actor, in ComplexInput) (*models.Complex, error) {
	if err := access.CanManageComplex(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Address == "" {
		return nil, types.Validation("complex.validation", "Name and address are required")
	}

	c := models.Complex{Name: in.Name, Address: in.Address}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		if actor.IsLandlord() {
			return tx.Model(&models.User{}).
				Where("id = ? AND complex_id IS NULL", actor.ID).
				Update("complex_id", c.ID).Error
		}
		return nil
	})
	if err != nil {
		return nil, types.Dependency("complex.create", err)
	}
	return &c, nil
}
