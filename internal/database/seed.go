package database

import (
	"fmt"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"gorm.io/gorm"
)

// SeedResult lists the records created by Seed
type SeedResult struct {
	Complex  models.Complex
	Tenant   models.User
	Landlord models.User
	Issue    models.Issue
}

// Seed creates a sample complex with a tenant, a landlord and one open issue.
// passwordHash is stored for both users. Existing users (by email) are reused.
func Seed(db *gorm.DB, passwordHash string) (*SeedResult, error) {
	var out SeedResult

	err := db.Transaction(func(tx *gorm.DB) error {
		out.Complex = models.Complex{Name: "Sunset Apartments", Address: "123 Main Street, Anytown, USA"}
		if err := tx.Where("name = ?", out.Complex.Name).FirstOrCreate(&out.Complex).Error; err != nil {
			return fmt.Errorf("seed complex: %w", err)
		}
		complexID := out.Complex.ID

		moveIn := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		out.Tenant = models.User{
			Email:           "tenant@example.com",
			PasswordHash:    passwordHash,
			Role:            models.RoleTenant,
			FirstName:       "John",
			LastName:        "Doe",
			Phone:           "555-0123",
			ApartmentNumber: "4B",
			BuildingName:    "Building A",
			ComplexID:       &complexID,
			MoveInDate:      &moveIn,
			Preferences:     models.DefaultPreferences(),
		}
		if err := tx.Where("email = ?", out.Tenant.Email).FirstOrCreate(&out.Tenant).Error; err != nil {
			return fmt.Errorf("seed tenant: %w", err)
		}

		out.Landlord = models.User{
			Email:           "landlord@example.com",
			PasswordHash:    passwordHash,
			Role:            models.RoleLandlord,
			FirstName:       "Jane",
			LastName:        "Smith",
			Phone:           "555-0456",
			ApartmentNumber: "Office",
			BuildingName:    "Main Office",
			ComplexID:       &complexID,
			Preferences:     models.DefaultPreferences(),
		}
		if err := tx.Where("email = ?", out.Landlord.Email).FirstOrCreate(&out.Landlord).Error; err != nil {
			return fmt.Errorf("seed landlord: %w", err)
		}

		out.Issue = models.Issue{
			Title:       "Leaky faucet in kitchen",
			Description: "The kitchen sink faucet has been dripping constantly for the past week.",
			Category:    "PLUMBING",
			Priority:    models.PriorityMedium,
			Status:      models.StatusOpen,
			Location:    "Kitchen",
			UserID:      out.Tenant.ID,
			ComplexID:   complexID,
		}
		if err := tx.Where("title = ? AND user_id = ?", out.Issue.Title, out.Tenant.ID).FirstOrCreate(&out.Issue).Error; err != nil {
			return fmt.Errorf("seed issue: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
