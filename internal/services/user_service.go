package services

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/auth"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// TokenIssuer signs credentials for a user
type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

// RegisterInput holds the fields of a new account
type RegisterInput struct {
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	Role            models.Role `json:"role"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Phone           string      `json:"phone"`
	ApartmentNumber string      `json:"apartment_number"`
	BuildingName    string      `json:"building_name"`
	ComplexID       *uint       `json:"complex_id"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoadActor reads the user's current record and builds the request actor
func LoadActor(db *gorm.DB, userID uint) (access.Actor, *models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return access.Actor{}, nil, storeError("user.lookup", err, "User %d not found", userID)
	}
	return access.ActorFromUser(&user), &user, nil
}

// Register creates an account and signs a credential for it.
// Tenants must name an existing complex; landlords may add theirs later.
func Register(db *gorm.DB, tokens TokenIssuer, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, types.Validation("auth.register", "A valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, types.Validation("auth.register", "Password must be at least %d characters", minPasswordLength)
	}
	if in.Role == "" {
		in.Role = models.RoleTenant
	}
	if in.Role != models.RoleTenant && in.Role != models.RoleLandlord {
		return nil, types.Validation("auth.register", "Role must be TENANT or LANDLORD")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, types.Validation("auth.register", "First name is required")
	}
	if in.Role == models.RoleTenant && in.ComplexID == nil {
		return nil, types.Validation("auth.register", "Tenants must select a complex")
	}
	if in.ComplexID != nil {
		if _, err := GetComplex(db, *in.ComplexID); err != nil {
			if types.IsKind(err, types.KindNotFound) {
				return nil, types.Validation("auth.register", "Complex %d does not exist", *in.ComplexID)
			}
			return nil, err
		}
	}

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return nil, types.Dependency("auth.register", err)
	}
	if existing > 0 {
		return nil, types.Validation("auth.register", "Email is already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, types.Dependency("auth.register", err)
	}

	user := models.User{
		Email:           in.Email,
		PasswordHash:    hash,
		Role:            in.Role,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Phone:           in.Phone,
		ApartmentNumber: in.ApartmentNumber,
		BuildingName:    in.BuildingName,
		ComplexID:       in.ComplexID,
		Preferences:     models.DefaultPreferences(),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, types.Dependency("auth.register", err)
	}
	return signIn(tokens, &user)
}

// Login checks a password and signs a credential
func Login(db *gorm.DB, tokens TokenIssuer, email, password string) (*AuthResult, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.Unauthenticated("auth.login", "Invalid email or password")
		}
		return nil, types.Dependency("auth.login", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, types.Unauthenticated("auth.login", "Invalid email or password")
	}
	return signIn(tokens, &user)
}

func signIn(tokens TokenIssuer, user *models.User) (*AuthResult, error) {
	token, err := tokens.Issue(user)
	if err != nil {
		return nil, types.Dependency("auth.token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// GetPreferences returns the actor's stored preferences
func GetPreferences(db *gorm.DB, actor access.Actor) (map[string]interface{}, error) {
	_, user, err := LoadActor(db, actor.ID)
	if err != nil {
		return nil, err
	}
	prefs := user.PreferenceMap()
	if _, ok := prefs[models.PreferenceEmailNotifications]; !ok {
		prefs[models.PreferenceEmailNotifications] = true
	}
	return prefs, nil
}

// UpdatePreferences merges changes into the actor's preferences
func UpdatePreferences(db *gorm.DB, actor access.Actor, changes map[string]interface{}) (map[string]interface{}, error) {
	if v, ok := changes[models.PreferenceEmailNotifications]; ok {
		if _, isBool := v.(bool); !isBool {
			return nil, types.Validation("user.preferences", "%s must be a boolean", models.PreferenceEmailNotifications)
		}
	}

	var merged map[string]interface{}
	err := db.Transaction(func(tx *gorm.DB) error {
		_, user, err := LoadActor(tx, actor.ID)
		if err != nil {
			return err
		}
		merged = user.PreferenceMap()
		for k, v := range changes {
			merged[k] = v
		}
		prefs, err := models.NewJSON(merged)
		if err != nil {
			return types.Validation("user.preferences", "Preferences must be a JSON object")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", actor.ID).Update("preferences", prefs).Error; err != nil {
			return types.Dependency("user.preferences", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
