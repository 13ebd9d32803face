package services

import (
	"testing"
	"time"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/auth"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/testutil"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *auth.Manager {
	m, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.NewDB(t)
	c := testutil.CreateComplex(t, db, "Sunset")
	tokens := newTokens(t)

	res, err := Register(db, tokens, RegisterInput{
		Email: " Tenant@Example.com ", Password: "password123", FirstName: "Tia", ComplexID: &c.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant@example.com", res.User.Email)
	assert.Equal(t, models.RoleTenant, res.User.Role)
	assert.True(t, res.User.EmailNotificationsEnabled())

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = Register(db, tokens, RegisterInput{
		Email: "tenant@example.com", Password: "password123", FirstName: "Tia", ComplexID: &c.ID,
	})
	assert.True(t, types.IsKind(err, types.KindValidationFailed))

	login, err := Login(db, tokens, "TENANT@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = Login(db, tokens, "tenant@example.com", "wrong-password")
	assert.True(t, types.IsKind(err, types.KindUnauthenticated))
	_, err = Login(db, tokens, "nobody@example.com", "password123")
	assert.True(t, types.IsKind(err, types.KindUnauthenticated))
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := newTokens(t)
	missing := uint(99)

	cases := map[string]RegisterInput{
		"bad email":       {Email: "nope", Password: "password123", FirstName: "A", Role: models.RoleLandlord},
		"short password":  {Email: "a@example.com", Password: "short", FirstName: "A", Role: models.RoleLandlord},
		"admin role":      {Email: "a@example.com", Password: "password123", FirstName: "A", Role: models.RoleAdmin},
		"tenant no home":  {Email: "a@example.com", Password: "password123", FirstName: "A", Role: models.RoleTenant},
		"unknown complex": {Email: "a@example.com", Password: "password123", FirstName: "A", ComplexID: &missing},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Register(db, tokens, in)
			assert.True(t, types.IsKind(err, types.KindValidationFailed), "got %v", err)
		})
	}
}

func TestLandlordComplexBackfill(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := newTokens(t)

	res, err := Register(db, tokens, RegisterInput{
		Email: "owner@example.com", Password: "password123", FirstName: "Olu", Role: models.RoleLandlord,
	})
	require.NoError(t, err)
	assert.Nil(t, res.User.ComplexID)

	landlord := testutil.Actor(res.User)
	c, err := CreateComplex(db, landlord, ComplexInput{Name: "Harbor View", Address: "1 Pier Rd"})
	require.NoError(t, err)

	actor, _, err := LoadActor(db, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, actor.ComplexID)
	assert.Equal(t, c.ID, *actor.ComplexID)

	// A second complex does not move the landlord
	_, err = CreateComplex(db, actor, ComplexInput{Name: "Second", Address: "2 Pier Rd"})
	require.NoError(t, err)
	actor, _, err = LoadActor(db, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, *actor.ComplexID)

	list, err := ListComplexes(db)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTenantCannotCreateComplex(t *testing.T) {
	f := newFixture(t)
	_, err := CreateComplex(f.db, testutil.Actor(f.tenant), ComplexInput{Name: "X", Address: "Y"})
	assert.True(t, types.IsKind(err, types.KindForbidden))

	testutil.CreateIssue(t, f.db, f.tenant, "leak")
	list, err := ListComplexes(f.db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].IssueCount)
}

func TestPreferences(t *testing.T) {
	f := newFixture(t)
	tenant := testutil.Actor(f.tenant)

	prefs, err := GetPreferences(f.db, tenant)
	require.NoError(t, err)
	assert.Equal(t, true, prefs[models.PreferenceEmailNotifications])

	prefs, err = UpdatePreferences(f.db, tenant, map[string]interface{}{
		models.PreferenceEmailNotifications: false,
		"theme":                             "dark",
	})
	require.NoError(t, err)
	assert.Equal(t, false, prefs[models.PreferenceEmailNotifications])

	_, user, err := LoadActor(f.db, f.tenant.ID)
	require.NoError(t, err)
	assert.False(t, user.EmailNotificationsEnabled())
	assert.Equal(t, "dark", user.PreferenceMap()["theme"])

	_, err = UpdatePreferences(f.db, tenant, map[string]interface{}{models.PreferenceEmailNotifications: "no"})
	assert.True(t, types.IsKind(err, types.KindValidationFailed))
}
