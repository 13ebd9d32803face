package database

import (
	"testing"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/config"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorNames(t *testing.T) {
	tests := []struct {
		dbType string
		want   string
	}{
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"postgres", "postgres"},
		{"sqlite", "sqlite"},
		{"sqlite-pure", "sqlite"},
		{"sqlserver", "sqlserver"},
	}
	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			d, err := Dialector(&config.Config{DBType: tt.dbType, DBHost: "db", DBPort: "1", DBDatabase: "tracker"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := Dialector(&config.Config{DBType: "oracle"})
	assert.EqualError(t, err, "unsupported database type: oracle")
}

func TestConnectMigrateAndSeed(t *testing.T) {
	db, err := Connect(&config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:", DBConnectionLimit: 1})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))

	first, err := Seed(db, "hash")
	require.NoError(t, err)
	second, err := Seed(db, "hash")
	require.NoError(t, err)

	assert.Equal(t, first.Issue.ID, second.Issue.ID)
	assert.Equal(t, models.RoleLandlord, second.Landlord.Role)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(2), users)
	assert.True(t, second.Tenant.EmailNotificationsEnabled())
}
