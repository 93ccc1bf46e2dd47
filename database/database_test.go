package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"survey-server/models"
	"survey-server/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedAdmin(db, " root ", "changeme", 4))
	require.NoError(t, SeedAdmin(db, "root", "another", 4))

	var admins []models.Admin
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)
	assert.True(t, utils.CheckPasswordHash("changeme", admins[0].PasswordHash))
}

func TestSeedAdmin_DisabledWithoutCredentials(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedAdmin(db, "", "secret", 4))
	require.NoError(t, SeedAdmin(db, "root", "", 4))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeedAdmin_RejectsPasswordOverBcryptLimit(t *testing.T) {
	db := openTestDB(t)

	err := SeedAdmin(db, "root", strings.Repeat("密", 30), 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "72 bytes")

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDepartmentDeleteRestrictedByEmployees(t *testing.T) {
	db := openTestDB(t)

	department := models.Department{Name: "HR"}
	require.NoError(t, db.Create(&department).Error)
	require.NoError(t, db.Create(&models.Employee{Username: "alice", PasswordHash: "x", DepartmentID: department.ID}).Error)

	err := db.Delete(&models.Department{}, department.ID).Error
	require.Error(t, err)
	assert.True(t, models.IsForeignKeyViolation(err))
}

func TestEmployeeRequiresExistingDepartment(t *testing.T) {
	db := openTestDB(t)

	err := db.Create(&models.Employee{Username: "ghost", PasswordHash: "x", DepartmentID: 42}).Error
	require.Error(t, err)
	assert.True(t, models.IsForeignKeyViolation(err))
}

func TestUniqueUsernames(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&models.Admin{Username: "root", PasswordHash: "x"}).Error)
	err := db.Create(&models.Admin{Username: "root", PasswordHash: "y"}).Error
	require.Error(t, err)
	assert.True(t, models.IsDuplicateKey(err))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on", SQLiteDSN(":memory:"))
	assert.Equal(t, "survey.db?_foreign_keys=on", SQLiteDSN("survey.db"))
	assert.Equal(t, "survey.db?cache=shared&_foreign_keys=on", SQLiteDSN("survey.db?cache=shared"))
}
