package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-server/models"
)

func TestAuthenticate_Employee(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.db, testBcryptCost)

	principal, err := auth.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, f.employee.ID, principal.ID)
	assert.Equal(t, "alice", principal.Username)
	assert.Equal(t, models.RoleEmployee, principal.Role)
}

func TestAuthenticate_Admin(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.db, testBcryptCost)

	principal, err := auth.Authenticate(context.Background(), "root", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, principal.ID)
	assert.Equal(t, models.RoleAdmin, principal.Role)
}

func TestAuthenticate_TrimsUsername(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.db, testBcryptCost)

	principal, err := auth.Authenticate(context.Background(), "  alice ", "secret")
	require.NoError(t, err)
	assert.Equal(t, f.employee.ID, principal.ID)
}

func TestAuthenticate_EmployeeCheckedBeforeAdmin(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.Admin{Username: "alice", PasswordHash: hash(t, "secret")}).Error)
	auth := NewAuthService(f.db, testBcryptCost)

	principal, err := auth.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, principal.Role)
	assert.Equal(t, f.employee.ID, principal.ID)
}

func TestAuthenticate_FallsBackToAdminOnEmployeePasswordMismatch(t *testing.T) {
	f := newFixture(t)
	admin := models.Admin{Username: "alice", PasswordHash: hash(t, "other")}
	require.NoError(t, f.db.Create(&admin).Error)
	auth := NewAuthService(f.db, testBcryptCost)

	principal, err := auth.Authenticate(context.Background(), "alice", "other")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)
	assert.Equal(t, admin.ID, principal.ID)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.db, testBcryptCost)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown user", "bob", "wrong"},
		{"empty password", "root", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := auth.Authenticate(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, principal)
		})
	}
}

func TestAuthenticate_SameComparisonsForEveryOutcome(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.db, testBcryptCost)

	var calls int
	compare := auth.compare
	auth.compare = func(password, hash string) bool {
		calls++
		return compare(password, hash)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "bob", "wrong"},
		{"employee wrong password", "alice", "wrong"},
		{"admin wrong password", "root", "wrong"},
		{"employee", "alice", "secret"},
		{"admin", "root", "adminpass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			_, _ = auth.Authenticate(context.Background(), tt.username, tt.password)
			assert.Equal(t, 2, calls)
		})
	}
}
