package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"survey-server/models"
	"survey-server/utils"
)

// ErrInvalidCredentials is returned when no employee or admin matches
var ErrInvalidCredentials = errors.New("invalid username or password")

// Principal is an authenticated employee or admin
type Principal struct {
	ID       uint
	Username string
	Role     models.UserRole
}

// AuthService checks credentials against the employee table, then the admin table.
type AuthService struct {
	db         *gorm.DB
	bcryptCost int

	// compare checks a password against a bcrypt hash
	compare func(password, hash string) bool

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, bcryptCost int) *AuthService {
	return &AuthService{db: db, bcryptCost: bcryptCost, compare: utils.CheckPasswordHash}
}

// Authenticate returns the first principal whose username and password
// match. Employees are checked before admins. Every call runs exactly one
// comparison per table, against a dummy hash when the table has no such
// username, so response time does not depend on which usernames exist.
func (as *AuthService) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	username = models.NormalizeUsername(username)
	db := as.db.WithContext(ctx)

	var employee models.Employee
	employeeFound, err := findByUsername(db, username, &employee)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	var admin models.Admin
	adminFound, err := findByUsername(db, username, &admin)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	employeeHash, adminHash := as.dummy(), as.dummy()
	if employeeFound {
		employeeHash = employee.PasswordHash
	}
	if adminFound {
		adminHash = admin.PasswordHash
	}

	employeeOK := as.compare(password, employeeHash) && employeeFound
	adminOK := as.compare(password, adminHash) && adminFound

	switch {
	case employeeOK:
		return &Principal{ID: employee.ID, Username: employee.Username, Role: models.RoleEmployee}, nil
	case adminOK:
		return &Principal{ID: admin.ID, Username: admin.Username, Role: models.RoleAdmin}, nil
	default:
		return nil, ErrInvalidCredentials
	}
}

func findByUsername(db *gorm.DB, username string, dest interface{}) (bool, error) {
	err := db.Where("username = ?", username).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// HashPassword hashes a password with the configured cost
func (as *AuthService) HashPassword(password string) (string, error) {
	return utils.HashPassword(password, as.bcryptCost)
}

func (as *AuthService) dummy() string {
	as.dummyOnce.Do(func() {
		as.dummyHash, _ = utils.HashPassword("survey-server-dummy-password", as.bcryptCost)
	})
	return as.dummyHash
}
