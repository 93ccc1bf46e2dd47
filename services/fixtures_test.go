package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"survey-server/database"
	"survey-server/models"
	"survey-server/utils"
)

const testBcryptCost = 4

type fixture struct {
	db            *gorm.DB
	department    models.Department
	employee      models.Employee
	admin         models.Admin
	questionnaire models.Questionnaire
	single        models.Question
	multi         models.Question
	rating        models.Question
	text          models.Question
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := utils.HashPassword(password, testBcryptCost)
	require.NoError(t, err)
	return h
}

// newFixture creates one department with an employee, an admin and a
// questionnaire holding one question of every type.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newTestDB(t)}

	f.department = models.Department{Name: "HR"}
	require.NoError(t, f.db.Create(&f.department).Error)

	f.employee = models.Employee{Username: "alice", PasswordHash: hash(t, "secret"), DepartmentID: f.department.ID}
	require.NoError(t, f.db.Create(&f.employee).Error)

	f.admin = models.Admin{Username: "root", PasswordHash: hash(t, "adminpass")}
	require.NoError(t, f.db.Create(&f.admin).Error)

	f.questionnaire = models.Questionnaire{
		Title:        "Q3 pulse",
		Description:  "Quarterly survey",
		AdminID:      f.admin.ID,
		DepartmentID: f.department.ID,
	}
	require.NoError(t, f.db.Create(&f.questionnaire).Error)

	f.single = models.Question{
		Content:         "How was the quarter?",
		QuestionType:    models.QuestionSingleChoice,
		QuestionnaireID: f.questionnaire.ID,
		Choices: []models.Choice{
			{Title: "Good", Score: 5},
			{Title: "Bad", Score: 1},
		},
	}
	f.multi = models.Question{
		Content:         "Which perks do you use?",
		QuestionType:    models.QuestionMultiChoice,
		QuestionnaireID: f.questionnaire.ID,
		Choices: []models.Choice{
			{Title: "Gym", Score: 2},
			{Title: "Lunch", Score: 3},
			{Title: "Shuttle", Score: 4},
		},
	}
	f.rating = models.Question{
		Content:         "Rate your team",
		QuestionType:    models.QuestionRating,
		QuestionnaireID: f.questionnaire.ID,
	}
	f.text = models.Question{
		Content:         "Anything else?",
		QuestionType:    models.QuestionFreeText,
		QuestionnaireID: f.questionnaire.ID,
	}
	for _, q := range []*models.Question{&f.single, &f.multi, &f.rating, &f.text} {
		require.NoError(t, f.db.Create(q).Error)
	}

	return f
}

func (f *fixture) addEmployee(t *testing.T, username string) models.Employee {
	t.Helper()
	e := models.Employee{Username: username, PasswordHash: hash(t, "secret"), DepartmentID: f.department.ID}
	require.NoError(t, f.db.Create(&e).Error)
	return e
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
