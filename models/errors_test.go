package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: answers.employee_id, answers.question_id")))
	assert.False(t, IsDuplicateKey(&pq.Error{Code: "23503"}))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.False(t, IsForeignKeyViolation(nil))
	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
}

func TestQuestionType(t *testing.T) {
	assert.True(t, QuestionSingleChoice.HasChoices())
	assert.True(t, QuestionMultiChoice.HasChoices())
	assert.False(t, QuestionRating.HasChoices())
	assert.False(t, QuestionFreeText.HasChoices())

	assert.True(t, QuestionFreeText.IsValid())
	assert.False(t, QuestionType(0).IsValid())
	assert.False(t, QuestionType(5).IsValid())
}

func TestUserRole(t *testing.T) {
	assert.True(t, RoleEmployee.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, UserRole("").IsValid())
	assert.Equal(t, "alice", NormalizeUsername("  alice\t"))
}
