package models

import (
	"time"
)

// QuestionType is the integer code stored in questions.question_type
type QuestionType int

const (
	QuestionSingleChoice QuestionType = 1
	QuestionMultiChoice  QuestionType = 2
	QuestionRating       QuestionType = 3
	QuestionFreeText     QuestionType = 4
)

// IsValid checks if the question type is one of the four known codes
func (t QuestionType) IsValid() bool {
	return t >= QuestionSingleChoice && t <= QuestionFreeText
}

// HasChoices reports whether answers to this type reference choices
func (t QuestionType) HasChoices() bool {
	return t == QuestionSingleChoice || t == QuestionMultiChoice
}

func (t QuestionType) String() string {
	switch t {
	case QuestionSingleChoice:
		return "single-choice"
	case QuestionMultiChoice:
		return "multi-choice"
	case QuestionRating:
		return "rating"
	case QuestionFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Questionnaire is a survey authored by an admin for one department.
type Questionnaire struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Title        string      `json:"title" gorm:"size:32;not null"`
	Description  string      `json:"description" gorm:"size:512;not null"`
	CreatedAt    time.Time   `json:"created_at" gorm:"column:create_time;autoCreateTime;<-:create"`
	AdminID      uint        `json:"admin_id" gorm:"not null;index"`
	Admin        *Admin      `json:"admin,omitempty" gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	DepartmentID uint        `json:"department_id" gorm:"not null;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuestionnaireID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for the Questionnaire model
func (Questionnaire) TableName() string {
	return "questionnaires"
}

// Question belongs to a questionnaire; choice questions own their choices.
type Question struct {
	ID              uint         `json:"id" gorm:"primaryKey"`
	Content         string       `json:"content" gorm:"size:256;not null"`
	QuestionType    QuestionType `json:"question_type" gorm:"type:int;not null;check:question_type >= 1 AND question_type <= 4"`
	QuestionnaireID uint         `json:"questionnaire_id" gorm:"not null;index"`

	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for the Question model
func (Question) TableName() string {
	return "questions"
}

// Choice is a selectable option carrying a score.
type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"size:32;not null"`
	Score      int    `json:"score" gorm:"not null;default:0"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
}

// TableName specifies the table name for the Choice model
func (Choice) TableName() string {
	return "choices"
}

// QuestionnaireRequest represents the request structure for creating/updating questionnaires.
// AdminID defaults to the signed-in admin when zero.
type QuestionnaireRequest struct {
	Title        string `json:"title" binding:"required,max=32"`
	Description  string `json:"description" binding:"max=512"`
	AdminID      uint   `json:"admin_id"`
	DepartmentID uint   `json:"department_id" binding:"required"`
}

// QuestionRequest represents the request structure for creating/updating questions
type QuestionRequest struct {
	Content         string       `json:"content" binding:"required,max=256"`
	QuestionType    QuestionType `json:"question_type" binding:"required,min=1,max=4"`
	QuestionnaireID uint         `json:"questionnaire_id" binding:"required"`
}

// ChoiceRequest represents the request structure for creating/updating choices
type ChoiceRequest struct {
	Title      string `json:"title" binding:"required,max=32"`
	Score      int    `json:"score"`
	QuestionID uint   `json:"question_id" binding:"required"`
}
