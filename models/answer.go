package models

import (
	"time"
)

// Answer is one employee's response to one question. The unique index on
// (employee_id, question_id) is the only guard against double submission.
type Answer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ChoiceID   *uint     `json:"choice_id" gorm:"index"`
	Choice     *Choice   `json:"choice,omitempty" gorm:"foreignKey:ChoiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Val        *int      `json:"val"`
	Content    *string   `json:"content" gorm:"size:255"`
	EmployeeID uint      `json:"employee_id" gorm:"not null;uniqueIndex:idx_answer_employee_question,priority:1"`
	Employee   *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_employee_question,priority:2;index"`
	Question   *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the Answer model
func (Answer) TableName() string {
	return "answers"
}

// AnswerInput is one item of an answer submission. Which fields are
// required depends on the question type.
type AnswerInput struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	ChoiceID   *uint   `json:"choice_id"`
	ChoiceIDs  []uint  `json:"choice_ids"`
	Val        *int    `json:"val"`
	Content    *string `json:"content"`
}

// AnswerSubmission represents the request structure for submitting answers
type AnswerSubmission struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// QuestionResult aggregates the answers given to one question
type QuestionResult struct {
	QuestionID   uint           `json:"question_id"`
	Content      string         `json:"content"`
	QuestionType QuestionType   `json:"question_type"`
	AnswerCount  int64          `json:"answer_count"`
	Choices      []ChoiceResult `json:"choices,omitempty"`
	AverageVal   *float64       `json:"average_val,omitempty"`
	Texts        []string       `json:"texts,omitempty"`
}

// ChoiceResult counts how often a choice was picked
type ChoiceResult struct {
	ChoiceID   uint   `json:"choice_id"`
	Title      string `json:"title"`
	Score      int    `json:"score"`
	Count      int64  `json:"count"`
	TotalScore int64  `json:"total_score"`
}

// QuestionnaireResults is the admin view of a questionnaire's answers
type QuestionnaireResults struct {
	QuestionnaireID uint             `json:"questionnaire_id"`
	Title           string           `json:"title"`
	Respondents     int64            `json:"respondents"`
	Questions       []QuestionResult `json:"questions"`
}
