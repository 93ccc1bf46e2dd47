package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"survey-server/models"
)

// ErrInvalidAnswer is returned when an answer does not fit its question
var ErrInvalidAnswer = errors.New("invalid answer")

const (
	MinRatingVal     = 0
	MaxRatingVal     = 10
	MaxAnswerContent = 255
)

// AnswerService validates and stores employee answers
type AnswerService struct {
	db *gorm.DB
}

// NewAnswerService creates a new answer service
func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// Submit stores all answers of one submission or none of them. A question
// already answered by the employee fails the whole submission with
// models.ErrDuplicateAnswer.
func (s *AnswerService) Submit(ctx context.Context, employee *models.Employee, questionnaireID uint, inputs []models.AnswerInput) ([]models.Answer, error) {
	questionnaire, err := LoadQuestionnaireForDepartment(s.db.WithContext(ctx), questionnaireID, employee.DepartmentID)
	if err != nil {
		return nil, err
	}

	questions := make(map[uint]*models.Question, len(questionnaire.Questions))
	for i := range questionnaire.Questions {
		questions[questionnaire.Questions[i].ID] = &questionnaire.Questions[i]
	}

	answers := make([]models.Answer, 0, len(inputs))
	seen := make(map[uint]bool, len(inputs))
	for _, input := range inputs {
		question, ok := questions[input.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %d is not part of questionnaire %d", ErrInvalidAnswer, input.QuestionID, questionnaireID)
		}
		if seen[input.QuestionID] {
			return nil, fmt.Errorf("%w: question %d answered twice", ErrInvalidAnswer, input.QuestionID)
		}
		seen[input.QuestionID] = true

		answer, err := buildAnswer(question, input)
		if err != nil {
			return nil, err
		}
		answer.EmployeeID = employee.ID
		answers = append(answers, *answer)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&answers).Error
	})
	if err != nil {
		if models.IsDuplicateKey(err) {
			return nil, models.ErrDuplicateAnswer
		}
		return nil, fmt.Errorf("failed to store answers: %w", err)
	}
	return answers, nil
}

// ListForEmployee returns the employee's answers to one questionnaire
func (s *AnswerService) ListForEmployee(ctx context.Context, employeeID, questionnaireID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.employee_id = ? AND questions.questionnaire_id = ?", employeeID, questionnaireID).
		Order("answers.question_id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// LoadQuestionnaireForDepartment loads a questionnaire with its questions and
// choices if it targets the department.
func LoadQuestionnaireForDepartment(db *gorm.DB, questionnaireID, departmentID uint) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id ASC") }).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("choices.id ASC") }).
		Where("id = ? AND department_id = ?", questionnaireID, departmentID).
		First(&questionnaire).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}
	return &questionnaire, nil
}

func buildAnswer(question *models.Question, input models.AnswerInput) (*models.Answer, error) {
	answer := &models.Answer{QuestionID: question.ID}

	switch question.QuestionType {
	case models.QuestionSingleChoice:
		if input.ChoiceID == nil {
			return nil, fmt.Errorf("%w: question %d requires choice_id", ErrInvalidAnswer, question.ID)
		}
		choice := findChoice(question, *input.ChoiceID)
		if choice == nil {
			return nil, fmt.Errorf("%w: choice %d does not belong to question %d", ErrInvalidAnswer, *input.ChoiceID, question.ID)
		}
		score := choice.Score
		answer.ChoiceID = &choice.ID
		answer.Val = &score

	case models.QuestionMultiChoice:
		if len(input.ChoiceIDs) == 0 {
			return nil, fmt.Errorf("%w: question %d requires choice_ids", ErrInvalidAnswer, question.ID)
		}
		picked := make(map[uint]bool, len(input.ChoiceIDs))
		total := 0
		for _, id := range input.ChoiceIDs {
			choice := findChoice(question, id)
			if choice == nil {
				return nil, fmt.Errorf("%w: choice %d does not belong to question %d", ErrInvalidAnswer, id, question.ID)
			}
			if picked[id] {
				return nil, fmt.Errorf("%w: choice %d selected twice", ErrInvalidAnswer, id)
			}
			picked[id] = true
			total += choice.Score
		}
		encoded, err := json.Marshal(input.ChoiceIDs)
		if err != nil {
			return nil, err
		}
		content := string(encoded)
		first := input.ChoiceIDs[0]
		answer.ChoiceID = &first
		answer.Val = &total
		answer.Content = &content

	case models.QuestionRating:
		if input.Val == nil {
			return nil, fmt.Errorf("%w: question %d requires val", ErrInvalidAnswer, question.ID)
		}
		if *input.Val < MinRatingVal || *input.Val > MaxRatingVal {
			return nil, fmt.Errorf("%w: val must be between %d and %d", ErrInvalidAnswer, MinRatingVal, MaxRatingVal)
		}
		val := *input.Val
		answer.Val = &val

	case models.QuestionFreeText:
		if input.Content == nil || strings.TrimSpace(*input.Content) == "" {
			return nil, fmt.Errorf("%w: question %d requires content", ErrInvalidAnswer, question.ID)
		}
		content := strings.TrimSpace(*input.Content)
		if len([]rune(content)) > MaxAnswerContent {
			return nil, fmt.Errorf("%w: content longer than %d characters", ErrInvalidAnswer, MaxAnswerContent)
		}
		answer.Content = &content

	default:
		return nil, fmt.Errorf("%w: question %d has unknown type %d", ErrInvalidAnswer, question.ID, question.QuestionType)
	}

	return answer, nil
}

func findChoice(question *models.Question, id uint) *models.Choice {
	for i := range question.Choices {
		if question.Choices[i].ID == id {
			return &question.Choices[i]
		}
	}
	return nil
}

// DecodeChoiceIDs reads the choice ids of a multi-choice answer
func DecodeChoiceIDs(answer *models.Answer) []uint {
	if answer.Content == nil {
		if answer.ChoiceID != nil {
			return []uint{*answer.ChoiceID}
		}
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(*answer.Content), &ids); err != nil {
		return nil
	}
	return ids
}
