package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"survey-server/models"
)

// ResultsService aggregates the answers of a questionnaire
type ResultsService struct {
	db *gorm.DB
}

// NewResultsService creates a new results service
func NewResultsService(db *gorm.DB) *ResultsService {
	return &ResultsService{db: db}
}

// Results builds per-question statistics for a questionnaire
func (rs *ResultsService) Results(ctx context.Context, questionnaireID uint) (*models.QuestionnaireResults, error) {
	db := rs.db.WithContext(ctx)

	var questionnaire models.Questionnaire
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id ASC") }).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("choices.id ASC") }).
		First(&questionnaire, questionnaireID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}

	var answers []models.Answer
	if err := db.
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.questionnaire_id = ?", questionnaireID).
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	byQuestion := make(map[uint][]models.Answer)
	respondents := make(map[uint]bool)
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
		respondents[a.EmployeeID] = true
	}

	results := &models.QuestionnaireResults{
		QuestionnaireID: questionnaire.ID,
		Title:           questionnaire.Title,
		Respondents:     int64(len(respondents)),
		Questions:       make([]models.QuestionResult, 0, len(questionnaire.Questions)),
	}
	for i := range questionnaire.Questions {
		q := &questionnaire.Questions[i]
		results.Questions = append(results.Questions, summarizeQuestion(q, byQuestion[q.ID]))
	}
	return results, nil
}

func summarizeQuestion(q *models.Question, answers []models.Answer) models.QuestionResult {
	result := models.QuestionResult{
		QuestionID:   q.ID,
		Content:      q.Content,
		QuestionType: q.QuestionType,
		AnswerCount:  int64(len(answers)),
	}

	switch q.QuestionType {
	case models.QuestionSingleChoice, models.QuestionMultiChoice:
		counts := make(map[uint]int64)
		for i := range answers {
			var picked []uint
			if q.QuestionType == models.QuestionMultiChoice {
				picked = DecodeChoiceIDs(&answers[i])
			} else if answers[i].ChoiceID != nil {
				picked = []uint{*answers[i].ChoiceID}
			}
			for _, id := range picked {
				counts[id]++
			}
		}
		result.Choices = make([]models.ChoiceResult, 0, len(q.Choices))
		for _, c := range q.Choices {
			result.Choices = append(result.Choices, models.ChoiceResult{
				ChoiceID:   c.ID,
				Title:      c.Title,
				Score:      c.Score,
				Count:      counts[c.ID],
				TotalScore: counts[c.ID] * int64(c.Score),
			})
		}

	case models.QuestionRating:
		var sum, n int
		for _, a := range answers {
			if a.Val != nil {
				sum += *a.Val
				n++
			}
		}
		if n > 0 {
			avg := float64(sum) / float64(n)
			result.AverageVal = &avg
		}

	case models.QuestionFreeText:
		for _, a := range answers {
			if a.Content != nil {
				result.Texts = append(result.Texts, *a.Content)
			}
		}
	}

	return result
}
