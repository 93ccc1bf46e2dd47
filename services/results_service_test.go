package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-server/models"
)

func TestResults_Aggregates(t *testing.T) {
	f := newFixture(t)
	bob := f.addEmployee(t, "bob")
	answers := NewAnswerService(f.db)
	ctx := context.Background()

	_, err := answers.Submit(ctx, &f.employee, f.questionnaire.ID, f.fullSubmission())
	require.NoError(t, err)
	_, err = answers.Submit(ctx, &bob, f.questionnaire.ID, []models.AnswerInput{
		{QuestionID: f.single.ID, ChoiceID: uintPtr(f.single.Choices[0].ID)},
		{QuestionID: f.multi.ID, ChoiceIDs: []uint{f.multi.Choices[2].ID}},
		{QuestionID: f.rating.ID, Val: intPtr(3)},
	})
	require.NoError(t, err)

	results, err := NewResultsService(f.db).Results(ctx, f.questionnaire.ID)
	require.NoError(t, err)

	assert.Equal(t, f.questionnaire.ID, results.QuestionnaireID)
	assert.Equal(t, "Q3 pulse", results.Title)
	assert.Equal(t, int64(2), results.Respondents)
	require.Len(t, results.Questions, 4)

	single := results.Questions[0]
	assert.Equal(t, int64(2), single.AnswerCount)
	require.Len(t, single.Choices, 2)
	assert.Equal(t, int64(2), single.Choices[0].Count)
	assert.Equal(t, int64(10), single.Choices[0].TotalScore)
	assert.Equal(t, int64(0), single.Choices[1].Count)

	multi := results.Questions[1]
	require.Len(t, multi.Choices, 3)
	assert.Equal(t, int64(1), multi.Choices[0].Count)
	assert.Equal(t, int64(0), multi.Choices[1].Count)
	assert.Equal(t, int64(2), multi.Choices[2].Count)
	assert.Equal(t, int64(8), multi.Choices[2].TotalScore)

	rating := results.Questions[2]
	require.NotNil(t, rating.AverageVal)
	assert.InDelta(t, 5.5, *rating.AverageVal, 0.0001)

	text := results.Questions[3]
	assert.Equal(t, int64(1), text.AnswerCount)
	assert.Equal(t, []string{"more coffee"}, text.Texts)
}

func TestResults_NoAnswers(t *testing.T) {
	f := newFixture(t)

	results, err := NewResultsService(f.db).Results(context.Background(), f.questionnaire.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), results.Respondents)
	require.Len(t, results.Questions, 4)
	assert.Nil(t, results.Questions[2].AverageVal)
	assert.Empty(t, results.Questions[3].Texts)
}

func TestResults_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := NewResultsService(f.db).Results(context.Background(), 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
