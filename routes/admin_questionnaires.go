package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"survey-server/models"
	"survey-server/utils"
)

// RegisterQuestionnaireAdminRoutes registers questionnaire authoring, answer
// moderation and results routes
func RegisterQuestionnaireAdminRoutes(router *gin.RouterGroup, h *Handler) {
	questionnaires := router.Group("/questionnaires")
	{
		questionnaires.GET("", h.GetAllQuestionnaires)
		questionnaires.GET("/:id", h.GetQuestionnaireByID)
		questionnaires.GET("/:id/results", h.GetQuestionnaireResults)
		questionnaires.POST("", h.CreateQuestionnaire)
		questionnaires.PUT("/:id", h.UpdateQuestionnaire)
		questionnaires.DELETE("/:id", h.DeleteQuestionnaire)
	}

	questions := router.Group("/questions")
	{
		questions.GET("", h.GetAllQuestions)
		questions.GET("/:id", h.GetQuestionByID)
		questions.POST("", h.CreateQuestion)
		questions.PUT("/:id", h.UpdateQuestion)
		questions.DELETE("/:id", h.DeleteQuestion)
	}

	choices := router.Group("/choices")
	{
		choices.GET("", h.GetAllChoices)
		choices.GET("/:id", h.GetChoiceByID)
		choices.POST("", h.CreateChoice)
		choices.PUT("/:id", h.UpdateChoice)
		choices.DELETE("/:id", h.DeleteChoice)
	}

	answers := router.Group("/answers")
	{
		answers.GET("", h.GetAllAnswers)
		answers.GET("/:id", h.GetAnswerByID)
		answers.DELETE("/:id", h.DeleteAnswer)
	}
}

// GetAllQuestionnaires returns questionnaires, newest first
func (h *Handler) GetAllQuestionnaires(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := h.DB.WithContext(c.Request.Context()).Model(&models.Questionnaire{})
	if departmentID, ok := queryID(c, "department_id"); ok {
		query = query.Where("department_id = ?", departmentID)
	}
	if adminID, ok := queryID(c, "admin_id"); ok {
		query = query.Where("admin_id = ?", adminID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	var questionnaires []models.Questionnaire
	if err := query.Offset(offset).Limit(limit).Order("create_time DESC, id DESC").Find(&questionnaires).Error; err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questionnaires,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetQuestionnaireByID returns a questionnaire with its questions and choices
func (h *Handler) GetQuestionnaireByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var questionnaire models.Questionnaire
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Department").
		Preload("Admin").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id ASC") }).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("choices.id ASC") }).
		First(&questionnaire, id).Error
	if err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questionnaire,
	})
}

// GetQuestionnaireResults returns aggregated answers for a questionnaire
func (h *Handler) GetQuestionnaireResults(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	results, err := h.Results.Results(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// CreateQuestionnaire creates a questionnaire owned by the given admin, or by
// the calling admin when none is given
func (h *Handler) CreateQuestionnaire(c *gin.Context) {
	var req models.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	questionnaire := models.Questionnaire{
		Title:        req.Title,
		Description:  req.Description,
		AdminID:      req.AdminID,
		DepartmentID: req.DepartmentID,
	}
	if questionnaire.AdminID == 0 {
		questionnaire.AdminID = c.GetUint("user_id")
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&questionnaire).Error; err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	log.Printf("✅ Questionnaire created: %s (ID: %d, department %d)", questionnaire.Title, questionnaire.ID, questionnaire.DepartmentID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Questionnaire created successfully",
		"data":    questionnaire,
	})
}

// UpdateQuestionnaire updates a questionnaire. The creation time is kept.
func (h *Handler) UpdateQuestionnaire(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var questionnaire models.Questionnaire
	if err := db.First(&questionnaire, id).Error; err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	questionnaire.Title = req.Title
	questionnaire.Description = req.Description
	questionnaire.DepartmentID = req.DepartmentID
	if req.AdminID != 0 {
		questionnaire.AdminID = req.AdminID
	}

	if err := db.Save(&questionnaire).Error; err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Questionnaire updated successfully",
		"data":    questionnaire,
	})
}

// DeleteQuestionnaire deletes a questionnaire with its questions, choices and answers
func (h *Handler) DeleteQuestionnaire(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Questionnaire{}, id, "Questionnaire")
}

// GetAllQuestions returns questions, optionally filtered by questionnaire
func (h *Handler) GetAllQuestions(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).Model(&models.Question{})
	if questionnaireID, ok := queryID(c, "questionnaire_id"); ok {
		query = query.Where("questionnaire_id = ?", questionnaireID)
	}

	var questions []models.Question
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		respondError(c, err, "Question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questions,
	})
}

// GetQuestionByID returns a question with its choices
func (h *Handler) GetQuestionByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var question models.Question
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("choices.id ASC") }).
		First(&question, id).Error
	if err != nil {
		respondError(c, err, "Question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    question,
	})
}

// CreateQuestion adds a question to a questionnaire
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req models.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	question := models.Question{
		Content:         req.Content,
		QuestionType:    req.QuestionType,
		QuestionnaireID: req.QuestionnaireID,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&question).Error; err != nil {
		respondError(c, err, "Question")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Question created successfully",
		"data":    question,
	})
}

// UpdateQuestion updates a question
func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var question models.Question
	if err := db.First(&question, id).Error; err != nil {
		respondError(c, err, "Question")
		return
	}

	if req.QuestionType != question.QuestionType || req.QuestionnaireID != question.QuestionnaireID {
		answered, err := hasAnswers(db, question.ID)
		if err != nil {
			respondError(c, err, "Question")
			return
		}
		if answered {
			conflict(c, "The question already has answers, so its type and questionnaire cannot change")
			return
		}
	}

	question.Content = req.Content
	question.QuestionType = req.QuestionType
	question.QuestionnaireID = req.QuestionnaireID
	if err := db.Save(&question).Error; err != nil {
		respondError(c, err, "Question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Question updated successfully",
		"data":    question,
	})
}

// DeleteQuestion deletes a question with its choices and answers
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Question{}, id, "Question")
}

// GetAllChoices returns choices, optionally filtered by question
func (h *Handler) GetAllChoices(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).Model(&models.Choice{})
	if questionID, ok := queryID(c, "question_id"); ok {
		query = query.Where("question_id = ?", questionID)
	}

	var choices []models.Choice
	if err := query.Order("id ASC").Find(&choices).Error; err != nil {
		respondError(c, err, "Choice")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    choices,
	})
}

// GetChoiceByID returns a choice by ID
func (h *Handler) GetChoiceByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var choice models.Choice
	if err := h.DB.WithContext(c.Request.Context()).First(&choice, id).Error; err != nil {
		respondError(c, err, "Choice")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    choice,
	})
}

// CreateChoice adds a choice to a question
func (h *Handler) CreateChoice(c *gin.Context) {
	var req models.ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	if !choiceTarget(c, db, req.QuestionID) {
		return
	}

	choice := models.Choice{
		Title:      req.Title,
		Score:      req.Score,
		QuestionID: req.QuestionID,
	}
	if err := db.Create(&choice).Error; err != nil {
		respondError(c, err, "Choice")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Choice created successfully",
		"data":    choice,
	})
}

// UpdateChoice updates a choice
func (h *Handler) UpdateChoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var choice models.Choice
	if err := db.First(&choice, id).Error; err != nil {
		respondError(c, err, "Choice")
		return
	}

	if req.QuestionID != choice.QuestionID {
		answered, err := hasAnswers(db, choice.QuestionID)
		if err != nil {
			respondError(c, err, "Choice")
			return
		}
		if answered {
			conflict(c, "The choice belongs to an answered question and cannot move")
			return
		}
		if !choiceTarget(c, db, req.QuestionID) {
			return
		}
	}

	choice.Title = req.Title
	choice.Score = req.Score
	choice.QuestionID = req.QuestionID
	if err := db.Save(&choice).Error; err != nil {
		respondError(c, err, "Choice")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Choice updated successfully",
		"data":    choice,
	})
}

// DeleteChoice deletes a choice. Answers pointing at it keep their row with
// the choice cleared.
func (h *Handler) DeleteChoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Choice{}, id, "Choice")
}

// GetAllAnswers returns answers filtered by question, employee or questionnaire
func (h *Handler) GetAllAnswers(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := h.DB.WithContext(c.Request.Context()).Model(&models.Answer{})
	if questionID, ok := queryID(c, "question_id"); ok {
		query = query.Where("answers.question_id = ?", questionID)
	}
	if employeeID, ok := queryID(c, "employee_id"); ok {
		query = query.Where("answers.employee_id = ?", employeeID)
	}
	if questionnaireID, ok := queryID(c, "questionnaire_id"); ok {
		query = query.
			Joins("JOIN questions ON questions.id = answers.question_id").
			Where("questions.questionnaire_id = ?", questionnaireID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err, "Answer")
		return
	}

	var answers []models.Answer
	if err := query.Offset(offset).Limit(limit).Order("answers.id ASC").Find(&answers).Error; err != nil {
		respondError(c, err, "Answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answers,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetAnswerByID returns an answer with its employee, question and choice
func (h *Handler) GetAnswerByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var answer models.Answer
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Employee").
		Preload("Question").
		Preload("Choice").
		First(&answer, id).Error
	if err != nil {
		respondError(c, err, "Answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answer,
	})
}

// DeleteAnswer deletes an answer so the employee can answer the question again
func (h *Handler) DeleteAnswer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Answer{}, id, "Answer")
}

// hasAnswers reports whether any answer references the question. Multi-choice
// answers keep their choice ids in content, so the check is per question.
func hasAnswers(db *gorm.DB, questionID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// choiceTarget checks that the question exists and takes choices
func choiceTarget(c *gin.Context, db *gorm.DB, questionID uint) bool {
	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		respondError(c, err, "Question")
		return false
	}
	if !question.QuestionType.HasChoices() {
		fieldError(c, "question_id", utils.MsgInvalid)
		return false
	}
	return true
}
