package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"survey-server/models"
	"survey-server/services"
	"survey-server/utils"
	ws "survey-server/websocket"
)

// RegisterSurveyRoutes registers the routes employees use to answer questionnaires
func RegisterSurveyRoutes(router *gin.RouterGroup, h *Handler) {
	questionnaires := router.Group("/questionnaires")
	{
		questionnaires.GET("", h.GetMyQuestionnaires)
		questionnaires.GET("/:id", h.GetMyQuestionnaire)
		questionnaires.POST("/:id/answers", h.SubmitAnswers)
		questionnaires.GET("/:id/answers", h.GetMyAnswers)
	}
}

// currentEmployee loads the employee behind the session
func (h *Handler) currentEmployee(c *gin.Context) (*models.Employee, bool) {
	var employee models.Employee
	if err := h.DB.WithContext(c.Request.Context()).First(&employee, c.GetUint("user_id")).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User not found",
			"message": "Employee associated with session not found",
		})
		return nil, false
	}
	return &employee, true
}

// GetMyQuestionnaires returns questionnaires addressed to the employee's department
func (h *Handler) GetMyQuestionnaires(c *gin.Context) {
	employee, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	var questionnaires []models.Questionnaire
	if err := h.DB.WithContext(c.Request.Context()).
		Where("department_id = ?", employee.DepartmentID).
		Order("create_time DESC").
		Find(&questionnaires).Error; err != nil {
		log.Printf("❌ Failed to fetch questionnaires: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questionnaires"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questionnaires,
	})
}

// GetMyQuestionnaire returns one questionnaire with its questions and choices
func (h *Handler) GetMyQuestionnaire(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	employee, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	questionnaire, err := services.LoadQuestionnaireForDepartment(h.DB.WithContext(c.Request.Context()), id, employee.DepartmentID)
	if err != nil {
		respondError(c, err, "Questionnaire")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questionnaire,
	})
}

// SubmitAnswers stores the employee's answers to a questionnaire
func (h *Handler) SubmitAnswers(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.AnswerSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Invalid request",
			"message":     "Answer submission is invalid",
			"form_errors": utils.ToFormErrors(err),
		})
		return
	}

	employee, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	answers, err := h.Answers.Submit(c.Request.Context(), employee, id, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAnswer):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid answer",
				"message": err.Error(),
			})
		case errors.Is(err, models.ErrDuplicateAnswer):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Already answered",
				"message": "You have already answered one of these questions",
			})
		default:
			respondError(c, err, "Questionnaire")
		}
		return
	}

	questionIDs := make([]uint, 0, len(answers))
	for _, a := range answers {
		questionIDs = append(questionIDs, a.QuestionID)
	}
	if h.Hub != nil {
		h.Hub.Publish(ws.MessageAnswerSubmitted, ws.AnswerEvent{
			QuestionnaireID: id,
			EmployeeID:      employee.ID,
			Username:        employee.Username,
			QuestionIDs:     questionIDs,
		})
	}

	log.Printf("✅ Employee %d submitted %d answers to questionnaire %d", employee.ID, len(answers), id)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Answers submitted successfully",
		"data":    answers,
	})
}

// GetMyAnswers returns the employee's answers to a questionnaire
func (h *Handler) GetMyAnswers(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	answers, err := h.Answers.ListForEmployee(c.Request.Context(), c.GetUint("user_id"), id)
	if err != nil {
		respondError(c, err, "Answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answers,
	})
}
