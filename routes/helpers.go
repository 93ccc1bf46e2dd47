package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"survey-server/models"
	"survey-server/utils"
)

// paramID parses the :id path parameter, answering 400 when it is not a
// positive integer
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric filter from the query string
func queryID(c *gin.Context, key string) (uint, bool) {
	value := c.Query(key)
	if value == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// pagination reads page and limit query parameters
func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return page, limit, (page - 1) * limit
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":       "Invalid request",
		"message":     "Request validation failed",
		"form_errors": utils.ToFormErrors(err),
	})
}

// fieldError answers 400 with a single field level message
func fieldError(c *gin.Context, field, message string) {
	errs := utils.FormErrors{}
	errs.Add(field, message)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":       "Invalid request",
		"message":     "Request validation failed",
		"form_errors": errs,
	})
}

// conflict answers 409 for edits that would break stored answers
func conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{
		"error":   "Conflict",
		"message": message,
	})
}

// respondError maps storage errors to responses
func respondError(c *gin.Context, err error, entity string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case models.IsDuplicateKey(err):
		c.JSON(http.StatusConflict, gin.H{
			"error":   entity + " already exists",
			"message": "A record with the same unique value already exists",
		})
	case models.IsForeignKeyViolation(err):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": "The referenced record does not exist or is still in use",
		})
	default:
		log.Printf("❌ %s operation failed: %v", entity, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
