package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"survey-server/models"
	"survey-server/utils"
	ws "survey-server/websocket"
)

// RegisterAdminRoutes registers the admin management API
func RegisterAdminRoutes(router *gin.RouterGroup, h *Handler) {
	router.GET("/ws", h.LiveFeed)

	departments := router.Group("/departments")
	{
		departments.GET("", h.GetAllDepartments)
		departments.GET("/:id", h.GetDepartmentByID)
		departments.POST("", h.CreateDepartment)
		departments.PUT("/:id", h.UpdateDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)
	}

	employees := router.Group("/employees")
	{
		employees.GET("", h.GetAllEmployees)
		employees.GET("/:id", h.GetEmployeeByID)
		employees.POST("", h.CreateEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}

	admins := router.Group("/admins")
	{
		admins.GET("", h.GetAllAdmins)
		admins.GET("/:id", h.GetAdminByID)
		admins.POST("", h.CreateAdmin)
		admins.PUT("/:id", h.UpdateAdmin)
		admins.DELETE("/:id", h.DeleteAdmin)
	}

	RegisterQuestionnaireAdminRoutes(router, h)
}

// LiveFeed upgrades to a websocket receiving answer submissions as they happen
func (h *Handler) LiveFeed(c *gin.Context) {
	if h.Hub == nil || h.Upgrader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live feed is disabled"})
		return
	}
	ws.ServeWebSocket(h.Hub, h.Upgrader, c.Writer, c.Request, c.GetUint("user_id"))
}

// GetAllDepartments returns all departments
func (h *Handler) GetAllDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&departments).Error; err != nil {
		respondError(c, err, "Department")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    departments,
	})
}

// GetDepartmentByID returns a department by ID
func (h *Handler) GetDepartmentByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var department models.Department
	if err := h.DB.WithContext(c.Request.Context()).First(&department, id).Error; err != nil {
		respondError(c, err, "Department")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    department,
	})
}

// CreateDepartment creates a new department
func (h *Handler) CreateDepartment(c *gin.Context) {
	var req models.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	department := models.Department{Name: req.Name}
	if err := h.DB.WithContext(c.Request.Context()).Create(&department).Error; err != nil {
		respondError(c, err, "Department")
		return
	}

	log.Printf("✅ Department created: %s (ID: %d)", department.Name, department.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Department created successfully",
		"data":    department,
	})
}

// UpdateDepartment updates an existing department
func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var department models.Department
	if err := db.First(&department, id).Error; err != nil {
		respondError(c, err, "Department")
		return
	}

	department.Name = req.Name
	if err := db.Save(&department).Error; err != nil {
		respondError(c, err, "Department")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Department updated successfully",
		"data":    department,
	})
}

// DeleteDepartment deletes a department. Departments with employees or
// questionnaires are kept and reported as a conflict.
func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Department{}, id, "Department")
}

// GetAllEmployees returns employees, optionally filtered by department
func (h *Handler) GetAllEmployees(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := h.DB.WithContext(c.Request.Context()).Model(&models.Employee{})
	if departmentID, ok := queryID(c, "department_id"); ok {
		query = query.Where("department_id = ?", departmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err, "Employee")
		return
	}

	var employees []models.Employee
	if err := query.Offset(offset).Limit(limit).Order("id ASC").Find(&employees).Error; err != nil {
		respondError(c, err, "Employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employees,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetEmployeeByID returns an employee with its department
func (h *Handler) GetEmployeeByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var employee models.Employee
	if err := h.DB.WithContext(c.Request.Context()).Preload("Department").First(&employee, id).Error; err != nil {
		respondError(c, err, "Employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employee,
	})
}

// CreateEmployee creates a new employee with a hashed password
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req models.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !checkPassword(c, req.Password, true) {
		return
	}

	hash, err := h.Auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	employee := models.Employee{
		Username:     models.NormalizeUsername(req.Username),
		PasswordHash: hash,
		DepartmentID: req.DepartmentID,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		respondError(c, err, "Employee")
		return
	}

	log.Printf("✅ Employee created: %s (ID: %d)", employee.Username, employee.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Employee created successfully",
		"data":    employee,
	})
}

// UpdateEmployee updates an employee. An empty password keeps the current one.
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !checkPassword(c, req.Password, false) {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var employee models.Employee
	if err := db.First(&employee, id).Error; err != nil {
		respondError(c, err, "Employee")
		return
	}

	employee.Username = models.NormalizeUsername(req.Username)
	employee.DepartmentID = req.DepartmentID
	if req.Password != "" {
		hash, err := h.Auth.HashPassword(req.Password)
		if err != nil {
			log.Printf("❌ Password hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}
		employee.PasswordHash = hash
	}

	if err := db.Save(&employee).Error; err != nil {
		respondError(c, err, "Employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee updated successfully",
		"data":    employee,
	})
}

// DeleteEmployee deletes an employee together with their answers
func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Employee{}, id, "Employee")
}

// GetAllAdmins returns all admins
func (h *Handler) GetAllAdmins(c *gin.Context) {
	var admins []models.Admin
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&admins).Error; err != nil {
		respondError(c, err, "Admin")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    admins,
	})
}

// GetAdminByID returns an admin by ID
func (h *Handler) GetAdminByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var admin models.Admin
	if err := h.DB.WithContext(c.Request.Context()).First(&admin, id).Error; err != nil {
		respondError(c, err, "Admin")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    admin,
	})
}

// CreateAdmin creates a new admin with a hashed password
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req models.AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !checkPassword(c, req.Password, true) {
		return
	}

	hash, err := h.Auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	admin := models.Admin{Username: models.NormalizeUsername(req.Username), PasswordHash: hash}
	if err := h.DB.WithContext(c.Request.Context()).Create(&admin).Error; err != nil {
		respondError(c, err, "Admin")
		return
	}

	log.Printf("✅ Admin created: %s (ID: %d)", admin.Username, admin.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin created successfully",
		"data":    admin,
	})
}

// UpdateAdmin updates an admin. An empty password keeps the current one.
func (h *Handler) UpdateAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !checkPassword(c, req.Password, false) {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var admin models.Admin
	if err := db.First(&admin, id).Error; err != nil {
		respondError(c, err, "Admin")
		return
	}

	admin.Username = models.NormalizeUsername(req.Username)
	if req.Password != "" {
		hash, err := h.Auth.HashPassword(req.Password)
		if err != nil {
			log.Printf("❌ Password hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}
		admin.PasswordHash = hash
	}

	if err := db.Save(&admin).Error; err != nil {
		respondError(c, err, "Admin")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin updated successfully",
		"data":    admin,
	})
}

// DeleteAdmin deletes an admin who owns no questionnaires
func (h *Handler) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &models.Admin{}, id, "Admin")
}

// deleteByID deletes one row of model's table and answers 404 when nothing matched
func (h *Handler) deleteByID(c *gin.Context, model interface{}, id uint, entity string) {
	result := h.DB.WithContext(c.Request.Context()).Delete(model, id)
	if result.Error != nil {
		respondError(c, result.Error, entity)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
		return
	}

	log.Printf("✅ %s deleted (ID: %d)", entity, id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": entity + " deleted successfully",
	})
}

// checkPassword answers 400 with a password field error when the password
// is missing but required, or longer than bcrypt accepts
func checkPassword(c *gin.Context, password string, required bool) bool {
	switch {
	case password == "" && required:
		fieldError(c, "password", utils.MsgRequired)
	case utils.PasswordTooLong(password):
		fieldError(c, "password", utils.MsgPasswordTooLong)
	default:
		return true
	}
	return false
}
