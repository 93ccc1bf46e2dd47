package models

// Department groups employees and is the audience of questionnaires.
type Department struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"column:department_name;size:16"`
}

// TableName specifies the table name for the Department model
func (Department) TableName() string {
	return "departments"
}

// DepartmentRequest represents the request structure for creating/updating departments
type DepartmentRequest struct {
	Name string `json:"name" binding:"max=16"`
}
