package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	ManagerID        string `json:"manager_id" binding:"omitempty,uuid"`
	EmployeeNumber   string `json:"employee_number"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	ManagerID        string `json:"manager_id" binding:"omitempty,uuid"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	CompanyID        string `json:"company_id"`
	ManagerID        string `json:"manager_id,omitempty"`
	EmployeeNumber   string `json:"employee_number"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	HireDate         string `json:"hire_date"`
	EmploymentStatus string `json:"employment_status"`
}
