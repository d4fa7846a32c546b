package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	// ManagerID membentuk hirarki organisasi; dipakai untuk resolve approval chain
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`

	EmployeeNumber   string `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FullName         string `gorm:"type:varchar(255);not null"`
	Email            string `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Phone            string `gorm:"type:varchar(30)"`
	HireDate         time.Time
	EmploymentStatus string `gorm:"type:varchar(30);not null;default:'ACTIVE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
