// internal/domain/models/idleresource.go
package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// IdleResource is one employee on the bench.
//
// EmployeeCode is unique and never changes after creation. IdleFrom and
// IdleTo are calendar dates stored at UTC midnight. Rate is persisted by
// each store in its native decimal type, so it carries no bson tag here.
type IdleResource struct {
	ID           int64            `bson:"_id" json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeCode string           `bson:"employee_code" json:"employeeCode" gorm:"size:50;uniqueIndex;not null"`
	FullName     string           `bson:"full_name" json:"fullName" gorm:"size:255;not null"`
	DepartmentID int64            `bson:"department_id" json:"departmentId" gorm:"index;not null"`
	Position     string           `bson:"position" json:"position" gorm:"size:255;not null"`
	Email        *string          `bson:"email,omitempty" json:"email,omitempty" gorm:"size:255"`
	SkillSet     string           `bson:"skill_set,omitempty" json:"skillSet,omitempty" gorm:"type:text"`
	IdleFrom     time.Time        `bson:"idle_from" json:"idleFrom" gorm:"type:date;index;not null"`
	IdleTo       *time.Time       `bson:"idle_to,omitempty" json:"idleTo,omitempty" gorm:"type:date"`
	Status       ResourceStatus   `bson:"status" json:"status" gorm:"size:20;index;not null"`
	Rate         *decimal.Decimal `bson:"-" json:"rate,omitempty" gorm:"type:numeric(12,2)"`
	ProcessNote  string           `bson:"process_note,omitempty" json:"processNote,omitempty" gorm:"type:text"`

	CreatedBy int64     `bson:"created_by" json:"createdBy"`
	UpdatedBy int64     `bson:"updated_by" json:"updatedBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" gorm:"index"`
}

// ResourceRow is an IdleResource as returned by a store query: joined with
// its department name and, in search mode, carrying the relevance score.
type ResourceRow struct {
	IdleResource
	DepartmentName string
	Relevance      int
}

// DepartmentCount is the number of matching resources in one department.
type DepartmentCount struct {
	DepartmentID   int64  `bson:"_id" json:"departmentId" gorm:"column:department_id"`
	DepartmentName string `bson:"department_name" json:"departmentName" gorm:"column:department_name"`
	Count          int64  `bson:"n" json:"count" gorm:"column:n"`
}

// ErrDuplicateEmployeeCode is returned by stores when a unique employee
// code constraint rejects a write.
var ErrDuplicateEmployeeCode = errors.New("employee code already exists")
