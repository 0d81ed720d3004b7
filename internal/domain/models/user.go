// internal/domain/models/user.go
package models

import "time"

// User is a staff account. Role is one of admin | ra_all | ra_department |
// manager | viewer; DepartmentID is set for department-scoped roles.
type User struct {
	ID           int64     `bson:"_id" json:"id" gorm:"primaryKey;autoIncrement"`
	FullName     string    `bson:"full_name" json:"fullName" gorm:"size:255;not null"`
	Email        string    `bson:"email" json:"email" gorm:"size:255;uniqueIndex;not null"`
	Role         string    `bson:"role" json:"role" gorm:"size:20;not null"`
	DepartmentID *int64    `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	IsActive     bool      `bson:"is_active" json:"isActive" gorm:"not null;default:true"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
