// internal/domain/models/department.go
package models

import "time"

// Department groups idle resources; name and code are both unique.
type Department struct {
	ID          int64     `bson:"_id" json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `bson:"name" json:"name" gorm:"size:255;uniqueIndex;not null"`
	Code        string    `bson:"code" json:"code" gorm:"size:20;uniqueIndex;not null"`
	Description string    `bson:"description,omitempty" json:"description,omitempty" gorm:"type:text"`
	IsActive    bool      `bson:"is_active" json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
