// internal/domain/models/cvfile.go
package models

import "time"

// CVFile is an uploaded CV attached to an idle resource. Only active files
// count toward a resource's cvFilesCount.
type CVFile struct {
	ID         int64     `bson:"_id" json:"id" gorm:"primaryKey;autoIncrement"`
	ResourceID int64     `bson:"resource_id" json:"resourceId" gorm:"index;not null"`
	FileName   string    `bson:"file_name" json:"fileName" gorm:"size:255;not null"`
	IsActive   bool      `bson:"is_active" json:"isActive" gorm:"not null;default:true"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploadedAt"`
}

// TableName keeps the relational table aligned with the Mongo collection.
func (CVFile) TableName() string { return "cv_files" }
