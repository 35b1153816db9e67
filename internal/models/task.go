package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaskRecord is the stored form of a task: its raw authoring descriptor
// plus the listing order. The descriptor is the source of truth; the
// in-memory task model is rebuilt from it on every load.
type TaskRecord struct {
	CourseID string `json:"course_id" gorm:"primaryKey;size:100"`
	TaskID   string `json:"task_id" gorm:"primaryKey;size:100"`

	// Descriptor is the nested authoring content (name, author, weight,
	// accessible, environment, problems, ...).
	Descriptor datatypes.JSON `json:"descriptor" gorm:"type:jsonb;not null"`

	Order int `json:"order" gorm:"column:position;default:-1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TaskRecord) TableName() string {
	return "tasks"
}
