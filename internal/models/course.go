package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is a stored course document. Task content lives in TaskRecord
// rows; the course row carries listing metadata, visibility and staff.
type Course struct {
	ID   string `json:"id" gorm:"primaryKey;size:100"`
	Name string `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`

	// Open marks the course visible and joinable for non-staff students.
	Open bool `json:"open" gorm:"default:false;index"`

	// Accessibility and registration windows, descriptor form (see
	// tasks.ParseAccessibleTime). Empty means always.
	Accessible   string `json:"accessible" gorm:"size:50"`
	Registration string `json:"registration" gorm:"size:50"`

	// Admins is a JSON list of staff usernames.
	Admins datatypes.JSON `json:"admins" gorm:"type:jsonb"`

	// Translations is an optional JSON mapping language -> key -> text,
	// used to localize problem feedback for this course.
	Translations datatypes.JSON `json:"translations" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tasks         []TaskRecord         `json:"tasks" gorm:"foreignKey:CourseID"`
	Registrations []CourseRegistration `json:"-" gorm:"foreignKey:CourseID"`
}

// CourseRegistration is a student's membership in a course.
type CourseRegistration struct {
	CourseID     string    `json:"course_id" gorm:"primaryKey;size:100"`
	Username     string    `json:"username" gorm:"primaryKey;size:100;index"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (Course) TableName() string {
	return "courses"
}

func (CourseRegistration) TableName() string {
	return "course_registrations"
}

// IsOpenToNonStaff reports whether students who are not staff may see the
// course on the listing page.
func (c *Course) IsOpenToNonStaff() bool {
	return c.Open
}
