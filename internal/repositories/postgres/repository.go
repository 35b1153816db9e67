package postgres

import (
	"gorm.io/gorm"

	"github.com/eskildht/inginious/internal/repositories"
)

type repository struct {
	course     repositories.CourseRepository
	task       repositories.TaskRepository
	submission repositories.SubmissionRepository
}

// NewRepository bundles the PostgreSQL implementations behind the
// Repository access point.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		course:     NewCoursePostgreSQL(db),
		task:       NewTaskPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
	}
}

func (r *repository) Course() repositories.CourseRepository         { return r.course }
func (r *repository) Task() repositories.TaskRepository             { return r.task }
func (r *repository) Submission() repositories.SubmissionRepository { return r.submission }
