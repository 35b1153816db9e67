package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eskildht/inginious/internal/models"
)

var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err is a missing-record condition from
// any repository implementation.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	IsRegistered(ctx context.Context, courseID, username string) (bool, error)
	Register(ctx context.Context, courseID, username string) error
}

type TaskRepository interface {
	GetByID(ctx context.Context, courseID, taskID string) (*models.TaskRecord, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.TaskRecord, error)
	Upsert(ctx context.Context, record *models.TaskRecord) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	ListForUserTask(ctx context.Context, courseID, taskID, username string) ([]*models.Submission, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Submission, error)
}

// Repository bundles all repositories behind one access point.
type Repository interface {
	Course() CourseRepository
	Task() TaskRepository
	Submission() SubmissionRepository
}
