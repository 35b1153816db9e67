package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (r SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r SubmissionPostgreSQL) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r SubmissionPostgreSQL) ListForUserTask(ctx context.Context, courseID, taskID, username string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND task_id = ? AND username = ?", courseID, taskID, username).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r SubmissionPostgreSQL) ListByCourse(ctx context.Context, courseID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("username, task_id, submitted_at").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
