package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/repositories"
)

type TaskPostgreSQL struct {
	db *gorm.DB
}

func NewTaskPostgreSQL(db *gorm.DB) repositories.TaskRepository {
	return &TaskPostgreSQL{db: db}
}

func (r TaskPostgreSQL) GetByID(ctx context.Context, courseID, taskID string) (*models.TaskRecord, error) {
	var record models.TaskRecord
	err := r.db.WithContext(ctx).
		First(&record, "course_id = ? AND task_id = ?", courseID, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r TaskPostgreSQL) ListByCourse(ctx context.Context, courseID string) ([]*models.TaskRecord, error) {
	var records []*models.TaskRecord
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position, task_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r TaskPostgreSQL) Upsert(ctx context.Context, record *models.TaskRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "task_id"}},
			UpdateAll: true,
		}).
		Create(record).Error
}
