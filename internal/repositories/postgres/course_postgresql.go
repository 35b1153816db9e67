package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/repositories"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (r CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r CoursePostgreSQL) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	if err := r.db.WithContext(ctx).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r CoursePostgreSQL) IsRegistered(ctx context.Context, courseID, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CourseRegistration{}).
		Where("course_id = ? AND username = ?", courseID, username).
		Count(&count).Error
	return count > 0, err
}

func (r CoursePostgreSQL) Register(ctx context.Context, courseID, username string) error {
	registration := &models.CourseRegistration{
		CourseID:     courseID,
		Username:     username,
		RegisteredAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(registration).Error
}
