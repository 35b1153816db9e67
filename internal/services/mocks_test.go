package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/eskildht/inginious/internal/cache"
	"github.com/eskildht/inginious/internal/events"
	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/repositories"
)

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) IsRegistered(ctx context.Context, courseID, username string) (bool, error) {
	args := m.Called(ctx, courseID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) Register(ctx context.Context, courseID, username string) error {
	args := m.Called(ctx, courseID, username)
	return args.Error(0)
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetByID(ctx context.Context, courseID, taskID string) (*models.TaskRecord, error) {
	args := m.Called(ctx, courseID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskRecord), args.Error(1)
}

func (m *MockTaskRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.TaskRecord, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskRecord), args.Error(1)
}

func (m *MockTaskRepository) Upsert(ctx context.Context, record *models.TaskRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListForUserTask(ctx context.Context, courseID, taskID, username string) ([]*models.Submission, error) {
	args := m.Called(ctx, courseID, taskID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Submission, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

// mockRepository bundles the repository mocks for services that take the
// full Repository.
type mockRepository struct {
	course     *MockCourseRepository
	task       *MockTaskRepository
	submission *MockSubmissionRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		course:     new(MockCourseRepository),
		task:       new(MockTaskRepository),
		submission: new(MockSubmissionRepository),
	}
}

func (r *mockRepository) Course() repositories.CourseRepository         { return r.course }
func (r *mockRepository) Task() repositories.TaskRepository             { return r.task }
func (r *mockRepository) Submission() repositories.SubmissionRepository { return r.submission }

// MockJobPublisher is a mock implementation of GradingJobPublisher
type MockJobPublisher struct {
	mock.Mock
}

func (m *MockJobPublisher) PublishGradingJob(ctx context.Context, job *events.GradingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// missCache always misses so tests exercise the repository path.
type missCache struct{}

func (missCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (missCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (missCache) Delete(ctx context.Context, key string) error            { return nil }
func (missCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
