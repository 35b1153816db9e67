package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/eskildht/inginious/internal/cache"
	"github.com/eskildht/inginious/internal/i18n"
	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/problems"
	"github.com/eskildht/inginious/internal/repositories"
	"github.com/eskildht/inginious/internal/tasks"
)

const taskDescriptorCacheTTL = time.Minute

// TaskSummary is one row of a course's task listing.
type TaskSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	Deadline string `json:"deadline"`
}

type TaskService interface {
	// Get loads and parses the task. The task content is the source of
	// truth: the in-memory model is rebuilt from the stored descriptor on
	// every load.
	Get(ctx context.Context, courseID, taskID string) (*tasks.Task, error)
	ListForCourse(ctx context.Context, courseID string) ([]TaskSummary, error)
}

type taskService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewTaskService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) TaskService {
	return &taskService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *taskService) Get(ctx context.Context, courseID, taskID string) (*tasks.Task, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	descriptor, err := s.loadDescriptor(ctx, courseID, taskID)
	if err != nil {
		return nil, err
	}

	task, err := tasks.New(courseID, taskID, descriptor, translationRegistry(course))
	if err != nil {
		// A malformed descriptor must never be served to students.
		s.logger.Error("Task descriptor failed to load",
			"course_id", courseID,
			"task_id", taskID,
			"error", err)
		return nil, fmt.Errorf("%w: %s", ErrTaskUnavailable, err)
	}
	return task, nil
}

func (s *taskService) ListForCourse(ctx context.Context, courseID string) ([]TaskSummary, error) {
	records, err := s.repo.Task().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	summaries := make([]TaskSummary, 0, len(records))
	for _, record := range records {
		task, err := s.Get(ctx, courseID, record.TaskID)
		if err != nil {
			// Skip tasks whose descriptor is broken rather than hiding
			// the whole course.
			s.logger.Warn("Skipping unloadable task",
				"course_id", courseID,
				"task_id", record.TaskID,
				"error", err)
			continue
		}
		summaries = append(summaries, TaskSummary{
			ID:       task.ID(),
			Name:     task.Name(),
			Order:    task.Order(),
			Deadline: task.Deadline(),
		})
	}
	return summaries, nil
}

func (s *taskService) loadDescriptor(ctx context.Context, courseID, taskID string) (problems.Content, error) {
	cacheKey := fmt.Sprintf("task:%s:%s", courseID, taskID)

	var descriptor map[string]any
	if err := s.cache.Get(ctx, cacheKey, &descriptor); err == nil {
		return descriptor, nil
	}

	record, err := s.repo.Task().GetByID(ctx, courseID, taskID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if err := json.Unmarshal(record.Descriptor, &descriptor); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskUnavailable, err)
	}

	if err := s.cache.Set(ctx, cacheKey, descriptor, taskDescriptorCacheTTL); err != nil {
		s.logger.Warn("Failed to cache task descriptor", "task_id", taskID, "error", err)
	}
	return descriptor, nil
}

func translationRegistry(course *models.Course) *i18n.Registry {
	if len(course.Translations) == 0 {
		return nil
	}
	var messages map[string]map[string]string
	if err := json.Unmarshal(course.Translations, &messages); err != nil {
		return nil
	}
	return i18n.NewRegistry(messages)
}
