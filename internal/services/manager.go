package services

import (
	"log/slog"

	"github.com/eskildht/inginious/internal/cache"
	"github.com/eskildht/inginious/internal/events"
	"github.com/eskildht/inginious/internal/repositories"
)

// ServiceManager bundles all services behind one access point.
type ServiceManager interface {
	Course() CourseService
	Task() TaskService
	Submission() SubmissionService
	Report() ReportService
}

type serviceManager struct {
	course     CourseService
	task       TaskService
	submission SubmissionService
	report     ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.GradingJobPublisher,
	limits SubmissionLimits,
	logger *slog.Logger,
) ServiceManager {
	course := NewCourseService(repo, cacheService, logger)
	task := NewTaskService(repo, cacheService, logger)
	return &serviceManager{
		course:     course,
		task:       task,
		submission: NewSubmissionService(repo, course, task, publisher, limits, logger),
		report:     NewReportService(repo, logger),
	}
}

func (m *serviceManager) Course() CourseService         { return m.course }
func (m *serviceManager) Task() TaskService             { return m.task }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Report() ReportService         { return m.report }
