package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/eskildht/inginious/internal/cache"
	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/repositories"
	"github.com/eskildht/inginious/internal/tasks"
)

const (
	openCoursesCacheKey = "courses:open"
	openCoursesCacheTTL = 30 * time.Second
)

// CourseSummary is one row of the course listing page.
type CourseSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CourseService interface {
	// ListOpen returns every course visible to non-staff students,
	// sorted by name.
	ListOpen(ctx context.Context) ([]CourseSummary, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Register(ctx context.Context, courseID, username string) error
	// IsOpenToUser reports whether username may interact with the
	// course: registered to an open course, or part of its staff.
	IsOpenToUser(ctx context.Context, course *models.Course, username string) (bool, error)
	// IsStaff reports whether username administers the course.
	IsStaff(course *models.Course, username string) bool
}

type courseService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewCourseService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) CourseService {
	return &courseService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *courseService) ListOpen(ctx context.Context) ([]CourseSummary, error) {
	var cached []CourseSummary
	if err := s.cache.Get(ctx, openCoursesCacheKey, &cached); err == nil {
		return cached, nil
	}

	courses, err := s.repo.Course().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		if !course.IsOpenToNonStaff() || !s.windowOpen(course.ID, course.Accessible) {
			continue
		}
		summaries = append(summaries, CourseSummary{ID: course.ID, Name: course.Name})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})

	if err := s.cache.Set(ctx, openCoursesCacheKey, summaries, openCoursesCacheTTL); err != nil {
		s.logger.Warn("Failed to cache open course list", "error", err)
	}
	return summaries, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) Register(ctx context.Context, courseID, username string) error {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.IsOpenToNonStaff() || !s.windowOpen(course.ID, course.Registration) {
		return ErrCourseNotOpen
	}
	if err := s.repo.Course().Register(ctx, courseID, username); err != nil {
		return fmt.Errorf("failed to register to course: %w", err)
	}
	s.logger.Info("Student registered to course",
		"course_id", courseID,
		"username", username)
	return nil
}

func (s *courseService) IsOpenToUser(ctx context.Context, course *models.Course, username string) (bool, error) {
	if s.IsStaff(course, username) {
		return true, nil
	}
	if !course.IsOpenToNonStaff() || !s.windowOpen(course.ID, course.Accessible) {
		return false, nil
	}
	return s.repo.Course().IsRegistered(ctx, course.ID, username)
}

// windowOpen evaluates a course accessibility or registration window.
// Empty means always open; a malformed window closes the course rather
// than exposing it.
func (s *courseService) windowOpen(courseID, window string) bool {
	if window == "" {
		return true
	}
	at, err := tasks.ParseAccessibleTime(window)
	if err != nil {
		s.logger.Warn("Course has malformed accessibility window",
			"course_id", courseID,
			"window", window,
			"error", err)
		return false
	}
	return at.IsOpen()
}

func (s *courseService) IsStaff(course *models.Course, username string) bool {
	var admins []string
	if len(course.Admins) > 0 {
		if err := json.Unmarshal(course.Admins, &admins); err != nil {
			s.logger.Warn("Course has malformed admin list", "course_id", course.ID, "error", err)
			return false
		}
	}
	for _, admin := range admins {
		if admin == username {
			return true
		}
	}
	return false
}
