package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/eskildht/inginious/internal/events"
	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/problems"
	"github.com/eskildht/inginious/internal/repositories"
	"github.com/eskildht/inginious/internal/tasks"
)

// SubmissionLimits are the platform defaults applied to file boxes that
// do not declare their own.
type SubmissionLimits struct {
	DefaultAllowedExtensions []string
	DefaultMaxFileSize       int64
}

// SubmissionView is the API shape of a submission, matching the contract
// served to clients.
type SubmissionView struct {
	ID          string         `json:"id"`
	SubmittedOn string         `json:"submitted_on"`
	Status      string         `json:"status"`
	Grade       float64        `json:"grade"`
	Input       map[string]any `json:"input"`

	// Present only when status is done.
	Result           string            `json:"result,omitempty"`
	Feedback         string            `json:"feedback,omitempty"`
	ProblemsFeedback map[string]string `json:"problems_feedback,omitempty"`
}

type SubmissionService interface {
	// Create validates the submission against the task and grades it:
	// self-gradable problems in-process, code problems through the
	// external grading backend.
	Create(ctx context.Context, courseID, taskID, username string, input problems.Input) (*SubmissionView, error)
	Get(ctx context.Context, id uint, username string) (*SubmissionView, error)
	ListForTask(ctx context.Context, courseID, taskID, username string) ([]*SubmissionView, error)
	// HandleGradingVerdict finalizes a waiting submission with the
	// external grader's verdict. It is idempotent.
	HandleGradingVerdict(ctx context.Context, verdict *events.GradingVerdict) error
}

type submissionService struct {
	repo      repositories.Repository
	courses   CourseService
	tasksvc   TaskService
	publisher events.GradingJobPublisher
	limits    SubmissionLimits
	logger    *slog.Logger
}

func NewSubmissionService(
	repo repositories.Repository,
	courses CourseService,
	tasksvc TaskService,
	publisher events.GradingJobPublisher,
	limits SubmissionLimits,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		repo:      repo,
		courses:   courses,
		tasksvc:   tasksvc,
		publisher: publisher,
		limits:    limits,
		logger:    logger,
	}
}

func (s *submissionService) Create(ctx context.Context, courseID, taskID, username string, input problems.Input) (*SubmissionView, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	open, err := s.courses.IsOpenToUser(ctx, course, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if !open {
		return nil, ErrNotRegistered
	}

	task, err := s.tasksvc.Get(ctx, courseID, taskID)
	if err != nil {
		return nil, err
	}
	// Staff may submit after the deadline.
	if !task.CanSubmit() && !s.courses.IsStaff(course, username) {
		return nil, ErrDeadlineReached
	}

	adapted := task.AdaptInput(input)
	if !task.InputIsConsistent(adapted, s.limits.DefaultAllowedExtensions, s.limits.DefaultMaxFileSize) {
		return nil, ErrInconsistentInput
	}

	submission := &models.Submission{
		CourseID:    courseID,
		TaskID:      taskID,
		Username:    username,
		Status:      models.SubmissionWaiting,
		SubmittedAt: time.Now(),
	}
	if submission.Input, err = json.Marshal(adapted); err != nil {
		return nil, fmt.Errorf("failed to archive input: %w", err)
	}

	deferred := s.gradeLocally(task, adapted, submission)

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	if deferred {
		job := &events.GradingJob{
			SubmissionID: submission.ID,
			CourseID:     courseID,
			TaskID:       taskID,
			Username:     username,
			Environment:  task.Environment(),
			Input:        adapted,
			Debug:        s.courses.IsStaff(course, username),
			SubmittedAt:  submission.SubmittedAt,
		}
		if err := s.publisher.PublishGradingJob(ctx, job); err != nil {
			submission.Status = models.SubmissionError
			if updateErr := s.repo.Submission().Update(ctx, submission); updateErr != nil {
				s.logger.Error("Failed to mark submission as errored",
					"submission_id", submission.ID,
					"error", updateErr)
			}
			return nil, ErrGraderUnavailable
		}
	}

	s.logger.Info("Submission created",
		"submission_id", submission.ID,
		"course_id", courseID,
		"task_id", taskID,
		"username", username,
		"status", submission.Status)
	return submissionView(submission), nil
}

// gradeLocally runs the in-process graders and fills the submission's
// grading fields. It reports whether any problem deferred to the external
// backend, in which case the submission stays waiting.
func (s *submissionService) gradeLocally(task *tasks.Task, input problems.Input, submission *models.Submission) bool {
	total := len(task.Problems())
	if total == 0 {
		submission.Status = models.SubmissionDone
		submission.Result = models.ResultSuccess
		submission.Grade = 100
		return false
	}

	correct := 0
	deferred := false
	feedback := make(map[string]string, total)
	for _, problem := range task.Problems() {
		result := problem.CheckAnswer(input, "")
		switch result.Verdict {
		case problems.VerdictDeferred:
			deferred = true
		case problems.VerdictCorrect:
			correct++
		}
		if len(result.Messages) > 0 {
			feedback[problem.ID()] = strings.Join(result.Messages, "\n")
		}
	}

	if len(feedback) > 0 {
		if payload, err := json.Marshal(feedback); err == nil {
			submission.ProblemsFeedback = datatypes.JSON(payload)
		}
	}
	if deferred {
		return true
	}

	submission.Status = models.SubmissionDone
	submission.Grade = float64(correct) / float64(total) * 100
	if correct == total {
		submission.Result = models.ResultSuccess
	} else {
		submission.Result = models.ResultFailed
	}
	return false
}

func (s *submissionService) Get(ctx context.Context, id uint, username string) (*SubmissionView, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	// A submission belonging to another user does not exist as far as the
	// caller is concerned.
	if submission.Username != username {
		return nil, ErrSubmissionNotFound
	}
	return submissionView(submission), nil
}

func (s *submissionService) ListForTask(ctx context.Context, courseID, taskID, username string) ([]*SubmissionView, error) {
	submissions, err := s.repo.Submission().ListForUserTask(ctx, courseID, taskID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	views := make([]*SubmissionView, 0, len(submissions))
	for _, submission := range submissions {
		views = append(views, submissionView(submission))
	}
	return views, nil
}

func (s *submissionService) HandleGradingVerdict(ctx context.Context, verdict *events.GradingVerdict) error {
	submission, err := s.repo.Submission().GetByID(ctx, verdict.SubmissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Warn("Verdict for unknown submission dropped",
				"submission_id", verdict.SubmissionID)
			return nil
		}
		return fmt.Errorf("failed to get submission: %w", err)
	}
	if submission.Status == models.SubmissionDone {
		return nil
	}

	submission.Status = models.SubmissionDone
	submission.Grade = verdict.Grade
	submission.Feedback = verdict.Feedback
	switch verdict.Result {
	case string(models.ResultSuccess), string(models.ResultFailed):
		submission.Result = models.SubmissionResult(verdict.Result)
	default:
		submission.Result = models.ResultCrash
	}
	if len(verdict.ProblemsFeedback) > 0 {
		merged := make(map[string]string)
		if len(submission.ProblemsFeedback) > 0 {
			_ = json.Unmarshal(submission.ProblemsFeedback, &merged)
		}
		for pid, text := range verdict.ProblemsFeedback {
			merged[pid] = text
		}
		if payload, err := json.Marshal(merged); err == nil {
			submission.ProblemsFeedback = datatypes.JSON(payload)
		}
	}

	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return nil
}

func submissionView(submission *models.Submission) *SubmissionView {
	view := &SubmissionView{
		ID:          strconv.FormatUint(uint64(submission.ID), 10),
		SubmittedOn: submission.SubmittedAt.Format(time.RFC3339),
		Status:      string(submission.Status),
		Grade:       submission.Grade,
	}
	if len(submission.Input) > 0 {
		_ = json.Unmarshal(submission.Input, &view.Input)
	}
	if submission.Status == models.SubmissionDone {
		view.Result = string(submission.Result)
		view.Feedback = submission.Feedback
		if len(submission.ProblemsFeedback) > 0 {
			_ = json.Unmarshal(submission.ProblemsFeedback, &view.ProblemsFeedback)
		}
	}
	return view
}
