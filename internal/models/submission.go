package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	// SubmissionWaiting means at least one problem was deferred to the
	// external grader and its verdict has not arrived yet.
	SubmissionWaiting SubmissionStatus = "waiting"
	SubmissionDone    SubmissionStatus = "done"
	SubmissionError   SubmissionStatus = "error"
)

type SubmissionResult string

const (
	ResultSuccess SubmissionResult = "success"
	ResultFailed  SubmissionResult = "failed"
	ResultCrash   SubmissionResult = "crash"
)

// Submission is one graded (or in-flight) answer set for a task.
type Submission struct {
	ID uint `json:"id" gorm:"primaryKey"`

	CourseID string `json:"course_id" gorm:"not null;size:100;index:idx_submissions_task"`
	TaskID   string `json:"task_id" gorm:"not null;size:100;index:idx_submissions_task"`
	Username string `json:"username" gorm:"not null;size:100;index"`

	Status SubmissionStatus `json:"status" gorm:"not null;default:waiting;index"`
	Result SubmissionResult `json:"result" gorm:"size:20"`
	Grade  float64          `json:"grade"`

	// Feedback is the global, task-level feedback text.
	Feedback string `json:"feedback" gorm:"type:text"`
	// ProblemsFeedback maps problem id to its feedback text. Some ids may
	// be absent.
	ProblemsFeedback datatypes.JSON `json:"problems_feedback" gorm:"type:jsonb"`
	// Input is the archived submission payload.
	Input datatypes.JSON `json:"input" gorm:"type:jsonb"`

	SubmittedAt time.Time `json:"submitted_on"`
	UpdatedAt   time.Time `json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}
