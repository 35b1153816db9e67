package events

import "time"

// GradingJob is sent to the external grading backend for every submission
// holding at least one deferred problem.
type GradingJob struct {
	SubmissionID uint           `json:"submission_id"`
	CourseID     string         `json:"course_id"`
	TaskID       string         `json:"task_id"`
	Username     string         `json:"username"`
	Environment  string         `json:"environment"`
	Input        map[string]any `json:"input"`
	// Debug requests execution details; set for course staff only.
	Debug       bool      `json:"debug"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// GradingVerdict is the external grader's answer to a GradingJob.
type GradingVerdict struct {
	SubmissionID     uint              `json:"submission_id"`
	Result           string            `json:"result"` // success, failed, crash
	Grade            float64           `json:"grade"`
	Feedback         string            `json:"feedback"`
	ProblemsFeedback map[string]string `json:"problems_feedback"`
}
