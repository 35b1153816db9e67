package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eskildht/inginious/internal/problems"
	"github.com/eskildht/inginious/internal/services"
	"github.com/eskildht/inginious/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *utils.Validator
}

// CreateSubmissionRequest carries the raw submission payload: problem id
// (or composite box id) to submitted value.
type CreateSubmissionRequest struct {
	Input map[string]any `json:"input" validate:"required"`
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *utils.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// CreateSubmission accepts a new submission for a task.
//
// Answers:
//   - 400 Bad Request when the input is not (correctly) given,
//   - 403 Forbidden when the user may not submit to this task,
//   - 404 Not Found when the course or task does not exist,
//   - 500 Internal Server Error when the grader is not available,
//   - 200 OK with the created submission otherwise.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseid")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskid")
	if !ok {
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating submission", "course_id", courseID, "task_id", taskID)

	view, err := h.submissionService.Create(
		c.Request.Context(),
		courseID,
		taskID,
		sessionUsername(c),
		problems.Input(req.Input),
	)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissionid": view.ID, "submission": view})
}

// ListSubmissions lists the submissions the authenticated user made for
// a task.
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseid")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskid")
	if !ok {
		return
	}
	views, err := h.submissionService.ListForTask(c.Request.Context(), courseID, taskID, sessionUsername(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetSubmission serves one of the authenticated user's submissions.
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	raw, ok := parseIDParam(c, "submissionid")
	if !ok {
		return
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid submissionid",
			Details: "must be a numeric id",
		})
		return
	}
	view, err := h.submissionService.Get(c.Request.Context(), uint(id), sessionUsername(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
