package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eskildht/inginious/internal/services"
	"github.com/eskildht/inginious/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
	taskService   services.TaskService
	reportService services.ReportService
}

func NewCourseHandler(
	courseService services.CourseService,
	taskService services.TaskService,
	reportService services.ReportService,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
		taskService:   taskService,
		reportService: reportService,
	}
}

// ListCourses serves the course listing page data: every course open to
// non-staff students, sorted by name.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListOpen(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// RegisterToCourse enrolls the authenticated user in an open course.
func (h *CourseHandler) RegisterToCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseid")
	if !ok {
		return
	}
	username := sessionUsername(c)

	h.LogRequest(c, "Registering to course", "course_id", courseID)
	if err := h.courseService.Register(c.Request.Context(), courseID, username); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "registered"})
}

// ListCourseTasks serves a course's task listing.
func (h *CourseHandler) ListCourseTasks(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseid")
	if !ok {
		return
	}
	course, err := h.courseService.Get(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	open, err := h.courseService.IsOpenToUser(c.Request.Context(), course, sessionUsername(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !open {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "You are not registered to this course"})
		return
	}
	tasks, err := h.taskService.ListForCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// ExportGradeReport streams the course's grade report as a spreadsheet.
// Staff only.
func (h *CourseHandler) ExportGradeReport(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseid")
	if !ok {
		return
	}
	course, err := h.courseService.Get(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !h.courseService.IsStaff(course, sessionUsername(c)) {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Staff only"})
		return
	}

	report, err := h.reportService.ExportGrades(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="grades-`+courseID+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}
