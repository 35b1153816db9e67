package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/eskildht/inginious/internal/services"
	"github.com/eskildht/inginious/internal/utils"
)

type HandlerManager struct {
	courseHandler     *CourseHandler
	submissionHandler *SubmissionHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		courseHandler: NewCourseHandler(
			serviceManager.Course(),
			serviceManager.Task(),
			serviceManager.Report(),
			logger,
		),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), validator, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "inginious",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware)
	{
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.POST("/:courseid/register", hm.courseHandler.RegisterToCourse)
			courses.GET("/:courseid/tasks", hm.courseHandler.ListCourseTasks)
			courses.GET("/:courseid/grades/export", hm.courseHandler.ExportGradeReport)

			// Submission routes
			courses.POST("/:courseid/tasks/:taskid/submissions", hm.submissionHandler.CreateSubmission)
			courses.GET("/:courseid/tasks/:taskid/submissions", hm.submissionHandler.ListSubmissions)
			courses.GET("/:courseid/tasks/:taskid/submissions/:submissionid", hm.submissionHandler.GetSubmission)
		}
	}
}
