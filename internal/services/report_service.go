package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/eskildht/inginious/internal/models"
	"github.com/eskildht/inginious/internal/repositories"
)

// ReportService exports a course's grades as a spreadsheet: one row per
// student and task, keeping each student's best grade.
type ReportService interface {
	ExportGrades(ctx context.Context, courseID string) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

type gradeRow struct {
	username string
	taskID   string
	grade    float64
	attempts int
}

func (s *reportService) ExportGrades(ctx context.Context, courseID string) ([]byte, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	submissions, err := s.repo.Submission().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	best := make(map[[2]string]*gradeRow)
	for _, submission := range submissions {
		if submission.Status != models.SubmissionDone {
			continue
		}
		key := [2]string{submission.Username, submission.TaskID}
		row, ok := best[key]
		if !ok {
			row = &gradeRow{username: submission.Username, taskID: submission.TaskID}
			best[key] = row
		}
		row.attempts++
		if submission.Grade > row.grade {
			row.grade = submission.Grade
		}
	}

	rows := make([]*gradeRow, 0, len(best))
	for _, row := range best {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].username != rows[j].username {
			return rows[i].username < rows[j].username
		}
		return rows[i].taskID < rows[j].taskID
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Grades"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	headers := []string{"Username", "Task", "Best grade", "Attempts"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to build report: %w", err)
		}
	}
	for i, row := range rows {
		values := []any{row.username, row.taskID, row.grade, row.attempts}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to build report: %w", err)
			}
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	s.logger.Info("Grade report exported",
		"course_id", courseID,
		"rows", len(rows))
	return buffer.Bytes(), nil
}
