package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/eskildht/inginious/internal/models"
)

func TestListOpen_FiltersAndSortsByName(t *testing.T) {
	repo := newMockRepository()
	repo.course.On("List", mock.Anything).Return([]*models.Course{
		{ID: "zeta", Name: "zeta course", Open: true},
		{ID: "hidden", Name: "Hidden course", Open: false},
		{ID: "ended", Name: "Ended course", Open: true, Accessible: "/2020-01-01"},
		{ID: "alpha", Name: "Alpha course", Open: true},
	}, nil)

	service := NewCourseService(repo, missCache{}, testLogger())

	summaries, err := service.ListOpen(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []CourseSummary{
		{ID: "alpha", Name: "Alpha course"},
		{ID: "zeta", Name: "zeta course"},
	}, summaries)
}

func TestRegister_ClosedCourse(t *testing.T) {
	repo := newMockRepository()
	repo.course.On("GetByID", mock.Anything, "closed").Return(&models.Course{ID: "closed", Open: false}, nil)

	service := NewCourseService(repo, missCache{}, testLogger())

	err := service.Register(context.Background(), "closed", "alice")
	assert.ErrorIs(t, err, ErrCourseNotOpen)
	repo.course.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_RegistrationWindowClosed(t *testing.T) {
	repo := newMockRepository()
	repo.course.On("GetByID", mock.Anything, "lp1").Return(&models.Course{
		ID:           "lp1",
		Open:         true,
		Registration: "/2020-01-01",
	}, nil)

	service := NewCourseService(repo, missCache{}, testLogger())

	err := service.Register(context.Background(), "lp1", "alice")
	assert.ErrorIs(t, err, ErrCourseNotOpen)
}

func TestRegister_OpenCourse(t *testing.T) {
	repo := newMockRepository()
	repo.course.On("GetByID", mock.Anything, "lp1").Return(&models.Course{ID: "lp1", Open: true}, nil)
	repo.course.On("Register", mock.Anything, "lp1", "alice").Return(nil)

	service := NewCourseService(repo, missCache{}, testLogger())

	assert.NoError(t, service.Register(context.Background(), "lp1", "alice"))
	repo.course.AssertExpectations(t)
}

func TestIsOpenToUser(t *testing.T) {
	course := &models.Course{
		ID:     "lp1",
		Open:   true,
		Admins: datatypes.JSON(`["teacher"]`),
	}
	closed := &models.Course{
		ID:     "lp2",
		Open:   false,
		Admins: datatypes.JSON(`["teacher"]`),
	}

	repo := newMockRepository()
	repo.course.On("IsRegistered", mock.Anything, "lp1", "alice").Return(true, nil)
	repo.course.On("IsRegistered", mock.Anything, "lp1", "bob").Return(false, nil)

	service := NewCourseService(repo, missCache{}, testLogger())

	t.Run("registered student", func(t *testing.T) {
		open, err := service.IsOpenToUser(context.Background(), course, "alice")
		assert.NoError(t, err)
		assert.True(t, open)
	})

	t.Run("unregistered student", func(t *testing.T) {
		open, err := service.IsOpenToUser(context.Background(), course, "bob")
		assert.NoError(t, err)
		assert.False(t, open)
	})

	t.Run("staff bypasses registration and closure", func(t *testing.T) {
		open, err := service.IsOpenToUser(context.Background(), closed, "teacher")
		assert.NoError(t, err)
		assert.True(t, open)
	})

	t.Run("closed course locks out students", func(t *testing.T) {
		open, err := service.IsOpenToUser(context.Background(), closed, "alice")
		assert.NoError(t, err)
		assert.False(t, open)
	})
}

func TestIsStaff_MalformedAdminList(t *testing.T) {
	repo := newMockRepository()
	service := NewCourseService(repo, missCache{}, testLogger())

	course := &models.Course{ID: "lp1", Admins: datatypes.JSON(`{not json`)}
	assert.False(t, service.IsStaff(course, "teacher"))
}
