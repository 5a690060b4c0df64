package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tradeacademy/tradeacademy-api/config"
	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
)

func newLectureService(videos *MockVideoStore, courses *MockCourseStore, store *MockObjectStorage) (*services.LectureService, *cache.Catalog) {
	catalog := cache.NewCatalog(60)
	svc := services.NewLectureService(videos, courses, store, catalog, &config.Config{}, new(MockHTTPClient))
	return svc, catalog
}

func TestLectureService_ListLectures_UnknownCourse(t *testing.T) {
	mockVideos := new(MockVideoStore)
	mockCourses := new(MockCourseStore)
	svc, _ := newLectureService(mockVideos, mockCourses, new(MockObjectStorage))
	ctx := context.Background()

	mockCourses.On("GetByID", ctx, int64(99)).Return(nil, assert.AnError).Once()

	_, err := svc.ListLectures(ctx, 99)
	assert.Error(t, err)
	mockVideos.AssertNotCalled(t, "GetByCourse")
}

func TestLectureService_AddLecture_UploadsBothObjects(t *testing.T) {
	mockVideos := new(MockVideoStore)
	mockCourses := new(MockCourseStore)
	mockStorage := new(MockObjectStorage)
	svc, catalog := newLectureService(mockVideos, mockCourses, mockStorage)
	ctx := context.Background()

	catalog.SetCourseVideos(3, []*models.Video{})

	mockCourses.On("GetByID", ctx, int64(3)).Return(&models.Course{ID: 3}, nil).Once()
	mockStorage.On("Upload", ctx, mock.AnythingOfType("string"), "video/mp4", mock.Anything, int64(6)).
		Return("https://s3/videos/intro.mp4", nil).Once()
	mockStorage.On("Upload", ctx, mock.AnythingOfType("string"), "image/png", mock.Anything, int64(3)).
		Return("https://s3/thumbnails/intro.png", nil).Once()
	mockVideos.On("Create", ctx, int64(3), mock.MatchedBy(func(input *models.VideoInput) bool {
		return input.StreamURL == "https://s3/videos/intro.mp4" &&
			input.ThumbnailURL == "https://s3/thumbnails/intro.png" &&
			input.FileSize == 6
	})).Return(&models.Video{ID: 10, CourseID: 3, Title: "Intro"}, nil).Once()

	video := &services.FileUpload{Name: "intro.mp4", ContentType: "video/mp4", Size: 6, Body: strings.NewReader("mp4mp4")}
	thumb := &services.FileUpload{Name: "intro.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}

	lecture, err := svc.AddLecture(ctx, 3, &models.VideoInput{Title: "Intro"}, video, thumb)
	require.NoError(t, err)
	assert.Equal(t, int64(10), lecture.ID)

	// lecture list for the course was invalidated
	_, found := catalog.GetCourseVideos(3)
	assert.False(t, found)
	mockStorage.AssertExpectations(t)
	mockVideos.AssertExpectations(t)
}

func TestLectureService_AddLecture_RollsBackVideoOnThumbnailFailure(t *testing.T) {
	mockVideos := new(MockVideoStore)
	mockCourses := new(MockCourseStore)
	mockStorage := new(MockObjectStorage)
	svc, _ := newLectureService(mockVideos, mockCourses, mockStorage)
	ctx := context.Background()

	mockCourses.On("GetByID", ctx, int64(3)).Return(&models.Course{ID: 3}, nil).Once()
	mockStorage.On("Upload", ctx, mock.AnythingOfType("string"), "video/mp4", mock.Anything, int64(6)).
		Return("https://s3/videos/intro.mp4", nil).Once()
	mockStorage.On("Upload", ctx, mock.AnythingOfType("string"), "image/png", mock.Anything, int64(3)).
		Return("", assert.AnError).Once()
	mockStorage.On("KeyFromURL", "https://s3/videos/intro.mp4").Return("videos/intro.mp4").Once()
	mockStorage.On("Delete", ctx, "videos/intro.mp4").Return(nil).Once()

	video := &services.FileUpload{Name: "intro.mp4", ContentType: "video/mp4", Size: 6, Body: strings.NewReader("mp4mp4")}
	thumb := &services.FileUpload{Name: "intro.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}

	_, err := svc.AddLecture(ctx, 3, &models.VideoInput{Title: "Intro"}, video, thumb)
	assert.Error(t, err)
	mockVideos.AssertNotCalled(t, "Create")
	mockStorage.AssertExpectations(t)
}

func TestLectureService_UpdateLecture_KeepsObjectsWhenNoFilesStaged(t *testing.T) {
	mockVideos := new(MockVideoStore)
	mockCourses := new(MockCourseStore)
	mockStorage := new(MockObjectStorage)
	svc, _ := newLectureService(mockVideos, mockCourses, mockStorage)
	ctx := context.Background()

	existing := &models.Video{ID: 10, CourseID: 3, Title: "Intro", StreamURL: "https://s3/v.mp4"}
	mockVideos.On("GetByID", ctx, int64(10)).Return(existing, nil).Once()
	mockVideos.On("Update", ctx, int64(10), mock.MatchedBy(func(input *models.VideoInput) bool {
		return input.StreamURL == "" && input.ThumbnailURL == ""
	})).Return(&models.Video{ID: 10, CourseID: 3, Title: "Intro v2", StreamURL: "https://s3/v.mp4"}, nil).Once()

	lecture, err := svc.UpdateLecture(ctx, 10, &models.VideoInput{Title: "Intro v2"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Intro v2", lecture.Title)
	mockStorage.AssertNotCalled(t, "Upload")
	mockStorage.AssertNotCalled(t, "Delete")
}

func TestLectureService_DeleteLecture_NoStoredObject(t *testing.T) {
	mockVideos := new(MockVideoStore)
	mockCourses := new(MockCourseStore)
	mockStorage := new(MockObjectStorage)
	svc, _ := newLectureService(mockVideos, mockCourses, mockStorage)
	ctx := context.Background()

	// metadata-only lecture: nothing in object storage
	existing := &models.Video{ID: 10, CourseID: 3, StreamURL: "", ThumbnailURL: ""}
	mockVideos.On("GetByID", ctx, int64(10)).Return(existing, nil).Once()
	mockVideos.On("Delete", ctx, int64(10)).Return(nil).Once()

	err := svc.DeleteLecture(ctx, 10)
	require.NoError(t, err)
	mockStorage.AssertNotCalled(t, "Delete")
	mockVideos.AssertExpectations(t)
}

func TestLectureService_DeleteLecture_RemovesStoredObjects(t *testing.T) {
	mockVideos := new(MockVideoStore)
	mockCourses := new(MockCourseStore)
	mockStorage := new(MockObjectStorage)
	svc, catalog := newLectureService(mockVideos, mockCourses, mockStorage)
	ctx := context.Background()

	catalog.SetCourseVideos(3, []*models.Video{{ID: 10}})

	existing := &models.Video{ID: 10, CourseID: 3, StreamURL: "https://s3/v.mp4", ThumbnailURL: "https://s3/t.png"}
	mockVideos.On("GetByID", ctx, int64(10)).Return(existing, nil).Once()
	mockVideos.On("Delete", ctx, int64(10)).Return(nil).Once()
	mockStorage.On("KeyFromURL", "https://s3/v.mp4").Return("v.mp4").Once()
	mockStorage.On("Delete", ctx, "v.mp4").Return(nil).Once()
	mockStorage.On("KeyFromURL", "https://s3/t.png").Return("t.png").Once()
	mockStorage.On("Delete", ctx, "t.png").Return(nil).Once()

	err := svc.DeleteLecture(ctx, 10)
	require.NoError(t, err)

	_, found := catalog.GetCourseVideos(3)
	assert.False(t, found)
	mockStorage.AssertExpectations(t)
}
