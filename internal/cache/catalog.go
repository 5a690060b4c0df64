package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
)

const (
	coursesKey         = "courses"
	coursePrefix       = "course:"
	courseVideosPrefix = "course_videos:"
	usersKey           = "users"
	coachesKey         = "coaches"

	cacheCheckPeriod = 60 * time.Second
)

// Catalog is the read-path cache for admin list and detail views. Entries are
// filled on read and dropped by the mutation services through the explicit
// Invalidate* methods; there is no blanket flush. Every cache key is either
// a fixed list key or a composite "{type}:{id}" key, so a mutation can
// invalidate exactly the views it stales and nothing else.
type Catalog struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCatalog creates a catalog cache whose entries expire after ttlSeconds
// as a backstop against missed invalidations.
func NewCatalog(ttlSeconds int) *Catalog {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &Catalog{
		cache: gocache.New(ttl, cacheCheckPeriod),
		ttl:   ttl,
	}
}

func courseKey(id int64) string {
	return fmt.Sprintf("%s%d", coursePrefix, id)
}

func courseVideosKey(courseID int64) string {
	return fmt.Sprintf("%s%d", courseVideosPrefix, courseID)
}

// GetCourses returns the cached course list
func (c *Catalog) GetCourses() ([]*models.Course, bool) {
	data, found := c.cache.Get(coursesKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("courses").Inc()
		return nil, false
	}
	courses, ok := data.([]*models.Course)
	if !ok {
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("courses").Inc()
	return courses, true
}

// SetCourses stores the course list
func (c *Catalog) SetCourses(courses []*models.Course) {
	c.cache.Set(coursesKey, courses, c.ttl)
}

// GetCourse returns a cached single course
func (c *Catalog) GetCourse(id int64) (*models.Course, bool) {
	data, found := c.cache.Get(courseKey(id))
	if !found {
		metrics.CacheMisses.WithLabelValues("course").Inc()
		return nil, false
	}
	course, ok := data.(*models.Course)
	if !ok {
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("course").Inc()
	return course, true
}

// SetCourse stores a single course under its composite key
func (c *Catalog) SetCourse(course *models.Course) {
	c.cache.Set(courseKey(course.ID), course, c.ttl)
}

// GetCourseVideos returns the cached lecture list for one course
func (c *Catalog) GetCourseVideos(courseID int64) ([]*models.Video, bool) {
	data, found := c.cache.Get(courseVideosKey(courseID))
	if !found {
		metrics.CacheMisses.WithLabelValues("course_videos").Inc()
		return nil, false
	}
	videos, ok := data.([]*models.Video)
	if !ok {
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("course_videos").Inc()
	return videos, true
}

// SetCourseVideos stores the lecture list for one course
func (c *Catalog) SetCourseVideos(courseID int64, videos []*models.Video) {
	c.cache.Set(courseVideosKey(courseID), videos, c.ttl)
}

// GetUsers returns the cached user list
func (c *Catalog) GetUsers() ([]*models.User, bool) {
	data, found := c.cache.Get(usersKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("users").Inc()
		return nil, false
	}
	users, ok := data.([]*models.User)
	if !ok {
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("users").Inc()
	return users, true
}

// SetUsers stores the user list
func (c *Catalog) SetUsers(users []*models.User) {
	c.cache.Set(usersKey, users, c.ttl)
}

// GetCoaches returns the cached coach list
func (c *Catalog) GetCoaches() ([]*models.Coach, bool) {
	data, found := c.cache.Get(coachesKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("coaches").Inc()
		return nil, false
	}
	coaches, ok := data.([]*models.Coach)
	if !ok {
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("coaches").Inc()
	return coaches, true
}

// SetCoaches stores the coach list
func (c *Catalog) SetCoaches(coaches []*models.Coach) {
	c.cache.Set(coachesKey, coaches, c.ttl)
}

// InvalidateCourseList drops the course list view
func (c *Catalog) InvalidateCourseList() {
	c.drop(coursesKey, "courses")
}

// InvalidateCourse drops one course's detail view
func (c *Catalog) InvalidateCourse(id int64) {
	c.drop(courseKey(id), "course")
}

// InvalidateCourseVideos drops the lecture list of one course
func (c *Catalog) InvalidateCourseVideos(courseID int64) {
	c.drop(courseVideosKey(courseID), "course_videos")
}

// InvalidateUsers drops the user list view
func (c *Catalog) InvalidateUsers() {
	c.drop(usersKey, "users")
}

// InvalidateCoaches drops the coach list view
func (c *Catalog) InvalidateCoaches() {
	c.drop(coachesKey, "coaches")
}

func (c *Catalog) drop(key, keyType string) {
	c.cache.Delete(key)
	metrics.CacheInvalidations.WithLabelValues(keyType).Inc()
	logger.Debug("Cache key invalidated", zap.String("key", key))
}

// ItemCount reports the number of live entries for the health endpoint
func (c *Catalog) ItemCount() int {
	return c.cache.ItemCount()
}
