package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// Store is the persistence the handlers need. *firebase.Firestore
// implements it.
type Store interface {
	grading.Source

	CreateStudent(ctx context.Context, student types.Student) (*types.Student, error)
	GetStudent(ctx context.Context, id string) (*types.Student, error)
	ListStudents(ctx context.Context, name string, limit, offset int) ([]types.Student, bool, error)
	UpdateStudent(ctx context.Context, id string, student types.Student) (*types.Student, error)
	DeleteStudent(ctx context.Context, id string) (*types.Student, error)

	CreateCourse(ctx context.Context, course types.Course) (*types.Course, error)
	GetCourse(ctx context.Context, id string) (*types.Course, error)
	ListCourses(ctx context.Context, department string, limit, offset int) ([]types.Course, bool, error)
	UpdateCourse(ctx context.Context, id string, course types.Course) (*types.Course, error)
	DeleteCourse(ctx context.Context, id string) (*types.Course, error)

	CreateGrade(ctx context.Context, grade types.Grade) (*types.Grade, error)
	GetGrade(ctx context.Context, id string) (*types.Enrollment, error)
	UpdateGrade(ctx context.Context, id string, grade types.Grade) (*types.Enrollment, error)
	DeleteGrade(ctx context.Context, id string) (*types.Grade, error)
	CountGrades(ctx context.Context, grade types.Grade, exceptID string) (int, error)
	ListEnrollments(ctx context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, bool, error)

	GenerateAPIKey(ctx context.Context, req firebase.KeyRequest) (string, error)
	GetAPIKey(ctx context.Context, docID string) (*types.APIKey, error)
}

type Handler struct {
	db       Store
	reporter *grading.Reporter
	logger   log.Logger
}

const (
	defaultLimit = 100
	maxLimit     = 100
)

type paginationParams struct {
	Limit  int
	Page   int
	Offset int
}

func New(db Store, logger log.Logger) *Handler {
	return &Handler{
		db:       db,
		reporter: grading.NewReporter(db),
		logger:   log.With(logger, "component", "handlers"),
	}
}

// Health responds with a simple service heartbeat.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "SIKAD API is running",
	})
}

// CreateAPIKey provisions a new API key.
func (h *Handler) CreateAPIKey(c *gin.Context) {
	var req struct {
		Owner         string `json:"owner"`
		RateLimit     int    `json:"rate_limit" binding:"required"`
		WindowSeconds int    `json:"window_seconds" binding:"required"`
		IsAdmin       bool   `json:"is_admin"`
		ExpiresAt     string `json:"expires_at"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate limit must be greater than 0"})
		return
	}

	if req.WindowSeconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window seconds must be greater than 0"})
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != "" {
		var err error
		expiresAt, err = time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires_at format"})
			return
		}

		if expiresAt.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiration date must be in the future"})
			return
		}
	}

	key, err := h.db.GenerateAPIKey(c.Request.Context(), firebase.KeyRequest{
		Owner:         strings.TrimSpace(req.Owner),
		RateLimit:     req.RateLimit,
		WindowSeconds: req.WindowSeconds,
		IsAdmin:       req.IsAdmin,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		h.respondError(c, err, "failed to create API key")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// GetAPIKey retrieves metadata for a stored API key.
func (h *Handler) GetAPIKey(c *gin.Context) {
	key, ok := docIDParam(c, "key")
	if !ok {
		return
	}

	apiKey, err := h.db.GetAPIKey(c.Request.Context(), key)
	if err != nil {
		h.respondError(c, err, "failed to get API key")
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

// respondError maps store and engine errors onto status codes. Unexpected
// errors are attached to the context for the request logger and the client
// only sees fallback.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, firebase.ErrNotFound), errors.Is(err, grading.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(err)})
	case errors.Is(err, firebase.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, grading.ErrInvalidSemester), errors.Is(err, grading.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, grading.ErrNotFound) {
		return "no grade data found"
	}
	return "not found"
}

// docIDParam reads a path parameter that addresses a document directly.
func docIDParam(c *gin.Context, name string) (string, bool) {
	id := strings.TrimSpace(c.Param(name))
	if !firebase.ValidDocID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return "", false
	}
	return id, true
}

func parsePaginationParams(c *gin.Context) (paginationParams, error) {
	limitValue := strings.TrimSpace(c.Query("limit"))
	if limitValue == "" {
		limitValue = strconv.Itoa(defaultLimit)
	}

	limit, err := strconv.Atoi(limitValue)
	if err != nil || limit <= 0 {
		return paginationParams{}, fmt.Errorf("limit parameter must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	pageValue := strings.TrimSpace(c.Query("page"))
	if pageValue == "" {
		pageValue = "1"
	}

	page, err := strconv.Atoi(pageValue)
	if err != nil || page <= 0 {
		return paginationParams{}, fmt.Errorf("page parameter must be a positive integer")
	}

	return paginationParams{
		Limit:  limit,
		Page:   page,
		Offset: (page - 1) * limit,
	}, nil
}

func parsePaginationOrRespond(c *gin.Context) (paginationParams, bool) {
	params, err := parsePaginationParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return paginationParams{}, false
	}
	return params, true
}

func buildPaginationMeta(params paginationParams, itemsReturned int, hasNext bool) gin.H {
	meta := gin.H{
		"page":     params.Page,
		"limit":    params.Limit,
		"has_next": hasNext,
	}

	if hasNext {
		meta["next_page"] = params.Page + 1
	} else {
		meta["total"] = params.Offset + itemsReturned
	}

	return meta
}
