package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

type courseRequest struct {
	Code       string `json:"kode" binding:"required"`
	Name       string `json:"nama" binding:"required"`
	Credits    int    `json:"sks" binding:"required,min=1,max=6"`
	Department string `json:"jurusan" binding:"required"`
}

func (r courseRequest) course() types.Course {
	return types.Course{
		Code:       strings.TrimSpace(r.Code),
		Name:       strings.TrimSpace(r.Name),
		Credits:    r.Credits,
		Department: strings.TrimSpace(r.Department),
	}
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.db.CreateCourse(c.Request.Context(), req.course())
	if err != nil {
		h.respondError(c, err, "failed to create course")
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses returns courses ordered by code.
// Query parameters:
//   - jurusan: department filter (optional)
//   - limit, page: pagination
func (h *Handler) ListCourses(c *gin.Context) {
	department := strings.TrimSpace(c.Query("jurusan"))

	params, ok := parsePaginationOrRespond(c)
	if !ok {
		return
	}

	courses, hasNext, err := h.db.ListCourses(c.Request.Context(), department, params.Limit, params.Offset)
	if err != nil {
		h.respondError(c, err, "failed to get courses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(courses),
		"courses":    courses,
		"pagination": buildPaginationMeta(params, len(courses), hasNext),
	})
}

func (h *Handler) GetCourse(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.db.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get course")
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.db.UpdateCourse(c.Request.Context(), id, req.course())
	if err != nil {
		h.respondError(c, err, "failed to update course")
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.db.DeleteCourse(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to delete course")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "course deleted",
		"course":  course,
	})
}
