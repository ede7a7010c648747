package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

type studentRequest struct {
	Name       string `json:"name" binding:"required"`
	NPM        string `json:"npm" binding:"required,numeric"`
	Department string `json:"jurusan" binding:"required"`
}

func (r studentRequest) student() types.Student {
	return types.Student{
		Name:       strings.TrimSpace(r.Name),
		NPM:        strings.TrimSpace(r.NPM),
		Department: strings.TrimSpace(r.Department),
	}
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.db.CreateStudent(c.Request.Context(), req.student())
	if err != nil {
		h.respondError(c, err, "failed to create student")
		return
	}

	c.JSON(http.StatusCreated, student)
}

// ListStudents returns students ordered by NPM.
// Query parameters:
//   - name: case-insensitive name prefix (optional)
//   - limit, page: pagination
func (h *Handler) ListStudents(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))

	params, ok := parsePaginationOrRespond(c)
	if !ok {
		return
	}

	students, hasNext, err := h.db.ListStudents(c.Request.Context(), name, params.Limit, params.Offset)
	if err != nil {
		h.respondError(c, err, "failed to get students")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(students),
		"students":   students,
		"pagination": buildPaginationMeta(params, len(students), hasNext),
	})
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.db.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get student")
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.db.UpdateStudent(c.Request.Context(), id, req.student())
	if err != nil {
		h.respondError(c, err, "failed to update student")
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes the student only. Their grades stay stored and drop
// out of every aggregate because they no longer resolve.
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.db.DeleteStudent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to delete student")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "student deleted",
		"student": student,
	})
}
