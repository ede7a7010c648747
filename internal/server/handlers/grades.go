package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

type gradeRequest struct {
	StudentID string   `json:"mahasiswa" binding:"required"`
	CourseID  string   `json:"mataKuliah" binding:"required"`
	Semester  string   `json:"semester" binding:"required"`
	Score     *float64 `json:"nilai" binding:"required"`
}

// grade trims the ids and validates the request. Semester labels are
// compared exactly and are never trimmed. Score 0 is valid, which is why it
// is bound through a pointer.
func (r gradeRequest) grade() (types.Grade, error) {
	grade := types.Grade{
		StudentID: strings.TrimSpace(r.StudentID),
		CourseID:  strings.TrimSpace(r.CourseID),
		Semester:  r.Semester,
		Score:     *r.Score,
	}

	if err := grading.ValidateSemester(grade.Semester); err != nil {
		return grade, err
	}
	if err := grading.ValidateScore(grade.Score); err != nil {
		return grade, err
	}
	return grade, nil
}

// bindGrade parses the body and checks that the referenced student and
// course exist.
func (h *Handler) bindGrade(c *gin.Context) (types.Grade, bool) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return types.Grade{}, false
	}

	grade, err := req.grade()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return types.Grade{}, false
	}

	if !firebase.ValidDocID(grade.StudentID) || !firebase.ValidDocID(grade.CourseID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student or course id"})
		return types.Grade{}, false
	}

	ctx := c.Request.Context()
	if _, err := h.db.GetStudent(ctx, grade.StudentID); err != nil {
		h.respondReference(c, err, "student")
		return types.Grade{}, false
	}
	if _, err := h.db.GetCourse(ctx, grade.CourseID); err != nil {
		h.respondReference(c, err, "course")
		return types.Grade{}, false
	}

	return grade, true
}

func (h *Handler) respondReference(c *gin.Context, err error, what string) {
	if errors.Is(err, firebase.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": what + " does not exist"})
		return
	}
	h.respondError(c, err, "failed to check "+what)
}

// warnDuplicate logs when another grade already exists for the same student,
// course and semester. Duplicates are stored and counted in aggregates.
func (h *Handler) warnDuplicate(ctx context.Context, grade types.Grade, exceptID string) {
	count, err := h.db.CountGrades(ctx, grade, exceptID)
	if err != nil {
		level.Warn(h.logger).Log("msg", "failed to check duplicate grades", "err", err)
		return
	}
	if count > 0 {
		level.Warn(h.logger).Log(
			"msg", "duplicate grade stored",
			"student_id", grade.StudentID,
			"course_id", grade.CourseID,
			"semester", grade.Semester,
			"existing", count,
		)
	}
}

func (h *Handler) CreateGrade(c *gin.Context) {
	grade, ok := h.bindGrade(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	h.warnDuplicate(ctx, grade, "")

	created, err := h.db.CreateGrade(ctx, grade)
	if err != nil {
		h.respondError(c, err, "failed to create grade")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListGrades returns grades with student and course populated.
// Query parameters (optional, combinable):
//   - student_id
//   - course_id
//   - semester: exact label, e.g. "Ganjil 2023/2024"
//   - limit, page: pagination
func (h *Handler) ListGrades(c *gin.Context) {
	filter := types.EnrollmentFilter{
		StudentID: strings.TrimSpace(c.Query("student_id")),
		CourseID:  strings.TrimSpace(c.Query("course_id")),
		Semester:  c.Query("semester"),
	}

	h.listEnrollments(c, filter, gin.H{
		"student_id": filter.StudentID,
		"course_id":  filter.CourseID,
		"semester":   filter.Semester,
	})
}

// GetCourseGrades lists the grades of one course.
func (h *Handler) GetCourseGrades(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	filter := types.EnrollmentFilter{
		CourseID: id,
		Semester: c.Query("semester"),
	}

	h.listEnrollments(c, filter, gin.H{
		"course_id": filter.CourseID,
		"semester":  filter.Semester,
	})
}

func (h *Handler) listEnrollments(c *gin.Context, filter types.EnrollmentFilter, queryMeta gin.H) {
	params, ok := parsePaginationOrRespond(c)
	if !ok {
		return
	}
	filter.Limit = params.Limit
	filter.Offset = params.Offset

	grades, hasNext, err := h.db.ListEnrollments(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "failed to get grades")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(grades),
		"grades":     grades,
		"pagination": buildPaginationMeta(params, len(grades), hasNext),
		"query":      queryMeta,
	})
}

func (h *Handler) GetGrade(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	grade, err := h.db.GetGrade(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get grade")
		return
	}

	c.JSON(http.StatusOK, grade)
}

func (h *Handler) UpdateGrade(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	grade, ok := h.bindGrade(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	h.warnDuplicate(ctx, grade, id)

	updated, err := h.db.UpdateGrade(ctx, id, grade)
	if err != nil {
		h.respondError(c, err, "failed to update grade")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteGrade(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	grade, err := h.db.DeleteGrade(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to delete grade")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "grade deleted",
		"grade":   grade,
	})
}
