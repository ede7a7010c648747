package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// GetSemesterGPA computes the IP semester of one student.
// Query parameters:
//   - semester: required, "Ganjil YYYY/YYYY" or "Genap YYYY/YYYY"
func (h *Handler) GetSemesterGPA(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	semester := c.Query("semester")
	if semester == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester query parameter is required (e.g., ?semester=Ganjil 2023/2024)"})
		return
	}

	gpa, err := h.reporter.SemesterGPA(c.Request.Context(), id, semester)
	if err != nil {
		h.respondError(c, err, "failed to compute semester GPA")
		return
	}

	c.JSON(http.StatusOK, gpa)
}

// GetTranscript lists every grade of one student with a pass flag.
func (h *Handler) GetTranscript(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	transcript, err := h.reporter.Transcript(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get student grades")
		return
	}

	c.JSON(http.StatusOK, transcript)
}

// GetRanking ranks students by mean score.
// Query parameters:
//   - course_id: restrict to one course (optional)
func (h *Handler) GetRanking(c *gin.Context) {
	courseID := strings.TrimSpace(c.Query("course_id"))
	if courseID != "" && !firebase.ValidDocID(courseID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	ranking, err := h.reporter.Ranking(c.Request.Context(), courseID)
	if err != nil {
		h.respondError(c, err, "failed to build ranking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(ranking),
		"course_id": courseID,
		"ranking":   ranking,
	})
}

// GetDistribution returns the score histogram of a course. It answers 200
// with an all-zero histogram when nothing matches.
// Query parameters:
//   - semester: exact label (optional)
func (h *Handler) GetDistribution(c *gin.Context) {
	id, ok := docIDParam(c, "id")
	if !ok {
		return
	}

	semester := c.Query("semester")
	ctx := c.Request.Context()

	var course *types.Course
	found, err := h.db.GetCourse(ctx, id)
	switch {
	case err == nil:
		course = found
	case !errors.Is(err, firebase.ErrNotFound):
		h.respondError(c, err, "failed to get course")
		return
	}

	dist, err := h.reporter.Distribution(ctx, id, semester)
	if err != nil {
		h.respondError(c, err, "failed to build distribution")
		return
	}

	label := semester
	if label == "" {
		label = grading.AllSemesters
	}

	c.JSON(http.StatusOK, gin.H{
		"course":       course,
		"semester":     label,
		"distribution": dist,
	})
}
