package grading

import (
	"context"
	"fmt"

	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// Source supplies enrollments with student and course fields already joined.
// Implementations perform the store reads; the engine never queries a store
// on its own.
type Source interface {
	Enrollments(ctx context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, error)
}

// Reporter runs the aggregations against a Source.
type Reporter struct {
	source Source
}

func NewReporter(source Source) *Reporter {
	return &Reporter{source: source}
}

// SemesterGPA validates the semester label before reading anything.
func (r *Reporter) SemesterGPA(ctx context.Context, studentID, semester string) (*SemesterGPA, error) {
	if err := ValidateSemester(semester); err != nil {
		return nil, err
	}

	enrollments, err := r.source.Enrollments(ctx, types.EnrollmentFilter{
		StudentID: studentID,
		Semester:  semester,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load semester grades: %w", err)
	}

	return ComputeSemesterGPA(enrollments, semester)
}

func (r *Reporter) Ranking(ctx context.Context, courseID string) ([]RankEntry, error) {
	enrollments, err := r.source.Enrollments(ctx, types.EnrollmentFilter{CourseID: courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to load grades for ranking: %w", err)
	}

	return BuildRanking(enrollments, courseID)
}

func (r *Reporter) Distribution(ctx context.Context, courseID, semester string) (Distribution, error) {
	enrollments, err := r.source.Enrollments(ctx, types.EnrollmentFilter{
		CourseID: courseID,
		Semester: semester,
	})
	if err != nil {
		return Distribution{}, fmt.Errorf("failed to load grades for distribution: %w", err)
	}

	return BuildDistribution(enrollments, courseID, semester), nil
}

func (r *Reporter) Transcript(ctx context.Context, studentID string) (*Transcript, error) {
	enrollments, err := r.source.Enrollments(ctx, types.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to load student grades: %w", err)
	}

	return BuildTranscript(enrollments)
}
