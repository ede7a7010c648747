package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// Enrollments returns every grade matching filter with its student and
// course joined in. It satisfies grading.Source.
func (c *Firestore) Enrollments(ctx context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, error) {
	enrollments, _, err := c.ListEnrollments(ctx, filter)
	return enrollments, err
}

// ListEnrollments is Enrollments with pagination. Paging applies to grade
// documents, so a page may come back short when some grades reference a
// deleted student or course; those grades are dropped from the result.
func (c *Firestore) ListEnrollments(ctx context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, bool, error) {
	query := c.Collection(gradesCollection).Query
	if filter.StudentID != "" {
		query = query.Where("student_id", "==", filter.StudentID)
	}
	if filter.CourseID != "" {
		query = query.Where("course_id", "==", filter.CourseID)
	}
	if filter.Semester != "" {
		query = query.Where("semester", "==", filter.Semester)
	}

	grades, hasNext, err := c.collectGrades(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, false, err
	}

	enrollments, err := c.resolve(ctx, grades)
	if err != nil {
		return nil, false, err
	}

	return enrollments, hasNext, nil
}

// resolve joins grades with their students and courses using one batched
// read per collection.
func (c *Firestore) resolve(ctx context.Context, grades []types.Grade) ([]types.Enrollment, error) {
	if len(grades) == 0 {
		return []types.Enrollment{}, nil
	}

	students := make(map[string]*types.Student)
	courses := make(map[string]*types.Course)
	for _, g := range grades {
		students[g.StudentID] = nil
		courses[g.CourseID] = nil
	}

	if err := c.loadStudents(ctx, students); err != nil {
		return nil, err
	}
	if err := c.loadCourses(ctx, courses); err != nil {
		return nil, err
	}

	enrollments := make([]types.Enrollment, 0, len(grades))
	for _, g := range grades {
		student, course := students[g.StudentID], courses[g.CourseID]
		if student == nil || course == nil {
			continue
		}
		enrollments = append(enrollments, types.Enrollment{
			GradeID:           g.ID,
			Semester:          g.Semester,
			Score:             g.Score,
			StudentID:         student.ID,
			StudentName:       student.Name,
			StudentNPM:        student.NPM,
			StudentDepartment: student.Department,
			CourseID:          course.ID,
			CourseCode:        course.Code,
			CourseName:        course.Name,
			Credits:           course.Credits,
		})
	}

	return enrollments, nil
}

func (c *Firestore) loadStudents(ctx context.Context, into map[string]*types.Student) error {
	snaps, err := c.getAll(ctx, studentsCollection, keys(into))
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}

	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var student types.Student
		if err := snap.DataTo(&student); err != nil {
			return fmt.Errorf("failed to decode student %s: %w", snap.Ref.ID, err)
		}
		student.ID = snap.Ref.ID
		into[student.ID] = &student
	}
	return nil
}

func (c *Firestore) loadCourses(ctx context.Context, into map[string]*types.Course) error {
	snaps, err := c.getAll(ctx, coursesCollection, keys(into))
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}

	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var course types.Course
		if err := snap.DataTo(&course); err != nil {
			return fmt.Errorf("failed to decode course %s: %w", snap.Ref.ID, err)
		}
		course.ID = snap.Ref.ID
		into[course.ID] = &course
	}
	return nil
}

// getAll fetches documents by id in a single batched read. Ids that cannot
// address a document are skipped and simply stay unresolved.
func (c *Firestore) getAll(ctx context.Context, collection string, ids []string) ([]*firestore.DocumentSnapshot, error) {
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if !ValidDocID(id) {
			continue
		}
		refs = append(refs, c.Collection(collection).Doc(id))
	}
	if len(refs) == 0 {
		return nil, nil
	}

	return c.GetAll(ctx, refs)
}

func keys[T any](m map[string]*T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
