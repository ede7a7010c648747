package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// Importer writes resolved records. *firebase.Firestore implements it.
type Importer interface {
	// CourseIDsByCode maps course codes already stored to their document ids.
	CourseIDsByCode(ctx context.Context, codes []string) (map[string]string, error)
	ImportRecords(ctx context.Context, students []types.Student, courses []types.Course, grades []types.Grade) error
}

// Summary counts what a seed run wrote.
type Summary struct {
	Students int
	Courses  int
	Grades   int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d students, %d courses, %d grades", s.Students, s.Courses, s.Grades)
}

// Records converts a validated fixture into documents with ids derived from
// NPM, course code and semester. Re-seeding the same data overwrites in
// place; two grade rows for the same triple collapse into the last one.
func (f *Fixture) Records() ([]types.Student, []types.Course, []types.Grade) {
	students := make([]types.Student, 0, len(f.Students))
	for _, s := range f.Students {
		npm := strings.TrimSpace(s.NPM)
		students = append(students, types.Student{
			ID:         firebase.StudentDocID(npm),
			Name:       strings.TrimSpace(s.Name),
			NPM:        npm,
			Department: strings.TrimSpace(s.Department),
		})
	}

	courses := make([]types.Course, 0, len(f.Courses))
	for _, c := range f.Courses {
		code := courseKey(c.Code)
		courses = append(courses, types.Course{
			ID:         firebase.CourseDocID(code),
			Code:       code,
			Name:       strings.TrimSpace(c.Name),
			Credits:    c.Credits,
			Department: strings.TrimSpace(c.Department),
		})
	}

	grades := make([]types.Grade, 0, len(f.Grades))
	for _, g := range f.Grades {
		studentID := firebase.StudentDocID(strings.TrimSpace(g.NPM))
		courseID := firebase.CourseDocID(courseKey(g.CourseCode))
		semester := g.Semester
		grades = append(grades, types.Grade{
			ID:        firebase.GradeDocID(studentID, courseID, semester),
			StudentID: studentID,
			CourseID:  courseID,
			Semester:  semester,
			Score:     *g.Score,
		})
	}

	return students, courses, grades
}

// Apply validates f and writes it through dst.
func Apply(ctx context.Context, dst Importer, f *Fixture) (Summary, error) {
	if err := f.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid fixture: %w", err)
	}

	students, courses, grades := f.Records()

	codes := make([]string, 0, len(courses))
	for _, c := range courses {
		codes = append(codes, c.Code)
	}
	existing, err := dst.CourseIDsByCode(ctx, codes)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to look up course codes: %w", err)
	}
	reuseCourseIDs(existing, courses, grades)

	if err := dst.ImportRecords(ctx, students, courses, grades); err != nil {
		return Summary{}, fmt.Errorf("failed to import fixture: %w", err)
	}

	return Summary{
		Students: len(students),
		Courses:  len(courses),
		Grades:   len(grades),
	}, nil
}

// reuseCourseIDs points courses whose code is already stored under another
// document id (for example one created through the API) at that document,
// so a code never ends up on two course documents.
func reuseCourseIDs(existing map[string]string, courses []types.Course, grades []types.Grade) {
	moved := make(map[string]string)
	for i, c := range courses {
		id, ok := existing[c.Code]
		if !ok || id == c.ID {
			continue
		}
		moved[c.ID] = id
		courses[i].ID = id
	}
	if len(moved) == 0 {
		return
	}

	for i, g := range grades {
		id, ok := moved[g.CourseID]
		if !ok {
			continue
		}
		grades[i].CourseID = id
		grades[i].ID = firebase.GradeDocID(g.StudentID, id, g.Semester)
	}
}
