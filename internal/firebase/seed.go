package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"google.golang.org/api/iterator"
)

// Firestore caps the number of values in an "in" filter.
const inQueryLimit = 10

// Seeded documents use ids derived from their natural keys so that running
// the same fixture twice overwrites instead of duplicating.

func StudentDocID(npm string) string {
	return "npm-" + sanitizeDocID(npm)
}

func CourseDocID(code string) string {
	return "mk-" + sanitizeDocID(code)
}

// GradeDocID is {student}.{course}.{semester}, e.g. "npm-2206.mk-if2110.ganjil2023-2024".
func GradeDocID(studentID, courseID, semester string) string {
	return fmt.Sprintf("%s.%s.%s", studentID, courseID, sanitizeDocID(semester))
}

// CourseIDsByCode returns the document id of every code already stored.
// When a code is somehow held by several documents the seeded id wins.
func (c *Firestore) CourseIDsByCode(ctx context.Context, codes []string) (map[string]string, error) {
	ids := make(map[string]string, len(codes))
	for start := 0; start < len(codes); start += inQueryLimit {
		chunk := make([]string, 0, inQueryLimit)
		for _, code := range codes[start:min(start+inQueryLimit, len(codes))] {
			chunk = append(chunk, normalizeCourseCode(code))
		}
		if err := c.courseIDsIn(ctx, chunk, ids); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (c *Firestore) courseIDsIn(ctx context.Context, codes []string, into map[string]string) error {
	iter := c.Collection(coursesCollection).Where("kode", "in", codes).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up course codes: %w", err)
		}

		var course types.Course
		if err := doc.DataTo(&course); err != nil {
			return fmt.Errorf("failed to decode course %s: %w", doc.Ref.ID, err)
		}
		if _, seen := into[course.Code]; !seen || doc.Ref.ID == CourseDocID(course.Code) {
			into[course.Code] = doc.Ref.ID
		}
	}
}

/*
ImportRecords upserts a fixture with a BulkWriter:

  - students/{StudentDocID(npm)}
  - courses/{CourseDocID(code)}, or the id of a course already holding the code
  - grades/{GradeDocID(student, course, semester)}

Records must already carry their ids. The writer is flushed before
returning and every failed document write is reported.
*/
func (c *Firestore) ImportRecords(ctx context.Context, students []types.Student, courses []types.Course, grades []types.Grade) error {
	writer := c.BulkWriter(ctx)
	writes := make([]queuedWrite, 0, len(students)+len(courses)+len(grades))

	set := func(ref *firestore.DocumentRef, data any) error {
		path := ref.Parent.ID + "/" + ref.ID
		job, err := writer.Set(ref, data)
		if err != nil {
			return fmt.Errorf("failed to queue %s: %w", path, err)
		}
		writes = append(writes, queuedWrite{path: path, job: job})
		return nil
	}

	err := func() error {
		for _, student := range students {
			student.NameNormalized = normalizeName(student.Name)
			if err := set(c.Collection(studentsCollection).Doc(student.ID), student); err != nil {
				return err
			}
		}
		for _, course := range courses {
			course.Code = normalizeCourseCode(course.Code)
			if err := set(c.Collection(coursesCollection).Doc(course.ID), course); err != nil {
				return err
			}
		}
		for _, grade := range grades {
			if err := set(c.Collection(gradesCollection).Doc(grade.ID), grade); err != nil {
				return err
			}
		}
		return nil
	}()

	writer.End()
	if err != nil {
		return err
	}
	return writeErrors(writes)
}
