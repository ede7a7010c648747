package firebase

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"google.golang.org/api/iterator"
)

func normalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateCourse fails with ErrConflict when the course code is already taken.
// The code check and the write share one transaction.
func (c *Firestore) CreateCourse(ctx context.Context, course types.Course) (*types.Course, error) {
	course.Code = normalizeCourseCode(course.Code)

	doc := c.Collection(coursesCollection).NewDoc()
	course.ID = doc.ID
	err := c.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := c.claimCourseCode(tx, course.Code, ""); err != nil {
			return err
		}
		return tx.Create(doc, course)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", mapError(err))
	}

	return &course, nil
}

func (c *Firestore) GetCourse(ctx context.Context, id string) (*types.Course, error) {
	doc, err := c.Collection(coursesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	var course types.Course
	if err := doc.DataTo(&course); err != nil {
		return nil, err
	}
	course.ID = doc.Ref.ID

	return &course, nil
}

// ListCourses orders by course code, optionally restricted to one department.
func (c *Firestore) ListCourses(ctx context.Context, department string, limit, offset int) ([]types.Course, bool, error) {
	query := c.Collection(coursesCollection).Query
	if department = strings.TrimSpace(department); department != "" {
		query = query.Where("jurusan", "==", department)
	}
	query = query.OrderBy("kode", firestore.Asc)

	return c.collectCourses(ctx, query, limit, offset)
}

func (c *Firestore) UpdateCourse(ctx context.Context, id string, course types.Course) (*types.Course, error) {
	course.Code = normalizeCourseCode(course.Code)

	doc := c.Collection(coursesCollection).Doc(id)
	err := c.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := c.claimCourseCode(tx, course.Code, id); err != nil {
			return err
		}
		return tx.Update(doc, []firestore.Update{
			{Path: "kode", Value: course.Code},
			{Path: "nama", Value: course.Name},
			{Path: "sks", Value: course.Credits},
			{Path: "jurusan", Value: course.Department},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update course %s: %w", id, mapError(err))
	}

	return c.GetCourse(ctx, id)
}

func (c *Firestore) DeleteCourse(ctx context.Context, id string) (*types.Course, error) {
	course, err := c.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := c.Collection(coursesCollection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return nil, fmt.Errorf("failed to delete course %s: %w", id, mapError(err))
	}

	return course, nil
}

// claimCourseCode reads the courses holding code inside tx and returns
// ErrConflict when one other than exceptID exists. Concurrent claims of the
// same code contend on that read, so only one transaction commits.
func (c *Firestore) claimCourseCode(tx *firestore.Transaction, code, exceptID string) error {
	iter := tx.Documents(c.Collection(coursesCollection).Where("kode", "==", code).Limit(2))
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to check course code: %w", err)
		}
		if doc.Ref.ID != exceptID {
			return fmt.Errorf("%w: course code %s", ErrConflict, code)
		}
	}
}

func (c *Firestore) collectCourses(ctx context.Context, query firestore.Query, limit, offset int) ([]types.Course, bool, error) {
	if limit > 0 {
		query = query.Offset(offset).Limit(limit + 1)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var courses []types.Course
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to get next course: %w", err)
		}

		var course types.Course
		if err := doc.DataTo(&course); err != nil {
			return nil, false, fmt.Errorf("failed to decode course %s: %w", doc.Ref.ID, err)
		}
		course.ID = doc.Ref.ID
		courses = append(courses, course)
	}

	hasNext := false
	if limit > 0 && len(courses) > limit {
		hasNext = true
		courses = courses[:limit]
	}

	return courses, hasNext, nil
}
