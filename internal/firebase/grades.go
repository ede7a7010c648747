package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"google.golang.org/api/iterator"
)

func (c *Firestore) CreateGrade(ctx context.Context, grade types.Grade) (*types.Grade, error) {
	doc := c.Collection(gradesCollection).NewDoc()
	grade.ID = doc.ID

	if _, err := doc.Create(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to create grade: %w", mapError(err))
	}

	return &grade, nil
}

func (c *Firestore) getGradeDoc(ctx context.Context, id string) (*types.Grade, error) {
	doc, err := c.Collection(gradesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	var grade types.Grade
	if err := doc.DataTo(&grade); err != nil {
		return nil, err
	}
	grade.ID = doc.Ref.ID

	return &grade, nil
}

// GetGrade returns the grade with its student and course populated.
func (c *Firestore) GetGrade(ctx context.Context, id string) (*types.Enrollment, error) {
	grade, err := c.getGradeDoc(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, err := c.resolve(ctx, []types.Grade{*grade})
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, fmt.Errorf("%w: grade %s references a missing student or course", ErrNotFound, id)
	}

	return &enrollments[0], nil
}

func (c *Firestore) UpdateGrade(ctx context.Context, id string, grade types.Grade) (*types.Enrollment, error) {
	_, err := c.Collection(gradesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "student_id", Value: grade.StudentID},
		{Path: "course_id", Value: grade.CourseID},
		{Path: "semester", Value: grade.Semester},
		{Path: "score", Value: grade.Score},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update grade %s: %w", id, mapError(err))
	}

	return c.GetGrade(ctx, id)
}

func (c *Firestore) DeleteGrade(ctx context.Context, id string) (*types.Grade, error) {
	grade, err := c.getGradeDoc(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := c.Collection(gradesCollection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return nil, fmt.Errorf("failed to delete grade %s: %w", id, mapError(err))
	}

	return grade, nil
}

// CountGrades counts grades for the same student, course and semester,
// excluding exceptID. Duplicates are allowed; callers use this to warn.
func (c *Firestore) CountGrades(ctx context.Context, grade types.Grade, exceptID string) (int, error) {
	iter := c.Collection(gradesCollection).
		Where("student_id", "==", grade.StudentID).
		Where("course_id", "==", grade.CourseID).
		Where("semester", "==", grade.Semester).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count grades: %w", err)
		}
		if doc.Ref.ID != exceptID {
			count++
		}
	}

	return count, nil
}

func (c *Firestore) collectGrades(ctx context.Context, query firestore.Query, limit, offset int) ([]types.Grade, bool, error) {
	if limit > 0 {
		query = query.Offset(offset).Limit(limit + 1)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var grades []types.Grade
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to get next grade: %w", err)
		}

		var grade types.Grade
		if err := doc.DataTo(&grade); err != nil {
			return nil, false, fmt.Errorf("failed to decode grade %s: %w", doc.Ref.ID, err)
		}
		grade.ID = doc.Ref.ID
		grades = append(grades, grade)
	}

	hasNext := false
	if limit > 0 && len(grades) > limit {
		hasNext = true
		grades = grades[:limit]
	}

	return grades, hasNext, nil
}
