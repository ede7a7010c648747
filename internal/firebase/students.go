package firebase

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"google.golang.org/api/iterator"
)

func (c *Firestore) CreateStudent(ctx context.Context, student types.Student) (*types.Student, error) {
	doc := c.Collection(studentsCollection).NewDoc()
	student.ID = doc.ID
	student.NameNormalized = normalizeName(student.Name)

	if _, err := doc.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", mapError(err))
	}

	return &student, nil
}

func (c *Firestore) GetStudent(ctx context.Context, id string) (*types.Student, error) {
	doc, err := c.Collection(studentsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	var student types.Student
	if err := doc.DataTo(&student); err != nil {
		return nil, err
	}
	student.ID = doc.Ref.ID

	return &student, nil
}

// ListStudents orders by NPM. A non-empty name turns the listing into a
// case-insensitive prefix search on the student's name.
func (c *Firestore) ListStudents(ctx context.Context, name string, limit, offset int) ([]types.Student, bool, error) {
	query := c.Collection(studentsCollection).OrderBy("npm", firestore.Asc)

	if normalized := normalizeName(name); normalized != "" {
		query = c.Collection(studentsCollection).
			Where("name_normalized", ">=", normalized).
			Where("name_normalized", "<=", normalized+"\uf8ff").
			OrderBy("name_normalized", firestore.Asc)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var students []types.Student
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to get next student: %w", err)
		}

		var student types.Student
		if err := doc.DataTo(&student); err != nil {
			return nil, false, fmt.Errorf("failed to decode student %s: %w", doc.Ref.ID, err)
		}
		student.ID = doc.Ref.ID
		students = append(students, student)
	}

	hasNext := false
	if limit > 0 && len(students) > limit {
		hasNext = true
		students = students[:limit]
	}

	return students, hasNext, nil
}

func (c *Firestore) UpdateStudent(ctx context.Context, id string, student types.Student) (*types.Student, error) {
	_, err := c.Collection(studentsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "name", Value: student.Name},
		{Path: "name_normalized", Value: normalizeName(student.Name)},
		{Path: "npm", Value: strings.TrimSpace(student.NPM)},
		{Path: "jurusan", Value: student.Department},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update student %s: %w", id, mapError(err))
	}

	return c.GetStudent(ctx, id)
}

// DeleteStudent returns the removed document. Grades pointing at the student
// are left in place.
func (c *Firestore) DeleteStudent(ctx context.Context, id string) (*types.Student, error) {
	student, err := c.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := c.Collection(studentsCollection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return nil, fmt.Errorf("failed to delete student %s: %w", id, mapError(err))
	}

	return student, nil
}
