package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// memStore is an in-memory Store. Ids are sequential per collection.
type memStore struct {
	mu       sync.Mutex
	seq      int
	students map[string]types.Student
	courses  map[string]types.Course
	grades   map[string]types.Grade
	order    []string
	keys     map[string]types.APIKey
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[string]types.Student),
		courses:  make(map[string]types.Course),
		grades:   make(map[string]types.Grade),
		keys:     make(map[string]types.APIKey),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", firebase.ErrNotFound, what, id)
}

func (s *memStore) CreateStudent(_ context.Context, student types.Student) (*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	student.ID = s.nextID("s")
	s.students[student.ID] = student
	return &student, nil
}

func (s *memStore) GetStudent(_ context.Context, id string) (*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[id]
	if !ok {
		return nil, notFound("student", id)
	}
	return &student, nil
}

func (s *memStore) ListStudents(_ context.Context, name string, limit, offset int) ([]types.Student, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Student
	for _, st := range s.students {
		if name == "" || strings.HasPrefix(strings.ToLower(st.Name), strings.ToLower(name)) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NPM < out[j].NPM })
	page, hasNext := paginate(out, limit, offset)
	return page, hasNext, nil
}

func (s *memStore) UpdateStudent(_ context.Context, id string, student types.Student) (*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return nil, notFound("student", id)
	}
	student.ID = id
	s.students[id] = student
	return &student, nil
}

func (s *memStore) DeleteStudent(_ context.Context, id string) (*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[id]
	if !ok {
		return nil, notFound("student", id)
	}
	delete(s.students, id)
	return &student, nil
}

func (s *memStore) CreateCourse(_ context.Context, course types.Course) (*types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course.Code = strings.ToUpper(course.Code)
	for _, existing := range s.courses {
		if existing.Code == course.Code {
			return nil, fmt.Errorf("%w: course code %s", firebase.ErrConflict, course.Code)
		}
	}
	course.ID = s.nextID("c")
	s.courses[course.ID] = course
	return &course, nil
}

func (s *memStore) GetCourse(_ context.Context, id string) (*types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	return &course, nil
}

func (s *memStore) ListCourses(_ context.Context, department string, limit, offset int) ([]types.Course, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Course
	for _, course := range s.courses {
		if department == "" || course.Department == department {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	page, hasNext := paginate(out, limit, offset)
	return page, hasNext, nil
}

func (s *memStore) UpdateCourse(_ context.Context, id string, course types.Course) (*types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return nil, notFound("course", id)
	}
	course.ID = id
	s.courses[id] = course
	return &course, nil
}

func (s *memStore) DeleteCourse(_ context.Context, id string) (*types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	delete(s.courses, id)
	return &course, nil
}

func (s *memStore) CreateGrade(_ context.Context, grade types.Grade) (*types.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grade.ID = s.nextID("g")
	s.grades[grade.ID] = grade
	s.order = append(s.order, grade.ID)
	return &grade, nil
}

func (s *memStore) GetGrade(_ context.Context, id string) (*types.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grade, ok := s.grades[id]
	if !ok {
		return nil, notFound("grade", id)
	}
	enrollment, ok := s.resolve(grade)
	if !ok {
		return nil, notFound("grade", id)
	}
	return &enrollment, nil
}

func (s *memStore) UpdateGrade(ctx context.Context, id string, grade types.Grade) (*types.Enrollment, error) {
	s.mu.Lock()
	if _, ok := s.grades[id]; !ok {
		s.mu.Unlock()
		return nil, notFound("grade", id)
	}
	grade.ID = id
	s.grades[id] = grade
	s.mu.Unlock()
	return s.GetGrade(ctx, id)
}

func (s *memStore) DeleteGrade(_ context.Context, id string) (*types.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grade, ok := s.grades[id]
	if !ok {
		return nil, notFound("grade", id)
	}
	delete(s.grades, id)
	return &grade, nil
}

func (s *memStore) CountGrades(_ context.Context, grade types.Grade, exceptID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, g := range s.grades {
		if id != exceptID && g.StudentID == grade.StudentID && g.CourseID == grade.CourseID && g.Semester == grade.Semester {
			count++
		}
	}
	return count, nil
}

func (s *memStore) Enrollments(ctx context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, error) {
	filter.Limit, filter.Offset = 0, 0
	enrollments, _, err := s.ListEnrollments(ctx, filter)
	return enrollments, err
}

func (s *memStore) ListEnrollments(_ context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, false, s.failWith
	}
	var out []types.Enrollment
	for _, id := range s.order {
		grade, ok := s.grades[id]
		if !ok {
			continue
		}
		if filter.StudentID != "" && grade.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && grade.CourseID != filter.CourseID {
			continue
		}
		if filter.Semester != "" && grade.Semester != filter.Semester {
			continue
		}
		if enrollment, ok := s.resolve(grade); ok {
			out = append(out, enrollment)
		}
	}
	page, hasNext := paginate(out, filter.Limit, filter.Offset)
	return page, hasNext, nil
}

func (s *memStore) resolve(grade types.Grade) (types.Enrollment, bool) {
	student, ok := s.students[grade.StudentID]
	if !ok {
		return types.Enrollment{}, false
	}
	course, ok := s.courses[grade.CourseID]
	if !ok {
		return types.Enrollment{}, false
	}
	return types.Enrollment{
		GradeID:           grade.ID,
		Semester:          grade.Semester,
		Score:             grade.Score,
		StudentID:         student.ID,
		StudentName:       student.Name,
		StudentNPM:        student.NPM,
		StudentDepartment: student.Department,
		CourseID:          course.ID,
		CourseCode:        course.Code,
		CourseName:        course.Name,
		Credits:           course.Credits,
	}, true
}

func (s *memStore) GenerateAPIKey(_ context.Context, req firebase.KeyRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextID("key")
	s.keys[key] = types.APIKey{
		Key:           key,
		Owner:         req.Owner,
		RateLimit:     req.RateLimit,
		WindowSeconds: req.WindowSeconds,
		IsAdmin:       req.IsAdmin,
		ExpiresAt:     req.ExpiresAt,
	}
	return key, nil
}

func (s *memStore) GetAPIKey(_ context.Context, docID string) (*types.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.keys[docID]
	if !ok {
		return nil, notFound("api key", docID)
	}
	return &key, nil
}

func paginate[T any](items []T, limit, offset int) ([]T, bool) {
	if offset >= len(items) {
		return []T{}, false
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		return items[:limit], true
	}
	return items, false
}
