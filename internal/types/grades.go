package types

// Grade is one student's score in one course in one semester.
//
// Firestore Structure:
//   - grades/{auto_id}
//
// Indexes Required:
//   - student_id + semester (semester GPA lookups)
//   - course_id + semester (distribution lookups)
type Grade struct {
	ID        string  `json:"id" firestore:"-"`
	StudentID string  `json:"mahasiswa" firestore:"student_id"`
	CourseID  string  `json:"mataKuliah" firestore:"course_id"`
	Semester  string  `json:"semester" firestore:"semester"` // e.g., "Ganjil 2023/2024"
	Score     float64 `json:"nilai" firestore:"score"`       // 0..100
}

// Enrollment is a Grade with its student and course already resolved.
// This is the shape the grading engine consumes.
type Enrollment struct {
	GradeID  string  `json:"id"`
	Semester string  `json:"semester"`
	Score    float64 `json:"nilai"`

	StudentID         string `json:"mahasiswa_id"`
	StudentName       string `json:"mahasiswa"`
	StudentNPM        string `json:"npm"`
	StudentDepartment string `json:"jurusan"`

	CourseID   string `json:"mata_kuliah_id"`
	CourseCode string `json:"kode"`
	CourseName string `json:"mata_kuliah"`
	Credits    int    `json:"sks"`
}

// EnrollmentFilter narrows an enrollment read. Empty fields match everything.
type EnrollmentFilter struct {
	StudentID string
	CourseID  string
	Semester  string
	Limit     int // Max results to return (0 for no limit)
	Offset    int // Number of results to skip
}
