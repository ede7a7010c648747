package grading

import "github.com/shafwanhasyim/sikad-gg/internal/types"

// Honor labels (predikat) for a semester GPA.
const (
	HonorWithPraise       = "Dengan Pujian"
	HonorVerySatisfactory = "Sangat Memuaskan"
	HonorSatisfactory     = "Memuaskan"
	HonorAdequate         = "Cukup"
	HonorInsufficient     = "Kurang"
)

// StudentInfo is the student header attached to per-student results.
type StudentInfo struct {
	ID         string `json:"id"`
	Name       string `json:"nama"`
	NPM        string `json:"npm"`
	Department string `json:"jurusan"`
}

// CourseScore is one line of a semester GPA breakdown.
type CourseScore struct {
	CourseName string  `json:"mataKuliah"`
	CourseCode string  `json:"kode"`
	Credits    int     `json:"sks"`
	Score      float64 `json:"nilai"`
	Letter     string  `json:"nilaiHuruf"`
	Weight     float64 `json:"bobot"`
}

// SemesterGPA is the IP Semester of one student for one semester.
type SemesterGPA struct {
	Student      StudentInfo   `json:"mahasiswa"`
	Semester     string        `json:"semester"`
	CourseCount  int           `json:"jumlahMataKuliah"`
	TotalCredits int           `json:"totalSKS"`
	GPA          float64       `json:"ips"`
	Honor        string        `json:"predikat"`
	Courses      []CourseScore `json:"detailNilai"`
}

// ComputeSemesterGPA computes the credit-weighted GPA of enrollments that the
// caller has already narrowed to one student and to semester.
func ComputeSemesterGPA(enrollments []types.Enrollment, semester string) (*SemesterGPA, error) {
	if len(enrollments) == 0 {
		return nil, ErrNotFound
	}

	var totalWeighted float64
	var totalCredits int
	courses := make([]CourseScore, 0, len(enrollments))

	for _, e := range enrollments {
		letter, weight := Classify(e.Score)
		totalWeighted += weight * float64(e.Credits)
		totalCredits += e.Credits

		courses = append(courses, CourseScore{
			CourseName: e.CourseName,
			CourseCode: e.CourseCode,
			Credits:    e.Credits,
			Score:      e.Score,
			Letter:     letter,
			Weight:     weight,
		})
	}

	var gpa float64
	if totalCredits > 0 {
		gpa = round2(totalWeighted / float64(totalCredits))
	}

	return &SemesterGPA{
		Student:      studentInfo(enrollments[0]),
		Semester:     semester,
		CourseCount:  len(enrollments),
		TotalCredits: totalCredits,
		GPA:          gpa,
		Honor:        HonorFor(gpa),
		Courses:      courses,
	}, nil
}

// HonorFor maps a rounded GPA to its honor label.
func HonorFor(gpa float64) string {
	switch {
	case gpa >= 3.5:
		return HonorWithPraise
	case gpa >= 3.0:
		return HonorVerySatisfactory
	case gpa >= 2.5:
		return HonorSatisfactory
	case gpa >= 2.0:
		return HonorAdequate
	default:
		return HonorInsufficient
	}
}

func studentInfo(e types.Enrollment) StudentInfo {
	return StudentInfo{
		ID:         e.StudentID,
		Name:       e.StudentName,
		NPM:        e.StudentNPM,
		Department: e.StudentDepartment,
	}
}
