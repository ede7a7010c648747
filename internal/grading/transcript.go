package grading

import "github.com/shafwanhasyim/sikad-gg/internal/types"

// Transcript remarks.
const (
	RemarkPassed = "Lulus"
	RemarkFailed = "Tidak Lulus"
)

// TranscriptLine is one graded course on a student's transcript.
type TranscriptLine struct {
	CourseName string  `json:"mataKuliah"`
	CourseCode string  `json:"kode"`
	Credits    int     `json:"sks"`
	Semester   string  `json:"semester"`
	Score      float64 `json:"nilai"`
	Passed     bool    `json:"lulus"`
	Remark     string  `json:"keterangan"`
}

// Transcript lists every grade of one student with a pass/fail remark.
type Transcript struct {
	Student StudentInfo      `json:"mahasiswa"`
	Lines   []TranscriptLine `json:"data"`
}

// BuildTranscript expects the enrollments of a single student.
func BuildTranscript(enrollments []types.Enrollment) (*Transcript, error) {
	if len(enrollments) == 0 {
		return nil, ErrNotFound
	}

	lines := make([]TranscriptLine, 0, len(enrollments))
	for _, e := range enrollments {
		passed := e.Score >= PassingScore
		remark := RemarkFailed
		if passed {
			remark = RemarkPassed
		}
		lines = append(lines, TranscriptLine{
			CourseName: e.CourseName,
			CourseCode: e.CourseCode,
			Credits:    e.Credits,
			Semester:   e.Semester,
			Score:      e.Score,
			Passed:     passed,
			Remark:     remark,
		})
	}

	return &Transcript{
		Student: studentInfo(enrollments[0]),
		Lines:   lines,
	}, nil
}
