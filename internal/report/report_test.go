package report

import (
	"strings"
	"testing"

	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/stretchr/testify/assert"
)

func TestSemesterGPAPlain(t *testing.T) {
	gpa := &grading.SemesterGPA{
		Student:      grading.StudentInfo{ID: "s1", Name: "Budi", NPM: "2206000002", Department: "Informatika"},
		Semester:     "Ganjil 2023/2024",
		CourseCount:  2,
		TotalCredits: 5,
		GPA:          3.6,
		Honor:        grading.HonorWithPraise,
		Courses: []grading.CourseScore{
			{CourseName: "Algoritma", CourseCode: "IF2110", Credits: 3, Score: 90, Letter: "A", Weight: 4},
			{CourseName: "Kalkulus", CourseCode: "MA1101", Credits: 2, Score: 72, Letter: "C+", Weight: 3},
		},
	}

	out := New(false).SemesterGPA(gpa)

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Budi")
	assert.Contains(t, out, "Ganjil 2023/2024")
	assert.Contains(t, out, "IF2110")
	assert.Contains(t, out, "C+")
	assert.Contains(t, out, "IPS 3.60 (Dengan Pujian), 2 mata kuliah, 5 SKS")
}

func TestRankingPlain(t *testing.T) {
	out := New(false).Ranking([]grading.RankEntry{
		{Rank: 1, StudentID: "s2", Name: "Ani", NPM: "2206000001", Department: "Informatika", MeanScore: 86, CourseCount: 1},
		{Rank: 2, StudentID: "s1", Name: "Budi", NPM: "2206000002", Department: "Informatika", MeanScore: 81, CourseCount: 2},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Ani")
	assert.Contains(t, lines[2], "86.00")
	assert.Contains(t, lines[3], "Budi")
}

func TestDistributionPlain(t *testing.T) {
	out := New(false).Distribution("IF2110 Algoritma", grading.AllSemesters, grading.Distribution{A: 4, B: 2, E: 1, Total: 7})

	assert.Contains(t, out, "Semua semester")
	assert.Contains(t, out, "A     4 "+strings.Repeat("#", barWidth))
	assert.Contains(t, out, "B     2 "+strings.Repeat("#", barWidth/2))
	assert.Contains(t, out, "E     1 "+strings.Repeat("#", barWidth/4))
	assert.Contains(t, out, "C+    0 \n")
	assert.Contains(t, out, "Total 7")
}

func TestDistributionEmpty(t *testing.T) {
	out := New(false).Distribution("IF2110", "Genap 2023/2024", grading.Distribution{})
	assert.Contains(t, out, "Total 0")
	assert.NotContains(t, out, "#")
}

func TestTranscriptPlain(t *testing.T) {
	out := New(false).Transcript(&grading.Transcript{
		Student: grading.StudentInfo{Name: "Budi", NPM: "2206000002"},
		Lines: []grading.TranscriptLine{
			{CourseName: "Algoritma", CourseCode: "IF2110", Credits: 3, Semester: "Ganjil 2023/2024", Score: 90, Passed: true, Remark: grading.RemarkPassed},
			{CourseName: "Kalkulus", CourseCode: "MA1101", Credits: 2, Semester: "Ganjil 2023/2024", Score: 42, Passed: false, Remark: grading.RemarkFailed},
		},
	})

	assert.Contains(t, out, "Lulus")
	assert.Contains(t, out, "Tidak Lulus")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Pemrogr~", truncate("Pemrograman Berorientasi Objek", 8))
}
