// Package report renders grading results for a terminal.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
)

const barWidth = 30

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Underline(true)
	styleLabel   = lipgloss.NewStyle().Faint(true)
	styleGood    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleFair    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stylePoor    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleBar     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleSummary = lipgloss.NewStyle().Bold(true)
)

// Renderer formats engine results. A plain renderer emits no escape codes.
type Renderer struct {
	styled bool
}

func New(styled bool) *Renderer {
	return &Renderer{styled: styled}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// letter colors a padded letter grade by band.
func (r *Renderer) letter(letter string) string {
	padded := fmt.Sprintf("%-2s", letter)
	switch letter {
	case "A", "B+", "B":
		return r.style(styleGood, padded)
	case "C+", "C", "D+", "D":
		return r.style(styleFair, padded)
	default:
		return r.style(stylePoor, padded)
	}
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", r.style(styleLabel, fmt.Sprintf("%-10s", label+":")), value)
}

func (r *Renderer) SemesterGPA(gpa *grading.SemesterGPA) string {
	var b strings.Builder
	b.WriteString(r.style(styleTitle, "IP Semester") + "\n")
	r.field(&b, "Nama", gpa.Student.Name)
	r.field(&b, "NPM", gpa.Student.NPM)
	r.field(&b, "Jurusan", gpa.Student.Department)
	r.field(&b, "Semester", gpa.Semester)
	b.WriteString("\n")

	b.WriteString(r.style(styleHeader, fmt.Sprintf("%-10s %-32s %3s %6s %-2s %5s", "Kode", "Mata Kuliah", "SKS", "Nilai", "HM", "Bobot")) + "\n")
	for _, c := range gpa.Courses {
		fmt.Fprintf(&b, "%-10s %-32s %3d %6.2f %s %5.2f\n",
			c.CourseCode, truncate(c.CourseName, 32), c.Credits, c.Score, r.letter(c.Letter), c.Weight)
	}
	b.WriteString("\n")

	summary := fmt.Sprintf("IPS %.2f (%s), %d mata kuliah, %d SKS", gpa.GPA, gpa.Honor, gpa.CourseCount, gpa.TotalCredits)
	b.WriteString(r.style(styleSummary, summary) + "\n")
	return b.String()
}

func (r *Renderer) Ranking(entries []grading.RankEntry) string {
	var b strings.Builder
	b.WriteString(r.style(styleTitle, "Peringkat") + "\n")
	b.WriteString(r.style(styleHeader, fmt.Sprintf("%4s %-12s %-28s %-20s %8s %4s", "#", "NPM", "Nama", "Jurusan", "Rata2", "MK")) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%4d %-12s %-28s %-20s %8.2f %4d\n",
			e.Rank, e.NPM, truncate(e.Name, 28), truncate(e.Department, 20), e.MeanScore, e.CourseCount)
	}
	return b.String()
}

// Distribution draws one bar per band, scaled to the largest band.
func (r *Renderer) Distribution(course, semester string, dist grading.Distribution) string {
	var b strings.Builder
	b.WriteString(r.style(styleTitle, "Distribusi Nilai") + "\n")
	r.field(&b, "Kelas", course)
	r.field(&b, "Semester", semester)
	b.WriteString("\n")

	bands := dist.Bands()
	peak := 0
	for _, band := range bands {
		if band.Count > peak {
			peak = band.Count
		}
	}

	for _, band := range bands {
		width := 0
		if peak > 0 {
			width = band.Count * barWidth / peak
		}
		if width == 0 && band.Count > 0 {
			width = 1
		}
		bar := r.style(styleBar, strings.Repeat("#", width))
		fmt.Fprintf(&b, "%s %4d %s\n", r.letter(band.Letter), band.Count, bar)
	}

	b.WriteString(r.style(styleSummary, fmt.Sprintf("Total %d", dist.Total)) + "\n")
	return b.String()
}

func (r *Renderer) Transcript(t *grading.Transcript) string {
	var b strings.Builder
	b.WriteString(r.style(styleTitle, "Transkrip") + "\n")
	r.field(&b, "Nama", t.Student.Name)
	r.field(&b, "NPM", t.Student.NPM)
	b.WriteString("\n")

	b.WriteString(r.style(styleHeader, fmt.Sprintf("%-18s %-10s %-28s %3s %6s %s", "Semester", "Kode", "Mata Kuliah", "SKS", "Nilai", "Keterangan")) + "\n")
	for _, line := range t.Lines {
		remark := r.style(styleGood, line.Remark)
		if !line.Passed {
			remark = r.style(stylePoor, line.Remark)
		}
		fmt.Fprintf(&b, "%-18s %-10s %-28s %3d %6.2f %s\n",
			line.Semester, line.CourseCode, truncate(line.CourseName, 28), line.Credits, line.Score, remark)
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "~"
}
