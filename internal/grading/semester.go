package grading

import (
	"fmt"
	"regexp"
)

// AllSemesters is reported in place of a semester label when a query spans
// every semester.
const AllSemesters = "Semua semester"

var semesterPattern = regexp.MustCompile(`^(Ganjil|Genap) \d{4}/\d{4}$`)

// ValidateSemester checks the label format only. Labels are otherwise opaque
// and compared by exact string equality.
func ValidateSemester(label string) error {
	if !semesterPattern.MatchString(label) {
		return fmt.Errorf("%w: %q, use e.g. \"Ganjil 2023/2024\" or \"Genap 2023/2024\"", ErrInvalidSemester, label)
	}
	return nil
}
