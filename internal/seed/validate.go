package seed

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shafwanhasyim/sikad-gg/internal/grading"
)

var npmPattern = regexp.MustCompile(`^\d+$`)

// Validate applies the same rules as the HTTP API and reports every
// problem found, not just the first.
func (f *Fixture) Validate() error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	npms := make(map[string]bool, len(f.Students))
	for i, s := range f.Students {
		npm := strings.TrimSpace(s.NPM)
		switch {
		case npm == "":
			fail("students[%d]: npm is required", i)
		case !npmPattern.MatchString(npm):
			fail("students[%d]: npm %q must be numeric", i, s.NPM)
		case npms[npm]:
			fail("students[%d]: duplicate npm %s", i, npm)
		}
		npms[npm] = true

		if strings.TrimSpace(s.Name) == "" {
			fail("students[%d]: name is required", i)
		}
		if strings.TrimSpace(s.Department) == "" {
			fail("students[%d]: jurusan is required", i)
		}
	}

	codes := make(map[string]bool, len(f.Courses))
	for i, c := range f.Courses {
		code := courseKey(c.Code)
		switch {
		case code == "":
			fail("courses[%d]: kode is required", i)
		case codes[code]:
			fail("courses[%d]: duplicate kode %s", i, code)
		}
		codes[code] = true

		if strings.TrimSpace(c.Name) == "" {
			fail("courses[%d]: nama is required", i)
		}
		if c.Credits < 1 || c.Credits > 6 {
			fail("courses[%d]: sks must be between 1 and 6, got %d", i, c.Credits)
		}
		if strings.TrimSpace(c.Department) == "" {
			fail("courses[%d]: jurusan is required", i)
		}
	}

	for i, g := range f.Grades {
		if !npms[strings.TrimSpace(g.NPM)] {
			fail("grades[%d]: unknown npm %q", i, g.NPM)
		}
		if !codes[courseKey(g.CourseCode)] {
			fail("grades[%d]: unknown kode %q", i, g.CourseCode)
		}
		if err := grading.ValidateSemester(g.Semester); err != nil {
			fail("grades[%d]: %w", i, err)
		}
		if g.Score == nil {
			fail("grades[%d]: nilai is required", i)
		} else if err := grading.ValidateScore(*g.Score); err != nil {
			fail("grades[%d]: %w", i, err)
		}
	}

	return errors.Join(errs...)
}

func courseKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
