package grading

import "errors"

var (
	// ErrInvalidSemester is returned for a semester label that is not of the
	// form "Ganjil 2023/2024" or "Genap 2023/2024".
	ErrInvalidSemester = errors.New("invalid semester label")
	// ErrInvalidScore is returned for a score outside [0, 100].
	ErrInvalidScore = errors.New("score must be between 0 and 100")
	// ErrNotFound signals that no enrollment matched. It is an absence of a
	// result, not a failure.
	ErrNotFound = errors.New("no matching grades")
)
