package grading

import (
	"fmt"
	"math"
)

// PassingScore is the lowest score that counts as passed on a transcript.
const PassingScore = 60

type letterGrade struct {
	min    float64
	letter string
	weight float64
}

// letterGrades is evaluated top to bottom, first match wins.
var letterGrades = []letterGrade{
	{85, "A", 4.0},
	{80, "B+", 3.7},
	{75, "B", 3.4},
	{70, "C+", 3.0},
	{65, "C", 2.7},
	{60, "D+", 2.3},
	{55, "D", 2.0},
	{40, "E", 1.0},
}

// Classify maps a score in [0, 100] to its letter grade and weight (bobot).
func Classify(score float64) (letter string, weight float64) {
	for _, g := range letterGrades {
		if score >= g.min {
			return g.letter, g.weight
		}
	}
	return "F", 0
}

// ValidateScore rejects scores the classifier is not defined for.
func ValidateScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidScore, score)
	}
	return nil
}

// round2 rounds half up to two decimals. Inputs are never negative.
// The epsilon absorbs binary representation error so 3.445 rounds to 3.45.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5+1e-9) / 100
}
