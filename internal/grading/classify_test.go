package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score  float64
		letter string
		weight float64
	}{
		{0, "F", 0},
		{39, "F", 0},
		{39.99, "F", 0},
		{40, "E", 1.0},
		{54, "E", 1.0},
		{55, "D", 2.0},
		{59, "D", 2.0},
		{60, "D+", 2.3},
		{64, "D+", 2.3},
		{65, "C", 2.7},
		{69, "C", 2.7},
		{70, "C+", 3.0},
		{74, "C+", 3.0},
		{75, "B", 3.4},
		{79, "B", 3.4},
		{80, "B+", 3.7},
		{84, "B+", 3.7},
		{84.5, "B+", 3.7},
		{85, "A", 4.0},
		{100, "A", 4.0},
	}
	for _, tt := range tests {
		letter, weight := Classify(tt.score)
		assert.Equal(t, tt.letter, letter, "letter for %v", tt.score)
		assert.Equal(t, tt.weight, weight, "weight for %v", tt.score)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	_, prev := Classify(0)
	for s := 0.5; s <= 100; s += 0.5 {
		_, w := Classify(s)
		assert.GreaterOrEqual(t, w, prev, "weight dropped at %v", s)
		prev = w
	}
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, ValidateScore(0))
	assert.NoError(t, ValidateScore(100))
	assert.NoError(t, ValidateScore(72.5))
	assert.ErrorIs(t, ValidateScore(-1), ErrInvalidScore)
	assert.ErrorIs(t, ValidateScore(100.01), ErrInvalidScore)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.45, round2(3.445))
	assert.Equal(t, 3.44, round2(3.444))
	assert.Equal(t, 3.0, round2(3))
	assert.Equal(t, 88.33, round2(265.0/3))
}

func TestValidateSemester(t *testing.T) {
	valid := []string{"Ganjil 2023/2024", "Genap 2023/2024", "Genap 1999/2000"}
	for _, label := range valid {
		assert.NoError(t, ValidateSemester(label), label)
	}

	invalid := []string{"", "ganjil 2023/2024", "Ganjil 2023-2024", "Ganjil 23/24", " Ganjil 2023/2024", "Ganjil 2023/2024 ", "Pendek 2023/2024"}
	for _, label := range invalid {
		assert.ErrorIs(t, ValidateSemester(label), ErrInvalidSemester, label)
	}
}
