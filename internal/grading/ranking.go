package grading

import (
	"sort"

	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// RankEntry is one student's position in a class ranking.
type RankEntry struct {
	Rank         int     `json:"rank"`
	StudentID    string  `json:"_id"`
	Name         string  `json:"nama"`
	NPM          string  `json:"npm"`
	Department   string  `json:"jurusan"`
	MeanScore    float64 `json:"rataRata"`
	CourseCount  int     `json:"totalMataKuliah"`
	unroundedAvg float64
}

// BuildRanking ranks students by the plain mean of their raw scores across
// every matched enrollment. A non-empty courseID restricts the ranking to
// that course.
//
// Equal means are ordered by NPM, then by student id, both ascending.
func BuildRanking(enrollments []types.Enrollment, courseID string) ([]RankEntry, error) {
	type group struct {
		first types.Enrollment
		sum   float64
		count int
	}

	groups := make(map[string]*group)
	var order []string
	for _, e := range enrollments {
		if courseID != "" && e.CourseID != courseID {
			continue
		}
		g, ok := groups[e.StudentID]
		if !ok {
			g = &group{first: e}
			groups[e.StudentID] = g
			order = append(order, e.StudentID)
		}
		g.sum += e.Score
		g.count++
	}

	if len(order) == 0 {
		return nil, ErrNotFound
	}

	ranking := make([]RankEntry, 0, len(order))
	for _, id := range order {
		g := groups[id]
		avg := g.sum / float64(g.count)
		ranking = append(ranking, RankEntry{
			StudentID:    id,
			Name:         g.first.StudentName,
			NPM:          g.first.StudentNPM,
			Department:   g.first.StudentDepartment,
			MeanScore:    round2(avg),
			CourseCount:  g.count,
			unroundedAvg: avg,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.unroundedAvg != b.unroundedAvg {
			return a.unroundedAvg > b.unroundedAvg
		}
		if a.NPM != b.NPM {
			return a.NPM < b.NPM
		}
		return a.StudentID < b.StudentID
	})

	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	return ranking, nil
}
