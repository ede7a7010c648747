package grading

import "github.com/shafwanhasyim/sikad-gg/internal/types"

// Distribution counts a course's scores per letter band.
//
// The band edges are kept apart from the letter table used by Classify:
// everything below 55 is counted as E here, including scores Classify
// would call F.
type Distribution struct {
	A     int `json:"A"`
	BPlus int `json:"B+"`
	B     int `json:"B"`
	CPlus int `json:"C+"`
	C     int `json:"C"`
	DPlus int `json:"D+"`
	D     int `json:"D"`
	E     int `json:"E"`
	Total int `json:"total"`
}

// Band is a single labelled count, in display order.
type Band struct {
	Letter string
	Count  int
}

// Bands returns the counts from A down to E.
func (d Distribution) Bands() []Band {
	return []Band{
		{"A", d.A},
		{"B+", d.BPlus},
		{"B", d.B},
		{"C+", d.CPlus},
		{"C", d.C},
		{"D+", d.DPlus},
		{"D", d.D},
		{"E", d.E},
	}
}

// BuildDistribution buckets the scores of courseID, optionally restricted to
// one semester. It always returns a histogram, all zeros when nothing matched.
func BuildDistribution(enrollments []types.Enrollment, courseID, semester string) Distribution {
	var d Distribution
	for _, e := range enrollments {
		if e.CourseID != courseID {
			continue
		}
		if semester != "" && e.Semester != semester {
			continue
		}
		d.add(e.Score)
	}
	return d
}

func (d *Distribution) add(score float64) {
	switch {
	case score >= 85:
		d.A++
	case score >= 80:
		d.BPlus++
	case score >= 75:
		d.B++
	case score >= 70:
		d.CPlus++
	case score >= 65:
		d.C++
	case score >= 60:
		d.DPlus++
	case score >= 55:
		d.D++
	default:
		d.E++
	}
	d.Total++
}
