// Package seed loads student, course and grade fixtures from YAML.
//
// A fixture file looks like:
//
//	students:
//	  - npm: "2206000001"
//	    name: Ani
//	    jurusan: Informatika
//	courses:
//	  - kode: IF2110
//	    nama: Algoritma dan Struktur Data
//	    sks: 3
//	    jurusan: Informatika
//	grades:
//	  - npm: "2206000001"
//	    kode: IF2110
//	    semester: Ganjil 2023/2024
//	    nilai: 86
//
// Grades reference students by NPM and courses by code. Either may be
// declared in another file of the same seed run.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Students []StudentRecord `yaml:"students"`
	Courses  []CourseRecord  `yaml:"courses"`
	Grades   []GradeRecord   `yaml:"grades"`
}

type StudentRecord struct {
	NPM        string `yaml:"npm"`
	Name       string `yaml:"name"`
	Department string `yaml:"jurusan"`
}

type CourseRecord struct {
	Code       string `yaml:"kode"`
	Name       string `yaml:"nama"`
	Credits    int    `yaml:"sks"`
	Department string `yaml:"jurusan"`
}

type GradeRecord struct {
	NPM        string   `yaml:"npm"`
	CourseCode string   `yaml:"kode"`
	Semester   string   `yaml:"semester"`
	Score      *float64 `yaml:"nilai"`
}

// Parse decodes one fixture document. Unknown keys are rejected so typos do
// not silently drop data.
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses a fixture from disk.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseAll parses a set of named fixture documents, such as the objects of
// a storage folder, and merges them in name order.
func ParseAll(files map[string][]byte) (*Fixture, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := &Fixture{}
	for _, name := range names {
		f, err := Parse(files[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		merged.Merge(f)
	}
	return merged, nil
}

// Merge appends other's records to f.
func (f *Fixture) Merge(other *Fixture) {
	f.Students = append(f.Students, other.Students...)
	f.Courses = append(f.Courses, other.Courses...)
	f.Grades = append(f.Grades, other.Grades...)
}
