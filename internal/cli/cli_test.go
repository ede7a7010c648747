package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
students:
  - npm: "2206000001"
    name: Ani
    jurusan: Informatika
courses:
  - kode: IF2110
    nama: Algoritma
    sks: 3
    jurusan: Informatika
grades:
  - npm: "2206000001"
    kode: IF2110
    semester: Ganjil 2023/2024
    nilai: 86
`

type fakeStore struct {
	enrollments []types.Enrollment
	courses     map[string]types.Course
	imported    []types.Grade
	rotated     bool
}

func (f *fakeStore) Enrollments(_ context.Context, filter types.EnrollmentFilter) ([]types.Enrollment, error) {
	var out []types.Enrollment
	for _, e := range f.enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			continue
		}
		if filter.Semester != "" && e.Semester != filter.Semester {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) CourseIDsByCode(context.Context, []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeStore) ImportRecords(_ context.Context, _ []types.Student, _ []types.Course, grades []types.Grade) error {
	f.imported = append(f.imported, grades...)
	return nil
}

func (f *fakeStore) GetCourse(_ context.Context, id string) (*types.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: course %s", firebase.ErrNotFound, id)
	}
	return &course, nil
}

func (f *fakeStore) RotateAdminKey(context.Context) (string, error) {
	f.rotated = true
	return "admin-new", nil
}

type fakeBucket struct {
	objects  map[string][]byte
	uploaded map[string][]byte
}

func (b *fakeBucket) UploadFile(_ context.Context, path string, data []byte) error {
	b.uploaded[path] = data
	return nil
}

func (b *fakeBucket) DownloadFile(_ context.Context, path string) ([]byte, error) {
	data, ok := b.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: object %s", firebase.ErrNotFound, path)
	}
	return data, nil
}

func (b *fakeBucket) DownloadFolder(_ context.Context, folder string, _ ...string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	for name, data := range b.objects {
		if strings.HasPrefix(name, folder) {
			out[name] = data
		}
	}
	return out, nil
}

func newFakes() (*fakeStore, *fakeBucket) {
	store := &fakeStore{
		enrollments: []types.Enrollment{
			{GradeID: "g1", Semester: "Ganjil 2023/2024", Score: 90, StudentID: "s1", StudentName: "Budi", StudentNPM: "2206000002", CourseID: "c1", CourseCode: "IF2110", CourseName: "Algoritma", Credits: 3},
			{GradeID: "g2", Semester: "Ganjil 2023/2024", Score: 72, StudentID: "s1", StudentName: "Budi", StudentNPM: "2206000002", CourseID: "c2", CourseCode: "MA1101", CourseName: "Kalkulus", Credits: 2},
			{GradeID: "g3", Semester: "Ganjil 2023/2024", Score: 86, StudentID: "s2", StudentName: "Ani", StudentNPM: "2206000001", CourseID: "c1", CourseCode: "IF2110", CourseName: "Algoritma", Credits: 3},
		},
		courses: map[string]types.Course{
			"c1": {ID: "c1", Code: "IF2110", Name: "Algoritma", Credits: 3},
		},
	}
	bucket := &fakeBucket{
		objects: map[string][]byte{
			"seeds/ganjil.yaml": []byte(fixtureYAML),
		},
		uploaded: make(map[string][]byte),
	}
	return store, bucket
}

func run(t *testing.T, store *fakeStore, bucket *fakeBucket, args ...string) (string, error) {
	t.Helper()

	open := func(context.Context, log.Logger) (*backend, error) {
		return &backend{
			store:  store,
			bucket: func(context.Context) (Bucket, error) { return bucket, nil },
		}, nil
	}

	cmd := newRootCmd(open)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedFromFile(t *testing.T) {
	store, bucket := newFakes()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))

	out, err := run(t, store, bucket, "seed", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 students, 1 courses, 1 grades")
	require.Len(t, store.imported, 1)
	assert.Equal(t, "npm-2206000001.mk-if2110.ganjil2023-2024", store.imported[0].ID)
}

func TestSeedFromBucket(t *testing.T) {
	store, bucket := newFakes()

	_, err := run(t, store, bucket, "seed", "--object", "seeds/ganjil.yaml")
	require.NoError(t, err)
	assert.Len(t, store.imported, 1)

	_, err = run(t, store, bucket, "seed", "--folder", "seeds/")
	require.NoError(t, err)
	assert.Len(t, store.imported, 2)

	_, err = run(t, store, bucket, "seed", "--folder", "empty/")
	assert.Error(t, err)
}

func TestSeedDryRun(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "seed", "--object", "seeds/ganjil.yaml", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "fixture OK")
	assert.Empty(t, store.imported)
}

func TestSeedNeedsExactlyOneSource(t *testing.T) {
	store, bucket := newFakes()

	_, err := run(t, store, bucket, "seed")
	assert.Error(t, err)

	_, err = run(t, store, bucket, "seed", "--object", "a.yaml", "--folder", "seeds/")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "export")
	require.NoError(t, err)

	var snap snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 3, snap.Count)
	assert.Len(t, snap.Enrollments, 3)

	out, err = run(t, store, bucket, "export", "--upload")
	require.NoError(t, err)
	assert.Empty(t, out)
	require.Len(t, bucket.uploaded, 1)
	for path := range bucket.uploaded {
		assert.True(t, strings.HasPrefix(path, "exports/"))
		assert.True(t, strings.HasSuffix(path, "Z.json"))
	}

	file := filepath.Join(t.TempDir(), "snapshot.json")
	_, err = run(t, store, bucket, "export", "--out", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"count": 3`)
}

func TestReportIPS(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "report", "ips", "--student", "s1", "--semester", "Ganjil 2023/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "IPS 3.60 (Dengan Pujian)")
	assert.NotContains(t, out, "\x1b[")

	_, err = run(t, store, bucket, "report", "ips", "--student", "s1", "--semester", "2023")
	assert.Error(t, err)

	_, err = run(t, store, bucket, "report", "ips", "--student", "s1", "--semester", "Ganjil 2023/2024 ")
	assert.ErrorIs(t, err, grading.ErrInvalidSemester)

	_, err = run(t, store, bucket, "report", "ips", "--student", "s9", "--semester", "Genap 2023/2024")
	assert.Error(t, err)
}

func TestReportRanking(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "report", "ranking")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Ani"), strings.Index(out, "Budi"))

	_, err = run(t, store, bucket, "report", "ranking", "--course", "c9")
	assert.Error(t, err)
}

func TestReportDistribution(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "report", "distribution", "--course", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "IF2110 Algoritma")
	assert.Contains(t, out, "Semua semester")
	assert.Contains(t, out, "Total 2")

	out, err = run(t, store, bucket, "report", "distribution", "--course", "c9", "--semester", "Genap 2023/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Total 0")
}

func TestReportTranscript(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "report", "transcript", "--student", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Kalkulus")
	assert.Contains(t, out, "Lulus")
}

func TestAdminKeyRotate(t *testing.T) {
	store, bucket := newFakes()

	out, err := run(t, store, bucket, "admin-key", "rotate")
	require.NoError(t, err)
	assert.Equal(t, "admin-new\n", out)
	assert.True(t, store.rotated)
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "exports/20240201T080000Z.json", exportPath(mustTime(t, "2024-02-01T15:00:00+07:00")))
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
