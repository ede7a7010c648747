package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	studentsCollection = "students"
	coursesCollection  = "courses"
	gradesCollection   = "grades"
	apiKeysCollection  = "api_keys"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a write would break a uniqueness rule.
	ErrConflict = errors.New("document already exists")
)

// Firestore wraps the Firestore client and provides database operations
type Firestore struct {
	*firestore.Client
}

// NewFirestore creates a new Firestore client from a Firebase app
func NewFirestore(ctx context.Context, app *firebase.App) (*Firestore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
	}

	return &Firestore{
		Client: client,
	}, nil
}

// mapError turns gRPC status codes into the package's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// ValidDocID reports whether id can address a document directly. Firestore
// rejects ids containing "/" and the reserved names "." and "..".
func ValidDocID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 1500 {
		return false
	}
	if strings.Contains(id, "/") {
		return false
	}
	return !strings.HasPrefix(id, "__") || !strings.HasSuffix(id, "__")
}

// sanitizeDocID sanitizes a value for use as a Firestore document ID
func sanitizeDocID(value string) string {
	sanitized := strings.ToLower(strings.TrimSpace(value))
	sanitized = strings.ReplaceAll(sanitized, "/", "-")
	sanitized = strings.ReplaceAll(sanitized, " ", "")
	return sanitized
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// bulkJob is the part of *firestore.BulkWriterJob that reports the outcome
// of one queued write.
type bulkJob interface {
	Results() (*firestore.WriteResult, error)
}

type queuedWrite struct {
	path string
	job  bulkJob
}

// writeErrors waits for every queued write and joins the failures. Call it
// after the BulkWriter has been ended.
func writeErrors(writes []queuedWrite) error {
	var errs []error
	for _, w := range writes {
		if _, err := w.job.Results(); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", w.path, mapError(err)))
		}
	}
	return errors.Join(errs...)
}
