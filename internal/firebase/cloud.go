package firebase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	goStorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// CloudStorage holds seed fixtures and export snapshots in one bucket.
type CloudStorage struct {
	*storage.Client
	bucketName string
}

func NewCloudStorage(ctx context.Context, app *firebase.App, bucketName string) (*CloudStorage, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("storage bucket is not configured, set STORAGE_BUCKET or SAVE_ENVIRONMENT")
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}

	return &CloudStorage{
		Client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *CloudStorage) bucket() (*goStorage.BucketHandle, error) {
	bucket, err := s.Bucket(s.bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage bucket '%s': %w", s.bucketName, err)
	}
	return bucket, nil
}

func (s *CloudStorage) UploadFile(ctx context.Context, path string, data []byte) error {
	if err := validateUpload(path, data); err != nil {
		return fmt.Errorf("upload validation failed: %w", err)
	}

	bucket, err := s.bucket()
	if err != nil {
		return err
	}

	writer := bucket.Object(path).NewWriter(ctx)
	writer.ObjectAttrs.ContentType = detectContentType(path)
	writer.ObjectAttrs.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": uuid.New().String(),
	}

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of %s: %w", path, err)
	}

	return nil
}

func (s *CloudStorage) DownloadFile(ctx context.Context, path string) ([]byte, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}

	reader, err := bucket.Object(path).NewReader(ctx)
	if err != nil {
		if err == goStorage.ErrObjectNotExist {
			return nil, fmt.Errorf("%w: object %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object data: %w", err)
	}
	return data, nil
}

// DownloadFolder fetches every object under folderPath whose extension is in
// exts (all objects when exts is empty), keyed by object name.
func (s *CloudStorage) DownloadFolder(ctx context.Context, folderPath string, exts ...string) (map[string][]byte, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}

	var names []string
	objects := bucket.Objects(ctx, &goStorage.Query{Prefix: folderPath})
	for {
		object, err := objects.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		// Skip directories (objects ending with '/')
		if strings.HasSuffix(object.Name, "/") || !hasExt(object.Name, exts) {
			continue
		}
		names = append(names, object.Name)
	}

	const maxWorkers = 5
	work := make(chan string)
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		files = make(map[string][]byte, len(names))
		errs  []error
	)

	for i := 0; i < maxWorkers && i < len(names); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range work {
				data, err := s.DownloadFile(ctx, name)
				mu.Lock()
				if err != nil {
					errs = append(errs, fmt.Errorf("failed to download %s: %w", name, err))
				} else {
					files[name] = data
				}
				mu.Unlock()
			}
		}()
	}

	for _, name := range names {
		work <- name
	}
	close(work)
	wg.Wait()

	if len(errs) > 0 {
		return files, fmt.Errorf("failed to download %d files: %w", len(errs), errs[0])
	}
	return files, nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// validateUpload performs input validation for file uploads
func validateUpload(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if len(data) == 0 {
		return fmt.Errorf("file data cannot be empty")
	}

	if strings.Contains(path, "..") || strings.Contains(path, "//") {
		return fmt.Errorf("invalid file path: contains unsafe characters")
	}

	return nil
}

func detectContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".csv":
		return "text/csv"
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
