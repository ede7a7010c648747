package cli

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shafwanhasyim/sikad-gg/internal/config"
	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/shafwanhasyim/sikad-gg/internal/seed"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// Store is the Firestore surface the commands use.
type Store interface {
	grading.Source
	seed.Importer
	GetCourse(ctx context.Context, id string) (*types.Course, error)
	RotateAdminKey(ctx context.Context) (string, error)
}

// Bucket is the object storage surface the commands use.
type Bucket interface {
	UploadFile(ctx context.Context, path string, data []byte) error
	DownloadFile(ctx context.Context, path string) ([]byte, error)
	DownloadFolder(ctx context.Context, folderPath string, exts ...string) (map[string][]byte, error)
}

type backend struct {
	store  Store
	bucket func(ctx context.Context) (Bucket, error)
	close  func() error
}

type opener func(ctx context.Context, logger log.Logger) (*backend, error)

func openFirebase(ctx context.Context, logger log.Logger) (*backend, error) {
	if err := config.LoadDotEnv(); err != nil {
		level.Debug(logger).Log("msg", "continuing without .env", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, cfg.FirebaseConfig, cfg.StorageBucket)
	if err != nil {
		return nil, err
	}

	db, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		return nil, err
	}

	return &backend{
		store: db,
		bucket: func(ctx context.Context) (Bucket, error) {
			storage, err := firebase.NewCloudStorage(ctx, app, cfg.StorageBucket)
			if err != nil {
				return nil, fmt.Errorf("failed to open storage: %w", err)
			}
			return storage, nil
		},
		close: db.Close,
	}, nil
}
