package firebase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"google.golang.org/api/iterator"
)

// KeyRequest describes a key to provision.
type KeyRequest struct {
	Owner         string
	RateLimit     int
	WindowSeconds int
	IsAdmin       bool
	ExpiresAt     time.Time
}

func newKey() (string, error) {
	keyBytes := make([]byte, 16)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(keyBytes), nil
}

func (c *Firestore) GenerateAPIKey(ctx context.Context, req KeyRequest) (string, error) {
	key, err := newKey()
	if err != nil {
		return "", err
	}

	apiKey := types.APIKey{
		Key:           key,
		Owner:         req.Owner,
		RateLimit:     req.RateLimit,
		WindowSeconds: req.WindowSeconds,
		IsAdmin:       req.IsAdmin,
		CreatedAt:     time.Now(),
		ExpiresAt:     req.ExpiresAt,
	}

	if _, err := c.Collection(apiKeysCollection).Doc(key).Set(ctx, apiKey); err != nil {
		return "", fmt.Errorf("failed to store API key: %w", err)
	}
	return key, nil
}

// ValidateAPIKey returns nil, nil for an unknown key. Expiry is checked by the
// caller. The admin key is looked up through its reserved document.
func (c *Firestore) ValidateAPIKey(ctx context.Context, key string) (*types.APIKey, error) {
	if !ValidDocID(key) {
		return nil, nil
	}

	apiKey, err := c.GetAPIKey(ctx, key)
	if err == nil {
		return apiKey, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	admin, err := c.GetAPIKey(ctx, types.AdminKeyDocID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if admin.Key != key {
		return nil, nil
	}
	return admin, nil
}

// UpdateKeyUsage increments the usage counter of a key document.
func (c *Firestore) UpdateKeyUsage(ctx context.Context, docID string) error {
	_, err := c.Collection(apiKeysCollection).Doc(docID).Update(ctx, []firestore.Update{
		{Path: "usage_count", Value: firestore.Increment(1)},
	})
	return mapError(err)
}

func (c *Firestore) GetAPIKey(ctx context.Context, docID string) (*types.APIKey, error) {
	doc, err := c.Collection(apiKeysCollection).Doc(docID).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	var apiKey types.APIKey
	if err := doc.DataTo(&apiKey); err != nil {
		return nil, err
	}

	return &apiKey, nil
}

// EnsureAdminKey returns the stored admin key, generating one on first start.
func (c *Firestore) EnsureAdminKey(ctx context.Context) (key string, created bool, err error) {
	existing, err := c.GetAPIKey(ctx, types.AdminKeyDocID)
	if err == nil && existing.Key != "" {
		return existing.Key, false, nil
	}
	if err != nil && !isNotFound(err) {
		return "", false, fmt.Errorf("failed to read admin key: %w", err)
	}

	key, err = c.storeAdminKey(ctx)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// RotateAdminKey deletes every admin key and stores a fresh one.
func (c *Firestore) RotateAdminKey(ctx context.Context) (string, error) {
	if err := c.DeleteAllAdminKeys(ctx); err != nil {
		return "", err
	}
	return c.storeAdminKey(ctx)
}

// DeleteAllAdminKeys deletes all existing admin keys from Firestore and
// reports any delete that did not go through.
func (c *Firestore) DeleteAllAdminKeys(ctx context.Context) error {
	iter := c.Collection(apiKeysCollection).Where("is_admin", "==", true).Documents(ctx)
	defer iter.Stop()

	writer := c.BulkWriter(ctx)
	var writes []queuedWrite

	err := func() error {
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to iterate admin keys: %w", err)
			}

			job, err := writer.Delete(doc.Ref)
			if err != nil {
				return fmt.Errorf("failed to queue admin key delete: %w", err)
			}
			writes = append(writes, queuedWrite{path: apiKeysCollection + "/" + doc.Ref.ID, job: job})
		}
	}()

	writer.End()
	if err != nil {
		return err
	}
	return writeErrors(writes)
}

func (c *Firestore) storeAdminKey(ctx context.Context) (string, error) {
	baseKey, err := newKey()
	if err != nil {
		return "", err
	}
	adminKey := "admin-" + baseKey

	apiKey := types.APIKey{
		Key:       adminKey,
		Owner:     types.AdminKeyDocID,
		IsAdmin:   true,
		CreatedAt: time.Now(),
	}

	if _, err := c.Collection(apiKeysCollection).Doc(types.AdminKeyDocID).Set(ctx, apiKey); err != nil {
		return "", fmt.Errorf("failed to store admin key: %w", err)
	}

	return adminKey, nil
}
