package types

import "time"

// AdminKeyDocID is the reserved document id the admin key is stored under.
const AdminKeyDocID = "admin"

// APIKey is stored under api_keys/{key}. The admin key lives under
// AdminKeyDocID instead.
type APIKey struct {
	Key           string    `firestore:"key" json:"key"`
	Owner         string    `firestore:"owner" json:"owner,omitempty"`
	RateLimit     int       `firestore:"rate_limit" json:"rate_limit"`
	WindowSeconds int       `firestore:"window_seconds" json:"window_seconds"`
	IsAdmin       bool      `firestore:"is_admin" json:"is_admin"`
	CreatedAt     time.Time `firestore:"created_at" json:"created_at"`
	ExpiresAt     time.Time `firestore:"expires_at" json:"expires_at"`
	UsageCount    int64     `firestore:"usage_count" json:"usage_count"`
}

// Expired reports whether the key is past its expiry. Admin keys and keys
// without an expiry never expire.
func (k *APIKey) Expired(now time.Time) bool {
	if k.IsAdmin || k.ExpiresAt.IsZero() {
		return false
	}
	return k.ExpiresAt.Before(now)
}

// DocID is the id of the document the key is stored under.
func (k *APIKey) DocID() string {
	if k.IsAdmin && k.Owner == AdminKeyDocID {
		return AdminKeyDocID
	}
	return k.Key
}
